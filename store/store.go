// Package store defines the user persistence collaborator consumed by the
// chat pipeline. The pipeline only ever reads from it; write paths exist for
// seeding and tests.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no user record matches the requested email.
// A miss is an expected outcome, not a failure; callers report it verbatim.
var ErrNotFound = errors.New("user not found")

// User is a single user record. Profile may be empty when the user has not
// filled one in.
type User struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Profile string `json:"profile,omitempty"`
}

// Store provides read access to user records. Implementations must be safe
// for concurrent use by multiple in-flight requests.
type Store interface {
	// FindUserByEmail returns the user with the given email or ErrNotFound.
	FindUserByEmail(ctx context.Context, email string) (*User, error)

	// ListEmails returns all known user emails in a stable order.
	ListEmails(ctx context.Context) ([]string, error)
}
