// Package sqlite provides a SQLite-backed user store. The driver is cgo-free
// (modernc.org/sqlite) so the binary stays a single static artifact.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/finassist/finassist/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	email   TEXT NOT NULL UNIQUE,
	name    TEXT NOT NULL,
	profile TEXT NOT NULL DEFAULT ''
);
`

// Store implements store.Store on top of a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path and applies the schema. Creates the
// file if missing. Use ":memory:" for an ephemeral database in tests.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// FindUserByEmail implements store.Store.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*store.User, error) {
	row := s.db.QueryRowContext(
		ctx,
		"SELECT id, email, name, profile FROM users WHERE email = ?",
		email,
	)

	var u store.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	return &u, nil
}

// ListEmails implements store.Store. Emails are returned in lexical order so
// callers see a stable sequence.
func (s *Store) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT email FROM users ORDER BY email")
	if err != nil {
		return nil, fmt.Errorf("listing emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

// CreateUser inserts a user record. It exists for seeding and tests; the
// chat pipeline never writes to the store.
func (s *Store) CreateUser(ctx context.Context, u store.User) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		"INSERT INTO users (email, name, profile) VALUES (?, ?, ?)",
		u.Email, u.Name, u.Profile,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	return res.LastInsertId()
}
