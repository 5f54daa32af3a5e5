package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/finassist/finassist/store"
)

// userProfileArgs is the argument container for the get_user_profile tool.
type userProfileArgs struct {
	Email string `json:"email" description:"Email address of the user"`
}

// NewUserProfileTool builds the lookup tool the data agent uses to fetch a
// user by email. The tool never fabricates data: a missing record is reported
// verbatim as a "not found" result, and malformed input yields a descriptive
// validation error the agent can relay in natural language.
func NewUserProfileTool(users store.Store, optFns ...func(o *FunctionToolOptions)) *FunctionTool {
	return NewFunctionToolFromStruct(
		"get_user_profile",
		"Fetch a user by email and return their name and profile.",
		userProfileArgs{},
		func(ctx context.Context, args map[string]any) (string, error) {
			email, _ := args["email"].(string)

			u, err := users.FindUserByEmail(ctx, email)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Sprintf("User with email %s not found.", email), nil
			}
			if err != nil {
				return "", err
			}

			profile := u.Profile
			if profile == "" {
				profile = "No profile."
			}
			return fmt.Sprintf("User: %s. Profile: %s", u.Name, profile), nil
		},
		optFns...,
	)
}
