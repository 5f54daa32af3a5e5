package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finassist/finassist/store"
)

func TestUserProfileToolFound(t *testing.T) {
	users := store.NewInMemoryStore()
	users.AddUser(store.User{
		Email:   "alice@example.com",
		Name:    "Alice",
		Profile: "Premium checking customer since 2019.",
	})

	profileTool := NewUserProfileTool(users)
	result, err := profileTool.Call(context.Background(), map[string]any{"email": "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "User: Alice. Profile: Premium checking customer since 2019.", result)
}

func TestUserProfileToolEmptyProfile(t *testing.T) {
	users := store.NewInMemoryStore()
	users.AddUser(store.User{Email: "bob@example.com", Name: "Bob"})

	profileTool := NewUserProfileTool(users)
	result, err := profileTool.Call(context.Background(), map[string]any{"email": "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "User: Bob. Profile: No profile.", result)
}

func TestUserProfileToolNotFound(t *testing.T) {
	profileTool := NewUserProfileTool(store.NewInMemoryStore())

	// A lookup miss is an ordinary result, not an error.
	result, err := profileTool.Call(context.Background(), map[string]any{"email": "ghost@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "User with email ghost@example.com not found.", result)
}

func TestUserProfileToolMissingEmail(t *testing.T) {
	profileTool := NewUserProfileTool(store.NewInMemoryStore())

	_, err := profileTool.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
}
