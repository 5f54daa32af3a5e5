package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileArgs struct {
	Email string  `json:"email" description:"Email address of the user"`
	Limit int     `json:"limit,omitempty"`
	Note  *string `json:"note"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(profileArgs{})

	assert.Equal(t, "object", schema["type"])

	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok)

	email, ok := properties["email"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", email["type"])
	assert.Equal(t, "Email address of the user", email["description"])

	limit, ok := properties["limit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", limit["type"])

	// omitempty and pointer fields are optional
	assert.Equal(t, []string{"email"}, schema["required"])
}

func TestCreateSchemaNonStruct(t *testing.T) {
	schema := CreateSchema("not a struct")
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
}

func TestValidateParameters(t *testing.T) {
	schema := CreateSchema(profileArgs{})

	err := ValidateParameters(map[string]any{"email": "alice@example.com"}, schema)
	assert.NoError(t, err)

	err = ValidateParameters(map[string]any{}, schema)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	err = ValidateParameters(map[string]any{"email": 42}, schema)
	require.Error(t, err)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestValidateParametersRequiredFromJSON(t *testing.T) {
	// Schemas round-tripped through JSON carry required as []any.
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"email": map[string]any{"type": "string"},
		},
		"required": []any{"email"},
	}

	err := ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)

	err = ValidateParameters(map[string]any{"email": "bob@example.com"}, schema)
	assert.NoError(t, err)
}

func TestValidateParametersAllowsExtraFields(t *testing.T) {
	schema := CreateSchema(profileArgs{})
	err := ValidateParameters(map[string]any{"email": "a@b.c", "unexpected": true}, schema)
	assert.NoError(t, err)
}

func TestNewID(t *testing.T) {
	id := NewID()
	assert.NotEmpty(t, id)
	assert.Len(t, id, 36) // UUID length
	assert.NotEqual(t, id, NewID())
}
