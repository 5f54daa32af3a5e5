package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoTool() *FunctionTool {
	return NewFunctionTool(
		"echo",
		"Echo the message back.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message": map[string]any{"type": "string"},
			},
			"required": []string{"message"},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			return args["message"].(string), nil
		},
	)
}

func TestFunctionToolCall(t *testing.T) {
	echo := newEchoTool()

	result, err := echo.Call(context.Background(), map[string]any{"message": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", result)
}

func TestFunctionToolValidationError(t *testing.T) {
	echo := newEchoTool()

	_, err := echo.Call(context.Background(), map[string]any{})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
	assert.Equal(t, "echo", toolErr.Tool)
	assert.Contains(t, toolErr.Message, "message")
}

func TestFunctionToolExecutionError(t *testing.T) {
	failing := NewFunctionTool(
		"failing",
		"Always fails.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (string, error) {
			return "", errors.New("backend unavailable")
		},
	)

	_, err := failing.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Equal(t, "backend unavailable", toolErr.Message)
}

func TestFunctionToolForwardsToolError(t *testing.T) {
	custom := NewFunctionTool(
		"custom",
		"Returns a custom tool error.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ context.Context, _ map[string]any) (string, error) {
			return "", NewToolError("custom", "quota exceeded", "QUOTA")
		},
	)

	_, err := custom.Call(context.Background(), map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "QUOTA", toolErr.Code)
}

func TestFunctionToolFromStruct(t *testing.T) {
	type args struct {
		Email string `json:"email" description:"Email address of the user"`
	}
	tl := NewFunctionToolFromStruct(
		"lookup",
		"Look something up.",
		args{},
		func(_ context.Context, a map[string]any) (string, error) {
			return a["email"].(string), nil
		},
	)

	assert.Equal(t, "lookup", tl.Name())
	assert.Equal(t, "Look something up.", tl.Description())

	properties, ok := tl.Parameters()["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, properties, "email")

	result, err := tl.Call(context.Background(), map[string]any{"email": "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", result)
}

func TestToolErrorString(t *testing.T) {
	err := NewToolError("echo", "boom", CodeExecution)
	assert.Contains(t, err.Error(), "EXECUTION_ERROR")
	assert.Contains(t, err.Error(), "echo")

	uncoded := &ToolError{Tool: "echo", Message: "boom"}
	assert.Equal(t, "tool error in echo: boom", uncoded.Error())
}
