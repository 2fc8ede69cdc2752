package types

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type convertParams struct {
	Value    float64 `json:"value"`
	FromUnit string  `json:"from_unit"`
	ToUnit   string  `json:"to_unit"`
	Digits   *int    `json:"digits"`
}

func newConvertTool() Tool {
	return New("convert", "Convert units.\nParams:\n value: amount", func(_ context.Context, p convertParams) (any, error) {
		return p, nil
	})
}

func TestNew_InfoAndParams(t *testing.T) {
	tool := newConvertTool()

	assert.Equal(t, "convert", tool.Name())
	info := tool.Info()
	assert.Equal(t, "Convert units.", info.Description)
	require.Len(t, info.Parameters, 4)
	assert.Equal(t, "amount", info.Parameters[0].Description)
	assert.Equal(t, info.Parameters, tool.Params())
}

func TestCall_BindsArguments(t *testing.T) {
	tool := newConvertTool()

	out, err := tool.Call(context.Background(), map[string]any{
		"value":     json.Number("2.5"),
		"from_unit": "km",
		"to_unit":   "mile",
	})
	require.NoError(t, err)

	got := out.(convertParams)
	assert.InDelta(t, 2.5, got.Value, 1e-9)
	assert.Equal(t, "km", got.FromUnit)
	assert.Equal(t, "mile", got.ToUnit)
	assert.Nil(t, got.Digits)
}

func TestCall_MissingAndUnexpected(t *testing.T) {
	tool := newConvertTool()

	_, err := tool.Call(context.Background(), map[string]any{"value": 1, "colour": "red"})
	mismatch, ok := AsArgumentMismatch(err)
	require.True(t, ok, "expected argument mismatch, got %v", err)

	assert.Equal(t, []string{"from_unit", "to_unit"}, mismatch.Missing)
	assert.Equal(t, []string{"colour"}, mismatch.Unexpected)
	assert.Equal(t, []string{"value", "from_unit", "to_unit"}, mismatch.Required)
	assert.Equal(t, []string{"value", "from_unit", "to_unit", "digits"}, mismatch.Accepted)
	assert.Equal(t, []string{"colour", "value"}, mismatch.Received)
	assert.Contains(t, mismatch.Error(), "unexpected parameters: colour")
	assert.Contains(t, mismatch.Error(), "missing required parameters: from_unit, to_unit")
}

func TestCall_WrongType(t *testing.T) {
	tool := newConvertTool()

	_, err := tool.Call(context.Background(), map[string]any{
		"value":     "ten",
		"from_unit": "km",
		"to_unit":   "mile",
	})
	mismatch, ok := AsArgumentMismatch(err)
	require.True(t, ok, "expected argument mismatch, got %v", err)
	assert.Contains(t, mismatch.Reason, `"value"`)
	assert.Empty(t, mismatch.Missing)
}

func TestCall_NilArgsForParameterlessTool(t *testing.T) {
	tool := New("ping", "", func(context.Context, struct{}) (any, error) {
		return "pong", nil
	})

	out, err := tool.Call(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", out)
}

func TestCall_BodyErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	tool := New("fail", "", func(context.Context, struct{}) (any, error) {
		return nil, boom
	})

	_, err := tool.Call(context.Background(), map[string]any{})
	assert.ErrorIs(t, err, boom)
	_, isMismatch := AsArgumentMismatch(err)
	assert.False(t, isMismatch)
}

func TestErrorKinds(t *testing.T) {
	notFound := error(&NotFoundError{Name: "missing"})
	assert.ErrorIs(t, notFound, ErrToolNotFound)
	assert.Contains(t, notFound.Error(), "missing")

	cause := errors.New("disk on fire")
	execErr := error(&ExecutionError{Tool: "t", Err: cause})
	assert.ErrorIs(t, execErr, cause)
	got, ok := AsExecutionError(execErr)
	require.True(t, ok)
	assert.Equal(t, "t", got.Tool)

	_, ok = AsExecutionError(nil)
	assert.False(t, ok)
}
