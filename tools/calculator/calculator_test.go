package calculator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	cases := map[string]string{
		"1+1":                "2",
		"2*3+5":              "11",
		"sqrt(9)":            "3",
		"2^3":                "8",
		"2**10":              "1024",
		"7/2":                "3.5",
		"1加1等于几":             "2",
		"计算 6除3":             "2",
		"what is 7 times 6?": "42",
		"10 minus 4":         "6",
	}
	for input, want := range cases {
		got, err := Evaluate(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	for _, input := range []string{"", "   ", "1+", "unknown_fn(2)", `"text"`} {
		_, err := Evaluate(input)
		assert.Error(t, err, input)
	}
}

func TestTool(t *testing.T) {
	tool := New()

	info := tool.Info()
	assert.Equal(t, "calculator", info.Name)
	assert.Equal(t, "Evaluate a mathematical expression.\n\nAccepts plain arithmetic such as \"2*3+5\" and simple questions such as \"1加1等于几\" or \"what is 7 times 6\".", info.Description)
	require.Len(t, info.Parameters, 1)
	assert.Equal(t, "expression", info.Parameters[0].Name)
	assert.Equal(t, "string", info.Parameters[0].Type)
	assert.NotEmpty(t, info.Parameters[0].Description)

	out, err := tool.Call(context.Background(), map[string]any{"expression": "2*3+5"})
	require.NoError(t, err)
	assert.Equal(t, "11", out)

	out, err = tool.Call(context.Background(), map[string]any{"expression": "1+"})
	require.NoError(t, err)
	assert.Contains(t, out, "calculation error")
}
