package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagDir, flagAll, flagJSON, flagConfig = "", false, false, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCallCommand(t *testing.T) {
	out, err := execute(t, "call", "calculator", `{"expression":"2 plus 3"}`, "--all")
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, map[string]any{"value": "5"}, resp["result"])
}

func TestCallCommandReportsFailure(t *testing.T) {
	out, err := execute(t, "call", "calculator", `{}`, "--all")
	require.ErrorIs(t, err, errCallFailed)
	assert.Contains(t, out, "missing required parameters: expression")

	_, err = execute(t, "call", "calculator", `{not json`, "--all")
	assert.Error(t, err)
}

func TestToolsCommandDiscoversDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weather.yaml"), []byte("unit: weather\n"), 0o644))

	out, err := execute(t, "tools", "--dir", dir, "--json")
	require.NoError(t, err)

	var listing struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	require.Len(t, listing.Tools, 2)
	assert.Equal(t, "weather", listing.Tools[0].Name)
	assert.Equal(t, "get_weather", listing.Tools[1].Name)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mcp-toolserver 1.0\n", out)
}
