package tools

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherLoadsNewManifests(t *testing.T) {
	dir := t.TempDir()
	m := NewManager()

	w, err := NewWatcher(dir, m)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Close()

	writeFile(t, dir, "_ignored.yaml", "unit: utility\n")
	writeFile(t, dir, "calc.yaml", "unit: calculator\n")

	require.Eventually(t, func() bool {
		return slices.Contains(m.Names(), "calculator")
	}, 5*time.Second, 20*time.Millisecond)
	assert.NotContains(t, m.Names(), "unit_converter")
}

func TestWatcherRequiresDirectory(t *testing.T) {
	_, err := NewWatcher(t.TempDir()+"/absent", NewManager())
	assert.Error(t, err)
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), NewManager())
	require.NoError(t, err)
	w.Start(context.Background())

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
