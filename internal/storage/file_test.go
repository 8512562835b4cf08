package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	// Setup
	dir := t.TempDir()
	path := filepath.Join(dir, "saves", "save_1.json")

	// Test case 1: Creates missing directories
	require.NoError(t, WriteFileAtomic(path, []byte(`{"a":1}`), 0644))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	// Test case 2: Replaces existing content
	require.NoError(t, WriteFileAtomic(path, []byte(`{"a":2}`), 0600))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPendingFileCleanup(t *testing.T) {
	// Setup
	dir := t.TempDir()
	path := filepath.Join(dir, "save_2.json")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	// Test case 1: A write abandoned before the replace keeps the previous bytes
	pending, err := NewPendingFile(path, 0644)
	require.NoError(t, err)
	_, err = pending.Write([]byte("replacement"))
	require.NoError(t, err)
	require.NoError(t, pending.Cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	// Test case 2: Temp file was removed
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "save_2.json", entries[0].Name())
}

func TestWriteFileAtomicReplaceFailure(t *testing.T) {
	// Setup
	dir := t.TempDir()
	path := filepath.Join(dir, "save_3.json")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "occupied"), 0755))

	// Test case 1: A directory in the way fails the rename
	err := WriteFileAtomic(path, []byte("replacement"), 0644)
	assert.ErrorContains(t, err, "failed to replace save_3.json")

	// Test case 2: Nothing but the directory remains
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())
}
