package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCache_CleansRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "old"), 0o755))

	c, err := OpenCache(root, false)
	require.NoError(t, err)
	assert.False(t, c.Retained())

	entries, err := os.ReadDir(c.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, c.Close())
	assert.NoDirExists(t, root)
	assert.NoError(t, c.Close(), "Close is idempotent")
}

func TestOpenCache_Retain(t *testing.T) {
	root := filepath.Join(t.TempDir(), "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "old"), 0o755))

	c, err := OpenCache(root, true)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(root, "old"))

	require.NoError(t, c.Close())
	assert.DirExists(t, filepath.Join(root, "old"))
}

func TestOpenCache_EmptyRoot(t *testing.T) {
	_, err := OpenCache("", false)
	assert.Error(t, err)
}

func TestRemoveAllForce_ReadOnlyTree(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := filepath.Join(t.TempDir(), "clone")
	objects := filepath.Join(root, ".git", "objects")
	require.NoError(t, os.MkdirAll(objects, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(objects, "pack"), []byte("x"), 0o444))
	require.NoError(t, os.Chmod(objects, 0o555))

	require.NoError(t, removeAllForce(root))
	assert.NoDirExists(t, root)
}
