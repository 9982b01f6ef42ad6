package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "weather")
	require.NoError(t, os.Mkdir(dir, 0o755))
	t.Chdir(dir)

	for _, in := range []string{".", "./", dir, dir + "/", filepath.Join("..", "weather")} {
		got, err := folderName(in)
		require.NoError(t, err)
		assert.Equal(t, "weather", got, in)
	}
}

func TestTrimBody(t *testing.T) {
	assert.Equal(t, "installed", trimBody("  installed\n"))
}
