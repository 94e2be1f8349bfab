package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Replaces Blob Without Leftovers", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "daily-task-list.json")

		require.NoError(t, os.WriteFile(filename, []byte("[]"), 0644))
		require.NoError(t, writeFileAtomic(filename, []byte(`[{"id":"a"}]`), 0644))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"a"}]`, string(got))

		entries, err := os.ReadDir(tmpDir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.HasPrefix(e.Name(), TempFilePrefix), "temp file left behind: %s", e.Name())
		}
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "missing", "blob.json")
		assert.Error(t, writeFileAtomic(filename, []byte("x"), 0644))
	})
}
