package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	// base/
	//   journal/ (.daybook)
	//     subdir/nested/
	//   loose/ (daily-task-list.yaml)
	//   empty/
	baseDir := t.TempDir()
	journal := filepath.Join(baseDir, "journal")
	subDir := filepath.Join(journal, "subdir")
	nested := filepath.Join(subDir, "nested")
	loose := filepath.Join(baseDir, "loose")
	empty := filepath.Join(baseDir, "empty")

	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.MkdirAll(loose, 0755))
	require.NoError(t, os.MkdirAll(empty, 0755))
	require.NoError(t, os.Mkdir(filepath.Join(journal, ".daybook"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(loose, "daily-task-list.yaml"), []byte("[]\n"), 0644))

	tests := []struct {
		name     string
		start    string
		wantRoot string
		wantErr  bool
	}{
		{name: "Start at Root", start: journal, wantRoot: journal},
		{name: "Start in Subdir", start: subDir, wantRoot: journal},
		{name: "Start Nested Deeply", start: nested, wantRoot: journal},
		{name: "Blob Marker", start: loose, wantRoot: loose},
		{name: "No Root Found", start: empty, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.start, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.wantRoot), filepath.Clean(got))
		})
	}
}
