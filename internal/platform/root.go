package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/daybook/pkg/core"
)

// FindRoot looks upwards from startDir for a directory holding a daybook,
// marked by the system directory or one of the collection blobs.
func FindRoot(startDir, systemDir string) (string, error) {
	if systemDir == "" {
		systemDir = ".daybook"
	}
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	markers := []string{systemDir}
	for _, key := range []string{core.VoiceNotesKey, core.TasksKey} {
		markers = append(markers, key+".json", key+".yaml")
	}

	dir := abs
	for {
		for _, m := range markers {
			if hasFile(dir, m) {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no daybook found from %s", abs)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
