package scaffold

import (
	"os"
	"path/filepath"

	"github.com/stamp-dev/stamp/internal/platform"
)

const tmpPattern = ".stamp-tmp-*"

// writeFileAtomic writes data to path through a temp file in the same
// directory and a rename, so readers never observe a partially written file.
// The original file, if any, is left untouched on failure. The parent
// directory must exist.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), tmpPattern)
	if err != nil {
		return err
	}
	tmpPath := f.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := platform.Chmod(tmpPath, perm); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
