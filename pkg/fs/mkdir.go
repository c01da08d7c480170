package fs

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// EnsureParentDirectory creates the parent directory of path (and any
// missing ancestors) if it does not already exist.
func EnsureParentDirectory(path string, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return errors.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	}
	return os.MkdirAll(dir, mode)
}
