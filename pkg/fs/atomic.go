package fs

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteFileAtomic writes data to path by first writing to a sibling
// temporary file and then renaming it into place, so that readers never
// observe a partially-written file.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	if err := EnsureParentDirectory(path, 0755); err != nil {
		return err
	}

	temp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "unable to create temporary file")
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return errors.Wrap(err, "unable to write temporary file")
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Wrap(err, "unable to close temporary file")
	}
	if err := os.Chmod(tempPath, mode); err != nil {
		os.Remove(tempPath)
		return errors.Wrap(err, "unable to set temporary file permissions")
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Wrap(err, "unable to rename temporary file into place")
	}
	return nil
}
