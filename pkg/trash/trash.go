// Package trash implements the quarantine fallback used when a path cannot
// be deleted outright: rather than losing track of it, the
// path is relocated into a per-cache-directory .trash subtree for later
// cleanup.
package trash

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// dirName is the quarantine subdirectory created under each cache
// directory.
const dirName = ".trash"

// Trash moves unremovable paths into quarantine subdirectories of a fixed
// set of cache directories, and implements the fs.TrashMover interface
// consumed by pkg/fs's recursive delete fallback.
type Trash struct {
	cacheDirs []string
}

// New returns a Trash that quarantines into the given cache directories, in
// the order they should be tried.
func New(cacheDirs []string) *Trash {
	return &Trash{cacheDirs: cacheDirs}
}

// Move relocates path into the .trash subtree of the first cache directory
// that accepts it, returning true on success. Before each attempt it
// opportunistically runs DeleteTrash to reclaim space from prior
// quarantines; failures there are not fatal to the move itself.
func (t *Trash) Move(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, errors.Wrap(err, "unable to resolve absolute path")
	}

	var lastErr error
	for _, cacheDir := range t.cacheDirs {
		t.DeleteTrash(cacheDir)

		quarantine := filepath.Join(cacheDir, dirName, uuid.NewString())
		relPath := relativeFromRoot(absPath)
		dest := filepath.Join(quarantine, relPath)

		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			lastErr = err
			continue
		}
		if err := os.Rename(absPath, dest); err != nil {
			lastErr = err
			continue
		}
		return true, nil
	}
	if lastErr != nil {
		return false, errors.Wrap(lastErr, "unable to move path to trash in any cache directory")
	}
	return false, nil
}

// DeleteTrash recursively removes the .trash subtree of cacheDir, with a
// single retry and no attempt to re-trash a failure. Errors are swallowed
// (matching the source's best-effort, log-and-continue cleanup), since a
// failed cleanup attempt must never prevent the Move it was opportunistically
// called from proceeding.
func (t *Trash) DeleteTrash(cacheDir string) {
	path := filepath.Join(cacheDir, dirName)
	if err := os.RemoveAll(path); err != nil {
		os.RemoveAll(path)
	}
}

// relativeFromRoot strips the OS path separator prefix (and, on Windows,
// drive letter) from an absolute path so it can be joined under a
// quarantine directory without escaping it.
func relativeFromRoot(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "/")
	if len(path) >= 2 && path[1] == ':' {
		path = path[:1] + path[2:]
	}
	return filepath.FromSlash(path)
}
