package fs

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

// DefaultMaxRetries is the default number of attempts RemoveAll makes to
// delete a directory subtree before giving up and propagating the error.
const DefaultMaxRetries = 5

// TrashMover relocates a path into a quarantine area as a last resort when a
// directory cannot be deleted outright (e.g. because a file inside it is
// still open on Windows). It returns true if the path no longer exists
// afterward. RemoveAll treats a nil TrashMover as "trash disabled".
type TrashMover interface {
	Move(path string) (bool, error)
}

// RemoveOptions configures RemoveAll.
type RemoveOptions struct {
	// MaxRetries is the number of attempts to make before propagating the
	// final underlying error. Zero selects DefaultMaxRetries.
	MaxRetries int
	// Trash, if non-nil, is consulted as a last-resort fallback when a
	// directory cannot be removed directly.
	Trash TrashMover
}

// RemoveAll deletes path completely: a file or symbolic link (including a
// dead one) is unlinked directly; a directory subtree is removed with
// retries, linear backoff, and (on failure, if configured) a trash fallback.
func RemoveAll(path string, options RemoveOptions) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "unable to stat path")
	}

	if info.Mode()&os.ModeSymlink != 0 || !info.IsDir() {
		if err := os.Remove(path); err != nil {
			return errors.Wrap(err, "unable to remove path")
		}
		return nil
	}

	return removeDirectory(path, options)
}

// removeDirectory implements the directory branch of RemoveAll: retry with
// linear backoff, platform-specific fallbacks (read-only clearing, native
// rd /s /q) after each failed attempt, and a trash fallback as the final resort
// before the last attempt is allowed to propagate its error.
func removeDirectory(path string, options RemoveOptions) error {
	maxRetries := options.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if err := os.RemoveAll(path); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if resolved, err := removeDirectoryPlatformFallback(path, options); err != nil {
			lastErr = err
		} else if resolved {
			return nil
		}

		time.Sleep(time.Duration(i) * time.Second)
	}

	// Final attempt: propagate whatever error results.
	if err := os.RemoveAll(path); err != nil {
		return errors.Wrap(err, "unable to remove directory after retries")
	}
	_ = lastErr
	return nil
}

// RemoveEmptyDirectory removes path if it exists and is an empty directory;
// it is a no-op if path does not exist or is not empty.
func RemoveEmptyDirectory(path string) {
	os.Remove(path)
}
