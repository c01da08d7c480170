package locking

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// lockFileName is the name of the advisory lock file placed inside a locked
// directory. It mirrors conda's historical ".conda-lock" marker.
const lockFileName = ".conda-lock"

// Scoped represents a held lock on a directory. Exit releases the lock
// unconditionally, including along error paths, and is idempotent.
type Scoped struct {
	locker *Locker
	closed bool
}

// Locked acquires an exclusive, blocking lock on the given directory and
// returns a handle whose Exit releases it. Callers nest locks in a fixed
// order (prefix outermost, package cache innermost) to avoid deadlock; this
// function does not itself enforce ordering, since it only ever locks one
// directory at a time.
func Locked(directory string) (*Scoped, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, errors.Wrap(err, "unable to create directory to lock")
	}
	path := filepath.Join(directory, lockFileName)
	locker, err := NewLocker(path, 0644)
	if err != nil {
		return nil, err
	}
	if err := locker.Lock(true); err != nil {
		locker.Close()
		return nil, errors.Wrap(err, "unable to acquire lock")
	}
	return &Scoped{locker: locker}, nil
}

// Exit releases the lock and closes its underlying file handle. It is safe
// to call more than once; only the first call has effect.
func (s *Scoped) Exit() error {
	if s.closed {
		return nil
	}
	s.closed = true
	unlockErr := s.locker.Unlock()
	closeErr := s.locker.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
