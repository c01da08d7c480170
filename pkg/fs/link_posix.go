//go:build !windows

package fs

import (
	"io"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// hardLink creates a hard link at dst pointing at the same inode as src.
func hardLink(src, dst string) error {
	if err := os.Link(src, dst); err != nil {
		if isCrossDeviceOrUnsupported(err) {
			return &ErrLinkUnsupported{Type: LinkTypeHard, Err: err}
		}
		return errors.Wrap(err, "unable to create hard link")
	}
	return nil
}

// softLink creates a symbolic link at dst pointing at src.
func softLink(src, dst string) error {
	if err := os.Symlink(src, dst); err != nil {
		return errors.Wrap(err, "unable to create symbolic link")
	}
	return nil
}

// isCrossDeviceOrUnsupported reports whether err indicates that hard-linking
// failed because source and destination reside on different devices, or the
// operation is otherwise unsupported by the underlying filesystem.
func isCrossDeviceOrUnsupported(err error) bool {
	linkErr, ok := err.(*os.LinkError)
	if !ok {
		return false
	}
	return linkErr.Err == syscall.EXDEV || linkErr.Err == syscall.EPERM || linkErr.Err == syscall.ENOSYS
}

// copyPath performs a copy-mode materialization: if src is a symbolic link
// with a relative target, the link is recreated rather than dereferenced;
// otherwise the file is deep-copied, preserving mode and modification time.
func copyPath(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return errors.Wrap(err, "unable to stat source")
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return errors.Wrap(err, "unable to read symbolic link")
		}
		if !filepathIsAbs(target) {
			return os.Symlink(target, dst)
		}
		// Absolute symlink targets are dereferenced and copied like any
		// other file, per the source rule (only relative targets are
		// recreated as symlinks).
		return deepCopy(src, dst)
	}

	return deepCopy(src, dst)
}

// filepathIsAbs reports whether a raw symlink target string is an absolute
// POSIX path. We don't use filepath.IsAbs here because the target may use
// separators that differ from the host in edge cases; on POSIX the check is
// trivial.
func filepathIsAbs(target string) bool {
	return len(target) > 0 && target[0] == '/'
}

// deepCopy copies the regular file at src to dst, preserving permission bits
// and modification time.
func deepCopy(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrap(err, "unable to stat source")
	}

	source, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "unable to open source")
	}
	defer source.Close()

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrap(err, "unable to create destination")
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		os.Remove(dst)
		return errors.Wrap(err, "unable to copy data")
	}

	if err := destination.Close(); err != nil {
		return errors.Wrap(err, "unable to close destination")
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.Wrap(err, "unable to set destination permissions")
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return errors.Wrap(err, "unable to set destination modification time")
	}

	return nil
}
