// Package rewrite implements in-place rewriting of the build-time prefix
// placeholder embedded in linked files, so that a package built against one
// install path can be relinked under another.
package rewrite

import (
	"bytes"
	"os"
	"regexp"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Placeholder is the canonical placeholder baked into packages at build
// time. It is intentionally split across two literals so that running this
// program against its own binary does not trigger a rewrite.
const Placeholder = "/opt/anaconda1anaconda2" + "anaconda3"

// PaddingError indicates that a binary rewrite cannot preserve file length:
// the replacement is longer than the run of placeholder bytes it would
// replace, so there is no room to pad with NUL bytes.
type PaddingError struct {
	Placeholder []byte
	Replacement []byte
	Padding     int
}

func (e *PaddingError) Error() string {
	return errors.Errorf(
		"cannot rewrite %d-byte placeholder with %d-byte replacement: padding would be %d",
		len(e.Placeholder), len(e.Replacement), e.Padding,
	).Error()
}

// Text rewrites all literal occurrences of placeholder with newPrefix in
// path, treating the file as text (length may change). It is a no-op if the
// placeholder does not occur.
func Text(path, placeholder, newPrefix string) error {
	return rewriteFile(path, func(data []byte) ([]byte, error) {
		return bytes.ReplaceAll(data, []byte(placeholder), []byte(newPrefix)), nil
	})
}

// Binary rewrites all occurrences of placeholder with newPrefix in path,
// preserving the exact file length by padding each replaced run with NUL
// bytes. It returns *PaddingError if newPrefix is too long to fit within a
// run of the placeholder followed by the existing NUL terminator.
func Binary(path, placeholder, newPrefix string) error {
	return rewriteFile(path, func(data []byte) ([]byte, error) {
		return binaryReplace(data, []byte(placeholder), []byte(newPrefix))
	})
}

// binaryReplace replaces every occurrence of a within a NUL-terminated run
// with b, padding the run with NUL bytes so that its length - and hence the
// length of data as a whole - is unchanged. It mirrors the source's
// strategy of matching "a" followed by any run of non-NUL bytes up to the
// next NUL, so that repeated adjacent placeholders within a single
// C-string run are replaced together and padded once.
func binaryReplace(data, a, b []byte) ([]byte, error) {
	pattern := regexp.MustCompile(regexp.QuoteMeta(string(a)) + `([^\x00]*?)\x00`)

	var padErr error
	result := pattern.ReplaceAllFunc(data, func(match []byte) []byte {
		if padErr != nil {
			return match
		}
		occurrences := bytes.Count(match, a)
		padding := (len(a)-len(b))*occurrences
		if padding < 0 {
			padErr = &PaddingError{Placeholder: a, Replacement: b, Padding: padding}
			return match
		}
		replaced := bytes.ReplaceAll(match, a, b)
		return append(replaced, bytes.Repeat([]byte{0}, padding)...)
	})
	if padErr != nil {
		return nil, padErr
	}
	if len(result) != len(data) {
		return nil, errors.New("binary replacement changed file length")
	}
	return result, nil
}

// rewriteFile applies transform to the contents of path, and if the result
// differs from the original data, unlinks the file before writing the new
// contents back under the same name. Unlinking first prevents the write
// from clobbering other hard links sharing the same inode (e.g. the
// original copy sitting in the package cache).
func rewriteFile(path string, transform func([]byte) ([]byte, error)) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errors.Wrap(err, "unable to stat file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "unable to read file")
	}

	newData, err := transform(data)
	if err != nil {
		return err
	}
	if bytes.Equal(newData, data) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errors.Wrap(err, "unable to remove file before rewrite")
	}

	if err := os.WriteFile(path, newData, info.Mode().Perm()); err != nil {
		return errors.Wrap(err, "unable to write rewritten file")
	}
	return nil
}

// AdjustSeparators converts backslashes to forward slashes in newPrefix
// when running on Windows and the placeholder being replaced is a
// non-default, Unix-style placeholder. The default build placeholder is
// always Unix-style and is handled identically on every platform; this
// only matters for custom has_prefix placeholders recorded by a package.
func AdjustSeparators(placeholder, newPrefix string) string {
	if runtime.GOOS == "windows" && placeholder != Placeholder && strings.Contains(placeholder, "/") {
		return strings.ReplaceAll(newPrefix, "\\", "/")
	}
	return newPrefix
}
