// Package winpath translates Windows-style paths into the Unix-style
// representation that cygwin/msys shells expect, following the behavior
// documented by conda's original win_path_to_unix helper: a ";"-separated
// string of paths is converted piecewise, each drive-letter path becoming
// "<rootPrefix>/<drive-letter>/<drive-relative-path>" with backslashes
// turned to slashes and the colon dropped.
package winpath

import (
	"regexp"
	"strings"
)

// driveLetterPath matches a single drive-letter path segment, e.g.
// "C:\foo\bar" or "C:/foo/bar".
var driveLetterPath = regexp.MustCompile(`^[a-zA-Z]:[/\\]`)

// ToUnix converts path, or a ";"-separated string of paths, into its
// Unix-style representation. A segment that is not a recognized
// drive-letter path is passed through unmodified. rootPrefix, if
// non-empty, is prepended to every converted drive-letter segment (the
// cygwin "/cygdrive" mount point convention); the default "" matches the
// original's "does not add cygdrive" behavior.
func ToUnix(path, rootPrefix string) string {
	segments := strings.Split(path, ";")
	for i, segment := range segments {
		segments[i] = convertSegment(segment, rootPrefix)
	}
	return strings.Join(segments, ":")
}

func convertSegment(segment, rootPrefix string) string {
	if !driveLetterPath.MatchString(segment) {
		return segment
	}
	rest := strings.ReplaceAll(segment[:1]+segment[2:], "\\", "/")
	return rootPrefix + "/" + rest
}
