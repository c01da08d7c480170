package dist

import (
	"regexp"
	"strings"
)

// platformSubdirs are the per-platform path segments that terminate a
// channel's URL, used by ClassifyURL to find the channel-name segment that
// precedes them.
var platformSubdirs = map[string]bool{
	"linux-64": true, "linux-32": true, "linux-aarch64": true, "linux-ppc64le": true,
	"osx-64": true, "osx-arm64": true,
	"win-64": true, "win-32": true,
	"noarch": true,
}

// ClassifyURL derives a channel name from a package download URL: the path
// segment immediately preceding the platform subdirectory. It returns
// DefaultChannel for an empty URL or one whose shape it does not
// recognize.
func ClassifyURL(url string) string {
	if url == "" {
		return DefaultChannel
	}
	trimmed := strings.TrimRight(url, "/")
	segments := strings.Split(trimmed, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if platformSubdirs[segments[i]] && i > 0 {
			return segments[i-1]
		}
	}
	return DefaultChannel
}

// binstarTokenPattern matches an anaconda.org authentication token
// segment, "/t/<token>/", embedded in a channel URL.
var binstarTokenPattern = regexp.MustCompile(`/t/[^/]+/`)

// StripBinstarToken removes an embedded anaconda.org auth token from a
// package URL, so that tokens never end up persisted in urls.txt or used
// as part of a cache key.
func StripBinstarToken(url string) string {
	return binstarTokenPattern.ReplaceAllString(url, "/")
}
