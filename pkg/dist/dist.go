// Package dist implements parsing and formatting of distribution keys, the
// canonical identifiers for a package version+build tracked by the linking
// engine.
//
// A distribution key has the form "[<schannel>::]<name>-<version>-<build>".
// The channel prefix is absent when the channel is the implicit default
// channel ("defaults").
package dist

import (
	"sort"
	"strings"
)

// DefaultChannel is the implicit channel name used when a distribution key
// carries no explicit channel prefix.
const DefaultChannel = "defaults"

// Key is a channel-qualified distribution identifier.
type Key string

// Pair splits a key into its channel and bare tail. If the key carries no
// "<channel>::" prefix, the channel is DefaultChannel.
func (k Key) Pair() (channel string, tail string) {
	if idx := strings.Index(string(k), "::"); idx >= 0 {
		return string(k)[:idx], string(k)[idx+2:]
	}
	return DefaultChannel, string(k)
}

// Channel returns the key's channel, or DefaultChannel if none is encoded.
func (k Key) Channel() string {
	channel, _ := k.Pair()
	return channel
}

// Tail returns the key with any channel prefix stripped.
func (k Key) Tail() string {
	_, tail := k.Pair()
	return tail
}

// Name returns the package name: the tail with its trailing version and
// build fields removed. name_dist is stable under channel prefixing:
// Key("ch::foo-1.0-0").Name() == Key("foo-1.0-0").Name() == "foo".
func (k Key) Name() string {
	tail := k.Tail()
	parts := strings.Split(tail, "-")
	if len(parts) <= 2 {
		return tail
	}
	return strings.Join(parts[:len(parts)-2], "-")
}

// Version returns the version field, or "" if the tail is malformed.
func (k Key) Version() string {
	parts := strings.Split(k.Tail(), "-")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-2]
}

// Build returns the build field, or "" if the tail is malformed.
func (k Key) Build() string {
	parts := strings.Split(k.Tail(), "-")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-1]
}

// ArchiveName returns the tail suffixed with ".tar.bz2", the name of the
// cached archive for this distribution.
func (k Key) ArchiveName() string {
	return k.Tail() + ".tar.bz2"
}

// MetaName returns the tail suffixed with ".json", the name of the
// conda-meta record for this distribution.
func (k Key) MetaName() string {
	return k.Tail() + ".json"
}

// WithChannel builds a Key from a channel and a bare tail, omitting the
// channel prefix when channel is DefaultChannel or empty.
func WithChannel(channel, tail string) Key {
	if channel == "" || channel == DefaultChannel {
		return Key(tail)
	}
	return Key(channel + "::" + tail)
}

// Less reports whether a sorts before b, lexicographically on the full key
// (spec: "Sort order over distributions is lexicographic on the full key").
func Less(a, b Key) bool {
	return string(a) < string(b)
}

// Sort sorts a slice of keys in place, in lexicographic order.
func Sort(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		return Less(keys[i], keys[j])
	})
}
