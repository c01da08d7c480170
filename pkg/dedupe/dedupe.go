// Package dedupe implements the duplicate reaper: given the
// set of distributions currently linked into a prefix and a set of
// distributions that must survive, it computes which linked distributions
// are redundant copies of an already-kept package name.
package dedupe

import (
	"github.com/tomhendersonfl/conda/pkg/dist"
)

// ToRemove groups distMetas by package name and, within each group of two
// or more, marks members for removal: if any member of the group also
// appears in keepDists, every other member is removed; otherwise every
// member except the lexicographically greatest is removed. The result is
// returned sorted and contains no duplicates, so applying ToRemove to the
// distributions that remain after removing its result (with the same
// keepDists) always yields an empty slice.
func ToRemove(distMetas []dist.Key, keepDists []dist.Key) []dist.Key {
	keep := make(map[dist.Key]bool, len(keepDists))
	for _, k := range keepDists {
		keep[k] = true
	}

	groups := make(map[string][]dist.Key)
	var order []string
	listed := make(map[dist.Key]bool, len(distMetas))
	for _, d := range distMetas {
		if listed[d] {
			continue
		}
		listed[d] = true
		name := d.Name()
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], d)
	}

	var toRemove []dist.Key
	for _, name := range order {
		group := groups[name]
		if len(group) < 2 {
			continue
		}

		anyKept := false
		for _, d := range group {
			if keep[d] {
				anyKept = true
				break
			}
		}

		sorted := append([]dist.Key(nil), group...)
		dist.Sort(sorted)

		if anyKept {
			for _, d := range sorted {
				if !keep[d] {
					toRemove = append(toRemove, d)
				}
			}
		} else {
			toRemove = append(toRemove, sorted[:len(sorted)-1]...)
		}
	}

	dist.Sort(toRemove)
	return toRemove
}
