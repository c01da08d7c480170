package engine

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/tomhendersonfl/conda/pkg/rewrite"
)

// readLines reads a newline-separated manifest file, stripping blank lines
// and "#"-prefixed comments, matching the source's yield_lines helper. A
// missing file yields an empty slice rather than an error.
func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// readNoLink reads the union of info/no_link and info/no_softlink as a set
// of relative paths (or glob patterns; a package may list a pattern
// instead of enumerating every matching file).
func readNoLink(infoDir string) (map[string]bool, error) {
	set := make(map[string]bool)
	for _, name := range []string{"no_link", "no_softlink"} {
		lines, err := readLines(filepath.Join(infoDir, name))
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			set[line] = true
		}
	}
	return set, nil
}

// matchesNoLink reports whether f is excluded from linking by noLink,
// either by exact membership or, for entries containing glob metacharacters,
// by doublestar pattern match.
func matchesNoLink(noLink map[string]bool, f string) bool {
	if noLink[f] {
		return true
	}
	for pattern := range noLink {
		if !strings.ContainsAny(pattern, "*?[") {
			continue
		}
		if ok, _ := doublestar.Match(pattern, f); ok {
			return true
		}
	}
	return false
}

// sortedHasPrefixFiles returns the keys of entries in deterministic sorted
// order, so prefix rewrites are applied in a reproducible order.
func sortedHasPrefixFiles(entries map[string]rewrite.Entry) []string {
	files := make([]string, 0, len(entries))
	for f := range entries {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// isMenuFile reports whether f is a Menu/*.json entry, matching
// case-insensitively as the source does.
func isMenuFile(f string) bool {
	ok, _ := doublestar.Match("menu/*.json", strings.ToLower(f))
	return ok
}

// menuFiles filters files down to those matching isMenuFile.
func menuFiles(files []string) []string {
	var result []string
	for _, f := range files {
		if isMenuFile(f) {
			result = append(result, f)
		}
	}
	return result
}
