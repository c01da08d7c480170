package rewrite

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Mode identifies how a has_prefix entry should be rewritten.
type Mode string

const (
	ModeText   Mode = "text"
	ModeBinary Mode = "binary"
)

// Entry is a single has_prefix record: the placeholder baked into the file
// at build time, and whether it should be rewritten as text or binary.
type Entry struct {
	Placeholder string
	Mode        Mode
}

// ParseHasPrefix reads an info/has_prefix file and returns a map from
// relative file path to its placeholder/mode entry. Lines are shell-style
// tokenized (posix=False, so backslashes are literal, matching Windows
// paths). A line that does not tokenize into exactly three fields is
// treated as a bare relative path using the default Placeholder and text
// mode. A missing file is not an error; it yields an empty map, since
// most packages have no prefix-dependent files.
func ParseHasPrefix(path string) (map[string]Entry, error) {
	result := make(map[string]Entry)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, errors.Wrap(err, "unable to open has_prefix file")
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		placeholder, mode, f, ok := splitHasPrefixLine(line)
		if !ok {
			result[line] = Entry{Placeholder: Placeholder, Mode: ModeText}
			continue
		}
		result[f] = Entry{Placeholder: placeholder, Mode: Mode(mode)}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to read has_prefix file")
	}
	return result, nil
}

// splitHasPrefixLine tokenizes a has_prefix line into exactly three
// whitespace-separated fields, stripping a single layer of surrounding
// quotes from each. It returns ok=false for anything that doesn't produce
// exactly three tokens, matching the source's fallback-on-ValueError
// behavior.
func splitHasPrefixLine(line string) (placeholder, mode, file string, ok bool) {
	fields, err := shlexSplit(line)
	if err != nil || len(fields) != 3 {
		return "", "", "", false
	}
	return fields[0], fields[1], fields[2], true
}

// shlexSplit performs a minimal shell-style split that honors single and
// double quoted fields, mirroring Python's shlex.split(line, posix=False)
// closely enough for has_prefix's three-field grammar: whitespace
// separates fields, and a field may be wrapped in matching quotes which
// are then stripped.
func shlexSplit(line string) ([]string, error) {
	var fields []string
	var current strings.Builder
	var quote rune
	inField := false

	flush := func() {
		if inField {
			fields = append(fields, current.String())
			current.Reset()
			inField = false
		}
	}

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inField = true
		case r == ' ' || r == '\t':
			flush()
		default:
			inField = true
			current.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quote in has_prefix line")
	}
	flush()
	return fields, nil
}
