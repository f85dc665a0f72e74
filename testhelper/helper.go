package testhelper

import (
	"regexp"
	"strings"
	"testing"
)

var (
	whiteSpaces = regexp.MustCompile(`^([ \t]+)`)
	fenceMarker = regexp.MustCompile(`(?m)^'''`)
)

// TrimIndent removes the indentation of the first non-empty line from every
// line of src and drops the leading line break of a raw string literal.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(strings.TrimPrefix(src, "\n"), "\n")

	var indent string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			indent = whiteSpaces.FindString(line)
			break
		}
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}

	return strings.Join(lines, "\n")
}

// Markdown is TrimIndent for markdown fixtures: a line starting with ''' is
// turned into a ``` code fence so fixtures can live in raw string literals.
func Markdown(t *testing.T, src string) string {
	t.Helper()

	return fenceMarker.ReplaceAllString(TrimIndent(t, src), "```")
}
