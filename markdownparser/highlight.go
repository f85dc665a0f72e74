package markdownparser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shibukawa/walkthrough"
)

// MaxHighlightSpan is the widest range a single highlight item may expand to.
// Wider ranges contribute no lines.
const MaxHighlightSpan = 10000

var (
	highlightRangeList = regexp.MustCompile(`\d+(?:-\d+)?(?:,\d+(?:-\d+)?)*`)
	highlightDirective = regexp.MustCompile(`(?i)^highlight:\s*(.+)$`)
)

// ParseHighlightLines expands the first range list found in s, such as
// "1-3,5", into line numbers. Items keep their order and duplicates are kept.
// A reversed range ("5-2") contributes nothing. The result is never nil.
func ParseHighlightLines(s string) []int {
	lines := []int{}

	list := highlightRangeList.FindString(s)
	if list == "" {
		return lines
	}

	for _, item := range strings.Split(list, ",") {
		start, end, isRange := strings.Cut(item, "-")

		from, err := strconv.Atoi(start)
		if err != nil {
			continue
		}

		if !isRange {
			lines = append(lines, from)
			continue
		}

		to, err := strconv.Atoi(end)
		if err != nil || to < from || to-from >= MaxHighlightSpan {
			continue
		}

		for i := from; i <= to; i++ {
			lines = append(lines, i)
		}
	}

	return lines
}

// parseHighlightDirective recognizes a "highlight: 1-3" paragraph.
func parseHighlightDirective(text string) ([]int, bool) {
	match := highlightDirective.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return nil, false
	}

	return ParseHighlightLines(match[1]), true
}

// CodeInfo is the decoded info string of a fenced code block.
type CodeInfo struct {
	Language  string // Language name, "text" when the tag is empty
	Highlight string // Source of the highlight ranges
}

// ParseCodeInfo decodes a code block tag of the form language[:suffix].
//
// When the tag carries a colon its suffix, even an empty one, is the
// highlight source; otherwise the metadata string attached after the tag is.
func ParseCodeInfo(tag, meta string) CodeInfo {
	language, suffix, hasSuffix := strings.Cut(tag, ":")
	if language == "" {
		language = walkthrough.DefaultLanguage
	}

	info := CodeInfo{
		Language:  language,
		Highlight: meta,
	}
	if hasSuffix {
		info.Highlight = suffix
	}

	return info
}
