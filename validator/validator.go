// Package validator reports advisory warnings about a finished walkthrough
// document. It never modifies the document.
package validator

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shibukawa/walkthrough"
	"github.com/shibukawa/walkthrough/tokenizer"
)

// DefaultMaxTitleLength is the step title length above which a quality
// warning is reported.
const DefaultMaxTitleLength = 80

// WarningType groups warnings by severity.
type WarningType string

const (
	// TypeStructure marks a malformed document. Any structure warning makes
	// the result invalid.
	TypeStructure WarningType = "structure"
	// TypeCompatibility marks content the highlighter cannot render.
	TypeCompatibility WarningType = "compatibility"
	// TypeQuality marks content that is valid but could be better.
	TypeQuality WarningType = "quality"
)

// ParseWarningType returns the WarningType named by s.
func ParseWarningType(s string) (WarningType, bool) {
	switch t := WarningType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeStructure, TypeCompatibility, TypeQuality:
		return t, true
	default:
		return "", false
	}
}

// Warning is a single finding.
type Warning struct {
	Type     WarningType `json:"type"`
	Message  string      `json:"message"`
	Location string      `json:"location,omitempty"`
}

// Result is the outcome of Validate.
type Result struct {
	Valid    bool      `json:"valid"`
	Warnings []Warning `json:"warnings"`
}

// ByType returns the warnings of type t in report order.
func (r Result) ByType(t WarningType) []Warning {
	var warnings []Warning

	for _, w := range r.Warnings {
		if w.Type == t {
			warnings = append(warnings, w)
		}
	}

	return warnings
}

// LanguageSet answers which code languages can be highlighted.
// *tokenizer.Tokenizer satisfies it.
type LanguageSet interface {
	Has(lang string) bool
	Languages() []string
}

// Options configures Validate. The zero value uses the built-in tokenizer
// languages and DefaultMaxTitleLength.
type Options struct {
	Languages      LanguageSet
	MaxTitleLength int
	Rules          []*Rule
}

// Validate checks doc and returns every warning found.
func Validate(doc *walkthrough.Document, opts Options) Result {
	if opts.Languages == nil {
		opts.Languages = tokenizer.New()
	}

	if opts.MaxTitleLength <= 0 {
		opts.MaxTitleLength = DefaultMaxTitleLength
	}

	v := &validation{opts: opts, warnings: []Warning{}}

	if len(doc.Steps) == 0 {
		v.add(TypeStructure, "", "Walkthrough has no steps")
	}

	if doc.Metadata.EstimatedTime == "" && len(doc.Steps) > 0 {
		v.add(TypeQuality, "", "Missing estimated time in metadata")
	}

	if doc.Metadata.Difficulty == "" && len(doc.Steps) > 0 {
		v.add(TypeQuality, "", "Missing difficulty level in metadata")
	}

	for i, step := range doc.Steps {
		v.checkStep(i, step)
	}

	v.checkNumbering(doc.Steps)
	v.checkDuplicateIDs(doc.Steps)

	for _, rule := range opts.Rules {
		for i, step := range doc.Steps {
			v.applyRule(rule, doc, i, step)
		}
	}

	return Result{
		Valid:    len(v.byType(TypeStructure)) == 0,
		Warnings: v.warnings,
	}
}

type validation struct {
	opts     Options
	warnings []Warning
}

func (v *validation) add(t WarningType, location, format string, args ...any) {
	v.warnings = append(v.warnings, Warning{
		Type:     t,
		Message:  fmt.Sprintf(format, args...),
		Location: location,
	})
}

func (v *validation) byType(t WarningType) []Warning {
	return Result{Warnings: v.warnings}.ByType(t)
}

func stepLocation(step walkthrough.Step) string {
	return fmt.Sprintf("Step %d %q", step.Number, step.Title)
}

func (v *validation) checkStep(index int, step walkthrough.Step) {
	location := stepLocation(step)

	if length := utf8.RuneCountInString(step.Title); length > v.opts.MaxTitleLength {
		v.add(TypeQuality, location, "Title is very long (%d characters, recommend < %d)", length, v.opts.MaxTitleLength)
	}

	if strings.TrimSpace(step.Description) == "" {
		v.add(TypeQuality, location, "Step has empty description")
	}

	if step.Code == nil {
		if index > 0 {
			v.add(TypeQuality, location, "Step has no code block")
		}

		return
	}

	v.checkCode(location, step.Code)
}

func (v *validation) checkCode(location string, code *walkthrough.CodeBlock) {
	language := strings.ToLower(code.Language)
	if language != walkthrough.DefaultLanguage && !v.opts.Languages.Has(language) {
		v.add(TypeCompatibility, location,
			"Language %q is not supported for syntax highlighting. Supported: %s",
			code.Language, strings.Join(v.opts.Languages.Languages(), ", "))
	}

	if strings.TrimSpace(code.Content) == "" {
		v.add(TypeQuality, location, "Code block is empty")
	}

	if len(code.HighlightLines) == 0 {
		return
	}

	lineCount := code.LineCount()

	if highest := slices.Max(code.HighlightLines); highest > lineCount {
		v.add(TypeStructure, location, "Highlight line %d exceeds code length (%d lines)", highest, lineCount)
	}

	if lowest := slices.Min(code.HighlightLines); lowest < 1 {
		v.add(TypeStructure, location, "Highlight line %d is not a valid line number", lowest)
	}
}

func (v *validation) checkNumbering(steps []walkthrough.Step) {
	seen := make(map[int]bool, len(steps))
	for _, step := range steps {
		seen[step.Number] = true
	}

	for i := 1; i <= len(steps); i++ {
		if !seen[i] {
			v.add(TypeStructure, "", "Step numbering gap: missing step %d", i)
		}
	}
}

func (v *validation) checkDuplicateIDs(steps []walkthrough.Step) {
	counts := make(map[string]int, len(steps))

	var duplicates []string

	for _, step := range steps {
		counts[step.ID]++
		if counts[step.ID] == 2 {
			duplicates = append(duplicates, step.ID)
		}
	}

	if len(duplicates) > 0 {
		v.add(TypeStructure, "", "Duplicate step IDs found: %s", strings.Join(duplicates, ", "))
	}
}
