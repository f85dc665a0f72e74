package walkthrough

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the fixed schema tag written into every document.
const SchemaVersion = "1.0"

// Default values applied when a document or step leaves a field unset.
const (
	DefaultTitle     = "Untitled Walkthrough"
	DefaultStepTitle = "Untitled Step"
	DefaultLanguage  = "text"
)

// Mode selects how steps relate to code blocks.
type Mode string

const (
	// ModeSeparate gives every step its own independent code block.
	ModeSeparate Mode = "separate"
	// ModeUnified makes every step a view over one shared code block.
	ModeUnified Mode = "unified"
)

// ParseMode maps a front matter value to a Mode. Anything other than
// "unified" is separate.
func ParseMode(value string) Mode {
	if strings.EqualFold(strings.TrimSpace(value), string(ModeUnified)) {
		return ModeUnified
	}

	return ModeSeparate
}

// Difficulty is the optional difficulty level of a walkthrough.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ParseDifficulty normalizes value and reports whether it is a known level.
func ParseDifficulty(value string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(value)))
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return d, true
	default:
		return "", false
	}
}

// Document is the root walkthrough artifact.
type Document struct {
	Version     string       `json:"version" yaml:"version"`
	Metadata    Metadata     `json:"metadata" yaml:"metadata"`
	Steps       []Step       `json:"steps" yaml:"steps"`
	UnifiedCode *UnifiedCode `json:"unifiedCode,omitempty" yaml:"unifiedCode,omitempty"`
}

// Metadata describes the walkthrough as a whole.
type Metadata struct {
	Title         string     `json:"title" yaml:"title"`
	EstimatedTime string     `json:"estimatedTime,omitempty" yaml:"estimatedTime,omitempty"`
	Difficulty    Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
	Mode          Mode       `json:"mode" yaml:"mode"`
}

// Step is one navigable unit of a walkthrough.
type Step struct {
	ID          string     `json:"id" yaml:"id"`
	Number      int        `json:"number" yaml:"number"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Code        *CodeBlock `json:"code,omitempty" yaml:"code,omitempty"`
	Notes       string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// CodeBlock is the code attached to a step.
type CodeBlock struct {
	Language       string `json:"language" yaml:"language"`
	Content        string `json:"content" yaml:"content"`
	HighlightLines []int  `json:"highlightLines" yaml:"highlightLines"`
}

// UnifiedCode is the single code block shared by all steps in unified mode.
type UnifiedCode struct {
	Language string `json:"language" yaml:"language"`
	Content  string `json:"content" yaml:"content"`
}

// NewDocument returns an empty document carrying the schema tag and
// default metadata.
func NewDocument() *Document {
	return &Document{
		Version:  SchemaVersion,
		Metadata: DefaultMetadata(),
		Steps:    []Step{},
	}
}

// DefaultMetadata returns the metadata used when a document has no
// metadata block.
func DefaultMetadata() Metadata {
	return Metadata{
		Title: DefaultTitle,
		Mode:  ModeSeparate,
	}
}

// StepID derives the identifier of the step with the given number.
func StepID(number int) string {
	return "step-" + strconv.Itoa(number)
}

// StepDraft is a step accumulator that has not been finalized yet.
type StepDraft struct {
	Title          string
	Description    string
	Code           *CodeBlock
	HighlightLines []int
	Notes          string
}

// FinalizeStep freezes a draft into a Step with the given number.
//
// When unified is non-nil the step's code becomes a view over it marked with
// the draft's highlight lines; otherwise the draft's own code is used.
func FinalizeStep(draft StepDraft, number int, unified *UnifiedCode) Step {
	step := Step{
		ID:          StepID(number),
		Number:      number,
		Title:       draft.Title,
		Description: draft.Description,
		Notes:       strings.TrimSpace(draft.Notes),
	}

	if step.Title == "" {
		step.Title = DefaultStepTitle
	}

	switch {
	case unified != nil:
		step.Code = &CodeBlock{
			Language:       unified.Language,
			Content:        unified.Content,
			HighlightLines: nonNilLines(draft.HighlightLines),
		}
	case draft.Code != nil:
		code := *draft.Code
		if code.Language == "" {
			code.Language = DefaultLanguage
		}
		code.HighlightLines = nonNilLines(code.HighlightLines)
		step.Code = &code
	}

	return step
}

func nonNilLines(lines []int) []int {
	if lines == nil {
		return []int{}
	}

	return lines
}

// LineCount returns the number of lines in the code content.
func (c *CodeBlock) LineCount() int {
	if c == nil {
		return 0
	}

	return strings.Count(c.Content, "\n") + 1
}

// WriteJSON writes the document as pretty printed JSON with a two space indent.
func (d *Document) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(d)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	return nil
}

// WriteYAML writes the document as YAML with a two space indent.
func (d *Document) WriteYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	err := encoder.Encode(d)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	return encoder.Close()
}

// ReadDocument decodes a persisted JSON document.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document

	decoder := json.NewDecoder(r)
	err := decoder.Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return normalizeDocument(&doc)
}

// ReadDocumentYAML decodes a document written by WriteYAML.
func ReadDocumentYAML(r io.Reader) (*Document, error) {
	var doc Document

	decoder := yaml.NewDecoder(r)
	err := decoder.Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return normalizeDocument(&doc)
}

func normalizeDocument(doc *Document) (*Document, error) {
	if doc.Version != "" && doc.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Version)
	}

	if doc.Version == "" {
		doc.Version = SchemaVersion
	}

	if doc.Metadata.Mode == "" {
		doc.Metadata.Mode = ModeSeparate
	}

	if doc.Steps == nil {
		doc.Steps = []Step{}
	}

	return doc, nil
}
