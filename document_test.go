package walkthrough

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeUnified, ParseMode("unified"))
	assert.Equal(t, ModeUnified, ParseMode(" Unified "))
	assert.Equal(t, ModeSeparate, ParseMode("separate"))
	assert.Equal(t, ModeSeparate, ParseMode(""))
	assert.Equal(t, ModeSeparate, ParseMode("something"))
}

func TestParseDifficulty(t *testing.T) {
	d, ok := ParseDifficulty("Beginner")
	assert.True(t, ok)
	assert.Equal(t, DifficultyBeginner, d)

	d, ok = ParseDifficulty("advanced")
	assert.True(t, ok)
	assert.Equal(t, DifficultyAdvanced, d)

	_, ok = ParseDifficulty("expert")
	assert.False(t, ok)
}

func TestFinalizeStep(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		step := FinalizeStep(StepDraft{Notes: "  \n "}, 3, nil)

		assert.Equal(t, "step-3", step.ID)
		assert.Equal(t, 3, step.Number)
		assert.Equal(t, DefaultStepTitle, step.Title)
		assert.Equal(t, "", step.Description)
		assert.Equal(t, "", step.Notes)
		assert.True(t, step.Code == nil)
	})

	t.Run("separate mode keeps own code", func(t *testing.T) {
		step := FinalizeStep(StepDraft{
			Title: "Install",
			Code:  &CodeBlock{Language: "bash", Content: "npm i"},
			Notes: "first\n\nsecond\n\n",
		}, 1, nil)

		assert.Equal(t, "Install", step.Title)
		assert.Equal(t, &CodeBlock{Language: "bash", Content: "npm i", HighlightLines: []int{}}, step.Code)
		assert.Equal(t, "first\n\nsecond", step.Notes)
	})

	t.Run("unified mode synthesizes code", func(t *testing.T) {
		unified := &UnifiedCode{Language: "go", Content: "a\nb\nc"}
		step := FinalizeStep(StepDraft{
			Title:          "Look",
			Code:           &CodeBlock{Language: "bash", Content: "ignored"},
			HighlightLines: []int{2},
		}, 2, unified)

		assert.Equal(t, &CodeBlock{Language: "go", Content: "a\nb\nc", HighlightLines: []int{2}}, step.Code)
	})
}

func TestCodeBlockLineCount(t *testing.T) {
	var missing *CodeBlock
	assert.Equal(t, 0, missing.LineCount())
	assert.Equal(t, 1, (&CodeBlock{Content: ""}).LineCount())
	assert.Equal(t, 3, (&CodeBlock{Content: "a\nb\nc"}).LineCount())
}

func TestDocumentWriteJSON(t *testing.T) {
	doc := NewDocument()
	doc.Metadata.Title = "Demo"
	doc.Steps = append(doc.Steps, FinalizeStep(StepDraft{
		Title:       "Install",
		Description: "Run it.",
		Code:        &CodeBlock{Language: "bash", Content: "npm install pkg"},
	}, 1, nil))

	var buf bytes.Buffer
	err := doc.WriteJSON(&buf)
	assert.NoError(t, err)

	expected := `{
  "version": "1.0",
  "metadata": {
    "title": "Demo",
    "mode": "separate"
  },
  "steps": [
    {
      "id": "step-1",
      "number": 1,
      "title": "Install",
      "description": "Run it.",
      "code": {
        "language": "bash",
        "content": "npm install pkg",
        "highlightLines": []
      }
    }
  ]
}
`
	assert.Equal(t, expected, buf.String())
}

func TestDocumentWriteYAML(t *testing.T) {
	doc := NewDocument()
	doc.Metadata.Mode = ModeUnified
	doc.UnifiedCode = &UnifiedCode{Language: "go", Content: "package main"}

	var buf bytes.Buffer
	err := doc.WriteYAML(&buf)
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "version: \"1.0\"")
	assert.Contains(t, out, "mode: unified")
	assert.Contains(t, out, "unifiedCode:\n  language: go\n  content: package main")
}

func TestReadDocument(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		doc := NewDocument()
		doc.Steps = append(doc.Steps, FinalizeStep(StepDraft{Title: "One"}, 1, nil))

		var buf bytes.Buffer
		assert.NoError(t, doc.WriteJSON(&buf))

		decoded, err := ReadDocument(&buf)
		assert.NoError(t, err)
		assert.Equal(t, doc, decoded)
	})

	t.Run("fills missing defaults", func(t *testing.T) {
		decoded, err := ReadDocument(strings.NewReader(`{"metadata":{"title":"X"}}`))
		assert.NoError(t, err)
		assert.Equal(t, SchemaVersion, decoded.Version)
		assert.Equal(t, ModeSeparate, decoded.Metadata.Mode)
		assert.Equal(t, []Step{}, decoded.Steps)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ReadDocument(strings.NewReader(`{"steps": [`))
		assert.IsError(t, err, ErrInvalidDocument)
	})

	t.Run("unknown version", func(t *testing.T) {
		_, err := ReadDocument(strings.NewReader(`{"version":"9.9"}`))
		assert.IsError(t, err, ErrUnsupportedVersion)
	})
}

func TestReadDocumentYAML(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		doc := NewDocument()
		doc.Metadata.Difficulty = DifficultyAdvanced
		doc.Steps = append(doc.Steps, FinalizeStep(StepDraft{
			Title:       "One",
			Description: "First step.",
			Code:        &CodeBlock{Language: "go", Content: "package main\n\nfunc main() {}", HighlightLines: []int{1, 3}},
		}, 1, nil))
		doc.Steps = append(doc.Steps, FinalizeStep(StepDraft{
			Title: "Two",
			Code:  &CodeBlock{Language: "bash", Content: "go run ."},
		}, 2, nil))

		var buf bytes.Buffer
		assert.NoError(t, doc.WriteYAML(&buf))

		decoded, err := ReadDocumentYAML(&buf)
		assert.NoError(t, err)
		assert.Equal(t, doc, decoded)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ReadDocumentYAML(strings.NewReader("steps: [\n"))
		assert.IsError(t, err, ErrInvalidDocument)
	})

	t.Run("unknown version", func(t *testing.T) {
		_, err := ReadDocumentYAML(strings.NewReader("version: \"2.0\"\n"))
		assert.IsError(t, err, ErrUnsupportedVersion)
	})
}
