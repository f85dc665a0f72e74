package llmparser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shibukawa/walkthrough"
)

// rawDocument is the shape the model is asked to produce. Every field is
// optional except steps.
type rawDocument struct {
	Metadata *rawMetadata `json:"metadata"`
	Steps    *[]rawStep   `json:"steps"`
}

type rawMetadata struct {
	Title         looseString `json:"title"`
	EstimatedTime looseString `json:"estimatedTime"`
	Difficulty    looseString `json:"difficulty"`
	Description   looseString `json:"description"`
	Mode          looseString `json:"mode"`
}

type rawStep struct {
	Title       looseString `json:"title"`
	Description looseString `json:"description"`
	Code        *rawCode    `json:"code"`
	Notes       looseString `json:"notes"`
}

type rawCode struct {
	Language       looseString `json:"language"`
	Content        looseString `json:"content"`
	HighlightLines []int       `json:"highlightLines"`
}

// looseString accepts a JSON string, number, boolean or null.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*s = looseString(data)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("expected a string, got %s", data)
		}
		*s = looseString(data)
	}

	return nil
}

func (s looseString) String() string {
	return strings.TrimSpace(string(s))
}

// DecodeResponse turns the model's text output into a finalized document.
//
// Markdown fences around the JSON are removed. Steps are renumbered in
// order and every default the markdown parser applies is applied here too.
// In unified mode the first step carrying code supplies the shared code.
func DecodeResponse(text string) (*walkthrough.Document, error) {
	payload := stripFences(text)

	var raw rawDocument

	err := json.Unmarshal([]byte(payload), &raw)
	if err != nil {
		return nil, extractionError(StageDecode, fmt.Errorf("failed to parse response as JSON: %w", err))
	}

	if raw.Steps == nil {
		return nil, extractionError(StageSchema, ErrMissingSteps)
	}

	doc := walkthrough.NewDocument()
	if raw.Metadata != nil {
		doc.Metadata = decodeMetadata(*raw.Metadata)
	}

	drafts := make([]walkthrough.StepDraft, 0, len(*raw.Steps))
	for _, step := range *raw.Steps {
		drafts = append(drafts, decodeStep(step))
	}

	if doc.Metadata.Mode == walkthrough.ModeUnified {
		doc.UnifiedCode = firstCode(drafts)
	}

	for i, draft := range drafts {
		doc.Steps = append(doc.Steps, walkthrough.FinalizeStep(draft, i+1, doc.UnifiedCode))
	}

	return doc, nil
}

// stripFences removes a surrounding ``` or ```json fence. Fences inside the
// JSON payload are left alone.
func stripFences(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		_, rest, found := strings.Cut(text, "\n")
		if !found {
			rest = strings.TrimPrefix(strings.TrimPrefix(text, "```"), "json")
		}
		text = rest
	}

	text = strings.TrimSpace(text)

	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

func decodeMetadata(raw rawMetadata) walkthrough.Metadata {
	metadata := walkthrough.DefaultMetadata()

	if title := raw.Title.String(); title != "" {
		metadata.Title = title
	}

	metadata.EstimatedTime = raw.EstimatedTime.String()
	metadata.Description = raw.Description.String()

	if difficulty, ok := walkthrough.ParseDifficulty(raw.Difficulty.String()); ok {
		metadata.Difficulty = difficulty
	}

	metadata.Mode = walkthrough.ParseMode(raw.Mode.String())

	return metadata
}

func decodeStep(raw rawStep) walkthrough.StepDraft {
	draft := walkthrough.StepDraft{
		Title:       raw.Title.String(),
		Description: raw.Description.String(),
		Notes:       raw.Notes.String(),
	}

	if raw.Code != nil {
		draft.Code = &walkthrough.CodeBlock{
			Language:       raw.Code.Language.String(),
			Content:        string(raw.Code.Content),
			HighlightLines: raw.Code.HighlightLines,
		}
		draft.HighlightLines = raw.Code.HighlightLines
	}

	return draft
}

func firstCode(drafts []walkthrough.StepDraft) *walkthrough.UnifiedCode {
	for _, draft := range drafts {
		if draft.Code == nil {
			continue
		}

		language := draft.Code.Language
		if language == "" {
			language = walkthrough.DefaultLanguage
		}

		return &walkthrough.UnifiedCode{Language: language, Content: draft.Code.Content}
	}

	return nil
}
