package markdownparser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shibukawa/walkthrough"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ParseError reports markdown input that could not be read or decoded.
// Missing walkthrough structure never produces a ParseError.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "failed to parse walkthrough markdown: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Heading prefixes stripped from step titles, tried in order.
var stepPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^Step\s+\d+:\s*`),
	regexp.MustCompile(`^\d+\.\s*`),
	regexp.MustCompile(`^\d+\)\s*`),
}

// Parse parses a markdown walkthrough and returns the structured document
func Parse(reader io.Reader) (*walkthrough.Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to read content: %w", err)}
	}

	return ParseString(string(content))
}

// ParseString parses markdown text held in memory.
func ParseString(content string) (*walkthrough.Document, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	blocks, err := parseBlocks(content)
	if err != nil {
		return nil, err
	}

	return buildDocument(blocks), nil
}

// parseBlocks runs the document grammar and lowers the result.
func parseBlocks(content string) ([]block, error) {
	var blocks []block

	raw, body, found := splitFrontMatter(content)
	if found {
		metadata, err := parseMetadata(raw)
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		blocks = append(blocks, frontMatterBlock{metadata: metadata})
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
	)

	source := []byte(body)
	doc := md.Parser().Parse(text.NewReader(source))

	return append(blocks, lowerBlocks(doc, source)...), nil
}

// buildDocument walks the lowered blocks in document order.
func buildDocument(blocks []block) *walkthrough.Document {
	doc := walkthrough.NewDocument()

	if len(blocks) > 0 {
		if fm, ok := blocks[0].(frontMatterBlock); ok {
			doc.Metadata = fm.metadata
			blocks = blocks[1:]
		}
	}

	builder := &stepBuilder{
		unifiedMode: doc.Metadata.Mode == walkthrough.ModeUnified,
		steps:       []walkthrough.Step{},
	}

	if builder.unifiedMode {
		doc.UnifiedCode, blocks = takeUnifiedCode(blocks)
		builder.unified = doc.UnifiedCode
	}

	for _, b := range blocks {
		builder.visit(b)
	}

	builder.flush()
	doc.Steps = builder.steps

	return doc
}

// takeUnifiedCode removes the first code block and returns it as the shared code.
func takeUnifiedCode(blocks []block) (*walkthrough.UnifiedCode, []block) {
	for i, b := range blocks {
		code, ok := b.(codeBlock)
		if !ok {
			continue
		}

		info := ParseCodeInfo(code.tag, code.meta)
		rest := make([]block, 0, len(blocks)-1)
		rest = append(rest, blocks[:i]...)
		rest = append(rest, blocks[i+1:]...)

		return &walkthrough.UnifiedCode{
			Language: info.Language,
			Content:  code.content,
		}, rest
	}

	return nil, blocks
}

// stepBuilder accumulates the open step until the next level-2 heading.
type stepBuilder struct {
	unifiedMode bool
	unified     *walkthrough.UnifiedCode
	current     *walkthrough.StepDraft
	steps       []walkthrough.Step
}

func (b *stepBuilder) visit(n block) {
	switch node := n.(type) {
	case headingBlock:
		if node.level == 2 {
			b.flush()
			b.current = &walkthrough.StepDraft{Title: stripStepPrefix(node.text)}
		}

	case paragraphBlock:
		b.paragraph(node.text)

	case codeBlock:
		b.code(node)

	case frontMatterBlock, otherBlock:
		// Not part of any step.
	}
}

func (b *stepBuilder) paragraph(text string) {
	step := b.current
	if step == nil {
		return
	}

	if step.Description == "" {
		if lines, ok := b.directive(text); ok {
			step.HighlightLines = lines
			return
		}

		step.Description = text

		return
	}

	if lines, ok := b.directive(text); ok {
		step.HighlightLines = lines
		return
	}

	if step.Code != nil {
		step.Notes += text + "\n\n"
	}
}

// directive reports a highlight directive; only unified mode has them.
func (b *stepBuilder) directive(text string) ([]int, bool) {
	if !b.unifiedMode {
		return nil, false
	}

	return parseHighlightDirective(text)
}

func (b *stepBuilder) code(node codeBlock) {
	step := b.current
	if step == nil || b.unifiedMode || step.Code != nil {
		return
	}

	info := ParseCodeInfo(node.tag, node.meta)
	step.Code = &walkthrough.CodeBlock{
		Language:       info.Language,
		Content:        node.content,
		HighlightLines: ParseHighlightLines(info.Highlight),
	}
}

// flush finalizes the open step; steps without a title are dropped.
func (b *stepBuilder) flush() {
	step := b.current
	b.current = nil

	if step == nil || step.Title == "" {
		return
	}

	var unified *walkthrough.UnifiedCode
	if b.unifiedMode {
		unified = b.unified
	}

	b.steps = append(b.steps, walkthrough.FinalizeStep(*step, len(b.steps)+1, unified))
}

// stripStepPrefix removes a leading "Step N:", "N." or "N)" from a heading.
func stripStepPrefix(heading string) string {
	for _, prefix := range stepPrefixes {
		if loc := prefix.FindStringIndex(heading); loc != nil {
			heading = heading[loc[1]:]
			break
		}
	}

	return strings.TrimSpace(heading)
}
