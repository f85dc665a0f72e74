package markdownparser

import (
	"strings"

	"github.com/shibukawa/walkthrough"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// block is the closed set of top-level nodes the step builder consumes.
// Every goldmark block is lowered into exactly one of these.
type block interface {
	isBlock()
}

// frontMatterBlock is the leading metadata block.
type frontMatterBlock struct {
	metadata walkthrough.Metadata
}

// headingBlock is an ATX or setext heading.
type headingBlock struct {
	level int
	text  string
}

// paragraphBlock is a paragraph flattened to plain text.
type paragraphBlock struct {
	text string
}

// codeBlock is a fenced or indented code block.
type codeBlock struct {
	tag     string // First word of the info string
	meta    string // Rest of the info string
	content string
}

// otherBlock is any block that does not take part in step extraction
// (lists, quotes, tables, thematic breaks, HTML).
type otherBlock struct {
	kind string
}

func (frontMatterBlock) isBlock() {}
func (headingBlock) isBlock()     {}
func (paragraphBlock) isBlock()   {}
func (codeBlock) isBlock()        {}
func (otherBlock) isBlock()       {}

// lowerBlocks converts the top-level children of a goldmark document.
func lowerBlocks(doc ast.Node, source []byte) []block {
	blocks := make([]block, 0, doc.ChildCount())

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			blocks = append(blocks, headingBlock{
				level: node.Level,
				text:  strings.TrimSpace(inlineText(node, source)),
			})

		case *ast.Paragraph:
			blocks = append(blocks, paragraphBlock{text: inlineText(node, source)})

		case *ast.FencedCodeBlock:
			tag, meta := splitInfo(node, source)
			blocks = append(blocks, codeBlock{
				tag:     tag,
				meta:    meta,
				content: codeContent(node, source),
			})

		case *ast.CodeBlock:
			blocks = append(blocks, codeBlock{content: codeContent(node, source)})

		default:
			blocks = append(blocks, otherBlock{kind: n.Kind().String()})
		}
	}

	return blocks
}

// splitInfo splits a fenced code block's info string into its tag and metadata.
func splitInfo(node *ast.FencedCodeBlock, source []byte) (string, string) {
	if node.Info == nil {
		return "", ""
	}

	info := strings.TrimSpace(string(node.Info.Value(source)))

	i := strings.IndexAny(info, " \t")
	if i < 0 {
		return info, ""
	}

	return info[:i], strings.TrimSpace(info[i:])
}

// codeContent joins the lines of a code block without the final line break.
func codeContent(node ast.Node, source []byte) string {
	var content strings.Builder

	lines := node.Lines()
	for i := range lines.Len() {
		line := lines.At(i)
		content.Write(line.Value(source))
	}

	return strings.TrimSuffix(content.String(), "\n")
}

// inlineText flattens the inline children of n into plain text.
func inlineText(n ast.Node, source []byte) string {
	var text strings.Builder

	writeInline(&text, n, source)

	return text.String()
}

func writeInline(text *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			value := node.Value(source)
			if !node.IsRaw() {
				value = util.UnescapePunctuations(value)
				value = util.ResolveNumericReferences(value)
				value = util.ResolveEntityNames(value)
			}

			text.Write(value)

			if node.SoftLineBreak() || node.HardLineBreak() {
				text.WriteByte('\n')
			}

		case *ast.String:
			text.Write(node.Value)

		case *ast.AutoLink:
			text.Write(node.Label(source))

		case *ast.Image, *ast.RawHTML:
			// No visible text.

		default:
			writeInline(text, c, source)
		}
	}
}
