package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/shibukawa/walkthrough"
	"github.com/shibukawa/walkthrough/tokenizer"
)

// HighlightCmd represents the highlight command
type HighlightCmd struct {
	File   string `arg:"" help:"Source file to highlight" type:"path"`
	Lang   string `help:"Language name (default: derived from the file extension)"`
	Format string `help:"Output format" enum:"ansi,json" default:"ansi"`
}

var extensionLanguages = map[string]string{
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".jsx":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".py":   "python",
	".sh":   "bash",
	".bash": "bash",
	".html": "html",
	".htm":  "html",
	".css":  "css",
	".json": "json",
}

// highlightedToken is a token with its resolved theme color
type highlightedToken struct {
	Type  tokenizer.TokenType `json:"type"`
	Value string              `json:"value"`
	Color string              `json:"color"`
}

// Run executes the highlight command
func (h *HighlightCmd) Run(ctx *Context) error {
	config, err := walkthrough.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !fileExists(h.File) {
		return fmt.Errorf("%w: %s", ErrInputFileNotExist, h.File)
	}

	content, err := os.ReadFile(h.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", h.File, err)
	}

	tok, theme, err := newTokenizer(config)
	if err != nil {
		return err
	}

	lang := h.language(tok)
	if ctx.Verbose {
		color.Blue("Highlighting %s as %s", h.File, lang)
	}

	code := strings.TrimSuffix(string(content), "\n")

	if h.Format == "json" {
		return writeHighlightJSON(ctx.out(), tok, theme, code, lang)
	}

	return writeHighlightANSI(ctx.out(), tok, theme, code, lang)
}

// language picks the --lang flag, then a custom language named after the
// extension, then the built-in extension table.
func (h *HighlightCmd) language(tok *tokenizer.Tokenizer) string {
	if h.Lang != "" {
		return h.Lang
	}

	ext := strings.ToLower(filepath.Ext(h.File))
	if name := strings.TrimPrefix(ext, "."); name != "" && tok.Has(name) {
		return name
	}

	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}

	return "text"
}

func writeHighlightJSON(w io.Writer, tok *tokenizer.Tokenizer, theme tokenizer.Theme, code, lang string) error {
	lines := [][]highlightedToken{}

	for _, tokens := range tok.Lines(code, lang) {
		line := make([]highlightedToken, 0, len(tokens))
		for _, t := range tokens {
			line = append(line, highlightedToken{Type: t.Type, Value: t.Value, Color: theme.Color(t.Type)})
		}

		lines = append(lines, line)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(lines)
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}

	return nil
}

func writeHighlightANSI(w io.Writer, tok *tokenizer.Tokenizer, theme tokenizer.Theme, code, lang string) error {
	palette := make(map[tokenizer.TokenType]*color.Color)

	for _, tokens := range tok.Lines(code, lang) {
		for _, t := range tokens {
			c, ok := palette[t.Type]
			if !ok {
				r, g, b, err := hexToRGB(theme.Color(t.Type))
				if err != nil {
					return err
				}

				c = color.RGB(r, g, b)
				palette[t.Type] = c
			}

			fmt.Fprint(w, c.Sprint(t.Value))
		}

		fmt.Fprintln(w)
	}

	return nil
}
