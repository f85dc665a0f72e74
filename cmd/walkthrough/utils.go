package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shibukawa/walkthrough"
	"github.com/shibukawa/walkthrough/markdownparser"
	"github.com/shibukawa/walkthrough/tokenizer"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ensureDir creates a directory if it doesn't exist
func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0o755)
	}

	return nil
}

// writeFile writes content to a file, creating directories if necessary
func writeFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := ensureDir(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return os.WriteFile(path, content, 0o644)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// titleFromFile turns "getting-started_guide.md" into "Getting Started Guide".
func titleFromFile(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(name)

	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}

// encodeDocument renders doc in the given output format.
func encodeDocument(doc *walkthrough.Document, format string) ([]byte, error) {
	var buf bytes.Buffer

	var err error

	switch format {
	case "json":
		err = doc.WriteJSON(&buf)
	case "yaml":
		err = doc.WriteYAML(&buf)
	default:
		return nil, fmt.Errorf("%w: '%s': must be one of json, yaml", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// loadDocument reads a persisted document or parses a markdown source,
// chosen by file extension.
func loadDocument(path string) (*walkthrough.Document, error) {
	if !fileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrInputFileNotExist, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return walkthrough.ReadDocument(f)
	case ".yaml", ".yml":
		return walkthrough.ReadDocumentYAML(f)
	case ".md", ".markdown":
		return markdownparser.Parse(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, path)
	}
}

// newTokenizer builds a tokenizer with the configured custom languages and
// the configured theme overrides.
func newTokenizer(config *walkthrough.Config) (*tokenizer.Tokenizer, tokenizer.Theme, error) {
	tok := tokenizer.New()

	for name, langConfig := range config.Languages {
		specs := make([]tokenizer.RuleSpec, 0, len(langConfig.Rules))
		for _, rule := range langConfig.Rules {
			specs = append(specs, tokenizer.RuleSpec{
				Type:    rule.Type,
				Pattern: rule.Pattern,
				Group:   rule.Group,
			})
		}

		lang, err := tokenizer.CompileLanguage(name, specs)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load language %s: %w", name, err)
		}

		tok.Register(name, lang)
	}

	return tok, tokenizer.DefaultTheme.Merge(config.Theme), nil
}

// hexToRGB parses "#rrggbb".
func hexToRGB(hex string) (int, int, int, error) {
	value := strings.TrimPrefix(hex, "#")
	if len(value) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}

	rgb, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}

	r := int(rgb>>16) & 0xff
	g := int(rgb>>8) & 0xff
	b := int(rgb) & 0xff

	return r, g, b, nil
}
