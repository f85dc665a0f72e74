package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/fatih/color"
	"github.com/shibukawa/walkthrough"
	"github.com/shibukawa/walkthrough/markdownparser"
	"github.com/shibukawa/walkthrough/validator"
)

const guideMarkdown = "" +
	"---\n" +
	"title: Guide\n" +
	"---\n" +
	"\n" +
	"## Install\n" +
	"\n" +
	"Run it.\n" +
	"\n" +
	"```bash\n" +
	"npm i\n" +
	"```\n" +
	"\n" +
	"## Use\n" +
	"\n" +
	"Call it.\n" +
	"\n" +
	"```javascript\n" +
	"run()\n" +
	"```\n"

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	return p
}

func testContext(dir string) (*Context, *bytes.Buffer) {
	var out bytes.Buffer

	return &Context{
		Config: filepath.Join(dir, "walkthrough.yaml"),
		Quiet:  true,
		Out:    &out,
	}, &out
}

func TestCreateCmd(t *testing.T) {
	t.Parallel()

	t.Run("JSONNextToInput", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTemp(t, dir, "guide.md", guideMarkdown)
		ctx, _ := testContext(dir)

		cmd := &CreateCmd{Input: input}
		assert.NoError(t, cmd.Run(ctx))

		f, err := os.Open(filepath.Join(dir, "guide.json"))
		assert.NoError(t, err)
		defer f.Close()

		doc, err := walkthrough.ReadDocument(f)
		assert.NoError(t, err)
		assert.Equal(t, "Guide", doc.Metadata.Title)
		assert.Equal(t, 2, len(doc.Steps))
		assert.Equal(t, "Install", doc.Steps[0].Title)
		assert.Equal(t, "javascript", doc.Steps[1].Code.Language)
	})

	t.Run("YAMLWithExplicitOutput", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTemp(t, dir, "guide.md", guideMarkdown)
		output := filepath.Join(dir, "out", "result.yaml")
		ctx, _ := testContext(dir)

		cmd := &CreateCmd{Input: input, Format: "yaml", Output: output}
		assert.NoError(t, cmd.Run(ctx))

		f, err := os.Open(output)
		assert.NoError(t, err)
		defer f.Close()

		doc, err := walkthrough.ReadDocumentYAML(f)
		assert.NoError(t, err)
		assert.Equal(t, []string{"step-1", "step-2"}, []string{doc.Steps[0].ID, doc.Steps[1].ID})
	})

	t.Run("TitleFromFile", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTemp(t, dir, "getting-started.md", "## One\n\nDo it.\n")
		ctx, _ := testContext(dir)

		cmd := &CreateCmd{Input: input, TitleFromFile: true}
		assert.NoError(t, cmd.Run(ctx))

		f, err := os.Open(filepath.Join(dir, "getting-started.json"))
		assert.NoError(t, err)
		defer f.Close()

		doc, err := walkthrough.ReadDocument(f)
		assert.NoError(t, err)
		assert.Equal(t, "Getting Started", doc.Metadata.Title)
	})

	t.Run("MissingInput", func(t *testing.T) {
		dir := t.TempDir()
		ctx, _ := testContext(dir)

		cmd := &CreateCmd{Input: filepath.Join(dir, "missing.md")}
		assert.IsError(t, cmd.Run(ctx), ErrInputFileNotExist)
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTemp(t, dir, "guide.md", guideMarkdown)
		ctx, _ := testContext(dir)

		cmd := &CreateCmd{Input: input, Format: "toml"}
		assert.IsError(t, cmd.Run(ctx), ErrUnsupportedFormat)
	})
}

func TestValidateCmd(t *testing.T) {
	t.Parallel()

	t.Run("TextReport", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTemp(t, dir, "rust.md", "## Only\n\nDo it.\n\n```rust\nfn main() {}\n```\n")
		ctx, out := testContext(dir)

		cmd := &ValidateCmd{File: input, Format: "text"}
		assert.NoError(t, cmd.Run(ctx))

		report := out.String()
		assert.Contains(t, report, "Compatibility (1)")
		assert.Contains(t, report, `Language "rust" is not supported`)
		assert.Contains(t, report, "Quality (2)")
		assert.Contains(t, report, "✓ Walkthrough is valid (3 warnings)")
		assert.NotContains(t, report, "Structure")
	})

	t.Run("JSONReport", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTemp(t, dir, "guide.md", guideMarkdown)
		ctx, out := testContext(dir)

		cmd := &ValidateCmd{File: input, Format: "json"}
		assert.NoError(t, cmd.Run(ctx))

		var result validator.Result
		assert.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.True(t, result.Valid)
		assert.Equal(t, []validator.Warning{
			{Type: validator.TypeQuality, Message: "Missing estimated time in metadata"},
			{Type: validator.TypeQuality, Message: "Missing difficulty level in metadata"},
		}, result.Warnings)
	})

	t.Run("StrictFailsOnStructure", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTemp(t, dir, "empty.md", "---\ntitle: Empty\n---\n")
		ctx, out := testContext(dir)

		cmd := &ValidateCmd{File: input, Strict: true, Format: "text"}
		assert.IsError(t, cmd.Run(ctx), ErrValidationFailed)
		assert.Contains(t, out.String(), "Structure (1)")
		assert.Contains(t, out.String(), "Walkthrough has no steps")
	})

	t.Run("UnsupportedExtension", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTemp(t, dir, "guide.txt", guideMarkdown)
		ctx, _ := testContext(dir)

		cmd := &ValidateCmd{File: input, Format: "text"}
		assert.IsError(t, cmd.Run(ctx), ErrUnsupportedDocument)
	})

	t.Run("ConfiguredRule", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTemp(t, dir, "guide.md", guideMarkdown)
		ctx, out := testContext(dir)
		writeTemp(t, dir, "walkthrough.yaml", ""+
			"validation:\n"+
			"  rules:\n"+
			"    - name: no-bash\n"+
			"      expr: 'step.code.language == \"bash\"'\n"+
			"      message: Prefer a portable script\n")

		cmd := &ValidateCmd{File: input, Format: "text"}
		assert.NoError(t, cmd.Run(ctx))
		assert.Contains(t, out.String(), `• Step 1 "Install": Prefer a portable script`)
	})
}

func TestInitCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx, _ := testContext(dir)
	dataDir := filepath.Join(dir, "walkthroughs")

	cmd := &InitCmd{DataDir: dataDir}
	assert.NoError(t, cmd.Run(ctx))

	config, err := walkthrough.LoadConfig(ctx.Config)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(config.Validation.Rules))
	assert.Equal(t, 3, len(config.Languages["ini"].Rules))

	example := filepath.Join(dataDir, "example-walkthrough.md")
	content, err := os.ReadFile(example)
	assert.NoError(t, err)

	doc, err := markdownparser.ParseString(string(content))
	assert.NoError(t, err)
	assert.Equal(t, 3, len(doc.Steps))
	assert.Equal(t, []int{1, 2}, doc.Steps[1].Code.HighlightLines)

	result, err := validateDocument(config, doc)
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 0, len(result.Warnings))

	// A second run keeps existing files.
	assert.NoError(t, os.WriteFile(ctx.Config, []byte("output:\n  format: yaml\n"), 0o644))
	assert.NoError(t, cmd.Run(ctx))

	kept, err := os.ReadFile(ctx.Config)
	assert.NoError(t, err)
	assert.Equal(t, "output:\n  format: yaml\n", string(kept))
}

func TestHighlightCmd(t *testing.T) {
	t.Run("JSONBuiltinLanguage", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTemp(t, dir, "app.js", "const x = 1;\n")
		ctx, out := testContext(dir)

		cmd := &HighlightCmd{File: input, Format: "json"}
		assert.NoError(t, cmd.Run(ctx))

		var lines [][]highlightedToken
		assert.NoError(t, json.Unmarshal(out.Bytes(), &lines))
		assert.Equal(t, 1, len(lines))
		assert.Equal(t, highlightedToken{Type: "keyword", Value: "const", Color: "#c678dd"}, lines[0][0])

		text := ""
		for _, token := range lines[0] {
			text += token.Value
		}

		assert.Equal(t, "const x = 1;", text)
	})

	t.Run("JSONCustomLanguageAndTheme", func(t *testing.T) {
		dir := t.TempDir()
		input := writeTemp(t, dir, "settings.ini", "[core]\nname = x\n")
		ctx, out := testContext(dir)
		writeTemp(t, dir, "walkthrough.yaml", ""+
			"languages:\n"+
			"  ini:\n"+
			"    rules:\n"+
			"      - type: tag\n"+
			"        pattern: '^\\[[^\\]]+\\]'\n"+
			"theme:\n"+
			"  tag: \"#ffffff\"\n")

		cmd := &HighlightCmd{File: input, Format: "json"}
		assert.NoError(t, cmd.Run(ctx))

		var lines [][]highlightedToken
		assert.NoError(t, json.Unmarshal(out.Bytes(), &lines))
		assert.Equal(t, [][]highlightedToken{
			{{Type: "tag", Value: "[core]", Color: "#ffffff"}},
			{{Type: "text", Value: "name = x", Color: "#abb2bf"}},
		}, lines)
	})

	t.Run("ANSIWithoutColor", func(t *testing.T) {
		noColor := color.NoColor
		color.NoColor = true
		defer func() { color.NoColor = noColor }()

		dir := t.TempDir()
		input := writeTemp(t, dir, "notes.unknown", "plain\ntext\n")
		ctx, out := testContext(dir)

		cmd := &HighlightCmd{File: input, Format: "ansi"}
		assert.NoError(t, cmd.Run(ctx))
		assert.Equal(t, "plain\ntext\n", out.String())
	})
}

func TestTitleFromFile(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"getting-started.md", "Getting Started"},
		{"dir/api_reference_guide.markdown", "Api Reference Guide"},
		{"v1.2-notes.md", "V1 2 Notes"},
		{"README", "Readme"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, titleFromFile(tt.path))
		})
	}
}

func TestHexToRGB(t *testing.T) {
	r, g, b, err := hexToRGB("#c678dd")
	assert.NoError(t, err)
	assert.Equal(t, []int{0xc6, 0x78, 0xdd}, []int{r, g, b})

	for _, input := range []string{"", "#fff", "#gggggg", "c678dd00"} {
		t.Run(input, func(t *testing.T) {
			_, _, _, err := hexToRGB(input)
			assert.IsError(t, err, ErrInvalidColor)
		})
	}
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer

	assert.NoError(t, (&VersionCmd{}).Run(&Context{Out: &out}))
	assert.Equal(t, "walkthrough v0.1.0\n", out.String())
}
