package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/shibukawa/walkthrough"
	"github.com/shibukawa/walkthrough/llmparser"
	"github.com/shibukawa/walkthrough/markdownparser"
)

// CreateCmd represents the create command
type CreateCmd struct {
	Input         string `arg:"" help:"Markdown file (or freeform text with --ai)" type:"path"`
	AI            bool   `name:"ai" help:"Use AI to extract structure from freeform text"`
	Output        string `short:"o" help:"Output file path (default: next to the input)"`
	Format        string `help:"Output format: json or yaml (default from config)"`
	TitleFromFile bool   `help:"Use the file name as title when the document has none"`
	Validate      bool   `help:"Print validation warnings after writing"`
}

// Run executes the create command
func (c *CreateCmd) Run(ctx *Context) error {
	config, err := walkthrough.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	format := c.Format
	if format == "" {
		format = config.Output.Format
	}

	if format != "json" && format != "yaml" {
		return fmt.Errorf("%w: '%s': must be one of json, yaml", ErrUnsupportedFormat, format)
	}

	if !fileExists(c.Input) {
		return fmt.Errorf("%w: %s", ErrInputFileNotExist, c.Input)
	}

	content, err := os.ReadFile(c.Input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.Input, err)
	}

	if ctx.Verbose {
		color.Blue("Read %s", c.Input)
	}

	doc, err := c.parse(ctx, config, string(content))
	if err != nil {
		return err
	}

	if c.TitleFromFile && doc.Metadata.Title == walkthrough.DefaultTitle {
		doc.Metadata.Title = titleFromFile(c.Input)
	}

	data, err := encodeDocument(doc, format)
	if err != nil {
		return err
	}

	outputPath := c.outputPath(config, format)

	err = writeFile(outputPath, data)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	if !ctx.Quiet {
		color.Green("Created %s (%d steps)", outputPath, len(doc.Steps))
	}

	if c.Validate {
		result, err := validateDocument(config, doc)
		if err != nil {
			return err
		}

		printWarnings(ctx, result)
	}

	return nil
}

func (c *CreateCmd) parse(ctx *Context, config *walkthrough.Config, content string) (*walkthrough.Document, error) {
	if !c.AI {
		doc, err := markdownparser.ParseString(content)
		if err != nil {
			return nil, err
		}

		if ctx.Verbose {
			color.Blue("Found %d steps", len(doc.Steps))
		}

		return doc, nil
	}

	client, err := llmparser.New(llmparser.Config{
		APIKey:    config.LLM.APIKey,
		Model:     config.LLM.Model,
		BaseURL:   config.LLM.BaseURL,
		MaxTokens: config.LLM.MaxTokens,
		Timeout:   config.LLM.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client (set ANTHROPIC_API_KEY or llm.api_key): %w", err)
	}

	if ctx.Verbose {
		color.Blue("Extracting steps with %s", client.Model())
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return client.Parse(signalCtx, content)
}

// outputPath converts "guides/setup.md" into "guides/setup.json" unless an
// explicit output or output directory is configured.
func (c *CreateCmd) outputPath(config *walkthrough.Config, format string) string {
	if c.Output != "" {
		return c.Output
	}

	dir := config.Output.Dir
	if dir == "" {
		dir = filepath.Dir(c.Input)
	}

	base := filepath.Base(c.Input)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	return filepath.Join(dir, name+"."+format)
}
