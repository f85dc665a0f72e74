package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
)

// InitCmd represents the init command
type InitCmd struct {
	DataDir   string `help:"Directory for walkthrough sources and generated data" default:"walkthroughs"`
	NoExample bool   `help:"Do not create an example walkthrough"`
}

func (i *InitCmd) Run(ctx *Context) error {
	if ctx.Verbose {
		color.Blue("Initializing walkthrough project")
	}

	err := createDir(i.DataDir)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", i.DataDir, err)
	}

	if ctx.Verbose {
		color.Green("Created directory: %s", i.DataDir)
	}

	err = createFileIfMissing(ctx, ctx.Config, sampleConfig)
	if err != nil {
		return fmt.Errorf("failed to create sample configuration: %w", err)
	}

	examplePath := filepath.Join(i.DataDir, "example-walkthrough.md")
	if !i.NoExample {
		err = createFileIfMissing(ctx, examplePath, exampleWalkthrough)
		if err != nil {
			return fmt.Errorf("failed to create example walkthrough: %w", err)
		}
	}

	if !ctx.Quiet {
		color.Green("Walkthrough project initialized successfully")
		fmt.Println("\nNext steps:")
		fmt.Printf("1. Edit %s to configure output, AI extraction and languages\n", ctx.Config)

		if i.NoExample {
			fmt.Printf("2. Write a markdown walkthrough in %s/\n", i.DataDir)
			fmt.Println("3. Run 'walkthrough create <file>.md' to generate the document")
		} else {
			fmt.Printf("2. Run 'walkthrough create %s' to generate the example document\n", examplePath)
			fmt.Println("3. Run 'walkthrough validate' on the generated file")
		}
	}

	return nil
}

func createDir(path string) error {
	return ensureDir(path)
}

// createFileIfMissing writes content unless path already exists.
func createFileIfMissing(ctx *Context, path, content string) error {
	if fileExists(path) {
		if !ctx.Quiet {
			color.Yellow("Skipped existing file: %s", path)
		}

		return nil
	}

	err := writeFile(path, []byte(content))
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.Green("Created file: %s", path)
	}

	return nil
}

const sampleConfig = `# Output settings for 'walkthrough create'
output:
  format: json  # json or yaml
  dir: ""       # empty writes next to the input file

# AI extraction settings for 'walkthrough create --ai'
llm:
  provider: anthropic
  model: claude-sonnet-4-20250514
  api_key: ${ANTHROPIC_API_KEY}
  max_tokens: 4096
  timeout: 120s

# Validation settings
validation:
  strict: false
  max_title_length: 80
  rules:
    - name: highlight-unified-steps
      type: quality
      expr: 'metadata.mode == "unified" && size(step.code.highlightLines) == 0'
      message: Unified steps should highlight at least one line

# Custom tokenizer languages. Rules are tried in order.
languages:
  ini:
    rules:
      - type: comment
        pattern: '[;#].*'
      - type: tag
        pattern: '^\[[^\]]+\]'
      - type: attribute
        pattern: '^\s*([\w.-]+)\s*='
        group: 1

# Color overrides by token type
theme: {}
`

const exampleWalkthrough = "---\n" +
	"title: Example walkthrough\n" +
	"estimatedTime: 2 minutes\n" +
	"difficulty: beginner\n" +
	"---\n" +
	"\n" +
	"## Install the package\n" +
	"\n" +
	"Install from your package manager.\n" +
	"\n" +
	"```bash\n" +
	"npm install example-package\n" +
	"```\n" +
	"\n" +
	"## Import and use\n" +
	"\n" +
	"Import the package in your code.\n" +
	"\n" +
	"```javascript:1-2\n" +
	"import { Example } from 'example-package';\n" +
	"\n" +
	"const result = Example.doSomething();\n" +
	"```\n" +
	"\n" +
	"## Check the result\n" +
	"\n" +
	"The result contains your processed data.\n" +
	"\n" +
	"```javascript\n" +
	"console.log(result);\n" +
	"```\n"
