package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool

	// Out receives command results; status messages go through fatih/color.
	Out io.Writer
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}

	return c.Out
}

// CLI represents the command-line interface
var CLI struct {
	Config    string       `help:"Configuration file path" default:"walkthrough.yaml"`
	Verbose   bool         `help:"Enable verbose output" short:"v"`
	Quiet     bool         `help:"Suppress output" short:"q"`
	Create    CreateCmd    `cmd:"" help:"Generate a walkthrough document from markdown"`
	Validate  ValidateCmd  `cmd:"" help:"Validate a walkthrough document"`
	Init      InitCmd      `cmd:"" help:"Initialize a walkthrough project"`
	Highlight HighlightCmd `cmd:"" help:"Print a source file with syntax highlighting"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.out(), "walkthrough v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("walkthrough"),
		kong.Description("Generate interactive code walkthroughs from markdown"),
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Out:     os.Stdout,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
