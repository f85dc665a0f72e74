package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/shibukawa/walkthrough"
	"github.com/shibukawa/walkthrough/validator"
)

// ValidateCmd represents the validate command
type ValidateCmd struct {
	File   string `arg:"" help:"Walkthrough file (.json, .yaml or .md)" type:"path"`
	Strict bool   `help:"Fail when structure warnings are found"`
	Format string `help:"Report format" enum:"text,json" default:"text"`
}

// Run executes the validate command
func (v *ValidateCmd) Run(ctx *Context) error {
	config, err := walkthrough.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if ctx.Verbose {
		color.Blue("Validating %s", v.File)
	}

	doc, err := loadDocument(v.File)
	if err != nil {
		return err
	}

	result, err := validateDocument(config, doc)
	if err != nil {
		return err
	}

	switch v.Format {
	case "json":
		encoder := json.NewEncoder(ctx.out())
		encoder.SetIndent("", "  ")

		err = encoder.Encode(result)
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	default:
		printWarnings(ctx, result)
	}

	if (v.Strict || config.Validation.Strict) && !result.Valid {
		return fmt.Errorf("%w: %s", ErrValidationFailed, v.File)
	}

	return nil
}

// validateDocument runs the validator with the configured languages, title
// limit and custom rules.
func validateDocument(config *walkthrough.Config, doc *walkthrough.Document) (validator.Result, error) {
	tok, _, err := newTokenizer(config)
	if err != nil {
		return validator.Result{}, err
	}

	specs := make([]validator.RuleSpec, 0, len(config.Validation.Rules))
	for _, rule := range config.Validation.Rules {
		specs = append(specs, validator.RuleSpec{
			Name:    rule.Name,
			Type:    rule.Type,
			Expr:    rule.Expr,
			Message: rule.Message,
		})
	}

	rules, err := validator.CompileRules(specs)
	if err != nil {
		return validator.Result{}, fmt.Errorf("failed to load validation rules: %w", err)
	}

	return validator.Validate(doc, validator.Options{
		Languages:      tok,
		MaxTitleLength: config.Validation.MaxTitleLength,
		Rules:          rules,
	}), nil
}

var warningGroups = []struct {
	warningType validator.WarningType
	title       string
	marker      string
	color       *color.Color
}{
	{validator.TypeStructure, "Structure", "✗", color.New(color.FgRed)},
	{validator.TypeCompatibility, "Compatibility", "!", color.New(color.FgYellow)},
	{validator.TypeQuality, "Quality", "•", color.New(color.FgCyan)},
}

// printWarnings writes the warnings grouped by type followed by a summary.
func printWarnings(ctx *Context, result validator.Result) {
	w := ctx.out()

	for _, group := range warningGroups {
		warnings := result.ByType(group.warningType)
		if len(warnings) == 0 {
			continue
		}

		group.color.Fprintf(w, "%s (%d)\n", group.title, len(warnings))

		for _, warning := range warnings {
			if warning.Location != "" {
				fmt.Fprintf(w, "  %s %s: %s\n", group.marker, warning.Location, warning.Message)
			} else {
				fmt.Fprintf(w, "  %s %s\n", group.marker, warning.Message)
			}
		}
	}

	if result.Valid {
		color.New(color.FgGreen).Fprintf(w, "✓ Walkthrough is valid (%d warnings)\n", len(result.Warnings))
	} else {
		color.New(color.FgRed).Fprintf(w, "✗ Walkthrough has structure errors (%d warnings)\n", len(result.Warnings))
	}
}
