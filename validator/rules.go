package validator

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/shibukawa/walkthrough"
)

// Sentinel errors
var (
	ErrRuleCompilation = errors.New("failed to compile validation rule")
	ErrRuleNotBoolean  = errors.New("validation rule must evaluate to a bool")
	ErrInvalidRuleType = errors.New("invalid validation rule type")
	ErrRuleEnvironment = errors.New("failed to create validation rule environment")
)

// RuleSpec is the textual form of a custom rule.
type RuleSpec struct {
	Name    string
	Type    string
	Expr    string
	Message string
}

// Rule is a compiled custom check. It runs once per step with the variables
// step, metadata and index; a true result reports a warning for that step.
type Rule struct {
	Name        string
	WarningType WarningType
	Message     string
	program     cel.Program
}

func newRuleEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("step", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("metadata", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("index", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuleEnvironment, err)
	}

	return env, nil
}

// CompileRules compiles every spec. An empty Type means quality and an
// empty Message falls back to the rule name.
func CompileRules(specs []RuleSpec) ([]*Rule, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	env, err := newRuleEnv()
	if err != nil {
		return nil, err
	}

	rules := make([]*Rule, 0, len(specs))

	for _, spec := range specs {
		rule, err := compileRule(env, spec)
		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

func compileRule(env *cel.Env, spec RuleSpec) (*Rule, error) {
	warningType := TypeQuality
	if spec.Type != "" {
		t, ok := ParseWarningType(spec.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %q in rule %s", ErrInvalidRuleType, spec.Type, spec.Name)
		}

		warningType = t
	}

	ast, issues := env.Compile(spec.Expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRuleCompilation, spec.Name, issues.Err())
	}

	output := ast.OutputType()
	if !output.IsExactType(cel.BoolType) && !output.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: rule %s returns %s", ErrRuleNotBoolean, spec.Name, output)
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRuleCompilation, spec.Name, err)
	}

	message := spec.Message
	if message == "" {
		message = spec.Name
	}

	return &Rule{
		Name:        spec.Name,
		WarningType: warningType,
		Message:     message,
		program:     program,
	}, nil
}

// Match evaluates the rule against one step.
func (r *Rule) Match(doc *walkthrough.Document, index int, step walkthrough.Step) (bool, error) {
	result, _, err := r.program.Eval(map[string]any{
		"step":     stepValues(step),
		"metadata": metadataValues(doc.Metadata),
		"index":    int64(index),
	})
	if err != nil {
		return false, fmt.Errorf("rule %s: %w", r.Name, err)
	}

	matched, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: rule %s returned %v", ErrRuleNotBoolean, r.Name, result.Value())
	}

	return matched, nil
}

func (v *validation) applyRule(rule *Rule, doc *walkthrough.Document, index int, step walkthrough.Step) {
	matched, err := rule.Match(doc, index, step)
	if err != nil {
		v.add(TypeQuality, stepLocation(step), "Rule %q could not be evaluated: %v", rule.Name, err)
		return
	}

	if matched {
		v.add(rule.WarningType, stepLocation(step), "%s", rule.Message)
	}
}

func stepValues(step walkthrough.Step) map[string]any {
	code := map[string]any{
		"language":       "",
		"content":        "",
		"highlightLines": []any{},
		"lineCount":      int64(0),
	}

	if step.Code != nil {
		lines := make([]any, 0, len(step.Code.HighlightLines))
		for _, line := range step.Code.HighlightLines {
			lines = append(lines, int64(line))
		}

		code = map[string]any{
			"language":       step.Code.Language,
			"content":        step.Code.Content,
			"highlightLines": lines,
			"lineCount":      int64(step.Code.LineCount()),
		}
	}

	return map[string]any{
		"id":          step.ID,
		"number":      int64(step.Number),
		"title":       step.Title,
		"description": step.Description,
		"notes":       step.Notes,
		"hasCode":     step.Code != nil,
		"code":        code,
	}
}

func metadataValues(metadata walkthrough.Metadata) map[string]any {
	return map[string]any{
		"title":         metadata.Title,
		"estimatedTime": metadata.EstimatedTime,
		"difficulty":    string(metadata.Difficulty),
		"description":   metadata.Description,
		"mode":          string(metadata.Mode),
	}
}
