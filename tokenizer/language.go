package tokenizer

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule classifies every match of Pattern as Type.
//
// When Group is positive only that capture group becomes the token; the
// rest of the match is left to other rules. This stands in for lookahead,
// which RE2 does not support.
type Rule struct {
	Type    TokenType
	Pattern *regexp.Regexp
	Group   int
}

// Language is an ordered rule set. When two rules match at the same offset
// the earlier rule wins.
type Language struct {
	Name  string
	Rules []Rule
}

// RuleSpec is the textual form of a Rule, as written in configuration files.
type RuleSpec struct {
	Type    string
	Pattern string
	Group   int
}

// CompileLanguage builds a Language from textual rules.
func CompileLanguage(name string, specs []RuleSpec) (Language, error) {
	if strings.TrimSpace(name) == "" {
		return Language{}, ErrEmptyLanguageName
	}

	if len(specs) == 0 {
		return Language{}, fmt.Errorf("%w: %s", ErrNoRules, name)
	}

	lang := Language{Name: normalizeName(name), Rules: make([]Rule, 0, len(specs))}

	for i, spec := range specs {
		tokenType, ok := ParseTokenType(spec.Type)
		if !ok {
			return Language{}, fmt.Errorf("%w: %q in rule %d of %s", ErrUnknownTokenType, spec.Type, i+1, name)
		}

		pattern, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return Language{}, fmt.Errorf("%w: rule %d of %s: %w", ErrInvalidPattern, i+1, name, err)
		}

		if spec.Group < 0 || spec.Group > pattern.NumSubexp() {
			return Language{}, fmt.Errorf("%w: group %d in rule %d of %s", ErrInvalidGroup, spec.Group, i+1, name)
		}

		lang.Rules = append(lang.Rules, Rule{Type: tokenType, Pattern: pattern, Group: spec.Group})
	}

	return lang, nil
}

func rule(t TokenType, pattern string) Rule {
	return Rule{Type: t, Pattern: regexp.MustCompile(pattern)}
}

func groupRule(t TokenType, pattern string, group int) Rule {
	return Rule{Type: t, Pattern: regexp.MustCompile(pattern), Group: group}
}

const (
	jsStrings  = `('([^'\\]|\\.)*'|"([^"\\]|\\.)*"|` + "`" + `([^` + "`" + `\\]|\\.)*` + "`" + `)`
	jsComments = `(//.*|/\*[\s\S]*?\*/)`
	numbers    = `\b\d+(\.\d+)?\b`
	jsBuiltins = `\b(console|Array|Object|Promise|Math|JSON|Date|RegExp|Error|Set|Map|String|Number|Boolean)\b`
	jsKeywords = `const|let|var|function|return|if|else|for|while|do|switch|case|break|continue|import|export|from|default|class|extends|static|async|await|try|catch|finally|throw|new|typeof|instanceof`
)

// defaultLanguages returns the built-in rule tables. Rule order within each
// table is the tie-break order.
func defaultLanguages() []Language {
	return []Language{
		{
			Name: "javascript",
			Rules: []Rule{
				rule(KEYWORD, `\b(`+jsKeywords+`)\b`),
				rule(STRING, jsStrings),
				rule(COMMENT, jsComments),
				rule(NUMBER, numbers),
				rule(BUILTIN, jsBuiltins),
			},
		},
		{
			Name: "typescript",
			Rules: []Rule{
				rule(KEYWORD, `\b(`+jsKeywords+`|interface|type|enum|namespace|public|private|protected|readonly)\b`),
				rule(STRING, jsStrings),
				rule(COMMENT, jsComments),
				rule(NUMBER, numbers),
				rule(BUILTIN, jsBuiltins),
			},
		},
		{
			Name: "python",
			Rules: []Rule{
				rule(KEYWORD, `\b(def|class|import|from|return|if|else|elif|for|while|in|is|not|and|or|try|except|finally|raise|with|as|pass|break|continue|lambda|yield|global|nonlocal)\b`),
				rule(STRING, `('([^'\\]|\\.)*'|"([^"\\]|\\.)*"|'''[\s\S]*?'''|"""[\s\S]*?""")`),
				rule(COMMENT, `#.*`),
				rule(NUMBER, numbers),
				rule(BUILTIN, `\b(print|len|range|str|int|float|list|dict|set|tuple|bool|open|input|enumerate|zip|map|filter)\b`),
			},
		},
		{
			Name: "bash",
			Rules: []Rule{
				rule(KEYWORD, `\b(if|then|else|elif|fi|for|do|done|while|case|esac|function)\b`),
				rule(STRING, `('([^']*)'|"([^"]*)")`),
				rule(COMMENT, `#.*`),
				rule(COMMAND, `\b(echo|cd|ls|grep|awk|sed|cat|chmod|mkdir|rm|cp|mv|touch|pwd|find|sort|uniq|head|tail|wc|diff)\b`),
				rule(FLAG, `--?[a-zA-Z][\w-]*`),
			},
		},
		{
			Name: "html",
			Rules: []Rule{
				rule(TAG, `</?[\w-]+`),
				groupRule(ATTRIBUTE, `\b([\w-]+=)"`, 1),
				rule(STRING, `"([^"]*)"`),
				rule(COMMENT, `<!--[\s\S]*?-->`),
			},
		},
		{
			Name: "css",
			Rules: []Rule{
				rule(KEYWORD, `\b(import|media|supports|keyframes|from|to)\b`),
				rule(SYMBOL, `[{}:;,]`),
				rule(COMMENT, `/\*[\s\S]*?\*/`),
				rule(STRING, `"([^"]*)"|'([^']*)'`),
			},
		},
		{
			Name: "json",
			Rules: []Rule{
				rule(STRING, `"([^"\\]|\\.)*"`),
				rule(NUMBER, numbers),
				rule(KEYWORD, `\b(true|false|null)\b`),
			},
		},
	}
}

// defaultAliases maps short language tags onto the built-in tables.
var defaultAliases = map[string]string{
	"js":    "javascript",
	"ts":    "typescript",
	"py":    "python",
	"sh":    "bash",
	"shell": "bash",
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
