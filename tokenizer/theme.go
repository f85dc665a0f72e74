package tokenizer

// DefaultColor is used for TEXT and any category a theme does not map.
const DefaultColor = "#abb2bf"

// Theme maps token categories to display colors.
type Theme map[TokenType]string

// DefaultTheme is the One Dark palette.
var DefaultTheme = Theme{
	KEYWORD:   "#c678dd",
	STRING:    "#98c379",
	COMMENT:   "#5c6370",
	NUMBER:    "#d19a66",
	BUILTIN:   "#e5c07b",
	TAG:       "#e06c75",
	COMMAND:   "#61afef",
	FLAG:      "#56b6c2",
	ATTRIBUTE: "#d19a66",
	URL:       "#61afef",
	SYMBOL:    "#abb2bf",
}

// Color returns the color of t, falling back to DefaultColor.
func (th Theme) Color(t TokenType) string {
	if color, ok := th[t]; ok && color != "" {
		return color
	}

	return DefaultColor
}

// Merge returns a copy of th with overrides applied. Keys are category
// names; unknown categories are ignored.
func (th Theme) Merge(overrides map[string]string) Theme {
	merged := make(Theme, len(th)+len(overrides))
	for t, color := range th {
		merged[t] = color
	}

	for name, color := range overrides {
		if t, ok := ParseTokenType(name); ok {
			merged[t] = color
		}
	}

	return merged
}

// TokenColor returns the DefaultTheme color of t.
func TokenColor(t TokenType) string {
	return DefaultTheme.Color(t)
}
