package tokenizer

import "errors"

// Sentinel errors
var (
	ErrEmptyLanguageName = errors.New("language name is empty")
	ErrNoRules           = errors.New("language has no rules")
	ErrUnknownTokenType  = errors.New("unknown token type")
	ErrInvalidPattern    = errors.New("invalid token pattern")
	ErrInvalidGroup      = errors.New("capture group out of range")
)

// TokenType is the lexical category of a token. It doubles as the key of
// the color theme.
type TokenType string

const (
	KEYWORD   TokenType = "keyword"
	STRING    TokenType = "string"
	COMMENT   TokenType = "comment"
	NUMBER    TokenType = "number"
	BUILTIN   TokenType = "builtin"
	TAG       TokenType = "tag"
	ATTRIBUTE TokenType = "attribute"
	COMMAND   TokenType = "command"
	FLAG      TokenType = "flag"
	URL       TokenType = "url"
	SYMBOL    TokenType = "symbol"

	// TEXT covers every span no rule claimed.
	TEXT TokenType = "text"
)

// tokenTypes lists every category a rule may produce.
var tokenTypes = map[TokenType]struct{}{
	KEYWORD:   {},
	STRING:    {},
	COMMENT:   {},
	NUMBER:    {},
	BUILTIN:   {},
	TAG:       {},
	ATTRIBUTE: {},
	COMMAND:   {},
	FLAG:      {},
	URL:       {},
	SYMBOL:    {},
}

// ParseTokenType returns the TokenType named by s.
func ParseTokenType(s string) (TokenType, bool) {
	t := TokenType(s)
	if _, ok := tokenTypes[t]; ok {
		return t, true
	}

	return "", false
}

// String returns the string representation of TokenType
func (t TokenType) String() string {
	return string(t)
}

// Token is one classified span of a line.
type Token struct {
	Type  TokenType `json:"type"`
	Value string    `json:"value"`
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}
