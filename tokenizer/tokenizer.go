package tokenizer

import (
	"iter"
	"slices"
	"sort"
	"strings"
	"sync"
)

// LineIterator yields the zero based line index and the tokens of that line.
type LineIterator iter.Seq2[int, []Token]

// Tokenizer holds a language registry and splits lines into tokens.
// A Tokenizer is safe for concurrent use.
type Tokenizer struct {
	mu        sync.RWMutex
	languages map[string]Language
	aliases   map[string]string
}

// New creates a Tokenizer preloaded with the built-in languages.
func New() *Tokenizer {
	t := &Tokenizer{
		languages: make(map[string]Language),
		aliases:   make(map[string]string, len(defaultAliases)),
	}

	for _, lang := range defaultLanguages() {
		t.languages[lang.Name] = lang
	}

	for alias, name := range defaultAliases {
		t.aliases[alias] = name
	}

	return t
}

// Register adds a language or replaces an existing one. Names are case
// insensitive; registering under an alias replaces the alias.
func (t *Tokenizer) Register(name string, lang Language) {
	key := normalizeName(name)
	lang.Name = key
	lang.Rules = slices.Clone(lang.Rules)

	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.aliases, key)
	t.languages[key] = lang
}

// Has reports whether lang resolves to a registered language.
func (t *Tokenizer) Has(lang string) bool {
	_, ok := t.lookup(lang)
	return ok
}

// Languages returns the sorted names of registered languages and aliases.
func (t *Tokenizer) Languages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.languages)+len(t.aliases))
	for name := range t.languages {
		names = append(names, name)
	}

	for alias, target := range t.aliases {
		if _, ok := t.languages[target]; ok {
			names = append(names, alias)
		}
	}

	sort.Strings(names)

	return names
}

// Tokenize splits line into tokens whose values concatenate back to line.
// An unknown language yields a single TEXT token.
func (t *Tokenizer) Tokenize(line, lang string) []Token {
	language, ok := t.lookup(lang)
	if !ok {
		return []Token{{Type: TEXT, Value: line}}
	}

	return language.tokenize(line)
}

// Lines tokenizes code line by line. The language is resolved once.
func (t *Tokenizer) Lines(code, lang string) LineIterator {
	return func(yield func(int, []Token) bool) {
		language, ok := t.lookup(lang)

		for i, line := range strings.Split(code, "\n") {
			tokens := []Token{{Type: TEXT, Value: line}}
			if ok {
				tokens = language.tokenize(line)
			}

			if !yield(i, tokens) {
				return
			}
		}
	}
}

func (t *Tokenizer) lookup(lang string) (Language, bool) {
	key := normalizeName(lang)

	t.mu.RLock()
	defer t.mu.RUnlock()

	if target, ok := t.aliases[key]; ok {
		key = target
	}

	language, ok := t.languages[key]

	return language, ok
}

// span is a candidate token found by one rule.
type span struct {
	start, end int
	tokenType  TokenType
}

// tokenize collects every rule's matches, sorts them by start offset and
// keeps the first match claiming each region. Unclaimed gaps become TEXT.
func (l Language) tokenize(line string) []Token {
	var spans []span

	for _, r := range l.Rules {
		if r.Pattern == nil || r.Group < 0 || r.Group > r.Pattern.NumSubexp() {
			continue
		}

		for _, loc := range r.Pattern.FindAllStringSubmatchIndex(line, -1) {
			start, end := loc[2*r.Group], loc[2*r.Group+1]
			if start < 0 || start == end {
				continue
			}

			spans = append(spans, span{start: start, end: end, tokenType: r.Type})
		}
	}

	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].start < spans[j].start
	})

	tokens := []Token{}
	cursor := 0

	for _, s := range spans {
		if s.start < cursor {
			continue
		}

		if s.start > cursor {
			tokens = append(tokens, Token{Type: TEXT, Value: line[cursor:s.start]})
		}

		tokens = append(tokens, Token{Type: s.tokenType, Value: line[s.start:s.end]})
		cursor = s.end
	}

	if cursor < len(line) {
		tokens = append(tokens, Token{Type: TEXT, Value: line[cursor:]})
	}

	return tokens
}
