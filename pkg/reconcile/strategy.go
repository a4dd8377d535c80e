package reconcile

import (
	"strings"
	"unicode/utf8"
)

// StrategyType identifies a matching strategy.
type StrategyType string

// String returns the string representation of a strategy type.
func (s StrategyType) String() string {
	return string(s)
}

// Name returns the name of the strategy type.
func (s StrategyType) Name() string {
	if s == StrategyTypeNone {
		return "None"
	}
	words := strings.Split(s.String(), "-")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

const (
	// StrategyTypeNone marks a field no strategy could place.
	StrategyTypeNone StrategyType = ""
	// StrategyTypeExact matches a field path equal to a column.
	StrategyTypeExact StrategyType = "exact"
	// StrategyTypeSuffix matches the last path token against a column.
	StrategyTypeSuffix StrategyType = "suffix"
	// StrategyTypeSeparatorInsensitive matches the path with separators removed.
	StrategyTypeSeparatorInsensitive StrategyType = "separator-insensitive"
	// StrategyTypeCaseInsensitive matches the path ignoring case.
	StrategyTypeCaseInsensitive StrategyType = "case-insensitive"
	// StrategyTypeCaseInsensitiveSuffix matches the last path token ignoring case.
	StrategyTypeCaseInsensitiveSuffix StrategyType = "case-insensitive-suffix"
	// StrategyTypeTokenOverlap matches on a shared significant token.
	StrategyTypeTokenOverlap StrategyType = "token-overlap"
)

// Strategy decides whether a flattened field belongs to one of the columns.
type Strategy interface {
	// Type returns the strategy type
	Type() StrategyType

	// Description returns a human-readable description
	Description() string

	// Match returns the first column in order the field resolves to.
	Match(field string, columns ColumnSet) (string, bool)
}

// baseStrategy provides common strategy functionality.
type baseStrategy struct {
	typ         StrategyType
	description string
}

// Type returns the strategy type.
func (s *baseStrategy) Type() StrategyType {
	return s.typ
}

// Description returns a human-readable description.
func (s *baseStrategy) Description() string {
	return s.description
}

// asciiLower lowers ASCII letters only. Non-ASCII runes are kept as is, so
// "Straße" never folds to "strasse".
func asciiLower(s string) string {
	i := 0
	for i < len(s) && !('A' <= s[i] && s[i] <= 'Z') {
		i++
	}
	if i == len(s) {
		return s
	}
	b := []byte(s)
	for ; i < len(b); i++ {
		if 'A' <= b[i] && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// lastToken returns the text after the final separator, or s itself.
func lastToken(s, sep string) string {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return s
}

// ExactStrategy matches a field path equal to a column name.
type ExactStrategy struct {
	baseStrategy
}

// NewExactStrategy creates an exact-match strategy.
func NewExactStrategy() *ExactStrategy {
	return &ExactStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeExact,
			description: "Field path equals a column name",
		},
	}
}

// Match implements Strategy.
func (s *ExactStrategy) Match(field string, columns ColumnSet) (string, bool) {
	if columns.Contains(field) {
		return field, true
	}
	return "", false
}

// SuffixStrategy matches the last separator token of a field path.
type SuffixStrategy struct {
	baseStrategy
	separator string
}

// NewSuffixStrategy creates a suffix strategy splitting on sep.
func NewSuffixStrategy(sep string) *SuffixStrategy {
	return &SuffixStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeSuffix,
			description: "Last path token equals a column name",
		},
		separator: sep,
	}
}

// Match implements Strategy.
func (s *SuffixStrategy) Match(field string, columns ColumnSet) (string, bool) {
	token := lastToken(field, s.separator)
	if token != "" && columns.Contains(token) {
		return token, true
	}
	return "", false
}

// SeparatorInsensitiveStrategy strips separators from the field path only.
type SeparatorInsensitiveStrategy struct {
	baseStrategy
	separator string
}

// NewSeparatorInsensitiveStrategy creates a strategy removing sep from field paths.
func NewSeparatorInsensitiveStrategy(sep string) *SeparatorInsensitiveStrategy {
	return &SeparatorInsensitiveStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeSeparatorInsensitive,
			description: "Field path without separators equals a column name",
		},
		separator: sep,
	}
}

// Match implements Strategy.
func (s *SeparatorInsensitiveStrategy) Match(field string, columns ColumnSet) (string, bool) {
	stripped := strings.ReplaceAll(field, s.separator, "")
	if stripped != "" && columns.Contains(stripped) {
		return stripped, true
	}
	return "", false
}

// CaseInsensitiveStrategy matches a field path ignoring case.
type CaseInsensitiveStrategy struct {
	baseStrategy
}

// NewCaseInsensitiveStrategy creates a case-insensitive exact strategy.
func NewCaseInsensitiveStrategy() *CaseInsensitiveStrategy {
	return &CaseInsensitiveStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeCaseInsensitive,
			description: "Field path equals a column name ignoring case",
		},
	}
}

// Match implements Strategy.
func (s *CaseInsensitiveStrategy) Match(field string, columns ColumnSet) (string, bool) {
	want := asciiLower(field)
	for _, col := range columns {
		if asciiLower(col) == want {
			return col, true
		}
	}
	return "", false
}

// CaseInsensitiveSuffixStrategy matches the last path token ignoring case.
type CaseInsensitiveSuffixStrategy struct {
	baseStrategy
	separator string
}

// NewCaseInsensitiveSuffixStrategy creates a case-insensitive suffix strategy.
func NewCaseInsensitiveSuffixStrategy(sep string) *CaseInsensitiveSuffixStrategy {
	return &CaseInsensitiveSuffixStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeCaseInsensitiveSuffix,
			description: "Last path token equals a column name ignoring case",
		},
		separator: sep,
	}
}

// Match implements Strategy.
func (s *CaseInsensitiveSuffixStrategy) Match(field string, columns ColumnSet) (string, bool) {
	token := lastToken(field, s.separator)
	if token == "" {
		return "", false
	}
	want := asciiLower(token)
	for _, col := range columns {
		if asciiLower(col) == want {
			return col, true
		}
	}
	return "", false
}

// TokenOverlapStrategy accepts the first column sharing a significant token
// with the field path. Tokens are ASCII lowercased; a token is significant when it
// has more than minLength runes.
type TokenOverlapStrategy struct {
	baseStrategy
	separator string
	minLength int
}

// NewTokenOverlapStrategy creates a token-overlap strategy.
func NewTokenOverlapStrategy(sep string, minLength int) *TokenOverlapStrategy {
	return &TokenOverlapStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeTokenOverlap,
			description: "Field path and column share a significant token",
		},
		separator: sep,
		minLength: minLength,
	}
}

// MinLength returns the rune count a shared token must exceed.
func (s *TokenOverlapStrategy) MinLength() int {
	return s.minLength
}

// Match implements Strategy.
func (s *TokenOverlapStrategy) Match(field string, columns ColumnSet) (string, bool) {
	significant := make(map[string]struct{})
	for _, tok := range s.tokens(field) {
		if utf8.RuneCountInString(tok) > s.minLength {
			significant[tok] = struct{}{}
		}
	}
	if len(significant) == 0 {
		return "", false
	}

	for _, col := range columns {
		for _, tok := range s.tokens(col) {
			if _, ok := significant[tok]; ok {
				return col, true
			}
		}
	}
	return "", false
}

func (s *TokenOverlapStrategy) tokens(v string) []string {
	return strings.Split(asciiLower(v), s.separator)
}

// DefaultStrategies returns the standard cascade, strictest first.
func DefaultStrategies(sep string, minTokenLength int) []Strategy {
	return []Strategy{
		NewExactStrategy(),
		NewSuffixStrategy(sep),
		NewSeparatorInsensitiveStrategy(sep),
		NewCaseInsensitiveStrategy(),
		NewCaseInsensitiveSuffixStrategy(sep),
		NewTokenOverlapStrategy(sep, minTokenLength),
	}
}
