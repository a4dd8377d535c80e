// Package matcher filters names with glob or regular expression patterns.
package matcher

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses shell-style glob patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto attempts to detect the pattern type.
	Auto
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Matcher tests names against a compiled pattern.
type Matcher interface {
	// Match checks if the input matches the pattern
	Match(input string) bool
	// Filter returns the inputs that match, in order.
	Filter(inputs ...string) []string
	// Pattern returns the original pattern string.
	Pattern() string
	// Type returns the pattern type being used.
	Type() PatternType
}

// Option configures a Matcher.
type Option func(*options)

type options struct {
	caseInsensitive bool
}

// WithCaseInsensitive makes matching ignore case.
func WithCaseInsensitive() Option {
	return func(o *options) {
		o.caseInsensitive = true
	}
}

type matcher struct {
	pattern     string
	patternType PatternType
	glob        string
	re          *regexp.Regexp
	foldCase    bool
}

// New compiles pattern. Auto picks Regex when the pattern carries regex
// syntax and Glob otherwise.
func New(patternType PatternType, pattern string, opts ...Option) (Matcher, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	m := &matcher{pattern: pattern, patternType: patternType, foldCase: o.caseInsensitive}
	if patternType == Auto {
		m.patternType = detectPatternType(pattern)
	}

	switch m.patternType {
	case Glob:
		m.glob = pattern
		if m.foldCase {
			m.glob = strings.ToLower(pattern)
		}
		if _, err := filepath.Match(m.glob, ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
	case Regex:
		expr := pattern
		if m.foldCase && !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		m.re = re
	default:
		return nil, fmt.Errorf("unsupported pattern type: %v", patternType)
	}
	return m, nil
}

func (m *matcher) Match(input string) bool {
	if m.re != nil {
		return m.re.MatchString(input)
	}
	if m.foldCase {
		input = strings.ToLower(input)
	}
	ok, _ := filepath.Match(m.glob, input)
	return ok
}

func (m *matcher) Filter(inputs ...string) []string {
	var out []string
	for _, in := range inputs {
		if m.Match(in) {
			out = append(out, in)
		}
	}
	return out
}

func (m *matcher) Pattern() string {
	return m.pattern
}

func (m *matcher) Type() PatternType {
	return m.patternType
}

// detectPatternType reports Regex for patterns using regex-only syntax.
func detectPatternType(pattern string) PatternType {
	regexIndicators := []string{
		"^", "$", `\d`, `\w`, `\s`, `\D`, `\W`, `\S`,
		"(?:", "(?i)", "{", "}", "+", "|", "(", ")",
	}
	for _, indicator := range regexIndicators {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	return Glob
}

// Any matches when at least one of its matchers does. An empty Any matches
// everything.
type Any []Matcher

// NewAny compiles each pattern with Auto detection.
func NewAny(patterns []string, opts ...Option) (Any, error) {
	out := make(Any, 0, len(patterns))
	for _, p := range patterns {
		m, err := New(Auto, p, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Match implements Matcher semantics for the set.
func (a Any) Match(input string) bool {
	if len(a) == 0 {
		return true
	}
	for _, m := range a {
		if m.Match(input) {
			return true
		}
	}
	return false
}

// Filter returns the inputs matched by any pattern, in order.
func (a Any) Filter(inputs ...string) []string {
	var out []string
	for _, in := range inputs {
		if a.Match(in) {
			out = append(out, in)
		}
	}
	return out
}
