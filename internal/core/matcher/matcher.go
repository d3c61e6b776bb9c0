package matcher

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Matcher reports all non-overlapping matches in a frame's text, in
// ascending offset order. The callback returns false to stop the scan
// of the current text; Scan returns having reported the matches found
// so far.
type Matcher interface {
	Scan(text string, fn func(from, to int) bool)
}

// RegexpMatcher is the stdlib-regexp backed Matcher.
type RegexpMatcher struct {
	re *regexp.Regexp
}

// Compile builds a matcher for the given pattern. Invalid pattern
// syntax is a configuration error.
func Compile(pattern string, caseInsensitive bool) (*RegexpMatcher, error) {
	expr := pattern
	if caseInsensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &RegexpMatcher{re: re}, nil
}

// Scan walks text incrementally so an early stop does no further
// matching work. Byte offsets are relative to the start of text.
func (m *RegexpMatcher) Scan(text string, fn func(from, to int) bool) {
	base := 0
	for base <= len(text) {
		loc := m.re.FindStringIndex(text[base:])
		if loc == nil {
			return
		}
		from, to := base+loc[0], base+loc[1]
		if !fn(from, to) {
			return
		}
		if to > from {
			base = to
			continue
		}
		// Empty match: step past one rune to guarantee progress.
		if to >= len(text) {
			return
		}
		_, size := utf8.DecodeRuneInString(text[to:])
		base = to + size
	}
}
