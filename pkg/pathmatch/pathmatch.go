// Package pathmatch matches slash-separated paths against glob patterns
// the way find(1) -path does.
//
// Matching follows fnmatch(3) without FNM_PATHNAME or FNM_PERIOD:
//   - * matches any run of characters, / included
//   - ? matches exactly one character, / included
//   - [...] and [!...] match one character from, or outside, a set
//   - \ makes the next character literal
//
// A pattern must match the whole path, so "docs/*.txt" selects
// "docs/a.txt" as well as "docs/deep/b.txt", but not "a.txt".
package pathmatch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// ErrPattern is returned for patterns that cannot be compiled.
var ErrPattern = errors.New("invalid pattern")

// Pattern is a compiled glob.
type Pattern struct {
	glob string
	re   *regexp.Regexp
}

// String returns the glob the pattern was compiled from.
func (p *Pattern) String() string {
	return p.glob
}

// Match reports whether path matches the whole pattern.
func (p *Pattern) Match(path string) bool {
	return p.re.MatchString(path)
}

var compiled sync.Map //nolint:gochecknoglobals // shared cache of compiled globs

// Compile turns glob into a Pattern. Compiled patterns are cached.
func Compile(glob string) (*Pattern, error) {
	if v, ok := compiled.Load(glob); ok {
		pattern, _ := v.(*Pattern) //nolint:errcheck // only *Pattern is stored

		return pattern, nil
	}

	expr, err := translate(glob)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrPattern, glob, err)
	}

	pattern := &Pattern{glob: glob, re: re}
	compiled.Store(glob, pattern)

	return pattern, nil
}

// Match reports whether path matches glob.
func Match(glob, path string) (bool, error) {
	pattern, err := Compile(glob)
	if err != nil {
		return false, err
	}

	return pattern.Match(path), nil
}

// Matcher holds a set of compiled patterns.
type Matcher struct {
	patterns []*Pattern
}

// NewMatcher compiles every glob. An empty set matches nothing.
func NewMatcher(globs []string) (*Matcher, error) {
	m := &Matcher{patterns: make([]*Pattern, 0, len(globs))}

	for _, glob := range globs {
		pattern, err := Compile(glob)
		if err != nil {
			return nil, err
		}

		m.patterns = append(m.patterns, pattern)
	}

	return m, nil
}

// Len returns the number of patterns.
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// MatchAny reports whether path matches at least one pattern.
func (m *Matcher) MatchAny(path string) bool {
	for _, pattern := range m.patterns {
		if pattern.Match(path) {
			return true
		}
	}

	return false
}

// translate rewrites a glob as an anchored regular expression.
func translate(glob string) (string, error) {
	var expr strings.Builder

	expr.WriteByte('^')

	for i := 0; i < len(glob); {
		switch c := glob[i]; c {
		case '*':
			expr.WriteString(".*")
			i++
		case '?':
			expr.WriteByte('.')
			i++
		case '[':
			end, err := classEnd(glob, i)
			if err != nil {
				return "", err
			}

			expr.WriteString(class(glob[i+1 : end]))
			i = end + 1
		case '\\':
			if i+1 == len(glob) {
				return "", fmt.Errorf("%w: %q ends with a backslash", ErrPattern, glob)
			}

			expr.WriteString(regexp.QuoteMeta(glob[i+1 : i+2]))
			i += 2
		default:
			expr.WriteString(regexp.QuoteMeta(glob[i : i+1]))
			i++
		}
	}

	expr.WriteByte('$')

	return expr.String(), nil
}

// class converts the body of a bracket expression, without its brackets, to regexp syntax.
func class(body string) string {
	if strings.HasPrefix(body, "!") {
		return "[^" + body[1:] + "]"
	}

	return "[" + body + "]"
}

// classEnd returns the index of the ] closing the bracket expression opened at start.
// A ] directly after [ or [! is a literal member of the set.
func classEnd(glob string, start int) (int, error) {
	i := start + 1

	if i < len(glob) && glob[i] == '!' {
		i++
	}

	if i < len(glob) && glob[i] == ']' {
		i++
	}

	if end := strings.IndexByte(glob[i:], ']'); end >= 0 {
		return i + end, nil
	}

	return 0, fmt.Errorf("%w: %q has an unclosed character class", ErrPattern, glob)
}
