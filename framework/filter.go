package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests by name.
//
// MustMatch works like the -run flag of "go test": each pattern is split on slashes, and each
// part must match the corresponding element of the test path. A group is therefore selected
// whenever its own path elements match, so that its matching subtests can run.
//
// MustNotMatch is matched against the whole slash-separated test ID. Excluding a group also
// excludes everything under it.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(id TestID) bool {
	if r.MustNotMatch.AnyMatch(id.String()) {
		return false
	}
	return !r.MustMatch.IsDefined() || r.MustMatch.AnyMatchPath(id.Path)
}

type RegexList struct {
	patterns []*regexp.Regexp
	elements [][]*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	var elements []*regexp.Regexp
	for _, part := range splitRegexp(value) {
		erx, err := regexp.Compile(part)
		if err != nil {
			return fmt.Errorf("invalid regex element %q: %w", part, err)
		}
		elements = append(elements, erx)
	}
	r.patterns = append(r.patterns, rx)
	r.elements = append(r.elements, elements)
	return nil
}

// Type is called by the command line parser when printing usage.
func (r *RegexList) Type() string {
	return "regex"
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

// AnyMatch returns true if any pattern matches the string as a whole.
func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// AnyMatchPath returns true if, for any pattern, each slash-separated part matches the path
// element at the same depth. Path elements deeper than the pattern are not checked.
func (r RegexList) AnyMatchPath(path []string) bool {
	for _, elements := range r.elements {
		matched := true
		for i := 0; i < len(path) && i < len(elements); i++ {
			if !elements[i].MatchString(path[i]) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// splitRegexp splits a pattern on slashes that are not inside brackets or parentheses, and
// are not escaped.
func splitRegexp(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[', '(':
			depth++
		case ']', ')':
			if depth > 0 {
				depth--
			}
		case '/':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if filters.MustMatch.IsDefined() || filters.MustNotMatch.IsDefined() {
		fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
		if filters.MustMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
		}
		if filters.MustNotMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
		}
		fmt.Fprintln(out)
	}
}
