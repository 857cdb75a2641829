package volfix

import (
	"fmt"
	"regexp"
	"strings"

	funk "github.com/thoas/go-funk"
)

// SessionMatcher decides whether a session's display name is the one we want
type SessionMatcher func(name string) bool

const (
	MatchExact   = "exact"
	MatchPrefix  = "prefix"
	MatchPattern = "pattern"
)

// MatchModes lists the accepted values for the session_match setting
var MatchModes = []string{MatchExact, MatchPrefix, MatchPattern}

// ExactName matches display names equal to name
func ExactName(name string) SessionMatcher {
	return func(candidate string) bool {
		return candidate == name
	}
}

// NamePrefix matches display names starting with prefix
func NamePrefix(prefix string) SessionMatcher {
	return func(candidate string) bool {
		return strings.HasPrefix(candidate, prefix)
	}
}

// NamePattern matches display names against a regular expression
func NamePattern(expr string) (SessionMatcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, NewInputError("invalid session pattern %q: %v", expr, err)
	}

	return re.MatchString, nil
}

// MatcherFor builds the matcher for the given mode
func MatcherFor(mode string, name string) (SessionMatcher, error) {
	if mode == "" {
		mode = MatchExact
	}

	if !funk.ContainsString(MatchModes, mode) {
		return nil, NewInputError("unknown session match mode %q (expected one of %s)",
			mode, strings.Join(MatchModes, ", "))
	}

	switch mode {
	case MatchPrefix:
		return NamePrefix(name), nil
	case MatchPattern:
		return NamePattern(name)
	default:
		return ExactName(name), nil
	}
}

func describeMatch(mode string, name string) string {
	if mode == MatchExact || mode == "" {
		return fmt.Sprintf("%q", name)
	}

	return fmt.Sprintf("%s %q", mode, name)
}
