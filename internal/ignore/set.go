package ignore

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Set is a deduplicated collection of ignore patterns plus the layered
// matcher built from every line in git's priority order.
type Set struct {
	patterns []Pattern
	seen     mapset.Set[string]
	layered  []gitignore.Pattern
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{seen: mapset.NewThreadUnsafeSet[string]()}
}

// Add records p. Files must be added parents first, lines in file order.
// It reports whether p was new; duplicates still join the layered matcher.
func (s *Set) Add(p Pattern) bool {
	var domain []string
	if p.Base != "" {
		domain = strings.Split(p.Base, "/")
	}
	s.layered = append(s.layered, gitignore.ParsePattern(p.Raw, domain))

	if !s.seen.Add(p.Key()) {
		return false
	}
	s.patterns = append(s.patterns, p)
	return true
}

// Patterns returns the unique patterns in discovery order
func (s *Set) Patterns() []Pattern {
	out := make([]Pattern, len(s.patterns))
	copy(out, s.patterns)
	return out
}

// Len returns the number of unique patterns
func (s *Set) Len() int {
	return len(s.patterns)
}

// Matcher returns git's layered matcher over every added line
func (s *Set) Matcher() gitignore.Matcher {
	return gitignore.NewMatcher(s.layered)
}

// Ignored reports whether the slash path rel is ignored once negations
// and nesting are applied.
func (s *Set) Ignored(rel string, isDir bool) bool {
	return s.Matcher().Match(strings.Split(rel, "/"), isDir)
}
