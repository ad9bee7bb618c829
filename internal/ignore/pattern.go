// Package ignore extracts the patterns of every .gitignore file in a tree.
//
// Patterns are flattened for generation: each line becomes a Pattern with its
// negation and anchoring recorded but not evaluated. The Set also keeps git's
// layered evaluation order, so callers can ask whether a path is really
// ignored once negations are applied.
package ignore

import (
	"strings"
)

// FileName is the name of ignore rule files
const FileName = ".gitignore"

// Pattern is one rule line of an ignore file
type Pattern struct {
	// Source is the slash-separated path of the ignore file
	Source string
	// Base is the directory holding Source, "" at the root
	Base string
	// Line is the 1-based line number in Source
	Line int
	// Raw is the line without comments or trailing whitespace
	Raw string
	// Glob is the body with negation, leading and trailing slashes removed
	Glob string
	// Negated is set for lines starting with "!"
	Negated bool
	// Rooted is set when the pattern is anchored to Base
	Rooted bool
	// DirOnly is set for patterns ending in "/"
	DirOnly bool
}

// Key identifies patterns that generate the same paths
func (p Pattern) Key() string {
	var b strings.Builder
	b.WriteString(p.Base)
	b.WriteByte(0)
	if p.Rooted {
		b.WriteByte('/')
	}
	b.WriteString(p.Glob)
	if p.DirOnly {
		b.WriteByte('/')
	}
	return b.String()
}

// String returns the pattern as written
func (p Pattern) String() string {
	if p.Base == "" {
		return p.Raw
	}
	return p.Base + ": " + p.Raw
}

// ParseLine parses one ignore file line. It reports false for blank lines,
// comments and lines that reduce to nothing.
func ParseLine(line string) (Pattern, bool) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return Pattern{}, false
	}

	line = trimTrailingSpace(line)
	if line == "" {
		return Pattern{}, false
	}

	p := Pattern{Raw: line}
	body := line

	if strings.HasPrefix(body, "!") {
		p.Negated = true
		body = body[1:]
	}
	if strings.HasPrefix(body, "/") {
		p.Rooted = true
		body = body[1:]
	}
	if strings.HasSuffix(body, "/") && !strings.HasSuffix(body, `\/`) {
		p.DirOnly = true
		body = strings.TrimRight(body, "/")
	}

	if body == "" {
		return Pattern{}, false
	}
	if strings.Contains(body, "/") {
		p.Rooted = true
	}

	p.Glob = body
	return p, true
}

// ParseFile parses the content of the ignore file at source, a slash path
// relative to the tree root.
func ParseFile(source string, data []byte) []Pattern {
	base := ""
	if i := strings.LastIndex(source, "/"); i >= 0 {
		base = source[:i]
	}

	text := strings.TrimPrefix(string(data), "\ufeff")

	var patterns []Pattern
	for i, line := range strings.Split(text, "\n") {
		p, ok := ParseLine(line)
		if !ok {
			continue
		}
		p.Source = source
		p.Base = base
		p.Line = i + 1
		patterns = append(patterns, p)
	}
	return patterns
}

// trimTrailingSpace drops trailing spaces and tabs unless escaped with a backslash
func trimTrailingSpace(line string) string {
	end := len(line)
	for end > 0 && (line[end-1] == ' ' || line[end-1] == '\t') {
		if end >= 2 && line[end-2] == '\\' {
			break
		}
		end--
	}
	return line[:end]
}
