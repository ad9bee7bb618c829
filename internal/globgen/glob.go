package globgen

import (
	"strings"

	"github.com/mrz1836/go-leanclone/internal/ignore"
)

// Normalize turns an ignore pattern into a glob anchored at the tree root:
// unrooted patterns match at any depth below their base, and directory
// patterns must match something underneath.
func Normalize(p ignore.Pattern) string {
	glob := p.Glob
	if !p.Rooted {
		glob = "**/" + glob
	}
	if p.DirOnly {
		glob += "/**/*"
	}
	if p.Base != "" {
		glob = EscapeLiteral(p.Base) + "/" + glob
	}
	return glob
}

// EscapeLiteral escapes glob metacharacters so s matches only itself
func EscapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[]\{}`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokAnyChar
	tokStar
	tokDirs // "**/": zero or more whole directories
	tokTail // trailing "/**": one or more segments
	tokClass
)

type token struct {
	kind  tokenKind
	text  string
	class charClass
}

// charClass is a bracket expression such as [a-c] or [!0-9]
type charClass struct {
	negated bool
	ranges  [][2]rune
}

func (c charClass) contains(r rune) bool {
	for _, rg := range c.ranges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// candidates lists the legal runes the class can produce
func (c charClass) candidates() []rune {
	if c.negated {
		out := make([]rune, 0, len(alphabet))
		for _, r := range alphabet {
			if !c.contains(r) {
				out = append(out, r)
			}
		}
		return out
	}

	var out []rune
	for _, rg := range c.ranges {
		for r := rg[0]; r <= rg[1] && len(out) < 4096; r++ {
			if LegalRune(r) {
				out = append(out, r)
			}
		}
	}
	return out
}

// tokenize splits a normalized glob into generation tokens
func tokenize(glob string) []token {
	runes := []rune(glob)
	var tokens []token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{kind: tokLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '\\':
			if i+1 < len(runes) {
				i++
				lit.WriteRune(runes[i])
			} else {
				lit.WriteRune(r)
			}
		case '?':
			flush()
			tokens = append(tokens, token{kind: tokAnyChar})
		case '*':
			n := 1
			for i+n < len(runes) && runes[i+n] == '*' {
				n++
			}
			atSegmentStart := i == 0 || runes[i-1] == '/'
			end := i + n
			flush()
			switch {
			case n >= 2 && atSegmentStart && end < len(runes) && runes[end] == '/':
				tokens = append(tokens, token{kind: tokDirs})
				end++
			case n >= 2 && atSegmentStart && end == len(runes) && i > 0:
				tokens = append(tokens, token{kind: tokTail})
			default:
				tokens = append(tokens, token{kind: tokStar})
			}
			i = end - 1
		case '[':
			class, width, ok := parseClass(runes[i:])
			if !ok {
				lit.WriteRune(r)
				continue
			}
			flush()
			tokens = append(tokens, token{kind: tokClass, class: class})
			i += width - 1
		default:
			lit.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// parseClass parses a bracket expression at the start of runes and returns
// it with the number of runes consumed. An unterminated bracket is not a
// class. A class never matches the path separator, so "/" is dropped from
// its members: [^/] is any character and [/] is nothing.
func parseClass(runes []rune) (charClass, int, bool) {
	var class charClass
	i := 1
	if i < len(runes) && (runes[i] == '!' || runes[i] == '^') {
		class.negated = true
		i++
	}

	first := true
	for i < len(runes) {
		r := runes[i]
		if r == ']' && !first {
			ok := len(class.ranges) > 0
			class.ranges = withoutSeparator(class.ranges)
			return class, i + 1, ok
		}
		if r == '\\' && i+1 < len(runes) {
			i++
			r = runes[i]
		}

		lo := r
		if i+2 < len(runes) && runes[i+1] == '-' && runes[i+2] != ']' {
			hi := runes[i+2]
			if hi == '\\' && i+3 < len(runes) {
				hi = runes[i+3]
				i++
			}
			if hi >= lo {
				class.ranges = append(class.ranges, [2]rune{lo, hi})
			}
			i += 3
		} else {
			class.ranges = append(class.ranges, [2]rune{lo, lo})
			i++
		}
		first = false
	}

	return charClass{}, 0, false
}

// withoutSeparator removes '/' from ranges, splitting a range around it
func withoutSeparator(ranges [][2]rune) [][2]rune {
	out := make([][2]rune, 0, len(ranges))
	for _, rg := range ranges {
		if rg[0] > '/' || rg[1] < '/' {
			out = append(out, rg)
			continue
		}
		if rg[0] < '/' {
			out = append(out, [2]rune{rg[0], '/' - 1})
		}
		if rg[1] > '/' {
			out = append(out, [2]rune{'/' + 1, rg[1]})
		}
	}
	return out
}

// render writes tokens back as a doublestar pattern, in which an unclosed
// bracket is an error and braces mean alternation.
func render(tokens []token) string {
	var b strings.Builder
	for _, t := range tokens {
		switch t.kind {
		case tokLiteral:
			b.WriteString(EscapeLiteral(t.text))
		case tokAnyChar:
			b.WriteByte('?')
		case tokStar:
			b.WriteByte('*')
		case tokDirs:
			b.WriteString("**/")
		case tokTail:
			b.WriteString("**")
		case tokClass:
			if t.class.negated && len(t.class.ranges) == 0 {
				b.WriteByte('?')
				continue
			}
			b.WriteByte('[')
			if t.class.negated {
				b.WriteByte('!')
			}
			for _, rg := range t.class.ranges {
				writeClassRune(&b, rg[0])
				if rg[1] != rg[0] {
					b.WriteByte('-')
					writeClassRune(&b, rg[1])
				}
			}
			b.WriteByte(']')
		}
	}
	return b.String()
}

func writeClassRune(b *strings.Builder, r rune) {
	if strings.ContainsRune(`\]-^!`, r) {
		b.WriteByte('\\')
	}
	b.WriteRune(r)
}
