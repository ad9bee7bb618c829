package globgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/go-leanclone/internal/ignore"
)

func parse(t *testing.T, base, line string) ignore.Pattern {
	t.Helper()
	p, ok := ignore.ParseLine(line)
	if !ok {
		t.Fatalf("pattern %q did not parse", line)
	}
	p.Base = base
	return p
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		base string
		line string
		want string
	}{
		{line: "*.log", want: "**/*.log"},
		{line: "/*.log", want: "*.log"},
		{line: "build/", want: "**/build/**/*"},
		{line: "/dist/", want: "dist/**/*"},
		{line: "docs/*.html", want: "docs/*.html"},
		{line: "!keep.log", want: "**/keep.log"},
		{line: "**/cache", want: "**/cache"},
		{base: "src", line: "generated/", want: "src/**/generated/**/*"},
		{base: "src", line: "/out", want: "src/out"},
		{base: "a[1]", line: "x", want: `a\[1\]/**/x`},
	}

	for _, tt := range tests {
		t.Run(tt.base+":"+tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(parse(t, tt.base, tt.line)))
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		glob  string
		kinds []tokenKind
	}{
		{glob: "**/*.log", kinds: []tokenKind{tokDirs, tokStar, tokLiteral}},
		{glob: "build/**/*", kinds: []tokenKind{tokLiteral, tokDirs, tokStar}},
		{glob: "out/**", kinds: []tokenKind{tokLiteral, tokTail}},
		{glob: "a**b", kinds: []tokenKind{tokLiteral, tokStar, tokLiteral}},
		{glob: "**", kinds: []tokenKind{tokStar}},
		{glob: "file?.txt", kinds: []tokenKind{tokLiteral, tokAnyChar, tokLiteral}},
		{glob: "[abc]ignore", kinds: []tokenKind{tokClass, tokLiteral}},
		{glob: "[abc", kinds: []tokenKind{tokLiteral}},
		{glob: "[a/b]", kinds: []tokenKind{tokClass}},
		{glob: `\*literal`, kinds: []tokenKind{tokLiteral}},
	}

	for _, tt := range tests {
		t.Run(tt.glob, func(t *testing.T) {
			tokens := tokenize(tt.glob)
			kinds := make([]tokenKind, 0, len(tokens))
			for _, tok := range tokens {
				kinds = append(kinds, tok.kind)
			}
			assert.Equal(t, tt.kinds, kinds)
		})
	}
}

func TestTokenizeLiterals(t *testing.T) {
	assert.Equal(t, "*literal", tokenize(`\*literal`)[0].text)
	assert.Equal(t, "[abc", tokenize("[abc")[0].text)
	assert.Equal(t, "a/", tokenize("a/**/b")[0].text)
}

func TestParseClass(t *testing.T) {
	tests := []struct {
		pattern string
		in      []rune
		out     []rune
		width   int
	}{
		{pattern: "[abc]", in: []rune("abc"), out: []rune("dA"), width: 5},
		{pattern: "[a-c]x", in: []rune("abc"), out: []rune("dx"), width: 5},
		{pattern: "[!a-c]", in: []rune("dZ0"), out: []rune("abc"), width: 6},
		{pattern: "[^0-9]", in: []rune("x"), out: []rune("5"), width: 6},
		{pattern: "[]a]", in: []rune("]a"), out: []rune("b"), width: 4},
		{pattern: "[a-]", in: []rune("a-"), out: []rune("b"), width: 4},
		{pattern: `[\]x]`, in: []rune("]x"), out: []rune(`\`), width: 5},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			class, width, ok := parseClass([]rune(tt.pattern))
			assert.True(t, ok)
			assert.Equal(t, tt.width, width)
			for _, r := range tt.in {
				assert.Equal(t, !class.negated, class.contains(r), "%q", r)
			}
			for _, r := range tt.out {
				assert.Equal(t, class.negated, class.contains(r), "%q", r)
			}
		})
	}
}

func TestClassCandidates(t *testing.T) {
	class, _, ok := parseClass([]rune("[a-c]"))
	assert.True(t, ok)
	assert.Equal(t, []rune("abc"), class.candidates())

	class, _, ok = parseClass([]rune("[:*]"))
	assert.True(t, ok)
	assert.Empty(t, class.candidates())

	class, _, ok = parseClass([]rune("[!a]"))
	assert.True(t, ok)
	candidates := class.candidates()
	assert.NotContains(t, candidates, 'a')
	assert.NotContains(t, candidates, ':')
	assert.Contains(t, candidates, 'b')
}

func TestParseClass_Separator(t *testing.T) {
	class, width, ok := parseClass([]rune("[^/]x"))
	require.True(t, ok)
	assert.Equal(t, 4, width)
	assert.True(t, class.negated)
	assert.Empty(t, class.ranges)
	assert.Equal(t, Alphabet(), class.candidates())

	class, _, ok = parseClass([]rune("[a/b]"))
	require.True(t, ok)
	assert.Equal(t, []rune("ab"), class.candidates())

	class, _, ok = parseClass([]rune("[+-0]"))
	require.True(t, ok)
	assert.Equal(t, []rune("+,-.0"), class.candidates())
	assert.False(t, class.contains('/'))

	class, _, ok = parseClass([]rune("[/]"))
	require.True(t, ok)
	assert.Empty(t, class.candidates())
}

func TestRender(t *testing.T) {
	tests := map[string]string{
		"**/*.log":   "**/*.log",
		"out/**":     "out/**",
		"[abc]x":     "[abc]x",
		"[!a-c]":     "[!a-c]",
		"[abc":       `\[abc`,
		"{a,b}":      `\{a,b\}`,
		`a\*b`:       `a\*b`,
		"[]a]":       `[\]a]`,
		"file?.java": "file?.java",
		"[^/]":       "?",
		"x[a/b]":     "x[ab]",
	}
	for glob, want := range tests {
		assert.Equal(t, want, render(tokenize(glob)), glob)
	}
}
