package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Pattern
	}{
		{line: "*.log", want: Pattern{Raw: "*.log", Glob: "*.log"}},
		{line: "build/", want: Pattern{Raw: "build/", Glob: "build", DirOnly: true}},
		{line: "/dist", want: Pattern{Raw: "/dist", Glob: "dist", Rooted: true}},
		{line: "!keep.log", want: Pattern{Raw: "!keep.log", Glob: "keep.log", Negated: true}},
		{line: "!/root.txt", want: Pattern{Raw: "!/root.txt", Glob: "root.txt", Negated: true, Rooted: true}},
		{line: "docs/*.html", want: Pattern{Raw: "docs/*.html", Glob: "docs/*.html", Rooted: true}},
		{line: "**/cache/", want: Pattern{Raw: "**/cache/", Glob: "**/cache", Rooted: true, DirOnly: true}},
		{line: "trailing   ", want: Pattern{Raw: "trailing", Glob: "trailing"}},
		{line: `space\ `, want: Pattern{Raw: `space\ `, Glob: `space\ `}},
		{line: `\#hash`, want: Pattern{Raw: `\#hash`, Glob: `\#hash`}},
		{line: "crlf.tmp\r", want: Pattern{Raw: "crlf.tmp", Glob: "crlf.tmp"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLineSkips(t *testing.T) {
	for _, line := range []string{"", "# comment", "   ", "\r", "/", "!", "!/"} {
		_, ok := ParseLine(line)
		assert.False(t, ok, "%q", line)
	}
}

func TestParseFile(t *testing.T) {
	data := []byte("\ufeff# generated\n*.o\n\n!keep.o\nbin/\n")
	patterns := ParseFile("src/lib/.gitignore", data)

	require.Len(t, patterns, 3)
	assert.Equal(t, "src/lib", patterns[0].Base)
	assert.Equal(t, "src/lib/.gitignore", patterns[0].Source)
	assert.Equal(t, 2, patterns[0].Line)
	assert.Equal(t, 4, patterns[1].Line)
	assert.True(t, patterns[1].Negated)
	assert.True(t, patterns[2].DirOnly)

	root := ParseFile(".gitignore", []byte("*.log"))
	require.Len(t, root, 1)
	assert.Empty(t, root[0].Base)
}

func TestPatternKey(t *testing.T) {
	a, _ := ParseLine("*.log")
	b, _ := ParseLine("!*.log")
	assert.Equal(t, a.Key(), b.Key(), "negation does not change generated paths")

	c, _ := ParseLine("/*.log")
	assert.NotEqual(t, a.Key(), c.Key())

	d, _ := ParseLine("*.log/")
	assert.NotEqual(t, a.Key(), d.Key())

	e := a
	e.Base = "sub"
	assert.NotEqual(t, a.Key(), e.Key())
}
