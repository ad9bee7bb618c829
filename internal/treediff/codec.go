// Package treediff decodes the tree listing produced by `git diff-index`
// against a ref: quoted path tokens and the per-line entry records.
package treediff

import (
	"strings"
	"unicode/utf8"

	"github.com/mrz1836/go-leanclone/internal/errors"
)

// namedEscapes maps the C-style escape letters git emits to their bytes
var namedEscapes = map[byte]byte{ //nolint:gochecknoglobals // read-only lookup table
	'a':  '\a',
	'b':  '\b',
	't':  '\t',
	'n':  '\n',
	'v':  '\v',
	'f':  '\f',
	'r':  '\r',
	'"':  '"',
	'\\': '\\',
}

// DecodePath returns the canonical path for a token printed by git.
//
// Tokens not wrapped in double quotes are returned unchanged. Quoted tokens
// have their C-style and octal (or \xHH) escapes resolved; the resulting
// bytes must form valid UTF-8.
func DecodePath(token string) (string, error) {
	if token == "" || token[0] != '"' {
		return token, nil
	}

	if len(token) < 2 || token[len(token)-1] != '"' {
		return "", &errors.DecodeError{Token: token}
	}

	inner := token[1 : len(token)-1]
	out := make([]byte, 0, len(inner))

	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}

		if i+1 >= len(inner) {
			return "", &errors.DecodeError{Token: token}
		}

		next := inner[i+1]
		switch {
		case isOctal(next):
			value, width := 0, 0
			for width < 3 && i+1+width < len(inner) && isOctal(inner[i+1+width]) {
				value = value*8 + int(inner[i+1+width]-'0')
				width++
			}
			if value > 0xff {
				return "", &errors.DecodeError{Token: token}
			}
			out = append(out, byte(value))
			i += width
		case next == 'x' && i+3 < len(inner) && isHex(inner[i+2]) && isHex(inner[i+3]):
			out = append(out, hexValue(inner[i+2])<<4|hexValue(inner[i+3]))
			i += 3
		default:
			if b, ok := namedEscapes[next]; ok {
				out = append(out, b)
			} else {
				out = append(out, '\\', next)
			}
			i++
		}
	}

	if !utf8.Valid(out) {
		return "", &errors.DecodeError{Token: token}
	}

	return string(out), nil
}

// EncodePath quotes a path the way git does with core.quotePath enabled.
// Paths without special bytes are returned unchanged.
func EncodePath(path string) string {
	if !needsQuoting(path) {
		return path
	}

	var b strings.Builder
	b.Grow(len(path) + 2)
	b.WriteByte('"')

	for i := 0; i < len(path); i++ {
		c := path[i]
		switch c {
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\v':
			b.WriteString(`\v`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			if c < 0x20 || c >= 0x7f {
				b.WriteByte('\\')
				b.WriteByte('0' + c>>6)
				b.WriteByte('0' + (c>>3)&7)
				b.WriteByte('0' + c&7)
			} else {
				b.WriteByte(c)
			}
		}
	}

	b.WriteByte('"')
	return b.String()
}

// DecodeLines decodes every line of a git path listing, skipping empty lines.
func DecodeLines(lines []string) ([]string, error) {
	paths := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		p, err := DecodePath(line)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func needsQuoting(path string) bool {
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c < 0x20 || c >= 0x7f || c == '"' || c == '\\' {
			return true
		}
	}
	return false
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
