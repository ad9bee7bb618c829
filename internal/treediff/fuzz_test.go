package treediff

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/go-leanclone/internal/errors"
)

func FuzzDecodeRoundTrip(f *testing.F) {
	seeds := []string{
		"",
		"src/main.c",
		"café/naïve.md",
		"tab\there",
		`quote"and\backslash`,
		"emoji/🎉.txt",
		"\x01\x7f",
		`"already quoted"`,
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, path string) {
		if !utf8.ValidString(path) {
			t.Skip()
		}
		got, err := DecodePath(EncodePath(path))
		require.NoError(t, err)
		require.Equal(t, path, got)
	})
}

func FuzzDecodePath(f *testing.F) {
	seeds := []string{
		`"caf\303\251"`,
		`"\x41"`,
		`"\777"`,
		`"unterminated`,
		`"trailing\"`,
		`"\377"`,
		"plain",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, token string) {
		got, err := DecodePath(token)
		if err != nil {
			require.ErrorIs(t, err, errors.ErrDecode)
			return
		}
		if token != "" && token[0] == '"' {
			require.True(t, utf8.ValidString(got), "decoded %q from %q", got, token)
		}
	})
}
