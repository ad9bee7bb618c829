package globgen

import (
	"testing"

	"github.com/stretchr/testify/require"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
)

func FuzzGenerateGlob(f *testing.F) {
	seeds := []string{
		"**/*.o",
		"**/build/**/*",
		"src/[a-c]?.tmp",
		"**/[!a-z]*",
		"**/\\*literal",
		"**",
		"[",
		"a/**",
		"CON",
		"**/.git/**/*",
	}
	for i, s := range seeds {
		f.Add(s, uint64(i))
	}

	f.Fuzz(func(t *testing.T, glob string, seed uint64) {
		got, err := NewGenerator(seed).GenerateGlob(glob)
		if err != nil {
			require.ErrorIs(t, err, appErrors.ErrGenerationTimeout)
			return
		}
		require.NoError(t, CheckPath(got), "generated %q from %q", got, glob)
	})
}
