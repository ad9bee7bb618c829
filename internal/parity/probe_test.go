package parity

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink support depends on developer mode")
	}

	dir := t.TempDir()
	assert.True(t, SupportsSymlinks(dir))
	assert.True(t, SupportsSymlinks(dir), "existing probe is reused")

	info, err := os.Lstat(filepath.Join(dir, symlinkProbe))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}

func TestSupportsSymlinks_MissingDir(t *testing.T) {
	assert.False(t, SupportsSymlinks(filepath.Join(t.TempDir(), "missing")))
}

func TestSupportsCaseMix(t *testing.T) {
	dir := t.TempDir()
	ok, err := SupportsCaseMix(dir)
	require.NoError(t, err)

	if runtime.GOOS == "linux" {
		assert.True(t, ok)
	}
	assert.FileExists(t, filepath.Join(dir, caseProbeUpper))
}

func TestSupportsCaseMix_MissingDir(t *testing.T) {
	_, err := SupportsCaseMix(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestSkipReason(t *testing.T) {
	dir := t.TempDir()

	reason, err := skipReason(Case{Skip: "Issue #35", Needs: NeedSymlinks}, dir)
	require.NoError(t, err)
	assert.Equal(t, "Issue #35", reason)

	reason, err = skipReason(Case{}, dir)
	require.NoError(t, err)
	assert.Empty(t, reason)

	_, err = skipReason(Case{Needs: NeedCaseMix}, filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, errCapability)

	if runtime.GOOS == "linux" {
		reason, err = skipReason(Case{Needs: NeedSymlinks | NeedCaseMix}, dir)
		require.NoError(t, err)
		assert.Empty(t, reason)
	}
}
