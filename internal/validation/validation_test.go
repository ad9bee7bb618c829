package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/go-leanclone/internal/errors"
)

func TestRepoNameFromURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    string
		wantErr bool
	}{
		{name: "https", uri: "https://github.com/torvalds/linux.git", want: "linux"},
		{name: "mixed case", uri: "https://github.com/microsoft/TypeScript.git", want: "TypeScript"},
		{name: "file remote", uri: "file:///tmp/remotes/widget.git", want: "widget"},
		{name: "trailing path", uri: "https://host/org/repo.git/", want: "repo"},
		{name: "dotted name does not match", uri: "https://github.com/org/repo.name.git", wantErr: true},
		{name: "no suffix", uri: "https://github.com/org/repo", wantErr: true},
		{name: "scp style without slash", uri: "git@github.com:repo.git", wantErr: true},
		{name: "empty", uri: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RepoNameFromURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, errors.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsCommitID(t *testing.T) {
	assert.True(t, IsCommitID("7895484a0e2d1c8e7b6f5a4d3c2b1a0987654321"))
	assert.True(t, IsCommitID("7895484A0E2D1C8E7B6F5A4D3C2B1A0987654321"))
	assert.True(t, IsCommitID("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"))
	assert.False(t, IsCommitID("v6.17"))
	assert.False(t, IsCommitID("7895484"))
	assert.False(t, IsCommitID("z895484a0e2d1c8e7b6f5a4d3c2b1a0987654321"))
}

func TestValidateRef(t *testing.T) {
	valid := []string{"main", "v2.6.39", "4.5-stable", "feature/x", "7895484a0e2d1c8e7b6f5a4d3c2b1a0987654321"}
	for _, ref := range valid {
		assert.NoError(t, ValidateRef(ref), ref)
	}

	invalid := []string{"", "-q", "a..b", "with space", "x~1", "x^", "a:b", "/abs", "dir/", "tab\tref"}
	for _, ref := range invalid {
		err := ValidateRef(ref)
		require.Error(t, err, ref)
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	}
}

func TestCloneDirName(t *testing.T) {
	got, err := CloneDirName("https://github.com/torvalds/linux.git", "v6.17")
	require.NoError(t, err)
	assert.Equal(t, "linux-v6.17", got)

	got, err = CloneDirName("https://github.com/org/tool.git", "release/1.x")
	require.NoError(t, err)
	assert.Equal(t, "tool-release-1.x", got)

	_, err = CloneDirName("https://github.com/org/tool", "main")
	require.Error(t, err)

	_, err = CloneDirName("https://github.com/org/tool.git", "")
	require.Error(t, err)
}

func TestValidateRelativePath(t *testing.T) {
	for _, p := range []string{"", "src", "arch/arm/common", "a/./b"} {
		assert.NoError(t, ValidateRelativePath(p, "subdir"), p)
	}
	for _, p := range []string{"/etc", "..", "../x", "a/../../x", `a\b`} {
		assert.Error(t, ValidateRelativePath(p, "subdir"), p)
	}
}

func TestValidateNonEmpty(t *testing.T) {
	require.NoError(t, ValidateNonEmpty("tool", "glug"))
	require.Error(t, ValidateNonEmpty("tool", "  "))
}

func TestResult(t *testing.T) {
	r := NewValidationResult()
	assert.True(t, r.Valid)
	require.NoError(t, r.FirstError())
	require.NoError(t, r.AllErrors())

	r.AddError(nil)
	assert.True(t, r.Valid)

	r.AddError(errors.EmptyFieldError("a"))
	r.AddError(errors.EmptyFieldError("b"))
	assert.False(t, r.Valid)
	assert.Contains(t, r.FirstError().Error(), ": a")
	assert.Contains(t, r.AllErrors().Error(), ": b")
}

func TestValidateSource(t *testing.T) {
	require.NoError(t, ValidateSource("https://github.com/vuejs/core.git", "v3.5.22"))
	require.Error(t, ValidateSource("https://github.com/vuejs/core", "v3.5.22"))
	require.Error(t, ValidateSource("https://github.com/vuejs/core.git", ""))
}
