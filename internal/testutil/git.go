// Package testutil provides shared helpers for tests: git fixture repositories,
// file trees and testify mock result extraction.
package testutil

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// SkipIfNoGit skips the test if git is not available
func SkipIfNoGit(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not available")
	}
}

// SkipIfShort skips a test if running in short mode.
func SkipIfShort(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}

// Git runs git in dir and returns trimmed stdout, failing the test on error.
func Git(t testing.TB, dir string, args ...string) string {
	t.Helper()

	full := append([]string{"-c", "commit.gpgsign=false", "-c", "core.autocrlf=false"}, args...)
	cmd := exec.CommandContext(context.Background(), "git", full...) //nolint:gosec // test helper with controlled arguments
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"GIT_AUTHOR_NAME=Test User",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test User",
		"GIT_COMMITTER_EMAIL=test@example.com",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("git %s failed: %v: %s", strings.Join(args, " "), err, stderr.String())
	}

	return strings.TrimSpace(stdout.String())
}

// InitRepo initializes a repository in dir on branch main. The repository
// accepts fetches of any commit so shallow commit clones work against it.
func InitRepo(t testing.TB, dir string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	Git(t, dir, "init", "-q")
	Git(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	Git(t, dir, "config", "uploadpack.allowAnySHA1InWant", "true")
}

// CommitAll stages everything in dir, commits it and returns the commit id.
func CommitAll(t testing.TB, dir, message string) string {
	t.Helper()

	Git(t, dir, "add", "-A")
	Git(t, dir, "commit", "-q", "--allow-empty", "-m", message)
	return Git(t, dir, "rev-parse", "HEAD")
}

// Tag creates a lightweight tag at HEAD
func Tag(t testing.TB, dir, name string) {
	t.Helper()
	Git(t, dir, "tag", name)
}

// AddGitlink records a submodule pointer at path without cloning it, and
// appends the matching section to .gitmodules. Both are staged; the caller
// commits with CommitIndex.
func AddGitlink(t testing.TB, dir, path, url, commit string) {
	t.Helper()

	modules := filepath.Join(dir, ".gitmodules")
	section := "[submodule \"" + path + "\"]\n\tpath = " + path + "\n\turl = " + url + "\n"

	f, err := os.OpenFile(modules, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // test helper path
	if err != nil {
		t.Fatalf("failed to open .gitmodules: %v", err)
	}
	if _, err = f.WriteString(section); err != nil {
		_ = f.Close()
		t.Fatalf("failed to write .gitmodules: %v", err)
	}
	if err = f.Close(); err != nil {
		t.Fatalf("failed to close .gitmodules: %v", err)
	}

	Git(t, dir, "update-index", "--add", "--cacheinfo", "160000,"+commit+","+path)
	Git(t, dir, "add", ".gitmodules")
}

// CommitIndex commits whatever is staged and returns the commit id. Use it
// instead of CommitAll after AddGitlink, which leaves no directory on disk.
func CommitIndex(t testing.TB, dir, message string) string {
	t.Helper()

	Git(t, dir, "commit", "-q", "-m", message)
	return Git(t, dir, "rev-parse", "HEAD")
}

// NewRemote creates a repository named <name>.git under a temp directory,
// writes files, commits them and returns the repository path and its file:// URI.
func NewRemote(t testing.TB, name string, files map[string]string) (string, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), name+".git")
	InitRepo(t, dir)
	WriteTree(t, dir, files)
	CommitAll(t, dir, "initial")

	return dir, FileURI(dir)
}

// FileURI returns the file:// URI of a local path
func FileURI(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}
