package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/logging"
)

// Common errors
var (
	ErrGitNotFound    = errors.New("git command not found in PATH")
	ErrGitTooOld      = errors.New("git version too old")
	ErrNotARepository = errors.New("not a git repository")
	ErrVersionFormat  = errors.New("unrecognized git version output")
)

// MinimumVersion is the first git release shipping `git restore`
const MinimumVersion = "2.23.0"

// Identity used for lean clone commits when the environment sets none
const (
	defaultIdentityName  = "leanclone"
	defaultIdentityEmail = "leanclone@localhost"
)

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// gitClient implements the Client interface using git commands
type gitClient struct {
	logger *logrus.Logger
}

// NewClient creates a new Git client after checking that a git binary is on
// PATH and that it is at least MinimumVersion.
func NewClient(ctx context.Context, logger *logrus.Logger) (Client, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, ErrGitNotFound
	}

	if logger == nil {
		logger = logging.Discard().Logger
	}

	client := &gitClient{logger: logger}
	if err := CheckVersion(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// CheckVersion fails with ErrGitTooOld when client reports a git version
// below MinimumVersion.
func CheckVersion(ctx context.Context, client Client) error {
	current, err := client.Version(ctx)
	if err != nil {
		return err
	}

	constraint, err := semver.NewConstraint(">= " + MinimumVersion)
	if err != nil {
		return err
	}

	if !constraint.Check(current) {
		return fmt.Errorf("%w: have %s, need %s", ErrGitTooOld, current, MinimumVersion)
	}

	return nil
}

// ParseVersion extracts the version from `git --version` output such as
// "git version 2.39.3 (Apple Git-145)" or "git version 2.45.1.windows.1".
func ParseVersion(output string) (*semver.Version, error) {
	match := versionPattern.FindString(output)
	if match == "" {
		return nil, fmt.Errorf("%w: %q", ErrVersionFormat, strings.TrimSpace(output))
	}

	v, err := semver.NewVersion(match)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrVersionFormat, match, err)
	}

	return v, nil
}

// Clone performs a depth 1 no-checkout clone
func (g *gitClient) Clone(ctx context.Context, uri, branch, dest string) error {
	args := []string{"clone", uri, "--depth", "1", "-qn", dest}
	if branch != "" {
		args = []string{"clone", uri, "--depth", "1", "-qnb", branch, dest}
	}

	if _, err := g.run(ctx, "", args...); err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}

	return nil
}

// Fetch fetches a single ref from the remote
func (g *gitClient) Fetch(ctx context.Context, repoPath, remote, ref string) error {
	if _, err := g.run(ctx, repoPath, "fetch", remote, ref); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", ref, err)
	}

	return nil
}

// DiffIndex returns the raw diff-index lines against ref
func (g *gitClient) DiffIndex(ctx context.Context, repoPath, ref string) ([]string, error) {
	lines, err := g.run(ctx, repoPath, "diff-index", ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list tree of %s: %w", ref, err)
	}

	return lines, nil
}

// Init initializes an empty repository
func (g *gitClient) Init(ctx context.Context, repoPath string) error {
	if _, err := g.run(ctx, repoPath, "init"); err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}

	return nil
}

// AddAll stages the whole working tree, including ignored files
func (g *gitClient) AddAll(ctx context.Context, repoPath string) error {
	if _, err := g.run(ctx, repoPath, "add", "-f", "."); err != nil {
		return fmt.Errorf("failed to add files: %w", err)
	}

	return nil
}

// Commit creates a commit with the given message
func (g *gitClient) Commit(ctx context.Context, repoPath, message string) error {
	if _, err := g.run(ctx, repoPath, "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

// LsFiles lists tracked files
func (g *gitClient) LsFiles(ctx context.Context, dir string) ([]string, error) {
	lines, err := g.run(ctx, dir, "ls-files")
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files: %w", err)
	}

	return lines, nil
}

// LsFilesIgnored lists tracked files matched by ignore rules
func (g *gitClient) LsFilesIgnored(ctx context.Context, dir string) ([]string, error) {
	lines, err := g.run(ctx, dir, "ls-files", "-ic", "--exclude-standard", ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked ignored files: %w", err)
	}

	return lines, nil
}

// LsOthers lists untracked, unignored files
func (g *gitClient) LsOthers(ctx context.Context, dir string) ([]string, error) {
	lines, err := g.run(ctx, dir, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked files: %w", err)
	}

	return lines, nil
}

// RevParseTopLevel returns the repository root
func (g *gitClient) RevParseTopLevel(ctx context.Context, dir string) (string, error) {
	lines, err := g.run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("failed to resolve repository root: %w", err)
	}

	if len(lines) == 0 {
		return "", fmt.Errorf("%w: empty rev-parse output", appErrors.ErrParse)
	}

	return lines[0], nil
}

// CheckIgnore returns the first line of `check-ignore --no-index -v`
func (g *gitClient) CheckIgnore(ctx context.Context, dir, file string) (string, error) {
	lines, err := g.run(ctx, dir, "check-ignore", "--no-index", "-v", file)
	if err != nil {
		return "", fmt.Errorf("failed to explain ignore rule for %s: %w", file, err)
	}

	if len(lines) == 0 {
		return "", nil
	}

	return lines[0], nil
}

// Version runs `git --version`
func (g *gitClient) Version(ctx context.Context) (*semver.Version, error) {
	lines, err := g.run(ctx, "", "--version")
	if err != nil {
		return nil, fmt.Errorf("failed to get git version: %w", err)
	}

	return ParseVersion(strings.Join(lines, "\n"))
}

// run executes git with args in dir and returns stdout split into lines
func (g *gitClient) run(ctx context.Context, dir string, args ...string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //nolint:gosec // Arguments are safely constructed
	cmd.Dir = dir
	cmd.Env = commandEnv(os.Environ())

	logger := g.logger.WithFields(logrus.Fields{
		logging.StandardFields.Component: logging.ComponentNames.Git,
		logging.StandardFields.Command:   strings.Join(cmd.Args, " "),
		logging.StandardFields.WorkDir:   dir,
	})
	if g.logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.Debug("Executing git command")
	}

	var stderr bytes.Buffer
	var stdout bytes.Buffer

	cmd.Stderr = &stderr
	cmd.Stdout = &stdout

	err := cmd.Run()
	if err == nil {
		return splitLines(stdout.String()), nil
	}

	errMsg := strings.TrimSpace(stderr.String())
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	logger.WithFields(logrus.Fields{
		logging.StandardFields.Stderr:   errMsg,
		logging.StandardFields.ExitCode: exitCode,
	}).Error("Git command failed")

	if strings.Contains(errMsg, "not a git repository") {
		return nil, fmt.Errorf("%w: %w: %s", appErrors.ErrGitCommand, ErrNotARepository, errMsg)
	}

	if errMsg != "" {
		return nil, fmt.Errorf("%w: %s", appErrors.ErrGitCommand, errMsg)
	}

	return nil, fmt.Errorf("%w: %w", appErrors.ErrGitCommand, err)
}

// commandEnv disables credential prompts and provides a commit identity when
// the environment has none.
func commandEnv(base []string) []string {
	env := make([]string, 0, len(base)+5)
	env = append(env, base...)
	env = append(env, "GIT_TERMINAL_PROMPT=0")

	defaults := []struct{ key, value string }{
		{"GIT_AUTHOR_NAME", defaultIdentityName},
		{"GIT_AUTHOR_EMAIL", defaultIdentityEmail},
		{"GIT_COMMITTER_NAME", defaultIdentityName},
		{"GIT_COMMITTER_EMAIL", defaultIdentityEmail},
	}
	for _, d := range defaults {
		if !hasEnv(base, d.key) {
			env = append(env, d.key+"="+d.value)
		}
	}

	return env
}

func hasEnv(env []string, key string) bool {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) && len(kv) > len(prefix) {
			return true
		}
	}
	return false
}

func splitLines(out string) []string {
	out = strings.TrimRight(out, "\r\n")
	if out == "" {
		return nil
	}

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
