package leanclone

import (
	"context"
	"os"
	"path/filepath"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/git"
	"github.com/mrz1836/go-leanclone/internal/treediff"
)

// Handle is a repository on disk: a finished lean clone or any existing
// working tree opened with Open. It is not safe for concurrent use.
type Handle struct {
	dir  string
	root string
	git  git.Client
}

// IgnoredFile is a tracked file that an ignore rule matches
type IgnoredFile struct {
	Path string
	// Rule is git's explanation: <source>:<line>:<pattern>\t<path>
	Rule string
}

func newHandle(client git.Client, dir string) *Handle {
	return &Handle{dir: dir, git: client}
}

// Open wraps an existing repository directory
func Open(client git.Client, dir string) (*Handle, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "resolve repository directory")
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, appErrors.DirectoryOperationError("open", abs, err)
	}
	if !info.IsDir() {
		return nil, appErrors.InvalidFieldError("directory", abs)
	}

	return newHandle(client, abs), nil
}

// Dir returns the working directory the handle was created with
func (h *Handle) Dir() string {
	return h.dir
}

// Join returns the absolute path of subdir below Dir
func (h *Handle) Join(subdir string) string {
	if subdir == "" {
		return h.dir
	}
	return filepath.Join(h.dir, filepath.FromSlash(subdir))
}

// Root returns the top level of the repository containing Dir. It is
// resolved once and cached.
func (h *Handle) Root(ctx context.Context) (string, error) {
	if h.root != "" {
		return h.root, nil
	}

	root, err := h.git.RevParseTopLevel(ctx, h.dir)
	if err != nil {
		return "", err
	}

	h.root = filepath.FromSlash(root)
	return h.root, nil
}

// Tracked lists tracked files below subdir, relative to subdir
func (h *Handle) Tracked(ctx context.Context, subdir string) ([]string, error) {
	return h.list(ctx, subdir, h.git.LsFiles)
}

// TrackedIgnored lists tracked files below subdir that an ignore rule matches
func (h *Handle) TrackedIgnored(ctx context.Context, subdir string) ([]string, error) {
	return h.list(ctx, subdir, h.git.LsFilesIgnored)
}

// UntrackedUnignored lists files below subdir that are neither tracked nor ignored
func (h *Handle) UntrackedUnignored(ctx context.Context, subdir string) ([]string, error) {
	return h.list(ctx, subdir, h.git.LsOthers)
}

// ExplainIgnored returns every tracked file below subdir matched by an
// ignore rule, with the rule that matches it.
func (h *Handle) ExplainIgnored(ctx context.Context, subdir string) ([]IgnoredFile, error) {
	files, err := h.TrackedIgnored(ctx, subdir)
	if err != nil {
		return nil, err
	}

	dir := h.Join(subdir)
	out := make([]IgnoredFile, 0, len(files))
	for _, file := range files {
		rule, err := h.git.CheckIgnore(ctx, dir, file)
		if err != nil {
			return nil, err
		}
		out = append(out, IgnoredFile{Path: file, Rule: rule})
	}

	return out, nil
}

// AbsPaths converts paths relative to subdir into absolute paths
func (h *Handle) AbsPaths(subdir string, files []string) []string {
	dir := h.Join(subdir)
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.Join(dir, filepath.FromSlash(f))
	}
	return out
}

func (h *Handle) list(ctx context.Context, subdir string, ls func(context.Context, string) ([]string, error)) ([]string, error) {
	lines, err := ls(ctx, h.Join(subdir))
	if err != nil {
		return nil, err
	}
	return treediff.DecodeLines(lines)
}
