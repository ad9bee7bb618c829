// Package leanclone builds lean clones: repositories whose tree has the shape
// of a remote ref (paths, symlinks, ignore files, submodule boundaries) while
// most files are empty and no history is kept.
package leanclone

import (
	"context"
	"embed"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-leanclone/internal/cache"
	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/git"
	"github.com/mrz1836/go-leanclone/internal/logging"
	"github.com/mrz1836/go-leanclone/internal/treediff"
	"github.com/mrz1836/go-leanclone/internal/validation"
)

// LayoutVersion is a manual override of the cache fingerprint, for changes
// the hashed sources do not capture (a new git release, say).
const LayoutVersion = "3"

// CommitMessagePrefix starts the message of the single lean clone commit
const CommitMessagePrefix = "Lean clone of "

// buildSources are the files whose content decides the tree Build produces
//
//go:embed engine.go plan.go submodule.go
var buildSources embed.FS

// Fingerprint identifies the current build logic: LayoutVersion plus the
// content of the build and git command sources.
func Fingerprint() string {
	fp, err := cache.SourceFingerprint(LayoutVersion, buildSources, git.Sources())
	if err != nil {
		// embedded files are always readable
		panic(err)
	}
	return fp
}

// Engine builds lean clones through a git client
type Engine struct {
	git        git.Client
	guard      *cache.Guard
	logger     *logrus.Entry
	retryDelay time.Duration
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the log sink
func WithLogger(logger *logrus.Entry) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLockRetryDelay sets how often a blocked build polls the destination lock
func WithLockRetryDelay(delay time.Duration) Option {
	return func(e *Engine) {
		e.retryDelay = delay
	}
}

// NewEngine creates an engine
func NewEngine(client git.Client, opts ...Option) *Engine {
	e := &Engine{
		git:        client,
		logger:     logging.Discard(),
		retryDelay: cache.DefaultRetryDelay,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.guard = cache.NewGuard(Fingerprint(), e.logger).WithRetryDelay(e.retryDelay)
	e.logger = e.logger.WithField(logging.StandardFields.Component, logging.ComponentNames.Clone)

	return e
}

// Clone returns a lean clone of uri at ref under destRoot, building it
// unless a clone with the current fingerprint already exists there.
//
// The clone lives in <destRoot>/<repo>-<ref>. uri and ref are validated
// before any git command runs.
func (e *Engine) Clone(ctx context.Context, uri, ref, destRoot string) (*Handle, error) {
	if err := validation.ValidateSource(uri, ref); err != nil {
		return nil, err
	}

	name, err := validation.CloneDirName(uri, ref)
	if err != nil {
		return nil, err
	}

	root, err := filepath.Abs(destRoot)
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "resolve destination root")
	}

	res, err := e.guard.AcquireOrBuild(ctx, filepath.Join(root, name), func(ctx context.Context, dest string) error {
		return e.Build(ctx, uri, ref, dest)
	})
	if err != nil {
		return nil, err
	}

	return newHandle(e.git, res.Path), nil
}

// Locked runs fn while holding the lock of dir when dir is a cached lean
// clone, so writes into a clone shared by several processes never
// interleave. Trees without a version stamp are not managed by the cache
// and fn runs on them directly.
func (e *Engine) Locked(ctx context.Context, dir string, fn func(ctx context.Context) error) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return appErrors.WrapWithContext(err, "resolve clone directory")
	}
	if _, err := os.Stat(cache.StampPath(abs)); err != nil {
		return fn(ctx)
	}
	return e.guard.WithLock(ctx, abs, fn)
}

// Build constructs a lean clone of uri at ref directly in dest, then
// recurses into submodules. It takes no lock; callers wanting a shared,
// cached clone use Clone.
func (e *Engine) Build(ctx context.Context, uri, ref, dest string) error {
	log := e.logger.WithFields(logrus.Fields{
		logging.StandardFields.SourceURI:   uri,
		logging.StandardFields.Ref:         ref,
		logging.StandardFields.Destination: dest,
	})
	start := time.Now()
	log.Info("Cloning lean")

	if err := e.fetch(ctx, uri, ref, dest); err != nil {
		return err
	}

	lines, err := e.git.DiffIndex(ctx, dest, ref)
	if err != nil {
		return err
	}

	entries, err := treediff.ParseLines(lines)
	if err != nil {
		return err
	}

	plan := NewPlan(entries)

	log.WithField(logging.StandardFields.RestoreCount, len(plan.Restore)).
		Infof("Restoring %s files", humanize.Comma(int64(len(plan.Restore))))
	if err = e.git.Restore(ctx, dest, ref, plan.Restore); err != nil {
		return err
	}

	log.WithField(logging.StandardFields.FileCount, len(plan.Placeholders)).
		Infof("Creating %s empty files", humanize.Comma(int64(len(plan.Placeholders))))
	if err = writePlaceholders(dest, plan.Placeholders); err != nil {
		return err
	}

	log.Debug("Removing git history")
	gitDir := filepath.Join(dest, ".git")
	if err = os.RemoveAll(gitDir); err != nil {
		return appErrors.DirectoryRemoveError(gitDir, err)
	}

	if err = e.git.Init(ctx, dest); err != nil {
		return err
	}
	// Force-add files the ref tracked despite its own ignore rules.
	if err = e.git.AddAll(ctx, dest); err != nil {
		return err
	}
	if err = e.git.Commit(ctx, dest, CommitMessagePrefix+ref); err != nil {
		return err
	}

	log.WithField(logging.StandardFields.DurationMs, time.Since(start).Milliseconds()).Info("Lean clone done")

	if len(plan.Submodules) == 0 {
		return nil
	}

	return e.buildSubmodules(ctx, uri, dest, plan.Submodules, log)
}

// fetch makes ref available in a fresh no-checkout clone at dest. Commits
// cannot be named in a shallow branch clone, so they are fetched separately.
func (e *Engine) fetch(ctx context.Context, uri, ref, dest string) error {
	if !validation.IsCommitID(ref) {
		return e.git.Clone(ctx, uri, ref, dest)
	}

	if err := e.git.Clone(ctx, uri, "", dest); err != nil {
		return err
	}
	return e.git.Fetch(ctx, dest, "origin", ref)
}

func (e *Engine) buildSubmodules(ctx context.Context, uri, dest string, submodules []treediff.Entry, log *logrus.Entry) error {
	log.WithField(logging.StandardFields.SubmoduleCount, len(submodules)).
		Infof("Recursing into %s submodules", humanize.Comma(int64(len(submodules))))

	urls, err := ReadSubmodules(filepath.Join(dest, ".gitmodules"))
	if err != nil {
		return err
	}

	for _, sub := range submodules {
		subURL, err := urls.URL(sub.Path, uri)
		if err != nil {
			return err
		}

		subDest := filepath.Join(dest, filepath.FromSlash(sub.Path))
		if err = os.MkdirAll(filepath.Dir(subDest), 0o750); err != nil {
			return appErrors.DirectoryCreateError(filepath.Dir(subDest), err)
		}

		if err = e.Build(ctx, subURL, sub.Hash, subDest); err != nil {
			return appErrors.WrapWithContext(err, "build submodule "+sub.Path)
		}
	}

	return nil
}

// writePlaceholders creates an empty file for every path below dest
func writePlaceholders(dest string, paths []string) error {
	for _, p := range paths {
		file := filepath.Join(dest, filepath.FromSlash(p))
		if !strings.HasPrefix(file, dest+string(filepath.Separator)) {
			return appErrors.InvalidFieldError("path", p)
		}

		if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
			return appErrors.DirectoryCreateError(filepath.Dir(file), err)
		}

		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) //nolint:gosec // placeholder inside the clone
		if err != nil {
			return appErrors.FileCreateError(file, err)
		}
		if err = f.Close(); err != nil {
			return appErrors.FileCreateError(file, err)
		}
	}
	return nil
}
