package globgen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/ignore"
	"github.com/mrz1836/go-leanclone/internal/logging"
)

// Repository is the working tree a corpus is written into
type Repository interface {
	Dir() string
	UntrackedUnignored(ctx context.Context, subdir string) ([]string, error)
}

// Failure is a pattern no path could be generated for
type Failure struct {
	Pattern string
	Err     error
}

// Report describes one Populate run. Paths are slash-separated and
// relative to the repository directory.
type Report struct {
	Generated   []string
	Written     []string
	Prefiltered []string
	Collided    []string
	Reconciled  []string
	Failures    []Failure
}

// Kept returns the written paths that survived reconciliation
func (r *Report) Kept() []string {
	removed := mapset.NewThreadUnsafeSet(r.Reconciled...)
	kept := make([]string, 0, len(r.Written))
	for _, p := range r.Written {
		if !removed.Contains(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

// Err joins every generation failure, nil when there are none
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

// Corpus writes generated ignored files into a repository
type Corpus struct {
	gen    *Generator
	logger *logrus.Entry
}

// NewCorpus creates a corpus writer around gen
func NewCorpus(gen *Generator, logger *logrus.Entry) *Corpus {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Corpus{gen: gen, logger: logger}
}

// Populate generates one path per pattern of set and creates it as an
// empty file under repo. Callers sharing repo with other processes hold its
// lock for the whole call. Paths the layered rules do not ignore, and paths
// that would clash with existing content, are skipped. Files git still
// reports as untracked and unignored afterwards are deleted again.
//
// Generation failures are recorded in the report; the returned error is
// reserved for filesystem and git failures.
func (c *Corpus) Populate(ctx context.Context, repo Repository, set *ignore.Set) (*Report, error) {
	start := time.Now()
	root := repo.Dir()
	report := &Report{}

	seen := mapset.NewThreadUnsafeSet[string]()
	for _, p := range set.Patterns() {
		generated, err := c.gen.Generate(p)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Pattern: p.String(), Err: err})
			continue
		}
		if seen.Add(generated) {
			report.Generated = append(report.Generated, generated)
		}
	}

	written := mapset.NewThreadUnsafeSet[string]()
	for _, rel := range report.Generated {
		if !set.Ignored(rel, false) {
			report.Prefiltered = append(report.Prefiltered, rel)
			continue
		}

		ok, err := placeable(root, rel)
		if err != nil {
			return report, err
		}
		if !ok {
			report.Collided = append(report.Collided, rel)
			continue
		}

		created, err := createEmpty(root, rel)
		if err != nil {
			return report, err
		}
		if !created {
			report.Collided = append(report.Collided, rel)
			continue
		}
		written.Add(rel)
		report.Written = append(report.Written, rel)
	}

	if err := c.reconcile(ctx, repo, written, report); err != nil {
		return report, err
	}

	c.logger.WithFields(logrus.Fields{
		logging.StandardFields.Component:    logging.ComponentNames.Generate,
		logging.StandardFields.Destination:  root,
		logging.StandardFields.PatternCount: set.Len(),
		logging.StandardFields.FileCount:    len(report.Kept()),
		logging.StandardFields.DurationMs:   time.Since(start).Milliseconds(),
	}).Info("Populated ignored corpus")

	return report, nil
}

// reconcile deletes generated files git does not consider ignored
func (c *Corpus) reconcile(ctx context.Context, repo Repository, written mapset.Set[string], report *Report) error {
	if written.Cardinality() == 0 {
		return nil
	}

	untracked, err := repo.UntrackedUnignored(ctx, "")
	if err != nil {
		return appErrors.WrapWithContext(err, "list untracked files")
	}

	root := repo.Dir()
	for _, rel := range untracked {
		if !written.Contains(rel) {
			continue
		}
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.Remove(abs); err != nil {
			return appErrors.FileDeleteError(abs, err)
		}
		pruneEmptyParents(root, path.Dir(rel))
		report.Reconciled = append(report.Reconciled, rel)

		c.logger.WithField(logging.StandardFields.FilePath, rel).Debug("Removed generated file git does not ignore")
	}
	return nil
}

// placeable reports whether rel can be created without touching existing
// content: the file must not exist and every existing ancestor must be a
// plain directory that is not itself a repository.
func placeable(root, rel string) (bool, error) {
	if _, err := os.Lstat(filepath.Join(root, filepath.FromSlash(rel))); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, appErrors.FileOperationError("stat", rel, err)
	}

	for dir := path.Dir(rel); dir != "."; dir = path.Dir(dir) {
		abs := filepath.Join(root, filepath.FromSlash(dir))
		info, err := os.Lstat(abs)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return false, appErrors.FileOperationError("stat", dir, err)
		}
		if !info.IsDir() {
			return false, nil
		}
		if _, err := os.Lstat(filepath.Join(abs, ".git")); err == nil {
			return false, nil
		}
	}
	return true, nil
}

// createEmpty creates rel as an empty file. It reports false when the file
// appeared after placeable checked it.
func createEmpty(root, rel string) (bool, error) {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return false, appErrors.DirectoryCreateError(filepath.Dir(abs), err)
	}

	f, err := os.OpenFile(abs, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644) //nolint:gosec // fixture files
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, appErrors.FileCreateError(abs, err)
	}
	if err := f.Close(); err != nil {
		return false, appErrors.FileCreateError(abs, fmt.Errorf("close: %w", err))
	}
	return true, nil
}

// pruneEmptyParents removes dir and its ancestors below root while empty
func pruneEmptyParents(root, dir string) {
	for ; dir != "." && dir != "/"; dir = path.Dir(dir) {
		if err := os.Remove(filepath.Join(root, filepath.FromSlash(dir))); err != nil {
			return
		}
	}
}
