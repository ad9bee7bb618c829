package parity

import (
	"context"
	"os"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/git"
	"github.com/mrz1836/go-leanclone/internal/globgen"
	"github.com/mrz1836/go-leanclone/internal/ignore"
	"github.com/mrz1836/go-leanclone/internal/leanclone"
	"github.com/mrz1836/go-leanclone/internal/logging"
)

// Cloner produces lean clones and serializes writes into them
type Cloner interface {
	Clone(ctx context.Context, uri, ref, destRoot string) (*leanclone.Handle, error)
	Locked(ctx context.Context, dir string, fn func(ctx context.Context) error) error
}

// Harness runs cases one after another against a shared data directory
type Harness struct {
	cloner  Cloner
	git     git.Client
	tool    Runner
	dataDir string
	selfDir string
	corpus  *globgen.Corpus
	logger  *logrus.Entry
}

// Option configures a Harness
type Option func(*Harness)

// WithSelfDir sets the working tree used by Self cases
func WithSelfDir(dir string) Option {
	return func(h *Harness) {
		h.selfDir = dir
	}
}

// WithCorpus populates every clone with generated ignored files before listing
func WithCorpus(c *globgen.Corpus) Option {
	return func(h *Harness) {
		h.corpus = c
	}
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Entry) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHarness creates a harness that clones into dataDir
func NewHarness(cloner Cloner, client git.Client, tool Runner, dataDir string, opts ...Option) *Harness {
	h := &Harness{
		cloner:  cloner,
		git:     client,
		tool:    tool,
		dataDir: dataDir,
		selfDir: ".",
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RunAll runs every case. A failing case never stops the batch.
func (h *Harness) RunAll(ctx context.Context, cases []Case) []Result {
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		results = append(results, h.Run(ctx, c))
	}
	return results
}

// Run runs one case
func (h *Harness) Run(ctx context.Context, c Case) Result {
	start := time.Now()
	result := h.run(ctx, c)
	result.Case = c
	result.Duration = time.Since(start)

	entry := h.logger.WithFields(logrus.Fields{
		logging.StandardFields.Component:  logging.ComponentNames.Parity,
		logging.StandardFields.SourceURI:  c.Source,
		logging.StandardFields.Ref:        c.Ref,
		logging.StandardFields.Status:     result.Status.String(),
		logging.StandardFields.DurationMs: result.Duration.Milliseconds(),
	})
	switch result.Status {
	case StatusPass:
		entry.Info("Listings match")
	case StatusSkip:
		entry.WithField("reason", result.Reason).Info("Case skipped")
	case StatusFail:
		entry.Warnf("Listings differ: %d missing, %d extra", len(result.Missing), len(result.Extra))
	case StatusError:
		entry.WithError(result.Err).Error("Case could not run")
	}

	return result
}

func (h *Harness) run(ctx context.Context, c Case) Result {
	if c.Skip != "" {
		return Result{Status: StatusSkip, Reason: c.Skip}
	}

	if err := os.MkdirAll(h.dataDir, 0o750); err != nil {
		return Result{Status: StatusError, Err: appErrors.DirectoryCreateError(h.dataDir, err)}
	}

	reason, err := skipReason(c, h.dataDir)
	if err != nil {
		return Result{Status: StatusError, Err: err}
	}
	if reason != "" {
		return Result{Status: StatusSkip, Reason: reason}
	}

	handle, err := h.open(ctx, c)
	if err != nil {
		return Result{Status: StatusError, Err: err}
	}

	var result Result
	if h.corpus != nil && !c.Self {
		report, err := h.populate(ctx, handle)
		if err != nil {
			return Result{Status: StatusError, Err: err}
		}
		result.Corpus = report
	}

	expected, err := Reference(ctx, handle, c.Subdir)
	if err != nil {
		return Result{Status: StatusError, Err: err}
	}
	actual, err := h.tool.List(ctx, handle.Join(c.Subdir))
	if err != nil {
		return Result{Status: StatusError, Err: err}
	}

	result.Expected = expected
	result.Actual = sorted(actual)
	result.Missing, result.Extra = compare(expected, actual)
	result.Status = StatusPass
	if len(result.Missing) > 0 || len(result.Extra) > 0 {
		result.Status = StatusFail
	}
	return result
}

func (h *Harness) open(ctx context.Context, c Case) (*leanclone.Handle, error) {
	if c.Self {
		return leanclone.Open(h.git, h.selfDir)
	}
	return h.cloner.Clone(ctx, c.Source, c.Ref, h.dataDir)
}

// populate writes the corpus while holding the clone's lock: parallel shards
// share the cached clone and must not interleave creation and reconciliation.
func (h *Harness) populate(ctx context.Context, handle *leanclone.Handle) (*globgen.Report, error) {
	var report *globgen.Report
	err := h.cloner.Locked(ctx, handle.Dir(), func(ctx context.Context) error {
		set, err := ignore.NewExtractor(h.logger).Extract(handle.Dir())
		if err != nil {
			return err
		}
		report, err = h.corpus.Populate(ctx, handle, set)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, f := range report.Failures {
		h.logger.WithFields(logrus.Fields{
			logging.StandardFields.Pattern: f.Pattern,
		}).Warn("No file generated for ignore pattern")
	}
	return report, nil
}

// compare returns expected paths absent from actual and actual paths
// absent from expected, both sorted.
func compare(expected, actual []string) ([]string, []string) {
	want := mapset.NewThreadUnsafeSet(expected...)
	got := mapset.NewThreadUnsafeSet(actual...)
	return sorted(want.Difference(got).ToSlice()), sorted(got.Difference(want).ToSlice())
}

func sorted(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	sort.Strings(out)
	return out
}
