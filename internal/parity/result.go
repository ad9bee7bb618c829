package parity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/mrz1836/go-leanclone/internal/globgen"
)

// Status is the outcome of one case
type Status int

// Outcomes
const (
	StatusPass Status = iota
	StatusFail
	StatusSkip
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusSkip:
		return "SKIP"
	case StatusError:
		return "ERROR"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ErrMismatch is reported for cases whose listings differ
var ErrMismatch = errors.New("listing mismatch")

// Result is the outcome of one case
type Result struct {
	Case   Case
	Status Status
	// Reason explains a skip
	Reason string
	// Err is set for StatusError
	Err error

	Expected []string
	Actual   []string
	// Missing are expected paths the tool did not print
	Missing []string
	// Extra are paths the tool printed that git does not list
	Extra []string

	Corpus   *globgen.Report
	Duration time.Duration
}

// Diff returns a unified diff from the expected to the actual listing,
// "" when they agree.
func (r Result) Diff() string {
	if len(r.Missing) == 0 && len(r.Extra) == 0 {
		return ""
	}

	diff := difflib.UnifiedDiff{
		A:        lines(r.Expected),
		B:        lines(r.Actual),
		FromFile: "git",
		ToFile:   "tool",
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return err.Error()
	}
	return text
}

// Failure returns nil for passing and skipped cases
func (r Result) Failure() error {
	switch r.Status {
	case StatusFail:
		return fmt.Errorf("%s: %w: %d missing, %d extra", r.Case, ErrMismatch, len(r.Missing), len(r.Extra))
	case StatusError:
		return fmt.Errorf("%s: %w", r.Case, r.Err)
	default:
		return nil
	}
}

func lines(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item + "\n"
	}
	return out
}

// Summary counts results by status
type Summary struct {
	Passed  int
	Failed  int
	Skipped int
	Errored int
}

// Summarize counts results
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusSkip:
			s.Skipped++
		case StatusError:
			s.Errored++
		}
	}
	return s
}

// OK reports whether nothing failed or errored
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Errored == 0
}

func (s Summary) String() string {
	parts := []string{
		fmt.Sprintf("%d passed", s.Passed),
		fmt.Sprintf("%d failed", s.Failed),
		fmt.Sprintf("%d skipped", s.Skipped),
	}
	if s.Errored > 0 {
		parts = append(parts, fmt.Sprintf("%d errored", s.Errored))
	}
	return strings.Join(parts, ", ")
}

// Err joins the errors of every failed or errored result
func Err(results []Result) error {
	var errs []error
	for _, r := range results {
		if err := r.Failure(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
