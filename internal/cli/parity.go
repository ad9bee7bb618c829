package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-leanclone/internal/globgen"
	"github.com/mrz1836/go-leanclone/internal/leanclone"
	"github.com/mrz1836/go-leanclone/internal/logging"
	"github.com/mrz1836/go-leanclone/internal/parity"
)

func newParityCmd() *cobra.Command {
	var selfDir string
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "parity [case...]",
		Short: "Compare the tool's listing with git for each configured repository",
		Long: `Clone every configured repository (or only the named cases), run the tool
under test in each and compare its output with git's tracked, non-ignored,
non-symlink files. All cases run even when some fail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			ctx := cmd.Context()

			cases, err := s.cfg.Cases()
			if err != nil {
				return err
			}
			cases, err = selectCases(cases, args)
			if err != nil {
				return err
			}

			if selfDir == "" {
				if selfDir, err = os.Getwd(); err != nil {
					return err
				}
			}

			tool, err := parity.ResolveTool(resolveFrom(selfDir, s.cfg.Tool))
			if err != nil {
				return err
			}

			client, err := s.git(ctx, s.logger)
			if err != nil {
				return err
			}

			logger := s.entry(logging.ComponentNames.Parity)
			opts := []parity.Option{parity.WithSelfDir(selfDir), parity.WithLogger(logger)}
			if s.cfg.PopulateIgnored {
				gen := globgen.NewGenerator(s.cfg.Seed, globgen.WithGeneratorLogger(logger))
				opts = append(opts, parity.WithCorpus(globgen.NewCorpus(gen, logger)))
			}

			harness := parity.NewHarness(
				leanclone.NewEngine(client, leanclone.WithLogger(s.entry(logging.ComponentNames.Clone))),
				client,
				parity.NewTool(tool, logger),
				resolveFrom(selfDir, s.cfg.DataDir),
				opts...,
			)

			results := harness.RunAll(ctx, cases)
			for _, r := range results {
				report(s, r, showDiff)
			}

			summary := parity.Summarize(results)
			if summary.OK() {
				s.out.Success(summary.String())
			} else {
				s.out.Error(summary.String())
			}
			return parity.Err(results)
		},
	}

	cmd.Flags().StringVar(&selfDir, "self", "", "Project root for self cases and relative paths (default: current directory)")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Print a unified diff for failing cases")

	return cmd
}

func report(s *session, r parity.Result, showDiff bool) {
	name := r.Case.String()
	switch r.Status {
	case parity.StatusSkip:
		s.out.Status(r.Status.String(), fmt.Sprintf("%s: %s", name, r.Reason))
	case parity.StatusError:
		s.out.Status(r.Status.String(), fmt.Sprintf("%s: %v", name, r.Err))
	case parity.StatusFail:
		s.out.Status(r.Status.String(), fmt.Sprintf("%s: %d missing, %d extra", name, len(r.Missing), len(r.Extra)))
		if showDiff {
			s.out.Plain(r.Diff())
		}
	default:
		s.out.Status(r.Status.String(), fmt.Sprintf("%s (%s)", name, r.Duration.Round(time.Millisecond)))
	}
}

// selectCases keeps the cases named in names, all of them when names is empty
func selectCases(cases []parity.Case, names []string) ([]parity.Case, error) {
	if len(names) == 0 {
		return cases, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []parity.Case
	for _, c := range cases {
		if wanted[c.Name] || wanted[c.String()] {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoMatchingCases, names)
	}
	return out, nil
}

func resolveFrom(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, filepath.FromSlash(p))
}
