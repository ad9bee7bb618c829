package cli

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-leanclone/internal/globgen"
	"github.com/mrz1836/go-leanclone/internal/ignore"
	"github.com/mrz1836/go-leanclone/internal/leanclone"
	"github.com/mrz1836/go-leanclone/internal/logging"
)

func newCloneCmd() *cobra.Command {
	flags := &cloneFlags{}

	cmd := &cobra.Command{
		Use:   "clone <source-uri> <ref>",
		Short: "Build or reuse a lean clone of a repository at a ref",
		Long: `Build a lean clone of <source-uri> at <ref> under the data directory.

The clone has the remote's paths, symlinks and submodules, with empty
placeholders instead of file content. A clone built by the same version
of leanclone is reused.`,
		Example: `  leanclone clone https://github.com/vuejs/core.git v3.5.22
  leanclone clone https://github.com/fastapi/fastapi.git 0.120.4 --populate --seed 7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			ctx := cmd.Context()

			dataDir := s.cfg.DataDir
			if flags.DataDir != "" {
				dataDir = flags.DataDir
			}

			engine, err := newEngine(ctx, s)
			if err != nil {
				return err
			}
			handle, err := engine.Clone(ctx, args[0], args[1], dataDir)
			if err != nil {
				return err
			}
			s.out.Successf("Lean clone ready: %s", handle.Dir())

			if !flags.Populate && !s.cfg.PopulateIgnored {
				return nil
			}

			seed := s.cfg.Seed
			if cmd.Flags().Changed("seed") {
				seed = flags.Seed
			}
			return populate(ctx, s, engine, handle, seed)
		},
	}

	cmd.Flags().StringVarP(&flags.DataDir, "dest", "d", "", "Destination root (defaults to data_dir)")
	cmd.Flags().BoolVar(&flags.Populate, "populate", false, "Write generated ignored files into the clone")
	cmd.Flags().Uint64Var(&flags.Seed, "seed", 0, "Seed for ignored file generation")

	return cmd
}

func newEngine(ctx context.Context, s *session) (*leanclone.Engine, error) {
	client, err := s.git(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	return leanclone.NewEngine(client, leanclone.WithLogger(s.entry(logging.ComponentNames.Clone))), nil
}

// populate writes the ignored corpus into handle, under the clone lock when
// handle is a cached clone, and prints its summary
func populate(ctx context.Context, s *session, engine *leanclone.Engine, handle *leanclone.Handle, seed uint64) error {
	logger := s.entry(logging.ComponentNames.Generate)

	var set *ignore.Set
	var report *globgen.Report
	err := engine.Locked(ctx, handle.Dir(), func(ctx context.Context) error {
		var err error
		if set, err = ignore.NewExtractor(logger).Extract(handle.Dir()); err != nil {
			return err
		}
		gen := globgen.NewGenerator(seed, globgen.WithGeneratorLogger(logger))
		report, err = globgen.NewCorpus(gen, logger).Populate(ctx, handle, set)
		return err
	})
	if err != nil {
		return err
	}

	for _, f := range report.Failures {
		s.out.Warnf("No file generated for %s", f.Pattern)
	}
	s.out.Infof("%s patterns, %s ignored files written, %s skipped, %s removed",
		humanize.Comma(int64(set.Len())),
		humanize.Comma(int64(len(report.Kept()))),
		humanize.Comma(int64(len(report.Prefiltered)+len(report.Collided))),
		humanize.Comma(int64(len(report.Reconciled))),
	)

	return report.Err()
}
