package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-leanclone/internal/leanclone"
	"github.com/mrz1836/go-leanclone/internal/logging"
)

func newPopulateCmd() *cobra.Command {
	flags := &cloneFlags{}

	cmd := &cobra.Command{
		Use:   "populate [dir]",
		Short: "Write files matching every .gitignore rule into a working tree",
		Long: `Generate one file per ignore pattern found in the .gitignore files of
[dir] (default: current directory) and create it empty. Files git would
not ignore are removed again. Generation is reproducible per seed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd)
			ctx := cmd.Context()

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			client, err := s.git(ctx, s.logger)
			if err != nil {
				return err
			}
			engine := leanclone.NewEngine(client, leanclone.WithLogger(s.entry(logging.ComponentNames.Clone)))
			handle, err := leanclone.Open(client, dir)
			if err != nil {
				return err
			}

			seed := s.cfg.Seed
			if cmd.Flags().Changed("seed") {
				seed = flags.Seed
			}
			return populate(ctx, s, engine, handle, seed)
		},
	}

	cmd.Flags().Uint64Var(&flags.Seed, "seed", 0, "Seed for ignored file generation")
	return cmd
}
