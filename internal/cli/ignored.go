package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-leanclone/internal/leanclone"
)

func newIgnoredCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ignored [dir]",
		Short: "List tracked files that an ignore rule matches",
		Long: `Print every tracked file below [dir] (default: current directory) that a
.gitignore rule matches, with the rule. Exits non-zero when there are any.`,
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
			handle, err := leanclone.Open(client, dir)
			if err != nil {
				return err
			}

			files, err := handle.ExplainIgnored(ctx, "")
			if err != nil {
				return err
			}
			if len(files) == 0 {
				s.out.Success("No tracked files are ignored")
				return nil
			}

			for _, f := range files {
				s.out.Plain(f.Rule)
			}
			return fmt.Errorf("%w: %d", ErrTrackedIgnored, len(files))
		},
	}
}
