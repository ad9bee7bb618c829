// Package cli implements the leanclone command-line interface.
//
// Commands only forward flags into the library packages: clone builds a
// cached lean clone, populate writes an ignored-file corpus into a tree,
// ignored reports tracked files that ignore rules match, and parity runs
// the listing comparison matrix.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-leanclone/internal/config"
	"github.com/mrz1836/go-leanclone/internal/git"
	"github.com/mrz1836/go-leanclone/internal/logging"
	"github.com/mrz1836/go-leanclone/internal/output"
)

// sessionKey is the context key of the per-invocation session
type sessionKey struct{}

// session is built once per invocation by the root command
type session struct {
	cfg    *config.Config
	logCfg *logging.LogConfig
	logger *logrus.Logger
	out    output.Writer
	git    func(ctx context.Context, logger *logrus.Logger) (git.Client, error)
}

func (r *session) entry(component string) *logrus.Entry {
	return logging.WithStandardFields(r.logger, r.logCfg, component)
}

func sessionFrom(cmd *cobra.Command) *session {
	if rt, ok := cmd.Context().Value(sessionKey{}).(*session); ok {
		return rt
	}
	return nil
}

// Option customizes a command tree
type Option func(*session)

// WithGitFactory replaces how the git client is created
func WithGitFactory(factory func(ctx context.Context, logger *logrus.Logger) (git.Client, error)) Option {
	return func(r *session) {
		r.git = factory
	}
}

// NewRootCmd creates an isolated command tree writing through out
func NewRootCmd(out output.Writer, opts ...Option) *cobra.Command {
	flags := &Flags{}
	rt := &session{out: out, git: git.NewClient}
	for _, opt := range opts {
		opt(rt)
	}

	cmd := &cobra.Command{
		Use:   "leanclone",
		Short: "Build lean repository fixtures and check listing parity",
		Long: `leanclone reconstructs the file tree of a remote repository at a ref
without downloading history or file content, fills it with files its
.gitignore rules would ignore, and compares a listing tool against git.`,
		PersistentPreRunE: setup(flags, rt),
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.ConfigFile, "config", "c", "", "Path to configuration file (built-in matrix when empty)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.LogFormat, "log-format", "text", "Log format (text, json)")
	pf.CountVarP(&flags.Verbose, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	pf.BoolVar(&flags.DebugGit, "debug-git", false, "Log every git invocation")
	pf.BoolVar(&flags.DebugClone, "debug-clone", false, "Log lean clone planning")
	pf.BoolVar(&flags.DebugGenerate, "debug-generate", false, "Log ignored file generation")
	pf.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newCloneCmd())
	cmd.AddCommand(newPopulateCmd())
	cmd.AddCommand(newIgnoredCmd())
	cmd.AddCommand(newParityCmd())

	return cmd
}

// setup resolves configuration and the logger before any subcommand runs
func setup(flags *Flags, rt *session) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := config.Resolve(ctx, flags.ConfigFile, nil)
		if err != nil {
			return err
		}

		logConfig := &logging.LogConfig{
			ConfigFile:    flags.ConfigFile,
			LogLevel:      cfg.LogLevel,
			Verbose:       flags.Verbose,
			LogFormat:     flags.LogFormat,
			CorrelationID: logging.GenerateCorrelationID(),
			Debug: logging.DebugFlags{
				Git:      flags.DebugGit,
				Clone:    flags.DebugClone,
				Generate: flags.DebugGenerate,
			},
		}
		if flags.LogLevel != "" {
			logConfig.LogLevel = flags.LogLevel
		}

		logger := logrus.New()
		logger.SetOutput(cmd.ErrOrStderr())
		if err := logging.ConfigureLogger(logger, logConfig); err != nil {
			return err
		}

		if cw, ok := rt.out.(*output.ColoredWriter); ok && flags.NoColor {
			cw.DisableColor()
		}

		rt.cfg = cfg
		rt.logCfg = logConfig
		rt.logger = logger

		rt.entry(logging.ComponentNames.CLI).WithFields(logrus.Fields{
			"config":    flags.ConfigFile,
			"log_level": logConfig.LogLevel,
			"data_dir":  cfg.DataDir,
		}).Debug("CLI initialized")

		cmd.SetContext(context.WithValue(ctx, sessionKey{}, rt))
		return nil
	}
}

// ExecuteWithContext runs the CLI with os.Args, canceling ctx on interrupt
func ExecuteWithContext(ctx context.Context, out output.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd(out)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("leanclone: %w", err)
	}
	return nil
}
