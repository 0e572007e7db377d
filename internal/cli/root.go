package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/stamp-dev/stamp/internal/branding"
	"github.com/stamp-dev/stamp/internal/config"
	"github.com/stamp-dev/stamp/internal/errors"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose bool
	logger  = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` materializes a declarative plan (an ordered list of file paths and
contents) into a target directory and records the result as a single git commit.

Run '` + branding.CLIName() + ` new' with no arguments to write the ` + branding.DefaultPlan() + ` plan into
./` + branding.DefaultPlan() + ` and commit it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		if err := config.Load(); err != nil {
			logger.Warn("ignoring config file", "error", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log each step to stderr")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.WrapUsage(errors.EUsage, cmd.CommandPath(), err)
	})
}

// Execute runs the root command with build info injected via ldflags and
// returns the process exit code. Errors are printed to stderr.
func Execute(version, commit, date string) int {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	errors.Print(os.Stderr, err)
	return errors.ExitCode(err)
}

// usageArgs wraps a positional-argument validator so its failures carry the
// usage exit code.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return errors.WrapUsage(errors.EUsage, cmd.CommandPath(), err)
		}
		return nil
	}
}
