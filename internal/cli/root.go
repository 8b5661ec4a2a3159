package cli

import (
	"fmt"

	"github.com/fastgen-labs/fastgen/internal/branding"
	"github.com/fastgen-labs/fastgen/internal/config"
	"github.com/fastgen-labs/fastgen/internal/logger"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	debug       bool
	closeLogger func() error
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` generates FastAPI project skeletons and registers new apps
(routers) in them. Existing files are left untouched unless --force is given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()

		// Logging is best-effort; the command runs either way.
		if cleanup, err := logger.Setup(logger.Config{Dir: config.Dir(), Debug: debug}); err == nil {
			closeLogger = cleanup
		}
		if debug {
			if err := logger.IsReady(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Logging disabled: %v\n", err)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "Debug log: %s\n", logger.Path())
			}
		}
		logger.L().Debug("command.start", "command", cmd.CommandPath(), "args", args, "version", buildVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug records to the log file")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return execute()
}

func execute() error {
	defer func() {
		if closeLogger != nil {
			_ = closeLogger()
			closeLogger = nil
		}
	}()
	return rootCmd.Execute()
}

// resolveForce returns the --force flag when given explicitly and the
// configured overwrite policy otherwise.
func resolveForce(cmd *cobra.Command, flag bool) bool {
	if cmd.Flags().Changed("force") {
		return flag
	}
	return config.Force()
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
