package cli

import (
	"context"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/pal-labs/pal/internal/branding"
	"github.com/pal-labs/pal/internal/config"
	"github.com/pal-labs/pal/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbosity int
	closeLog  = func() {}
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + " " + heredoc.Doc(`
		is a project templating CLI. It creates or adds files from templates/
		into a target directory.

		Files ending in .tmpl are rendered with the project's values and lose
		the suffix; every other file is copied as is.
	`),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		closeLog = logging.Setup(verbosity, cmd.ErrOrStderr())
		config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
}

// Execute runs the root command with build info injected via ldflags.
func Execute(ctx context.Context, version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	defer func() { closeLog() }()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		return &UsageError{Err: err}
	}
	return err
}
