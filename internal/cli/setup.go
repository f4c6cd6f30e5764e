package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/pal-labs/pal/internal/branding"
	"github.com/pal-labs/pal/internal/config"
	"github.com/spf13/cobra"
)

var setupForce bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Prepare the CLI environment",
	Long: heredoc.Docf(`
		Run the configured setup command (config key %q) from the repository
		root. Setup normally runs once, the first time new or add is used;
		it runs again after an upgrade changes the environment version.

		Use --force to run it again regardless.
	`, config.KeySetupCommand),
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(config.GetCommand(config.KeySetupCommand)) == 0 {
			return usageErrorf("no setup command configured; set one with '%s config set %s <command>'",
				branding.CLIName(), config.KeySetupCommand)
		}
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		ran, err := s.ensureEnvironment(cmd.Context(), setupForce)
		if err != nil {
			return err
		}
		if !ran {
			fmt.Fprintln(s.out, "Environment is already up to date.")
		}
		return nil
	},
}

func init() {
	setupCmd.Flags().BoolVar(&setupForce, "force", false, "Run setup even if the environment is up to date")
	rootCmd.AddCommand(setupCmd)
}
