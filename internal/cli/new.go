package cli

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

var newOpts generateOptions

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new project from a template",
	Long: heredoc.Doc(`
		Create a new project from a template into a destination directory.

		The destination is created if it does not exist. Values not given as
		flags are asked for interactively; author and contact emails fall back
		to the config file. After rendering, the template's post task
		(default: task bootstrap) runs inside the new project.

		Examples:
		  pal new --path ../widget --project-name widget
		  pal new --template general --path ../widget --project-name widget -y
		  pal new --path ../widget --project-name widget --dry-run
	`),
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return runGenerate(cmd.Context(), s, kindNew, &newOpts, cmd.Flags().Changed)
	},
}

func init() {
	bindGenerateFlags(newCmd, &newOpts, "Destination directory for the new project")
	rootCmd.AddCommand(newCmd)
}
