package cli

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

var addOpts generateOptions

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add template files into an existing project",
	Long: heredoc.Doc(`
		Add template files into an existing project directory.

		The target directory must already exist. Existing files are only
		replaced after confirmation, or as decided by --yes / --no.

		Examples:
		  pal add --project-name widget
		  pal add --template docs --path ../widget --project-name widget -n
	`),
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return runGenerate(cmd.Context(), s, kindAdd, &addOpts, cmd.Flags().Changed)
	},
}

func init() {
	bindGenerateFlags(addCmd, &addOpts, "Target project directory (default \".\")")
	rootCmd.AddCommand(addCmd)
}
