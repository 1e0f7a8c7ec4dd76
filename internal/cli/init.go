package cli

import (
	"github.com/spf13/cobra"
)

var initFlags projectFlags

func init() {
	initFlags.register(initCmd)
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Generate into a directory that is not empty")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a new agent project from a spec",
	Long: `Validate an agent spec and generate a runnable agent project from it.

The output directory is created if needed. It must be empty unless --force
is given.

Examples:
  oas init --spec agent.yaml --output ./analyst
  oas init --spec agent.yaml --output ./analyst --runtime go
  oas init --spec agent.yaml --output ./analyst --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProject(cmd, &initFlags, false)
	},
}
