package cli

import (
	"github.com/spf13/cobra"
)

var updateFlags projectFlags

func init() {
	updateFlags.register(updateCmd)
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Regenerate an existing agent project from its spec",
	Long: `Regenerate the files of an agent project after its spec changed.

The output directory must already exist. Every generated file is rewritten;
files that already existed are reported as overwritten.

Examples:
  oas update --spec agent.yaml --output ./analyst`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProject(cmd, &updateFlags, true)
	},
}
