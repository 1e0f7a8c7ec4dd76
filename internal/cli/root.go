package cli

import (
	"fmt"
	"os"

	"github.com/open-agent-spec/oas/internal/branding"
	"github.com/open-agent-spec/oas/internal/config"
	"github.com/open-agent-spec/oas/internal/log"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` reads an agent spec (YAML) and generates a runnable
agent project: an agent program, prompt templates, dependencies, a README and
an .env.example.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		switch {
		case verbose:
			log.SetLevel(log.LevelDebug)
		case config.Get(config.KeyLogLevel) != "":
			log.SetLevel(config.Get(config.KeyLogLevel))
		default:
			log.SetLevel(log.LevelInfo)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, banner())
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  %s init --spec agent.yaml --output ./my-agent\n", branding.CLIName())
		fmt.Fprintf(out, "  %s validate agent.yaml --all\n", branding.CLIName())
		fmt.Fprintf(out, "\nRun '%s --help' for all commands.\n", branding.CLIName())
	},
}

// Execute runs the root command with build info injected via ldflags.
// A failing command's error is printed once to stderr.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
