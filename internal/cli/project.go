package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/open-agent-spec/oas/internal/agentspec"
	"github.com/open-agent-spec/oas/internal/branding"
	"github.com/open-agent-spec/oas/internal/config"
	"github.com/open-agent-spec/oas/internal/log"
	"github.com/open-agent-spec/oas/internal/scaffold"
	"github.com/spf13/cobra"
)

// projectFlags are the flags shared by init and update.
type projectFlags struct {
	spec    string
	output  string
	runtime string
	force   bool
	dryRun  bool
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.spec, "spec", "", "Path to the agent spec YAML file")
	cmd.Flags().StringVar(&f.output, "output", "", "Directory to write the agent project to")
	cmd.Flags().StringVar(&f.runtime, "runtime", "", "Template set to generate: "+strings.Join(scaffold.Runtimes, ", ")+" (default from config, else python)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Show what would be generated without writing files")
	_ = cmd.MarkFlagRequired("spec")
	_ = cmd.MarkFlagRequired("output")
}

// resolveRuntime picks the --runtime flag, then the "runtime" config key,
// then python.
func resolveRuntime(flag string) (string, error) {
	rt := flag
	if rt == "" {
		rt = config.Get(config.KeyRuntime)
	}
	if rt == "" {
		rt = agentspec.RuntimePython
	}
	if !scaffold.IsRuntime(rt) {
		return "", fmt.Errorf("--runtime must be one of %s, got %q", strings.Join(scaffold.Runtimes, ", "), rt)
	}
	return rt, nil
}

// runProject loads the spec and generates (or previews) the agent project.
// With overwrite set the output directory must already exist.
func runProject(cmd *cobra.Command, f *projectFlags, overwrite bool) error {
	out := cmd.OutOrStdout()

	if overwrite {
		if _, err := os.Stat(f.output); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("output directory %s does not exist; use '%s init' to create a new agent", f.output, branding.CLIName())
		}
	}

	rt, err := resolveRuntime(f.runtime)
	if err != nil {
		return err
	}

	log.Infof("Reading spec from: %s", f.spec)
	spec, ids, err := agentspec.LoadFile(f.spec)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}
	log.Debugf("agent_name=%s class_name=%s tasks=%d", ids.AgentName, ids.ClassName, len(spec.Tasks))

	data, err := scaffold.NewScaffoldData(spec, ids, rt)
	if err != nil {
		return err
	}

	absOut, err := filepath.Abs(f.output)
	if err != nil {
		return fmt.Errorf("resolving output directory: %w", err)
	}

	if f.dryRun {
		files, err := scaffold.Plan(data)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, panel(warnPanelStyle, "Dry run: no files will be written", [][2]string{
			{"Agent name", ids.AgentName},
			{"Class name", ids.ClassName},
			{"Runtime", rt},
			{"Output directory", absOut},
		}))
		paths := make([]string, len(files))
		for i, file := range files {
			paths[i] = file.Path
		}
		printList(out, "Would generate:", paths)
		return nil
	}

	result, err := scaffold.Generate(data, f.output, scaffold.Options{
		Overwrite: overwrite,
		Force:     f.force,
	})
	if err != nil {
		return err
	}

	printWarnings(out, result.Warnings)
	verb := "Created"
	if overwrite {
		verb = "Updated"
	}
	fmt.Fprintf(out, "%s %s (%s) in %s\n", okStyle.Render(verb), ids.ClassName, rt, absOut)
	printList(out, "Files:", result.Files)
	if !overwrite {
		printNextSteps(out, f.output, rt)
	}
	return nil
}

func printNextSteps(w io.Writer, dir, rt string) {
	steps := []string{"cd " + dir}
	switch rt {
	case agentspec.RuntimeGo:
		steps = append(steps, "go mod tidy", "cp .env.example .env", "go run .")
	default:
		steps = append(steps, "pip install -r requirements.txt", "cp .env.example .env", "python agent.py")
	}
	printList(w, "Next steps:", steps)
}
