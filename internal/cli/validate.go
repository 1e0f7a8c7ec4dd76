package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/open-agent-spec/oas/internal/agentspec"
	"github.com/spf13/cobra"
)

var errInvalidSpec = errors.New("spec is not valid")

var (
	validateAll  bool
	validateJSON bool
)

func init() {
	validateCmd.Flags().BoolVar(&validateAll, "all", false, "Lint against the schema and report every issue")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <spec-file>",
	Short: "Check an agent spec without generating anything",
	Long: `Validate an agent spec and print the identifiers derived from it.

By default validation stops at the first problem. With --all the document is
also linted against the bundled JSON schema and every issue is listed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report := validateFile(args[0], validateAll)
		out := cmd.OutOrStdout()

		if validateJSON {
			b, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling validation report: %w", err)
			}
			fmt.Fprintln(out, string(b))
			if !report.Valid {
				return errInvalidSpec
			}
			return nil
		}

		printReport(out, report)
		if report.err != nil {
			return report.err
		}
		if !report.Valid {
			return fmt.Errorf("%s: %d schema issue(s)", report.File, len(report.Issues))
		}
		return nil
	},
}

type validationReport struct {
	File      string       `json:"file"`
	Valid     bool         `json:"valid"`
	Version   string       `json:"open_agent_spec,omitempty"`
	AgentName string       `json:"agent_name,omitempty"`
	ClassName string       `json:"class_name,omitempty"`
	Tasks     []string     `json:"tasks,omitempty"`
	Error     string       `json:"error,omitempty"`
	Issues    []issueEntry `json:"issues,omitempty"`

	err error
}

type issueEntry struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Keyword string `json:"keyword,omitempty"`
	Line    int    `json:"line,omitempty"`
}

func validateFile(path string, lint bool) *validationReport {
	r := &validationReport{File: path}
	fail := func(err error) *validationReport {
		r.Valid = false
		r.err = err
		r.Error = err.Error()
		return r
	}

	doc, err := agentspec.ParseFile(path)
	if err != nil {
		return fail(err)
	}

	if lint {
		res, err := agentspec.Lint(doc)
		if err != nil {
			return fail(err)
		}
		for _, issue := range res.Issues {
			r.Issues = append(r.Issues, issueEntry{Field: issue.Field, Message: issue.Message, Keyword: issue.Keyword, Line: issue.Line})
		}
	}

	spec, ids, err := agentspec.Decode(doc)
	if err == nil {
		r.Version, err = agentspec.CheckVersion(doc)
	}
	if err != nil {
		// Lint already lists the schema-level problems.
		if len(r.Issues) > 0 {
			r.Error = err.Error()
			return r
		}
		return fail(err)
	}

	r.AgentName, r.ClassName = ids.AgentName, ids.ClassName
	for _, t := range spec.Tasks {
		r.Tasks = append(r.Tasks, t.Name)
	}
	r.Valid = len(r.Issues) == 0
	return r
}

func printReport(w io.Writer, r *validationReport) {
	if len(r.Issues) > 0 {
		fmt.Fprintf(w, "%s %s has %d issue(s):\n", warnStyle.Render("✗"), r.File, len(r.Issues))
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "  - %s\n", agentspec.LintIssue{Field: issue.Field, Message: issue.Message, Line: issue.Line}.String())
		}
		return
	}
	if !r.Valid {
		return
	}
	rows := [][2]string{
		{"Agent name", r.AgentName},
		{"Class name", r.ClassName},
	}
	if r.Version != "" {
		rows = append(rows, [2]string{"Spec version", r.Version})
	}
	rows = append(rows, [2]string{"Tasks", fmt.Sprint(len(r.Tasks))})
	fmt.Fprintln(w, panel(panelStyle, okStyle.Render("✓")+" "+r.File+" is valid", rows))
}
