package agentspec

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/agent.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// LintResult contains the outcome of a schema lint. Unlike Validate, which
// stops at the first problem, a lint collects every issue.
type LintResult struct {
	Valid  bool
	Issues []LintIssue
}

// LintIssue is one schema violation, located by the same dotted field path
// Validate reports, e.g. "tasks.analyze.input.text".
type LintIssue struct {
	Field   string // "" for the document root
	Message string
	Keyword string // schema keyword that failed
	Line    int    // line of the field, or of its closest present parent
}

func (i LintIssue) String() string {
	s := i.Message
	if i.Field != "" {
		s = i.Field + ": " + s
	}
	if i.Line > 0 {
		s += fmt.Sprintf(" (line %d)", i.Line)
	}
	return s
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("agent.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("agent.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Lint checks a parsed spec document against the embedded JSON schema.
// The error return is for conversion or schema compilation failures;
// violations are reported in the LintResult.
func Lint(doc *yaml.Node) (*LintResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if root := resolve(doc); root != nil {
		if err := root.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding YAML: %w", err)
		}
	}

	// Round-trip through JSON so numbers reach the validator as json.Number.
	jsonData, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &LintResult{Valid: true}, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &LintResult{Valid: false, Issues: lintIssues(doc, ve)}, nil
}

// lintIssues flattens the error tree into leaf issues in document order.
// A failed "required" becomes one issue per missing field.
func lintIssues(root *yaml.Node, ve *jsonschema.ValidationError) []LintIssue {
	var issues []LintIssue
	seen := make(map[string]bool)
	add := func(loc []string, keyword, msg string) {
		field := strings.Join(loc, ".")
		if key := field + "|" + keyword + "|" + msg; !seen[key] {
			seen[key] = true
			issues = append(issues, LintIssue{Field: field, Message: msg, Keyword: keyword, Line: lineAt(root, loc)})
		}
	}

	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}
		if e.ErrorKind == nil {
			return
		}
		if req, ok := e.ErrorKind.(*kind.Required); ok {
			for _, name := range req.Missing {
				add(append(slices.Clone(e.InstanceLocation), name), "required", "missing required field")
			}
			return
		}
		keyword := ""
		if kw := e.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		// Container keywords carry no detail of their own.
		if keyword == "allOf" || keyword == "$ref" || keyword == "" {
			return
		}
		add(e.InstanceLocation, keyword, e.ErrorKind.LocalizedString(printer))
	}
	walk(ve)

	if len(issues) == 0 {
		return []LintIssue{{Message: ve.Error(), Line: lineAt(root, nil)}}
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Line < issues[j].Line })
	return issues
}

// lineAt follows loc through the document and returns the line of the
// deepest node it reaches.
func lineAt(root *yaml.Node, loc []string) int {
	n := resolve(root)
	if n == nil {
		return 0
	}
	for _, seg := range loc {
		var next *yaml.Node
		switch n.Kind {
		case yaml.MappingNode:
			next, _ = lookup(n, seg)
		case yaml.SequenceNode:
			if i, err := strconv.Atoi(seg); err == nil && i >= 0 && i < len(n.Content) {
				next = resolve(n.Content[i])
			}
		}
		if next == nil {
			break
		}
		n = next
	}
	return n.Line
}

// normalizeYAML converts decoded YAML values into JSON-encodable ones. Keys of
// non-string-keyed maps (e.g. a task named 1) are stringified.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	default:
		return val
	}
}
