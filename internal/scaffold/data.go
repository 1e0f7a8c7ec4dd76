package scaffold

import (
	"fmt"
	"go/token"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/open-agent-spec/oas/internal/agentspec"
)

// Defaults used when intelligence.config leaves a value out.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

// ScaffoldData holds all template variables available to scaffold templates.
type ScaffoldData struct {
	Runtime     string // "python" or "go"
	Name        string // info.name, e.g. "test-agent"
	AgentName   string // e.g. "test_agent"
	ClassName   string // e.g. "TestAgent"
	DisplayName string // e.g. "Test Agent"
	Description string
	Endpoint    string
	Model       string
	Temperature float64
	MaxTokens   int
	Tasks       []TaskData
	FirstTask   *TaskData // nil when the spec declares no tasks

	// Custom prompt for the shared agent prompt file, nil for the default.
	PromptTemplate *string
}

// TaskData is the per-task view used by the templates.
type TaskData struct {
	Name           string // as declared, e.g. "summarize-text"
	FuncName       string // e.g. "summarize_text"
	MethodName     string // e.g. "SummarizeText"
	Title          string // e.g. "Summarize Text"
	Description    string
	Inputs         []ParamData
	Outputs        []ParamData
	PromptTemplate *string
	Contract       string // python dict literal for @behavioral_contract
}

// ParamData is a declared parameter with its runtime type.
type ParamData struct {
	Name     string // as declared
	Type     string // YAML type name
	LangType string // runtime type, e.g. "str" or "float64"
	VarName  string // identifier safe for the runtime
	Example  string // literal used in generated example calls
}

// NewScaffoldData builds template data from a validated spec. Names that
// cannot become identifiers in the target runtime are rejected here, as are
// tasks whose generated names collide.
func NewScaffoldData(spec *agentspec.AgentSpec, ids agentspec.Identifiers, runtime string) (*ScaffoldData, error) {
	if !IsRuntime(runtime) {
		return nil, fmt.Errorf("unsupported runtime %q (want one of %s)", runtime, strings.Join(Runtimes, ", "))
	}
	if !isIdentifier(runtime, ids.ClassName) {
		return nil, notIdentifier(agentspec.KeyInfo+".name", spec.Info.Name, ids.ClassName)
	}

	d := &ScaffoldData{
		Runtime:        runtime,
		Name:           spec.Info.Name,
		AgentName:      ids.AgentName,
		ClassName:      ids.ClassName,
		DisplayName:    agentspec.DisplayName(spec.Info.Name),
		Description:    spec.Info.Description,
		Endpoint:       spec.Intelligence.Endpoint,
		Model:          spec.Intelligence.Model,
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
		PromptTemplate: spec.PromptTemplate,
	}
	if t := spec.Intelligence.Config.Temperature; t != nil {
		d.Temperature = *t
	}
	if m := spec.Intelligence.Config.MaxTokens; m != nil {
		d.MaxTokens = *m
	}

	seen := make(map[string]string, len(spec.Tasks))
	for _, task := range spec.Tasks {
		path := agentspec.KeyTasks + "." + task.Name
		td := TaskData{
			Name:           task.Name,
			FuncName:       strings.ReplaceAll(task.Name, "-", "_"),
			MethodName:     agentspec.CamelCase(task.Name),
			Title:          agentspec.DisplayName(task.Name),
			Description:    task.Description,
			PromptTemplate: task.PromptTemplate,
		}

		ident := td.FuncName
		if runtime == agentspec.RuntimeGo {
			ident = td.MethodName
		}
		if !isIdentifier(runtime, ident) {
			return nil, notIdentifier(path, task.Name, ident)
		}
		if other, ok := seen[ident]; ok {
			return nil, &agentspec.InvalidValueError{
				Path:   path,
				Reason: fmt.Sprintf("generates %s, same as task %q", ident, other),
			}
		}
		seen[ident] = task.Name

		for _, p := range task.Input {
			pd := newParamData(runtime, p)
			if !isIdentifier(runtime, pd.VarName) {
				return nil, notIdentifier(path+".input."+p.Name, p.Name, pd.VarName)
			}
			td.Inputs = append(td.Inputs, pd)
		}
		for _, p := range task.Output {
			td.Outputs = append(td.Outputs, newParamData(runtime, p))
		}
		if runtime == agentspec.RuntimePython {
			td.Contract = contractLiteral(task, ids.AgentName)
		}
		d.Tasks = append(d.Tasks, td)
	}
	if len(d.Tasks) > 0 {
		d.FirstTask = &d.Tasks[0]
	}

	return d, nil
}

func newParamData(runtime string, p agentspec.Param) ParamData {
	langType := agentspec.MapType(runtime, p.Type)
	pd := ParamData{
		Name:     p.Name,
		Type:     p.Type,
		LangType: langType,
		VarName:  p.Name,
	}
	if runtime == agentspec.RuntimeGo {
		pd.VarName = goVarName(p.Name)
	}
	pd.Example = exampleLiteral(runtime, langType, p.Name)
	return pd
}

// goVarName turns a parameter name into a lower-camel Go identifier.
func goVarName(name string) string {
	camel := agentspec.CamelCase(name)
	if camel == "" {
		return "arg"
	}
	v := strings.ToLower(camel[:1]) + camel[1:]
	switch {
	case token.IsKeyword(v):
		v += "Arg"
	case !token.IsIdentifier(v):
		v = "p" + camel
	}
	return v
}

func exampleLiteral(runtime, langType, name string) string {
	switch langType {
	case "int":
		return "0"
	case "float", "float64":
		return "0.0"
	case "bool":
		if runtime == agentspec.RuntimePython {
			return "False"
		}
		return "false"
	default:
		return strconv.Quote("example_" + name)
	}
}

// pythonKeywords are reserved words that cannot name a function or argument.
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// isIdentifier reports whether name can be declared in the runtime's source.
func isIdentifier(runtime, name string) bool {
	if !token.IsIdentifier(name) {
		return false
	}
	if runtime == agentspec.RuntimePython {
		return !pythonKeywords[name]
	}
	return true
}

func notIdentifier(path, name, ident string) error {
	return &agentspec.InvalidValueError{
		Path:   path,
		Reason: fmt.Sprintf("%q does not make a valid identifier (got %q)", name, ident),
	}
}

// contractLiteral renders the task's contract as a python dict literal. A task
// without one gets version 1.1 with its description and the agent's role.
func contractLiteral(task agentspec.Task, role string) string {
	fields := task.Contract
	if fields == nil {
		fields = []agentspec.ContractField{
			{Key: "version", Value: "1.1"},
			{Key: "description", Value: task.Description},
			{Key: "role", Value: role},
		}
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = strconv.Quote(f.Key) + ": " + pyLiteral(f.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// pyLiteral renders a decoded YAML value as python source. Nested maps are
// emitted with sorted keys.
func pyLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case bool:
		if val {
			return "True"
		}
		return "False"
	case string:
		return strconv.Quote(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		switch {
		case math.IsNaN(val):
			return `float("nan")`
		case math.IsInf(val, 1):
			return `float("inf")`
		case math.IsInf(val, -1):
			return `float("-inf")`
		}
		s := strconv.FormatFloat(val, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	case []any:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = pyLiteral(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]string, len(keys))
		for i, k := range keys {
			items[i] = strconv.Quote(k) + ": " + pyLiteral(val[k])
		}
		return "{" + strings.Join(items, ", ") + "}"
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[fmt.Sprint(k)] = item
		}
		return pyLiteral(m)
	default:
		return strconv.Quote(fmt.Sprint(val))
	}
}
