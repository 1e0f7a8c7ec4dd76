package agentspec

// AgentSpec is the typed form of a validated spec document. Optional values
// are pointers; tasks and parameters keep their document order.
type AgentSpec struct {
	Version        *string // open_agent_spec, set by LoadFile
	Info           Info
	Intelligence   Intelligence
	Tasks          []Task
	PromptTemplate *string
}

// Info holds the agent metadata block.
type Info struct {
	Name        string
	Description string
}

// Intelligence describes the language-model backend.
type Intelligence struct {
	Endpoint string
	Model    string
	Config   ModelConfig
}

// ModelConfig holds the optional invocation parameters.
type ModelConfig struct {
	Temperature *float64
	MaxTokens   *int
}

// Task is a named unit of work with typed inputs and outputs.
type Task struct {
	Name           string
	Description    string
	Input          []Param
	Output         []Param
	PromptTemplate *string
	Contract       []ContractField // behavioral contract settings, nil when absent
}

// ContractField is one key of a task's behavioral contract. Values are plain
// decoded YAML: string, int, float64, bool, nil, []any or map[string]any.
type ContractField struct {
	Key   string
	Value any
}

// Param is a single declared input or output and its YAML type name.
type Param struct {
	Name string
	Type string
}

// Identifiers are the names derived from info.name.
type Identifiers struct {
	AgentName string // e.g. "test_agent"
	ClassName string // e.g. "TestAgent"
}

// Top-level and nested keys of a spec document.
const (
	KeyInfo           = "info"
	KeyIntelligence   = "intelligence"
	KeyTasks          = "tasks"
	KeyPromptTemplate = "prompt_template"
	KeyVersion        = "open_agent_spec"
	KeyContract       = "contract"
)

// Config bounds.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
)
