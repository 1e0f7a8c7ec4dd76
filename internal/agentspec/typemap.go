package agentspec

import "strings"

// Runtimes the type map knows about.
const (
	RuntimePython = "python"
	RuntimeGo     = "go"
)

var typeMaps = map[string]map[string]string{
	RuntimePython: {
		"string":  "str",
		"number":  "float",
		"integer": "int",
		"boolean": "bool",
	},
	RuntimeGo: {
		"string":  "string",
		"number":  "float64",
		"integer": "int",
		"boolean": "bool",
	},
}

// MapType returns the runtime's type for a YAML type name. Unknown type names
// and unknown runtimes fall back to the runtime's string type.
func MapType(runtime, yamlType string) string {
	m, ok := typeMaps[runtime]
	if !ok {
		return "string"
	}
	if t, ok := m[strings.ToLower(yamlType)]; ok {
		return t
	}
	return m["string"]
}
