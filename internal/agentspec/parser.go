package agentspec

import (
	"bytes"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parse decodes YAML bytes into a node tree and returns the document's root
// node. Validation is left to Validate or Decode.
func Parse(data []byte) (*yaml.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, invalid("", 0, "document is empty")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling YAML: %w", err)
	}
	return resolve(&doc), nil
}

// ParseFile reads and parses a spec file.
func ParseFile(path string) (*yaml.Node, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	root, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing spec %s: %w", path, err)
	}
	return root, nil
}

// LoadFile parses, validates, and decodes a spec file, then checks the
// optional open_agent_spec version against the supported range.
func LoadFile(path string) (*AgentSpec, Identifiers, error) {
	root, err := ParseFile(path)
	if err != nil {
		return nil, Identifiers{}, err
	}

	spec, ids, err := Decode(root)
	if err != nil {
		return nil, Identifiers{}, err
	}

	version, err := CheckVersion(root)
	if err != nil {
		return nil, Identifiers{}, err
	}
	if version != "" {
		spec.Version = &version
	}
	return spec, ids, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
