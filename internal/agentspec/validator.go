package agentspec

import (
	"math"

	"go.yaml.in/yaml/v3"
)

// YAML core-schema tags as reported by yaml.Node.ShortTag.
const (
	tagString = "!!str"
	tagInt    = "!!int"
	tagFloat  = "!!float"
)

// Validate checks the structural contract of a spec document and returns the
// identifiers derived from info.name. Checks run in a fixed order and the
// first failure is returned as a *MissingFieldError or *InvalidValueError.
func Validate(doc *yaml.Node) (Identifiers, error) {
	_, ids, err := Decode(doc)
	return ids, err
}

// Decode validates doc exactly like Validate and also returns the typed spec.
func Decode(doc *yaml.Node) (*AgentSpec, Identifiers, error) {
	root := resolve(doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, Identifiers{}, invalid("", lineOf(root), "must be a mapping")
	}

	info, ok := lookup(root, KeyInfo)
	if !ok {
		return nil, Identifiers{}, missing(KeyInfo)
	}
	intel, ok := lookup(root, KeyIntelligence)
	if !ok {
		return nil, Identifiers{}, missing(KeyIntelligence)
	}

	spec := &AgentSpec{}
	var err error

	if info.Kind != yaml.MappingNode {
		return nil, Identifiers{}, invalid(KeyInfo, info.Line, "must be a mapping")
	}
	if spec.Info.Name, err = requireString(info, KeyInfo, "name"); err != nil {
		return nil, Identifiers{}, err
	}
	if spec.Info.Description, err = requireString(info, KeyInfo, "description"); err != nil {
		return nil, Identifiers{}, err
	}

	if intel.Kind != yaml.MappingNode {
		return nil, Identifiers{}, invalid(KeyIntelligence, intel.Line, "must be a mapping")
	}
	if spec.Intelligence.Endpoint, err = requireString(intel, KeyIntelligence, "endpoint"); err != nil {
		return nil, Identifiers{}, err
	}
	if spec.Intelligence.Model, err = requireString(intel, KeyIntelligence, "model"); err != nil {
		return nil, Identifiers{}, err
	}
	cfg, ok := lookup(intel, "config")
	if !ok {
		return nil, Identifiers{}, missing(KeyIntelligence + ".config")
	}
	if spec.Intelligence.Config, err = decodeModelConfig(cfg); err != nil {
		return nil, Identifiers{}, err
	}

	if tasks, ok := lookup(root, KeyTasks); ok {
		if spec.Tasks, err = decodeTasks(tasks); err != nil {
			return nil, Identifiers{}, err
		}
	}

	if tmpl, ok := lookup(root, KeyPromptTemplate); ok {
		if !isString(tmpl) {
			return nil, Identifiers{}, invalid(KeyPromptTemplate, tmpl.Line, "must be a string")
		}
		spec.PromptTemplate = &tmpl.Value
	}

	return spec, DeriveIdentifiers(spec.Info.Name), nil
}

func decodeModelConfig(cfg *yaml.Node) (ModelConfig, error) {
	const path = KeyIntelligence + ".config"

	var mc ModelConfig
	if cfg.Kind != yaml.MappingNode {
		return mc, invalid(path, cfg.Line, "must be a mapping")
	}

	if n, ok := lookup(cfg, "temperature"); ok {
		p := path + ".temperature"
		if !isNumber(n) {
			return mc, invalid(p, n.Line, "must be a number")
		}
		var t float64
		if err := n.Decode(&t); err != nil {
			return mc, invalid(p, n.Line, "must be a number")
		}
		if math.IsNaN(t) || t < MinTemperature || t > MaxTemperature {
			return mc, invalid(p, n.Line, "must be between %g and %g, got %v", MinTemperature, MaxTemperature, n.Value)
		}
		mc.Temperature = &t
	}

	if n, ok := lookup(cfg, "max_tokens"); ok {
		p := path + ".max_tokens"
		if n.Kind != yaml.ScalarNode || n.ShortTag() != tagInt {
			return mc, invalid(p, n.Line, "must be an integer")
		}
		var maxTokens int
		if err := n.Decode(&maxTokens); err != nil {
			return mc, invalid(p, n.Line, "must be an integer")
		}
		if maxTokens <= 0 {
			return mc, invalid(p, n.Line, "must be greater than 0, got %d", maxTokens)
		}
		mc.MaxTokens = &maxTokens
	}

	return mc, nil
}

func decodeTasks(tasks *yaml.Node) ([]Task, error) {
	if tasks.Kind != yaml.MappingNode {
		return nil, invalid(KeyTasks, tasks.Line, "must be a mapping")
	}

	out := make([]Task, 0, len(tasks.Content)/2)
	for i := 0; i+1 < len(tasks.Content); i += 2 {
		name := tasks.Content[i].Value
		def := resolve(tasks.Content[i+1])
		path := KeyTasks + "." + name

		if def == nil || def.Kind != yaml.MappingNode {
			return nil, invalid(path, tasks.Content[i].Line, "must be a mapping")
		}

		task := Task{Name: name}
		var err error
		if task.Description, err = requireString(def, path, "description"); err != nil {
			return nil, err
		}
		if task.Input, err = decodeParams(def, path, "input"); err != nil {
			return nil, err
		}
		if task.Output, err = decodeParams(def, path, "output"); err != nil {
			return nil, err
		}
		if tmpl, ok := lookup(def, KeyPromptTemplate); ok {
			if !isString(tmpl) {
				return nil, invalid(path+"."+KeyPromptTemplate, tmpl.Line, "must be a string")
			}
			task.PromptTemplate = &tmpl.Value
		}
		if c, ok := lookup(def, KeyContract); ok {
			if task.Contract, err = decodeContract(c, path+"."+KeyContract); err != nil {
				return nil, err
			}
		}
		out = append(out, task)
	}
	return out, nil
}

// decodeParams reads an optional name -> type-name mapping.
func decodeParams(def *yaml.Node, parent, key string) ([]Param, error) {
	n, ok := lookup(def, key)
	if !ok {
		return nil, nil
	}
	path := parent + "." + key
	if n.Kind != yaml.MappingNode {
		return nil, invalid(path, n.Line, "must be a mapping")
	}

	params := make([]Param, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		typ := resolve(n.Content[i+1])
		if !isString(typ) {
			return nil, invalid(path+"."+name, n.Content[i].Line, "must be a string")
		}
		params = append(params, Param{Name: name, Type: typ.Value})
	}
	return params, nil
}

// decodeContract reads a task's contract mapping, keeping key order.
func decodeContract(n *yaml.Node, path string) ([]ContractField, error) {
	if n.Kind != yaml.MappingNode {
		return nil, invalid(path, n.Line, "must be a mapping")
	}

	fields := make([]ContractField, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if !isString(key) {
			return nil, invalid(path, key.Line, "keys must be strings, got %q", key.Value)
		}
		var v any
		if err := n.Content[i+1].Decode(&v); err != nil {
			return nil, invalid(path+"."+key.Value, key.Line, "%v", err)
		}
		fields = append(fields, ContractField{Key: key.Value, Value: v})
	}
	return fields, nil
}

// requireString fetches parent.key and checks that it is a string scalar.
func requireString(m *yaml.Node, parent, key string) (string, error) {
	path := parent + "." + key
	n, ok := lookup(m, key)
	if !ok {
		return "", missing(path)
	}
	if !isString(n) {
		return "", invalid(path, n.Line, "must be a string")
	}
	return n.Value, nil
}

// lookup returns the value node stored under key in mapping m.
func lookup(m *yaml.Node, key string) (*yaml.Node, bool) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return resolve(m.Content[i+1]), true
		}
	}
	return nil, false
}

// resolve unwraps document and alias nodes.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func isString(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == tagString
}

func isNumber(n *yaml.Node) bool {
	if n == nil || n.Kind != yaml.ScalarNode {
		return false
	}
	tag := n.ShortTag()
	return tag == tagInt || tag == tagFloat
}

func lineOf(n *yaml.Node) int {
	if n == nil {
		return 0
	}
	return n.Line
}
