package agentspec

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

const validSpec = `info:
  name: test-agent
  description: A test agent
intelligence:
  endpoint: https://api.openai.com/v1
  model: gpt-4
  config:
    temperature: 0.7
    max_tokens: 1000
tasks:
  analyze:
    description: Analyze the given input
    input:
      text: string
    output:
      summary: string
      key_points: string
`

func mustParse(t *testing.T, src string) *yaml.Node {
	t.Helper()
	root, err := Parse([]byte(src))
	require.NoError(t, err)
	return root
}

// nodeAt walks a dotted path of mapping keys and returns the mapping that
// holds the final key plus the key's index in Content.
func nodeAt(t *testing.T, root *yaml.Node, path string) (*yaml.Node, int) {
	t.Helper()
	keys := strings.Split(path, ".")
	m := root
	for i, k := range keys {
		idx := -1
		for j := 0; j+1 < len(m.Content); j += 2 {
			if m.Content[j].Value == k {
				idx = j
				break
			}
		}
		require.NotEqualf(t, -1, idx, "key %q not found in %s", k, path)
		if i == len(keys)-1 {
			return m, idx
		}
		m = m.Content[idx+1]
	}
	t.Fatalf("empty path")
	return nil, 0
}

func withoutKey(t *testing.T, src, path string) *yaml.Node {
	t.Helper()
	root := mustParse(t, src)
	m, idx := nodeAt(t, root, path)
	m.Content = append(m.Content[:idx], m.Content[idx+2:]...)
	return root
}

func withValue(t *testing.T, src, path, value string) *yaml.Node {
	t.Helper()
	root := mustParse(t, src)
	m, idx := nodeAt(t, root, path)
	var v yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(value), &v))
	m.Content[idx+1] = v.Content[0]
	return root
}

func TestValidate_ValidSpec(t *testing.T) {
	ids, err := Validate(mustParse(t, validSpec))
	require.NoError(t, err)
	assert.Equal(t, "test_agent", ids.AgentName)
	assert.Equal(t, "TestAgent", ids.ClassName)
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	paths := []string{
		"info",
		"intelligence",
		"info.name",
		"info.description",
		"intelligence.endpoint",
		"intelligence.model",
		"intelligence.config",
		"tasks.analyze.description",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			_, err := Validate(withoutKey(t, validSpec, path))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingField)
			assert.NotErrorIs(t, err, ErrInvalidValue)

			var mf *MissingFieldError
			require.ErrorAs(t, err, &mf)
			assert.Equal(t, path, mf.Path)
		})
	}
}

func TestValidate_InvalidValues(t *testing.T) {
	tests := []struct {
		path  string
		value string
		want  string // expected error path
	}{
		{"info.name", "123", "info.name"},
		{"info.name", "~", "info.name"},
		{"info.description", "[a, b]", "info.description"},
		{"intelligence.endpoint", "true", "intelligence.endpoint"},
		{"intelligence.model", "4", "intelligence.model"},
		{"intelligence.config", "not-a-map", "intelligence.config"},
		{"intelligence.config.temperature", "3.0", "intelligence.config.temperature"},
		{"intelligence.config.temperature", "-0.1", "intelligence.config.temperature"},
		{"intelligence.config.temperature", "hot", "intelligence.config.temperature"},
		{"intelligence.config.temperature", ".nan", "intelligence.config.temperature"},
		{"intelligence.config.max_tokens", "0", "intelligence.config.max_tokens"},
		{"intelligence.config.max_tokens", "-5", "intelligence.config.max_tokens"},
		{"intelligence.config.max_tokens", "10.5", "intelligence.config.max_tokens"},
		{"intelligence.config.max_tokens", "'100'", "intelligence.config.max_tokens"},
		{"tasks", "[analyze]", "tasks"},
		{"tasks.analyze", "just text", "tasks.analyze"},
		{"tasks.analyze.description", "42", "tasks.analyze.description"},
		{"tasks.analyze.input", "text", "tasks.analyze.input"},
		{"tasks.analyze.input.text", "123", "tasks.analyze.input.text"},
		{"tasks.analyze.output.summary", "{type: string}", "tasks.analyze.output.summary"},
		{"info", "test-agent", "info"},
		{"intelligence", "[gpt-4]", "intelligence"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%s", tt.path, tt.value), func(t *testing.T) {
			_, err := Validate(withValue(t, validSpec, tt.path, tt.value))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidValue)
			assert.NotErrorIs(t, err, ErrMissingField)

			var iv *InvalidValueError
			require.ErrorAs(t, err, &iv)
			assert.Equal(t, tt.want, iv.Path)
			assert.NotEmpty(t, iv.Reason)
		})
	}
}

func TestValidate_TemperatureBoundaries(t *testing.T) {
	for _, v := range []string{"0", "0.0", "1.0", "2", "2.0"} {
		t.Run(v, func(t *testing.T) {
			spec, _, err := Decode(withValue(t, validSpec, "intelligence.config.temperature", v))
			require.NoError(t, err)
			require.NotNil(t, spec.Intelligence.Config.Temperature)
		})
	}
}

func TestValidate_MaxTokensBoundary(t *testing.T) {
	spec, _, err := Decode(withValue(t, validSpec, "intelligence.config.max_tokens", "1"))
	require.NoError(t, err)
	require.NotNil(t, spec.Intelligence.Config.MaxTokens)
	assert.Equal(t, 1, *spec.Intelligence.Config.MaxTokens)
}

func TestValidate_EmptyConfigAccepted(t *testing.T) {
	spec, _, err := Decode(withValue(t, validSpec, "intelligence.config", "{}"))
	require.NoError(t, err)
	assert.Nil(t, spec.Intelligence.Config.Temperature)
	assert.Nil(t, spec.Intelligence.Config.MaxTokens)
}

func TestValidate_CheckOrder(t *testing.T) {
	// info.name is checked before intelligence.endpoint.
	root := withValue(t, validSpec, "info.name", "1")
	m, idx := nodeAt(t, root, "intelligence.endpoint")
	m.Content = append(m.Content[:idx], m.Content[idx+2:]...)

	_, err := Validate(root)
	var iv *InvalidValueError
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "info.name", iv.Path)

	// Presence of intelligence is checked before any info field.
	root = withoutKey(t, validSpec, "intelligence")
	m, idx = nodeAt(t, root, "info.name")
	m.Content = append(m.Content[:idx], m.Content[idx+2:]...)

	_, err = Validate(root)
	var mf *MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "intelligence", mf.Path)
}

func TestValidate_FirstTaskProblemWins(t *testing.T) {
	src := validSpec + `  broken:
    description: 7
  worse:
    input: nope
`
	_, err := Validate(mustParse(t, src))
	var iv *InvalidValueError
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "tasks.broken.description", iv.Path)
}

func TestValidate_CustomPromptTemplates(t *testing.T) {
	src := validSpec + `    prompt_template: Custom task template content
prompt_template: Custom template content
`
	root := mustParse(t, src)
	spec, ids, err := Decode(root)
	require.NoError(t, err)

	plain, err := Validate(mustParse(t, validSpec))
	require.NoError(t, err)
	assert.Equal(t, plain, ids)

	require.NotNil(t, spec.PromptTemplate)
	assert.Equal(t, "Custom template content", *spec.PromptTemplate)
	require.Len(t, spec.Tasks, 1)
	require.NotNil(t, spec.Tasks[0].PromptTemplate)
	assert.Equal(t, "Custom task template content", *spec.Tasks[0].PromptTemplate)
}

func TestValidate_PromptTemplateMustBeString(t *testing.T) {
	_, err := Validate(mustParse(t, validSpec+"prompt_template: [x]\n"))
	var iv *InvalidValueError
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "prompt_template", iv.Path)

	_, err = Validate(mustParse(t, validSpec+"    prompt_template: 5\n"))
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "tasks.analyze.prompt_template", iv.Path)
}

func TestDecode_Contract(t *testing.T) {
	src := validSpec + `    contract:
      version: "0.2"
      strict: true
      policy:
        pii: false
`
	spec, _, err := Decode(mustParse(t, src))
	require.NoError(t, err)
	require.Len(t, spec.Tasks, 1)
	assert.Equal(t, []ContractField{
		{Key: "version", Value: "0.2"},
		{Key: "strict", Value: true},
		{Key: "policy", Value: map[string]any{"pii": false}},
	}, spec.Tasks[0].Contract)

	plain, _, err := Decode(mustParse(t, validSpec))
	require.NoError(t, err)
	assert.Nil(t, plain.Tasks[0].Contract)
}

func TestValidate_ContractMustBeMapping(t *testing.T) {
	_, err := Validate(mustParse(t, validSpec+"    contract: strict\n"))
	var iv *InvalidValueError
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "tasks.analyze.contract", iv.Path)

	_, err = Validate(mustParse(t, validSpec+"    contract:\n      1: x\n"))
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "tasks.analyze.contract", iv.Path)
}

func TestValidate_NonMappingDocument(t *testing.T) {
	_, err := Validate(mustParse(t, "- just\n- a list\n"))
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Validate(nil)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestValidate_NoTasks(t *testing.T) {
	spec, ids, err := Decode(withoutKey(t, validSpec, "tasks"))
	require.NoError(t, err)
	assert.Empty(t, spec.Tasks)
	assert.Equal(t, "TestAgent", ids.ClassName)
}

func TestDecode_PreservesOrder(t *testing.T) {
	src := validSpec + `  zeta:
    description: last alphabetically, second in file
    input:
      b: integer
      a: boolean
`
	spec, _, err := Decode(mustParse(t, src))
	require.NoError(t, err)
	require.Len(t, spec.Tasks, 2)
	assert.Equal(t, "analyze", spec.Tasks[0].Name)
	assert.Equal(t, "zeta", spec.Tasks[1].Name)
	assert.Equal(t, []Param{{Name: "b", Type: "integer"}, {Name: "a", Type: "boolean"}}, spec.Tasks[1].Input)
	assert.Equal(t, []Param{{Name: "summary", Type: "string"}, {Name: "key_points", Type: "string"}}, spec.Tasks[0].Output)
}

func TestDecode_Aliases(t *testing.T) {
	src := `shared: &cfg
  temperature: 1
info:
  name: alias-agent
  description: uses anchors
intelligence:
  endpoint: http://localhost:8080
  model: local
  config: *cfg
`
	spec, _, err := Decode(mustParse(t, src))
	require.NoError(t, err)
	require.NotNil(t, spec.Intelligence.Config.Temperature)
	assert.Equal(t, 1.0, *spec.Intelligence.Config.Temperature)
}

func TestInvalidValueError_Message(t *testing.T) {
	_, err := Validate(withValue(t, validSpec, "intelligence.config.temperature", "3.0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intelligence.config.temperature")
	assert.Contains(t, err.Error(), "between 0 and 2")
}

func TestValidate_Concurrent(t *testing.T) {
	root := mustParse(t, validSpec)
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids, err := Validate(root)
			if err == nil && ids.ClassName != "TestAgent" {
				err = errors.New("unexpected class name " + ids.ClassName)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
