package scaffold

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"go/format"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/joho/godotenv"

	"github.com/open-agent-spec/oas/internal/agentspec"
	"github.com/open-agent-spec/oas/internal/log"
)

// Runtimes lists the template sets that can be generated.
var Runtimes = []string{agentspec.RuntimePython, agentspec.RuntimeGo}

// promptExt is the prompt file extension each runtime's loader expects.
var promptExt = map[string]string{
	agentspec.RuntimePython: ".jinja2",
	agentspec.RuntimeGo:     ".gotmpl",
}

const (
	promptsDir      = "prompts"
	agentPromptBase = "agent_prompt"
	envExampleFile  = ".env.example"
)

// IsRuntime reports whether name is a supported runtime.
func IsRuntime(name string) bool {
	_, ok := promptExt[name]
	return ok
}

// File is one generated output, relative to the output directory.
type File struct {
	Path    string // slash-separated, e.g. "prompts/agent_prompt.jinja2"
	Content []byte
}

// Options controls how Generate treats the output directory.
type Options struct {
	// Overwrite updates an existing project in place. The directory must
	// already exist and existing files are replaced.
	Overwrite bool
	// Force allows a fresh scaffold into a directory that is not empty.
	Force bool
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir   string
	Files       []string
	Overwritten []string
	Warnings    []string
}

// templateSetName returns the embedded directory for a runtime.
func templateSetName(runtime string) string {
	return path.Join("scaffolds", runtime)
}

// Plan renders every file for data without touching the file system.
func Plan(data *ScaffoldData) ([]File, error) {
	return render(data)
}

// Generate renders the project for data and writes it under outputDir.
func Generate(data *ScaffoldData, outputDir string, opts Options) (*Result, error) {
	files, err := render(data)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if !filepath.IsLocal(filepath.FromSlash(f.Path)) {
			return nil, fmt.Errorf("refusing to write %s outside %s", f.Path, outputDir)
		}
	}

	if opts.Overwrite {
		info, err := os.Stat(outputDir)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("output directory %s does not exist", outputDir)
		}
		if err != nil {
			return nil, fmt.Errorf("checking output directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("output path %s is not a directory", outputDir)
		}
	} else {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		// Check for existing files to prevent accidental overwrites.
		existing, err := os.ReadDir(outputDir)
		if err == nil && len(existing) > 0 && !opts.Force {
			return nil, fmt.Errorf("output directory %s is not empty; use --force or 'update' to overwrite", outputDir)
		}
	}

	result := &Result{OutputDir: outputDir}
	if len(data.Tasks) == 0 {
		result.Warnings = append(result.Warnings, "no tasks defined in spec; the generated agent has no task methods")
	}

	for _, f := range files {
		outPath := filepath.Join(outputDir, filepath.FromSlash(f.Path))

		if _, err := os.Stat(outPath); err == nil {
			log.Warnf("%s already exists and will be overwritten", f.Path)
			result.Overwritten = append(result.Overwritten, f.Path)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(outPath, f.Content, 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}
		log.Debugf("%s created", f.Path)
		result.Files = append(result.Files, f.Path)
	}

	return result, nil
}

// render produces the file set: the runtime's template set, custom prompt
// templates, and the environment template.
func render(data *ScaffoldData) ([]File, error) {
	ext, ok := promptExt[data.Runtime]
	if !ok {
		return nil, fmt.Errorf("unsupported runtime %q", data.Runtime)
	}
	templatesDir := templateSetName(data.Runtime)
	agentPrompt := path.Join(promptsDir, agentPromptBase+ext)

	var files []File
	err := fs.WalkDir(scaffoldFS, templatesDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		tmplBytes, err := fs.ReadFile(scaffoldFS, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}
		rel := strings.TrimPrefix(p, templatesDir+"/")

		// Files without the .tmpl suffix are copied verbatim. Prompt
		// defaults rely on this: their {{ }} belongs to the generated
		// program's template engine, not ours.
		if !strings.HasSuffix(rel, ".tmpl") {
			if rel == agentPrompt && data.PromptTemplate != nil {
				tmplBytes = []byte(*data.PromptTemplate)
				log.Debugf("%s uses the custom prompt_template", rel)
			}
			files = append(files, File{Path: rel, Content: tmplBytes})
			return nil
		}

		out, err := execute(d.Name(), tmplBytes, data)
		if err != nil {
			return err
		}
		rel = strings.TrimSuffix(rel, ".tmpl")
		if path.Ext(rel) == ".go" {
			if out, err = format.Source(out); err != nil {
				return fmt.Errorf("formatting %s: %w", rel, err)
			}
		}
		files = append(files, File{Path: rel, Content: out})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("template set %q: %w", data.Runtime, err)
	}

	planned := make(map[string]bool, len(files))
	for _, f := range files {
		planned[f.Path] = true
	}
	for _, task := range data.Tasks {
		if task.PromptTemplate == nil {
			continue
		}
		p := path.Join(promptsDir, task.Name+"_prompt"+ext)
		var reason string
		switch {
		case path.Dir(p) != promptsDir:
			reason = fmt.Sprintf("prompt file %s is outside %s/", p, promptsDir)
		case planned[p]:
			reason = fmt.Sprintf("prompt file %s would replace another generated file", p)
		}
		if reason != "" {
			return nil, &agentspec.InvalidValueError{Path: agentspec.KeyTasks + "." + task.Name, Reason: reason}
		}
		planned[p] = true
		files = append(files, File{Path: p, Content: []byte(*task.PromptTemplate)})
	}

	env, err := envExample(data)
	if err != nil {
		return nil, err
	}
	files = append(files, File{Path: envExampleFile, Content: env})

	return files, nil
}

func execute(name string, tmplBytes []byte, data *ScaffoldData) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(funcMap).Parse(string(tmplBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// envExample renders the variables the generated program reads at startup.
func envExample(data *ScaffoldData) ([]byte, error) {
	content, err := godotenv.Marshal(map[string]string{
		"OPENAI_API_KEY":  "your-api-key-here",
		"OPENAI_BASE_URL": data.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", envExampleFile, err)
	}
	return []byte(content + "\n"), nil
}

var funcMap = template.FuncMap{
	"quote": strconv.Quote,
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
	"oneline": func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	},
	"names": func(params []ParamData) []string {
		out := make([]string, len(params))
		for i, p := range params {
			out[i] = p.Name
		}
		return out
	},
}
