package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Template names.
const (
	SpecRhodes = "spec_rhodes"
	SpecGuitar = "spec_guitar"
	Recalc     = "recalc"
	Compare    = "compare"
	Heritage   = "heritage"
	Demos      = "demos"
)

var required = []string{SpecRhodes, SpecGuitar, Recalc, Compare, Heritage, Demos}

//go:embed prompts.yaml
var defaultSource []byte

var funcs = template.FuncMap{
	"join": func(values []string) string { return strings.Join(values, ", ") },
}

// Library is a parsed set of prompt templates.
type Library struct {
	templates map[string]*template.Template
}

// Parse reads a YAML mapping of template name to template text. Every
// built-in name must be present.
func Parse(source []byte) (*Library, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(source, &raw); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	lib := &Library{templates: make(map[string]*template.Template, len(raw))}
	for name, text := range raw {
		tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse prompt %q: %w", name, err)
		}
		lib.templates[name] = tmpl
	}
	for _, name := range required {
		if _, ok := lib.templates[name]; !ok {
			return nil, fmt.Errorf("parse prompts: missing %q", name)
		}
	}
	return lib, nil
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default returns the embedded library. The embedded file is validated by
// tests, so a parse failure here is a build defect.
func Default() *Library {
	defaultOnce.Do(func() {
		lib, err := Parse(defaultSource)
		if err != nil {
			panic(err)
		}
		defaultLib = lib
	})
	return defaultLib
}

// Render executes the named template with data and trims the result.
func (l *Library) Render(name string, data any) (string, error) {
	tmpl, ok := l.templates[name]
	if !ok {
		return "", fmt.Errorf("render prompt: unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
