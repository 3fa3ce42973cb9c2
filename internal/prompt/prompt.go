// Package prompt renders the text prompt sent with the player photo.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed generate-photo.tmpl
var generatePhotoTemplate string

// Data holds the values substituted into the prompt.
type Data struct {
	SportName string
	TeamColor string
	TeamName  string
}

// Template is a parsed prompt template.
type Template struct {
	tmpl *template.Template
}

// Default returns the embedded photo generation template.
func Default() *Template {
	return &Template{tmpl: template.Must(parse("generate-photo", generatePhotoTemplate))}
}

// Parse compiles a custom prompt template.
func Parse(name, src string) (*Template, error) {
	t, err := parse(name, src)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &Template{tmpl: t}, nil
}

// Load reads a prompt template from path, or returns Default when path is
// empty.
func Load(path string) (*Template, error) {
	if path == "" {
		return Default(), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt template: %w", err)
	}
	return Parse(filepath.Base(path), string(src))
}

func parse(name, src string) (*template.Template, error) {
	return template.New(name).Option("missingkey=error").Parse(src)
}

// Render executes the template.
func (t *Template) Render(d Data) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, d); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}
