// Package tmpl renders user-supplied output templates.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"join":    strings.Join,
	"upper":   strings.ToUpper,
	"lower":   strings.ToLower,
	"trunc":   truncate,
	"default": stringOrDefault,
}

func stringOrDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(n int, s string) string {
	r := []rune(s)
	if n < 0 || len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// Template is a parsed output template.
type Template struct {
	t *template.Template
}

// Parse compiles text. Missing map keys are errors.
//
// Available template functions:
//   - join: join a string slice with a separator
//   - upper, lower: change case
//   - trunc: truncate to n runes (e.g. trunc 20 .Title)
//   - default: fall back for empty strings (e.g. default .Title "untitled")
func Parse(text string) (*Template, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Template{t: t}, nil
}

// Execute renders the template with data.
func (t *Template) Execute(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}

// Render parses and executes text in one step.
func Render(text string, data any) (string, error) {
	t, err := Parse(text)
	if err != nil {
		return "", err
	}
	return t.Execute(data)
}
