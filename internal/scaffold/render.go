package scaffold

import (
	"bytes"
	"fmt"
	"maps"
	"text/template"

	"github.com/stamp-dev/stamp/internal/errors"
	"github.com/stamp-dev/stamp/internal/plan"
)

// TemplateData holds the values available to templated entries.
type TemplateData struct {
	Name    string            // plan name
	Version string            // plan version, may be empty
	Vars    map[string]string // plan vars overlaid with caller overrides
}

// NewTemplateData merges overrides on top of the plan's variables.
func NewTemplateData(p *plan.Plan, overrides map[string]string) TemplateData {
	vars := make(map[string]string, len(p.Vars)+len(overrides))
	maps.Copy(vars, p.Vars)
	maps.Copy(vars, overrides)
	return TemplateData{Name: p.Name, Version: p.Version, Vars: vars}
}

// Render returns the bytes to write for e. Entries not marked as templates
// are returned verbatim. Referencing an undefined variable is an error.
func Render(e plan.Entry, data TemplateData) ([]byte, error) {
	if !e.Template {
		return e.Content, nil
	}

	tmpl, err := template.New(e.Path).Option("missingkey=error").Parse(string(e.Content))
	if err != nil {
		return nil, errors.WrapUsage(errors.EInvalidPlan, fmt.Sprintf("parsing template %s", e.Path), err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.WrapUsage(errors.EInvalidPlan, fmt.Sprintf("executing template %s", e.Path), err)
	}
	return buf.Bytes(), nil
}
