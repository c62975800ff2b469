package services

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
)

//go:embed prompts/persona.tmpl
var defaultPersonaTemplate string

// PromptTemplate renders the system persona prompt around a user message.
type PromptTemplate struct {
	tmpl *template.Template
}

// LoadPromptTemplate reads the template at path, or the built-in persona when
// path is empty.
func LoadPromptTemplate(path string) (*PromptTemplate, error) {
	text := defaultPersonaTemplate
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt template: %w", err)
		}
		text = string(raw)
	}
	return ParsePromptTemplate(text)
}

func ParsePromptTemplate(text string) (*PromptTemplate, error) {
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &PromptTemplate{tmpl: tmpl}, nil
}

func (p *PromptTemplate) Render(message string) (string, error) {
	var b strings.Builder
	if err := p.tmpl.Execute(&b, struct{ Message string }{Message: message}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}
