package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zachmeador/pineneedle/pkg/errors"
	"github.com/zachmeador/pineneedle/pkg/types"
)

// Engine loads template+schema pairs from a profile's templates directory
// and caches them. The "default" template is materialized on first use.
type Engine struct {
	dir   string
	cache map[string]*types.Template
}

func NewEngine(dir string) *Engine {
	return &Engine{dir: dir, cache: map[string]*types.Template{}}
}

// Load returns the named template, writing the built-in default to disk
// first if it has never been materialized.
func (e *Engine) Load(name string) (*types.Template, error) {
	if tpl, ok := e.cache[name]; ok {
		return tpl, nil
	}

	contentPath := filepath.Join(e.dir, name+".md")
	schemaPath := filepath.Join(e.dir, name+".yaml")

	if _, err := os.Stat(contentPath); os.IsNotExist(err) {
		if name != "default" {
			return nil, errors.NotFound(name, "template does not exist")
		}
		if err := e.materializeDefault(contentPath, schemaPath); err != nil {
			return nil, err
		}
	}

	content, err := os.ReadFile(contentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}

	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, errors.Corrupt(name, "template schema file is missing")
	}

	var schema types.TemplateSchema
	if err := yaml.Unmarshal(schemaBytes, &schema); err != nil {
		return nil, errors.Corrupt(name, fmt.Sprintf("template schema failed to parse: %v", err))
	}

	tpl := &types.Template{Name: name, Content: string(content), Schema: schema}
	e.cache[name] = tpl
	return tpl, nil
}

func (e *Engine) materializeDefault(contentPath, schemaPath string) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create templates directory: %w", err)
	}
	if err := os.WriteFile(contentPath, []byte(defaultTemplateContent), 0o644); err != nil {
		return fmt.Errorf("failed to write default template: %w", err)
	}
	schemaBytes, err := yaml.Marshal(DefaultSchema())
	if err != nil {
		return fmt.Errorf("failed to encode default schema: %w", err)
	}
	if err := os.WriteFile(schemaPath, schemaBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write default schema: %w", err)
	}
	return nil
}

// MatchSection reports whether a heading line satisfies a section's declared
// format. Models don't reliably reproduce exact heading punctuation, so the
// declared format, the no-space variant, and the single-hash variant all
// match, case-insensitively.
func MatchSection(line string, section types.TemplateSection) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	candidates := []string{
		section.Format,
		"##" + section.DisplayName,
		"## " + section.DisplayName,
		"# " + section.DisplayName,
	}
	for _, c := range candidates {
		if c != "" && strings.EqualFold(trimmed, c) {
			return true
		}
	}
	return false
}

// RequiredSections filters a schema down to its required sections.
func RequiredSections(schema types.TemplateSchema) []types.TemplateSection {
	var out []types.TemplateSection
	for _, s := range schema.Sections {
		if s.Required {
			out = append(out, s)
		}
	}
	return out
}

// OptionalSections filters a schema down to its optional sections.
func OptionalSections(schema types.TemplateSchema) []types.TemplateSection {
	var out []types.TemplateSection
	for _, s := range schema.Sections {
		if !s.Required {
			out = append(out, s)
		}
	}
	return out
}

// DefaultSchema is the section contract used when no template exists yet.
func DefaultSchema() types.TemplateSchema {
	return types.TemplateSchema{
		Sections: []types.TemplateSection{
			{
				Name:        "summary",
				DisplayName: "Summary",
				Required:    true,
				Format:      "## Summary",
				MinLength:   20,
				Description: "Two to three sentences positioning the candidate for this specific role.",
			},
			{
				Name:        "experience",
				DisplayName: "Experience",
				Required:    true,
				Format:      "## Experience",
				MinLength:   50,
				Description: "Most relevant positions first, with quantified achievements.",
			},
			{
				Name:        "education",
				DisplayName: "Education",
				Required:    true,
				Format:      "## Education",
				MinLength:   20,
				Description: "Degrees, institutions, and relevant certifications.",
			},
			{
				Name:        "skills",
				DisplayName: "Skills",
				Required:    false,
				Format:      "## Skills",
				MinLength:   10,
				Description: "Skills matching the posting's keywords, grouped sensibly.",
			},
		},
	}
}

const defaultTemplateContent = `# {name}
{contact_info}

## Summary
{summary}

## Experience
{experience}

## Education
{education}

## Skills
{skills}
`
