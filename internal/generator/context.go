package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zachmeador/pineneedle/internal/llm"
	"github.com/zachmeador/pineneedle/internal/template"
)

// ContextProvider exposes the generation context as individual lookups, so
// callers (and tests) can inspect each piece in isolation instead of working
// against one flattened prompt string.
type ContextProvider struct {
	deps Deps
}

func NewContextProvider(deps Deps) *ContextProvider {
	return &ContextProvider{deps: deps}
}

// Background returns the candidate's raw background material.
func (p *ContextProvider) Background() string {
	bg := p.deps.Background
	var b strings.Builder
	for _, part := range []struct{ label, content string }{
		{"Contact", bg.ContactMD},
		{"Experience", bg.ExperienceMD},
		{"Education", bg.EducationMD},
		{"Reference material", bg.ReferenceMD},
	} {
		if strings.TrimSpace(part.content) == "" {
			continue
		}
		b.WriteString("### " + part.label + "\n" + part.content + "\n\n")
	}
	if b.Len() == 0 {
		return "No background material provided."
	}
	return strings.TrimSpace(b.String())
}

// JobRequirements returns the posting's extracted details as JSON.
func (p *ContextProvider) JobRequirements() string {
	job := p.deps.JobPosting
	details, err := json.MarshalIndent(map[string]any{
		"title":                 job.Title,
		"company":               job.Company,
		"requirements":          job.Requirements,
		"responsibilities":      job.Responsibilities,
		"keywords":              job.Keywords,
		"pay":                   job.Pay,
		"industry":              job.Industry,
		"practical_description": job.PracticalDescription,
	}, "", "  ")
	if err != nil {
		return ""
	}
	return string(details)
}

// ToneGuidance resolves tone in priority order: the explicit tone argument,
// then the posting's language-pattern analysis, then a neutral default.
func (p *ContextProvider) ToneGuidance() string {
	if p.deps.Tone != "" {
		return fmt.Sprintf("Use a %s tone throughout the resume.", p.deps.Tone)
	}
	if p.deps.JobPosting.ToneReasoning != "" {
		return "Tone guidance from job analysis: " + p.deps.JobPosting.ToneReasoning
	}
	return "Use a professional, standard tone."
}

// FeedbackContext returns prior-iteration revision instructions, if any.
func (p *ContextProvider) FeedbackContext() string {
	if p.deps.UserFeedback != "" {
		return "User feedback to incorporate: " + p.deps.UserFeedback
	}
	return "No specific feedback provided - create the best possible resume."
}

// TemplateStructure describes the section contract the output must satisfy.
func (p *ContextProvider) TemplateStructure() string {
	var b strings.Builder
	b.WriteString("Template:\n" + p.deps.Template.Content + "\n\nSection contract:\n")
	describe := func(sections []string, heading string) {
		if len(sections) == 0 {
			return
		}
		b.WriteString(heading + "\n")
		for _, s := range sections {
			b.WriteString(s + "\n")
		}
	}

	var required, optional []string
	for _, s := range template.RequiredSections(p.deps.Template.Schema) {
		required = append(required, describeSectionLine(s.Format, s.MinLength, s.MaxLength, s.Description))
	}
	for _, s := range template.OptionalSections(p.deps.Template.Schema) {
		optional = append(optional, describeSectionLine(s.Format, s.MinLength, s.MaxLength, s.Description))
	}
	describe(required, "Required sections:")
	describe(optional, "Optional sections:")
	return strings.TrimSpace(b.String())
}

func describeSectionLine(format string, minLen, maxLen int, description string) string {
	line := fmt.Sprintf("- %s (at least %d chars", format, minLen)
	if maxLen > 0 {
		line += fmt.Sprintf(", at most %d", maxLen)
	}
	line += ")"
	if description != "" {
		line += ": " + description
	}
	return line
}

// Tools exposes the lookups as callable functions for tool-capable model
// clients. The model fetches only the context pieces it decides it needs.
func (p *ContextProvider) Tools() []llm.Tool {
	wrap := func(f func() string) func(context.Context) (string, error) {
		return func(context.Context) (string, error) { return f(), nil }
	}
	return []llm.Tool{
		{
			Name:        "get_job_requirements",
			Description: "The extracted job posting details as JSON: title, company, requirements, responsibilities, keywords, pay, industry.",
			Call:        wrap(p.JobRequirements),
		},
		{
			Name:        "get_candidate_background",
			Description: "The candidate's raw background material: contact, experience, education, reference notes.",
			Call:        wrap(p.Background),
		},
		{
			Name:        "get_tone_guidance",
			Description: "How the resume's language should sound for this posting.",
			Call:        wrap(p.ToneGuidance),
		},
		{
			Name:        "get_user_feedback",
			Description: "Revision feedback from the user to incorporate, if any.",
			Call:        wrap(p.FeedbackContext),
		},
		{
			Name:        "get_template_structure",
			Description: "The resume template and the section contract the output must satisfy.",
			Call:        wrap(p.TemplateStructure),
		},
	}
}

// Compose flattens every lookup into one prompt, for clients whose provider
// API has no function calling.
func (p *ContextProvider) Compose() string {
	return strings.Join([]string{
		"Generate a tailored resume for this job posting using the candidate's background and the template.",
		"## Job posting\n" + p.JobRequirements(),
		"## Candidate background\n" + p.Background(),
		"## Tone\n" + p.ToneGuidance(),
		"## Feedback\n" + p.FeedbackContext(),
		"## Template structure\n" + p.TemplateStructure(),
	}, "\n\n")
}
