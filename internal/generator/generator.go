package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zachmeador/pineneedle/internal/cleaner"
	"github.com/zachmeador/pineneedle/internal/llm"
	"github.com/zachmeador/pineneedle/internal/template"
	"github.com/zachmeador/pineneedle/pkg/errors"
	"github.com/zachmeador/pineneedle/pkg/types"
)

// DefaultMaxAttempts bounds the validate/retry loop of one generation call.
const DefaultMaxAttempts = 3

// minResumeLength rejects outputs too short to be a resume at all.
const minResumeLength = 100

// Deps is everything one generation call reads. The pipeline is a pure
// function of these plus the model's responses.
type Deps struct {
	JobPosting   types.JobPosting
	Background   types.UserBackground
	Template     *types.Template
	Tone         string
	UserFeedback string
}

// Generator orchestrates one resume generation: prompt, validate, bounded
// corrective retries. Callers never receive content that failed validation.
type Generator struct {
	client      llm.Client
	clean       *cleaner.Cleaner
	MaxAttempts int
}

func New(client llm.Client) *Generator {
	return &Generator{client: client, clean: cleaner.NewCleaner(), MaxAttempts: DefaultMaxAttempts}
}

// Generate returns validated resume content and the number of model calls it
// took. Attempts within one call are strictly sequential; validation always
// completes before a retry is issued.
//
// Tool-capable clients get the context as callable lookups and a short task
// prompt, so the model queries only what it needs; other clients get every
// lookup flattened into the prompt.
func (g *Generator) Generate(ctx context.Context, deps Deps) (*types.ResumeContent, int, error) {
	logger := slog.With("component", "generator", "operation", "generate_resume", "job_id", deps.JobPosting.ID)

	provider := NewContextProvider(deps)
	toolClient, useTools := g.client.(llm.ToolCapable)

	basePrompt := toolTaskPrompt
	if !useTools {
		basePrompt = provider.Compose()
	}
	prompt := basePrompt
	var lastProblems []string

	for attempt := 1; attempt <= g.MaxAttempts; attempt++ {
		startTime := time.Now()
		var content string
		var err error
		if useTools {
			content, err = toolClient.GenerateWithTools(ctx, resumeSystemPrompt, prompt, provider.Tools())
		} else {
			content, err = g.client.Generate(ctx, resumeSystemPrompt, prompt)
		}
		if err != nil {
			logger.Error("model call failed", "attempt", attempt, "error", err)
			return nil, attempt, errors.Provider(g.client.Provider(), err)
		}
		logger.Debug("received model response",
			"attempt", attempt,
			"duration_ms", time.Since(startTime).Milliseconds(),
			"response_length", len(content))

		markdown := g.clean.CleanLlmResponse(content)
		sections, problems := ValidateResume(markdown, deps.Template.Schema)
		if len(problems) == 0 {
			logger.Info("resume validated", "attempt", attempt, "sections", len(sections))
			return &types.ResumeContent{ResumeMarkdown: markdown, Sections: sections}, attempt, nil
		}

		lastProblems = problems
		logger.Warn("resume rejected", "attempt", attempt, "problems", strings.Join(problems, "; "))
		prompt = basePrompt + retryInstruction(problems)
	}

	return nil, g.MaxAttempts, errors.GenerationFailed(deps.JobPosting.ID,
		fmt.Sprintf("resume failed validation after %d attempts: %s", g.MaxAttempts, strings.Join(lastProblems, "; ")))
}

func retryInstruction(problems []string) string {
	var b strings.Builder
	b.WriteString("\n\nYour previous resume was rejected:\n")
	for _, p := range problems {
		b.WriteString("- " + p + "\n")
	}
	b.WriteString("Regenerate the full resume fixing every issue above. Return only the resume markdown.")
	return b.String()
}

// ValidateResume extracts the section map from resume markdown and checks it
// against the template contract. An empty problem list means the content is
// acceptable; the section map is only meaningful in that case.
//
// Deterministic: the same markdown and schema always produce the same verdict.
func ValidateResume(markdown string, schema types.TemplateSchema) (map[string]string, []string) {
	if len(strings.TrimSpace(markdown)) < minResumeLength {
		return nil, []string{"resume is too short to be usable, provide complete content"}
	}

	sections := ExtractSections(markdown, schema)

	var problems []string
	var missing []string
	for _, section := range template.RequiredSections(schema) {
		body, ok := sections[section.Name]
		if !ok {
			missing = append(missing, section.DisplayName)
			continue
		}
		if len(body) < section.MinLength {
			problems = append(problems, fmt.Sprintf(
				"section %q is too brief (%d chars, needs at least %d)",
				section.DisplayName, len(body), section.MinLength))
		}
	}
	if len(missing) > 0 {
		problems = append(problems, fmt.Sprintf(
			"missing required sections: %s", strings.Join(missing, ", ")))
	}

	if len(problems) > 0 {
		return nil, problems
	}
	return sections, nil
}

// ExtractSections scans the markdown line by line. A line matching a declared
// heading starts that section; subsequent non-empty lines accumulate into its
// body until the next declared heading or end of document.
func ExtractSections(markdown string, schema types.TemplateSchema) map[string]string {
	sections := map[string]string{}
	bodies := map[string][]string{}
	current := ""

	for _, line := range strings.Split(markdown, "\n") {
		matched := false
		for _, section := range schema.Sections {
			if template.MatchSection(line, section) {
				current = section.Name
				bodies[current] = nil
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if current != "" && strings.TrimSpace(line) != "" {
			bodies[current] = append(bodies[current], strings.TrimSpace(line))
		}
	}

	for name, lines := range bodies {
		sections[name] = strings.Join(lines, "\n")
	}
	return sections
}

const toolTaskPrompt = `Generate a tailored resume for the job posting. Use the lookup tools to fetch the job requirements, the candidate's background, tone guidance, user feedback, and the template structure the output must follow. Query only what you need. Return only the resume markdown.`

const resumeSystemPrompt = `You are an expert resume writer who creates tailored resumes for specific job postings.

Generate a professional resume that:
1. Follows the provided template structure exactly, including its section headings
2. Tailors content specifically to the job posting requirements
3. Uses the candidate's background information effectively
4. Emphasizes relevant skills and experiences with strong action verbs and quantified achievements
5. Works keywords from the posting in naturally

If revision feedback is provided, incorporate those specific changes.
Return only the resume markdown, no commentary.`
