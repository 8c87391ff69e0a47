package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/zachmeador/pineneedle/internal/cleaner"
	"github.com/zachmeador/pineneedle/pkg/errors"
	"github.com/zachmeador/pineneedle/pkg/types"
)

// DefaultMaxAttempts bounds the corrective retry loop around one extraction.
const DefaultMaxAttempts = 3

// Extractor turns free text into a schema-conformant structured value with
// bounded model retries. Schema-shape failures get a corrective re-prompt;
// transport failures surface immediately.
type Extractor struct {
	client      Client
	clean       *cleaner.Cleaner
	MaxAttempts int
}

func NewExtractor(client Client) *Extractor {
	return &Extractor{client: client, clean: cleaner.NewCleaner(), MaxAttempts: DefaultMaxAttempts}
}

// Extract runs the validate/retry loop and returns the raw JSON of the first
// response that satisfies the schema.
func (e *Extractor) Extract(ctx context.Context, text, schema, systemPrompt string) (json.RawMessage, error) {
	logger := slog.With("component", "llm", "operation", "extract")

	if strings.TrimSpace(text) == "" {
		return nil, errors.Input("extract", "input text is empty")
	}

	schemaLoader := gojsonschema.NewStringLoader(schema)
	prompt := text
	var lastProblems []string

	for attempt := 1; attempt <= e.MaxAttempts; attempt++ {
		startTime := time.Now()
		content, err := e.client.Generate(ctx, systemPrompt, prompt)
		if err != nil {
			logger.Error("model call failed", "attempt", attempt, "error", err)
			return nil, errors.Provider(e.client.Provider(), err)
		}
		logger.Debug("received model response",
			"attempt", attempt,
			"duration_ms", time.Since(startTime).Milliseconds(),
			"response_length", len(content))

		cleaned := e.clean.CleanLlmResponse(content)

		result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(cleaned))
		if err != nil {
			lastProblems = []string{fmt.Sprintf("output was not valid JSON: %v", err)}
		} else if !result.Valid() {
			lastProblems = lastProblems[:0]
			for _, desc := range result.Errors() {
				lastProblems = append(lastProblems, desc.String())
			}
		} else {
			logger.Debug("extraction validated", "attempt", attempt)
			return json.RawMessage(cleaned), nil
		}

		logger.Warn("extraction attempt rejected", "attempt", attempt, "problems", strings.Join(lastProblems, "; "))
		prompt = text + retryInstruction(lastProblems)
	}

	return nil, errors.GenerationFailed("extraction",
		fmt.Sprintf("gave up after %d attempts: %s", e.MaxAttempts, strings.Join(lastProblems, "; ")))
}

func retryInstruction(problems []string) string {
	var b strings.Builder
	b.WriteString("\n\nYour previous response was rejected for these reasons:\n")
	for _, p := range problems {
		b.WriteString("- " + p + "\n")
	}
	b.WriteString("Respond again with ONLY a corrected JSON object, no code fences, no commentary.")
	return b.String()
}

// ExtractJobPosting parses raw job-ad text into a persisted-ready JobPosting.
// Pass id as "" to let the system assign the numeric timestamp id.
func (e *Extractor) ExtractJobPosting(ctx context.Context, raw, id string) (*types.JobPosting, error) {
	logger := slog.With("component", "llm", "operation", "parse_job_posting")

	if strings.TrimSpace(raw) == "" {
		return nil, errors.Input("job posting", "raw text is blank")
	}

	relevant := e.clean.CleanPosting(raw)
	logger.Info("parsing job posting",
		"provider", e.client.Provider(),
		"model", e.client.ModelName(),
		"content_length", len(relevant))

	prompt := "Parse this job posting:\n\n" + relevant

	rawJSON, err := e.Extract(ctx, prompt, jobPostingSchema, jobParserSystemPrompt)
	if err != nil {
		return nil, err
	}

	var content types.JobPostingContent
	if err := json.Unmarshal(rawJSON, &content); err != nil {
		return nil, errors.GenerationFailed("extraction", fmt.Sprintf("validated output failed to decode: %v", err))
	}

	now := time.Now()
	if id == "" {
		id = now.Format("20060102150405")
	}

	posting := types.NewJobPosting(content, id, now.Format(time.RFC3339), e.client.Provider(), e.client.ModelName(), raw)

	logger.Info("job posting parsed",
		"id", posting.ID,
		"company", posting.Company,
		"title", posting.Title,
		"requirements_count", len(posting.Requirements))

	return &posting, nil
}

const jobParserSystemPrompt = `You are an expert at parsing job postings into structured data for resume tailoring.

Extract from the raw posting:
1. Job title and company name, exactly as stated
2. Location if mentioned, including remote/hybrid
3. ALL requirements: technical skills, experience, education, certifications
4. Responsibilities, preserving technical depth
5. Technical and business keywords
6. Tone reasoning: a 2-3 sentence clinical analysis of the posting's language patterns and communication style
7. Pay information if present
8. The specific industry this role sits in (prefer "Healthcare IT" over "Technology")
9. A practical description: how this person actually spends their time, rank-ordered by percentage, with zero corporate buzzwords

Be exhaustive. Extract implicit requirements too. Return a single JSON object.`

const jobPostingSchema = `{
  "type": "object",
  "required": ["title", "company", "requirements", "responsibilities", "keywords", "tone_reasoning", "industry", "practical_description"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "company": {"type": "string", "minLength": 1},
    "location": {"type": ["string", "null"]},
    "requirements": {"type": "array", "items": {"type": "string"}, "minItems": 1},
    "responsibilities": {"type": "array", "items": {"type": "string"}},
    "keywords": {"type": "array", "items": {"type": "string"}},
    "tone_reasoning": {"type": "string"},
    "pay": {"type": ["string", "null"]},
    "industry": {"type": "string", "minLength": 1},
    "practical_description": {"type": "string"}
  }
}`
