package jobprocessor

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachmeador/pineneedle/internal/config"
	"github.com/zachmeador/pineneedle/internal/llm"
	"github.com/zachmeador/pineneedle/internal/store"
	pnerrors "github.com/zachmeador/pineneedle/pkg/errors"
	"github.com/zachmeador/pineneedle/pkg/types"
)

const extractionJSON = `{
  "title": "Backend Engineer",
  "company": "Acme",
  "location": "Remote",
  "requirements": ["5+ years Go", "PostgreSQL"],
  "responsibilities": ["Own the payments service"],
  "keywords": ["go", "postgres"],
  "tone_reasoning": "Direct, engineering-led language with little marketing gloss.",
  "pay": "$180k",
  "industry": "Fintech",
  "practical_description": "70% backend feature work, 20% reviews, 10% on-call."
}`

const resumeMarkdown = `# Jane Doe

## Summary
Seasoned backend engineer with eight years building Go services.

## Experience
Led the payments platform team at Bigco, cutting p99 latency by 40% across three services.

## Education
BSc Computer Science, State University, 2015.

## Skills
Go, gRPC, PostgreSQL, Kubernetes.
`

// scriptedClient answers extraction and generation prompts with canned
// output, keyed off the system prompt.
type scriptedClient struct {
	prompts *[]string
	cfg     types.ModelConfig
}

func (c *scriptedClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.prompts != nil {
		*c.prompts = append(*c.prompts, userPrompt)
	}
	if strings.Contains(systemPrompt, "parsing job postings") {
		return extractionJSON, nil
	}
	return resumeMarkdown, nil
}

func (c *scriptedClient) Provider() string  { return c.cfg.Provider }
func (c *scriptedClient) ModelName() string { return c.cfg.ModelName }

type fakeRenderer struct {
	calls int
}

func (r *fakeRenderer) Render(ctx context.Context, markdown, style string) ([]byte, error) {
	r.calls++
	return []byte("%PDF-fake"), nil
}

func (r *fakeRenderer) Styles() []string { return []string{"professional", "modern"} }

func testService(t *testing.T) (*Service, *fakeRenderer, *[]string) {
	t.Helper()
	var prompts []string
	renderer := &fakeRenderer{}
	env := config.Env{
		DataDir:      t.TempDir(),
		DefaultModel: types.ModelConfig{Provider: "stub", ModelName: "stub-1", Temperature: 0.7},
	}
	svc, err := New(env, renderer, func(ctx context.Context, cfg types.ModelConfig) (llm.Client, error) {
		return &scriptedClient{prompts: &prompts, cfg: cfg}, nil
	})
	require.NoError(t, err)
	return svc, renderer, &prompts
}

func TestIngestGenerateExportEndToEnd(t *testing.T) {
	svc, renderer, _ := testService(t)
	ctx := context.Background()

	posting, err := svc.IngestPosting(ctx, "We need a backend engineer who knows Go...", nil)
	require.NoError(t, err)
	assert.Equal(t, "Acme", posting.Company)
	assert.Len(t, posting.ID, 14)

	postings, skipped, err := svc.ListPostings()
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, postings, 1)

	content, path, err := svc.GenerateResume(ctx, types.GenerationRequest{JobPostingID: posting.ID}, "")
	require.NoError(t, err)
	assert.Contains(t, content.Sections["summary"], "Seasoned backend engineer")
	require.FileExists(t, path)

	versions, err := svc.ListVersions(posting.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)

	meta, err := svc.LoadVersionMetadata(posting.ID, "")
	require.NoError(t, err)
	assert.Equal(t, posting.ID, meta.JobPostingID)
	assert.Equal(t, "stub", meta.ModelUsed.Provider)

	result, err := svc.ExportPDF(ctx, posting.ID, "", "professional", false)
	require.NoError(t, err)
	require.FileExists(t, result.Path)
	assert.Equal(t, 1, renderer.calls)

	again, err := svc.ExportPDF(ctx, posting.ID, "", "professional", false)
	require.NoError(t, err)
	assert.True(t, again.Reused)
	assert.Equal(t, 1, renderer.calls)
}

func TestGenerateUnknownPosting(t *testing.T) {
	svc, _, _ := testService(t)

	_, _, err := svc.GenerateResume(context.Background(), types.GenerationRequest{JobPostingID: "19990101000000"}, "")
	assert.True(t, pnerrors.Is(err, pnerrors.KindNotFound))
}

func TestIngestBlankInput(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.IngestPosting(context.Background(), "   \n  ", nil)
	assert.True(t, pnerrors.Is(err, pnerrors.KindInput))
}

func TestToneLibraryFlowsIntoPrompt(t *testing.T) {
	svc, _, prompts := testService(t)
	ctx := context.Background()

	toneYAML := "name: concise\ndescription: Ruthlessly concise, no filler words.\n"
	require.NoError(t, store.WriteText(filepath.Join(svc.fs.DataPath("tones"), "concise.yaml"), toneYAML))

	posting, err := svc.IngestPosting(ctx, "Backend engineer role...", nil)
	require.NoError(t, err)

	_, _, err = svc.GenerateResume(ctx, types.GenerationRequest{JobPostingID: posting.ID, Tone: "concise"}, "")
	require.NoError(t, err)

	last := (*prompts)[len(*prompts)-1]
	assert.Contains(t, last, "Ruthlessly concise")
}

func TestSwitchProfileIsolatesPostings(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, err := svc.IngestPosting(ctx, "Backend engineer role...", nil)
	require.NoError(t, err)

	require.NoError(t, svc.CreateProfile("work", "Work", ""))
	require.NoError(t, svc.SwitchProfile("work"))

	postings, _, err := svc.ListPostings()
	require.NoError(t, err)
	assert.Empty(t, postings)

	require.NoError(t, svc.SwitchProfile("default"))
	postings, _, err = svc.ListPostings()
	require.NoError(t, err)
	assert.Len(t, postings, 1)
}

func TestUserFeedbackFlowsIntoPrompt(t *testing.T) {
	svc, _, prompts := testService(t)
	ctx := context.Background()

	posting, err := svc.IngestPosting(ctx, "Backend engineer role...", nil)
	require.NoError(t, err)

	_, _, err = svc.GenerateResume(ctx, types.GenerationRequest{
		JobPostingID: posting.ID,
		UserFeedback: "Lead with the fintech experience.",
	}, "")
	require.NoError(t, err)

	last := (*prompts)[len(*prompts)-1]
	assert.Contains(t, last, "Lead with the fintech experience.")
}
