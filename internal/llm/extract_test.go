package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pnerrors "github.com/zachmeador/pineneedle/pkg/errors"
)

// stubClient replays canned responses, recording how often it was called.
type stubClient struct {
	responses []string
	err       error
	calls     int
}

func (s *stubClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	idx := s.calls - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

func (s *stubClient) Provider() string  { return "stub" }
func (s *stubClient) ModelName() string { return "stub-1" }

const validPosting = `{
	"title": "Backend Engineer",
	"company": "Acme",
	"location": "Remote",
	"requirements": ["Go", "5 years experience"],
	"responsibilities": ["Build services"],
	"keywords": ["go", "grpc"],
	"tone_reasoning": "Direct, engineering-led language.",
	"pay": "$150k",
	"industry": "Cloud Infrastructure",
	"practical_description": "60% writing Go services, 40% reviews and on-call."
}`

func TestExtractJobPosting(t *testing.T) {
	client := &stubClient{responses: []string{"```json\n" + validPosting + "\n```"}}
	ext := NewExtractor(client)

	posting, err := ext.ExtractJobPosting(context.Background(), "some raw posting text", "")
	require.NoError(t, err)

	assert.Equal(t, "Acme", posting.Company)
	assert.Equal(t, "Backend Engineer", posting.Title)
	assert.Equal(t, "some raw posting text", posting.RawContent)
	assert.Equal(t, "stub", posting.ModelProvider)
	assert.Len(t, posting.ID, 14)
	assert.Equal(t, 1, client.calls)
}

func TestExtractRetriesOnSchemaViolation(t *testing.T) {
	client := &stubClient{responses: []string{
		`{"company": "Acme"}`, // missing required fields
		`not even json`,
		validPosting,
	}}
	ext := NewExtractor(client)

	_, err := ext.Extract(context.Background(), "posting", jobPostingSchema, "")
	require.NoError(t, err)
	assert.Equal(t, 3, client.calls)
}

func TestExtractTerminatesAfterBudget(t *testing.T) {
	client := &stubClient{responses: []string{`{"company": "Acme"}`}}
	ext := NewExtractor(client)

	_, err := ext.Extract(context.Background(), "posting", jobPostingSchema, "")
	require.Error(t, err)
	assert.True(t, pnerrors.Is(err, pnerrors.KindGenerationFailed))
	assert.Equal(t, DefaultMaxAttempts, client.calls)
}

func TestExtractDoesNotRetryProviderErrors(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	ext := NewExtractor(client)

	_, err := ext.Extract(context.Background(), "posting", jobPostingSchema, "")
	require.Error(t, err)
	assert.True(t, pnerrors.Is(err, pnerrors.KindProvider))
	assert.Equal(t, 1, client.calls)
}

func TestExtractRejectsBlankInput(t *testing.T) {
	ext := NewExtractor(&stubClient{responses: []string{validPosting}})

	_, err := ext.ExtractJobPosting(context.Background(), "   \n\t", "")
	require.Error(t, err)
	assert.True(t, pnerrors.Is(err, pnerrors.KindInput))
}
