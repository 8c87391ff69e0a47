package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/zachmeador/pineneedle/pkg/types"
)

type geminiClient struct {
	client *genai.Client
	cfg    types.ModelConfig
}

func newGemini(ctx context.Context, cfg types.ModelConfig) (*geminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(os.Getenv("GEMINI_KEY")))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &geminiClient{client: client, cfg: cfg}, nil
}

func (g *geminiClient) Provider() string  { return "gemini" }
func (g *geminiClient) ModelName() string { return g.cfg.ModelName }

func (g *geminiClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	model := g.client.GenerativeModel(g.cfg.ModelName)
	model.SetTemperature(g.cfg.Temperature)

	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("Gemini call failed: %w", err)
	}

	if resp.UsageMetadata != nil {
		slog.Debug("Gemini API call",
			"model", g.cfg.ModelName,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}

	return string(text), nil
}

// GenerateWithTools runs a chat session in which the model may call the
// given lookups before producing its final text.
func (g *geminiClient) GenerateWithTools(ctx context.Context, systemPrompt, userPrompt string, tools []Tool) (string, error) {
	model := g.client.GenerativeModel(g.cfg.ModelName)
	model.SetTemperature(g.cfg.Temperature)

	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	byName := make(map[string]Tool, len(tools))
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
		})
	}
	model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("Gemini call failed: %w", err)
	}

	for round := 0; round < maxToolRounds; round++ {
		if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("empty response from Gemini")
		}

		var replies []genai.Part
		var text strings.Builder
		for _, part := range resp.Candidates[0].Content.Parts {
			switch v := part.(type) {
			case genai.FunctionCall:
				tool, ok := byName[v.Name]
				if !ok {
					return "", fmt.Errorf("Gemini requested unknown tool %q", v.Name)
				}
				out, err := tool.Call(ctx)
				if err != nil {
					return "", fmt.Errorf("tool %s failed: %w", v.Name, err)
				}
				slog.Debug("served tool call", "tool", v.Name, "response_length", len(out))
				replies = append(replies, genai.FunctionResponse{
					Name:     v.Name,
					Response: map[string]any{"content": out},
				})
			case genai.Text:
				text.WriteString(string(v))
			}
		}

		if len(replies) == 0 {
			return text.String(), nil
		}
		resp, err = session.SendMessage(ctx, replies...)
		if err != nil {
			return "", fmt.Errorf("Gemini call failed: %w", err)
		}
	}

	return "", fmt.Errorf("Gemini exceeded %d tool rounds without a final answer", maxToolRounds)
}
