package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/zachmeador/pineneedle/pkg/types"
)

type openaiClient struct {
	client *openai.Client
	cfg    types.ModelConfig
}

func newOpenAI(cfg types.ModelConfig) *openaiClient {
	return &openaiClient{
		client: openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		cfg:    cfg,
	}
}

func (o *openaiClient) Provider() string  { return "openai" }
func (o *openaiClient) ModelName() string { return o.cfg.ModelName }

func (o *openaiClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.cfg.ModelName,
		Messages:    messages,
		Temperature: o.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI call failed: %w", err)
	}

	slog.Debug("OpenAI API call",
		"model", o.cfg.ModelName,
		"input_tokens", resp.Usage.PromptTokens,
		"output_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateWithTools lets the model call the given lookups through function
// calling before producing its final text.
func (o *openaiClient) GenerateWithTools(ctx context.Context, systemPrompt, userPrompt string, tools []Tool) (string, error) {
	byName := make(map[string]Tool, len(tools))
	defs := make([]openai.Tool, 0, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  json.RawMessage(`{"type":"object","properties":{}}`),
			},
		})
	}

	messages := []openai.ChatCompletionMessage{}
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	for round := 0; round < maxToolRounds; round++ {
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       o.cfg.ModelName,
			Messages:    messages,
			Temperature: o.cfg.Temperature,
			Tools:       defs,
		})
		if err != nil {
			return "", fmt.Errorf("OpenAI call failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty response from OpenAI")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			tool, ok := byName[call.Function.Name]
			if !ok {
				return "", fmt.Errorf("OpenAI requested unknown tool %q", call.Function.Name)
			}
			out, err := tool.Call(ctx)
			if err != nil {
				return "", fmt.Errorf("tool %s failed: %w", call.Function.Name, err)
			}
			slog.Debug("served tool call", "tool", call.Function.Name, "response_length", len(out))
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    out,
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("OpenAI exceeded %d tool rounds without a final answer", maxToolRounds)
}
