package llm

import "context"

// Tool is a no-argument context lookup the model may call while generating.
// Lookups carry no parameters; each one returns a fixed piece of context.
type Tool struct {
	Name        string
	Description string
	Call        func(ctx context.Context) (string, error)
}

// ToolCapable is implemented by clients whose provider API supports function
// calling. The model decides which lookups to invoke and in what order.
type ToolCapable interface {
	Client
	GenerateWithTools(ctx context.Context, systemPrompt, userPrompt string, tools []Tool) (string, error)
}

// maxToolRounds bounds the call-and-respond loop of one tool-assisted
// generation so a model that keeps requesting lookups cannot spin forever.
const maxToolRounds = 8
