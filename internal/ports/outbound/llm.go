// Package outbound defines the interfaces for outbound ports (secondary/driven
// adapters). These are the interfaces that the application uses to interact
// with external systems.
package outbound

import "context"

// ChatMessage is a role-tagged message sent to a chat-completion provider
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions is the recognized options bag for chat completions. Zero
// values are replaced with the adapter's defaults.
type ChatOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// ChatClient is the adapter for the primary chat-completion provider. It
// returns the raw assistant message content; the caller owns parsing it as
// JSON. A non-2xx status surfaces as a provider error carrying status and
// body; there are no retries and no rate limiting at this layer.
type ChatClient interface {
	ChatCompletion(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)
}

// GenerateOptions is the options bag for the self-hosted completion provider
type GenerateOptions struct {
	Model       string
	Temperature float64
	TopP        float64
	NumPredict  int
}

// CompletionClient is the adapter for the secondary, self-hosted completion
// provider. Responses are requested with a JSON format hint.
type CompletionClient interface {
	GenerateCompletion(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
