// Package grok provides the primary chat-completion provider adapter for a
// Grok-compatible API (OpenAI-style /chat/completions with bearer auth).
package grok

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/ongoza/cyberhub/internal/infrastructure/config"
	"github.com/ongoza/cyberhub/internal/ports/outbound"
	apperrors "github.com/ongoza/cyberhub/pkg/errors"
	"go.uber.org/zap"
)

const providerName = "grok"

// Client implements the ChatClient interface against a Grok-compatible API
type Client struct {
	apiKey       string
	baseURL      string
	defaultModel string
	temperature  float64
	maxTokens    int
	client       *http.Client
	logger       *zap.Logger
}

// NewClient creates a new Grok client. The credential and base URL come from
// explicit configuration rather than process-wide state so tests can inject
// fakes.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		apiKey:       cfg.GrokAPIKey,
		baseURL:      cfg.GrokBaseURL,
		defaultModel: cfg.GrokModel,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("grok-client"),
	}
}

// Grok API structures
type chatCompletionRequest struct {
	Model       string                 `json:"model"`
	Messages    []outbound.ChatMessage `json:"messages"`
	Temperature float64                `json:"temperature"`
	MaxTokens   int                    `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Message      outbound.ChatMessage `json:"message"`
	FinishReason string               `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletion sends a single chat-completion request and returns the
// assistant message content. No retries; a non-2xx status fails with a
// provider error carrying the status code and body.
func (c *Client) ChatCompletion(ctx context.Context, messages []outbound.ChatMessage, opts outbound.ChatOptions) (string, error) {
	if c.apiKey == "" {
		return "", apperrors.NewConfigError("ai.grok_api_key")
	}

	model := opts.Model
	if model == "" {
		model = c.defaultModel
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	reqBody := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to marshal chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to create chat request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.NewProviderUnreachableError(providerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewProviderUnreachableError(providerName, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewProviderError(providerName, resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", apperrors.NewParseError(providerName, err)
	}

	if len(chatResp.Choices) == 0 {
		return "", apperrors.NewParseError(providerName, errNoChoices)
	}

	c.logger.Debug("chat completion successful",
		zap.String("model", model),
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}
