// Package ollama provides the secondary, self-hosted completion provider
// adapter used for generation fallback and for the code-model validation
// stage.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/ongoza/cyberhub/internal/infrastructure/config"
	"github.com/ongoza/cyberhub/internal/ports/outbound"
	apperrors "github.com/ongoza/cyberhub/pkg/errors"
	"go.uber.org/zap"
)

const providerName = "ollama"

// Client implements the CompletionClient interface using the Ollama API
type Client struct {
	endpoint     string
	defaultModel string
	temperature  float64
	topP         float64
	numPredict   int
	client       *http.Client
	logger       *zap.Logger
}

// NewClient creates a new Ollama client from explicit configuration
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		endpoint:     cfg.OllamaEndpoint,
		defaultModel: cfg.OllamaModel,
		temperature:  cfg.Temperature,
		topP:         cfg.TopP,
		numPredict:   cfg.NumPredict,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("ollama-client"),
	}
}

// Ollama API structures
type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Format  string                 `json:"format,omitempty"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type generateResponse struct {
	Model         string `json:"model"`
	Response      string `json:"response"`
	Done          bool   `json:"done"`
	TotalDuration int64  `json:"total_duration,omitempty"`
	EvalCount     int    `json:"eval_count,omitempty"`
	EvalDuration  int64  `json:"eval_duration,omitempty"`
}

// GenerateCompletion sends a single /api/generate request with a JSON format
// hint and returns the raw response text
func (c *Client) GenerateCompletion(ctx context.Context, prompt string, opts outbound.GenerateOptions) (string, error) {
	if c.endpoint == "" {
		return "", apperrors.NewConfigError("ai.ollama_endpoint")
	}

	model := opts.Model
	if model == "" {
		model = c.defaultModel
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	topP := opts.TopP
	if topP == 0 {
		topP = c.topP
	}
	numPredict := opts.NumPredict
	if numPredict == 0 {
		numPredict = c.numPredict
	}

	reqBody := generateRequest{
		Model:  model,
		Prompt: prompt,
		Format: "json",
		Stream: false,
		Options: map[string]interface{}{
			"temperature": temperature,
			"top_p":       topP,
			"num_predict": numPredict,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to marshal generate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to create generate request")
	}

	req.Header.Set("Content-Type", "application/json")

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

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", apperrors.NewParseError(providerName, err)
	}

	c.logger.Debug("generate completion successful",
		zap.String("model", genResp.Model),
		zap.Int("eval_count", genResp.EvalCount),
	)

	return strings.TrimSpace(genResp.Response), nil
}

// HealthCheck verifies the Ollama service is reachable
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/tags", nil)
	if err != nil {
		return apperrors.Wrap(err, "failed to create health check request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.NewProviderUnreachableError(providerName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewProviderError(providerName, resp.StatusCode, "")
	}

	return nil
}
