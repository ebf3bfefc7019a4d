package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/alienxp03/boardroom/internal/core"
)

// placeholderAPIKey is used when no credential is configured. Calls go out
// anyway and fail remotely with an authentication error.
const placeholderAPIKey = "dummy-key"

// maxResponseSize bounds the service response body (1MB).
const maxResponseSize = 1 * 1024 * 1024

// Settings holds the OpenAI-compatible service configuration, bound from
// the process environment.
type Settings struct {
	APIKey  string        `envconfig:"OPENAI_API_KEY"`
	BaseURL string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model   string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"OPENAI_TIMEOUT" default:"30s"`
}

// SettingsFromEnv loads settings from the environment.
func SettingsFromEnv() (Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return Settings{}, fmt.Errorf("failed to load provider settings: %w", err)
	}
	return s, nil
}

// OpenAIProvider talks to an OpenAI-compatible chat-completions endpoint.
type OpenAIProvider struct {
	name    string
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewOpenAI creates a provider for an OpenAI-compatible service.
func NewOpenAI(settings Settings) *OpenAIProvider {
	apiKey := settings.APIKey
	if apiKey == "" {
		slog.Warn("OpenAI API key is missing, AI features will not work")
		apiKey = placeholderAPIKey
	}

	timeout := settings.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIProvider{
		name:    "openai",
		baseURL: strings.TrimRight(settings.BaseURL, "/"),
		apiKey:  apiKey,
		model:   settings.Model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return p.name
}

// DisplayName returns the human-friendly name.
func (p *OpenAIProvider) DisplayName() string {
	return "OpenAI"
}

// DefaultModel returns the configured model.
func (p *OpenAIProvider) DefaultModel() string {
	return p.model
}

// Available reports whether the provider has an endpoint configured.
func (p *OpenAIProvider) Available() bool {
	return p.baseURL != ""
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []core.Message  `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends a chat-completion request and returns the assistant
// message text. Failures are returned as classified ServiceErrors.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	body := chatCompletionRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONResponse {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", Classify(p.name, fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", Classify(p.name, fmt.Errorf("failed to build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", Classify(p.name, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", Classify(p.name, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		detail := serviceErrorDetail(data)
		return "", Classify(p.name, fmt.Errorf("service returned %d: %s", resp.StatusCode, detail))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return "", Classify(p.name, fmt.Errorf("failed to parse response: %w", err))
	}

	if len(completion.Choices) == 0 {
		// Successful call, empty payload. The caller decides what to show.
		return "", nil
	}

	return completion.Choices[0].Message.Content, nil
}

// serviceErrorDetail extracts the error message from a failed response
// body, falling back to a truncated raw body.
func serviceErrorDetail(data []byte) string {
	var parsed chatCompletionResponse
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error != nil {
		return parsed.Error.Message
	}

	detail := string(data)
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return detail
}
