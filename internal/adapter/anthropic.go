// Package adapter provides implementations for external AI provider integrations.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/promptarena/arena/internal/domain"
)

const (
	// DefaultAnthropicBaseURL is the default Anthropic Messages API endpoint.
	DefaultAnthropicBaseURL = "https://api.anthropic.com/v1"

	// DefaultAnthropicModel is used when no model is configured.
	DefaultAnthropicModel = "claude-3-5-sonnet-20241022"

	// anthropicVersion pins the Messages API wire format.
	anthropicVersion = "2023-06-01"
)

// AnthropicAdapter implements Client for Anthropic's Messages API.
// Anthropic authenticates with an x-api-key header rather than a Bearer
// token, and takes the system prompt as a top-level field.
type AnthropicAdapter struct {
	core
	model string
}

// NewAnthropicAdapter creates a new AnthropicAdapter for the given model.
func NewAnthropicAdapter(model string, opts ...Option) *AnthropicAdapter {
	if model == "" {
		model = DefaultAnthropicModel
	}

	a := &AnthropicAdapter{
		core:  newCore(DefaultAnthropicBaseURL),
		model: model,
	}
	a.apply(opts)

	return a
}

// Name returns the provider identifier.
func (a *AnthropicAdapter) Name() domain.ProviderType {
	return domain.ProviderAnthropic
}

// Complete sends a Messages API request authenticated with apiKey and
// returns the concatenated text blocks of the response.
func (a *AnthropicAdapter) Complete(ctx context.Context, apiKey string, req Request) (Completion, error) {
	req = req.withDefaults()

	wireReq := anthropicRequest{
		Model:       a.model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		System:      req.SystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt},
		},
	}

	headers := map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": anthropicVersion,
	}

	status, body, err := postJSON(ctx, a.httpClient, a.baseURL+"/messages", headers, wireReq)
	if err != nil {
		return Completion{}, err
	}

	if status != http.StatusOK {
		return Completion{}, parseAnthropicError(status, body)
	}

	var wireResp anthropicResponse
	if err := json.Unmarshal(body, &wireResp); err != nil {
		return Completion{}, fmt.Errorf("failed to unmarshal anthropic response: %w", err)
	}

	text := wireResp.JoinedText()
	if text == "" {
		return Completion{}, fmt.Errorf("anthropic response contained no text blocks")
	}

	return Completion{
		Text:  text,
		Model: wireResp.Model,
		Usage: Usage{
			PromptTokens:     wireResp.Usage.InputTokens,
			CompletionTokens: wireResp.Usage.OutputTokens,
			TotalTokens:      wireResp.Usage.InputTokens + wireResp.Usage.OutputTokens,
		},
	}, nil
}

// ============================================================================
// Anthropic Messages API types
// ============================================================================

// anthropicRequest represents a Messages API request.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

// anthropicMessage represents a single conversation turn.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicContentBlock is one block of a structured response.
type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// anthropicUsage contains Anthropic's token accounting.
type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// anthropicResponse represents a Messages API response.
type anthropicResponse struct {
	ID         string                  `json:"id"`
	Model      string                  `json:"model"`
	StopReason string                  `json:"stop_reason"`
	Content    []anthropicContentBlock `json:"content"`
	Usage      anthropicUsage          `json:"usage"`
}

// JoinedText concatenates all text blocks of the response.
func (r anthropicResponse) JoinedText() string {
	var sb strings.Builder
	for _, block := range r.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}

// anthropicErrorResponse is Anthropic's error envelope.
type anthropicErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// parseAnthropicError converts a non-2xx response into an APIError. The
// "overloaded_error" type is reported with status 529 even when the HTTP
// status differs, so classification treats it as a quota rejection.
func parseAnthropicError(status int, body []byte) error {
	var envelope anthropicErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		if envelope.Error.Type == "overloaded_error" {
			status = anthropicOverloaded
		}
		return &APIError{Provider: domain.ProviderAnthropic, StatusCode: status, Message: envelope.Error.Message}
	}
	return &APIError{Provider: domain.ProviderAnthropic, StatusCode: status, Message: string(body)}
}
