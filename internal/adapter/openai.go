// Package adapter provides implementations for external AI provider integrations.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/promptarena/arena/internal/domain"
)

const (
	// DefaultOpenAIBaseURL is the default OpenAI API endpoint.
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	// DefaultOpenAIModel is used when no model is configured.
	DefaultOpenAIModel = "gpt-4"
)

// OpenAIAdapter implements Client for OpenAI's chat completions API.
type OpenAIAdapter struct {
	core
	model string
}

// NewOpenAIAdapter creates a new OpenAIAdapter for the given model.
func NewOpenAIAdapter(model string, opts ...Option) *OpenAIAdapter {
	if model == "" {
		model = DefaultOpenAIModel
	}

	a := &OpenAIAdapter{
		core:  newCore(DefaultOpenAIBaseURL),
		model: model,
	}
	a.apply(opts)

	return a
}

// Name returns the provider identifier.
func (a *OpenAIAdapter) Name() domain.ProviderType {
	return domain.ProviderOpenAI
}

// Complete sends a chat completion request authenticated with apiKey and
// returns the first choice's text.
func (a *OpenAIAdapter) Complete(ctx context.Context, apiKey string, req Request) (Completion, error) {
	req = req.withDefaults()

	wireReq := ChatCompletionRequest{
		Model:       a.model,
		Messages:    buildChatMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + apiKey,
	}

	status, body, err := postJSON(ctx, a.httpClient, a.baseURL+"/chat/completions", headers, wireReq)
	if err != nil {
		return Completion{}, err
	}

	if status != http.StatusOK {
		return Completion{}, parseChatError(domain.ProviderOpenAI, status, body)
	}

	var wireResp ChatCompletionResponse
	if err := json.Unmarshal(body, &wireResp); err != nil {
		return Completion{}, fmt.Errorf("failed to unmarshal openai response: %w", err)
	}

	text, ok := wireResp.FirstText()
	if !ok {
		return Completion{}, fmt.Errorf("openai response contained no choices")
	}

	return Completion{
		Text:  text,
		Model: wireResp.Model,
		Usage: wireResp.Usage,
	}, nil
}

// ============================================================================
// OpenAI-compatible wire types (shared with the Llama adapter)
// ============================================================================

// ChatMessage represents a single message in the conversation.
type ChatMessage struct {
	// Role is one of: "system", "user", "assistant".
	Role string `json:"role"`

	// Content is the message text content.
	Content string `json:"content"`
}

// ChatCompletionRequest represents an OpenAI-style chat completion request.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// ChatChoice represents a single completion choice. Some OpenAI-compatible
// hosts put the completion in message.content, others in a bare text field;
// both are accepted.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	Text         string      `json:"text,omitempty"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionResponse represents an OpenAI-style chat completion response.
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// FirstText returns the text of the first choice, handling both the
// message.content and bare text response shapes.
func (r ChatCompletionResponse) FirstText() (string, bool) {
	if len(r.Choices) == 0 {
		return "", false
	}
	if r.Choices[0].Message.Content != "" {
		return r.Choices[0].Message.Content, true
	}
	if r.Choices[0].Text != "" {
		return r.Choices[0].Text, true
	}
	return "", false
}

// chatErrorResponse is the OpenAI-style error envelope.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// buildChatMessages maps a generic Request to OpenAI-style messages, with
// the system prompt first when present.
func buildChatMessages(req Request) []ChatMessage {
	messages := make([]ChatMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: req.Prompt})
	return messages
}

// parseChatError converts a non-2xx OpenAI-style response into an APIError.
func parseChatError(provider domain.ProviderType, status int, body []byte) error {
	var envelope chatErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{Provider: provider, StatusCode: status, Message: envelope.Error.Message}
	}
	return &APIError{Provider: provider, StatusCode: status, Message: string(body)}
}
