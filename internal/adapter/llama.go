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
	// DefaultLlamaBaseURL is the default Meta Llama API endpoint.
	DefaultLlamaBaseURL = "https://api.llama.com/v1"

	// DefaultLlamaModel is used when no model is configured.
	DefaultLlamaModel = "Llama-4-Maverick-17B-128E-Instruct-FP8"
)

// LlamaAdapter implements Client for Meta's Llama API, which speaks an
// OpenAI-compatible wire format. Some deployments return the completion in
// choices[].text instead of choices[].message.content; FirstText accepts both.
type LlamaAdapter struct {
	core
	model string
}

// NewLlamaAdapter creates a new LlamaAdapter for the given model.
func NewLlamaAdapter(model string, opts ...Option) *LlamaAdapter {
	if model == "" {
		model = DefaultLlamaModel
	}

	a := &LlamaAdapter{
		core:  newCore(DefaultLlamaBaseURL),
		model: model,
	}
	a.apply(opts)

	return a
}

// Name returns the provider identifier.
func (a *LlamaAdapter) Name() domain.ProviderType {
	return domain.ProviderMeta
}

// Complete sends a chat completion request authenticated with apiKey and
// returns the first choice's text.
func (a *LlamaAdapter) Complete(ctx context.Context, apiKey string, req Request) (Completion, error) {
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
		return Completion{}, parseChatError(domain.ProviderMeta, status, body)
	}

	var wireResp ChatCompletionResponse
	if err := json.Unmarshal(body, &wireResp); err != nil {
		return Completion{}, fmt.Errorf("failed to unmarshal llama response: %w", err)
	}

	text, ok := wireResp.FirstText()
	if !ok {
		return Completion{}, fmt.Errorf("llama response had an unexpected choice format")
	}

	return Completion{
		Text:  text,
		Model: wireResp.Model,
		Usage: wireResp.Usage,
	}, nil
}
