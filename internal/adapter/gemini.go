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
	// DefaultGeminiBaseURL is the default Gemini API endpoint.
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultGeminiModel is used when no model is configured.
	DefaultGeminiModel = "gemini-1.5-pro"
)

// GeminiAdapter implements Client for Google's Gemini generateContent API.
// Gemini authenticates with the key as a query parameter; the key is
// stripped from every diagnostic path so it cannot leak into errors.
type GeminiAdapter struct {
	core
	model string
}

// NewGeminiAdapter creates a new GeminiAdapter for the given model.
func NewGeminiAdapter(model string, opts ...Option) *GeminiAdapter {
	if model == "" {
		model = DefaultGeminiModel
	}

	g := &GeminiAdapter{
		core:  newCore(DefaultGeminiBaseURL),
		model: model,
	}
	g.apply(opts)

	return g
}

// Name returns the provider identifier.
func (g *GeminiAdapter) Name() domain.ProviderType {
	return domain.ProviderGoogle
}

// Complete sends a generateContent request authenticated with apiKey and
// returns the first candidate's text.
func (g *GeminiAdapter) Complete(ctx context.Context, apiKey string, req Request) (Completion, error) {
	req = req.withDefaults()
	wireReq := g.mapToGeminiRequest(req)

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, apiKey)

	status, body, err := postJSON(ctx, g.httpClient, url, nil, wireReq)
	if err != nil {
		// Transport errors from the http package echo the request URL,
		// which carries the key. Scrub before returning.
		return Completion{}, scrubKey(err, apiKey)
	}

	if status != http.StatusOK {
		return Completion{}, parseGeminiError(status, body)
	}

	var wireResp geminiResponse
	if err := json.Unmarshal(body, &wireResp); err != nil {
		return Completion{}, fmt.Errorf("failed to unmarshal gemini response: %w", err)
	}

	text, ok := wireResp.FirstText()
	if !ok {
		return Completion{}, fmt.Errorf("gemini response contained no candidates")
	}

	completion := Completion{
		Text:  text,
		Model: g.model,
	}
	if wireResp.UsageMetadata != nil {
		completion.Usage = Usage{
			PromptTokens:     wireResp.UsageMetadata.PromptTokenCount,
			CompletionTokens: wireResp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      wireResp.UsageMetadata.TotalTokenCount,
		}
	}

	return completion, nil
}

// mapToGeminiRequest converts a generic request to Gemini format. The
// system prompt maps to systemInstruction rather than a conversation turn.
func (g *GeminiAdapter) mapToGeminiRequest(req Request) geminiRequest {
	wireReq := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: req.Prompt}},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     req.Temperature,
		},
	}

	if req.SystemPrompt != "" {
		wireReq.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.SystemPrompt}},
		}
	}

	return wireReq
}

// scrubbedError carries a sanitized message while keeping the original
// error wrapped, so errors.Is still sees context.DeadlineExceeded and the
// like through the chain.
type scrubbedError struct {
	msg   string
	cause error
}

func (e *scrubbedError) Error() string { return e.msg }

func (e *scrubbedError) Unwrap() error { return e.cause }

// scrubKey removes the API key from an error message. Needed because
// net/http transport errors include the full request URL.
func scrubKey(err error, apiKey string) error {
	if err == nil || apiKey == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), apiKey, "[REDACTED]")
	return &scrubbedError{msg: msg, cause: err}
}

// ============================================================================
// Gemini API types
// ============================================================================

// geminiRequest represents a Gemini generateContent request.
type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig,omitempty"`
}

// geminiContent represents a content block in Gemini format.
type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

// geminiPart represents a part of a content block.
type geminiPart struct {
	Text string `json:"text,omitempty"`
}

// geminiGenerationConfig contains generation parameters.
type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// geminiResponse represents a Gemini generateContent response.
type geminiResponse struct {
	Candidates    []geminiCandidate    `json:"candidates"`
	UsageMetadata *geminiUsageMetadata `json:"usageMetadata,omitempty"`
}

// geminiCandidate represents a single generated candidate.
type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
	Index        int           `json:"index"`
}

// geminiUsageMetadata contains token usage information.
type geminiUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// FirstText returns the text of the first candidate's first part.
func (r geminiResponse) FirstText() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", false
	}
	return parts[0].Text, true
}

// geminiErrorResponse represents an error response from the Gemini API.
type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// parseGeminiError converts a non-2xx response into an APIError. The
// google status string (e.g. RESOURCE_EXHAUSTED) is preserved in the
// message for classification.
func parseGeminiError(status int, body []byte) error {
	var envelope geminiErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		msg := envelope.Error.Message
		if envelope.Error.Status != "" {
			msg = envelope.Error.Status + ": " + msg
		}
		return &APIError{Provider: domain.ProviderGoogle, StatusCode: status, Message: msg}
	}
	return &APIError{Provider: domain.ProviderGoogle, StatusCode: status, Message: string(body)}
}
