// Package adapter provides implementations for external AI provider integrations.
// It uses the Adapter pattern to abstract provider-specific APIs behind a common interface.
package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/promptarena/arena/internal/domain"
)

const (
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxTokens caps the completion length when the request does not set one.
	DefaultMaxTokens = 400

	// DefaultTemperature is used when the request does not set one.
	DefaultTemperature = 0.7
)

// Client defines the interface for AI provider adapters.
// All provider implementations must satisfy this interface.
type Client interface {
	// Complete sends a single completion request authenticated with apiKey
	// and returns the provider's response normalized to a Completion.
	// The key is a parameter rather than adapter state so a caller can
	// re-issue the same request with a backup credential.
	Complete(ctx context.Context, apiKey string, req Request) (Completion, error)

	// Name returns the provider's identifier string.
	Name() domain.ProviderType
}

// Request is the provider-agnostic completion request. Each adapter
// translates it into the provider's native wire format.
type Request struct {
	// Prompt is the user prompt. Must be non-empty.
	Prompt string

	// SystemPrompt is an optional system instruction.
	SystemPrompt string

	// MaxTokens limits the completion length. Zero means DefaultMaxTokens.
	MaxTokens int

	// Temperature controls randomness. Zero means DefaultTemperature.
	Temperature float64
}

// withDefaults returns a copy of the request with zero-valued generation
// parameters replaced by the package defaults.
func (r Request) withDefaults() Request {
	if r.MaxTokens == 0 {
		r.MaxTokens = DefaultMaxTokens
	}
	if r.Temperature == 0 {
		r.Temperature = DefaultTemperature
	}
	return r
}

// Usage contains token usage statistics reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the normalized successful response from any provider.
type Completion struct {
	// Text is the completion text, verbatim.
	Text string

	// Model is the model identifier the provider reports having used.
	Model string

	// Usage holds token counts when the provider reports them.
	Usage Usage
}

// New constructs the adapter for a provider config. The returned Client
// carries the config's model and base URL; credentials stay with the
// caller and are passed per call.
func New(cfg domain.ProviderConfig, opts ...Option) (Client, error) {
	switch cfg.Name {
	case domain.ProviderOpenAI:
		return NewOpenAIAdapter(cfg.Model, append([]Option{WithBaseURL(cfg.BaseURL)}, opts...)...), nil
	case domain.ProviderAnthropic:
		return NewAnthropicAdapter(cfg.Model, append([]Option{WithBaseURL(cfg.BaseURL)}, opts...)...), nil
	case domain.ProviderGoogle:
		return NewGeminiAdapter(cfg.Model, append([]Option{WithBaseURL(cfg.BaseURL)}, opts...)...), nil
	case domain.ProviderMeta:
		return NewLlamaAdapter(cfg.Model, append([]Option{WithBaseURL(cfg.BaseURL)}, opts...)...), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Name)
	}
}
