// Package domain contains the core business entities and value objects.
package domain

import "time"

// Status classifies the outcome of one provider invocation.
type Status string

const (
	// StatusOK means the provider returned a completion.
	StatusOK Status = "ok"

	// StatusAuthError means the credential was rejected (HTTP 401/403).
	StatusAuthError Status = "auth_error"

	// StatusQuotaError means a rate or usage limit was exceeded (HTTP 429,
	// Anthropic 529 "overloaded", Gemini RESOURCE_EXHAUSTED).
	StatusQuotaError Status = "quota_error"

	// StatusNetworkError means a transport-level failure (DNS, connection
	// reset) or an unclassified server-side error.
	StatusNetworkError Status = "network_error"

	// StatusTimeout means no response arrived within the call deadline.
	StatusTimeout Status = "timeout"
)

// IsRecoverable reports whether the status permits a backup-key retry.
// Only credential and quota rejections qualify; network failures and
// timeouts are terminal for the attempt.
func (s Status) IsRecoverable() bool {
	return s == StatusAuthError || s == StatusQuotaError
}

// InvocationResult is the normalized outcome of one provider call.
// It is immutable once produced; failures are captured as data rather
// than propagated as errors.
type InvocationResult struct {
	// Provider is the name of the provider that was invoked.
	Provider ProviderType `json:"provider"`

	// Status classifies the outcome.
	Status Status `json:"status"`

	// Text is the completion text, present iff Status is ok. It is the
	// provider's response verbatim, with no post-processing.
	Text string `json:"text,omitempty"`

	// Latency is the wall-clock duration of the invocation, including
	// the backup retry when one occurred.
	Latency time.Duration `json:"latency"`

	// KeyUsed records which credential slot produced the final outcome.
	KeyUsed KeySlot `json:"key_used"`

	// Detail carries a redacted diagnostic message for non-ok results.
	Detail string `json:"detail,omitempty"`
}

// OK reports whether the invocation produced a completion.
func (r InvocationResult) OK() bool {
	return r.Status == StatusOK
}

// ComparisonBatch holds the results of invoking all configured providers
// with a single prompt. It is created per submission and never persisted.
type ComparisonBatch struct {
	// Prompt is the user prompt sent to every provider.
	Prompt string `json:"prompt"`

	// SystemPrompt is the optional system instruction, empty when unset.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Results holds exactly one entry per attempted provider, in the
	// same order as the input configuration.
	Results []InvocationResult `json:"results"`

	// StartedAt is when the batch began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total wall-clock time for the whole fan-out.
	Elapsed time.Duration `json:"elapsed"`
}

// SuccessCount returns how many providers answered with ok.
func (b ComparisonBatch) SuccessCount() int {
	n := 0
	for _, r := range b.Results {
		if r.OK() {
			n++
		}
	}
	return n
}
