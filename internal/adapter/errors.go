// Package adapter provides implementations for external AI provider integrations.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/promptarena/arena/internal/domain"
)

// APIError represents a non-2xx response from a provider API. The message
// is the provider's own error text; credentials never appear in it because
// adapters strip key material from URLs before reporting.
type APIError struct {
	// Provider identifies which adapter produced the error.
	Provider domain.ProviderType

	// StatusCode is the HTTP status returned by the provider.
	StatusCode int

	// Message is the provider-reported error message, if any.
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s API error [%d]", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s API error [%d]: %s", e.Provider, e.StatusCode, e.Message)
}

// anthropicOverloaded is Anthropic's non-standard status for a temporarily
// overloaded backend. Treated like a quota rejection so the backup-key
// retry policy applies.
const anthropicOverloaded = 529

// Classify maps an adapter error into the invocation status taxonomy:
//
//	401/403                      -> auth_error
//	429, 529, RESOURCE_EXHAUSTED -> quota_error
//	context deadline exceeded    -> timeout
//	anything else                -> network_error
//
// A nil error classifies as ok.
func Classify(err error) domain.Status {
	if err == nil {
		return domain.StatusOK
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.StatusTimeout
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.StatusAuthError
		case http.StatusTooManyRequests, anthropicOverloaded:
			return domain.StatusQuotaError
		}
		// Gemini reports quota exhaustion with its own status string.
		if strings.Contains(apiErr.Message, "RESOURCE_EXHAUSTED") {
			return domain.StatusQuotaError
		}
		return domain.StatusNetworkError
	}

	return domain.StatusNetworkError
}
