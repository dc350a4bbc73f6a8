// Package security provides credential leakage prevention for logs and
// diagnostics. Every API key format used by the configured providers has a
// matching pattern here; Redact is applied to all diagnostic text that
// could echo a credential.
package security

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// RedactedPlaceholder replaces sensitive data in diagnostic output.
const RedactedPlaceholder = "[REDACTED]"

// keyPatterns matches the key formats of the supported providers.
var keyPatterns = []*regexp.Regexp{
	// Anthropic keys: sk-ant-... (must precede the generic sk- pattern)
	regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]{20,}`),
	// OpenAI and Llama keys: sk-... / LLM|... style bearer values
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),
	// Google AI keys: AIza...
	regexp.MustCompile(`AIza[a-zA-Z0-9_-]{30,}`),
	// Bearer tokens embedded in header dumps
	regexp.MustCompile(`Bearer\s+[a-zA-Z0-9_.|-]{20,}`),
	// Keys leaked through Gemini-style query params: key=...
	regexp.MustCompile(`key=[a-zA-Z0-9_-]{20,}`),
	// Generic long opaque strings that look like credentials
	regexp.MustCompile(`[a-zA-Z0-9_-]{40,}`),
}

// sensitiveAttrKeys marks slog attribute keys whose values are always redacted.
var sensitiveAttrKeys = []string{
	"authorization",
	"api_key",
	"apikey",
	"api-key",
	"secret",
	"password",
	"token",
	"bearer",
	"credential",
	"primary_key",
	"backup_key",
}

// Redact scans a string for credential patterns and replaces them.
// This is the primary function for sanitizing diagnostic output.
func Redact(s string) string {
	result := s
	for _, pattern := range keyPatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// MaskKey returns a masked version of an API key for logging, showing the
// first four and last four characters. Short keys are fully masked.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 12 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// RedactedHandler wraps an slog.Handler and redacts credentials from every
// log record before it reaches the inner handler.
type RedactedHandler struct {
	inner slog.Handler
}

// NewRedactedHandler creates a handler that wraps an existing handler and
// redacts sensitive data from all log output.
func NewRedactedHandler(inner slog.Handler) *RedactedHandler {
	return &RedactedHandler{inner: inner}
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle processes a log record, redacting the message and attributes.
func (h *RedactedHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.Record{
		Time:    r.Time,
		Message: Redact(r.Message),
		Level:   r.Level,
		PC:      r.PC,
	}

	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(redactAttr(a))
		return true
	})

	return h.inner.Handle(ctx, clean)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *RedactedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactedHandler{inner: h.inner.WithAttrs(redacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactedHandler) WithGroup(name string) slog.Handler {
	return &RedactedHandler{inner: h.inner.WithGroup(name)}
}

// redactAttr redacts sensitive data from a single attribute.
func redactAttr(a slog.Attr) slog.Attr {
	if isSensitiveAttrKey(strings.ToLower(a.Key)) {
		return slog.String(a.Key, RedactedPlaceholder)
	}

	switch v := a.Value.Any().(type) {
	case string:
		return slog.String(a.Key, Redact(v))
	case []string:
		redacted := make([]string, len(v))
		for i, s := range v {
			redacted[i] = Redact(s)
		}
		return slog.Any(a.Key, redacted)
	}

	return a
}

// isSensitiveAttrKey checks if an attribute key is known to carry credentials.
func isSensitiveAttrKey(key string) bool {
	for _, k := range sensitiveAttrKeys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}
