// Package config resolves the application configuration from .env files,
// environment variables, and an optional config.yaml using Viper. The
// resolved Configuration is an explicit immutable value handed to the
// aggregator at construction; there is no process-wide singleton.
package config

import (
	"fmt"

	"github.com/promptarena/arena/internal/domain"
)

// Configuration holds all application configuration values. It is built
// once at startup and read-only thereafter.
type Configuration struct {
	// Server configuration for -serve mode.
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Request holds per-invocation generation and timeout settings.
	Request RequestConfig `json:"request" mapstructure:"request"`

	// Providers is the ordered provider set; batch result order follows it.
	Providers []domain.ProviderConfig `json:"providers" mapstructure:"-"`

	// Logging configuration.
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the server bind address.
	Host string `json:"host" mapstructure:"host"`

	// Port is the server port number.
	Port int `json:"port" mapstructure:"port"`

	// ReadTimeoutSeconds is the maximum duration for reading a request.
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`

	// WriteTimeoutSeconds is the maximum duration for writing a response.
	// Must exceed the per-call timeout or slow providers get cut off.
	WriteTimeoutSeconds int `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`

	// ShutdownTimeoutSeconds bounds the graceful shutdown wait.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

// RequestConfig holds generation parameters applied to every provider call.
type RequestConfig struct {
	// MaxTokens caps the completion length.
	MaxTokens int `json:"max_tokens" mapstructure:"max_tokens"`

	// Temperature controls randomness.
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// CallTimeoutSeconds is the per-provider call deadline; a call past
	// it is classified as timeout without blocking the rest of the batch.
	CallTimeoutSeconds int `json:"call_timeout_seconds" mapstructure:"call_timeout_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" mapstructure:"level"`

	// Format is the log format (json, text).
	Format string `json:"format" mapstructure:"format"`
}

// Validate checks the configuration and returns a ValidationError listing
// every problem found.
func (c *Configuration) Validate() error {
	var validationErrors []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		validationErrors = append(validationErrors, "server.port must be between 1 and 65535")
	}

	if c.Request.MaxTokens <= 0 {
		validationErrors = append(validationErrors, "request.max_tokens must be positive")
	}

	if c.Request.CallTimeoutSeconds <= 0 {
		validationErrors = append(validationErrors, "request.call_timeout_seconds must be positive")
	}

	seen := make(map[domain.ProviderType]bool)
	for i, provider := range c.Providers {
		if seen[provider.Name] {
			validationErrors = append(validationErrors, fmt.Sprintf("providers[%d]: duplicate provider %q", i, provider.Name))
		}
		seen[provider.Name] = true

		if !provider.IsValid() {
			validationErrors = append(validationErrors, fmt.Sprintf("providers[%d] (%s): name, model, and base_url are required", i, provider.Name))
		}
	}

	if c.Logging.Level != "" && !isValidLogLevel(c.Logging.Level) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level '%s' is invalid, must be one of: debug, info, warn, error",
			c.Logging.Level,
		))
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}

// isValidLogLevel checks if the log level is valid.
func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// ActiveProviders returns the providers that will be attempted: enabled
// and holding at least one credential. A provider missing every key is a
// startup-time exclusion, never a synthetic failure entry in a batch.
func (c *Configuration) ActiveProviders() []domain.ProviderConfig {
	active := make([]domain.ProviderConfig, 0, len(c.Providers))
	for _, p := range c.Providers {
		if p.Enabled && p.Usable() {
			active = append(active, p)
		}
	}
	return active
}

// ExcludedProviders returns the providers left out of batches, for the
// startup key-status report.
func (c *Configuration) ExcludedProviders() []domain.ProviderConfig {
	excluded := make([]domain.ProviderConfig, 0)
	for _, p := range c.Providers {
		if !p.Enabled || !p.Usable() {
			excluded = append(excluded, p)
		}
	}
	return excluded
}
