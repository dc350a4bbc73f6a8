// Package adapter provides implementations for external AI provider integrations.
package adapter

import (
	"net/http"
	"strings"
	"time"
)

// core holds the configuration shared by every adapter: the endpoint base
// and the HTTP client. Adapters embed it so the functional options below
// apply uniformly.
type core struct {
	baseURL    string
	httpClient *http.Client
}

func newCore(defaultBaseURL string) core {
	return core{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Option is a functional option for configuring an adapter.
type Option func(*core)

// WithBaseURL sets a custom base URL for the provider API. An empty value
// keeps the adapter's default.
func WithBaseURL(url string) Option {
	return func(c *core) {
		if url != "" {
			c.baseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *core) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *core) {
		c.httpClient.Timeout = timeout
	}
}

func (c *core) apply(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}
