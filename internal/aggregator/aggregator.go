// Package aggregator runs one prompt against every configured provider.
package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/promptarena/arena/internal/adapter"
	"github.com/promptarena/arena/internal/domain"
)

// ErrEmptyPrompt is returned when a batch is submitted with a blank prompt.
// The rejection happens before any network call is made.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// probePrompt is the minimal prompt used by connection checks.
const probePrompt = "Hello! Respond with just 'Connection successful!' to test."

// Entry pairs a provider config with its adapter.
type Entry struct {
	Config domain.ProviderConfig
	Client adapter.Client
}

// Aggregator fans one prompt out to every entry and fans the results back
// in. Entries are fixed at construction; batches share no state, so
// RunBatch is safe for concurrent use.
type Aggregator struct {
	entries     []Entry
	invoker     *Invoker
	logger      *slog.Logger
	maxTokens   int
	temperature float64
}

// Option is a functional option for configuring an Aggregator.
type Option func(*Aggregator)

// WithInvoker replaces the default invoker. Useful for tuning the
// per-call timeout.
func WithInvoker(inv *Invoker) Option {
	return func(a *Aggregator) {
		if inv != nil {
			a.invoker = inv
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// WithGeneration sets the generation parameters applied to every provider
// call. Zero values fall back to the adapter defaults.
func WithGeneration(maxTokens int, temperature float64) Option {
	return func(a *Aggregator) {
		a.maxTokens = maxTokens
		a.temperature = temperature
	}
}

// New creates an Aggregator over the given entries. Entry order is the
// result order of every batch.
func New(entries []Entry, opts ...Option) *Aggregator {
	a := &Aggregator{
		entries: entries,
		invoker: NewInvoker(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// NewFromConfigs builds the adapter for each config and creates an
// Aggregator over them. adapterOpts apply to every adapter on top of the
// config's base URL; pass the configured call timeout here so the HTTP
// client does not cut calls short of the invoker's deadline. Configs are
// expected to be pre-filtered: every config must be usable (at least one
// key) and of a known provider type.
func NewFromConfigs(configs []domain.ProviderConfig, adapterOpts []adapter.Option, opts ...Option) (*Aggregator, error) {
	entries := make([]Entry, 0, len(configs))
	for _, cfg := range configs {
		client, err := adapter.New(cfg, adapterOpts...)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Config: cfg, Client: client})
	}
	return New(entries, opts...), nil
}

// Providers returns the configs of all entries, in batch order.
func (a *Aggregator) Providers() []domain.ProviderConfig {
	configs := make([]domain.ProviderConfig, len(a.entries))
	for i, e := range a.entries {
		configs[i] = e.Config
	}
	return configs
}

// RunBatch invokes every provider with the prompt, concurrently, and
// returns one result per entry in entry order. A provider failure never
// drops or reorders another provider's result; the only error this method
// returns is prompt validation, raised before any network call.
func (a *Aggregator) RunBatch(ctx context.Context, prompt, systemPrompt string) (domain.ComparisonBatch, error) {
	if strings.TrimSpace(prompt) == "" {
		return domain.ComparisonBatch{}, ErrEmptyPrompt
	}

	batch := domain.ComparisonBatch{
		Prompt:       prompt,
		SystemPrompt: systemPrompt,
		Results:      make([]domain.InvocationResult, len(a.entries)),
		StartedAt:    time.Now(),
	}

	req := adapter.Request{
		Prompt:       prompt,
		SystemPrompt: systemPrompt,
		MaxTokens:    a.maxTokens,
		Temperature:  a.temperature,
	}

	// Fan-out one goroutine per provider. The group is joined before the
	// batch is returned; a hung call is cut by the invoker's per-call
	// timeout rather than by cancelling siblings.
	var g errgroup.Group
	for i, entry := range a.entries {
		i, entry := i, entry
		g.Go(func() error {
			batch.Results[i] = a.invoker.Invoke(ctx, entry.Client, entry.Config, req)
			return nil
		})
	}
	_ = g.Wait() // invocations never return errors; failures are results

	batch.Elapsed = time.Since(batch.StartedAt)

	a.logger.Info("batch completed",
		slog.Int("providers", len(batch.Results)),
		slog.Int("succeeded", batch.SuccessCount()),
		slog.Duration("elapsed", batch.Elapsed),
	)

	return batch, nil
}

// ConnectionCheck probes every provider with a minimal prompt and returns
// the resulting batch. Used by the -check flag and interactive mode.
func (a *Aggregator) ConnectionCheck(ctx context.Context) domain.ComparisonBatch {
	batch, _ := a.RunBatch(ctx, probePrompt, "")
	return batch
}
