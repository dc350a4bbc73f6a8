// Package aggregator runs one prompt against every configured provider and
// assembles the results into a comparison batch. Failures are isolated per
// provider: a failed or hung call becomes a classified result, never an
// error that aborts the batch.
package aggregator

import (
	"context"
	"log/slog"
	"time"

	"github.com/promptarena/arena/internal/adapter"
	"github.com/promptarena/arena/internal/domain"
	"github.com/promptarena/arena/internal/security"
)

const (
	// DefaultCallTimeout bounds a single provider call, including the
	// backup-key retry when one occurs.
	DefaultCallTimeout = 60 * time.Second
)

// Invoker wraps one adapter call into an InvocationResult, applying the
// per-call timeout and the backup-key retry policy: a classified auth or
// quota failure on the primary credential triggers exactly one retry with
// the backup, when the config carries one. Network failures and timeouts
// are terminal.
type Invoker struct {
	timeout time.Duration
	logger  *slog.Logger
}

// InvokerOption is a functional option for configuring an Invoker.
type InvokerOption func(*Invoker)

// WithCallTimeout sets the per-call deadline.
func WithCallTimeout(timeout time.Duration) InvokerOption {
	return func(inv *Invoker) {
		if timeout > 0 {
			inv.timeout = timeout
		}
	}
}

// WithInvokerLogger sets a custom logger.
func WithInvokerLogger(logger *slog.Logger) InvokerOption {
	return func(inv *Invoker) {
		inv.logger = logger
	}
}

// NewInvoker creates an Invoker with the default call timeout.
func NewInvoker(opts ...InvokerOption) *Invoker {
	inv := &Invoker{
		timeout: DefaultCallTimeout,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(inv)
	}

	return inv
}

// Invoke calls the provider with the config's credential sequence and
// returns the normalized result. The config is never mutated. At most two
// outbound calls are made: primary, then backup on a recoverable failure.
func (inv *Invoker) Invoke(ctx context.Context, client adapter.Client, cfg domain.ProviderConfig, req adapter.Request) domain.InvocationResult {
	start := time.Now()
	creds := cfg.Credentials()
	if len(creds) == 0 {
		// Keyless configs are excluded at load time; this is a safety net.
		return domain.InvocationResult{
			Provider: cfg.Name,
			Status:   domain.StatusAuthError,
			KeyUsed:  domain.KeyPrimary,
			Detail:   "no credentials configured",
		}
	}

	var lastStatus domain.Status
	var lastDetail string
	keyUsed := domain.KeyPrimary

	for i, cred := range creds {
		keyUsed = cred.Slot

		callCtx, cancel := context.WithTimeout(ctx, inv.timeout)
		completion, err := client.Complete(callCtx, cred.Key, req)
		cancel()

		if err == nil {
			inv.logger.Debug("provider call succeeded",
				slog.String("provider", string(cfg.Name)),
				slog.String("key_slot", string(cred.Slot)),
				slog.Duration("latency", time.Since(start)),
			)
			return domain.InvocationResult{
				Provider: cfg.Name,
				Status:   domain.StatusOK,
				Text:     completion.Text,
				Latency:  time.Since(start),
				KeyUsed:  cred.Slot,
			}
		}

		lastStatus = adapter.Classify(err)
		lastDetail = security.Redact(err.Error())

		if lastStatus.IsRecoverable() && i+1 < len(creds) {
			inv.logger.Warn("credential rejected, switching to backup key",
				slog.String("provider", string(cfg.Name)),
				slog.String("status", string(lastStatus)),
				slog.String("key", security.MaskKey(cred.Key)),
			)
			continue
		}

		inv.logger.Warn("provider call failed",
			slog.String("provider", string(cfg.Name)),
			slog.String("status", string(lastStatus)),
			slog.String("key_slot", string(cred.Slot)),
			slog.String("detail", lastDetail),
		)
		break
	}

	return domain.InvocationResult{
		Provider: cfg.Name,
		Status:   lastStatus,
		Latency:  time.Since(start),
		KeyUsed:  keyUsed,
		Detail:   lastDetail,
	}
}
