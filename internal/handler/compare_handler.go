// Package handler provides the HTTP surface for the arena.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promptarena/arena/internal/aggregator"
	"github.com/promptarena/arena/internal/domain"
)

// CompareHandler exposes the aggregator over HTTP.
type CompareHandler struct {
	agg    *aggregator.Aggregator
	logger *slog.Logger
}

// CompareHandlerOption is a functional option for configuring CompareHandler.
type CompareHandlerOption func(*CompareHandler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) CompareHandlerOption {
	return func(h *CompareHandler) {
		h.logger = logger
	}
}

// NewCompareHandler creates a new CompareHandler.
func NewCompareHandler(agg *aggregator.Aggregator, opts ...CompareHandlerOption) *CompareHandler {
	h := &CompareHandler{
		agg:    agg,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// compareRequest is the POST /v1/compare request body.
type compareRequest struct {
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// HandleCompare handles POST /v1/compare: runs one batch across all
// configured providers and returns it, including failed entries. Partial
// failure is not an HTTP error; the caller decides how to present it.
func (h *CompareHandler) HandleCompare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid_request_error", "Invalid request body: "+err.Error())
		return
	}

	batch, err := h.agg.RunBatch(c.Request.Context(), req.Prompt, req.SystemPrompt)
	if err != nil {
		if errors.Is(err, aggregator.ErrEmptyPrompt) {
			h.sendError(c, http.StatusBadRequest, "invalid_request_error", "prompt is required")
			return
		}
		h.logger.Error("batch failed", slog.String("error", err.Error()))
		h.sendError(c, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	c.JSON(http.StatusOK, batch)
}

// providerInfo is the public view of a provider config; key material is
// never serialized.
type providerInfo struct {
	Name         domain.ProviderType `json:"name"`
	Model        string              `json:"model"`
	HasBackupKey bool                `json:"has_backup_key"`
}

// HandleProviders handles GET /v1/providers.
func (h *CompareHandler) HandleProviders(c *gin.Context) {
	configs := h.agg.Providers()
	infos := make([]providerInfo, len(configs))
	for i, cfg := range configs {
		infos[i] = providerInfo{
			Name:         cfg.Name,
			Model:        cfg.Model,
			HasBackupKey: cfg.HasBackupKey(),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   infos,
	})
}

// HandleHealth handles GET /health.
func (h *CompareHandler) HandleHealth(c *gin.Context) {
	providers := len(h.agg.Providers())

	status := "healthy"
	if providers == 0 {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"providers": providers,
	})
}

// sendError sends an error response in a uniform envelope.
func (h *CompareHandler) sendError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"message": message,
			"type":    errType,
		},
	})
}
