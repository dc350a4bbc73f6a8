// Package main is the entry point for the arena CLI and server.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/promptarena/arena/internal/adapter"
	"github.com/promptarena/arena/internal/aggregator"
	"github.com/promptarena/arena/internal/config"
	"github.com/promptarena/arena/internal/handler"
	"github.com/promptarena/arena/internal/security"
	"github.com/promptarena/arena/internal/ui"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.yaml (optional)")
		serve      = flag.Bool("serve", false, "run the HTTP server instead of the CLI")
		check      = flag.Bool("check", false, "test the connection to every provider and exit")
		prompt     = flag.String("prompt", "", "run a single prompt and exit")
		system     = flag.String("system", "", "system prompt applied to every provider")
	)
	flag.Parse()

	// =========================================================================
	// 1. Load configuration
	// =========================================================================
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// 2. Setup structured logger with credential redaction
	// =========================================================================
	logger := setupLogger(cfg.Logging)

	active := cfg.ActiveProviders()
	excluded := cfg.ExcludedProviders()

	logger.Info("starting arena",
		slog.Int("active_providers", len(active)),
		slog.Int("excluded_providers", len(excluded)),
	)

	// =========================================================================
	// 3. Build the aggregator over the usable providers
	// =========================================================================
	callTimeout := time.Duration(cfg.Request.CallTimeoutSeconds) * time.Second

	invoker := aggregator.NewInvoker(
		aggregator.WithCallTimeout(callTimeout),
		aggregator.WithInvokerLogger(logger),
	)

	// The HTTP client timeout must not undercut the invoker's deadline;
	// the context deadline is the one that classifies as timeout.
	agg, err := aggregator.NewFromConfigs(active,
		[]adapter.Option{adapter.WithTimeout(callTimeout + time.Second)},
		aggregator.WithInvoker(invoker),
		aggregator.WithLogger(logger),
		aggregator.WithGeneration(cfg.Request.MaxTokens, cfg.Request.Temperature),
	)
	if err != nil {
		logger.Error("failed to build providers", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// =========================================================================
	// 4. Dispatch to the selected mode
	// =========================================================================
	switch {
	case *serve:
		runServer(cfg, agg, logger)
	case *check:
		ui.PrintMiniBanner()
		ui.PrintKeyStatus(active, excluded)
		ui.PrintConnectionCheck(agg.ConnectionCheck(context.Background()))
	case *prompt != "":
		ui.PrintMiniBanner()
		runOnce(agg, *prompt, *system)
	default:
		ui.PrintBanner()
		ui.PrintKeyStatus(active, excluded)
		ui.PrintConnectionCheck(agg.ConnectionCheck(context.Background()))
		runInteractive(agg, *system)
	}
}

// runOnce runs a single prompt against every provider and renders the batch.
func runOnce(agg *aggregator.Aggregator, prompt, system string) {
	batch, err := agg.RunBatch(context.Background(), prompt, system)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	ui.PrintComparison(batch)
}

// runInteractive reads prompts from stdin until EOF or 'quit'. The 'test'
// command runs a connection check without leaving the session.
func runInteractive(agg *aggregator.Aggregator, system string) {
	fmt.Println("Type a prompt and press Enter. Commands: 'test' checks connections, 'quit' exits.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		ui.PrintPrompt()
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			ui.PrintShutdown()
			return
		case "test":
			ui.PrintConnectionCheck(agg.ConnectionCheck(context.Background()))
			continue
		}

		batch, err := agg.RunBatch(context.Background(), line, system)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		ui.PrintComparison(batch)
	}

	ui.PrintShutdown()
}

// runServer exposes the aggregator over HTTP with graceful shutdown.
func runServer(cfg *config.Configuration, agg *aggregator.Aggregator, logger *slog.Logger) {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	compareHandler := handler.NewCompareHandler(agg, handler.WithLogger(logger))

	router := gin.New()
	router.Use(handler.RecoveryMiddleware(logger))
	router.Use(handler.CORSMiddleware())
	router.Use(handler.LoggingMiddleware(logger))

	router.POST("/v1/compare", compareHandler.HandleCompare)
	router.GET("/v1/providers", compareHandler.HandleProviders)
	router.GET("/health", compareHandler.HandleHealth)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("address", addr))
		fmt.Printf("\nArena is running at http://%s\n", addr)
		fmt.Printf("   Endpoints:\n")
		fmt.Printf("   • POST /v1/compare   - Run one prompt across all providers\n")
		fmt.Printf("   • GET  /v1/providers - List configured providers\n")
		fmt.Printf("   • GET  /health       - Health check\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	ui.PrintShutdown()

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// setupLogger creates a structured logger from the logging config. Every
// record passes through the redacting handler so a leaked key never reaches
// the log stream.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if cfg.Format == "text" {
		inner = slog.NewTextHandler(os.Stderr, opts)
	} else {
		inner = slog.NewJSONHandler(os.Stderr, opts)
	}

	logger := slog.New(security.NewRedactedHandler(inner))
	slog.SetDefault(logger)

	return logger
}
