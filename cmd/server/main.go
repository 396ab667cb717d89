package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"marketingminer-mcp/server/internal/config"
	"marketingminer-mcp/server/internal/logging"
	"marketingminer-mcp/server/internal/mcp"
	"marketingminer-mcp/server/internal/middleware"
	"marketingminer-mcp/server/internal/modules"
	"marketingminer-mcp/server/internal/modules/marketingminer"
	"marketingminer-mcp/server/internal/observability"
	"marketingminer-mcp/server/pkg/marketingminerapi"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	shutdownTracing, err := observability.Setup(ctx, "marketing-miner-mcp", cfg.OTELEndpoint)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
		shutdownTracing = func(context.Context) error { return nil }
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	client := marketingminerapi.NewClient(cfg.APIBaseURL, cfg.APIToken, log)
	modules.RegisterModule(marketingminer.New(client))

	log.Info("registered modules", zap.Strings("modules", modules.ListModules()))
	if !client.HasToken() {
		log.Warn("MM_API_TOKEN is not set; tool calls will fail until a credential is provided")
	}

	handler := mcp.NewHandler(log)

	if cfg.Transport == config.TransportStdio {
		log.Info("serving MCP over stdio")
		if err := handler.ServeStdio(ctx, os.Stdin, os.Stdout); err != nil {
			log.Fatal("stdio transport failed", zap.Error(err))
		}
		return
	}

	runHTTP(cfg, log, handler, client)
}

// runHTTP serves the SSE/inline MCP endpoint plus a liveness check, and
// shuts down gracefully on SIGINT/SIGTERM.
func runHTTP(cfg config.Config, log *zap.Logger, handler *mcp.Handler, client *marketingminerapi.Client) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"ok"}`)
	})

	var mcpHandler http.Handler = middleware.Transport(handler, log)
	// Only the http variant accepts connection-level config injection.
	if cfg.Transport == config.TransportHTTP {
		mcpHandler = middleware.NewConfigInjector(client, log).Middleware(mcpHandler)
	}
	mux.Handle("/mcp", middleware.Recovery(mcpHandler, log))

	addr := cfg.ListenAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		log.Info("starting MCP server",
			zap.String("addr", addr),
			zap.String("transport", cfg.Transport))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	// Give in-flight requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
