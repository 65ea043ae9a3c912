package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	c, err := LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := newLogger(c.DevMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := NewAPIConfig(ctx, c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	logger.Debug("configuration loaded", "history_backend", c.HistoryBackend)

	if err := startServer(ctx, cfg, logger); err != nil {
		logger.Error("server startup failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// startServer runs the HTTP server for cfg and releases the history store on return.
func startServer(ctx context.Context, cfg *apiConfig, logger *slog.Logger) error {
	defer func() {
		if err := cfg.Close(); err != nil {
			logger.Warn("failed to close history store", "error", err)
		}
	}()

	server := &http.Server{
		Addr:              ":" + cfg.port,
		Handler:           cfg.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return run(ctx, server, logger)
}

// run serves until ctx is cancelled, then shuts the server down gracefully.
func run(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
