package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Reventlow/glass/internal/config"
	"github.com/Reventlow/glass/internal/sdp"
	"github.com/Reventlow/glass/internal/server"
	"github.com/Reventlow/glass/internal/telemetry"
	"github.com/Reventlow/glass/internal/tools"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Logs go to stderr as JSON; stdout is reserved for trace export.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	shutdownTracer, err := telemetry.InitTracer("glass", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	client := sdp.NewClient(cfg, sdp.WithLogger(logger))

	// A failed probe is logged but does not block startup; the
	// instance may simply not be reachable yet.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 35*time.Second)
	if err := client.TestConnection(probeCtx); err != nil {
		logger.Warn("connection test failed, starting anyway",
			slog.String("error", err.Error()))
	}
	probeCancel()

	service := tools.NewService(client, logger)

	srv := server.New(cfg.Server.Port, logger)
	service.Register(srv.Router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case <-sigChan:
		logger.Info("Shutdown signal received, stopping server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("Shutdown complete")
}
