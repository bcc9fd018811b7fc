package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/reeljournal/reeljournal/internal/container"
	"github.com/reeljournal/reeljournal/pkg/config"
	"github.com/reeljournal/reeljournal/pkg/logger"
)

const readinessInterval = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg := config.NewJournalConfig()
	if err := config.LoadServiceConfig("journal", cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	zl, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := zl.Zap()
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("journal service failed", zap.Error(err))
	}
}

func run(cfg *config.JournalConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("journal service starting",
		zap.String("version", config.GetServiceVersion(&cfg.Service)),
		zap.String("environment", cfg.Service.Environment),
		zap.String("database", cfg.Database.Driver),
		zap.String("events", cfg.Events.Driver),
		zap.String("storage", cfg.Storage.Type))

	app, cleanup, err := container.InitializeJournal(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	errCh := make(chan error, 2)

	httpServer := &http.Server{
		Addr:              config.GetListenAddress(&cfg.Service),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cfg.Service.GRPCPort > 0 {
		lis, err := net.Listen("tcp", config.GetGRPCListenAddress(&cfg.Service))
		if err != nil {
			return fmt.Errorf("failed to listen for gRPC: %w", err)
		}
		go func() {
			if err := app.GRPC.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
		go app.GRPC.WatchReadiness(ctx, app.Health.Check, readinessInterval)
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("server stopped unexpectedly", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", zap.Error(err))
	}
	app.GRPC.Stop(shutdownCtx)

	log.Info("journal service stopped")
	return nil
}

func initLogger(cfg *config.JournalConfig) (*logger.ZapLogger, error) {
	lc := logger.DefaultConfig()
	if cfg.Logger.Development {
		lc = logger.DevelopmentConfig()
	}
	if cfg.Logger.Level != "" {
		lc.Level = cfg.Logger.Level
	}
	if cfg.Logger.Format != "" {
		lc.Encoding = cfg.Logger.Format
	}
	if cfg.Logger.OutputPath != "" {
		lc.OutputPaths = []string{cfg.Logger.OutputPath}
	}
	lc.InitialFields = map[string]interface{}{
		"service": cfg.Service.Name,
	}
	return logger.NewFromConfig(lc)
}
