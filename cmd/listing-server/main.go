// cmd/listing-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cpu-listings/internal/common/config"
	"cpu-listings/internal/common/database"
	"cpu-listings/internal/common/logger"
	"cpu-listings/internal/common/observability"
	"cpu-listings/internal/listings"
	"cpu-listings/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output).
		With(zap.String("service", cfg.App.Name), zap.String("environment", cfg.App.Environment))
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting listing server...", zap.String("version", cfg.App.Version))

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries",
			zap.Error(err),
			zap.String("dsn", cfg.Database.Postgres.Redacted()),
		)
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully", zap.Any("pool", pg.PoolStats()))

	svc, err := listings.NewService(listings.NewPostgresQuerier(pg.DB))
	if err != nil {
		zapLog.Fatal("failed to build listing service", zap.Error(err))
	}

	router := server.NewRouter(server.Options{
		Config:        cfg,
		Source:        svc,
		Health:        pg,
		Observability: obs,
		Logger:        log,
	})
	srv := server.NewHTTPServer(cfg.Server, router)

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Listing server stopped gracefully")
}
