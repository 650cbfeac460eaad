// cmd/portal/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hauler-portal/internal/admin"
	"hauler-portal/internal/common/aws"
	"hauler-portal/internal/common/config"
	"hauler-portal/internal/common/database"
	"hauler-portal/internal/common/logger"
	"hauler-portal/internal/draft"
	"hauler-portal/internal/server"
	"hauler-portal/internal/submit"
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
			delay *= 2 // Exponential backoff
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting hauler portal...",
		zap.String("environment", cfg.App.Environment),
		zap.String("intake", cfg.Intake.Mode),
	)

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init PostgreSQL with retry (postgres intake and admin surface) ---
	var pg *database.PostgresClient
	if cfg.Intake.Mode == submit.ModePostgres {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Submission pipeline ---
	var intake submit.Intake
	switch cfg.Intake.Mode {
	case submit.ModePostgres:
		intake = submit.NewPostgresIntake(pg.DB, log)
	case submit.ModeRelay:
		intake = submit.NewRelayIntake(
			cfg.Intake.Relay.URL,
			time.Duration(cfg.Intake.Relay.Timeout)*time.Millisecond,
			log,
		)
	}

	var notifier *submit.Notifier
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("SES client init failed", zap.Error(err))
		}
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("SNS client init failed", zap.Error(err))
		}
		notifier = submit.NewNotifier(cfg.Notifications, sesClient, snsClient, log)
	}

	pipeline := submit.NewPipeline(intake, notifier, log)

	// --- Draft persistence and session registry ---
	drafts := draft.NewStore(redisClient, log, time.Duration(cfg.Draft.MaxAgeHours)*time.Hour)
	registry := server.NewRegistry(time.Duration(cfg.Draft.SessionTTLMin) * time.Minute)

	stopEviction := make(chan struct{})
	registry.StartEviction(time.Minute, stopEviction)
	defer close(stopEviction)

	var adminStore *admin.Store
	if pg != nil {
		adminStore = admin.NewStore(pg.DB, log)
	}

	handler := server.NewHandler(server.Options{
		Registry:    registry,
		Drafts:      drafts,
		Pipeline:    pipeline,
		AdminStore:  adminStore,
		Logger:      log,
		Debounce:    time.Duration(cfg.Draft.DebounceMs) * time.Millisecond,
		AdminSecret: cfg.Admin.Secret,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
