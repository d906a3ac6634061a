package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/advice"
	"fintrack/internal/amqp"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: "fintrack-worker"})
	applog.SetDefault(logger)

	logger.Info("Starting fintrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// The worker only rebuilds snapshots; it never generates advice, so
	// the generator is a stub and there is no cache to invalidate here.
	noGen := advice.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", errors.New("worker does not generate advice")
	})
	insights := services.NewInsightService(repo, repo, repo, noGen, nil)
	refresher := worker.NewRefreshWorker(insights, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Consume until shutdown, reconnecting on broker failures.
	for attempt := 0; ctx.Err() == nil; attempt++ {
		err := amqpClient.ConsumeDataChanged(ctx, func(msg *amqp.DataChangedMessage) error {
			return refresher.HandleDataChanged(ctx, msg)
		})
		if err == nil || errors.Is(err, context.Canceled) {
			break
		}

		logger.Error("Message consumption failed, reconnecting", "error", err, "attempt", attempt+1)
		if err := amqpClient.Reconnect(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			logger.Error("Reconnect failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
		}
	}

	logger.Info("Worker stopped gracefully")
}
