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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/advice"
	advgoogle "fintrack/internal/advice/google"
	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: "fintrack"})
	applog.SetDefault(logger)

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

	// The broker is optional: without it writes still work, only the
	// change notifications are skipped.
	var publisher services.ChangePublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, change notifications disabled", "error", err)
		} else {
			publisher = amqpClient
			defer amqpClient.Close()
		}
	}

	var generator advice.Generator
	if cfg.GeminiAPIKey != "" {
		gem, err := advgoogle.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		generator = gem
		logger.Info("Gemini advice generation enabled", "model", cfg.GeminiModel)
	} else {
		generator = advice.GeneratorFunc(func(context.Context, string) (string, error) {
			return "", errors.New("no advice generator configured")
		})
		logger.Warn("GEMINI_API_KEY not set, insights will serve the fallback text")
	}

	insightCache := cache.NewLRUCache[string](cfg.InsightCacheSize, cfg.InsightCacheTTL)
	insightCache.StartCleanup(10 * time.Minute)
	defer insightCache.Stop()

	accounts := services.NewAccountService(repo, publisher)
	ledger := services.NewLedgerService(repo, publisher)
	budgets := services.NewBudgetService(repo)
	insights := services.NewInsightService(repo, repo, repo, generator, insightCache)

	srv := apphttp.NewServer(":"+cfg.Port, accounts, ledger, budgets, insights)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting fintrack server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// Invalidate cached insights when another instance reports a change.
	if amqpClient != nil {
		refresher := worker.NewRefreshWorker(insights, insights)
		g.Go(func() error {
			err := amqpClient.ConsumeDataChanged(gctx, func(msg *amqp.DataChangedMessage) error {
				return refresher.HandleDataChanged(gctx, msg)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Data changed consumption stopped", "error", err)
			}
			// A dead consumer degrades cache freshness but should not
			// take the API down.
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
