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

	"horario/internal/amqp"
	"horario/internal/cache"
	"horario/internal/calendar"
	"horario/internal/config"
	"horario/internal/export"
	gsheet "horario/internal/export/google"
	"horario/internal/export/xlsx"
	apphttp "horario/internal/http"
	applog "horario/internal/log"
	"horario/internal/platform"
	"horario/internal/services"
	"horario/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backend, err := platform.NewBackend(platform.Config{
		Type:    platform.BackendType(cfg.PlatformBackend),
		BaseURL: cfg.PlatformBaseURL,
		Token:   cfg.PlatformToken,
		Timeout: cfg.PlatformTimeout,
	}, logger.Logger)
	if err != nil {
		logger.Error("Failed to initialize platform backend", "error", err)
		os.Exit(1)
	}
	if backend.Cleanup != nil {
		defer backend.Cleanup()
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The AMQP publisher is best effort: without it, saves stay pending and
	// the worker's catch-up pass syncs them.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, sync messages disabled", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
		}
	}

	var reportPublisher export.Publisher
	if cfg.GoogleSpreadsheetID != "" {
		gp, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets publisher", "error", err)
			os.Exit(1)
		}
		reportPublisher = gp
		logger.Info("Google Sheets publisher initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets publishing disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	summaryCache := cache.NewLRUCache[services.MonthSummaries](cfg.CacheSize, cfg.CacheTTL)
	hours := services.NewHoursService(backend.Source, backend.Source, summaryCache, calendar.SystemClock())
	registrations := services.NewRegistrationService(repo, publisher, hours)
	exports := services.NewExportService(backend.Source, xlsx.NewWriter(), reportPublisher)

	srv := apphttp.NewServer(":"+cfg.Port, hours, registrations, exports)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting horario server", "port", cfg.Port, "backend", cfg.PlatformBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
