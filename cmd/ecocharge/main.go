package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"ecocharge/internal/backend"
	"ecocharge/internal/cache"
	"ecocharge/internal/cli"
	"ecocharge/internal/core"
	apphttp "ecocharge/internal/http"
	applog "ecocharge/internal/log"
	"ecocharge/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).
		CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	dashboards := cache.NewLRU[core.Dashboard](cfg.DashboardCacheSize, cfg.DashboardCacheTTL)
	tracker := services.NewTracker(result.Service, dashboards)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	if err := tracker.Load(startCtx); err != nil {
		// The page retries on every visit.
		logger.Warn("Initial session load failed", applog.FieldError, err)
	}
	cancelStart()

	srv, err := apphttp.NewServer(":"+cfg.Port, tracker, logger, apphttp.Options{})
	if err != nil {
		logger.Error("Failed to create HTTP server", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", applog.FieldError, err)
		}
	})

	go cache.NewManager(dashboards).Run(ctx, time.Minute)

	logger.Info("Starting ecocharge server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"sessions", len(tracker.Snapshot()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
