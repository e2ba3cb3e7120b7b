package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ecocharge/internal/amqp"
	"ecocharge/internal/backend"
	"ecocharge/internal/cli"
	applog "ecocharge/internal/log"
	"ecocharge/internal/records"
	"ecocharge/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentWorker)

	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Mirror configuration invalid", applog.FieldError, err)
		os.Exit(1)
	}

	sourceCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	mirrorCfg := sourceCfg
	mirrorCfg.Type = backend.SheetsBackend

	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	source, err := factory.CreateStore(initCtx, sourceCfg)
	if err != nil {
		cancelInit()
		logger.Error("Failed to open source store", applog.FieldError, err)
		os.Exit(1)
	}
	mirror, err := factory.CreateStore(initCtx, mirrorCfg)
	cancelInit()
	if err != nil {
		logger.Error("Failed to open Google Sheets mirror", applog.FieldError, err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}

	w := worker.NewMirrorWorker(source, mirror)
	ctx, done := cli.GracefulShutdown(logger, 15*time.Second, nil)

	logger.Info("Starting ecocharge-worker",
		"backend", cfg.DataBackend,
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"resync_interval", cfg.ResyncInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeSessionEvents(gctx, w.HandleEvent)
	})
	g.Go(func() error {
		w.RunResync(gctx, cfg.ResyncInterval)
		return nil
	})

	runErr := g.Wait()

	if err := client.Close(); err != nil {
		logger.Warn("AMQP close error", applog.FieldError, err)
	}
	if c, ok := source.(records.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warn("Source store close error", applog.FieldError, err)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, runErr)
		os.Exit(1)
	}
	<-done
	logger.Info("Worker stopped gracefully")
}
