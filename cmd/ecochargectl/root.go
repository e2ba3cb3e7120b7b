package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"ecocharge/internal/backend"
	"ecocharge/internal/cli"
	"ecocharge/internal/config"
	applog "ecocharge/internal/log"
	"ecocharge/internal/services"
)

var (
	backendFlag string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "ecochargectl",
	Short: "Manage EV charging sessions from the terminal",
	Long: `ecochargectl reads and writes the same session store as the ecocharge server.
Settings come from the environment (and .env), like the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cli.LoadEnvFile()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "override DATA_BACKEND (memory, sqlite, sheets, postgres)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log backend activity to stderr")
}

// workspace bundles an open backend and a loaded tracker.
type workspace struct {
	tracker *services.Tracker
	close   func() error
}

// openTracker builds the configured backend and loads every session.
func openTracker(ctx context.Context, cmd *cobra.Command) (*workspace, error) {
	cfg := config.Load()
	if backendFlag != "" {
		cfg.DataBackend = backendFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logCfg := applog.Config{Level: slog.LevelWarn, Format: cfg.LogFormat, Component: applog.ComponentBackend, Output: io.Discard}
	if verbose {
		logCfg.Level = applog.ParseLevel(cfg.LogLevel)
		logCfg.Output = cmd.ErrOrStderr()
	}
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("opening backend: %w", err)
	}

	tracker := services.NewTracker(result.Service, nil)
	if err := tracker.Load(ctx); err != nil {
		_ = result.Cleanup()
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	return &workspace{tracker: tracker, close: result.Cleanup}, nil
}
