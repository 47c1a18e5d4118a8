package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sumire/civic/internal/app"
	"github.com/sumire/civic/internal/telemetry"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveRun(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		ui.Success("Schema applied (%s)", a.Config.DatabaseDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides PORT)")
}

func serveRun(parent context.Context) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, "civic", version, telemetry.Options{
		Enabled:        cfg.OTelEnabled,
		MetricInterval: cfg.OTelMetricInterval,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(flushCtx)
	}()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ui.Info("Serving API at http://localhost:%d", cfg.Port)
	return a.Serve(ctx)
}
