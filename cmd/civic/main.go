// Command civic is the operator CLI for the civic issue service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sumire/civic/internal/app"
	"github.com/sumire/civic/internal/config"
	"github.com/sumire/civic/internal/output"
)

var version = "dev"

var (
	ui *output.UI

	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "civic",
	Short: "Civic issue assistant - manage and chat about reported issues",
	Long: `civic runs the civic issue API and lets operators inspect issues,
apply direct actions, and talk to the assistant from a terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui = output.New()
		ui.Verbose = verbose
		ui.Out = cmd.OutOrStdout()
		ui.ErrOut = cmd.ErrOrStderr()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and installs the logger. Outside of serve,
// logs below warn are hidden unless --verbose is set.
func loadConfig(quiet bool) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	level := cfg.LogLevel
	if quiet && !verbose && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	app.SetupLogger(level)
	return cfg, nil
}

// openApp loads configuration and wires the service for a one-shot command.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig(true)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}
