package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/smolbox"
	"github.com/aretw0/smolbox/internal/cli"
	"github.com/aretw0/smolbox/internal/config"
	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/spf13/cobra"
)

var globalOpts cli.Options

var rootCmd = &cobra.Command{
	Use:   "smolbox",
	Short: "smolbox tracks model and dataset paths across pipeline stages",
	Long: `smolbox keeps a small persistent record of where the current stage reads its
model and dataset from and where it writes them to. Advancing to the next stage
turns the outputs into the inputs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&globalOpts.Root, "root", "", "State directory (overrides environment detection)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.ConfigPath, "config", "", "Config file (default ./smolbox.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.Debug, "debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&globalOpts.Store, "store", "", "Store backend: file, redis or memory")
	rootCmd.PersistentFlags().StringVar(&globalOpts.RedisAddr, "redis-addr", "", "Redis address for the redis store")
}

// app bundles what a command needs to talk to the engine.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	engine *smolbox.Engine
}

func setup(extra ...domain.LifecycleHooks) (*app, error) {
	cfg, err := cli.LoadConfig(globalOpts)
	if err != nil {
		return nil, err
	}
	logger, err := cli.CreateLogger(cfg)
	if err != nil {
		return nil, err
	}
	engine, err := cli.CreateEngine(cfg, logger, extra...)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, engine: engine}, nil
}

func (a *app) Close() {
	if err := a.engine.Close(); err != nil {
		a.logger.Warn("Failed to close store", "err", err)
	}
}
