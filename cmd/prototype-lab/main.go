package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/prototype-lab/internal/config"
	"github.com/ajitpratap0/prototype-lab/internal/lab"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "prototype-lab",
		Short: "Prototype Lab: player cloning playground",
		Long:  "Create clones of a player and safely experiment with what-if scenarios. Every clone is an independent copy with its own identity.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		playCmd(),
		demoCmd(),
		mcpCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newLab(logger *slog.Logger) *lab.Lab {
	return lab.NewLab(lab.Config{
		Original: lab.Stats{
			Name:       cfg.Player.Name,
			Health:     cfg.Player.Health,
			Experience: cfg.Player.Experience,
			Level:      cfg.Player.Level,
		},
		Damage:       cfg.Actions.Damage,
		Heal:         cfg.Actions.Heal,
		Experience:   cfg.Actions.Experience,
		MaxMassClone: cfg.Clone.MaxMass,
	}, logger)
}
