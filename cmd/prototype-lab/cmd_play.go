package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/prototype-lab/internal/console"
)

func playCmd() *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Start an interactive cloning session",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			l := newLab(logger)

			c := console.New(l, os.Stdin, os.Stdout, console.Options{
				MassCount: cfg.Clone.MassCount,
				Prompt:    prompt,
			}, logger)

			if err := c.Run(cmd.Context()); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return fmt.Errorf("play: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "> ", "input prompt")
	return cmd
}
