package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/prototype-lab/internal/lab"
	"github.com/ajitpratap0/prototype-lab/internal/models"
)

type demoOptions struct {
	count      int
	removeAt   int
	outputJSON bool
}

// demoReport is the --json output of the demo.
type demoReport struct {
	BeforeClear []models.PlayerSnapshot `json:"before_clear"`
	AfterClear  []models.PlayerSnapshot `json:"after_clear"`
	Removed     bool                    `json:"removed"`
	Advisories  []string                `json:"advisories,omitempty"`
}

func demoCmd() *cobra.Command {
	var opts demoOptions

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted walkthrough: mass clone, evolve, remove, clear",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			return runDemo(cmd.OutOrStdout(), newLab(logger), logger, opts)
		},
	}

	cmd.Flags().IntVar(&opts.count, "count", 10, "clones to create")
	cmd.Flags().IntVar(&opts.removeAt, "remove", 5, "index of the clone to remove")
	cmd.Flags().BoolVar(&opts.outputJSON, "json", false, "output as JSON")
	return cmd
}

// runDemo drives l through the walkthrough. With outputJSON set, w receives
// exactly one JSON document and advisories go into it and to the logger.
func runDemo(w io.Writer, l *lab.Lab, logger *slog.Logger, opts demoOptions) error {
	var report demoReport

	step := func(title string) {
		if opts.outputJSON {
			return
		}
		fmt.Fprintf(w, "\n== %s\n", title)
		for _, line := range l.Lines() {
			fmt.Fprintln(w, line)
		}
	}
	advise := func(err error) {
		if opts.outputJSON {
			logger.Warn("demo: advisory", "error", err)
			report.Advisories = append(report.Advisories, err.Error())
			return
		}
		fmt.Fprintf(w, "\n! %s\n", err)
	}

	step("original")

	n, err := l.MassClone(opts.count)
	if err != nil {
		return fmt.Errorf("demo: mass clone: %w", err)
	}
	step(fmt.Sprintf("mass clone %d", n))

	if l.Len() > 1 {
		last := l.Len() - 1
		for _, a := range []models.Action{models.ActionDamage, models.ActionExperience, models.ActionExperience} {
			if err := l.Apply(last, a); err != nil {
				return fmt.Errorf("demo: %s: %w", a, err)
			}
		}
		step(fmt.Sprintf("evolve clone %02d", last))
	}

	before := l.Len()
	if err := l.Remove(opts.removeAt); err != nil {
		advise(err)
	} else if l.Len() < before {
		report.Removed = true
		step(fmt.Sprintf("remove %02d", opts.removeAt))
	} else {
		advise(fmt.Errorf("no clone at index %d", opts.removeAt))
	}

	report.BeforeClear = l.Snapshot()

	l.ClearClones()
	step("clear clones")

	if !opts.outputJSON {
		return nil
	}
	report.AfterClear = l.Snapshot()
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("demo: marshaling JSON: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(out)); err != nil {
		return fmt.Errorf("demo: writing output: %w", err)
	}
	return nil
}
