// Package console is a line-oriented terminal front end for a lab.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ajitpratap0/prototype-lab/internal/lab"
	"github.com/ajitpratap0/prototype-lab/internal/metrics"
	"github.com/ajitpratap0/prototype-lab/internal/models"
)

const defaultPrompt = "> "

// errQuit stops the read loop without reporting an error.
var errQuit = errors.New("quit")

// Options tunes a Console.
type Options struct {
	// MassCount is used by "mass" when no count is given.
	MassCount int
	// Prompt is written before each command is read. Empty uses "> ".
	Prompt string
}

// Console reads commands and drives a lab, re-rendering the roster after
// every change.
type Console struct {
	lab      *lab.Lab
	in       io.Reader
	out      io.Writer
	opts     Options
	logger   *slog.Logger
	selected int
	werr     error
}

// New creates a console reading from in and writing to out.
func New(l *lab.Lab, in io.Reader, out io.Writer, opts Options, logger *slog.Logger) *Console {
	if opts.Prompt == "" {
		opts.Prompt = defaultPrompt
	}
	return &Console{
		lab:    l,
		in:     in,
		out:    out,
		opts:   opts,
		logger: logger,
	}
}

// Selected returns the current selection.
func (c *Console) Selected() int { return c.selected }

// Run processes commands until EOF, "quit", or ctx is done. Input is read
// on a separate goroutine so cancellation is seen while waiting for a line.
func (c *Console) Run(ctx context.Context) error {
	c.println("Prototype Lab: clone players and experiment safely. Type \"help\" for commands.")
	c.render()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printf("%s", c.opts.Prompt)
		if c.werr != nil {
			return fmt.Errorf("console: writing output: %w", c.werr)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("console: reading input: %w", err)
				}
				return nil
			}
			if err := c.Exec(line); errors.Is(err, errQuit) {
				return nil
			}
			if c.werr != nil {
				return fmt.Errorf("console: writing output: %w", c.werr)
			}
		}
	}
}

// Exec runs a single command line.
func (c *Console) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	c.logger.Debug("console: command", "cmd", cmd, "args", args)

	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help", "?":
		c.help()
	case "list", "ls":
		c.render()
	case "select":
		c.selectCmd(args)
	case "clone":
		c.cloneCmd(args)
	case "mass":
		c.massCmd(args)
	case "clear":
		c.lab.ClearClones()
		c.clampSelection()
		c.render()
	case "damage":
		c.applyCmd(args, models.ActionDamage)
	case "heal":
		c.applyCmd(args, models.ActionHeal)
	case "xp":
		c.applyCmd(args, models.ActionExperience)
	case "levelup":
		c.applyCmd(args, models.ActionLevelUp)
	case "remove", "rm":
		c.removeCmd(args)
	case "rename":
		c.renameCmd(line, fields)
	case "stats":
		c.stats()
	default:
		c.advise(fmt.Errorf("unknown command %q, type \"help\"", cmd))
	}
	return nil
}

// target resolves an optional index argument, falling back to the selection.
// An explicit index also becomes the new selection.
func (c *Console) target(args []string) (int, bool) {
	if len(args) == 0 {
		return c.selected, true
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		c.advise(fmt.Errorf("invalid index %q", args[0]))
		return 0, false
	}
	if idx >= 0 && idx < c.lab.Len() {
		c.selected = idx
	}
	return idx, true
}

func (c *Console) selectCmd(args []string) {
	if len(args) != 1 {
		c.advise(errors.New("usage: select <index>"))
		return
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		c.advise(fmt.Errorf("invalid index %q", args[0]))
		return
	}
	if idx < 0 || idx >= c.lab.Len() {
		c.advise(fmt.Errorf("no player at index %d", idx))
		return
	}
	c.selected = idx
	c.printf("Selected %02d\n", idx)
}

func (c *Console) cloneCmd(args []string) {
	sel, ok := c.target(args)
	if !ok {
		return
	}
	p, err := c.lab.Clone(sel)
	if err != nil {
		c.advise(err)
		return
	}
	c.render()
	c.printf("Cloned: %s\n", p.Summary())
}

func (c *Console) massCmd(args []string) {
	count := c.opts.MassCount
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			c.advise(fmt.Errorf("invalid count %q", args[0]))
			return
		}
		count = n
	}
	n, err := c.lab.MassClone(count)
	if err != nil {
		c.advise(err)
		return
	}
	if n == 0 {
		return
	}
	c.render()
	c.printf("Created %d clones of original.\n", n)
}

func (c *Console) applyCmd(args []string, action models.Action) {
	sel, ok := c.target(args)
	if !ok {
		return
	}
	if err := c.lab.Apply(sel, action); err != nil {
		c.advise(err)
		return
	}
	c.render()
}

func (c *Console) removeCmd(args []string) {
	sel, ok := c.target(args)
	if !ok {
		return
	}
	if err := c.lab.Remove(sel); err != nil {
		c.advise(err)
		return
	}
	c.clampSelection()
	c.render()
}

func (c *Console) renameCmd(line string, fields []string) {
	if len(fields) < 2 {
		c.advise(errors.New("usage: rename <index> <name>"))
		return
	}
	idx, err := strconv.Atoi(fields[1])
	if err != nil {
		c.advise(fmt.Errorf("invalid index %q", fields[1]))
		return
	}
	rest := strings.TrimSpace(line)
	rest = strings.TrimSpace(strings.TrimPrefix(rest, fields[0]))
	rest = strings.TrimPrefix(rest, fields[1])
	if c.lab.Rename(idx, rest) {
		c.render()
	}
}

func (c *Console) stats() {
	for _, ctr := range metrics.Snapshot() {
		c.printf("%-28s %d\n", ctr.Name, ctr.Value)
	}
}

func (c *Console) help() {
	c.println(`Commands:
  list | ls              show all players (index 00 is the original)
  select <i>             select a player
  clone [i]              clone player i, or the selection
  mass [n]               clone the original n times
  clear                  remove every clone, keep the original
  damage [i]             take damage
  heal [i]               heal
  xp [i]                 gain experience
  levelup [i]            level up
  remove [i]             remove a clone (never the original)
  rename <i> <name>      rename a player
  stats                  show operation counters
  quit                   leave`)
}

func (c *Console) clampSelection() {
	if c.selected >= c.lab.Len() {
		c.selected = 0
	}
}

func (c *Console) render() {
	for _, line := range c.lab.Lines() {
		c.println(line)
	}
}

func (c *Console) advise(err error) {
	c.printf("! %s\n", err)
}

func (c *Console) println(s string) {
	c.printf("%s\n", s)
}

func (c *Console) printf(format string, args ...any) {
	if c.werr != nil {
		return
	}
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		c.werr = err
	}
}
