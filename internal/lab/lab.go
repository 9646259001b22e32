// Package lab implements the user-level actions of the prototype lab on top
// of a roster: cloning, per-player actions, removal, renaming and rendering.
// It knows nothing about how those actions are presented.
package lab

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ajitpratap0/prototype-lab/internal/metrics"
	"github.com/ajitpratap0/prototype-lab/internal/models"
	"github.com/ajitpratap0/prototype-lab/internal/roster"
)

// NoSelection means no player is selected.
const NoSelection = -1

// Advisory errors. The requested operation was skipped; callers show the
// message to the user and carry on.
var (
	ErrOriginalProtected = errors.New("cannot remove the original (index 0), select a clone")
	ErrNoSelection       = errors.New("select a player first")
	ErrUnknownAction     = errors.New("unknown action")
	ErrCountOutOfRange   = errors.New("clone count out of range")
)

// Stats are the starting stats of an original player.
type Stats struct {
	Name       string
	Health     int
	Experience int
	Level      int
}

// Config holds the settings a Lab needs.
type Config struct {
	Original     Stats
	Damage       int
	Heal         int
	Experience   int
	MaxMassClone int
}

// DefaultConfig returns the stock lab settings: a level-1 "Hero" with 100
// health, and 10 damage, 10 heal and 60 experience per action.
func DefaultConfig() Config {
	return Config{
		Original:     Stats{Name: "Hero", Health: 100, Experience: 0, Level: 1},
		Damage:       10,
		Heal:         10,
		Experience:   60,
		MaxMassClone: 1000,
	}
}

// Lab is one roster plus the action configuration. Not safe for concurrent use.
type Lab struct {
	cfg    Config
	roster *roster.Roster
	logger *slog.Logger
}

// NewLab creates a lab whose roster holds a fresh original built from cfg.Original.
func NewLab(cfg Config, logger *slog.Logger) *Lab {
	l := &Lab{
		cfg:    cfg,
		roster: roster.New(),
		logger: logger,
	}
	o := cfg.Original
	l.roster.SetOriginal(models.NewPlayer(o.Name, o.Health, o.Experience, o.Level))
	return l
}

// Original returns the original player.
func (l *Lab) Original() *models.Player {
	return l.roster.Original()
}

// Players returns all players, original first.
func (l *Lab) Players() []*models.Player {
	return l.roster.All()
}

// Len returns the number of players, original included.
func (l *Lab) Len() int {
	return l.roster.Len()
}

// Clone duplicates the selected player, or the original when sel is
// NoSelection, and appends the duplicate.
func (l *Lab) Clone(sel int) (*models.Player, error) {
	src := l.roster.Original()
	if sel != NoSelection {
		p, ok := l.roster.At(sel)
		if !ok {
			return nil, ErrNoSelection
		}
		src = p
	}
	if src == nil {
		return nil, ErrNoSelection
	}

	c := src.Clone()
	l.roster.AddClone(c)
	metrics.Inc(metrics.ClonesCreated)
	l.logger.Debug("lab: cloned player", "source", src.ID(), "clone", c.ID(), "index", l.roster.Len()-1)
	return c, nil
}

// MassClone appends count clones of the original and returns how many were made.
// A count of zero or less does nothing.
func (l *Lab) MassClone(count int) (int, error) {
	if count <= 0 {
		return 0, nil
	}
	if l.cfg.MaxMassClone > 0 && count > l.cfg.MaxMassClone {
		return 0, fmt.Errorf("%w: %d exceeds %d", ErrCountOutOfRange, count, l.cfg.MaxMassClone)
	}
	base := l.roster.Original()
	if base == nil {
		return 0, ErrNoSelection
	}

	for i := 0; i < count; i++ {
		l.roster.AddClone(base.Clone())
	}
	metrics.Add(metrics.ClonesCreated, count)
	l.logger.Debug("lab: mass cloned original", "count", count, "total", l.roster.Len())
	return count, nil
}

// ClearClones drops every clone and keeps the original.
func (l *Lab) ClearClones() {
	removed := l.roster.Len() - 1
	l.roster.ClearClones()
	metrics.Inc(metrics.ClearsTotal)
	if removed > 0 {
		metrics.Add(metrics.ClonesRemoved, removed)
	}
	l.logger.Debug("lab: cleared clones", "removed", max(removed, 0))
}

// Apply runs action on the selected player using the configured amounts.
func (l *Lab) Apply(sel int, action models.Action) error {
	if !action.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	p, ok := l.roster.At(sel)
	if !ok {
		return ErrNoSelection
	}

	switch action {
	case models.ActionDamage:
		p.TakeDamage(l.cfg.Damage)
	case models.ActionHeal:
		p.Heal(l.cfg.Heal)
	case models.ActionExperience:
		p.GainExperience(l.cfg.Experience)
	case models.ActionLevelUp:
		p.LevelUp()
	}

	metrics.Inc(metrics.ActionsApplied)
	l.logger.Debug("lab: applied action", "action", action, "index", sel, "id", p.ID())
	return nil
}

// Remove deletes the selected clone. Selecting the original, or nothing,
// returns ErrOriginalProtected. Positions past the end are ignored.
func (l *Lab) Remove(sel int) error {
	if sel <= roster.OriginalIndex {
		return ErrOriginalProtected
	}
	before := l.roster.Len()
	l.roster.RemoveAt(sel)
	if l.roster.Len() < before {
		metrics.Inc(metrics.ClonesRemoved)
		l.logger.Debug("lab: removed clone", "index", sel)
	}
	return nil
}

// Rename sets the selected player's name to the trimmed input. Blank input
// and unknown positions are ignored. It reports whether a name was changed.
func (l *Lab) Rename(sel int, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	p, ok := l.roster.At(sel)
	if !ok {
		return false
	}
	p.SetName(name)
	metrics.Inc(metrics.RenamesTotal)
	l.logger.Debug("lab: renamed player", "index", sel, "id", p.ID())
	return true
}

// Lines renders the roster as "<index> - <summary>" lines, index padded
// to at least two digits.
func (l *Lab) Lines() []string {
	players := l.roster.All()
	lines := make([]string, len(players))
	for i, p := range players {
		lines[i] = fmt.Sprintf("%02d - %s", i, p.Summary())
	}
	return lines
}

// Snapshot returns a copy of every player's state, original first.
func (l *Lab) Snapshot() []models.PlayerSnapshot {
	players := l.roster.All()
	out := make([]models.PlayerSnapshot, len(players))
	for i, p := range players {
		out[i] = p.Snapshot()
	}
	return out
}
