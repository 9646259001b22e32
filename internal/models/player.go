package models

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	// CloneSuffix is appended to the source name when a player is cloned.
	CloneSuffix = " (clone)"

	// LevelUpHealthBonus is the flat health granted on every level-up.
	LevelUpHealthBonus = 10

	// baseXPThreshold is the experience needed to leave level 1.
	baseXPThreshold = 100

	// xpThresholdStep is the extra experience needed per level above 1.
	xpThresholdStep = 50
)

// Player is a cloneable game character with identity and mutable stats.
// A Player is not safe for concurrent use.
type Player struct {
	id         string
	name       string
	health     int
	experience int
	level      int
}

// PlayerSnapshot is a read-only copy of a Player's state.
type PlayerSnapshot struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Health     int    `json:"health"`
	Experience int    `json:"experience"`
	Level      int    `json:"level"`
}

// NewPlayer creates a player with a fresh ID and the given stats.
// Inputs are taken as-is; only later operations enforce the health floor.
func NewPlayer(name string, health, experience, level int) *Player {
	return &Player{
		id:         uuid.New().String(),
		name:       name,
		health:     health,
		experience: experience,
		level:      level,
	}
}

// Clone returns an independent copy of p with a new ID and a marked name.
func (p *Player) Clone() *Player {
	return &Player{
		id:         uuid.New().String(),
		name:       p.name + CloneSuffix,
		health:     p.health,
		experience: p.experience,
		level:      p.level,
	}
}

// ID returns the player's immutable identifier.
func (p *Player) ID() string { return p.id }

// Name returns the display name.
func (p *Player) Name() string { return p.name }

// SetName replaces the display name.
func (p *Player) SetName(name string) { p.name = name }

// Health returns current health.
func (p *Player) Health() int { return p.health }

// Experience returns experience accumulated towards the next level.
func (p *Player) Experience() int { return p.experience }

// Level returns the current level.
func (p *Player) Level() int { return p.level }

// TakeDamage lowers health by amount, never below zero.
func (p *Player) TakeDamage(amount int) {
	p.health = max(0, p.health-amount)
}

// Heal raises health by amount. There is no upper bound.
func (p *Player) Heal(amount int) {
	p.health += amount
}

// GainExperience adds amount and resolves every level-up it pays for,
// so a single large grant can cross several levels.
func (p *Player) GainExperience(amount int) {
	p.experience += amount
	for p.experience >= XPThreshold(p.level) {
		p.experience -= XPThreshold(p.level)
		p.LevelUp()
	}
}

// LevelUp advances one level and grants LevelUpHealthBonus health.
func (p *Player) LevelUp() {
	p.level++
	p.health += LevelUpHealthBonus
}

// XPThreshold returns the experience required to advance past level.
func XPThreshold(level int) int {
	return baseXPThreshold + (level-1)*xpThresholdStep
}

// Summary formats the player as "<name> | HP:<h> | XP:<xp> | Lvl:<lvl>".
func (p *Player) Summary() string {
	return fmt.Sprintf("%s | HP:%d | XP:%d | Lvl:%d", p.name, p.health, p.experience, p.level)
}

// Snapshot returns a copy of the player's current state.
func (p *Player) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:         p.id,
		Name:       p.name,
		Health:     p.health,
		Experience: p.experience,
		Level:      p.level,
	}
}
