// Package roster holds an original player and the clones made from it.
package roster

import (
	"slices"

	"github.com/ajitpratap0/prototype-lab/internal/models"
)

// OriginalIndex is the protected position of the original player.
const OriginalIndex = 0

// Roster is an ordered list of players where position 0 is the original
// and every later position is a clone. It is not safe for concurrent use.
type Roster struct {
	players []*models.Player
}

// New creates an empty roster.
func New() *Roster {
	return &Roster{}
}

// SetOriginal places p at position 0, replacing any previous original.
// Existing clones keep their positions.
func (r *Roster) SetOriginal(p *models.Player) {
	if len(r.players) == 0 {
		r.players = append(r.players, p)
		return
	}
	r.players[OriginalIndex] = p
}

// Original returns the player at position 0, or nil if the roster is empty.
func (r *Roster) Original() *models.Player {
	if len(r.players) == 0 {
		return nil
	}
	return r.players[OriginalIndex]
}

// AddClone appends p. No uniqueness check is made.
func (r *Roster) AddClone(p *models.Player) {
	r.players = append(r.players, p)
}

// All returns the players in order, original first. The slice is a copy;
// the players are shared.
func (r *Roster) All() []*models.Player {
	return slices.Clone(r.players)
}

// At returns the player at index.
func (r *Roster) At(index int) (*models.Player, bool) {
	if index < 0 || index >= len(r.players) {
		return nil, false
	}
	return r.players[index], true
}

// Len returns the number of players, original included.
func (r *Roster) Len() int {
	return len(r.players)
}

// ClearClones drops every clone and keeps the original.
func (r *Roster) ClearClones() {
	if len(r.players) == 0 {
		return
	}
	clear(r.players[1:])
	r.players = r.players[:1]
}

// RemoveAt removes the clone at index. The original and out-of-range
// indexes are ignored.
func (r *Roster) RemoveAt(index int) {
	if index <= OriginalIndex || index >= len(r.players) {
		return
	}
	r.players = slices.Delete(r.players, index, index+1)
}
