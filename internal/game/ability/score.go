// Package ability models the six ability scores and their derived modifiers.
package ability

import (
	"github.com/cory-johannsen/statblock/internal/game/modifier"
)

// Score is one ability score: an optional base value adjusted by bonus trackers.
//
// A Score without a base represents an ability the character does not track
// (for example, a construct's Constitution). It has no total and a zero modifier.
type Score struct {
	base    uint8
	hasBase bool

	Enhancement *modifier.Tracker
	Inherent    *modifier.Tracker
	Morale      *modifier.Tracker
	Penalties   *modifier.Tracker
}

// NewScore creates a Score with the given base value.
func NewScore(base uint8) *Score {
	s := NewUntrackedScore()
	s.SetBase(base)
	return s
}

// NewUntrackedScore creates a Score with no base value.
func NewUntrackedScore() *Score {
	return &Score{
		Enhancement: modifier.NewMaximum(),
		Inherent:    modifier.NewMaximum(),
		Morale:      modifier.NewMaximum(),
		Penalties:   modifier.NewSum(),
	}
}

// SetBase assigns the base value.
func (s *Score) SetBase(v uint8) {
	s.base = v
	s.hasBase = true
}

// ClearBase marks the score as not tracked.
func (s *Score) ClearBase() {
	s.base = 0
	s.hasBase = false
}

// Base returns the base value and whether one is set.
func (s *Score) Base() (uint8, bool) {
	return s.base, s.hasBase
}

// Total returns clamp(base + enhancement + inherent + morale - penalties, 0, 255).
//
// Postcondition: ok is false iff no base is set.
func (s *Score) Total() (total uint8, ok bool) {
	if !s.hasBase {
		return 0, false
	}
	sum := int(s.base) +
		int(s.Enhancement.Total()) +
		int(s.Inherent.Total()) +
		int(s.Morale.Total()) -
		int(s.Penalties.Total())
	return modifier.Clamp(sum), true
}

// Modifier returns floor((total - 10) / 2), or 0 when the score is not tracked.
func (s *Score) Modifier() int {
	total, ok := s.Total()
	if !ok {
		return 0
	}
	return ModifierFor(total)
}

// Bonus returns the modifier when positive, otherwise 0.
func (s *Score) Bonus() int {
	return max(s.Modifier(), 0)
}

// ModifierFor returns the ability modifier for a raw score, rounding toward
// negative infinity (score 9 gives -1, not 0).
func ModifierFor(score uint8) int {
	d := int(score) - 10
	if d < 0 {
		return -((-d + 1) / 2)
	}
	return d / 2
}
