package character

import (
	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
)

// maxHitPoints is the ceiling every hit point value clamps to.
const maxHitPoints = 65535

// leveled is the part of a character HitPoints reads.
type leveled interface {
	Level() int
}

// HitPoints tracks maximum and current hit points.
//
// Max = Base + Constitution modifier x level + Untyped, clamped to [0, 65535].
// Current = Max - damage, clamped the same way.
type HitPoints struct {
	owner        leveled
	constitution *ability.Score
	damage       int

	// Base is the sum of the character's hit dice.
	Base uint16
	// Untyped holds stacking bonuses such as Toughness or favored class points.
	Untyped *modifier.Tracker
}

// NewHitPoints creates HitPoints with no base and no damage.
//
// Precondition: owner and constitution must not be nil.
func NewHitPoints(owner leveled, constitution *ability.Score) (*HitPoints, error) {
	if owner == nil {
		return nil, rpgerr.InvalidArgument("hit points owner must not be nil")
	}
	if constitution == nil {
		return nil, rpgerr.InvalidArgument("constitution must not be nil")
	}
	return &HitPoints{
		owner:        owner,
		constitution: constitution,
		Untyped:      modifier.NewSum(),
	}, nil
}

// Max returns the maximum hit points.
func (h *HitPoints) Max() uint16 {
	return clampHitPoints(int(h.Base) + h.constitution.Modifier()*h.owner.Level() + int(h.Untyped.Total()))
}

// Current returns the maximum minus damage taken.
func (h *HitPoints) Current() uint16 {
	return clampHitPoints(int(h.Max()) - h.damage)
}

// Damage returns the damage taken so far.
func (h *HitPoints) Damage() int {
	return h.damage
}

// TakeDamage records n points of damage.
func (h *HitPoints) TakeDamage(n uint16) {
	h.damage = min(h.damage+int(n), maxHitPoints)
}

// Heal removes up to n points of damage.
func (h *HitPoints) Heal(n uint16) {
	h.damage = max(h.damage-int(n), 0)
}

func clampHitPoints(v int) uint16 {
	switch {
	case v < 0:
		return 0
	case v > maxHitPoints:
		return maxHitPoints
	default:
		return uint16(v)
	}
}
