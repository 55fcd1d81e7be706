package spell

import (
	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
)

// Leveled is anything with a character level.
type Leveled interface {
	Level() int
}

// CasterLevel is the effective power level of cast spells.
//
// An explicit override wins. Otherwise the owner's character level is read lazily on
// every Total, so level changes apply without re-registration.
type CasterLevel struct {
	override    uint8
	hasOverride bool
	fallback    *modifier.Tracker

	// Untyped holds caster level bonuses that apply on top of the character level.
	Untyped *modifier.Tracker
}

// NewCasterLevel creates a CasterLevel that falls back to owner's level.
//
// Precondition: owner must not be nil.
func NewCasterLevel(owner Leveled) (*CasterLevel, error) {
	if owner == nil {
		return nil, rpgerr.InvalidArgument("caster level owner must not be nil")
	}
	cl := &CasterLevel{
		fallback: modifier.NewSum(),
		Untyped:  modifier.NewSum(),
	}
	if err := cl.fallback.AddFunc(func() uint8 { return modifier.Clamp(owner.Level()) }); err != nil {
		return nil, err
	}
	if err := cl.fallback.Mirror(cl.Untyped); err != nil {
		return nil, err
	}
	return cl, nil
}

// NewFixedCasterLevel creates a CasterLevel that always reports v, as for a wand or
// scroll whose caster level is set at creation.
func NewFixedCasterLevel(v uint8) *CasterLevel {
	return &CasterLevel{
		override:    v,
		hasOverride: true,
		fallback:    modifier.NewSum(),
		Untyped:     modifier.NewSum(),
	}
}

// SetOverride fixes the caster level at v.
func (c *CasterLevel) SetOverride(v uint8) {
	c.override = v
	c.hasOverride = true
}

// ClearOverride restores the fallback to the owner's level.
func (c *CasterLevel) ClearOverride() {
	c.override = 0
	c.hasOverride = false
}

// Override returns the override and whether one is set.
func (c *CasterLevel) Override() (uint8, bool) {
	return c.override, c.hasOverride
}

// Total returns the override if set, else owner level + untyped bonuses.
func (c *CasterLevel) Total() uint8 {
	if c.hasOverride {
		return c.override
	}
	return c.fallback.Total()
}
