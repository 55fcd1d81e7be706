package offense

import (
	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
	"github.com/cory-johannsen/statblock/internal/game/size"
)

// CombatManeuverBonus is the bonus on grapple, trip, disarm and similar checks.
// It shares the melee category bonuses the same way a weapon does.
type CombatManeuverBonus struct {
	owner Combatant
	bab   *BaseAttackBonus
	key   *ability.Score

	Enhancement *modifier.Tracker
	Untyped     *modifier.Tracker
	Penalties   *modifier.Tracker
}

// NewCombatManeuverBonus creates a CombatManeuverBonus keyed on strength and
// reading the melee category bonuses.
//
// Precondition: owner, bab, strength and melee must not be nil.
func NewCombatManeuverBonus(owner Combatant, bab *BaseAttackBonus, strength *ability.Score, melee *UniversalAttackBonus) (*CombatManeuverBonus, error) {
	if owner == nil {
		return nil, rpgerr.InvalidArgument("combat maneuver bonus owner must not be nil")
	}
	if bab == nil {
		return nil, rpgerr.InvalidArgument("base attack bonus must not be nil")
	}
	if strength == nil {
		return nil, rpgerr.InvalidArgument("strength must not be nil")
	}
	if melee == nil {
		return nil, rpgerr.InvalidArgument("melee attack bonus must not be nil")
	}
	enh, untyped, penalties, err := mirroredTrackers(melee)
	if err != nil {
		return nil, err
	}
	return &CombatManeuverBonus{
		owner:       owner,
		bab:         bab,
		key:         strength,
		Enhancement: enh,
		Untyped:     untyped,
		Penalties:   penalties,
	}, nil
}

// KeyAbilityScore returns the ability score added to maneuver checks.
func (m *CombatManeuverBonus) KeyAbilityScore() *ability.Score {
	return m.key
}

// SetKeyAbilityScore replaces the key ability score.
//
// Precondition: s must not be nil.
func (m *CombatManeuverBonus) SetKeyAbilityScore(s *ability.Score) error {
	if s == nil {
		return rpgerr.InvalidArgument("key ability score must not be nil")
	}
	m.key = s
	return nil
}

// SizeModifier returns the owner's maneuver size modifier (Small -1, Large +1).
func (m *CombatManeuverBonus) SizeModifier() (int, error) {
	return size.ManeuverModifier(m.owner.Size())
}

// Total returns BAB + size + key modifier + enhancement + untyped - penalties.
func (m *CombatManeuverBonus) Total() (int, error) {
	sizeMod, err := m.SizeModifier()
	if err != nil {
		return 0, err
	}
	return m.bab.Total() +
		sizeMod +
		m.key.Modifier() +
		int(m.Enhancement.Total()) +
		int(m.Untyped.Total()) -
		int(m.Penalties.Total()), nil
}
