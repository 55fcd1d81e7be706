package spell

import (
	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
)

// baseDifficultyClass is the floor of every spell save DC.
const baseDifficultyClass = 10

// CastableSpell is a spell bound to a caster: the key ability that sets its DC and
// the caster level it is cast at.
type CastableSpell struct {
	def         *Definition
	key         *ability.Score
	casterLevel *CasterLevel
	dcBonuses   *modifier.Tracker
}

// NewCastableSpell binds def to a caster.
//
// Precondition: def, key and casterLevel must not be nil.
func NewCastableSpell(def *Definition, key *ability.Score, casterLevel *CasterLevel) (*CastableSpell, error) {
	if def == nil {
		return nil, rpgerr.InvalidArgument("spell definition must not be nil")
	}
	if key == nil {
		return nil, rpgerr.InvalidArgument("key ability score must not be nil")
	}
	if casterLevel == nil {
		return nil, rpgerr.InvalidArgument("caster level must not be nil")
	}
	return &CastableSpell{
		def:         def,
		key:         key,
		casterLevel: casterLevel,
		dcBonuses:   modifier.NewSum(),
	}, nil
}

// Definition returns the spell being cast.
func (s *CastableSpell) Definition() *Definition {
	return s.def
}

// KeyAbilityScore returns the ability score that sets the DC.
func (s *CastableSpell) KeyAbilityScore() *ability.Score {
	return s.key
}

// AddDifficultyClassBonus adds an untyped bonus to the spell's DC, e.g. Spell Focus.
func (s *CastableSpell) AddDifficultyClassBonus(amount uint8) {
	s.dcBonuses.Add(amount)
}

// DifficultyClass returns 10 + spell level + key ability bonus + DC bonuses.
//
// Postcondition: ok is false iff the spell allows no saving throw.
func (s *CastableSpell) DifficultyClass() (dc int, ok bool) {
	if !s.def.AllowsSavingThrow {
		return 0, false
	}
	return baseDifficultyClass + s.def.Level + s.key.Bonus() + int(s.dcBonuses.Total()), true
}

// EffectiveCasterLevel returns the level the spell is cast at.
func (s *CastableSpell) EffectiveCasterLevel() uint8 {
	return s.casterLevel.Total()
}
