// Package character composes ability scores and derived statistics into a character.
//
// The Character owns every section. Derived statistics hold read-only references to
// the ability scores and to each other; none of them caches, so every Total reflects
// the current state of the whole sheet.
package character

import (
	"github.com/google/uuid"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/defense"
	"github.com/cory-johannsen/statblock/internal/game/offense"
	"github.com/cory-johannsen/statblock/internal/game/save"
	"github.com/cory-johannsen/statblock/internal/game/size"
	"github.com/cory-johannsen/statblock/internal/game/spell"
)

// Level bounds.
const (
	MinLevel = 1
	MaxLevel = 20
)

// Character is a player or non-player character sheet.
// It is not safe for concurrent use; the caller must serialise access.
type Character struct {
	ID   uuid.UUID
	Name string

	level int
	size  size.Category

	Abilities *ability.Scores

	BaseAttackBonus     *offense.BaseAttackBonus
	MeleeAttack         *offense.UniversalAttackBonus
	RangedAttack        *offense.UniversalAttackBonus
	CombatManeuverBonus *offense.CombatManeuverBonus

	ArmorClass            *defense.ArmorClass
	CombatManeuverDefense *defense.CombatManeuverDefense

	Fortitude *save.SavingThrow
	Reflex    *save.SavingThrow
	Will      *save.SavingThrow

	CasterLevel *spell.CasterLevel
	HitPoints   *HitPoints
}

// New creates a Medium character at level with every ability score at 10.
//
// Precondition: level must be within [MinLevel, MaxLevel].
// Postcondition: every section is wired; returns a non-nil Character or an error.
func New(name string, level int) (*Character, error) {
	if err := validateLevel(level); err != nil {
		return nil, err
	}
	c := &Character{
		ID:           uuid.New(),
		Name:         name,
		level:        level,
		size:         size.Medium,
		Abilities:    ability.NewScores(),
		MeleeAttack:  offense.NewUniversalAttackBonus(),
		RangedAttack: offense.NewUniversalAttackBonus(),
	}
	if err := c.wire(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Character) wire() error {
	var err error
	a := c.Abilities
	if c.BaseAttackBonus, err = offense.NewBaseAttackBonus(c); err != nil {
		return err
	}
	if c.CombatManeuverBonus, err = offense.NewCombatManeuverBonus(c, c.BaseAttackBonus, a.Strength, c.MeleeAttack); err != nil {
		return err
	}
	if c.ArmorClass, err = defense.NewArmorClass(c, a.Dexterity); err != nil {
		return err
	}
	if c.CombatManeuverDefense, err = defense.NewCombatManeuverDefense(c, c.BaseAttackBonus, a.Strength, a.Dexterity, c.ArmorClass); err != nil {
		return err
	}
	if c.Fortitude, err = save.NewSavingThrow(c, a.Constitution, false); err != nil {
		return err
	}
	if c.Reflex, err = save.NewSavingThrow(c, a.Dexterity, false); err != nil {
		return err
	}
	if c.Will, err = save.NewSavingThrow(c, a.Wisdom, false); err != nil {
		return err
	}
	if c.CasterLevel, err = spell.NewCasterLevel(c); err != nil {
		return err
	}
	if c.HitPoints, err = NewHitPoints(c, a.Constitution); err != nil {
		return err
	}
	return nil
}

func validateLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return rpgerr.InvalidArgumentf("level must be %d-%d, got %d", MinLevel, MaxLevel, level)
	}
	return nil
}

// Level returns the character level.
func (c *Character) Level() int {
	return c.level
}

// SetLevel changes the character level. Every statistic that depends on level
// reflects the change on its next read.
//
// Precondition: level must be within [MinLevel, MaxLevel].
func (c *Character) SetLevel(level int) error {
	if err := validateLevel(level); err != nil {
		return err
	}
	c.level = level
	return nil
}

// Size returns the character's size category.
func (c *Character) Size() size.Category {
	return c.size
}

// SetSize changes the character's size category. Categories without defined size
// modifiers are accepted here and reported by the statistics that need them.
func (c *Character) SetSize(s size.Category) {
	c.size = s
}

// SavingThrow returns the saving throw of kind k.
func (c *Character) SavingThrow(k save.Kind) (*save.SavingThrow, error) {
	switch k {
	case save.Fortitude:
		return c.Fortitude, nil
	case save.Reflex:
		return c.Reflex, nil
	case save.Will:
		return c.Will, nil
	}
	return nil, rpgerr.InvalidArgumentf("unknown saving throw %d", int(k))
}

// NewWeaponAttack creates the attack bonus of a weapon wielded by this character.
// Melee weapons key on Strength and share MeleeAttack; ranged weapons key on
// Dexterity and share RangedAttack.
func (c *Character) NewWeaponAttack(ranged bool) (*offense.WeaponAttackBonus, error) {
	if ranged {
		return offense.NewWeaponAttackBonus(c, c.BaseAttackBonus, c.Abilities.Dexterity, c.RangedAttack)
	}
	return offense.NewWeaponAttackBonus(c, c.BaseAttackBonus, c.Abilities.Strength, c.MeleeAttack)
}

// Learn binds a spell to this character, keyed on the given ability and cast at the
// character's caster level.
func (c *Character) Learn(def *spell.Definition, key ability.Ability) (*spell.CastableSpell, error) {
	score, err := c.Abilities.Get(key)
	if err != nil {
		return nil, err
	}
	return spell.NewCastableSpell(def, score, c.CasterLevel)
}
