// Package defense computes armor class and combat maneuver defense.
package defense

import (
	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
	"github.com/cory-johannsen/statblock/internal/game/size"
)

// baseArmorClass is the armor class of an unarmored, unmodified creature.
const baseArmorClass = 10

// Sized is anything with a size category.
type Sized interface {
	Size() size.Category
}

// ArmorClass is a character's defensive target value against attacks.
//
// MaxKeyAbilityScore caps the key ability modifier (armor's maximum Dexterity bonus);
// it is the only Minimum tracker in the engine.
type ArmorClass struct {
	owner Sized
	key   *ability.Score

	MaxKeyAbilityScore *modifier.Tracker

	Armor                   *modifier.Tracker
	Shield                  *modifier.Tracker
	Circumstance            *modifier.Tracker
	Dodge                   *modifier.Tracker
	Deflection              *modifier.Tracker
	Insight                 *modifier.Tracker
	Luck                    *modifier.Tracker
	Morale                  *modifier.Tracker
	NaturalArmor            *modifier.Tracker
	NaturalArmorEnhancement *modifier.Tracker
	Profane                 *modifier.Tracker
	Sacred                  *modifier.Tracker
	Untyped                 *modifier.Tracker

	Penalties *modifier.Tracker
}

// NewArmorClass creates an ArmorClass keyed on dexterity.
//
// Precondition: owner and dexterity must not be nil.
func NewArmorClass(owner Sized, dexterity *ability.Score) (*ArmorClass, error) {
	if owner == nil {
		return nil, rpgerr.InvalidArgument("armor class owner must not be nil")
	}
	if dexterity == nil {
		return nil, rpgerr.InvalidArgument("dexterity must not be nil")
	}
	return &ArmorClass{
		owner:                   owner,
		key:                     dexterity,
		MaxKeyAbilityScore:      modifier.NewMinimum(),
		Armor:                   modifier.NewMaximum(),
		Shield:                  modifier.NewMaximum(),
		Circumstance:            modifier.NewSum(),
		Dodge:                   modifier.NewSum(),
		Deflection:              modifier.NewMaximum(),
		Insight:                 modifier.NewMaximum(),
		Luck:                    modifier.NewMaximum(),
		Morale:                  modifier.NewMaximum(),
		NaturalArmor:            modifier.NewMaximum(),
		NaturalArmorEnhancement: modifier.NewMaximum(),
		Profane:                 modifier.NewMaximum(),
		Sacred:                  modifier.NewMaximum(),
		Untyped:                 modifier.NewSum(),
		Penalties:               modifier.NewSum(),
	}, nil
}

// KeyAbilityScore returns the ability score whose modifier is added to armor class.
func (ac *ArmorClass) KeyAbilityScore() *ability.Score {
	return ac.key
}

// SetKeyAbilityScore replaces the key ability score.
//
// Precondition: s must not be nil.
func (ac *ArmorClass) SetKeyAbilityScore(s *ability.Score) error {
	if s == nil {
		return rpgerr.InvalidArgument("key ability score must not be nil")
	}
	ac.key = s
	return nil
}

// SizeModifier returns the owner's size modifier (Small +1, Medium 0, Large -1).
func (ac *ArmorClass) SizeModifier() (int, error) {
	return size.AttackModifier(ac.owner.Size())
}

// KeyAbilityModifier returns the key ability modifier capped by MaxKeyAbilityScore.
func (ac *ArmorClass) KeyAbilityModifier() int {
	return min(ac.key.Modifier(), int(ac.MaxKeyAbilityScore.Total()))
}

// Total returns 10 + capped key modifier + size + every named bonus - penalties.
func (ac *ArmorClass) Total() (int, error) {
	return ac.total(ac.KeyAbilityModifier(), ac.namedBonuses())
}

// TouchTotal returns the armor class against touch attacks, which ignore armor,
// shield, and natural armor bonuses.
func (ac *ArmorClass) TouchTotal() (int, error) {
	return ac.total(ac.KeyAbilityModifier(), ac.sum(
		ac.Circumstance, ac.Dodge, ac.Deflection, ac.Insight, ac.Luck,
		ac.Morale, ac.Profane, ac.Sacred, ac.Untyped,
	))
}

// FlatFootedTotal returns the armor class of a creature caught unaware: positive key
// ability modifiers and dodge bonuses are lost, penalties still apply.
func (ac *ArmorClass) FlatFootedTotal() (int, error) {
	return ac.total(min(ac.KeyAbilityModifier(), 0), ac.sum(
		ac.Armor, ac.Shield, ac.Circumstance, ac.Deflection, ac.Insight,
		ac.Luck, ac.Morale, ac.NaturalArmor, ac.NaturalArmorEnhancement,
		ac.Profane, ac.Sacred, ac.Untyped,
	))
}

func (ac *ArmorClass) total(keyMod, bonuses int) (int, error) {
	sizeMod, err := ac.SizeModifier()
	if err != nil {
		return 0, err
	}
	return baseArmorClass + keyMod + sizeMod + bonuses - int(ac.Penalties.Total()), nil
}

func (ac *ArmorClass) namedBonuses() int {
	return ac.sum(
		ac.Armor, ac.Shield, ac.Circumstance, ac.Dodge, ac.Deflection,
		ac.Insight, ac.Luck, ac.Morale, ac.NaturalArmor, ac.NaturalArmorEnhancement,
		ac.Profane, ac.Sacred, ac.Untyped,
	)
}

func (ac *ArmorClass) sum(trackers ...*modifier.Tracker) int {
	total := 0
	for _, t := range trackers {
		total += int(t.Total())
	}
	return total
}
