package item

import (
	"fmt"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/character"
	"github.com/cory-johannsen/statblock/internal/game/enchant"
	"github.com/cory-johannsen/statblock/internal/game/spell"
)

// MaxEnhancementBonus is the largest enhancement bonus an item may carry.
const MaxEnhancementBonus = 5

// WeaponEnchantment is an enchantment that can be placed on a weapon.
type WeaponEnchantment interface {
	enchant.Enchantment
	// EnchantWeapon applies the enchantment's effect to w.
	EnchantWeapon(w *Weapon) error
}

// ArmorEnchantment is an enchantment that can be placed on armor or a shield.
type ArmorEnchantment interface {
	enchant.Enchantment
	// EnchantArmor applies the enchantment's effect to a.
	EnchantArmor(a *Armor) error
}

// EnhancementBonusKind is the Kind of every EnhancementBonus.
const EnhancementBonusKind = "enhancement_bonus"

// EnhancementBonus is the +1 to +5 enhancement every magic weapon or armor starts with.
type EnhancementBonus struct {
	bonus int
}

// NewEnhancementBonus creates a +bonus enhancement.
//
// Precondition: 1 <= bonus <= MaxEnhancementBonus.
func NewEnhancementBonus(bonus int) (*EnhancementBonus, error) {
	if bonus < 1 || bonus > MaxEnhancementBonus {
		return nil, rpgerr.InvalidArgumentf("enhancement bonus must be in [1, %d], got %d", MaxEnhancementBonus, bonus)
	}
	return &EnhancementBonus{bonus: bonus}, nil
}

// Bonus returns the enhancement value.
func (e *EnhancementBonus) Bonus() int { return e.bonus }

// Kind returns EnhancementBonusKind.
func (e *EnhancementBonus) Kind() string { return EnhancementBonusKind }

// Name returns the signed bonus, e.g. "+2".
func (e *EnhancementBonus) Name() string { return fmt.Sprintf("+%d", e.bonus) }

// Cost is zero; the bonus is priced through SpecialAbilityBonus.
func (e *EnhancementBonus) Cost() int { return 0 }

// SpecialAbilityBonus counts the full enhancement toward the price bonus.
func (e *EnhancementBonus) SpecialAbilityBonus() int { return e.bonus }

// CasterLevel is three times the bonus.
func (e *EnhancementBonus) CasterLevel() int { return 3 * e.bonus }

// Schools is always Evocation.
func (e *EnhancementBonus) Schools() []spell.School {
	return []spell.School{spell.Evocation}
}

// IsEnhancementBonus is always true.
func (e *EnhancementBonus) IsEnhancementBonus() bool { return true }

// ApplyTo does nothing: the bonus reaches the character through the equipped item.
func (e *EnhancementBonus) ApplyTo(*character.Character) {}

// EnchantWeapon adds the bonus to the weapon's enhancement tracker.
func (e *EnhancementBonus) EnchantWeapon(w *Weapon) error {
	if !w.Masterwork() {
		return rpgerr.InvalidStatef("%s must be masterwork to be enchanted", w.Name)
	}
	w.Enhancement.Add(uint8(e.bonus))
	return nil
}

// EnchantArmor adds the bonus to the armor's enhancement tracker.
func (e *EnhancementBonus) EnchantArmor(a *Armor) error {
	if !a.Masterwork() {
		return rpgerr.InvalidStatef("%s must be masterwork to be enchanted", a.Name)
	}
	a.Enhancement.Add(uint8(e.bonus))
	return nil
}
