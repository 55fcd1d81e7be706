package item

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/character"
	"github.com/cory-johannsen/statblock/internal/game/enchant"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
	"github.com/cory-johannsen/statblock/internal/game/offense"
)

// Weapon is a melee or ranged weapon.
//
// Enhancement holds the weapon's own enhancement bonuses. A masterwork weapon
// contributes +1, which does not stack with a magical enhancement bonus.
type Weapon struct {
	ID        uuid.UUID
	Name      string
	BasePrice int
	Ranged    bool

	Enhancement *modifier.Tracker

	masterwork   bool
	pricing      Pricing
	enchantments *enchant.Aggregator[WeaponEnchantment, *Weapon]
	wielder      *character.Character
	attack       *offense.WeaponAttackBonus
}

// NewWeapon creates a mundane weapon.
//
// Precondition: name must be non-empty; basePrice must be >= 0.
func NewWeapon(name string, basePrice int, ranged bool, pricing Pricing, logger *zap.Logger) (*Weapon, error) {
	if name == "" {
		return nil, rpgerr.InvalidArgument("weapon name must not be empty")
	}
	if basePrice < 0 {
		return nil, rpgerr.InvalidArgumentf("weapon base price must be >= 0, got %d", basePrice)
	}
	w := &Weapon{
		ID:          uuid.New(),
		Name:        name,
		BasePrice:   basePrice,
		Ranged:      ranged,
		Enhancement: modifier.NewMaximum(),
		pricing:     pricing,
	}
	if err := w.Enhancement.AddFunc(w.masterworkBonus); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	agg, err := enchant.New(w, func(e WeaponEnchantment, w *Weapon) error {
		return e.EnchantWeapon(w)
	}, pricing.WeaponCoefficient, logger.With(zap.String("item", name)))
	if err != nil {
		return nil, err
	}
	w.enchantments = agg
	return w, nil
}

func (w *Weapon) masterworkBonus() uint8 {
	if w.masterwork {
		return 1
	}
	return 0
}

// Masterwork reports whether the weapon is of masterwork quality.
func (w *Weapon) Masterwork() bool {
	return w.masterwork
}

// SetMasterwork toggles masterwork quality.
//
// Precondition: a weapon carrying enchantments cannot lose masterwork quality.
func (w *Weapon) SetMasterwork(masterwork bool) error {
	if !masterwork && w.enchantments.Len() > 0 {
		return rpgerr.InvalidStatef("%s is enchanted and must remain masterwork", w.Name)
	}
	w.masterwork = masterwork
	return nil
}

// EnchantWith adds e to the weapon.
func (w *Weapon) EnchantWith(e WeaponEnchantment) error {
	return w.enchantments.EnchantWith(e)
}

// Enchantments returns the weapon's enchantment aggregator.
func (w *Weapon) Enchantments() *enchant.Aggregator[WeaponEnchantment, *Weapon] {
	return w.enchantments
}

// MarketPrice returns base price + masterwork cost + enchantment price.
func (w *Weapon) MarketPrice() int {
	price := w.BasePrice + w.enchantments.MarketPrice()
	if w.masterwork {
		price += w.pricing.MasterworkWeapon
	}
	return price
}

// FullName returns the name with its enhancement bonus and special abilities,
// e.g. "+1 flaming frost longsword".
func (w *Weapon) FullName() string {
	return fullName(w.Name, w.masterwork, w.enchantments.Names)
}

// Wield attaches the weapon to c and returns its attack bonus. The weapon's
// enhancement bonus and every enchantment apply from now on.
//
// Precondition: c must not be nil; the weapon must not already be wielded.
func (w *Weapon) Wield(c *character.Character) (*offense.WeaponAttackBonus, error) {
	if c == nil {
		return nil, rpgerr.InvalidArgument("wielder must not be nil")
	}
	if w.wielder != nil {
		return nil, rpgerr.InvalidStatef("%s is already wielded by %s", w.Name, w.wielder.Name)
	}
	attack, err := c.NewWeaponAttack(w.Ranged)
	if err != nil {
		return nil, err
	}
	if err := attack.Enhancement.Mirror(w.Enhancement); err != nil {
		return nil, err
	}
	if err := w.enchantments.ApplyTo(c); err != nil {
		return nil, err
	}
	w.wielder = c
	w.attack = attack
	return attack, nil
}

// Attack returns the attack bonus created by Wield.
func (w *Weapon) Attack() (*offense.WeaponAttackBonus, bool) {
	return w.attack, w.attack != nil
}

func fullName(base string, masterwork bool, names func() (string, bool, []string)) string {
	enhancement, ok, others := names()
	parts := make([]string, 0, len(others)+2)
	switch {
	case ok:
		parts = append(parts, enhancement)
	case masterwork:
		parts = append(parts, "masterwork")
	}
	parts = append(parts, others...)
	parts = append(parts, base)
	return strings.Join(parts, " ")
}
