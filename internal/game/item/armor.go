package item

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/character"
	"github.com/cory-johannsen/statblock/internal/game/enchant"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
)

// ArmorSpec describes a mundane suit of armor or shield.
type ArmorSpec struct {
	Name      string `yaml:"name"`
	BasePrice int    `yaml:"price"`
	Bonus     uint8  `yaml:"bonus"`
	// MaxDexterity caps the wearer's Dexterity bonus to armor class; nil means no cap.
	MaxDexterity *uint8 `yaml:"max_dexterity"`
	CheckPenalty uint8  `yaml:"check_penalty"`
	Shield       bool   `yaml:"shield"`
}

// Armor is a suit of armor or a shield.
type Armor struct {
	ID uuid.UUID
	ArmorSpec

	// Enhancement holds the armor's magical enhancement bonuses, added to Bonus.
	Enhancement *modifier.Tracker

	masterwork   bool
	pricing      Pricing
	enchantments *enchant.Aggregator[ArmorEnchantment, *Armor]
	wearer       *character.Character
}

// NewArmor creates mundane armor from spec.
//
// Precondition: spec.Name must be non-empty; spec.BasePrice must be >= 0.
func NewArmor(spec ArmorSpec, pricing Pricing, logger *zap.Logger) (*Armor, error) {
	if spec.Name == "" {
		return nil, rpgerr.InvalidArgument("armor name must not be empty")
	}
	if spec.BasePrice < 0 {
		return nil, rpgerr.InvalidArgumentf("armor base price must be >= 0, got %d", spec.BasePrice)
	}
	a := &Armor{
		ID:          uuid.New(),
		ArmorSpec:   spec,
		Enhancement: modifier.NewMaximum(),
		pricing:     pricing,
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	agg, err := enchant.New(a, func(e ArmorEnchantment, a *Armor) error {
		return e.EnchantArmor(a)
	}, pricing.ArmorCoefficient, logger.With(zap.String("item", spec.Name)))
	if err != nil {
		return nil, err
	}
	a.enchantments = agg
	return a, nil
}

// Masterwork reports whether the armor is of masterwork quality.
func (a *Armor) Masterwork() bool {
	return a.masterwork
}

// SetMasterwork toggles masterwork quality.
//
// Precondition: armor carrying enchantments cannot lose masterwork quality.
func (a *Armor) SetMasterwork(masterwork bool) error {
	if !masterwork && a.enchantments.Len() > 0 {
		return rpgerr.InvalidStatef("%s is enchanted and must remain masterwork", a.Name)
	}
	a.masterwork = masterwork
	return nil
}

// ArmorBonus returns the armor's bonus to armor class including its enhancement.
func (a *Armor) ArmorBonus() uint8 {
	return modifier.Clamp(int(a.Bonus) + int(a.Enhancement.Total()))
}

// ArmorCheckPenalty returns the check penalty, reduced by one for masterwork armor.
func (a *Armor) ArmorCheckPenalty() uint8 {
	if a.masterwork && a.CheckPenalty > 0 {
		return a.CheckPenalty - 1
	}
	return a.CheckPenalty
}

// EnchantWith adds e to the armor.
func (a *Armor) EnchantWith(e ArmorEnchantment) error {
	return a.enchantments.EnchantWith(e)
}

// Enchantments returns the armor's enchantment aggregator.
func (a *Armor) Enchantments() *enchant.Aggregator[ArmorEnchantment, *Armor] {
	return a.enchantments
}

// MarketPrice returns base price + masterwork cost + enchantment price.
func (a *Armor) MarketPrice() int {
	price := a.BasePrice + a.enchantments.MarketPrice()
	if a.masterwork {
		price += a.pricing.MasterworkArmor
	}
	return price
}

// FullName returns the name with its enhancement bonus and special abilities.
func (a *Armor) FullName() string {
	return fullName(a.Name, a.masterwork, a.enchantments.Names)
}

// Equip puts the armor on c. The armor (or shield) bonus and maximum Dexterity
// cap apply to c's armor class; a wearer not proficient with it also takes the
// armor check penalty on attack rolls.
//
// Precondition: c must not be nil; the armor must not already be worn.
func (a *Armor) Equip(c *character.Character, proficient bool) error {
	if c == nil {
		return rpgerr.InvalidArgument("wearer must not be nil")
	}
	if a.wearer != nil {
		return rpgerr.InvalidStatef("%s is already worn by %s", a.Name, a.wearer.Name)
	}
	slot := c.ArmorClass.Armor
	if a.Shield {
		slot = c.ArmorClass.Shield
	}
	if err := slot.AddFunc(a.ArmorBonus); err != nil {
		return err
	}
	if a.MaxDexterity != nil {
		c.ArmorClass.MaxKeyAbilityScore.Add(*a.MaxDexterity)
	}
	if !proficient {
		for _, penalties := range []*modifier.Tracker{c.MeleeAttack.Penalties, c.RangedAttack.Penalties} {
			if err := penalties.AddFunc(a.ArmorCheckPenalty); err != nil {
				return err
			}
		}
	}
	if err := a.enchantments.ApplyTo(c); err != nil {
		return err
	}
	a.wearer = c
	return nil
}

// Wearer returns the character wearing the armor, if any.
func (a *Armor) Wearer() (*character.Character, bool) {
	return a.wearer, a.wearer != nil
}
