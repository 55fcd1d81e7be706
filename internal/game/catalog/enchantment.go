package catalog

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/character"
	"github.com/cory-johannsen/statblock/internal/game/item"
	"github.com/cory-johannsen/statblock/internal/game/spell"
	"github.com/cory-johannsen/statblock/internal/scripting"
)

// Slot is the kind of item an enchantment may be placed on.
type Slot string

const (
	WeaponSlot Slot = "weapon"
	ArmorSlot  Slot = "armor"
)

// EffectDefinition adds one contribution to a character tracker. Exactly one of
// Amount and Formula is set.
type EffectDefinition struct {
	// Target is a tracker path such as "armor_class.deflection".
	Target  string `yaml:"target"`
	Amount  *uint8 `yaml:"amount,omitempty"`
	Formula string `yaml:"formula,omitempty"`
}

// EnchantmentDefinition is the YAML form of a special ability.
type EnchantmentDefinition struct {
	Kind                string             `yaml:"kind"`
	Name                string             `yaml:"name"`
	Slots               []Slot             `yaml:"slots"`
	Cost                int                `yaml:"cost"`
	SpecialAbilityBonus int                `yaml:"bonus"`
	CasterLevel         int                `yaml:"caster_level"`
	Schools             []spell.School     `yaml:"schools"`
	Effects             []EffectDefinition `yaml:"effects"`
}

// Validate reports every problem with the definition.
//
// Postcondition: Returns nil iff the definition is well-formed.
func (d *EnchantmentDefinition) Validate() error {
	var errs []error
	if d.Kind == "" {
		errs = append(errs, errors.New("kind must not be empty"))
	}
	if d.Kind == item.EnhancementBonusKind {
		errs = append(errs, fmt.Errorf("kind %q is reserved", d.Kind))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(d.Slots) == 0 {
		errs = append(errs, errors.New("at least one slot is required"))
	}
	for _, s := range d.Slots {
		if s != WeaponSlot && s != ArmorSlot {
			errs = append(errs, fmt.Errorf("unknown slot %q", s))
		}
	}
	if d.Cost < 0 {
		errs = append(errs, fmt.Errorf("cost must be >= 0, got %d", d.Cost))
	}
	if d.SpecialAbilityBonus < 0 || d.SpecialAbilityBonus > item.MaxEnhancementBonus {
		errs = append(errs, fmt.Errorf("bonus must be 0-%d, got %d", item.MaxEnhancementBonus, d.SpecialAbilityBonus))
	}
	if d.CasterLevel < 1 || d.CasterLevel > 20 {
		errs = append(errs, fmt.Errorf("caster_level must be 1-20, got %d", d.CasterLevel))
	}
	for i, e := range d.Effects {
		if !character.IsTrackerPath(e.Target) {
			errs = append(errs, fmt.Errorf("effect %d: unknown target %q", i, e.Target))
		}
		if (e.Amount == nil) == (e.Formula == "") {
			errs = append(errs, fmt.Errorf("effect %d: exactly one of amount and formula is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("enchantment %q validation failed: %w", d.Kind, errors.Join(errs...))
	}
	return nil
}

// Allows reports whether the enchantment may be placed on slot.
func (d *EnchantmentDefinition) Allows(slot Slot) bool {
	return slices.Contains(d.Slots, slot)
}

type effect struct {
	target  string
	amount  uint8
	formula *scripting.Formula
}

// Enchantment is a compiled EnchantmentDefinition. It can be placed on any
// weapon or armor its slots allow.
type Enchantment struct {
	def     *EnchantmentDefinition
	effects []effect
	logger  *zap.Logger
}

var (
	_ item.WeaponEnchantment = (*Enchantment)(nil)
	_ item.ArmorEnchantment  = (*Enchantment)(nil)
)

// Compile validates def and compiles its formulas with engine.
//
// Precondition: engine must not be nil when def has formula effects.
func Compile(def *EnchantmentDefinition, engine *scripting.Engine, logger *zap.Logger) (*Enchantment, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Enchantment{def: def, logger: logger}
	for i, ed := range def.Effects {
		fx := effect{target: ed.Target}
		if ed.Amount != nil {
			fx.amount = *ed.Amount
		} else {
			if engine == nil {
				return nil, fmt.Errorf("enchantment %q effect %d: formula requires a scripting engine", def.Kind, i)
			}
			f, err := engine.Compile(fmt.Sprintf("%s/%d", def.Kind, i), ed.Formula)
			if err != nil {
				return nil, fmt.Errorf("enchantment %q effect %d: %w", def.Kind, i, err)
			}
			fx.formula = f
		}
		e.effects = append(e.effects, fx)
	}
	return e, nil
}

// Definition returns the source definition.
func (e *Enchantment) Definition() *EnchantmentDefinition { return e.def }

func (e *Enchantment) Kind() string { return e.def.Kind }

func (e *Enchantment) Name() string { return e.def.Name }

func (e *Enchantment) Cost() int { return e.def.Cost }

func (e *Enchantment) SpecialAbilityBonus() int { return e.def.SpecialAbilityBonus }

func (e *Enchantment) CasterLevel() int { return e.def.CasterLevel }

func (e *Enchantment) Schools() []spell.School { return slices.Clone(e.def.Schools) }

func (e *Enchantment) IsEnhancementBonus() bool { return false }

// EnchantWeapon checks that the enchantment may be placed on a weapon.
func (e *Enchantment) EnchantWeapon(w *item.Weapon) error {
	return e.place(WeaponSlot, w.Name)
}

// EnchantArmor checks that the enchantment may be placed on armor.
func (e *Enchantment) EnchantArmor(a *item.Armor) error {
	return e.place(ArmorSlot, a.Name)
}

func (e *Enchantment) place(slot Slot, name string) error {
	if !e.def.Allows(slot) {
		return rpgerr.InvalidArgumentf("%s cannot be placed on %s %s", e.def.Name, slot, name)
	}
	return nil
}

// ApplyTo adds every effect to c. Formula effects are re-evaluated whenever the
// tracker is read.
func (e *Enchantment) ApplyTo(c *character.Character) {
	for _, fx := range e.effects {
		t, err := c.Tracker(fx.target)
		if err != nil {
			e.logger.Error("enchantment effect target missing",
				zap.String("kind", e.def.Kind),
				zap.String("target", fx.target),
				zap.Error(err),
			)
			continue
		}
		if fx.formula == nil {
			t.Add(fx.amount)
			continue
		}
		if err := t.AddFunc(fx.formula.Calculation(func() map[string]int {
			return Variables(c, e.def.CasterLevel)
		})); err != nil {
			e.logger.Error("enchantment formula rejected", zap.String("kind", e.def.Kind), zap.Error(err))
		}
	}
}

// Variables returns the names formulas may read for c:
//
//	level, caster_level, item_caster_level, base_attack_bonus,
//	<ability> (score, 0 when untracked) and <ability>_modifier.
func Variables(c *character.Character, itemCasterLevel int) map[string]int {
	vars := map[string]int{
		"level":             c.Level(),
		"caster_level":      int(c.CasterLevel.Total()),
		"item_caster_level": itemCasterLevel,
		"base_attack_bonus": c.BaseAttackBonus.Total(),
	}
	for _, a := range ability.All() {
		s, err := c.Abilities.Get(a)
		if err != nil {
			continue
		}
		total, _ := s.Total()
		vars[a.String()] = int(total)
		vars[a.String()+"_modifier"] = s.Modifier()
	}
	return vars
}
