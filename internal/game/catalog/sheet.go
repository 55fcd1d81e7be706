package catalog

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/character"
	"github.com/cory-johannsen/statblock/internal/game/condition"
	"github.com/cory-johannsen/statblock/internal/game/dice"
	"github.com/cory-johannsen/statblock/internal/game/item"
	"github.com/cory-johannsen/statblock/internal/game/offense"
	"github.com/cory-johannsen/statblock/internal/game/save"
	"github.com/cory-johannsen/statblock/internal/game/size"
	"github.com/cory-johannsen/statblock/internal/game/spell"
)

// SpellRef names a known spell and the ability that sets its DC.
type SpellRef struct {
	ID      string `yaml:"id"`
	Ability string `yaml:"ability"`
}

// ItemRef names a catalog weapon or armor and how it is improved.
type ItemRef struct {
	ID           string   `yaml:"id"`
	Masterwork   bool     `yaml:"masterwork"`
	Enhancement  int      `yaml:"enhancement"`
	Enchantments []string `yaml:"enchantments"`
	// Proficient applies to armor only; it defaults to true.
	Proficient *bool `yaml:"proficient"`
}

// ConditionRef names a catalog condition affecting the character.
type ConditionRef struct {
	ID string `yaml:"id"`
	// Stacks defaults to 1.
	Stacks int `yaml:"stacks"`
	// Rounds applies to timed conditions only; 0 means until removed.
	Rounds int `yaml:"rounds"`
}

// Sheet is the YAML form of a character with spells and equipment.
type Sheet struct {
	Name        string            `yaml:"name"`
	Level       int               `yaml:"level"`
	Size        string            `yaml:"size"`
	Abilities   map[string]*uint8 `yaml:"abilities"`
	Progression string            `yaml:"progression"`
	GoodSaves   []string          `yaml:"good_saves"`
	// HitPoints is the hit dice total; when zero HitDice is rolled instead.
	HitPoints uint16     `yaml:"hit_points"`
	HitDice   string     `yaml:"hit_dice"`
	Spells    []SpellRef `yaml:"spells"`
	Weapons   []ItemRef  `yaml:"weapons"`
	Armor     []ItemRef  `yaml:"armor"`

	Conditions []ConditionRef `yaml:"conditions"`
}

// LoadSheet reads the character sheet at path.
func LoadSheet(path string) (*Sheet, error) {
	var s Sheet
	if err := decodeFile(path, &s); err != nil {
		return nil, err
	}
	if s.Name == "" {
		return nil, fmt.Errorf("sheet %s: name must not be empty", path)
	}
	return &s, nil
}

// options converts the sheet into character build options, rolling hit dice if needed.
func (s *Sheet) options(roller *dice.Roller) (character.Options, error) {
	var errs []error
	opts := character.Options{
		Name:      s.Name,
		Level:     s.Level,
		Abilities: s.Abilities,
		HitDice:   s.HitPoints,
	}
	if s.Size != "" {
		sz, err := size.Parse(s.Size)
		errs = append(errs, err)
		opts.Size = sz
	}
	if s.Progression != "" {
		p, err := offense.ParseProgression(s.Progression)
		errs = append(errs, err)
		opts.Progression = &p
	}
	for _, name := range s.GoodSaves {
		k, err := save.ParseKind(name)
		errs = append(errs, err)
		opts.GoodSaves = append(opts.GoodSaves, k)
	}
	if opts.HitDice == 0 && s.HitDice != "" {
		if roller == nil {
			errs = append(errs, errors.New("hit_dice requires a dice roller"))
		} else if r, err := roller.RollExpr(s.HitDice); err != nil {
			errs = append(errs, err)
		} else {
			opts.HitDice = uint16(max(r.Total(), 0))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return character.Options{}, fmt.Errorf("sheet %q: %w", s.Name, err)
	}
	return opts, nil
}

// Statblock is a built character with its equipment and spells.
type Statblock struct {
	Character *character.Character
	Weapons   []*item.Weapon
	Armor     []*item.Armor
	Spells    []*spell.CastableSpell
	// Conditions is never nil once built.
	Conditions *condition.ActiveSet
}

// Build constructs the statblock described by s from catalog content. The roller
// is only needed when the sheet rolls its hit dice.
func (r *Registry) Build(s *Sheet, roller *dice.Roller, pricing item.Pricing) (*Statblock, error) {
	opts, err := s.options(roller)
	if err != nil {
		return nil, err
	}
	c, err := character.Build(opts)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
	}
	conditions, err := condition.NewActiveSet(c, r.logger)
	if err != nil {
		return nil, err
	}
	sb := &Statblock{Character: c, Conditions: conditions}

	for _, ref := range s.Spells {
		def, ok := r.Spell(ref.ID)
		if !ok {
			return nil, fmt.Errorf("sheet %q: unknown spell %q", s.Name, ref.ID)
		}
		a, err := ability.ParseAbility(ref.Ability)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: spell %q: %w", s.Name, ref.ID, err)
		}
		cs, err := c.Learn(def, a)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: spell %q: %w", s.Name, ref.ID, err)
		}
		sb.Spells = append(sb.Spells, cs)
	}

	for _, ref := range s.Weapons {
		w, err := r.weapon(ref, pricing)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
		if _, err := w.Wield(c); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
		sb.Weapons = append(sb.Weapons, w)
	}

	for _, ref := range s.Armor {
		a, err := r.armorPiece(ref, pricing)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
		proficient := ref.Proficient == nil || *ref.Proficient
		if err := a.Equip(c, proficient); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
		sb.Armor = append(sb.Armor, a)
	}

	for _, ref := range s.Conditions {
		def, ok := r.Condition(ref.ID)
		if !ok {
			return nil, fmt.Errorf("sheet %q: unknown condition %q", s.Name, ref.ID)
		}
		stacks, rounds := max(ref.Stacks, 1), ref.Rounds
		if rounds == 0 {
			rounds = -1
		}
		if err := conditions.Apply(def, stacks, rounds); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
	}

	r.logger.Debug("statblock built",
		zap.String("character", c.Name),
		zap.Int("weapons", len(sb.Weapons)),
		zap.Int("armor", len(sb.Armor)),
		zap.Int("spells", len(sb.Spells)),
		zap.Strings("conditions", conditions.Labels()),
	)
	return sb, nil
}

func (r *Registry) weapon(ref ItemRef, pricing item.Pricing) (*item.Weapon, error) {
	def, ok := r.Weapon(ref.ID)
	if !ok {
		return nil, fmt.Errorf("unknown weapon %q", ref.ID)
	}
	w, err := item.NewWeapon(def.Name, def.Price, def.Ranged, pricing, r.logger)
	if err != nil {
		return nil, err
	}
	if err := w.SetMasterwork(ref.Masterwork || ref.Enhancement > 0); err != nil {
		return nil, err
	}
	enchantments, err := r.resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("weapon %q: %w", ref.ID, err)
	}
	for _, e := range enchantments {
		if err := w.EnchantWith(e); err != nil {
			return nil, fmt.Errorf("weapon %q: %w", ref.ID, err)
		}
	}
	return w, nil
}

func (r *Registry) armorPiece(ref ItemRef, pricing item.Pricing) (*item.Armor, error) {
	def, ok := r.Armor(ref.ID)
	if !ok {
		return nil, fmt.Errorf("unknown armor %q", ref.ID)
	}
	a, err := item.NewArmor(def.ArmorSpec, pricing, r.logger)
	if err != nil {
		return nil, err
	}
	if err := a.SetMasterwork(ref.Masterwork || ref.Enhancement > 0); err != nil {
		return nil, err
	}
	enchantments, err := r.resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("armor %q: %w", ref.ID, err)
	}
	for _, e := range enchantments {
		if err := a.EnchantWith(e); err != nil {
			return nil, fmt.Errorf("armor %q: %w", ref.ID, err)
		}
	}
	return a, nil
}

// placeable is an enchantment that can go on weapons and armor alike.
type placeable interface {
	item.WeaponEnchantment
	item.ArmorEnchantment
}

// resolve returns the enhancement bonus of ref followed by its named enchantments.
func (r *Registry) resolve(ref ItemRef) ([]placeable, error) {
	var out []placeable
	if ref.Enhancement != 0 {
		e, err := item.NewEnhancementBonus(ref.Enhancement)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	for _, kind := range ref.Enchantments {
		e, ok := r.Enchantment(kind)
		if !ok {
			return nil, fmt.Errorf("unknown enchantment %q", kind)
		}
		out = append(out, e)
	}
	return out, nil
}
