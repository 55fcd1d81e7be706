package catalog

import (
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/statblock/internal/game/condition"
	"github.com/cory-johannsen/statblock/internal/game/item"
	"github.com/cory-johannsen/statblock/internal/game/spell"
	"github.com/cory-johannsen/statblock/internal/scripting"
)

// WeaponDefinition is the YAML form of a mundane weapon.
type WeaponDefinition struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Price  int    `yaml:"price"`
	Ranged bool   `yaml:"ranged"`
}

// ArmorDefinition is the YAML form of mundane armor or a shield.
type ArmorDefinition struct {
	ID             string `yaml:"id"`
	item.ArmorSpec `yaml:",inline"`
}

// Registry holds loaded content indexed by ID (enchantments by kind).
type Registry struct {
	enchantments map[string]*Enchantment
	spells       map[string]*spell.Definition
	weapons      map[string]*WeaponDefinition
	armor        map[string]*ArmorDefinition
	conditions   map[string]*condition.Definition
	engine       *scripting.Engine
	logger       *zap.Logger
}

// NewRegistry returns an empty Registry compiling enchantment formulas with engine.
// A nil engine rejects formula effects; a nil logger disables logging.
//
// Postcondition: all internal maps are initialised.
func NewRegistry(engine *scripting.Engine, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		enchantments: make(map[string]*Enchantment),
		spells:       make(map[string]*spell.Definition),
		weapons:      make(map[string]*WeaponDefinition),
		armor:        make(map[string]*ArmorDefinition),
		conditions:   make(map[string]*condition.Definition),
		engine:       engine,
		logger:       logger,
	}
}

// RegisterEnchantment compiles and adds def.
//
// Postcondition: Enchantment(def.Kind) returns the compiled enchantment; returns
// error if def is invalid or its kind is already registered.
func (r *Registry) RegisterEnchantment(def *EnchantmentDefinition) error {
	if _, exists := r.enchantments[def.Kind]; exists {
		return fmt.Errorf("catalog: enchantment kind %q already registered", def.Kind)
	}
	e, err := Compile(def, r.engine, r.logger.With(zap.String("enchantment", def.Kind)))
	if err != nil {
		return err
	}
	r.enchantments[def.Kind] = e
	return nil
}

// RegisterSpell validates and adds def.
func (r *Registry) RegisterSpell(def *spell.Definition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("catalog: spell %q: %w", def.ID, err)
	}
	if _, exists := r.spells[def.ID]; exists {
		return fmt.Errorf("catalog: spell ID %q already registered", def.ID)
	}
	r.spells[def.ID] = def
	return nil
}

// RegisterWeapon adds def.
func (r *Registry) RegisterWeapon(def *WeaponDefinition) error {
	if def.ID == "" || def.Name == "" {
		return fmt.Errorf("catalog: weapon needs an id and a name, got %q/%q", def.ID, def.Name)
	}
	if _, exists := r.weapons[def.ID]; exists {
		return fmt.Errorf("catalog: weapon ID %q already registered", def.ID)
	}
	r.weapons[def.ID] = def
	return nil
}

// RegisterArmor adds def.
func (r *Registry) RegisterArmor(def *ArmorDefinition) error {
	if def.ID == "" || def.Name == "" {
		return fmt.Errorf("catalog: armor needs an id and a name, got %q/%q", def.ID, def.Name)
	}
	if _, exists := r.armor[def.ID]; exists {
		return fmt.Errorf("catalog: armor ID %q already registered", def.ID)
	}
	r.armor[def.ID] = def
	return nil
}

// RegisterCondition validates and adds def.
func (r *Registry) RegisterCondition(def *condition.Definition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("catalog: condition %q: %w", def.ID, err)
	}
	if _, exists := r.conditions[def.ID]; exists {
		return fmt.Errorf("catalog: condition ID %q already registered", def.ID)
	}
	r.conditions[def.ID] = def
	return nil
}

// Enchantment returns the enchantment of the given kind.
func (r *Registry) Enchantment(kind string) (*Enchantment, bool) {
	e, ok := r.enchantments[kind]
	return e, ok
}

// Spell returns the spell with the given ID.
func (r *Registry) Spell(id string) (*spell.Definition, bool) {
	d, ok := r.spells[id]
	return d, ok
}

// Weapon returns the weapon with the given ID.
func (r *Registry) Weapon(id string) (*WeaponDefinition, bool) {
	d, ok := r.weapons[id]
	return d, ok
}

// Armor returns the armor with the given ID.
func (r *Registry) Armor(id string) (*ArmorDefinition, bool) {
	d, ok := r.armor[id]
	return d, ok
}

// Condition returns the condition with the given ID.
func (r *Registry) Condition(id string) (*condition.Definition, bool) {
	d, ok := r.conditions[id]
	return d, ok
}

// EnchantmentKinds returns every registered kind, sorted.
func (r *Registry) EnchantmentKinds() []string {
	kinds := make([]string, 0, len(r.enchantments))
	for k := range r.enchantments {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Load registers the content found under root:
//
//	root/enchantments/*.yaml   lists of EnchantmentDefinition
//	root/spells/*.yaml         lists of spell.Definition
//	root/weapons/*.yaml        lists of WeaponDefinition
//	root/armor/*.yaml          lists of ArmorDefinition
//	root/conditions/*.yaml     lists of condition.Definition
//
// Missing subdirectories are skipped.
func (r *Registry) Load(root string) error {
	enchantments, err := loadDir[EnchantmentDefinition](filepath.Join(root, "enchantments"))
	if err != nil {
		return err
	}
	for _, d := range enchantments {
		if err := r.RegisterEnchantment(d); err != nil {
			return err
		}
	}
	spells, err := loadDir[spell.Definition](filepath.Join(root, "spells"))
	if err != nil {
		return err
	}
	for _, d := range spells {
		if err := r.RegisterSpell(d); err != nil {
			return err
		}
	}
	weapons, err := loadDir[WeaponDefinition](filepath.Join(root, "weapons"))
	if err != nil {
		return err
	}
	for _, d := range weapons {
		if err := r.RegisterWeapon(d); err != nil {
			return err
		}
	}
	armor, err := loadDir[ArmorDefinition](filepath.Join(root, "armor"))
	if err != nil {
		return err
	}
	for _, d := range armor {
		if err := r.RegisterArmor(d); err != nil {
			return err
		}
	}
	conditions, err := loadDir[condition.Definition](filepath.Join(root, "conditions"))
	if err != nil {
		return err
	}
	for _, d := range conditions {
		if err := r.RegisterCondition(d); err != nil {
			return err
		}
	}
	r.logger.Info("content loaded",
		zap.String("root", root),
		zap.Int("enchantments", len(r.enchantments)),
		zap.Int("spells", len(r.spells)),
		zap.Int("weapons", len(r.weapons)),
		zap.Int("armor", len(r.armor)),
		zap.Int("conditions", len(r.conditions)),
	)
	return nil
}
