// Package enchant aggregates the enchantments applied to a magic item into its market
// price, caster level, aura schools and name, and propagates their effects onto the
// item and onto the character that equips it.
package enchant

import (
	"reflect"
	"slices"
	"sort"

	"go.uber.org/zap"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/character"
	"github.com/cory-johannsen/statblock/internal/game/spell"
)

// Enchantment is one magical property of an item.
type Enchantment interface {
	// Kind identifies the enchantment variant. An item carries at most one
	// enchantment of each kind.
	Kind() string
	Name() string
	// Cost is the flat gold piece cost added to the market price.
	Cost() int
	// SpecialAbilityBonus is the equivalent enhancement bonus used in the
	// squared price formula.
	SpecialAbilityBonus() int
	CasterLevel() int
	Schools() []spell.School
	// IsEnhancementBonus reports whether this is the enhancement bonus every other
	// enchantment requires.
	IsEnhancementBonus() bool
	// ApplyTo adds the enchantment's effect to a character wearing or wielding the item.
	ApplyTo(c *character.Character)
}

// State is the lifecycle state of an Aggregator.
type State int

const (
	// Unattached aggregators only affect their item.
	Unattached State = iota
	// Attached aggregators also apply every new enchantment to their character.
	Attached
)

// String returns the lowercase name of the state.
func (s State) String() string {
	if s == Attached {
		return "attached"
	}
	return "unattached"
}

// Aggregator accumulates the enchantments of one item of type I.
// Enchantments are only ever added, never removed.
// It is not safe for concurrent use.
type Aggregator[E Enchantment, I any] struct {
	item            I
	enchantItem     func(E, I) error
	costCoefficient int
	enchantments    []E
	wearer          *character.Character
	logger          *zap.Logger
}

// New creates an Aggregator for item.
//
// enchantItem applies an enchantment's effect to the item; costCoefficient scales the
// squared special-ability bonus in MarketPrice (2000 for weapons, 1000 for armor).
// A nil logger disables logging.
//
// Precondition: enchantItem must not be nil; costCoefficient must be >= 0.
func New[E Enchantment, I any](item I, enchantItem func(E, I) error, costCoefficient int, logger *zap.Logger) (*Aggregator[E, I], error) {
	if enchantItem == nil {
		return nil, rpgerr.InvalidArgument("enchant-item callback must not be nil")
	}
	if costCoefficient < 0 {
		return nil, rpgerr.InvalidArgumentf("cost coefficient must be >= 0, got %d", costCoefficient)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator[E, I]{
		item:            item,
		enchantItem:     enchantItem,
		costCoefficient: costCoefficient,
		logger:          logger,
	}, nil
}

// Item returns the enchanted item.
func (a *Aggregator[E, I]) Item() I {
	return a.item
}

// State reports whether a character is attached.
func (a *Aggregator[E, I]) State() State {
	if a.wearer != nil {
		return Attached
	}
	return Unattached
}

// Character returns the attached character, if any.
func (a *Aggregator[E, I]) Character() (*character.Character, bool) {
	return a.wearer, a.wearer != nil
}

// Enchantments returns the applied enchantments in the order they were added.
func (a *Aggregator[E, I]) Enchantments() []E {
	return slices.Clone(a.enchantments)
}

// Len returns the number of applied enchantments.
func (a *Aggregator[E, I]) Len() int {
	return len(a.enchantments)
}

// EnhancementBonus returns the enhancement-bonus enchantment, if present.
func (a *Aggregator[E, I]) EnhancementBonus() (E, bool) {
	for _, e := range a.enchantments {
		if e.IsEnhancementBonus() {
			return e, true
		}
	}
	var zero E
	return zero, false
}

// Has reports whether an enchantment of kind is present.
func (a *Aggregator[E, I]) Has(kind string) bool {
	for _, e := range a.enchantments {
		if e.Kind() == kind {
			return true
		}
	}
	return false
}

// EnchantWith applies e to the item and records it. When a character is attached,
// e is applied to that character as well.
//
// Precondition: e must not be nil.
// Postcondition: on error the item and the aggregator are unchanged.
func (a *Aggregator[E, I]) EnchantWith(e E) error {
	if isNil(e) {
		return rpgerr.InvalidArgument("enchantment must not be nil")
	}
	if _, ok := a.EnhancementBonus(); !ok && !e.IsEnhancementBonus() {
		return rpgerr.InvalidStatef("%s requires an enhancement bonus first", e.Name()).
			WithMeta("kind", e.Kind())
	}
	if a.Has(e.Kind()) {
		return rpgerr.InvalidStatef("item already has a %s enchantment", e.Kind()).
			WithMeta("kind", e.Kind())
	}
	if err := a.enchantItem(e, a.item); err != nil {
		return rpgerr.Wrapf(err, "enchanting item with %s", e.Name())
	}
	a.enchantments = append(a.enchantments, e)
	a.logger.Debug("item enchanted",
		zap.String("kind", e.Kind()),
		zap.String("name", e.Name()),
		zap.Int("enchantments", len(a.enchantments)),
	)
	if a.wearer != nil {
		e.ApplyTo(a.wearer)
		a.logger.Debug("enchantment applied to character",
			zap.String("kind", e.Kind()),
			zap.String("character", a.wearer.Name),
		)
	}
	return nil
}

// ApplyTo attaches c and applies every recorded enchantment to it. Enchantments
// added afterwards are applied to c immediately.
//
// Precondition: c must not be nil.
func (a *Aggregator[E, I]) ApplyTo(c *character.Character) error {
	if c == nil {
		return rpgerr.InvalidArgument("character must not be nil")
	}
	a.wearer = c
	for _, e := range a.enchantments {
		e.ApplyTo(c)
	}
	a.logger.Debug("enchantments applied to character",
		zap.String("character", c.Name),
		zap.Int("enchantments", len(a.enchantments)),
	)
	return nil
}

// MarketPrice returns Σ cost + costCoefficient × (Σ special ability bonus)².
func (a *Aggregator[E, I]) MarketPrice() int {
	flat, bonus := 0, 0
	for _, e := range a.enchantments {
		flat += e.Cost()
		bonus += e.SpecialAbilityBonus()
	}
	return flat + a.costCoefficient*bonus*bonus
}

// CasterLevel returns the highest caster level among the enchantments.
//
// Postcondition: ok is false iff there are no enchantments.
func (a *Aggregator[E, I]) CasterLevel() (level int, ok bool) {
	for _, e := range a.enchantments {
		if !ok || e.CasterLevel() > level {
			level = e.CasterLevel()
			ok = true
		}
	}
	return level, ok
}

// Schools returns the schools of the item's aura. The enhancement bonus's school
// only shows when it is the sole enchantment.
//
// Postcondition: the result is sorted and free of duplicates.
func (a *Aggregator[E, I]) Schools() []spell.School {
	seen := make(map[spell.School]struct{})
	special := false
	for _, e := range a.enchantments {
		if e.IsEnhancementBonus() {
			continue
		}
		special = true
		for _, s := range e.Schools() {
			seen[s] = struct{}{}
		}
	}
	if !special {
		for _, e := range a.enchantments {
			for _, s := range e.Schools() {
				seen[s] = struct{}{}
			}
		}
	}
	out := make([]spell.School, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Names returns the enhancement bonus's name (ok is false when absent) and the
// names of every other enchantment, sorted.
func (a *Aggregator[E, I]) Names() (enhancement string, ok bool, others []string) {
	others = []string{}
	for _, e := range a.enchantments {
		if e.IsEnhancementBonus() {
			enhancement, ok = e.Name(), true
			continue
		}
		others = append(others, e.Name())
	}
	sort.Strings(others)
	return enhancement, ok, others
}

// isNil reports whether e is a nil interface or a typed nil pointer.
func isNil[E Enchantment](e E) bool {
	if any(e) == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
