// Package offense computes a character's attack statistics: base attack bonus,
// per-category and per-weapon attack bonuses, and combat maneuver bonus.
package offense

import (
	"strings"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/size"
)

// Leveled is anything with a character level.
type Leveled interface {
	Level() int
}

// Combatant is a leveled creature with a size category.
type Combatant interface {
	Leveled
	Size() size.Category
}

// Progression is the rate at which base attack bonus grows with level.
type Progression int

const (
	// Fighter gains one point per level.
	Fighter Progression = iota
	// Cleric gains three points per four levels.
	Cleric
	// Wizard gains one point per two levels.
	Wizard
)

// String returns the lowercase name of the progression.
func (p Progression) String() string {
	switch p {
	case Fighter:
		return "fighter"
	case Cleric:
		return "cleric"
	case Wizard:
		return "wizard"
	}
	return "unknown"
}

// ParseProgression resolves a progression name. "full", "three_quarters" and "half"
// are accepted as aliases.
func ParseProgression(name string) (Progression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fighter", "full":
		return Fighter, nil
	case "cleric", "three_quarters":
		return Cleric, nil
	case "wizard", "half":
		return Wizard, nil
	}
	return 0, rpgerr.InvalidArgumentf("unknown base attack progression %q", name)
}

// At returns the base attack bonus for level under p.
// Levels below 1 yield 0.
func (p Progression) At(level int) int {
	if level < 1 {
		return 0
	}
	switch p {
	case Fighter:
		return level
	case Wizard:
		return level / 2
	default:
		return level * 3 / 4
	}
}

// maxIterativeAttacks caps the number of attacks a full attack yields.
const maxIterativeAttacks = 4

// BaseAttackBonus evaluates a progression against the owner's current level.
type BaseAttackBonus struct {
	owner       Leveled
	Progression Progression
}

// NewBaseAttackBonus creates a BaseAttackBonus with the Cleric progression.
//
// Precondition: owner must not be nil.
func NewBaseAttackBonus(owner Leveled) (*BaseAttackBonus, error) {
	if owner == nil {
		return nil, rpgerr.InvalidArgument("base attack bonus owner must not be nil")
	}
	return &BaseAttackBonus{owner: owner, Progression: Cleric}, nil
}

// Total returns the base attack bonus at the owner's current level.
func (b *BaseAttackBonus) Total() int {
	return b.Progression.At(b.owner.Level())
}

// Attacks returns the iterative attack bonuses of a full attack: the total, then
// five less for each further attack while the bonus stays positive.
//
// Postcondition: len(result) is between 1 and 4.
func (b *BaseAttackBonus) Attacks() []int {
	total := b.Total()
	attacks := []int{total}
	for next := total - 5; next > 0 && len(attacks) < maxIterativeAttacks; next -= 5 {
		attacks = append(attacks, next)
	}
	return attacks
}
