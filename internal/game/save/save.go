// Package save computes saving throw bonuses.
package save

import (
	"strings"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
)

// Leveled is anything with a character level.
type Leveled interface {
	Level() int
}

// Kind identifies one of the three saving throws.
type Kind int

const (
	Fortitude Kind = iota
	Reflex
	Will
)

// String returns the lowercase name of the saving throw.
func (k Kind) String() string {
	switch k {
	case Fortitude:
		return "fortitude"
	case Reflex:
		return "reflex"
	case Will:
		return "will"
	}
	return "unknown"
}

// ParseKind resolves a saving throw name, accepting "fort" and "ref" abbreviations.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fortitude", "fort":
		return Fortitude, nil
	case "reflex", "ref":
		return Reflex, nil
	case "will":
		return Will, nil
	}
	return 0, rpgerr.InvalidArgumentf("unknown saving throw %q", name)
}

// KeyAbility returns the ability that normally governs the saving throw.
func (k Kind) KeyAbility() ability.Ability {
	switch k {
	case Reflex:
		return ability.Dexterity
	case Will:
		return ability.Wisdom
	default:
		return ability.Constitution
	}
}

// goodProgression and poorProgression are the base save bonuses for levels 0-20.
var (
	goodProgression = [...]int{0, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12}
	poorProgression = [...]int{0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4, 5, 5, 5, 6, 6, 6}
)

// LevelBonus returns the base save bonus for level under the good or poor progression.
// Levels beyond the table follow the same rates.
func LevelBonus(level int, good bool) int {
	if level < 1 {
		return 0
	}
	if level < len(goodProgression) {
		if good {
			return goodProgression[level]
		}
		return poorProgression[level]
	}
	if good {
		return 2 + level/2
	}
	return level / 3
}

// SavingThrow is one saving throw bonus.
type SavingThrow struct {
	owner Leveled
	key   *ability.Score

	// IsGood selects the good base save progression.
	IsGood bool

	Luck       *modifier.Tracker
	Resistance *modifier.Tracker
	Untyped    *modifier.Tracker
	Penalties  *modifier.Tracker
}

// NewSavingThrow creates a SavingThrow keyed on key.
//
// Precondition: owner and key must not be nil.
func NewSavingThrow(owner Leveled, key *ability.Score, good bool) (*SavingThrow, error) {
	if owner == nil {
		return nil, rpgerr.InvalidArgument("saving throw owner must not be nil")
	}
	if key == nil {
		return nil, rpgerr.InvalidArgument("key ability score must not be nil")
	}
	return &SavingThrow{
		owner:      owner,
		key:        key,
		IsGood:     good,
		Luck:       modifier.NewMaximum(),
		Resistance: modifier.NewMaximum(),
		Untyped:    modifier.NewSum(),
		Penalties:  modifier.NewSum(),
	}, nil
}

// KeyAbilityScore returns the ability score added to the save.
func (s *SavingThrow) KeyAbilityScore() *ability.Score {
	return s.key
}

// SetKeyAbilityScore replaces the key ability score.
//
// Precondition: a must not be nil.
func (s *SavingThrow) SetKeyAbilityScore(a *ability.Score) error {
	if a == nil {
		return rpgerr.InvalidArgument("key ability score must not be nil")
	}
	s.key = a
	return nil
}

// LevelBonus returns the base save bonus at the owner's current level.
func (s *SavingThrow) LevelBonus() int {
	return LevelBonus(s.owner.Level(), s.IsGood)
}

// Total returns level bonus + key modifier + luck + resistance + untyped - penalties.
func (s *SavingThrow) Total() int {
	return s.LevelBonus() +
		s.key.Modifier() +
		int(s.Luck.Total()) +
		int(s.Resistance.Total()) +
		int(s.Untyped.Total()) -
		int(s.Penalties.Total())
}
