package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/offense"
	"github.com/cory-johannsen/statblock/internal/game/save"
	"github.com/cory-johannsen/statblock/internal/game/size"
)

// Options describes a character to Build.
type Options struct {
	Name  string
	Level int
	Size  size.Category
	// Abilities maps ability names ("strength", "dex", ...) to base scores.
	// Abilities not listed stay at 10. A nil value marks the ability as untracked.
	Abilities map[string]*uint8
	// Progression is the base attack progression. Nil keeps the Cleric default.
	Progression *offense.Progression
	GoodSaves   []save.Kind
	// HitDice is the sum of the character's rolled or assigned hit dice.
	HitDice uint16
}

// Build constructs a Character from opts.
//
// Precondition: opts.Name must be non-empty; opts.Level within [MinLevel, MaxLevel].
// Postcondition: Returns a fully wired Character, or a non-nil error.
func Build(opts Options) (*Character, error) {
	if opts.Name == "" {
		return nil, errors.New("character name must not be empty")
	}
	c, err := New(opts.Name, opts.Level)
	if err != nil {
		return nil, err
	}
	c.SetSize(opts.Size)
	if err := applyAbilities(c.Abilities, opts.Abilities); err != nil {
		return nil, err
	}
	if opts.Progression != nil {
		c.BaseAttackBonus.Progression = *opts.Progression
	}
	for _, k := range opts.GoodSaves {
		st, err := c.SavingThrow(k)
		if err != nil {
			return nil, err
		}
		st.IsGood = true
	}
	c.HitPoints.Base = opts.HitDice
	return c, nil
}

// applyAbilities sets base scores by name.
func applyAbilities(scores *ability.Scores, bases map[string]*uint8) error {
	for name, base := range bases {
		s, err := scores.ByName(name)
		if err != nil {
			return fmt.Errorf("applying ability scores: %w", err)
		}
		if base == nil {
			s.ClearBase()
			continue
		}
		s.SetBase(*base)
	}
	return nil
}
