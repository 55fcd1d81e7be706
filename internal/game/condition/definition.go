// Package condition applies stacking, timed conditions such as shaken or
// negative levels to a character as live penalties.
package condition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/statblock/internal/game/character"
)

// Duration types.
const (
	Rounds    = "rounds"
	Permanent = "permanent"
)

// Penalty subtracts Amount per stack from the penalty tracker at Target.
type Penalty struct {
	Target string `yaml:"target"`
	Amount uint8  `yaml:"amount"`
}

// Definition is the static definition of a condition, loaded from YAML.
type Definition struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	Description  string    `yaml:"description"`
	DurationType string    `yaml:"duration_type"` // "rounds" | "permanent"; empty means permanent
	MaxStacks    int       `yaml:"max_stacks"`    // 0 = unstackable
	Penalties    []Penalty `yaml:"penalties"`
}

// Validate reports every problem with d.
//
// Postcondition: Returns nil if d can be applied to any character.
func (d *Definition) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch d.DurationType {
	case "", Rounds, Permanent:
	default:
		errs = append(errs, fmt.Errorf("duration_type must be %q or %q, got %q", Rounds, Permanent, d.DurationType))
	}
	if d.MaxStacks < 0 {
		errs = append(errs, fmt.Errorf("max_stacks must be >= 0, got %d", d.MaxStacks))
	}
	if len(d.Penalties) == 0 {
		errs = append(errs, errors.New("at least one penalty is required"))
	}
	for i, p := range d.Penalties {
		if !strings.HasSuffix(p.Target, ".penalties") || !character.IsTrackerPath(p.Target) {
			errs = append(errs, fmt.Errorf("penalties[%d]: %q is not a penalty tracker", i, p.Target))
		}
		if p.Amount == 0 {
			errs = append(errs, fmt.Errorf("penalties[%d]: amount must be positive", i))
		}
	}
	return errors.Join(errs...)
}

// Timed reports whether the condition expires after a number of rounds.
func (d *Definition) Timed() bool {
	return d.DurationType == Rounds
}
