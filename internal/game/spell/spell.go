// Package spell models spells as cast by a character: caster level and difficulty class.
package spell

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
)

// School is a school of magic.
type School int

const (
	Universal School = iota
	Abjuration
	Conjuration
	Divination
	Enchantment
	Evocation
	Illusion
	Necromancy
	Transmutation
)

var schoolNames = [...]string{
	Universal:     "universal",
	Abjuration:    "abjuration",
	Conjuration:   "conjuration",
	Divination:    "divination",
	Enchantment:   "enchantment",
	Evocation:     "evocation",
	Illusion:      "illusion",
	Necromancy:    "necromancy",
	Transmutation: "transmutation",
}

// String returns the lowercase name of the school.
func (s School) String() string {
	if s < 0 || int(s) >= len(schoolNames) {
		return "unknown"
	}
	return schoolNames[s]
}

// ParseSchool resolves a school name case-insensitively.
func ParseSchool(name string) (School, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range schoolNames {
		if n == candidate {
			return School(i), nil
		}
	}
	return 0, rpgerr.InvalidArgumentf("unknown school of magic %q", name)
}

// UnmarshalYAML decodes a school from its name.
func (s *School) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseSchool(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// maxSpellLevel is the highest spell level.
const maxSpellLevel = 9

// Definition is the static description of a spell.
type Definition struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	Level             int    `yaml:"level"`
	School            School `yaml:"school"`
	AllowsSavingThrow bool   `yaml:"allows_saving_throw"`
}

// Validate reports an error if the Definition is missing required fields or
// contains illegal values.
//
// Postcondition: Returns nil iff the definition is well-formed.
func (d *Definition) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.Level < 0 || d.Level > maxSpellLevel {
		errs = append(errs, fmt.Errorf("level must be 0-%d, got %d", maxSpellLevel, d.Level))
	}
	if len(errs) > 0 {
		return fmt.Errorf("spell validation failed: %v", errs)
	}
	return nil
}
