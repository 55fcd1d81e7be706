package ability

import (
	"strings"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
)

// Ability identifies one of the six ability scores.
type Ability int

const (
	Strength Ability = iota
	Dexterity
	Constitution
	Intelligence
	Wisdom
	Charisma
)

var abilityNames = [...]string{
	Strength:     "strength",
	Dexterity:    "dexterity",
	Constitution: "constitution",
	Intelligence: "intelligence",
	Wisdom:       "wisdom",
	Charisma:     "charisma",
}

var abilityShort = [...]string{
	Strength:     "STR",
	Dexterity:    "DEX",
	Constitution: "CON",
	Intelligence: "INT",
	Wisdom:       "WIS",
	Charisma:     "CHA",
}

// All lists the abilities in sheet order.
func All() []Ability {
	return []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}
}

// String returns the lowercase name of the ability.
func (a Ability) String() string {
	if a < 0 || int(a) >= len(abilityNames) {
		return "unknown"
	}
	return abilityNames[a]
}

// Short returns the three-letter label used on stat blocks.
func (a Ability) Short() string {
	if a < 0 || int(a) >= len(abilityShort) {
		return "<?>"
	}
	return abilityShort[a]
}

// ParseAbility resolves a full name or three-letter label, case-insensitively.
func ParseAbility(name string) (Ability, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, a := range All() {
		if n == abilityNames[a] || n == strings.ToLower(abilityShort[a]) {
			return a, nil
		}
	}
	return 0, rpgerr.InvalidArgumentf("unknown ability %q", name)
}

// Scores is the ability-score section of a character. The character owns the
// Scores; derived statistics hold read-only references into it.
type Scores struct {
	Strength     *Score
	Dexterity    *Score
	Constitution *Score
	Intelligence *Score
	Wisdom       *Score
	Charisma     *Score
}

// NewScores creates a section with every score at base 10.
func NewScores() *Scores {
	return &Scores{
		Strength:     NewScore(10),
		Dexterity:    NewScore(10),
		Constitution: NewScore(10),
		Intelligence: NewScore(10),
		Wisdom:       NewScore(10),
		Charisma:     NewScore(10),
	}
}

// Get returns the score for a.
func (s *Scores) Get(a Ability) (*Score, error) {
	switch a {
	case Strength:
		return s.Strength, nil
	case Dexterity:
		return s.Dexterity, nil
	case Constitution:
		return s.Constitution, nil
	case Intelligence:
		return s.Intelligence, nil
	case Wisdom:
		return s.Wisdom, nil
	case Charisma:
		return s.Charisma, nil
	}
	return nil, rpgerr.InvalidArgumentf("unknown ability %d", int(a))
}

// ByName returns the score named by name (see ParseAbility).
func (s *Scores) ByName(name string) (*Score, error) {
	a, err := ParseAbility(name)
	if err != nil {
		return nil, err
	}
	return s.Get(a)
}
