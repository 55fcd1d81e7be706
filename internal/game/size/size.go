// Package size defines creature size categories and the size modifiers derived from them.
package size

import (
	"strings"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
)

// Category is a creature size category, counted in steps from Medium.
// The zero value is Medium.
type Category int

const (
	Fine Category = iota - 4
	Diminutive
	Tiny
	Small
	Medium
	Large
	Huge
	Gargantuan
	Colossal
)

var names = map[Category]string{
	Fine:       "fine",
	Diminutive: "diminutive",
	Tiny:       "tiny",
	Small:      "small",
	Medium:     "medium",
	Large:      "large",
	Huge:       "huge",
	Gargantuan: "gargantuan",
	Colossal:   "colossal",
}

// String returns the lowercase name of the category.
func (c Category) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return "unknown"
}

// Parse resolves a category name case-insensitively.
func Parse(name string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for c, candidate := range names {
		if n == candidate {
			return c, nil
		}
	}
	return Medium, rpgerr.InvalidArgumentf("unknown size category %q", name)
}

// AttackModifier returns the size modifier applied to armor class and attack rolls:
// Small +1, Medium 0, Large -1.
//
// Postcondition: returns a NotSupported error for every other category.
func AttackModifier(c Category) (int, error) {
	switch c {
	case Small:
		return 1, nil
	case Medium:
		return 0, nil
	case Large:
		return -1, nil
	}
	return 0, rpgerr.NotSupportedf("size %s has no attack modifier", c)
}

// ManeuverModifier returns the size modifier applied to combat maneuver bonus and
// defense. Its sign is the inverse of AttackModifier: Small -1, Medium 0, Large +1.
//
// Postcondition: returns a NotSupported error for every other category.
func ManeuverModifier(c Category) (int, error) {
	mod, err := AttackModifier(c)
	if err != nil {
		return 0, rpgerr.NotSupportedf("size %s has no combat maneuver modifier", c)
	}
	return -mod, nil
}
