package character

import (
	"sort"
	"strings"
	"sync"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
	"github.com/cory-johannsen/statblock/internal/game/save"
)

// Tracker resolves a dotted path such as "armor_class.deflection",
// "strength.enhancement", "attack.melee.untyped" or "will.resistance" to the
// tracker it names. Data-driven effects use it to reach any bonus category.
func (c *Character) Tracker(path string) (*modifier.Tracker, error) {
	t, ok := c.trackers()[strings.ToLower(strings.TrimSpace(path))]
	if !ok {
		return nil, rpgerr.InvalidArgumentf("unknown tracker path %q", path)
	}
	return t, nil
}

// TrackerPaths lists every path Tracker accepts, sorted.
func (c *Character) TrackerPaths() []string {
	m := c.trackers()
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

var knownPaths = sync.OnceValue(func() map[string]struct{} {
	c, err := New("template", MinLevel)
	if err != nil {
		panic(err)
	}
	set := make(map[string]struct{})
	for p := range c.trackers() {
		set[p] = struct{}{}
	}
	return set
})

// IsTrackerPath reports whether Tracker accepts path on every character.
func IsTrackerPath(path string) bool {
	_, ok := knownPaths()[strings.ToLower(strings.TrimSpace(path))]
	return ok
}

func (c *Character) trackers() map[string]*modifier.Tracker {
	m := make(map[string]*modifier.Tracker)
	for _, a := range ability.All() {
		s, _ := c.Abilities.Get(a)
		prefix := a.String() + "."
		m[prefix+"enhancement"] = s.Enhancement
		m[prefix+"inherent"] = s.Inherent
		m[prefix+"morale"] = s.Morale
		m[prefix+"penalties"] = s.Penalties
	}

	ac := c.ArmorClass
	for name, t := range map[string]*modifier.Tracker{
		"max_dexterity":             ac.MaxKeyAbilityScore,
		"armor":                     ac.Armor,
		"shield":                    ac.Shield,
		"circumstance":              ac.Circumstance,
		"dodge":                     ac.Dodge,
		"deflection":                ac.Deflection,
		"insight":                   ac.Insight,
		"luck":                      ac.Luck,
		"morale":                    ac.Morale,
		"natural_armor":             ac.NaturalArmor,
		"natural_armor_enhancement": ac.NaturalArmorEnhancement,
		"profane":                   ac.Profane,
		"sacred":                    ac.Sacred,
		"untyped":                   ac.Untyped,
		"penalties":                 ac.Penalties,
	} {
		m["armor_class."+name] = t
	}

	cmd := c.CombatManeuverDefense
	for name, t := range map[string]*modifier.Tracker{
		"circumstance": cmd.Circumstance,
		"deflection":   cmd.Deflection,
		"dodge":        cmd.Dodge,
		"insight":      cmd.Insight,
		"luck":         cmd.Luck,
		"morale":       cmd.Morale,
		"profane":      cmd.Profane,
		"sacred":       cmd.Sacred,
		"untyped":      cmd.Untyped,
		"penalties":    cmd.Penalties,
	} {
		m["combat_maneuver_defense."+name] = t
	}

	for prefix, set := range map[string]struct{ e, u, p *modifier.Tracker }{
		"attack.melee":          {c.MeleeAttack.Enhancement, c.MeleeAttack.Untyped, c.MeleeAttack.Penalties},
		"attack.ranged":         {c.RangedAttack.Enhancement, c.RangedAttack.Untyped, c.RangedAttack.Penalties},
		"combat_maneuver_bonus": {c.CombatManeuverBonus.Enhancement, c.CombatManeuverBonus.Untyped, c.CombatManeuverBonus.Penalties},
	} {
		m[prefix+".enhancement"] = set.e
		m[prefix+".untyped"] = set.u
		m[prefix+".penalties"] = set.p
	}

	for _, k := range []save.Kind{save.Fortitude, save.Reflex, save.Will} {
		st, _ := c.SavingThrow(k)
		prefix := k.String() + "."
		m[prefix+"luck"] = st.Luck
		m[prefix+"resistance"] = st.Resistance
		m[prefix+"untyped"] = st.Untyped
		m[prefix+"penalties"] = st.Penalties
	}

	m["caster_level.untyped"] = c.CasterLevel.Untyped
	m["hit_points.untyped"] = c.HitPoints.Untyped
	return m
}
