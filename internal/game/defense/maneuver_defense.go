package defense

import (
	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
	"github.com/cory-johannsen/statblock/internal/game/offense"
	"github.com/cory-johannsen/statblock/internal/game/size"
)

// CombatManeuverDefense is the target number for maneuvers made against a character.
//
// Each bonus tracker is seeded with a live read of the same-named ArmorClass tracker,
// so a deflection bonus added to armor class also counts here.
type CombatManeuverDefense struct {
	owner     Sized
	bab       *offense.BaseAttackBonus
	strength  *ability.Score
	dexterity *ability.Score

	// Mirrors of every armor class tracker except armor, shield and natural armor.
	// Morale is deliberately among them.
	Circumstance *modifier.Tracker
	Deflection   *modifier.Tracker
	Dodge        *modifier.Tracker
	Insight      *modifier.Tracker
	Luck         *modifier.Tracker
	Morale       *modifier.Tracker
	Profane      *modifier.Tracker
	Sacred       *modifier.Tracker
	Untyped      *modifier.Tracker
	Penalties    *modifier.Tracker
}

// NewCombatManeuverDefense creates a CombatManeuverDefense that reads ac's trackers.
//
// Precondition: owner, bab, strength, dexterity and ac must not be nil.
func NewCombatManeuverDefense(owner Sized, bab *offense.BaseAttackBonus, strength, dexterity *ability.Score, ac *ArmorClass) (*CombatManeuverDefense, error) {
	switch {
	case owner == nil:
		return nil, rpgerr.InvalidArgument("combat maneuver defense owner must not be nil")
	case bab == nil:
		return nil, rpgerr.InvalidArgument("base attack bonus must not be nil")
	case strength == nil:
		return nil, rpgerr.InvalidArgument("strength must not be nil")
	case dexterity == nil:
		return nil, rpgerr.InvalidArgument("dexterity must not be nil")
	case ac == nil:
		return nil, rpgerr.InvalidArgument("armor class must not be nil")
	}

	cmd := &CombatManeuverDefense{
		owner:     owner,
		bab:       bab,
		strength:  strength,
		dexterity: dexterity,
	}
	pairs := []struct {
		dst **modifier.Tracker
		src *modifier.Tracker
	}{
		{&cmd.Circumstance, ac.Circumstance},
		{&cmd.Deflection, ac.Deflection},
		{&cmd.Dodge, ac.Dodge},
		{&cmd.Insight, ac.Insight},
		{&cmd.Luck, ac.Luck},
		{&cmd.Morale, ac.Morale}, // morale bonuses to AC also apply to CMD
		{&cmd.Profane, ac.Profane},
		{&cmd.Sacred, ac.Sacred},
		{&cmd.Untyped, ac.Untyped},
		{&cmd.Penalties, ac.Penalties},
	}
	for _, p := range pairs {
		t := modifier.New(p.src.Policy())
		if err := t.Mirror(p.src); err != nil {
			return nil, err
		}
		*p.dst = t
	}
	return cmd, nil
}

// SizeModifier returns the owner's maneuver size modifier (Small -1, Large +1).
func (d *CombatManeuverDefense) SizeModifier() (int, error) {
	return size.ManeuverModifier(d.owner.Size())
}

// Total returns 10 + BAB + Str modifier + Dex modifier + size + bonuses - penalties.
func (d *CombatManeuverDefense) Total() (int, error) {
	sizeMod, err := d.SizeModifier()
	if err != nil {
		return 0, err
	}
	bonuses := 0
	for _, t := range []*modifier.Tracker{
		d.Circumstance, d.Deflection, d.Dodge, d.Insight, d.Luck,
		d.Morale, d.Profane, d.Sacred, d.Untyped,
	} {
		bonuses += int(t.Total())
	}
	return baseArmorClass +
		d.bab.Total() +
		d.strength.Modifier() +
		d.dexterity.Modifier() +
		sizeMod +
		bonuses -
		int(d.Penalties.Total()), nil
}
