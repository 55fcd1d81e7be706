package offense

import (
	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
	"github.com/cory-johannsen/statblock/internal/game/size"
)

// UniversalAttackBonus holds the bonuses shared by every attack of one category,
// for example all melee attacks.
type UniversalAttackBonus struct {
	Enhancement *modifier.Tracker
	Untyped     *modifier.Tracker
	Penalties   *modifier.Tracker
}

// NewUniversalAttackBonus creates an empty UniversalAttackBonus.
func NewUniversalAttackBonus() *UniversalAttackBonus {
	return &UniversalAttackBonus{
		Enhancement: modifier.NewMaximum(),
		Untyped:     modifier.NewSum(),
		Penalties:   modifier.NewSum(),
	}
}

// mirroredTrackers builds the three trackers of a specific attack, each seeded with
// the matching shared tracker so that shared contributions stay live.
func mirroredTrackers(shared *UniversalAttackBonus) (enh, untyped, penalties *modifier.Tracker, err error) {
	enh = modifier.NewMaximum()
	untyped = modifier.NewSum()
	penalties = modifier.NewSum()
	if err = enh.Mirror(shared.Enhancement); err != nil {
		return nil, nil, nil, err
	}
	if err = untyped.Mirror(shared.Untyped); err != nil {
		return nil, nil, nil, err
	}
	if err = penalties.Mirror(shared.Penalties); err != nil {
		return nil, nil, nil, err
	}
	return enh, untyped, penalties, nil
}

// WeaponAttackBonus is the attack bonus of one weapon. Its trackers contain the
// weapon's own contributions plus live reads of the shared category bonus.
type WeaponAttackBonus struct {
	owner  Combatant
	bab    *BaseAttackBonus
	key    *ability.Score
	shared *UniversalAttackBonus

	Enhancement *modifier.Tracker
	Untyped     *modifier.Tracker
	Penalties   *modifier.Tracker
}

// NewWeaponAttackBonus creates a WeaponAttackBonus keyed on key and sharing the
// bonuses of shared.
//
// Precondition: owner, bab, key and shared must not be nil.
func NewWeaponAttackBonus(owner Combatant, bab *BaseAttackBonus, key *ability.Score, shared *UniversalAttackBonus) (*WeaponAttackBonus, error) {
	if owner == nil {
		return nil, rpgerr.InvalidArgument("weapon attack bonus owner must not be nil")
	}
	if bab == nil {
		return nil, rpgerr.InvalidArgument("base attack bonus must not be nil")
	}
	if key == nil {
		return nil, rpgerr.InvalidArgument("key ability score must not be nil")
	}
	if shared == nil {
		return nil, rpgerr.InvalidArgument("shared attack bonus must not be nil")
	}
	enh, untyped, penalties, err := mirroredTrackers(shared)
	if err != nil {
		return nil, err
	}
	return &WeaponAttackBonus{
		owner:       owner,
		bab:         bab,
		key:         key,
		shared:      shared,
		Enhancement: enh,
		Untyped:     untyped,
		Penalties:   penalties,
	}, nil
}

// KeyAbilityScore returns the ability score added to the attack roll.
func (w *WeaponAttackBonus) KeyAbilityScore() *ability.Score {
	return w.key
}

// SetKeyAbilityScore replaces the key ability score, e.g. for weapon finesse.
//
// Precondition: s must not be nil.
func (w *WeaponAttackBonus) SetKeyAbilityScore(s *ability.Score) error {
	if s == nil {
		return rpgerr.InvalidArgument("key ability score must not be nil")
	}
	w.key = s
	return nil
}

// Shared returns the category bonus this weapon reads from.
func (w *WeaponAttackBonus) Shared() *UniversalAttackBonus {
	return w.shared
}

// SizeModifier returns the owner's attack size modifier (Small +1, Large -1).
func (w *WeaponAttackBonus) SizeModifier() (int, error) {
	return size.AttackModifier(w.owner.Size())
}

// Total returns BAB + key modifier + size + enhancement + untyped - penalties.
func (w *WeaponAttackBonus) Total() (int, error) {
	sizeMod, err := w.SizeModifier()
	if err != nil {
		return 0, err
	}
	return w.bab.Total() +
		w.key.Modifier() +
		sizeMod +
		int(w.Enhancement.Total()) +
		int(w.Untyped.Total()) -
		int(w.Penalties.Total()), nil
}

// Attacks returns the iterative full-attack bonuses for this weapon.
func (w *WeaponAttackBonus) Attacks() ([]int, error) {
	total, err := w.Total()
	if err != nil {
		return nil, err
	}
	delta := total - w.bab.Total()
	attacks := w.bab.Attacks()
	for i := range attacks {
		attacks[i] += delta
	}
	return attacks, nil
}
