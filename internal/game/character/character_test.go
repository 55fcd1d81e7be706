package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/character"
	"github.com/cory-johannsen/statblock/internal/game/offense"
	"github.com/cory-johannsen/statblock/internal/game/save"
	"github.com/cory-johannsen/statblock/internal/game/size"
	"github.com/cory-johannsen/statblock/internal/game/spell"
)

func score(v uint8) *uint8 { return &v }

func progression(p offense.Progression) *offense.Progression { return &p }

func fighter(t *testing.T) *character.Character {
	t.Helper()
	c, err := character.Build(character.Options{
		Name:  "Valeros",
		Level: 5,
		Size:  size.Medium,
		Abilities: map[string]*uint8{
			"strength":     score(18),
			"dexterity":    score(14),
			"constitution": score(14),
			"wisdom":       score(8),
		},
		Progression: progression(offense.Fighter),
		GoodSaves:   []save.Kind{save.Fortitude},
		HitDice:     34,
	})
	require.NoError(t, err)
	return c
}

func TestNew_Defaults(t *testing.T) {
	c, err := character.New("Ezren", 1)
	require.NoError(t, err)
	assert.NotEqual(t, [16]byte{}, [16]byte(c.ID))
	assert.Equal(t, size.Medium, c.Size())
	assert.Equal(t, offense.Cleric, c.BaseAttackBonus.Progression)

	ac, err := c.ArmorClass.Total()
	require.NoError(t, err)
	assert.Equal(t, 10, ac)

	cmd, err := c.CombatManeuverDefense.Total()
	require.NoError(t, err)
	assert.Equal(t, 10, cmd)
}

func TestNew_LevelBounds(t *testing.T) {
	_, err := character.New("Too Low", 0)
	assert.True(t, rpgerr.IsInvalidArgument(err))
	_, err = character.New("Too High", 21)
	assert.True(t, rpgerr.IsInvalidArgument(err))

	c, err := character.New("Ok", 20)
	require.NoError(t, err)
	assert.True(t, rpgerr.IsInvalidArgument(c.SetLevel(0)))
	assert.Equal(t, 20, c.Level())
}

func TestBuild_EmptyName(t *testing.T) {
	_, err := character.Build(character.Options{Level: 1})
	require.Error(t, err)
}

func TestBuild_UnknownAbility(t *testing.T) {
	_, err := character.Build(character.Options{Name: "X", Level: 1, Abilities: map[string]*uint8{"luck": score(10)}})
	assert.True(t, rpgerr.IsInvalidArgument(err))
}

func TestBuild_UntrackedAbility(t *testing.T) {
	c, err := character.Build(character.Options{Name: "Golem", Level: 1, Abilities: map[string]*uint8{"con": nil}})
	require.NoError(t, err)
	_, ok := c.Abilities.Constitution.Total()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Fortitude.Total())
}

func TestFighter_DerivedStatistics(t *testing.T) {
	c := fighter(t)

	assert.Equal(t, 5, c.BaseAttackBonus.Total())
	cmb, err := c.CombatManeuverBonus.Total()
	require.NoError(t, err)
	assert.Equal(t, 5+4, cmb)

	cmd, err := c.CombatManeuverDefense.Total()
	require.NoError(t, err)
	assert.Equal(t, 10+5+4+2, cmd)

	assert.Equal(t, 4+2, c.Fortitude.Total())
	assert.Equal(t, 1+2, c.Reflex.Total())
	assert.Equal(t, 1-1, c.Will.Total())

	assert.Equal(t, uint16(34+2*5), c.HitPoints.Max())
}

func TestLevelChange_PropagatesEverywhere(t *testing.T) {
	c := fighter(t)
	require.NoError(t, c.SetLevel(6))
	assert.Equal(t, 6, c.BaseAttackBonus.Total())
	assert.Equal(t, 5+2, c.Fortitude.Total())
	assert.Equal(t, uint8(6), c.CasterLevel.Total())
	assert.Equal(t, uint16(34+2*6), c.HitPoints.Max())
}

func TestArmorClassAddition_VisibleInCMD(t *testing.T) {
	c := fighter(t)
	before, err := c.CombatManeuverDefense.Total()
	require.NoError(t, err)
	c.ArmorClass.Deflection.Add(2)
	after, err := c.CombatManeuverDefense.Total()
	require.NoError(t, err)
	assert.Equal(t, before+2, after)
}

func TestNewWeaponAttack_SharesCategory(t *testing.T) {
	c := fighter(t)
	sword, err := c.NewWeaponAttack(false)
	require.NoError(t, err)
	bow, err := c.NewWeaponAttack(true)
	require.NoError(t, err)

	c.MeleeAttack.Untyped.Add(1)
	swordTotal, err := sword.Total()
	require.NoError(t, err)
	bowTotal, err := bow.Total()
	require.NoError(t, err)
	assert.Equal(t, 5+4+1, swordTotal)
	assert.Equal(t, 5+2, bowTotal)

	cmb, err := c.CombatManeuverBonus.Total()
	require.NoError(t, err)
	assert.Equal(t, 5+4+1, cmb)
}

func TestLearn(t *testing.T) {
	c, err := character.Build(character.Options{Name: "Ezren", Level: 7, Abilities: map[string]*uint8{"int": score(18)}, Progression: progression(offense.Wizard)})
	require.NoError(t, err)
	def := &spell.Definition{ID: "fireball", Name: "Fireball", Level: 3, School: spell.Evocation, AllowsSavingThrow: true}
	cs, err := c.Learn(def, ability.Intelligence)
	require.NoError(t, err)
	dc, ok := cs.DifficultyClass()
	require.True(t, ok)
	assert.Equal(t, 17, dc)
	assert.Equal(t, uint8(7), cs.EffectiveCasterLevel())

	_, err = c.Learn(def, ability.Ability(99))
	assert.True(t, rpgerr.IsInvalidArgument(err))
}

func TestSavingThrow_Unknown(t *testing.T) {
	c := fighter(t)
	_, err := c.SavingThrow(save.Kind(7))
	assert.True(t, rpgerr.IsInvalidArgument(err))
}

func TestTracker_ResolvesPaths(t *testing.T) {
	c := fighter(t)

	tr, err := c.Tracker("armor_class.deflection")
	require.NoError(t, err)
	assert.Same(t, c.ArmorClass.Deflection, tr)

	tr, err = c.Tracker(" Will.Resistance ")
	require.NoError(t, err)
	assert.Same(t, c.Will.Resistance, tr)

	tr, err = c.Tracker("strength.enhancement")
	require.NoError(t, err)
	assert.Same(t, c.Abilities.Strength.Enhancement, tr)

	tr, err = c.Tracker("attack.ranged.penalties")
	require.NoError(t, err)
	assert.Same(t, c.RangedAttack.Penalties, tr)

	_, err = c.Tracker("armor_class.bravado")
	assert.True(t, rpgerr.IsInvalidArgument(err))
}

func TestTrackerPaths_AllResolve(t *testing.T) {
	c := fighter(t)
	paths := c.TrackerPaths()
	assert.Contains(t, paths, "hit_points.untyped")
	assert.Contains(t, paths, "caster_level.untyped")
	assert.Contains(t, paths, "combat_maneuver_bonus.enhancement")
	for _, p := range paths {
		_, err := c.Tracker(p)
		assert.NoError(t, err, p)
		assert.True(t, character.IsTrackerPath(p), p)
	}
	assert.True(t, character.IsTrackerPath(" Armor_Class.Deflection "))
	assert.False(t, character.IsTrackerPath("armor_class.bravado"))
}

func TestHitPoints_DamageAndHeal(t *testing.T) {
	c := fighter(t)
	maxHP := c.HitPoints.Max()
	c.HitPoints.TakeDamage(10)
	assert.Equal(t, maxHP-10, c.HitPoints.Current())
	assert.Equal(t, 10, c.HitPoints.Damage())
	c.HitPoints.Heal(50)
	assert.Equal(t, maxHP, c.HitPoints.Current())
	c.HitPoints.TakeDamage(65535)
	assert.Equal(t, uint16(0), c.HitPoints.Current())
}

func TestBuild_DefaultProgressionIsCleric(t *testing.T) {
	c, err := character.Build(character.Options{Name: "Kyra", Level: 8})
	require.NoError(t, err)
	assert.Equal(t, offense.Cleric, c.BaseAttackBonus.Progression)
	assert.Equal(t, 6, c.BaseAttackBonus.Total())
	assert.Equal(t, []int{6, 1}, c.BaseAttackBonus.Attacks())
}

func TestHitPoints_ClampsAtCeiling(t *testing.T) {
	c, err := character.Build(character.Options{Name: "Titan", Level: 20, HitDice: 65535, Abilities: map[string]*uint8{"con": score(40)}})
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), c.HitPoints.Max())
}

func TestHitPoints_NilArguments(t *testing.T) {
	c := fighter(t)
	_, err := character.NewHitPoints(nil, c.Abilities.Constitution)
	assert.True(t, rpgerr.IsInvalidArgument(err))
	_, err = character.NewHitPoints(c, nil)
	assert.True(t, rpgerr.IsInvalidArgument(err))
}

// Property: hit points never exceed their maximum and never wrap below zero.
func TestPropertyHitPoints_CurrentWithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c, err := character.Build(character.Options{
			Name:      "Hero",
			Level:     rapid.IntRange(1, 20).Draw(rt, "level"),
			HitDice:   rapid.Uint16().Draw(rt, "hitDice"),
			Abilities: map[string]*uint8{"con": score(rapid.Uint8().Draw(rt, "con"))},
		})
		require.NoError(rt, err)
		c.HitPoints.TakeDamage(rapid.Uint16().Draw(rt, "damage"))
		assert.LessOrEqual(rt, c.HitPoints.Current(), c.HitPoints.Max())
	})
}
