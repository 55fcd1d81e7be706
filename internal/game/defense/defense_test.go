package defense_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/ability"
	"github.com/cory-johannsen/statblock/internal/game/defense"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
	"github.com/cory-johannsen/statblock/internal/game/offense"
	"github.com/cory-johannsen/statblock/internal/game/size"
)

type creature struct {
	level int
	size  size.Category
}

func (c *creature) Level() int          { return c.level }
func (c *creature) Size() size.Category { return c.size }

func namedTrackers(ac *defense.ArmorClass) []*modifier.Tracker {
	return []*modifier.Tracker{
		ac.Armor, ac.Shield, ac.Circumstance, ac.Dodge, ac.Deflection,
		ac.Insight, ac.Luck, ac.Morale, ac.NaturalArmor, ac.NaturalArmorEnhancement,
		ac.Profane, ac.Sacred, ac.Untyped,
	}
}

func TestArmorClass_WorkedExample(t *testing.T) {
	c := &creature{level: 1, size: size.Small}
	ac, err := defense.NewArmorClass(c, ability.NewScore(16))
	require.NoError(t, err)

	ac.MaxKeyAbilityScore.Add(2)
	for i, tr := range namedTrackers(ac) {
		tr.Add(uint8(3 + i))
	}
	ac.Penalties.Add(16)

	total, err := ac.Total()
	require.NoError(t, err)
	// 10 + 2 capped dex + 1 size + (3..15) - 16
	assert.Equal(t, 114, total)
}

func TestArmorClass_Baseline(t *testing.T) {
	ac, err := defense.NewArmorClass(&creature{size: size.Medium}, ability.NewScore(10))
	require.NoError(t, err)
	total, err := ac.Total()
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}

func TestArmorClass_NegativeDexIgnoresCap(t *testing.T) {
	ac, err := defense.NewArmorClass(&creature{size: size.Medium}, ability.NewScore(6))
	require.NoError(t, err)
	ac.MaxKeyAbilityScore.Add(1)
	total, err := ac.Total()
	require.NoError(t, err)
	assert.Equal(t, 8, total)
}

func TestArmorClass_SizeModifier(t *testing.T) {
	c := &creature{size: size.Large}
	ac, err := defense.NewArmorClass(c, ability.NewScore(10))
	require.NoError(t, err)
	total, err := ac.Total()
	require.NoError(t, err)
	assert.Equal(t, 9, total)

	c.size = size.Colossal
	_, err = ac.Total()
	assert.True(t, rpgerr.IsNotSupported(err))
	_, err = ac.TouchTotal()
	assert.True(t, rpgerr.IsNotSupported(err))
	_, err = ac.FlatFootedTotal()
	assert.True(t, rpgerr.IsNotSupported(err))
}

func TestArmorClass_NilArguments(t *testing.T) {
	_, err := defense.NewArmorClass(nil, ability.NewScore(10))
	assert.True(t, rpgerr.IsInvalidArgument(err))
	_, err = defense.NewArmorClass(&creature{size: size.Medium}, nil)
	assert.True(t, rpgerr.IsInvalidArgument(err))
}

func TestArmorClass_SetKeyAbilityScore(t *testing.T) {
	dex := ability.NewScore(10)
	wis := ability.NewScore(16)
	ac, err := defense.NewArmorClass(&creature{size: size.Medium}, dex)
	require.NoError(t, err)

	assert.True(t, rpgerr.IsInvalidArgument(ac.SetKeyAbilityScore(nil)))
	assert.Same(t, dex, ac.KeyAbilityScore())

	require.NoError(t, ac.SetKeyAbilityScore(wis))
	total, err := ac.Total()
	require.NoError(t, err)
	assert.Equal(t, 13, total)
}

func TestArmorClass_StackingRules(t *testing.T) {
	ac, err := defense.NewArmorClass(&creature{size: size.Medium}, ability.NewScore(10))
	require.NoError(t, err)
	ac.Deflection.Add(2)
	ac.Deflection.Add(1) // ring of protection +1 does not stack with +2
	ac.Dodge.Add(1)
	ac.Dodge.Add(1) // dodge stacks
	total, err := ac.Total()
	require.NoError(t, err)
	assert.Equal(t, 14, total)
}

func TestArmorClass_TouchAndFlatFooted(t *testing.T) {
	ac, err := defense.NewArmorClass(&creature{size: size.Medium}, ability.NewScore(14))
	require.NoError(t, err)
	ac.Armor.Add(4)
	ac.Shield.Add(2)
	ac.NaturalArmor.Add(1)
	ac.Dodge.Add(1)
	ac.Deflection.Add(1)

	total, err := ac.Total()
	require.NoError(t, err)
	assert.Equal(t, 10+2+4+2+1+1+1, total)

	touch, err := ac.TouchTotal()
	require.NoError(t, err)
	assert.Equal(t, 10+2+1+1, touch)

	flat, err := ac.FlatFootedTotal()
	require.NoError(t, err)
	assert.Equal(t, 10+4+2+1+1, flat)
}

func TestArmorClass_FlatFootedKeepsNegativeDex(t *testing.T) {
	ac, err := defense.NewArmorClass(&creature{size: size.Medium}, ability.NewScore(8))
	require.NoError(t, err)
	flat, err := ac.FlatFootedTotal()
	require.NoError(t, err)
	assert.Equal(t, 9, flat)
}

func newCMD(t *testing.T, c *creature, str, dex *ability.Score) (*defense.CombatManeuverDefense, *defense.ArmorClass, *offense.BaseAttackBonus) {
	t.Helper()
	bab, err := offense.NewBaseAttackBonus(c)
	require.NoError(t, err)
	ac, err := defense.NewArmorClass(c, dex)
	require.NoError(t, err)
	cmd, err := defense.NewCombatManeuverDefense(c, bab, str, dex, ac)
	require.NoError(t, err)
	return cmd, ac, bab
}

func TestCombatManeuverDefense_Baseline(t *testing.T) {
	cmd, _, _ := newCMD(t, &creature{level: 1, size: size.Medium}, ability.NewScore(10), ability.NewScore(10))
	total, err := cmd.Total()
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}

func TestCombatManeuverDefense_ReadsArmorClassTrackers(t *testing.T) {
	cmd, ac, _ := newCMD(t, &creature{level: 1, size: size.Medium}, ability.NewScore(10), ability.NewScore(10))
	ac.Circumstance.Add(2)
	ac.Deflection.Add(3)
	ac.Armor.Add(8) // armor does not apply to CMD
	ac.Penalties.Add(1)

	total, err := cmd.Total()
	require.NoError(t, err)
	assert.Equal(t, 10+2+3-1, total)

	cmd.Deflection.Add(1) // smaller than AC's deflection; non-stacking
	total, err = cmd.Total()
	require.NoError(t, err)
	assert.Equal(t, 14, total)
}

func TestCombatManeuverDefense_IncludesMorale(t *testing.T) {
	cmd, ac, _ := newCMD(t, &creature{level: 1, size: size.Medium}, ability.NewScore(10), ability.NewScore(10))
	ac.Morale.Add(2)
	ac.NaturalArmor.Add(4)
	ac.Shield.Add(1)

	total, err := cmd.Total()
	require.NoError(t, err)
	assert.Equal(t, 12, total)
}

func TestCombatManeuverDefense_FullFormula(t *testing.T) {
	c := &creature{level: 8, size: size.Large}
	cmd, _, bab := newCMD(t, c, ability.NewScore(18), ability.NewScore(12))
	bab.Progression = offense.Fighter
	total, err := cmd.Total()
	require.NoError(t, err)
	assert.Equal(t, 10+8+4+1+1, total)

	c.size = size.Small
	total, err = cmd.Total()
	require.NoError(t, err)
	assert.Equal(t, 10+8+4+1-1, total)
}

func TestCombatManeuverDefense_NilArguments(t *testing.T) {
	c := &creature{level: 1, size: size.Medium}
	bab, err := offense.NewBaseAttackBonus(c)
	require.NoError(t, err)
	str, dex := ability.NewScore(10), ability.NewScore(10)
	ac, err := defense.NewArmorClass(c, dex)
	require.NoError(t, err)

	_, err = defense.NewCombatManeuverDefense(nil, bab, str, dex, ac)
	assert.True(t, rpgerr.IsInvalidArgument(err))
	_, err = defense.NewCombatManeuverDefense(c, nil, str, dex, ac)
	assert.True(t, rpgerr.IsInvalidArgument(err))
	_, err = defense.NewCombatManeuverDefense(c, bab, nil, dex, ac)
	assert.True(t, rpgerr.IsInvalidArgument(err))
	_, err = defense.NewCombatManeuverDefense(c, bab, str, nil, ac)
	assert.True(t, rpgerr.IsInvalidArgument(err))
	_, err = defense.NewCombatManeuverDefense(c, bab, str, dex, nil)
	assert.True(t, rpgerr.IsInvalidArgument(err))
}

func TestPropertyArmorClass_PenaltiesNeverRaiseTotal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ac, err := defense.NewArmorClass(&creature{size: size.Medium}, ability.NewScore(rapid.Uint8Range(1, 30).Draw(rt, "dex")))
		require.NoError(rt, err)
		ac.Armor.Add(rapid.Uint8Range(0, 10).Draw(rt, "armor"))
		before, err := ac.Total()
		require.NoError(rt, err)
		ac.Penalties.Add(rapid.Uint8Range(0, 10).Draw(rt, "penalty"))
		after, err := ac.Total()
		require.NoError(rt, err)
		assert.LessOrEqual(rt, after, before)
	})
}
