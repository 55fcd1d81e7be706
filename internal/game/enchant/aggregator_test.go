package enchant_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/character"
	"github.com/cory-johannsen/statblock/internal/game/enchant"
	"github.com/cory-johannsen/statblock/internal/game/spell"
)

type stub struct {
	kind        string
	name        string
	cost        int
	bonus       int
	level       int
	schools     []spell.School
	enhancement bool
	deflection  uint8
}

func (s *stub) Kind() string             { return s.kind }
func (s *stub) Name() string             { return s.name }
func (s *stub) Cost() int                { return s.cost }
func (s *stub) SpecialAbilityBonus() int { return s.bonus }
func (s *stub) CasterLevel() int         { return s.level }
func (s *stub) Schools() []spell.School  { return s.schools }
func (s *stub) IsEnhancementBonus() bool { return s.enhancement }
func (s *stub) ApplyTo(c *character.Character) {
	if s.deflection > 0 {
		c.ArmorClass.Deflection.Add(s.deflection)
	}
}

func enhancement(bonus int) *stub {
	return &stub{
		kind:        "enhancement_bonus",
		name:        "+" + string(rune('0'+bonus)),
		bonus:       bonus,
		level:       3 * bonus,
		schools:     []spell.School{spell.Evocation},
		enhancement: true,
	}
}

type shield struct {
	applied []string
}

func newAggregator(t *testing.T, coefficient int) (*enchant.Aggregator[*stub, *shield], *shield) {
	t.Helper()
	item := &shield{}
	agg, err := enchant.New(item, func(e *stub, s *shield) error {
		s.applied = append(s.applied, e.Kind())
		return nil
	}, coefficient, zap.NewNop())
	require.NoError(t, err)
	return agg, item
}

func TestNew_RejectsNilCallback(t *testing.T) {
	_, err := enchant.New[*stub, *shield](&shield{}, nil, 1000, nil)
	assert.True(t, rpgerr.IsInvalidArgument(err))
}

func TestNew_RejectsNegativeCoefficient(t *testing.T) {
	_, err := enchant.New(&shield{}, func(*stub, *shield) error { return nil }, -1, nil)
	assert.True(t, rpgerr.IsInvalidArgument(err))
}

func TestMarketPrice_EnhancementThenFlatCost(t *testing.T) {
	agg, _ := newAggregator(t, 1000)
	require.NoError(t, agg.EnchantWith(enhancement(5)))
	assert.Equal(t, 25000, agg.MarketPrice())

	require.NoError(t, agg.EnchantWith(&stub{kind: "glamered", name: "glamered", cost: 1000, level: 10}))
	assert.Equal(t, 26000, agg.MarketPrice())
}

func TestMarketPrice_SquaresCombinedBonus(t *testing.T) {
	agg, _ := newAggregator(t, 2000)
	require.NoError(t, agg.EnchantWith(enhancement(1)))
	require.NoError(t, agg.EnchantWith(&stub{kind: "flaming", name: "flaming", bonus: 1, level: 10}))
	assert.Equal(t, 8000, agg.MarketPrice())
}

func TestMarketPrice_Empty(t *testing.T) {
	agg, _ := newAggregator(t, 1000)
	assert.Equal(t, 0, agg.MarketPrice())
}

func TestEnchantWith_RequiresEnhancementBonusFirst(t *testing.T) {
	agg, item := newAggregator(t, 1000)
	err := agg.EnchantWith(&stub{kind: "glamered", name: "glamered", cost: 1000})
	assert.True(t, rpgerr.IsInvalidState(err))
	assert.Equal(t, "glamered", rpgerr.GetMeta(err)["kind"])
	assert.Equal(t, 0, agg.Len())
	assert.Empty(t, item.applied)
}

func TestEnchantWith_RejectsNilPointer(t *testing.T) {
	agg, item := newAggregator(t, 1000)
	var missing *stub
	err := agg.EnchantWith(missing)
	assert.True(t, rpgerr.IsInvalidArgument(err))
	assert.Equal(t, 0, agg.Len())
	assert.Empty(t, item.applied)
}

func TestEnchantWith_RejectsDuplicateKind(t *testing.T) {
	agg, item := newAggregator(t, 1000)
	require.NoError(t, agg.EnchantWith(enhancement(1)))
	err := agg.EnchantWith(enhancement(2))
	assert.True(t, rpgerr.IsInvalidState(err))
	assert.Equal(t, 1, agg.Len())
	assert.Equal(t, []string{"enhancement_bonus"}, item.applied)
}


func TestEnchantWith_CallbackErrorLeavesAggregatorUnchanged(t *testing.T) {
	boom := errors.New("item is cursed")
	agg, err := enchant.New(&shield{}, func(*stub, *shield) error { return boom }, 1000, nil)
	require.NoError(t, err)

	err = agg.EnchantWith(enhancement(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, agg.Len())
	_, ok := agg.EnhancementBonus()
	assert.False(t, ok)
}

func TestEnchantWith_AppliesToItem(t *testing.T) {
	agg, item := newAggregator(t, 1000)
	require.NoError(t, agg.EnchantWith(enhancement(2)))
	require.NoError(t, agg.EnchantWith(&stub{kind: "shadow", name: "shadow", cost: 3750}))
	assert.Equal(t, []string{"enhancement_bonus", "shadow"}, item.applied)
	assert.Same(t, item, agg.Item())
	assert.True(t, agg.Has("shadow"))
	assert.False(t, agg.Has("slick"))
}

func TestLifecycle_AttachedAppliesLaterEnchantments(t *testing.T) {
	agg, _ := newAggregator(t, 1000)
	c, err := character.New("Kyra", 3)
	require.NoError(t, err)

	require.NoError(t, agg.EnchantWith(enhancement(1)))
	require.NoError(t, agg.EnchantWith(&stub{kind: "warding", name: "warding", cost: 500, deflection: 2}))
	assert.Equal(t, enchant.Unattached, agg.State())
	assert.Equal(t, uint8(0), c.ArmorClass.Deflection.Total())

	require.NoError(t, agg.ApplyTo(c))
	assert.Equal(t, enchant.Attached, agg.State())
	wearer, ok := agg.Character()
	require.True(t, ok)
	assert.Same(t, c, wearer)
	assert.Equal(t, uint8(2), c.ArmorClass.Deflection.Total())

	require.NoError(t, agg.EnchantWith(&stub{kind: "blessed", name: "blessed", cost: 100, deflection: 4}))
	assert.Equal(t, uint8(4), c.ArmorClass.Deflection.Total())
	assert.Equal(t, 2, c.ArmorClass.Deflection.Len())
}

func TestApplyTo_RejectsNil(t *testing.T) {
	agg, _ := newAggregator(t, 1000)
	err := agg.ApplyTo(nil)
	assert.True(t, rpgerr.IsInvalidArgument(err))
	assert.Equal(t, enchant.Unattached, agg.State())
}

func TestCasterLevel_TakesMaximum(t *testing.T) {
	agg, _ := newAggregator(t, 1000)
	_, ok := agg.CasterLevel()
	assert.False(t, ok)

	require.NoError(t, agg.EnchantWith(enhancement(2)))
	require.NoError(t, agg.EnchantWith(&stub{kind: "spell_resistance", name: "spell resistance (13)", bonus: 2, level: 15}))
	require.NoError(t, agg.EnchantWith(&stub{kind: "slick", name: "slick", cost: 3750, level: 4}))
	level, ok := agg.CasterLevel()
	require.True(t, ok)
	assert.Equal(t, 15, level)
}

func TestSchools_EnhancementOnlyWhenAlone(t *testing.T) {
	agg, _ := newAggregator(t, 1000)
	assert.Empty(t, agg.Schools())

	require.NoError(t, agg.EnchantWith(enhancement(1)))
	assert.Equal(t, []spell.School{spell.Evocation}, agg.Schools())

	require.NoError(t, agg.EnchantWith(&stub{
		kind:    "ghost_touch",
		name:    "ghost touch",
		bonus:   3,
		schools: []spell.School{spell.Transmutation},
	}))
	require.NoError(t, agg.EnchantWith(&stub{
		kind:    "shadow",
		name:    "shadow",
		cost:    3750,
		schools: []spell.School{spell.Illusion, spell.Transmutation},
	}))
	assert.Equal(t, []spell.School{spell.Illusion, spell.Transmutation}, agg.Schools())
}

func TestNames_SplitsEnhancementFromSortedOthers(t *testing.T) {
	agg, _ := newAggregator(t, 1000)
	_, ok, others := agg.Names()
	assert.False(t, ok)
	assert.Empty(t, others)

	require.NoError(t, agg.EnchantWith(enhancement(3)))
	require.NoError(t, agg.EnchantWith(&stub{kind: "shadow", name: "shadow"}))
	require.NoError(t, agg.EnchantWith(&stub{kind: "fortification", name: "fortification (light)"}))

	name, ok, others := agg.Names()
	require.True(t, ok)
	assert.Equal(t, "+3", name)
	assert.Equal(t, []string{"fortification (light)", "shadow"}, others)
}

func TestEnchantments_ReturnsCopyInOrder(t *testing.T) {
	agg, _ := newAggregator(t, 1000)
	first := enhancement(1)
	second := &stub{kind: "slick", name: "slick"}
	require.NoError(t, agg.EnchantWith(first))
	require.NoError(t, agg.EnchantWith(second))

	got := agg.Enchantments()
	assert.Equal(t, []*stub{first, second}, got)
	got[0] = nil
	assert.Same(t, first, agg.Enchantments()[0])
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unattached", enchant.Unattached.String())
	assert.Equal(t, "attached", enchant.Attached.String())
}

func TestProperty_MarketPriceFormula(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		coefficient := rapid.IntRange(0, 2000).Draw(rt, "coefficient")
		bonus := rapid.IntRange(1, 5).Draw(rt, "bonus")
		extras := rapid.IntRange(0, 4).Draw(rt, "extras")

		agg, err := enchant.New(&shield{}, func(*stub, *shield) error { return nil }, coefficient, nil)
		if err != nil {
			rt.Fatal(err)
		}
		if err := agg.EnchantWith(enhancement(bonus)); err != nil {
			rt.Fatal(err)
		}
		flat, total := 0, bonus
		for i := 0; i < extras; i++ {
			cost := rapid.IntRange(0, 50000).Draw(rt, "cost")
			sab := rapid.IntRange(0, 3).Draw(rt, "sab")
			e := &stub{kind: "extra" + string(rune('a'+i)), name: "extra", cost: cost, bonus: sab}
			if err := agg.EnchantWith(e); err != nil {
				rt.Fatal(err)
			}
			flat += cost
			total += sab
		}
		want := flat + coefficient*total*total
		if got := agg.MarketPrice(); got != want {
			rt.Fatalf("MarketPrice() = %d, want %d", got, want)
		}
	})
}
