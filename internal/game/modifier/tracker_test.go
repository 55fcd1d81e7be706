package modifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	rpgerr "github.com/cory-johannsen/statblock/internal/errors"
	"github.com/cory-johannsen/statblock/internal/game/modifier"
)

func TestTracker_Empty_ReturnsIdentity(t *testing.T) {
	assert.Equal(t, uint8(0), modifier.NewSum().Total())
	assert.Equal(t, uint8(0), modifier.NewMaximum().Total())
	assert.Equal(t, uint8(255), modifier.NewMinimum().Total())
}

func TestTracker_Sum_AddsAll(t *testing.T) {
	tr := modifier.NewSum()
	tr.Add(2)
	tr.Add(3)
	tr.Add(1)
	assert.Equal(t, uint8(6), tr.Total())
	assert.Equal(t, 3, tr.Len())
}

func TestTracker_Sum_ClampsAt255(t *testing.T) {
	tr := modifier.NewSum()
	tr.Add(200)
	tr.Add(100)
	assert.Equal(t, uint8(255), tr.Total())
}

func TestTracker_Maximum_KeepsLargest(t *testing.T) {
	tr := modifier.NewMaximum()
	tr.Add(2)
	tr.Add(5)
	tr.Add(3)
	assert.Equal(t, uint8(5), tr.Total())
}

func TestTracker_Minimum_KeepsSmallest(t *testing.T) {
	tr := modifier.NewMinimum()
	tr.Add(5)
	tr.Add(1)
	tr.Add(3)
	assert.Equal(t, uint8(1), tr.Total())
}

func TestTracker_AddFunc_Nil_InvalidArgument(t *testing.T) {
	tr := modifier.NewSum()
	err := tr.AddFunc(nil)
	require.Error(t, err)
	assert.True(t, rpgerr.IsInvalidArgument(err))
	assert.Equal(t, 0, tr.Len())
}

func TestTracker_AddFunc_EvaluatedOnEveryRead(t *testing.T) {
	level := uint8(1)
	tr := modifier.NewSum()
	require.NoError(t, tr.AddFunc(func() uint8 { return level }))
	assert.Equal(t, uint8(1), tr.Total())
	level = 7
	assert.Equal(t, uint8(7), tr.Total())
}

func TestTracker_Mirror_ReflectsLaterAdditions(t *testing.T) {
	shared := modifier.NewMaximum()
	own := modifier.NewMaximum()
	require.NoError(t, own.Mirror(shared))
	own.Add(2)
	assert.Equal(t, uint8(2), own.Total())
	shared.Add(4)
	assert.Equal(t, uint8(4), own.Total())
}

func TestTracker_Mirror_Nil_InvalidArgument(t *testing.T) {
	err := modifier.NewSum().Mirror(nil)
	assert.True(t, rpgerr.IsInvalidArgument(err))
}

func TestComputed_Nil_InvalidArgument(t *testing.T) {
	_, err := modifier.Computed(nil)
	assert.True(t, rpgerr.IsInvalidArgument(err))
}

func TestContribution_Value(t *testing.T) {
	c := modifier.Constant(9)
	assert.Equal(t, uint8(9), c.Value())
	assert.False(t, c.IsComputed())

	d, err := modifier.Computed(func() uint8 { return 4 })
	require.NoError(t, err)
	assert.True(t, d.IsComputed())
	tr := modifier.NewSum()
	tr.AddContribution(c)
	tr.AddContribution(d)
	assert.Equal(t, uint8(13), tr.Total())
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "sum", modifier.Sum.String())
	assert.Equal(t, "maximum", modifier.Maximum.String())
	assert.Equal(t, "minimum", modifier.Minimum.String())
	assert.Equal(t, "unknown", modifier.Policy(42).String())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, uint8(0), modifier.Clamp(-4))
	assert.Equal(t, uint8(17), modifier.Clamp(17))
	assert.Equal(t, uint8(255), modifier.Clamp(1000))
}

func TestPropertySum_IsClampedSum(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOf(rapid.Uint8()).Draw(rt, "values")
		tr := modifier.NewSum()
		expected := 0
		for _, v := range values {
			tr.Add(v)
			expected += int(v)
		}
		if expected > 255 {
			expected = 255
		}
		assert.Equal(rt, uint8(expected), tr.Total())
	})
}

func TestPropertyMaximum_SmallerAdditionNeverChangesTotal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOfN(rapid.Uint8(), 1, 20).Draw(rt, "values")
		tr := modifier.NewMaximum()
		for _, v := range values {
			tr.Add(v)
		}
		before := tr.Total()
		smaller := rapid.Uint8Range(0, before).Draw(rt, "smaller")
		tr.Add(smaller)
		assert.Equal(rt, before, tr.Total())
	})
}

func TestPropertyMinimum_NeverExceedsAnyEntry(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOfN(rapid.Uint8(), 1, 20).Draw(rt, "values")
		tr := modifier.NewMinimum()
		for _, v := range values {
			tr.Add(v)
		}
		for _, v := range values {
			assert.LessOrEqual(rt, tr.Total(), v)
		}
	})
}
