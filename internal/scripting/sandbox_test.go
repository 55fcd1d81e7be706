package scripting_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/statblock/internal/scripting"
)

func sandbox(t *testing.T, limit int) *lua.LState {
	t.Helper()
	L, cancel := scripting.NewSandboxedState(limit)
	require.NotNil(t, L)
	t.Cleanup(func() {
		cancel()
		L.Close()
	})
	return L
}

func TestSandbox_Globals(t *testing.T) {
	L := sandbox(t, 0)
	for name, want := range map[string]lua.LValueType{
		"os":             lua.LTNil,
		"io":             lua.LTNil,
		"debug":          lua.LTNil,
		"package":        lua.LTNil,
		"dofile":         lua.LTNil,
		"loadfile":       lua.LTNil,
		"load":           lua.LTNil,
		"loadstring":     lua.LTNil,
		"require":        lua.LTNil,
		"print":          lua.LTNil,
		"collectgarbage": lua.LTNil,
		"math":           lua.LTTable,
		"string":         lua.LTTable,
		"table":          lua.LTTable,
		"tostring":       lua.LTFunction,
	} {
		assert.Equal(t, want, L.GetGlobal(name).Type(), name)
	}
}

func TestSandbox_FormulaLibraries(t *testing.T) {
	L := sandbox(t, 0)
	require.NoError(t, L.DoString(`
		local cl = 11
		result = math.min(math.floor(cl / 4), 5)
		label = string.format("+%d resistance", result)
		local parts = {}
		table.insert(parts, label)
		joined = table.concat(parts, ",")
	`))
	assert.Equal(t, lua.LNumber(2), L.GetGlobal("result"))
	assert.Equal(t, lua.LString("+2 resistance"), L.GetGlobal("joined"))
}

func TestSandbox_BudgetExhausted(t *testing.T) {
	L := sandbox(t, 10)
	assert.Error(t, L.DoString(`while true do end`))
}

func TestSandbox_BudgetSharedAcrossChunks(t *testing.T) {
	L := sandbox(t, 200)
	loop := `local n = 0 for i = 1, 20 do n = n + i end`
	var err error
	for i := 0; i < 50 && err == nil; i++ {
		err = L.DoString(loop)
	}
	assert.Error(t, err, "one budget covers every chunk run on the state")
}

func TestSandbox_CancelStopsEvaluation(t *testing.T) {
	L, cancel := scripting.NewSandboxedState(0)
	defer L.Close()
	cancel()
	assert.Error(t, L.DoString(`local x = 1 + 1`))
}

func TestProperty_BudgetBoundsLoops(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 100).Draw(t, "iterations")
		chunk := fmt.Sprintf(`local s = 0 for i = 1, %d do s = s + i end`, n)

		roomy, cancelRoomy := scripting.NewSandboxedState(0)
		defer roomy.Close()
		defer cancelRoomy()
		if err := roomy.DoString(chunk); err != nil {
			t.Fatalf("%d iterations under the default budget: %v", n, err)
		}

		tight, cancelTight := scripting.NewSandboxedState(rapid.IntRange(1, 3).Draw(t, "limit"))
		defer tight.Close()
		defer cancelTight()
		if err := tight.DoString(`while true do end`); err == nil {
			t.Fatal("unbounded loop finished under a tiny budget")
		}
	})
}

func TestRegisterModules(t *testing.T) {
	L := sandbox(t, 0)
	scripting.RegisterModules(L)
	require.NoError(t, L.DoString(`
		assert(engine.modifier(18) == 4, "modifier(18)")
		assert(engine.modifier(7) == -2, "modifier(7)")
		assert(engine.bonus(7) == 0, "bonus(7)")
		assert(engine.bonus(13) == 1, "bonus(13)")
		assert(engine.clamp(12, 0, 5) == 5, "clamp high")
		assert(engine.clamp(-3, 0, 5) == 0, "clamp low")
	`))
	assert.Error(t, L.DoString(`engine.clamp(1, 5, 0)`))
}
