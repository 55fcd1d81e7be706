package scripting

import (
	"math"

	lua "github.com/yuin/gopher-lua"
)

// RegisterModules registers the engine.* helper table into L:
//
//	engine.modifier(score)     floor((score - 10) / 2)
//	engine.clamp(v, lo, hi)    v bounded to [lo, hi]
//	engine.bonus(score)        max(engine.modifier(score), 0)
//
// Postcondition: engine global is defined in L.
func RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetFuncs(engine, map[string]lua.LGFunction{
		"modifier": luaModifier,
		"bonus":    luaBonus,
		"clamp":    luaClamp,
	})
	L.SetGlobal("engine", engine)
}

func abilityModifier(score float64) float64 {
	return math.Floor((score - 10) / 2)
}

func luaModifier(L *lua.LState) int {
	L.Push(lua.LNumber(abilityModifier(float64(L.CheckNumber(1)))))
	return 1
}

func luaBonus(L *lua.LState) int {
	L.Push(lua.LNumber(math.Max(abilityModifier(float64(L.CheckNumber(1))), 0)))
	return 1
}

func luaClamp(L *lua.LState) int {
	v, lo, hi := float64(L.CheckNumber(1)), float64(L.CheckNumber(2)), float64(L.CheckNumber(3))
	if lo > hi {
		L.ArgError(2, "lower bound exceeds upper bound")
		return 0
	}
	L.Push(lua.LNumber(math.Min(math.Max(v, lo), hi)))
	return 1
}
