// Package scripting evaluates numeric Lua formulas in a sandboxed GopherLua VM.
// It has no dependency on game domain packages; callers supply named integer
// variables and receive integer results.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode allowance of one evaluation when no
// override is configured.
const DefaultInstructionLimit = 100_000

// unsafeGlobals are removed from every sandbox after the base library opens.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require", "print"}

// budget is a context that cancels itself once Done has been called more times
// than its allowance. GopherLua polls Done once per opcode, which turns the
// allowance into an instruction limit.
type budget struct {
	context.Context
	cancel    context.CancelFunc
	remaining atomic.Int64
}

func newBudget(allowance int) *budget {
	ctx, cancel := context.WithCancel(context.Background())
	b := &budget{Context: ctx, cancel: cancel}
	b.remaining.Store(int64(allowance))
	return b
}

// Done spends one unit of the allowance.
func (b *budget) Done() <-chan struct{} {
	if b.remaining.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

func normalizeLimit(instLimit int) int {
	if instLimit <= 0 {
		return DefaultInstructionLimit
	}
	return instLimit
}

// arm installs a fresh budget of limit opcodes on L and returns its cancel func.
func arm(L *lua.LState, limit int) context.CancelFunc {
	b := newBudget(normalizeLimit(limit))
	L.SetContext(b)
	return b.cancel
}

// NewSandboxedState creates a GopherLua LState that opens only the base, table,
// string and math libraries, drops the globals that reach the filesystem or the
// loader, and stops after instLimit opcodes (0 uses DefaultInstructionLimit).
//
// Postcondition: Returns a non-nil LState and the cancel func of its budget.
// The caller owns the LState and must call cancel and L.Close() when done.
func NewSandboxedState(instLimit int) (*lua.LState, context.CancelFunc) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L, arm(L, instLimit)
}
