package scripting

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
	"go.uber.org/zap"
)

// ErrClosed is returned when evaluating a formula after its Engine was closed.
var ErrClosed = errors.New("scripting: engine closed")

// Engine owns one sandboxed LState shared by every Formula it compiles.
//
// Engine is safe for concurrent use; evaluations are serialized because an
// LState is single-threaded.
type Engine struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel func()
	limit  int
	logger *zap.Logger
}

// NewEngine creates an Engine whose evaluations run at most instLimit opcodes.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit. A nil logger
// disables logging.
// Postcondition: Returns a non-nil Engine; the caller must Close it.
func NewEngine(instLimit int, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	L, cancel := NewSandboxedState(instLimit)
	RegisterModules(L)
	return &Engine{
		state:  L,
		cancel: cancel,
		limit:  normalizeLimit(instLimit),
		logger: logger,
	}
}

// Close releases the VM. Formulas evaluated afterwards return ErrClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return
	}
	e.cancel()
	e.state.Close()
	e.state = nil
}

// LoadLibrary executes every *.lua file in dir in lexicographic order, making the
// functions they define available to formulas.
//
// Precondition: dir must be a readable directory.
func (e *Engine) LoadLibrary(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading library dir %q: %w", dir, err)
	}

	var luaFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(luaFiles)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return ErrClosed
	}
	for _, path := range luaFiles {
		cancel := e.resetLimit()
		err := e.state.DoFile(path)
		cancel()
		if err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
		e.logger.Debug("lua library loaded", zap.String("path", path))
	}
	return nil
}

// resetLimit gives the next run a fresh instruction budget.
// Precondition: e.mu is held.
func (e *Engine) resetLimit() func() {
	return arm(e.state, e.limit)
}

var returnKeyword = regexp.MustCompile(`\breturn\b`)

// Compile parses source into a Formula. A bare expression such as
// "engine.modifier(strength) * 2" is treated as "return <expression>".
//
// Precondition: name and source must be non-empty.
func (e *Engine) Compile(name, source string) (*Formula, error) {
	if name == "" {
		return nil, errors.New("scripting: formula name must not be empty")
	}
	src := strings.TrimSpace(source)
	if src == "" {
		return nil, fmt.Errorf("scripting: formula %q is empty", name)
	}
	if !returnKeyword.MatchString(src) {
		src = "return " + src
	}
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("scripting: parsing formula %q: %w", name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("scripting: compiling formula %q: %w", name, err)
	}
	return &Formula{engine: e, name: name, source: source, proto: proto}, nil
}

// Formula is a compiled Lua chunk returning one number.
type Formula struct {
	engine *Engine
	name   string
	source string
	proto  *lua.FunctionProto
}

// Name returns the formula's name.
func (f *Formula) Name() string { return f.name }

// Source returns the formula's source as given to Compile.
func (f *Formula) Source() string { return f.source }

// Evaluate runs the formula with vars bound as globals and returns its result
// rounded down to an integer.
//
// Postcondition: vars are visible only to this evaluation.
func (f *Formula) Evaluate(vars map[string]int) (int, error) {
	e := f.engine
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return 0, ErrClosed
	}
	L := e.state
	cancel := e.resetLimit()
	defer cancel()

	env := L.NewTable()
	for k, v := range vars {
		env.RawSetString(k, lua.LNumber(v))
	}
	meta := L.NewTable()
	meta.RawSetString("__index", L.G.Global)
	L.SetMetatable(env, meta)

	fn := L.NewFunctionFromProto(f.proto)
	fn.Env = env
	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		return 0, fmt.Errorf("scripting: evaluating %q: %w", f.name, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("scripting: formula %q returned %s, want number", f.name, ret.Type())
	}
	return int(math.Floor(float64(n))), nil
}

// Calculation adapts the formula into a byte-valued calculation evaluated on every
// call with the variables vars returns. Lua errors are logged at Warn level and
// yield 0; results are clamped to [0, 255].
//
// Precondition: vars must not be nil.
func (f *Formula) Calculation(vars func() map[string]int) func() uint8 {
	return func() uint8 {
		v, err := f.Evaluate(vars())
		if err != nil {
			f.engine.logger.Warn("scripting: Lua runtime error",
				zap.String("formula", f.name),
				zap.Error(err),
			)
			return 0
		}
		switch {
		case v < 0:
			return 0
		case v > math.MaxUint8:
			return math.MaxUint8
		}
		return uint8(v)
	}
}
