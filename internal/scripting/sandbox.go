// Package scripting runs move-selection scripts in sandboxed GopherLua VMs.
// It has no dependency on game domain packages; battle state reaches Lua
// through a bound StateProvider.
package scripting

import (
	"context"
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget of one Run when no limit is configured.
const DefaultInstructionLimit = 100_000

// opcodeBudget is a context that cancels itself once Done has been polled
// limit times. GopherLua polls Done once per opcode while a context is set.
type opcodeBudget struct {
	context.Context
	cancel context.CancelFunc
	left   atomic.Int64
}

func newOpcodeBudget(limit int) *opcodeBudget {
	ctx, cancel := context.WithCancel(context.Background())
	b := &opcodeBudget{Context: ctx, cancel: cancel}
	b.left.Store(int64(limit))
	return b
}

func (b *opcodeBudget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

// Sandbox is a restricted LState. Only the base, table, string and math
// libraries are loaded, and dofile, loadfile, load, collectgarbage and
// require are removed. Every Run gets a fresh budget of Limit opcodes.
//
// A Sandbox is not safe for concurrent use.
type Sandbox struct {
	L     *lua.LState
	limit int
}

// NewSandbox creates a Sandbox whose runs may execute at most instLimit opcodes.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: the caller must call Close.
func NewSandbox(instLimit int) *Sandbox {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return &Sandbox{L: L, limit: instLimit}
}

// Limit returns the per-run opcode budget.
func (s *Sandbox) Limit() int { return s.limit }

// Run calls fn with a fresh opcode budget. Exhausting the budget aborts the
// running Lua code with an error.
func (s *Sandbox) Run(fn func(L *lua.LState) error) error {
	budget := newOpcodeBudget(s.limit)
	s.L.SetContext(budget)
	defer func() {
		s.L.RemoveContext()
		budget.cancel()
	}()
	return fn(s.L)
}

// DoFile executes the Lua file at path within one budget.
func (s *Sandbox) DoFile(path string) error {
	return s.Run(func(L *lua.LState) error { return L.DoFile(path) })
}

// DoString executes src within one budget.
func (s *Sandbox) DoString(src string) error {
	return s.Run(func(L *lua.LState) error { return L.DoString(src) })
}

// Call invokes the global function name with args and returns its first
// result. An undefined global returns (LNil, nil).
func (s *Sandbox) Call(name string, args ...lua.LValue) (lua.LValue, error) {
	fn := s.L.GetGlobal(name)
	if fn == lua.LNil {
		return lua.LNil, nil
	}
	if fn.Type() != lua.LTFunction {
		return lua.LNil, fmt.Errorf("global %q is a %s, not a function", name, fn.Type())
	}
	var ret lua.LValue = lua.LNil
	err := s.Run(func(L *lua.LState) error {
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = L.Get(-1)
		L.Pop(1)
		return nil
	})
	return ret, err
}

// HasFunction reports whether the global name is a Lua function.
func (s *Sandbox) HasFunction(name string) bool {
	return s.L.GetGlobal(name).Type() == lua.LTFunction
}

// Close releases the LState.
func (s *Sandbox) Close() { s.L.Close() }
