package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// globalScope is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no scope VM is found.
const globalScope = "__global__"

// UnitInfo is a snapshot of one combatant passed to Lua.
type UnitInfo struct {
	Index    int
	Name     string
	Side     string
	HP       int
	MaxHP    int
	Armor    int
	MaxArmor int
	Energy   int
	Capacity int
	Dead     bool
	Effects  []string
}

// StateProvider exposes the battle being decided to the engine.* module.
type StateProvider interface {
	// Actor returns the unit choosing a move, or nil.
	Actor() *UnitInfo
	// Units returns every unit in roster order.
	Units() []*UnitInfo
}

// vm is one Sandbox. Its mutex serializes calls, since an LState is
// single-threaded.
type vm struct {
	mu sync.Mutex
	sb *Sandbox
}

// Manager owns one sandboxed LState per scope and exposes hook dispatch.
//
// Manager is safe for concurrent use. Calls into the same scope are serialized;
// different scopes run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	logger *zap.Logger

	stateMu sync.RWMutex
	state   StateProvider
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no scopes.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		logger: logger,
	}
}

// Bind makes p the state read by engine.* functions. Passing nil unbinds.
func (m *Manager) Bind(p StateProvider) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.state = p
}

func (m *Manager) provider() StateProvider {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

// LoadScope creates a sandboxed VM for scope, registers all engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
// Postcondition: the scope VM replaces any previous one; returns error on Lua load failure.
func (m *Manager) LoadScope(scope, scriptDir string, instLimit int) error {
	return m.loadInto(scope, scriptDir, instLimit)
}

// LoadGlobal creates the "__global__" VM, the CallHook fallback for every scope.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalScope, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	sb := NewSandbox(instLimit)
	m.RegisterModules(sb.L)
	for _, path := range luaFiles {
		if err := sb.DoFile(path); err != nil {
			sb.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = &vm{sb: sb}
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.sb.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripts loaded",
		zap.String("scope", key),
		zap.Int("files", len(luaFiles)),
		zap.Int("instruction_limit", sb.Limit()),
	)
	return nil
}

// lookup returns the VM for scope, falling back to the global VM.
func (m *Manager) lookup(scope string) *vm {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vms[scope]; ok {
		return v
	}
	return m.vms[globalScope]
}

// CallHook calls the named Lua global function in scope's VM. If the scope has
// no VM, the __global__ VM is tried as a fallback. Returns (LNil, nil) if the
// hook is not defined or no VM exists. Lua runtime errors, including an
// exhausted instruction budget, are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	v := m.lookup(scope)
	if v == nil {
		m.logger.Info("scripting: no VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	ret, err := v.sb.Call(hook, args...)
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	return ret, nil
}

// HasHook reports whether hook is a Lua function in scope, falling back to
// the global VM like CallHook.
func (m *Manager) HasHook(scope, hook string) bool {
	v := m.lookup(scope)
	if v == nil {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sb.HasFunction(hook)
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.vms {
		v.mu.Lock()
		v.sb.Close()
		v.mu.Unlock()
		delete(m.vms, key)
	}
}
