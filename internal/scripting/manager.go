package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/actorcore/internal/game/actor"
	"github.com/cory-johannsen/actorcore/internal/game/aura"
	"github.com/cory-johannsen/actorcore/internal/observability"
)

// Manager owns one sandboxed LState holding every loaded hook script and
// dispatches aura lifecycle events to it. It implements actor.Hooks.
//
// Calls are serialized by a mutex. A hook must not trigger another hook on
// the same Manager.
type Manager struct {
	mu     sync.Mutex
	L      *lua.LState
	cancel context.CancelFunc
	limit  int
	logger *zap.Logger
}

var _ actor.Hooks = (*Manager)(nil)

// NewManager creates a Manager whose every load and call may run at most
// instLimit opcodes. logger may be nil.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: the engine global is registered; call Close when done.
func NewManager(instLimit int, logger *zap.Logger) *Manager {
	m := &Manager{
		limit:  instLimit,
		logger: observability.Component(logger, "scripting"),
	}
	m.L, m.cancel = NewSandboxedState(instLimit)
	m.RegisterModules(m.L)
	return m
}

// Load executes every *.lua file in scriptDir in lexicographic order, each
// under a fresh instruction budget.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: returns an error naming the first file that fails to load;
// functions defined by earlier files remain available.
func (m *Manager) Load(scriptDir string) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, path := range luaFiles {
		m.rearm()
		if err := m.L.DoFile(path); err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	m.logger.Debug("scripts loaded", zap.String("dir", scriptDir), zap.Int("files", len(luaFiles)))
	return nil
}

func (m *Manager) rearm() {
	m.cancel()
	m.cancel = Limit(m.L, m.limit)
}

// CallHook calls the named Lua global function. Returns (LNil, nil) if the
// hook is not defined. Lua runtime errors, including an exhausted
// instruction budget, are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.call(hook, args...), nil
}

func (m *Manager) call(hook string, args ...lua.LValue) lua.LValue {
	fn := m.L.GetGlobal(hook)
	if fn == lua.LNil {
		m.logger.Debug("hook not defined", zap.String("hook", hook))
		return lua.LNil
	}

	m.rearm()
	if err := m.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil
	}

	ret := m.L.Get(-1)
	m.L.Pop(1)
	return ret
}

// OnAuraApplied runs def.LuaOnApply as hook(actor, aura_id, count).
func (m *Manager) OnAuraApplied(a *actor.Actor, st *aura.Stack) {
	if st.Def.LuaOnApply == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call(st.Def.LuaOnApply, m.actorTable(m.L, a), lua.LString(st.Def.ID), lua.LNumber(st.Count))
}

// OnAuraRemoved runs def.LuaOnRemove as hook(actor, aura_id).
func (m *Manager) OnAuraRemoved(a *actor.Actor, def *aura.Def) {
	if def.LuaOnRemove == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.call(def.LuaOnRemove, m.actorTable(m.L, a), lua.LString(def.ID))
}

// Close releases the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancel()
	m.L.Close()
}
