package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/actorcore/internal/game/actor"
	"github.com/cory-johannsen/actorcore/internal/game/combat"
	"github.com/cory-johannsen/actorcore/internal/game/stat"
)

// RegisterModules registers the engine.* Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine.log is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	log := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, fn := range levels {
		L.SetField(log, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	L.SetField(engine, "log", log)
	L.SetGlobal("engine", engine)
}

// actorTable exposes a to a hook as a table of methods called with ':'.
func (m *Manager) actorTable(L *lua.LState, a *actor.Actor) *lua.LTable {
	t := L.NewTable()
	method := func(name string, fn func(L *lua.LState) int) {
		L.SetField(t, name, L.NewFunction(fn))
	}
	resource := func(L *lua.LState) actor.Resource {
		r, err := actor.ParseResource(L.CheckString(2))
		if err != nil {
			L.ArgError(2, err.Error())
		}
		return r
	}
	kind := func(L *lua.LState) stat.Kind {
		k, err := stat.ParseKind(L.CheckString(2))
		if err != nil {
			L.ArgError(2, err.Error())
		}
		return k
	}

	method("name", func(L *lua.LState) int {
		L.Push(lua.LString(a.Name()))
		return 1
	})
	method("level", func(L *lua.LState) int {
		L.Push(lua.LNumber(a.Level()))
		return 1
	})
	method("alive", func(L *lua.LState) int {
		L.Push(lua.LBool(a.Alive()))
		return 1
	})
	method("current", func(L *lua.LState) int {
		L.Push(lua.LNumber(a.Current(resource(L))))
		return 1
	})
	method("max", func(L *lua.LState) int {
		L.Push(lua.LNumber(a.Max(resource(L))))
		return 1
	})
	method("stat", func(L *lua.LState) int {
		L.Push(lua.LNumber(a.Total(kind(L))))
		return 1
	})
	method("modify_stat", func(L *lua.LState) int {
		k := kind(L)
		a.ModifyDerived(k, float64(L.CheckNumber(3)), L.OptBool(4, true))
		return 0
	})
	method("take_damage", func(L *lua.LState) int {
		L.Push(lua.LNumber(a.TakeDamage(float64(L.CheckNumber(2)))))
		return 1
	})
	method("heal", func(L *lua.LState) int {
		school, err := combat.ParseSchool(L.OptString(3, combat.Holy.String()))
		if err != nil {
			L.ArgError(3, err.Error())
		}
		res := a.ReceiveHealing(combat.Magical, []combat.School{school}, float64(L.CheckNumber(2)))
		L.Push(lua.LNumber(res.Applied))
		return 1
	})
	return t
}
