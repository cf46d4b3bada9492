package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine table into L:
//
//	engine.actor()    the unit choosing a move, or nil
//	engine.unit(i)    the unit at roster index i, or nil
//	engine.units()    array of every unit in roster order
//	engine.log(msg)   debug log line
//
// Unit tables carry index, name, side, hp, max_hp, armor, max_armor, energy,
// capacity, dead and effects. All functions return nil while no state is bound.
//
// Precondition: L must belong to a Sandbox.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetFuncs(engine, map[string]lua.LGFunction{
		"actor": func(L *lua.LState) int {
			p := m.provider()
			if p == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(unitTable(L, p.Actor()))
			return 1
		},
		"unit": func(L *lua.LState) int {
			idx := L.CheckInt(1)
			p := m.provider()
			if p == nil {
				L.Push(lua.LNil)
				return 1
			}
			for _, u := range p.Units() {
				if u.Index == idx {
					L.Push(unitTable(L, u))
					return 1
				}
			}
			L.Push(lua.LNil)
			return 1
		},
		"units": func(L *lua.LState) int {
			out := L.NewTable()
			if p := m.provider(); p != nil {
				for _, u := range p.Units() {
					out.Append(unitTable(L, u))
				}
			}
			L.Push(out)
			return 1
		},
		"log": func(L *lua.LState) int {
			m.logger.Debug("lua", zap.String("msg", L.CheckString(1)))
			return 0
		},
	})
	L.SetGlobal("engine", engine)
}

func unitTable(L *lua.LState, u *UnitInfo) lua.LValue {
	if u == nil {
		return lua.LNil
	}
	t := L.NewTable()
	t.RawSetString("index", lua.LNumber(u.Index))
	t.RawSetString("name", lua.LString(u.Name))
	t.RawSetString("side", lua.LString(u.Side))
	t.RawSetString("hp", lua.LNumber(u.HP))
	t.RawSetString("max_hp", lua.LNumber(u.MaxHP))
	t.RawSetString("armor", lua.LNumber(u.Armor))
	t.RawSetString("max_armor", lua.LNumber(u.MaxArmor))
	t.RawSetString("energy", lua.LNumber(u.Energy))
	t.RawSetString("capacity", lua.LNumber(u.Capacity))
	t.RawSetString("dead", lua.LBool(u.Dead))
	effects := L.NewTable()
	for _, e := range u.Effects {
		effects.Append(lua.LString(e))
	}
	t.RawSetString("effects", effects)
	return t
}
