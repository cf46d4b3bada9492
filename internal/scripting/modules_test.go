package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/botbattle/internal/scripting"
)

type fakeState struct {
	actor int
	units []*scripting.UnitInfo
}

func (f *fakeState) Actor() *scripting.UnitInfo {
	for _, u := range f.units {
		if u.Index == f.actor {
			return u
		}
	}
	return nil
}

func (f *fakeState) Units() []*scripting.UnitInfo { return f.units }

func twoUnits() *fakeState {
	return &fakeState{
		actor: 0,
		units: []*scripting.UnitInfo{
			{Index: 0, Name: "Patchwork", Side: "player", HP: 80, MaxHP: 160, Armor: 10, MaxArmor: 20, Energy: 30, Capacity: 100, Effects: []string{"Firewall"}},
			{Index: 3, Name: "Cinder", Side: "enemy", MaxHP: 150, Dead: true},
		},
	}
}

func callString(t *testing.T, mgr *scripting.Manager, src string) lua.LValue {
	t.Helper()
	dir := writeTempLua(t, "snippet.lua", "function snippet()\n"+src+"\nend")
	require.NoError(t, mgr.LoadScope("snippet", dir, 0))
	ret, err := mgr.CallHook("snippet", "snippet")
	require.NoError(t, err)
	return ret
}

func TestEngineModule_Unbound_ReturnsNil(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Equal(t, lua.LTrue, callString(t, mgr, `return engine.actor() == nil and engine.unit(0) == nil and #engine.units() == 0`))
}

func TestEngineModule_Actor(t *testing.T) {
	mgr, _ := newTestManager(t)
	mgr.Bind(twoUnits())
	assert.Equal(t, lua.LString("Patchwork:player:80/160:10/20:30/100"), callString(t, mgr, `
		local a = engine.actor()
		return a.name .. ":" .. a.side .. ":" .. a.hp .. "/" .. a.max_hp .. ":" ..
			a.armor .. "/" .. a.max_armor .. ":" .. a.energy .. "/" .. a.capacity`))
}

func TestEngineModule_UnitByRosterIndex(t *testing.T) {
	mgr, _ := newTestManager(t)
	mgr.Bind(twoUnits())
	assert.Equal(t, lua.LTrue, callString(t, mgr, `
		local u = engine.unit(3)
		return u.dead and u.index == 3 and engine.unit(1) == nil`))
}

func TestEngineModule_UnitsAndEffects(t *testing.T) {
	mgr, _ := newTestManager(t)
	mgr.Bind(twoUnits())
	assert.Equal(t, lua.LString("2:Firewall"), callString(t, mgr, `
		local all = engine.units()
		return #all .. ":" .. all[1].effects[1]`))
}

func TestEngineModule_RebindSeesNewState(t *testing.T) {
	mgr, _ := newTestManager(t)
	state := twoUnits()
	mgr.Bind(state)
	require.Equal(t, lua.LNumber(80), callString(t, mgr, `return engine.actor().hp`))

	state.units[0].HP = 5
	ret, err := mgr.CallHook("snippet", "snippet")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(5), ret)

	mgr.Bind(nil)
	ret, err = mgr.CallHook("snippet", "snippet")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret, "indexing a nil actor is a logged runtime error")
}

func TestEngineModule_Log(t *testing.T) {
	mgr, logs := newTestManager(t)
	callString(t, mgr, `engine.log("hello")`)
	assert.Equal(t, 1, logs.FilterMessage("lua").Len())
}
