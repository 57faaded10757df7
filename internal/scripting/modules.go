package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/dice"
)

// RegisterModules registers the engine.log and engine.dice tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"debug": m.luaLog(m.logger.Debug),
		"info":  m.luaLog(m.logger.Info),
		"warn":  m.luaLog(m.logger.Warn),
	}))
	L.SetField(engine, "dice", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"roll": m.luaRoll,
		"pick": m.luaPick,
	}))
	L.SetGlobal("engine", engine)
}

func (m *Manager) luaLog(fn func(string, ...zap.Field)) lua.LGFunction {
	return func(L *lua.LState) int {
		fn(L.CheckString(1), zap.String("source", "lua"))
		return 0
	}
}

// luaRoll implements engine.dice.roll(pool, difficulty) and returns a table
// with successes, botch and critical.
func (m *Manager) luaRoll(L *lua.LState) int {
	pool := L.CheckInt(1)
	diff := L.CheckInt(2)
	if diff < dice.MinDifficulty || diff > dice.MaxDifficulty {
		L.ArgError(2, "difficulty must be in [1, 10]")
		return 0
	}
	res := m.roller.RollPool(pool, diff)
	t := L.NewTable()
	L.SetField(t, "successes", lua.LNumber(res.Successes))
	L.SetField(t, "botch", lua.LBool(res.IsBotch))
	L.SetField(t, "critical", lua.LBool(res.IsCritical))
	L.Push(t)
	return 1
}

// luaPick implements engine.dice.pick(list) and returns a uniformly chosen
// element of a non-empty array table, or nil for an empty one.
func (m *Manager) luaPick(L *lua.LState) int {
	t := L.CheckTable(1)
	n := t.Len()
	if n == 0 {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(t.RawGetInt(m.roller.Source().Intn(n) + 1))
	return 1
}
