package scripting_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/nightcourt/internal/game/dice"
	"github.com/cory-johannsen/nightcourt/internal/scripting"
	"github.com/cory-johannsen/nightcourt/internal/testutil"
)

func runScript(t *testing.T, mgr *scripting.Manager, luaSrc, hook string, args ...lua.LValue) lua.LValue {
	t.Helper()
	dir := writeTempLua(t, "test.lua", luaSrc)
	name := "modtest_" + t.Name()
	require.NoError(t, mgr.Load(name, dir))
	ret, err := mgr.CallHook(context.Background(), name, hook, args...)
	require.NoError(t, err)
	return ret
}

func TestEngineLog_AllLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewCryptoSource(), logger), 0, logger)
	defer mgr.Close()

	runScript(t, mgr, `
		function do_all_logs()
			engine.log.debug("d")
			engine.log.info("i")
			engine.log.warn("w")
		end
	`, "do_all_logs")

	assert.Equal(t, 1, logs.FilterMessage("d").FilterLevelExact(zap.DebugLevel).Len())
	assert.Equal(t, 1, logs.FilterMessage("i").FilterLevelExact(zap.InfoLevel).Len())
	assert.Equal(t, 1, logs.FilterMessage("w").FilterLevelExact(zap.WarnLevel).Len())
	assert.Equal(t, 3, logs.FilterField(zap.String("source", "lua")).Len())
}

func TestEngineDiceRoll_UsesRoller(t *testing.T) {
	src := testutil.NewScriptedSource(testutil.Faces(10, 1, 6)...)
	mgr := scripting.NewManager(dice.NewLoggedRoller(src, zap.NewNop()), 0, zap.NewNop())
	defer mgr.Close()

	ret := runScript(t, mgr, `
		function roll()
			local r = engine.dice.roll(3, 6)
			return r.successes * 10 + (r.critical and 1 or 0)
		end
	`, "roll")

	assert.Equal(t, lua.LNumber(21), ret)
}

func TestEngineDiceRoll_RejectsBadDifficulty(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `function roll() return engine.dice.roll(2, 11) end`)
	require.NoError(t, mgr.Load("bad", dir))
	_, err := mgr.CallHook(context.Background(), "bad", "roll")
	assert.Error(t, err)
}

func TestEngineDicePick_EmptyTableIsNil(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `function pick() return engine.dice.pick({}) end`, "pick")
	assert.Equal(t, lua.LNil, ret)
}

func TestProperty_EngineDicePickReturnsMember(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop()), 0, zap.NewNop())
		defer mgr.Close()
		dir := writeTempLua(t, "pick.lua", `function pick() return engine.dice.pick({"a", "b", "c"}) end`)
		require.NoError(rt, mgr.Load("pick", dir))
		ret, err := mgr.CallHook(context.Background(), "pick", "pick")
		require.NoError(rt, err)
		switch ret.String() {
		case "a", "b", "c":
		default:
			rt.Fatalf("pick returned %q", ret.String())
		}
	})
}
