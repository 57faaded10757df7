package scripting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/dice"
)

// ErrHookFailed wraps Lua runtime errors raised by a hook.
var ErrHookFailed = errors.New("scripting: hook failed")

// vm is one LState; LStates are single-threaded so every call holds mu.
type vm struct {
	mu sync.Mutex
	L  *lua.LState
}

// Manager owns one sandboxed LState per script namespace and dispatches hooks.
// It is safe for concurrent use; calls into the same namespace are serialized.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	limit  int
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager whose executions each get instLimit opcodes.
//
// Precondition: roller and logger must be non-nil; instLimit >= 0 (0 uses
// DefaultInstructionLimit).
// Postcondition: Returns a non-nil Manager with no namespaces loaded.
func NewManager(roller *dice.Roller, instLimit int, logger *zap.Logger) *Manager {
	if roller == nil || logger == nil {
		panic("scripting: NewManager precondition violated: nil roller or logger")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		limit:  instLimit,
		roller: roller,
		logger: logger,
	}
}

// Load creates a sandboxed VM for name, registers the engine.* modules, then
// executes every *.lua file in scriptDir in lexicographic order. Loading a
// name again replaces its VM.
//
// Precondition: name must be non-empty; scriptDir must be a readable directory.
// Postcondition: The VM is registered; returns error on read or Lua load failure.
func (m *Manager) Load(name, scriptDir string) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, name, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState()
	m.RegisterModules(L)
	for _, path := range luaFiles {
		release := WithBudget(context.Background(), L, m.limit)
		err := L.DoFile(path)
		release()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, name, err)
		}
	}

	m.mu.Lock()
	old := m.vms[name]
	m.vms[name] = &vm{L: L}
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Info("scripts loaded", zap.String("namespace", name), zap.Int("files", len(luaFiles)))
	return nil
}

// Has reports whether name has a loaded VM.
func (m *Manager) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vms[name]
	return ok
}

// CallHook calls the named Lua global function in name's VM under a fresh
// instruction budget bounded by ctx. Returns (LNil, nil) if the namespace or
// hook does not exist. Lua runtime errors are logged at Warn level and
// returned wrapped in ErrHookFailed.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(ctx context.Context, name, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[name]
	m.mu.RUnlock()
	if !ok {
		m.logger.Debug("scripting: no VM for namespace",
			zap.String("namespace", name),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.L.IsClosed() {
		return lua.LNil, nil
	}
	fn := v.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}

	release := WithBudget(ctx, v.L, m.limit)
	defer release()
	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("namespace", name),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, fmt.Errorf("%w: %s.%s: %w", ErrHookFailed, name, hook, err)
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
	}
}
