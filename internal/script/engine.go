// Package script turns fetched exercise scripts into live, callable
// namespaces.
//
// Every exercise ships its own Lua hook script (download.lua, verify.lua)
// in the exercises repository, so the code being run is not known at build
// time. The engine executes a script's source as top-level statements
// inside a fresh environment table and exposes the resulting bindings for
// reflection-filtered function calls and variable lookup.
//
// Scripts may require a fixed set of shared helper modules under the
// exercise_utils namespace. The helpers are fetched fresh on every load
// and the interpreter's module registry is purged before and after each
// load, so a long-lived session running many exercises never observes
// helper state left behind by an earlier load. This is a correctness
// requirement, not a cache optimization.
//
// Scripts run with full host privileges; this is not a security sandbox.
package script

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// HelperNamespace is the module namespace every exercise script may
// require helpers from.
const HelperNamespace = "exercise_utils"

// helperModules is the fixed, ordered set of helper module files fetched
// for every load.
var helperModules = []string{
	"init",
	"cli",
	"git",
	"file",
	"gitmastery",
	"github_cli",
	"test",
}

// Source provides read access to files in the exercises repository.
// *exercises.Repo is the production implementation.
type Source interface {
	FetchText(ctx context.Context, path string) (string, error)
}

// Engine owns the interpreter shared by all loads in one process. Not
// safe for concurrent use; the whole load/execute path is synchronous.
type Engine struct {
	l *lua.LState
}

// NewEngine creates the interpreter. Callers own the returned engine and
// must Close it.
func NewEngine() *Engine {
	return &Engine{l: lua.NewState()}
}

// Close shuts down the interpreter. Namespaces produced by this engine
// are invalid afterwards.
func (e *Engine) Close() {
	e.l.Close()
}

// Load fetches scriptPath through src and executes it, collecting its
// top-level bindings into a fresh namespace.
//
// The helper modules are materialized into a throwaway directory that is
// prepended to the module search path for the duration of the run, so the
// script's require calls resolve to freshly fetched content rather than
// any stale cached copy. The module registry is purged on entry and again
// on every exit path. A failed load returns no namespace; callers must
// not retry with the same instance state.
func (e *Engine) Load(ctx context.Context, src Source, scriptPath string) (*Namespace, error) {
	e.purgeHelperModules()
	defer e.purgeHelperModules()

	text, err := src.FetchText(ctx, scriptPath)
	if err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp("", "gitmastery-utils-")
	if err != nil {
		return nil, &Error{Path: scriptPath, Err: err}
	}
	defer os.RemoveAll(tmp)

	if err := e.materializeHelpers(ctx, src, tmp); err != nil {
		return nil, err
	}

	restore := e.prependSearchPath(tmp)
	defer restore()

	env := e.l.NewTable()
	mt := e.l.NewTable()
	e.l.SetField(mt, "__index", e.l.Get(lua.GlobalsIndex))
	e.l.SetMetatable(env, mt)

	fn, err := e.l.Load(strings.NewReader(text), scriptPath)
	if err != nil {
		return nil, &Error{Path: scriptPath, Err: err}
	}
	fn.Env = env

	if err := e.l.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		return nil, &Error{Path: scriptPath, Err: err}
	}

	return &Namespace{l: e.l, env: env, path: scriptPath}, nil
}

// materializeHelpers lays the helper modules out as an importable package
// under dir: dir/exercise_utils/<name>.lua.
func (e *Engine) materializeHelpers(ctx context.Context, src Source, dir string) error {
	pkgDir := filepath.Join(dir, HelperNamespace)
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return &Error{Path: HelperNamespace, Err: err}
	}
	for _, name := range helperModules {
		remote := HelperNamespace + "/" + name + ".lua"
		body, err := src.FetchText(ctx, remote)
		if err != nil {
			return err
		}
		local := filepath.Join(pkgDir, name+".lua")
		if err := os.WriteFile(local, []byte(body), 0o644); err != nil {
			return &Error{Path: remote, Err: err}
		}
	}
	return nil
}

// prependSearchPath puts dir's lookup patterns ahead of the existing
// package.path and returns a func restoring the previous value.
func (e *Engine) prependSearchPath(dir string) func() {
	pkg := e.l.GetGlobal("package")
	old := e.l.GetField(pkg, "path")
	patterns := filepath.Join(dir, "?.lua") + ";" + filepath.Join(dir, "?", "init.lua")
	e.l.SetField(pkg, "path", lua.LString(patterns+";"+lua.LVAsString(old)))
	return func() {
		e.l.SetField(pkg, "path", old)
	}
}

// purgeHelperModules drops every exercise_utils entry from the
// interpreter's loaded-module registry so the next require re-executes
// the freshly fetched files.
func (e *Engine) purgeHelperModules() {
	loaded, ok := e.l.GetField(e.l.Get(lua.RegistryIndex), "_LOADED").(*lua.LTable)
	if !ok {
		return
	}
	var stale []string
	loaded.ForEach(func(k, _ lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok {
			return
		}
		s := string(name)
		if s == HelperNamespace || strings.HasPrefix(s, HelperNamespace+".") {
			stale = append(stale, s)
		}
	})
	for _, s := range stale {
		loaded.RawSetString(s, lua.LNil)
	}
}

// loadedHelperModules counts registry entries under the helper namespace.
func (e *Engine) loadedHelperModules() int {
	loaded, ok := e.l.GetField(e.l.Get(lua.RegistryIndex), "_LOADED").(*lua.LTable)
	if !ok {
		return 0
	}
	count := 0
	loaded.ForEach(func(k, _ lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok {
			return
		}
		s := string(name)
		if s == HelperNamespace || strings.HasPrefix(s, HelperNamespace+".") {
			count++
		}
	})
	return count
}
