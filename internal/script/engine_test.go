package script

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

// fakeSource serves files from memory, standing in for the sparse-clone
// fetcher.
type fakeSource struct {
	files map[string]string
}

func (f *fakeSource) FetchText(_ context.Context, path string) (string, error) {
	body, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("no such file in exercises repository: %s", path)
	}
	return body, nil
}

// newFakeSource returns a source with a full helper-module set plus the
// given extra files. Helper overrides may be layered on top.
func newFakeSource(extra map[string]string) *fakeSource {
	files := map[string]string{
		"exercise_utils/init.lua":       "return {}\n",
		"exercise_utils/cli.lua":        "return { name = 'cli' }\n",
		"exercise_utils/git.lua":        "return { name = 'git' }\n",
		"exercise_utils/file.lua":       "return { name = 'file' }\n",
		"exercise_utils/gitmastery.lua": "return { name = 'gitmastery' }\n",
		"exercise_utils/github_cli.lua": "return { name = 'github_cli' }\n",
		"exercise_utils/test.lua":       "return { name = 'test' }\n",
	}
	for k, v := range extra {
		files[k] = v
	}
	return &fakeSource{files: files}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng := NewEngine()
	t.Cleanup(eng.Close)
	return eng
}

func TestLoadCollectsBindings(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/verify.lua": `
exercise_name = "sample"
attempts_allowed = 3

function verify(repo_path)
  return repo_path
end
`,
	})

	ns, err := eng.Load(context.Background(), src, "sample/verify.lua")
	require.NoError(t, err)

	assert.Equal(t, "sample", ns.GetString("exercise_name", ""))
	assert.Equal(t, lua.LNumber(3), ns.GetVariable("attempts_allowed", lua.LNil))
	assert.Equal(t, "fallback", ns.GetString("missing_variable", "fallback"))
}

func TestExecuteFunctionFiltersParams(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/verify.lua": `
function verify(repo_path)
  return repo_path .. "/ok"
end
`,
	})
	ns, err := eng.Load(context.Background(), src, "sample/verify.lua")
	require.NoError(t, err)

	result, found, err := ns.ExecuteFunction("verify", map[string]lua.LValue{
		"repo_path": lua.LString("/tmp/x"),
		"unused":    lua.LNumber(1),
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, lua.LString("/tmp/x/ok"), result)
}

func TestExecuteFunctionAbsentIsNotAnError(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/verify.lua": "function verify() return true end\n",
	})
	ns, err := eng.Load(context.Background(), src, "sample/verify.lua")
	require.NoError(t, err)

	// Absence of an optional hook is a normal outcome, repeatedly.
	for i := 0; i < 3; i++ {
		result, found, err := ns.ExecuteFunction("setup", nil)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, lua.LNil, result)
	}
}

func TestExecuteFunctionMissingArgument(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/verify.lua": "function verify(repo_path, exercise) return true end\n",
	})
	ns, err := eng.Load(context.Background(), src, "sample/verify.lua")
	require.NoError(t, err)

	_, found, err := ns.ExecuteFunction("verify", map[string]lua.LValue{
		"repo_path": lua.LString("/tmp/x"),
	})
	assert.True(t, found)

	var scriptErr *Error
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, "sample/verify.lua", scriptErr.Path)
	assert.Contains(t, scriptErr.Error(), "exercise")
}

func TestExecuteFunctionHookError(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/verify.lua": `
function verify()
  error("verification blew up")
end
`,
	})
	ns, err := eng.Load(context.Background(), src, "sample/verify.lua")
	require.NoError(t, err)

	_, found, err := ns.ExecuteFunction("verify", nil)
	assert.True(t, found)
	var scriptErr *Error
	require.ErrorAs(t, err, &scriptErr)
	assert.Contains(t, scriptErr.Error(), "verification blew up")
}

func TestExecuteFunctionNonFunctionBinding(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/verify.lua": "verify = 42\n",
	})
	ns, err := eng.Load(context.Background(), src, "sample/verify.lua")
	require.NoError(t, err)

	_, found, err := ns.ExecuteFunction("verify", nil)
	assert.True(t, found)
	var scriptErr *Error
	require.ErrorAs(t, err, &scriptErr)
}

func TestExecuteFunctionNoReturnValue(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/setup.lua": "function setup() end\n",
	})
	ns, err := eng.Load(context.Background(), src, "sample/setup.lua")
	require.NoError(t, err)

	result, found, err := ns.ExecuteFunction("setup", nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, lua.LNil, result)
}

func TestScriptUsesStandardLibrary(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/download.lua": `repo_name = string.format("%s-%d", "exercise", 7)` + "\n",
	})
	ns, err := eng.Load(context.Background(), src, "sample/download.lua")
	require.NoError(t, err)
	assert.Equal(t, "exercise-7", ns.GetString("repo_name", ""))
}

func TestScriptUsesHelperModules(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"exercise_utils/git.lua": `
local M = {}
function M.default_branch()
  return "main"
end
return M
`,
		"sample/download.lua": `
local git = require("exercise_utils.git")
branch = git.default_branch()
`,
	})
	ns, err := eng.Load(context.Background(), src, "sample/download.lua")
	require.NoError(t, err)
	assert.Equal(t, "main", ns.GetString("branch", ""))
}

func TestLoadTopLevelErrorIsScriptError(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/broken.lua": `error("exploding at load time")` + "\n",
	})

	_, err := eng.Load(context.Background(), src, "sample/broken.lua")
	var scriptErr *Error
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, "sample/broken.lua", scriptErr.Path)

	// Cleanup discipline holds on the failure path too.
	assert.Zero(t, eng.loadedHelperModules())
}

func TestLoadCompileErrorIsScriptError(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/broken.lua": "function verify( broken syntax\n",
	})

	_, err := eng.Load(context.Background(), src, "sample/broken.lua")
	var scriptErr *Error
	require.ErrorAs(t, err, &scriptErr)
}

func TestLoadMissingScript(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(nil)

	_, err := eng.Load(context.Background(), src, "sample/absent.lua")
	require.Error(t, err)
	var scriptErr *Error
	assert.False(t, errors.As(err, &scriptErr), "fetch failure is not a script error")
}

func TestLoadMissingHelperModule(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/verify.lua": "function verify() return true end\n",
	})
	delete(src.files, "exercise_utils/github_cli.lua")

	_, err := eng.Load(context.Background(), src, "sample/verify.lua")
	require.Error(t, err)
	assert.Zero(t, eng.loadedHelperModules())
}

func TestRegistryCleanAfterLoad(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/download.lua": `
require("exercise_utils.git")
require("exercise_utils.file")
done = true
`,
	})

	ns, err := eng.Load(context.Background(), src, "sample/download.lua")
	require.NoError(t, err)
	assert.True(t, ns.GetBool("done", false))
	assert.Zero(t, eng.loadedHelperModules())
}

func TestSequentialLoadsDoNotLeakHelperState(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	// The helper keeps module-level state; without the registry purge a
	// second load in the same process would observe the cached module.
	counting := map[string]string{
		"exercise_utils/git.lua": `
local M = { calls = 0 }
function M.bump()
  M.calls = M.calls + 1
  return M.calls
end
return M
`,
		"sample/download.lua": `
local git = require("exercise_utils.git")
count = git.bump()
`,
	}

	first, err := eng.Load(ctx, newFakeSource(counting), "sample/download.lua")
	require.NoError(t, err)
	second, err := eng.Load(ctx, newFakeSource(counting), "sample/download.lua")
	require.NoError(t, err)

	assert.Equal(t, lua.LNumber(1), first.GetVariable("count", lua.LNil))
	assert.Equal(t, lua.LNumber(1), second.GetVariable("count", lua.LNil),
		"second load must see a fresh helper module, not cached state")
}

func TestSequentialLoadsDoNotShareBindings(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	first, err := eng.Load(ctx, newFakeSource(map[string]string{
		"one/download.lua": "first_only = 'yes'\n",
	}), "one/download.lua")
	require.NoError(t, err)

	second, err := eng.Load(ctx, newFakeSource(map[string]string{
		"two/download.lua": "second_only = 'yes'\n",
	}), "two/download.lua")
	require.NoError(t, err)

	assert.Equal(t, "yes", first.GetString("first_only", ""))
	assert.Equal(t, "", second.GetString("first_only", ""),
		"bindings from the first script must not be visible in the second namespace")
	assert.Equal(t, "yes", second.GetString("second_only", ""))
}

func TestNamespaceHelperAccessors(t *testing.T) {
	eng := newTestEngine(t)
	src := newFakeSource(map[string]string{
		"sample/download.lua": `
repo_name = "sample-repo"
requires_github = true
resources = { "res/a.txt", "res/b.txt" }
`,
	})
	ns, err := eng.Load(context.Background(), src, "sample/download.lua")
	require.NoError(t, err)

	assert.Equal(t, "sample-repo", ns.GetString("repo_name", ""))
	assert.True(t, ns.GetBool("requires_github", false))
	assert.False(t, ns.GetBool("requires_git_config", false))
	assert.Equal(t, []string{"res/a.txt", "res/b.txt"}, ns.Strings("resources"))
	assert.Nil(t, ns.Strings("not_a_list"))
	assert.Equal(t, "sample/download.lua", ns.Path())
}
