package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Namespace is the set of top-level bindings produced by executing one
// script. Owned exclusively by the caller that loaded it; never shared
// across loads.
type Namespace struct {
	l    *lua.LState
	env  *lua.LTable
	path string
}

// Path returns the script path this namespace was loaded from.
func (ns *Namespace) Path() string { return ns.path }

// ExecuteFunction invokes the named hook with reflection-filtered keyword
// arguments.
//
// An absent name is a normal outcome, not an error: exercise scripts only
// implement the hooks they need. found is false and both other returns
// are zero in that case. When the hook exists, its declared parameter
// names are inspected and only the matching entries of params are passed,
// in declared order; extra entries are silently dropped. A declared
// parameter missing from params, or any error raised by the hook itself,
// surfaces as a *Error.
func (ns *Namespace) ExecuteFunction(name string, params map[string]lua.LValue) (result lua.LValue, found bool, err error) {
	val := ns.env.RawGetString(name)
	if val == lua.LNil {
		return lua.LNil, false, nil
	}
	fn, ok := val.(*lua.LFunction)
	if !ok {
		return lua.LNil, true, &Error{Path: ns.path, Err: fmt.Errorf("%s is bound to a %s, not a function", name, val.Type())}
	}

	args, err := ns.filterParams(fn, params)
	if err != nil {
		return lua.LNil, true, err
	}

	if err := ns.l.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, true, &Error{Path: ns.path, Err: err}
	}
	ret := ns.l.Get(-1)
	ns.l.Pop(1)
	return ret, true, nil
}

// filterParams maps the caller's parameter bag onto the function's
// declared parameter list. Parameter names come from the compiled chunk's
// debug info; the first NumParameters locals are the declared parameters.
// Builtins bound into the namespace carry no declared parameters and are
// called with none.
func (ns *Namespace) filterParams(fn *lua.LFunction, params map[string]lua.LValue) ([]lua.LValue, error) {
	if fn.IsG || fn.Proto == nil {
		return nil, nil
	}
	n := int(fn.Proto.NumParameters)
	if n > len(fn.Proto.DbgLocals) {
		n = len(fn.Proto.DbgLocals)
	}
	args := make([]lua.LValue, 0, n)
	for i := 0; i < n; i++ {
		pname := fn.Proto.DbgLocals[i].Name
		v, ok := params[pname]
		if !ok {
			return nil, &Error{Path: ns.path, Err: fmt.Errorf("missing required argument %q", pname)}
		}
		args = append(args, v)
	}
	return args, nil
}

// GetVariable returns the binding for name, or def when absent. Never
// fails.
func (ns *Namespace) GetVariable(name string, def lua.LValue) lua.LValue {
	if v := ns.env.RawGetString(name); v != lua.LNil {
		return v
	}
	return def
}

// GetString is GetVariable for string-valued bindings.
func (ns *Namespace) GetString(name, def string) string {
	if v := ns.env.RawGetString(name); v != lua.LNil {
		return lua.LVAsString(v)
	}
	return def
}

// GetBool is GetVariable for boolean-valued bindings. Lua truthiness:
// anything but nil and false counts as true.
func (ns *Namespace) GetBool(name string, def bool) bool {
	if v := ns.env.RawGetString(name); v != lua.LNil {
		return lua.LVAsBool(v)
	}
	return def
}

// Strings returns a list-valued binding as a string slice, or nil when
// the binding is absent or not a table.
func (ns *Namespace) Strings(name string) []string {
	tbl, ok := ns.env.RawGetString(name).(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	tbl.ForEach(func(_, v lua.LValue) {
		out = append(out, lua.LVAsString(v))
	})
	return out
}
