package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Host is the part of the viewer a script can reach.
type Host interface {
	// RegisterCommand adds a command whose handler is fn.
	RegisterCommand(name string, fn func(args []string, raw string) error) error
	// Bind binds a key sequence to command text.
	Bind(keys, commands string) error
	// Alias makes name expand to replacement.
	Alias(name, replacement string) error
	// Execute runs command text.
	Execute(text string) error
	// SetOption sets a named option.
	SetOption(name, value string) error
	// Variable returns a template variable without its prefix, such as
	// "current_file".
	Variable(name string) string
	// Log writes msg to the viewer log at level.
	Log(level, msg string)
}

// ModuleName is the global table scripts use.
const ModuleName = "imview"

// Install registers the imview table in s, backed by h.
func Install(s *State, h Host) {
	api := &api{state: s, host: h}
	s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"command": api.command,
		"bind":    api.bind,
		"alias":   api.alias,
		"exec":    api.exec,
		"set":     api.set,
		"state":   api.variable,
		"log":     api.log,
	})
}

type api struct {
	state *State
	host  Host
}

// raise turns a Go error into a Lua error at the caller's position.
func raise(L *lua.LState, err error) int {
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (a *api) command(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	return raise(L, a.host.RegisterCommand(name, func(args []string, raw string) error {
		t := L.NewTable()
		for _, arg := range args {
			t.Append(lua.LString(arg))
		}
		if err := a.state.CallFunction(fn, t, lua.LString(raw)); err != nil {
			return fmt.Errorf("lua command %s: %w", name, err)
		}
		return nil
	}))
}

func (a *api) bind(L *lua.LState) int {
	return raise(L, a.host.Bind(L.CheckString(1), L.CheckString(2)))
}

func (a *api) alias(L *lua.LState) int {
	return raise(L, a.host.Alias(L.CheckString(1), L.CheckString(2)))
}

func (a *api) exec(L *lua.LState) int {
	return raise(L, a.host.Execute(L.CheckString(1)))
}

func (a *api) set(L *lua.LState) int {
	name := L.CheckString(1)
	value := L.CheckAny(2)
	return raise(L, a.host.SetOption(name, lua.LVAsString(toStringValue(value))))
}

func (a *api) variable(L *lua.LState) int {
	L.Push(lua.LString(a.host.Variable(L.CheckString(1))))
	return 1
}

func (a *api) log(L *lua.LState) int {
	if L.GetTop() < 2 {
		a.host.Log("info", L.CheckString(1))
		return 0
	}
	a.host.Log(L.CheckString(1), L.CheckString(2))
	return 0
}

// toStringValue renders booleans as "true"/"false" so options can be set
// with Lua booleans.
func toStringValue(v lua.LValue) lua.LValue {
	if b, ok := v.(lua.LBool); ok {
		if b {
			return lua.LString("true")
		}
		return lua.LString("false")
	}
	return v
}
