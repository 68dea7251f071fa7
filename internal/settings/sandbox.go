package settings

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips a Lua VM down to what a declarative settings
// file needs. Removed outright:
//   - os (os.execute, os.exit, os.getenv, ...)
//   - io (io.open, io.popen, ...)
//   - require, dofile, loadfile, load, loadstring
//   - debug (could poke through the sandbox)
//
// string, table, math and the basic utilities (type, tostring,
// tonumber, pairs, ipairs, ...) stay available, so conditionals over
// the injected platform table still read naturally.
func sandboxLuaVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)
	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)
	L.SetGlobal("debug", lua.LNil)
}

// newSandboxedVM creates a Lua state with the sandbox applied. All
// settings parsing goes through here.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
