package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable publishes info as a read-only global table named
// "platform", so Lua settings files can branch per machine. Call it
// before running any settings code.
//
// Fields: os, arch, arch_raw, target, is_linux, is_macos, is_windows,
// is_debian_family, distro {id, family, version} (nil off Linux),
// linux_family (nil off Linux), and when(cond, value), which returns
// value when cond holds and nil otherwise.
func InjectPlatformTable(L *lua.LState, info *Info) error {
	t := L.NewTable()

	L.SetField(t, "os", lua.LString(info.OS))
	L.SetField(t, "arch", lua.LString(info.Arch))
	L.SetField(t, "arch_raw", lua.LString(info.ArchRaw))
	L.SetField(t, "target", lua.LString(info.Target().String()))

	L.SetField(t, "is_linux", lua.LBool(info.IsLinux()))
	L.SetField(t, "is_macos", lua.LBool(info.IsMacOS()))
	L.SetField(t, "is_windows", lua.LBool(info.IsWindows()))
	L.SetField(t, "is_debian_family", lua.LBool(info.IsDebianFamily()))

	L.SetField(t, "distro", distroTable(L, info))
	if info.IsLinux() && info.Family != "" {
		L.SetField(t, "linux_family", lua.LString(info.Family))
	} else {
		L.SetField(t, "linux_family", lua.LNil)
	}

	L.SetField(t, "when", L.NewFunction(luaWhen))

	L.SetGlobal("platform", readOnlyProxy(L, t))
	return nil
}

// distroTable renders the distro sub-table, LNil when there is none.
func distroTable(L *lua.LState, info *Info) lua.LValue {
	d := info.GetDistro()
	if d == nil {
		return lua.LNil
	}
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(d.ID))
	L.SetField(t, "family", lua.LString(d.Family))
	L.SetField(t, "version", lua.LString(d.Version))
	return t
}

// luaWhen is the when(cond, value) helper. It reads more naturally in a
// settings table than Lua's and/or chains.
func luaWhen(L *lua.LState) int {
	if L.CheckBool(1) {
		L.Push(L.Get(2))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

// readOnlyProxy wraps t in an empty proxy table whose metatable forwards
// reads to t and raises on every write. The metatable itself is locked
// behind __metatable so settings code cannot swap it out.
func readOnlyProxy(L *lua.LState, t *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", t)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only and cannot be modified")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
