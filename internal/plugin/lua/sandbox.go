package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// removedGlobals can load code from disk or escape function environments.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"getfenv",
	"setfenv",
	"collectgarbage",
	"_printregs",
}

// installSandbox strips L down to the safe subset and routes print through
// out.
func installSandbox(L *lua.LState, out func(line string)) {
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		out(strings.Join(parts, "\t"))
		return 0
	}))
}
