package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"golang.org/x/text/language"

	"github.com/dshills/customindent/internal/indent"
	"github.com/dshills/customindent/internal/registry"
)

// ScriptSource is the change source recorded for edits made by scripts.
const ScriptSource = "lua"

// Module implements the indent table.
type Module struct {
	store   *indent.Store
	applier *indent.Applier
}

// NewModule creates the module. applier may be nil when no documents are
// open, in which case apply and apply_all do nothing.
func NewModule(store *indent.Store, applier *indent.Applier) *Module {
	return &Module{store: store, applier: applier}
}

// Name returns the global the module is installed as.
func (m *Module) Name() string {
	return "indent"
}

// Register installs the module into s.
func (m *Module) Register(s *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	L := s.L
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(m.get))
	L.SetField(mod, "set", L.NewFunction(m.set))
	L.SetField(mod, "reset", L.NewFunction(m.reset))
	L.SetField(mod, "languages", L.NewFunction(m.languages))
	L.SetField(mod, "resolve", L.NewFunction(m.resolve))
	L.SetField(mod, "apply", L.NewFunction(m.apply))
	L.SetField(mod, "apply_all", L.NewFunction(m.applyAll))
	L.SetField(mod, "min_tab_width", lua.LNumber(indent.MinTabWidth))
	L.SetField(mod, "max_tab_width", lua.LNumber(indent.MaxTabWidth))

	L.SetGlobal(m.Name(), mod)
	return nil
}

// get(language) -> {tab_width=, use_spaces=} | nil, err
func (m *Module) get(L *lua.LState) int {
	key := L.CheckString(1)

	id, ok := m.store.Resolve(key)
	if !ok {
		return pushError(L, "unknown language %q", key)
	}
	p, err := m.store.Get(id)
	if err != nil {
		return pushError(L, "%v", err)
	}

	L.Push(preferenceTable(L, p))
	return 1
}

// set(language, tab_width[, use_spaces]) -> true | nil, err
// An omitted use_spaces keeps the current value.
func (m *Module) set(L *lua.LState) int {
	key := L.CheckString(1)
	width := L.CheckInt(2)

	id, ok := m.store.Resolve(key)
	if !ok {
		return pushError(L, "unknown language %q", key)
	}
	p, err := m.store.Get(id)
	if err != nil {
		return pushError(L, "%v", err)
	}

	p = p.WithTabWidth(width)
	if L.GetTop() >= 3 && L.Get(3) != lua.LNil {
		p = p.WithUseSpaces(L.CheckBool(3))
	}

	if err := m.store.SetFrom(id, p, ScriptSource); err != nil {
		return pushError(L, "%v", err)
	}
	L.Push(lua.LTrue)
	return 1
}

// reset(language) -> true | nil, err
func (m *Module) reset(L *lua.LState) int {
	key := L.CheckString(1)

	id, ok := m.store.Resolve(key)
	if !ok {
		return pushError(L, "unknown language %q", key)
	}
	if err := m.store.Reset(id); err != nil {
		return pushError(L, "%v", err)
	}
	L.Push(lua.LTrue)
	return 1
}

// languages() -> {name...}
func (m *Module) languages(L *lua.LState) int {
	names := m.store.Names()
	registry.SortNames(names, language.English)

	tbl := L.CreateTable(len(names), 0)
	for _, n := range names {
		tbl.Append(lua.LString(n))
	}
	L.Push(tbl)
	return 1
}

// resolve(name) -> id | nil
func (m *Module) resolve(L *lua.LState) int {
	name := L.CheckString(1)

	id, ok := m.store.ResolveID(indent.LanguageName(name))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(id))
	return 1
}

// apply(language...)
// Unknown languages are skipped.
func (m *Module) apply(L *lua.LState) int {
	n := L.GetTop()
	ids := make([]indent.LanguageID, 0, n)
	for i := 1; i <= n; i++ {
		if id, ok := m.store.Resolve(L.CheckString(i)); ok {
			ids = append(ids, id)
		}
	}
	if m.applier != nil {
		m.applier.ApplyTo(ids...)
	}
	return 0
}

// apply_all()
func (m *Module) applyAll(L *lua.LState) int {
	if m.applier != nil {
		m.applier.ApplyToAll()
	}
	return 0
}

func preferenceTable(L *lua.LState, p indent.Preference) *lua.LTable {
	tbl := L.CreateTable(0, 2)
	tbl.RawSetString("tab_width", lua.LNumber(p.TabWidth))
	tbl.RawSetString("use_spaces", lua.LBool(p.UseSpaces))
	return tbl
}

// pushError returns nil and a message, the Lua convention for soft errors.
func pushError(L *lua.LState, format string, args ...any) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(fmt.Sprintf(format, args...)))
	return 2
}
