package lua

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dshills/customindent/internal/host"
	"github.com/dshills/customindent/internal/indent"
	"github.com/dshills/customindent/internal/registry"
	"github.com/dshills/customindent/internal/storage"
)

type fixture struct {
	state  *State
	store  *indent.Store
	window *host.Window
	py     *host.Document
	c      *host.Document
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg := registry.MustNew(
		registry.Language{ID: "python3", Name: "Python"},
		registry.Language{ID: "c", Name: "C"},
	)
	backend := storage.NewFileBackend(filepath.Join(t.TempDir(), "settings.toml"))
	store := indent.NewStore(backend, reg)
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	w := host.NewWindow()
	f := &fixture{store: store, window: w, py: w.Open("a.py"), c: w.Open("b.c")}

	state, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { state.Close() })
	if err := NewModule(store, indent.NewApplier(store, w, w)).Register(state); err != nil {
		t.Fatal(err)
	}
	f.state = state
	return f
}

func (f *fixture) run(t *testing.T, code string) {
	t.Helper()
	if err := f.state.DoString(code); err != nil {
		t.Fatalf("script failed: %v", err)
	}
}

func TestModuleGetSet(t *testing.T) {
	f := newFixture(t)

	f.run(t, `
		local p = indent.get("Python")
		assert(p.tab_width == 4 and p.use_spaces == true)

		assert(indent.set("Python", 2, true))
		local q = indent.get("python3")
		assert(q.tab_width == 2 and q.use_spaces == true)

		assert(indent.set("c", 8, false))
		assert(indent.set("c", 6))
		assert(indent.get("C").use_spaces == false)
	`)

	p, err := f.store.Get("python3")
	if err != nil {
		t.Fatal(err)
	}
	if p != (indent.Preference{TabWidth: 2, UseSpaces: true}) {
		t.Errorf("python3 = %+v", p)
	}
	if p, _ := f.store.Get("c"); p != (indent.Preference{TabWidth: 6, UseSpaces: false}) {
		t.Errorf("c = %+v", p)
	}

	// set does not touch open documents.
	if f.py.ViewChanges() != 0 {
		t.Error("set applied to a document")
	}
}

func TestModuleSoftErrors(t *testing.T) {
	f := newFixture(t)

	f.run(t, `
		local v, err = indent.get("Cobol")
		assert(v == nil and err == 'unknown language "Cobol"')

		local ok, err2 = indent.set("Cobol", 2)
		assert(ok == nil and err2 ~= nil)

		local ok3, err3 = indent.set("c", 40)
		assert(ok3 == nil and string.find(err3, "invalid preference", 1, true))

		local ok4, err4 = indent.reset("Cobol")
		assert(ok4 == nil and err4 ~= nil)
	`)

	if p, _ := f.store.Get("c"); p != indent.DefaultPreference {
		t.Errorf("c changed to %+v", p)
	}
}

func TestModuleArgumentErrors(t *testing.T) {
	f := newFixture(t)
	if err := f.state.DoString(`indent.set("c", "wide")`); err == nil {
		t.Error("non-numeric tab width should raise")
	}
	if err := f.state.DoString(`indent.get()`); err == nil {
		t.Error("missing language should raise")
	}
}

func TestModuleResolveLanguages(t *testing.T) {
	f := newFixture(t)

	f.run(t, `
		assert(indent.resolve("Python") == "python3")
		assert(indent.resolve("python3") == nil)
		assert(indent.resolve("Cobol") == nil)

		local names = indent.languages()
		assert(#names == 2 and names[1] == "C" and names[2] == "Python")

		assert(indent.min_tab_width == 1 and indent.max_tab_width == 16)
	`)
}

func TestModuleApply(t *testing.T) {
	f := newFixture(t)

	f.run(t, `
		indent.set("Python", 2, true)
		indent.apply("Python", "Cobol")
	`)
	if v := f.py.View(); v != (host.View{TabWidth: 2, InsertSpaces: true}) {
		t.Errorf("python view = %+v", v)
	}
	if f.c.ViewChanges() != 0 {
		t.Error("apply touched the C document")
	}

	f.run(t, `indent.apply_all()`)
	if v := f.c.View(); v != (host.View{TabWidth: 4, InsertSpaces: true}) {
		t.Errorf("c view = %+v", v)
	}

	f.run(t, `
		assert(indent.reset("python3"))
		indent.apply()
	`)
	if p, _ := f.store.Get("python3"); p != indent.DefaultPreference {
		t.Errorf("reset python3 = %+v", p)
	}
	if v := f.py.View(); v.TabWidth != 2 {
		t.Error("empty apply must not touch documents")
	}
}

func TestModuleWithoutApplier(t *testing.T) {
	f := newFixture(t)
	state, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	if err := NewModule(f.store, nil).Register(state); err != nil {
		t.Fatal(err)
	}
	if err := state.DoString(`indent.apply("c"); indent.apply_all()`); err != nil {
		t.Fatal(err)
	}
}
