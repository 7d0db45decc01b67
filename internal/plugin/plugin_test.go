package plugin

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/customindent/internal/config"
	"github.com/dshills/customindent/internal/host"
	"github.com/dshills/customindent/internal/indent"
	"github.com/dshills/customindent/internal/logging"
	"github.com/dshills/customindent/internal/storage"
)

type pluginFixture struct {
	cfg      config.Config
	win      *host.Window
	settings string
	dir      string
}

func newPluginFixture(t *testing.T) *pluginFixture {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(dir, "settings.toml")
	return &pluginFixture{cfg: cfg, win: host.NewWindow(), settings: cfg.Storage.Path, dir: dir}
}

func (f *pluginFixture) seed(t *testing.T, prefs map[indent.LanguageID]indent.Preference) {
	t.Helper()
	require.NoError(t, storage.NewFileBackend(f.settings).Save(context.Background(), prefs))
}

func (f *pluginFixture) persisted(t *testing.T) map[indent.LanguageID]indent.Preference {
	t.Helper()
	prefs, found, err := storage.NewFileBackend(f.settings).Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	return prefs
}

func (f *pluginFixture) newPlugin(opts ...Option) *Plugin {
	opts = append([]Option{WithRegistry(testRegistry())}, opts...)
	return New(f.cfg, f.win, opts...)
}

func TestPlugin_Lifecycle(t *testing.T) {
	f := newPluginFixture(t)
	f.seed(t, map[indent.LanguageID]indent.Preference{
		"python3": {TabWidth: 2, UseSpaces: true},
	})
	doc := f.win.Open("a.py")

	p := f.newPlugin()
	assert.Equal(t, StateInactive, p.State())
	assert.Nil(t, p.Context())
	assert.ErrorIs(t, p.Deactivate(context.Background()), ErrNotActive)
	assert.ErrorIs(t, p.Dispatch(SurfaceDialog, TabWidthSelected{Width: 3}), ErrNotActive)

	require.NoError(t, p.Activate(context.Background()))
	assert.Equal(t, StateActive, p.State())
	assert.ErrorIs(t, p.Activate(context.Background()), ErrAlreadyActive)
	require.NotNil(t, p.Controller(SurfaceDialog))
	require.NotNil(t, p.Controller(SurfaceStatusBar))

	// Open documents pick up their language's preference.
	assert.Equal(t, host.View{TabWidth: 2, InsertSpaces: true}, doc.View())

	// The dialog opens on "c", which got the default preference.
	require.NoError(t, p.Dispatch(SurfaceDialog, TabWidthSelected{Width: 8}))
	require.NoError(t, p.Dispatch(SurfaceDialog, SpacesToggled{On: false}))
	assert.ErrorIs(t, p.Dispatch(Surface(7), SpacesToggled{}), ErrUnknownSurface)

	require.NoError(t, p.Deactivate(context.Background()))
	assert.Equal(t, StateInactive, p.State())
	assert.Nil(t, p.Controller(SurfaceDialog))

	assert.Equal(t, map[indent.LanguageID]indent.Preference{
		"python3": {TabWidth: 2, UseSpaces: true},
		"c":       {TabWidth: 8, UseSpaces: false},
		"go":      indent.DefaultPreference,
	}, f.persisted(t))

	// A second activation starts from the saved file.
	require.NoError(t, p.Activate(context.Background()))
	got, err := p.Context().Store.Get("c")
	require.NoError(t, err)
	assert.Equal(t, indent.Preference{TabWidth: 8, UseSpaces: false}, got)
	require.NoError(t, p.Deactivate(context.Background()))
}

func TestPlugin_ConfiguredDefaults(t *testing.T) {
	f := newPluginFixture(t)
	f.cfg.Defaults = config.DefaultsConfig{TabWidth: 3, UseSpaces: false}

	p := f.newPlugin()
	require.NoError(t, p.Activate(context.Background()))
	defer p.Deactivate(context.Background())

	got, err := p.Context().Store.Get("go")
	require.NoError(t, err)
	assert.Equal(t, indent.Preference{TabWidth: 3, UseSpaces: false}, got)
}

func TestPlugin_LoadFailure(t *testing.T) {
	f := newPluginFixture(t)
	require.NoError(t, os.WriteFile(f.settings, []byte("version = \"1.0.0\"\n[languages.c\n"), 0o644))

	p := f.newPlugin()
	err := p.Activate(context.Background())
	require.Error(t, err)
	assert.True(t, indent.IsStorageError(err))
	assert.ErrorIs(t, err, indent.ErrMalformedStorage)
	assert.Equal(t, StateError, p.State())
	assert.Equal(t, err, p.Err())
	assert.Nil(t, p.Context())

	// Activation may be retried once the file is fixed.
	require.NoError(t, os.Remove(f.settings))
	require.NoError(t, p.Activate(context.Background()))
	assert.Equal(t, StateActive, p.State())
	assert.NoError(t, p.Err())
}

type brokenBackend struct {
	saveErr error
}

func (brokenBackend) Load(context.Context) (map[indent.LanguageID]indent.Preference, bool, error) {
	return nil, false, nil
}

func (b brokenBackend) Save(context.Context, map[indent.LanguageID]indent.Preference) error {
	return b.saveErr
}

func (brokenBackend) Location() string { return "broken" }

func TestPlugin_SaveFailure(t *testing.T) {
	f := newPluginFixture(t)
	full := errors.New("disk full")

	p := f.newPlugin(WithBackend(brokenBackend{saveErr: full}))
	require.NoError(t, p.Activate(context.Background()))

	err := p.Deactivate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, full)
	assert.ErrorIs(t, err, indent.ErrStorageUnavailable)

	var serr *indent.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, indent.OpSave, serr.Op)
	assert.Equal(t, StateError, p.State())
}

func TestPlugin_InitScript(t *testing.T) {
	f := newPluginFixture(t)
	script := filepath.Join(f.dir, "init.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
assert(indent.set("go", 3, false))
local ok, err = indent.set("cobol", 2)
assert(ok == nil and err ~= nil)
`), 0o644))
	f.cfg.Scripts.Init = script
	doc := f.win.Open("main.go")

	p := f.newPlugin()
	require.NoError(t, p.Activate(context.Background()))
	defer p.Deactivate(context.Background())

	got, err := p.Context().Store.Get("go")
	require.NoError(t, err)
	assert.Equal(t, indent.Preference{TabWidth: 3, UseSpaces: false}, got)
	assert.Equal(t, host.View{TabWidth: 3, InsertSpaces: false}, doc.View())
}

func TestPlugin_BrokenInitScript(t *testing.T) {
	f := newPluginFixture(t)
	script := filepath.Join(f.dir, "init.lua")
	require.NoError(t, os.WriteFile(script, []byte(`error("boom")`), 0o644))
	f.cfg.Scripts.Init = script

	p := f.newPlugin()
	require.NoError(t, p.Activate(context.Background()))
	assert.Equal(t, StateActive, p.State())
	require.NoError(t, p.Deactivate(context.Background()))

	// A missing script is not fatal either.
	f.cfg.Scripts.Init = filepath.Join(f.dir, "missing.lua")
	p = f.newPlugin()
	require.NoError(t, p.Activate(context.Background()))
	require.NoError(t, p.Deactivate(context.Background()))
}

func TestPlugin_RegistryWatch(t *testing.T) {
	f := newPluginFixture(t)
	langs := filepath.Join(f.dir, "languages.yaml")
	require.NoError(t, os.WriteFile(langs, []byte("languages:\n  - {id: c, name: C}\n"), 0o644))
	f.cfg.Registry = config.RegistryConfig{Path: langs, Watch: true}
	doc := f.win.Open("lib.rs")

	p := New(f.cfg, f.win)
	require.NoError(t, p.Activate(context.Background()))
	defer p.Deactivate(context.Background())

	store := p.Context().Store
	_, err := store.Get("rust")
	require.Error(t, err)
	assert.Equal(t, host.DefaultTabWidth, doc.View().TabWidth)

	tmp := langs + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("languages:\n  - {id: c, name: C}\n  - {id: rust, name: Rust}\n"), 0o644))
	require.NoError(t, os.Rename(tmp, langs))

	require.Eventually(t, func() bool {
		_, err := store.Get("rust")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	id, ok := store.ResolveID("Rust")
	assert.True(t, ok)
	assert.Equal(t, indent.LanguageID("rust"), id)
	require.Eventually(t, func() bool {
		return doc.View().TabWidth == indent.DefaultTabWidth
	}, 5*time.Second, 20*time.Millisecond)
}

func TestPlugin_BadRegistryFile(t *testing.T) {
	f := newPluginFixture(t)
	f.cfg.Registry.Path = filepath.Join(f.dir, "missing.yaml")

	p := New(f.cfg, f.win)
	require.Error(t, p.Activate(context.Background()))
	assert.Equal(t, StateError, p.State())
}

// Python at 2 spaces and C at 8 tabs; a C file and a Python file are open.
func TestPlugin_PythonAndC(t *testing.T) {
	f := newPluginFixture(t)
	f.seed(t, map[indent.LanguageID]indent.Preference{
		"python3": {TabWidth: 2, UseSpaces: true},
		"c":       {TabWidth: 8, UseSpaces: false},
	})

	p := f.newPlugin()
	f.win.OnLoaded(func(d *host.Document) { p.DocumentLoaded(d) })
	require.NoError(t, p.Activate(context.Background()))

	status := p.Controller(SurfaceStatusBar)
	var refreshed []Panel
	status.OnRefresh(func(panel Panel) { refreshed = append(refreshed, panel) })

	pyDoc := f.win.Open("a.py")
	cDoc := f.win.Open("b.c")

	assert.Equal(t, host.View{TabWidth: 2, InsertSpaces: true}, pyDoc.View())
	assert.Equal(t, host.View{TabWidth: 8, InsertSpaces: false}, cDoc.View())
	require.Len(t, refreshed, 2)
	assert.Equal(t, indent.LanguageID("c"), status.Panel().Language)

	// The status bar's widgets echo the C values without writing.
	require.NoError(t, p.Dispatch(SurfaceStatusBar, LanguageSelected{Name: "C"}))
	require.NoError(t, p.Dispatch(SurfaceStatusBar, TabWidthSelected{Width: 8}))
	require.NoError(t, p.Dispatch(SurfaceStatusBar, SpacesToggled{On: false}))

	// Switching the status bar to Python and widening it touches only the
	// Python document.
	require.NoError(t, p.Dispatch(SurfaceStatusBar, LanguageSelected{Name: "Python 3"}))
	require.NoError(t, p.Dispatch(SurfaceStatusBar, TabWidthSelected{Width: 2}))
	require.NoError(t, p.Dispatch(SurfaceStatusBar, SpacesToggled{On: true}))
	require.NoError(t, p.Dispatch(SurfaceStatusBar, TabWidthSelected{Width: 4}))

	assert.Equal(t, host.View{TabWidth: 4, InsertSpaces: true}, pyDoc.View())
	assert.Equal(t, host.View{TabWidth: 8, InsertSpaces: false}, cDoc.View())

	require.NoError(t, p.Deactivate(context.Background()))
	prefs := f.persisted(t)
	assert.Equal(t, indent.Preference{TabWidth: 4, UseSpaces: true}, prefs["python3"])
	assert.Equal(t, indent.Preference{TabWidth: 8, UseSpaces: false}, prefs["c"])
}

func TestPlugin_DocumentLoaded(t *testing.T) {
	f := newPluginFixture(t)
	var logs bytes.Buffer
	p := f.newPlugin(WithLogger(logging.New(logging.Config{Level: logging.LevelDebug, Output: &logs})))

	doc := f.win.Open("b.c")
	p.DocumentLoaded(doc)
	assert.Zero(t, doc.ViewChanges(), "inactive plugin applied a preference")

	require.NoError(t, p.Activate(context.Background()))
	p.DocumentLoaded(f.win.OpenScratch())
	p.DocumentLoaded(nil)
	p.DocumentLoaded(doc)

	status := p.Controller(SurfaceStatusBar)
	assert.Equal(t, indent.LanguageID("c"), status.Panel().Language)
	assert.NotContains(t, logs.String(), "status bar refresh")
	require.NoError(t, p.Deactivate(context.Background()))
}

// gatedHost parks the first SetTabWidth call made after arm until release
// is closed.
type gatedHost struct {
	*host.Window
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newGatedHost() *gatedHost {
	return &gatedHost{
		Window:  host.NewWindow(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (h *gatedHost) SetTabWidth(doc indent.Document, width int) {
	if h.armed.CompareAndSwap(true, false) {
		close(h.entered)
		<-h.release
	}
	h.Window.SetTabWidth(doc, width)
}

func TestPlugin_ReloadDoesNotOverwriteEdit(t *testing.T) {
	f := newPluginFixture(t)
	f.seed(t, map[indent.LanguageID]indent.Preference{
		"python3": {TabWidth: 4, UseSpaces: true},
	})
	gh := newGatedHost()
	p := New(f.cfg, gh, WithRegistry(testRegistry()))
	require.NoError(t, p.Activate(context.Background()))
	defer p.Deactivate(context.Background())

	doc := gh.Open("a.py")
	p.DocumentLoaded(doc)
	require.NoError(t, p.Dispatch(SurfaceStatusBar, LanguageSelected{Name: "Python 3"}))
	require.NoError(t, p.Dispatch(SurfaceStatusBar, TabWidthSelected{Width: 4}))

	// The reload reads python3 at 4 and stalls before writing the view.
	gh.armed.Store(true)
	reloaded := make(chan struct{})
	go func() {
		defer close(reloaded)
		p.reloadLanguages(p.Context())
	}()
	select {
	case <-gh.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("reload never reached the view")
	}

	edited := make(chan error, 1)
	go func() {
		edited <- p.Dispatch(SurfaceStatusBar, TabWidthSelected{Width: 2})
	}()
	select {
	case err := <-edited:
		t.Fatalf("edit finished during a reload: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(gh.release)
	<-reloaded
	require.NoError(t, <-edited)

	stored, err := p.Context().Store.Get("python3")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.TabWidth)
	assert.Equal(t, host.View{TabWidth: 2, InsertSpaces: true}, doc.View())
}

func TestState_CanActivate(t *testing.T) {
	assert.True(t, StateInactive.CanActivate())
	assert.True(t, StateError.CanActivate())
	assert.False(t, StateActive.CanActivate())
	assert.False(t, StateActivating.CanActivate())
	assert.Equal(t, "active", StateActive.String())
}
