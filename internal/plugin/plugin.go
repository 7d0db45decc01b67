package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/customindent/internal/config"
	"github.com/dshills/customindent/internal/indent"
	"github.com/dshills/customindent/internal/logging"
	plua "github.com/dshills/customindent/internal/plugin/lua"
	"github.com/dshills/customindent/internal/registry"
	"github.com/dshills/customindent/internal/storage"
)

// Plugin is the per-window plugin instance.
type Plugin struct {
	mu sync.RWMutex

	// events serializes every unit of work that updates the store and
	// then applies it, including registry reloads from the watcher.
	events sync.Mutex

	cfg      config.Config
	host     Host
	registry indent.LanguageRegistry
	backend  indent.Backend
	logger   *logging.Logger

	state State
	err   error

	// Set while active.
	ctx         *Context
	controllers map[Surface]*Controller
	watcher     *registry.Watcher
	lua         *plua.State
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithRegistry uses the host's language registry instead of the configured
// file or the built-in list.
func WithRegistry(r indent.LanguageRegistry) Option {
	return func(p *Plugin) {
		p.registry = r
	}
}

// WithBackend replaces the configured storage backend.
func WithBackend(b indent.Backend) Option {
	return func(p *Plugin) {
		p.backend = b
	}
}

// WithLogger sets the plugin logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates an inactive plugin for the window host.
func New(cfg config.Config, host Host, opts ...Option) *Plugin {
	p := &Plugin{
		cfg:    cfg,
		host:   host,
		logger: logging.Nop(),
		state:  StateInactive,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithComponent("plugin")
	return p
}

// State returns the current lifecycle state.
func (p *Plugin) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Err returns the error that put the plugin in StateError.
func (p *Plugin) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

// Context returns the activation context, or nil when inactive.
func (p *Plugin) Context() *Context {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ctx
}

// Controller returns the controller of surface, or nil when inactive.
func (p *Plugin) Controller(s Surface) *Controller {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.controllers[s]
}

// Activate loads the settings and applies them to every open document.
// A settings load failure is fatal: the plugin enters StateError and the
// *indent.StorageError is returned.
func (p *Plugin) Activate(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.CanActivate() {
		return ErrAlreadyActive
	}
	p.state = StateActivating

	reg, fileReg, err := p.openRegistry()
	if err != nil {
		return p.failLocked("failed to load languages", err)
	}

	backend := p.backend
	if backend == nil {
		if backend, err = storage.Open(ctx, p.cfg.Storage); err != nil {
			return p.failLocked("failed to load settings", err)
		}
	}

	store := indent.NewStore(backend, reg,
		indent.WithDefaults(p.cfg.Defaults.Preference()),
		indent.WithLogger(p.logger),
	)
	if err := store.Load(ctx); err != nil {
		return p.failLocked("failed to load settings", err)
	}

	pctx := &Context{
		Store:    store,
		Applier:  indent.NewApplier(store, p.host, p.host, indent.WithApplierLogger(p.logger)),
		Registry: reg,
		Host:     p.host,
		Logger:   p.logger,
	}

	if p.cfg.Scripts.Init != "" {
		p.lua = p.runInit(pctx, p.cfg.Scripts.Init)
	}

	pctx.Applier.ApplyToAll()

	p.ctx = pctx
	p.controllers = map[Surface]*Controller{
		SurfaceDialog:    newController(SurfaceDialog, pctx),
		SurfaceStatusBar: newController(SurfaceStatusBar, pctx),
	}

	if fileReg != nil && p.cfg.Registry.Watch {
		p.startWatcher(pctx, fileReg)
	}

	p.state = StateActive
	p.err = nil
	p.logger.Info("activated with settings at %s", backend.Location())
	return nil
}

// openRegistry returns the host registry, the configured file, or the
// built-in list. fileReg is set when the registry was read from a file.
func (p *Plugin) openRegistry() (reg indent.LanguageRegistry, fileReg *registry.Registry, err error) {
	switch {
	case p.registry != nil:
		return p.registry, nil, nil
	case p.cfg.Registry.Path != "":
		r, err := registry.LoadFile(p.cfg.Registry.Path)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	default:
		return registry.Builtin(), nil, nil
	}
}

// runInit runs the user's init script. Script errors are logged and do not
// stop activation.
func (p *Plugin) runInit(pctx *Context, path string) *plua.State {
	state, err := plua.NewState(plua.WithLogger(p.logger))
	if err != nil {
		p.logger.Warn("init script: %v", err)
		return nil
	}
	if err := plua.NewModule(pctx.Store, pctx.Applier).Register(state); err != nil {
		p.logger.Warn("init script: %v", err)
		state.Close()
		return nil
	}
	if err := state.DoFile(path); err != nil {
		p.logger.Warn("init script %s: %v", path, err)
	}
	return state
}

func (p *Plugin) startWatcher(pctx *Context, reg *registry.Registry) {
	w, err := registry.NewWatcher(reg, p.cfg.Registry.Path, registry.WithWatchLogger(p.logger))
	if err != nil {
		p.logger.Warn("not watching languages: %v", err)
		return
	}
	w.OnReload(func() { p.reloadLanguages(pctx) })
	p.watcher = w
}

// reloadLanguages picks up a changed registry. It runs on the watcher
// goroutine and waits for any event in progress.
func (p *Plugin) reloadLanguages(pctx *Context) {
	p.events.Lock()
	defer p.events.Unlock()

	pctx.Store.Refresh()
	pctx.Applier.ApplyToAll()
}

// failLocked records a fatal error. p.mu must be held.
func (p *Plugin) failLocked(msg string, err error) error {
	p.logger.Error("%s: %v", msg, err)
	p.state = StateError
	p.err = err
	return err
}

// Deactivate saves the settings and releases the activation's resources.
// A save failure puts the plugin in StateError and is returned.
func (p *Plugin) Deactivate(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateActive {
		return ErrNotActive
	}
	p.state = StateDeactivating

	var errs []error
	if p.watcher != nil {
		errs = append(errs, p.watcher.Close())
		p.watcher = nil
	}
	for _, c := range p.controllers {
		c.close()
	}
	if p.lua != nil {
		errs = append(errs, p.lua.Close())
		p.lua = nil
	}
	if err := errors.Join(errs...); err != nil {
		p.logger.Warn("releasing resources: %v", err)
	}

	store := p.ctx.Store
	p.ctx = nil
	p.controllers = nil

	if err := store.Save(ctx); err != nil {
		return p.failLocked("failed to save settings", err)
	}

	p.state = StateInactive
	p.logger.Info("deactivated")
	return nil
}

// DocumentLoaded applies the preference of doc's language to every open
// document of that language and refreshes the status bar.
func (p *Plugin) DocumentLoaded(doc indent.Document) {
	p.mu.RLock()
	pctx := p.ctx
	status := p.controllers[SurfaceStatusBar]
	p.mu.RUnlock()

	if pctx == nil || doc == nil {
		return
	}

	p.events.Lock()
	defer p.events.Unlock()

	pctx.Applier.ApplyToDocument(doc)
	if status != nil {
		if err := status.Handle(DocumentAdded{Doc: doc}); err != nil {
			p.logger.Debug("status bar refresh: %v", err)
		}
	}
}

// Dispatch hands ev to the controller of surface.
func (p *Plugin) Dispatch(surface Surface, ev Event) error {
	p.mu.RLock()
	active := p.state == StateActive
	c := p.controllers[surface]
	p.mu.RUnlock()

	if !active {
		return ErrNotActive
	}
	if c == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSurface, surface)
	}

	p.events.Lock()
	defer p.events.Unlock()
	return c.Handle(ev)
}
