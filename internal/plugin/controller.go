package plugin

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"

	"github.com/dshills/customindent/internal/indent"
	"github.com/dshills/customindent/internal/logging"
	"github.com/dshills/customindent/internal/notify"
	"github.com/dshills/customindent/internal/registry"
)

// control is one editable widget of a surface.
type control int

const (
	controlLanguage control = iota
	controlTabWidth
	controlSpaces
	numControls
)

func (c control) String() string {
	switch c {
	case controlLanguage:
		return "language"
	case controlTabWidth:
		return "tab width"
	case controlSpaces:
		return "spaces"
	default:
		return "unknown"
	}
}

// Panel is what a surface displays.
type Panel struct {
	// Language is the selected language; empty when none is selected.
	Language indent.LanguageID
	Name     indent.LanguageName

	TabWidth  int
	UseSpaces bool
}

// Selected reports whether the panel shows a language.
func (p Panel) Selected() bool {
	return p.Language != ""
}

func (p Panel) preference() indent.Preference {
	return indent.Preference{TabWidth: p.TabWidth, UseSpaces: p.UseSpaces}
}

// RefreshHandler is called after a controller changed its panel without
// user input. The UI layer pushes the panel into its widgets.
type RefreshHandler func(Panel)

// Controller turns the events of one surface into store edits.
type Controller struct {
	mu       sync.Mutex
	surface  Surface
	ctx      *Context
	panel    Panel
	suppress [numControls]bool
	follow   bool
	handlers []RefreshHandler
	sub      *notify.Subscription
	subKey   indent.LanguageID
	logger   *logging.Logger
}

// newController creates the controller of surface and subscribes it to
// store changes of the language it shows.
func newController(surface Surface, ctx *Context) *Controller {
	c := &Controller{
		surface: surface,
		ctx:     ctx,
		follow:  surface == SurfaceStatusBar,
		panel:   Panel{TabWidth: ctx.Store.Defaults().TabWidth, UseSpaces: ctx.Store.Defaults().UseSpaces},
		logger:  ctx.Logger.WithComponent("controller").WithField("surface", surface.String()),
	}
	if surface == SurfaceDialog {
		// The dialog opens on the first language it lists.
		if ids := ctx.Store.IDs(); len(ids) > 0 {
			if p, err := ctx.Store.Get(ids[0]); err == nil {
				c.panel = Panel{
					Language:  ids[0],
					Name:      ctx.Store.DisplayName(ids[0]),
					TabWidth:  p.TabWidth,
					UseSpaces: p.UseSpaces,
				}
			}
		}
	}
	c.mu.Lock()
	c.watchLocked()
	c.mu.Unlock()
	return c
}

// Surface returns the surface the controller serves.
func (c *Controller) Surface() Surface {
	return c.surface
}

// Panel returns what the surface should display.
func (c *Controller) Panel() Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panel
}

// OnRefresh registers a handler for passive panel changes.
func (c *Controller) OnRefresh(h RefreshHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// Choices returns the entries of the surface's language selector. The
// dialog lists ids in byte order; the status bar lists display names in
// collation order.
func (c *Controller) Choices() []string {
	if c.surface == SurfaceDialog {
		ids := c.ctx.Store.IDs()
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = string(id)
		}
		return out
	}

	names := c.ctx.Store.Names()
	registry.SortNames(names, language.English)
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

// Handle processes one event. Store and apply calls are made without the
// controller lock held, since the store notifies controllers synchronously.
func (c *Controller) Handle(ev Event) error {
	switch e := ev.(type) {
	case LanguageSelected:
		c.selectLanguage(e.Name)
		return nil
	case TabWidthSelected:
		return c.edit(controlTabWidth, func(p indent.Preference) indent.Preference {
			return p.WithTabWidth(e.Width)
		})
	case SpacesToggled:
		return c.edit(controlSpaces, func(p indent.Preference) indent.Preference {
			return p.WithUseSpaces(e.On)
		})
	case DocumentAdded:
		if c.follow {
			c.followDocument(e.Doc)
		}
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
}

// consume reports whether an event from ctl is the echo of a refresh, and
// clears the flag. c.mu must be held.
func (c *Controller) consume(ctl control) bool {
	if c.suppress[ctl] {
		c.suppress[ctl] = false
		c.logger.Debug("ignoring %s echo", ctl)
		return true
	}
	return false
}

// selectLanguage loads the preference of name into the panel. It never
// writes to the store.
func (c *Controller) selectLanguage(name indent.LanguageName) {
	c.mu.Lock()
	if c.consume(controlLanguage) {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	id, ok := c.ctx.Store.Resolve(string(name))
	if !ok {
		c.logger.Debug("ignoring unknown language %q", name)
		return
	}
	p, err := c.ctx.Store.Get(id)
	if err != nil {
		c.logger.Debug("no preference for %s: %v", id, err)
		return
	}

	c.mu.Lock()
	c.panel.Language = id
	c.panel.Name = c.ctx.Store.DisplayName(id)
	c.watchLocked()
	changed := c.loadLocked(p)
	handlers := c.handlersLocked(changed)
	panel := c.panel
	c.mu.Unlock()

	c.notifyRefresh(handlers, panel)
}

// edit writes the panel preference, modified by fn, for the selected
// language and applies it.
func (c *Controller) edit(ctl control, fn func(indent.Preference) indent.Preference) error {
	c.mu.Lock()
	if c.consume(ctl) {
		c.mu.Unlock()
		return nil
	}
	if !c.panel.Selected() {
		c.mu.Unlock()
		c.logger.Debug("no language selected, ignoring %s change", ctl)
		return nil
	}
	p := fn(c.panel.preference())
	if err := p.Validate(); err != nil {
		c.mu.Unlock()
		return err
	}
	id := c.panel.Language
	c.panel.TabWidth, c.panel.UseSpaces = p.TabWidth, p.UseSpaces
	c.mu.Unlock()

	if err := c.ctx.Store.SetFrom(id, p, c.surface.String()); err != nil {
		return err
	}
	c.ctx.Applier.ApplyTo(id)
	c.logger.Info("%s set to %s", id, p)
	return nil
}

// followDocument refreshes the panel to the language of doc.
func (c *Controller) followDocument(doc indent.Document) {
	var (
		id indent.LanguageID
		p  indent.Preference
		ok bool
	)
	if doc != nil {
		id, ok = doc.Language()
	}
	if ok {
		var err error
		if p, err = c.ctx.Store.Get(id); err != nil {
			ok = false
		}
	}

	c.mu.Lock()
	var changed bool
	if !ok {
		// Plain text: the selector shows no language; the width controls
		// keep their values.
		if c.panel.Selected() {
			c.suppress[controlLanguage] = true
			changed = true
		}
		c.panel.Language, c.panel.Name = "", ""
	} else {
		if c.panel.Language != id {
			c.suppress[controlLanguage] = true
			changed = true
		}
		c.panel.Language = id
		c.panel.Name = c.ctx.Store.DisplayName(id)
		changed = c.loadLocked(p) || changed
	}
	c.watchLocked()
	handlers := c.handlersLocked(changed)
	panel := c.panel
	c.mu.Unlock()

	c.notifyRefresh(handlers, panel)
}

// onStoreChange keeps the panel in sync with edits made elsewhere.
func (c *Controller) onStoreChange(ch notify.Change) {
	if ch.Source == c.surface.String() {
		return
	}

	c.mu.Lock()
	id := c.panel.Language
	c.mu.Unlock()
	if id == "" {
		return
	}
	if ch.Type != notify.ChangeReload && ch.Key != string(id) {
		return
	}

	p, err := c.ctx.Store.Get(id)
	if err != nil {
		return
	}

	c.mu.Lock()
	if c.panel.Language != id {
		c.mu.Unlock()
		return
	}
	c.panel.Name = c.ctx.Store.DisplayName(id)
	changed := c.loadLocked(p)
	handlers := c.handlersLocked(changed)
	panel := c.panel
	c.mu.Unlock()

	c.notifyRefresh(handlers, panel)
}

// watchLocked subscribes the controller to changes of the selected
// language, dropping the subscription of the previous one. c.mu must be
// held.
func (c *Controller) watchLocked() {
	if c.sub != nil && c.subKey == c.panel.Language {
		return
	}
	c.sub.Unsubscribe()
	c.sub, c.subKey = nil, c.panel.Language
	if c.panel.Language != "" {
		c.sub = c.ctx.Store.Notifier().SubscribeKey(string(c.panel.Language), c.onStoreChange)
	}
}

// loadLocked shows p in the panel, flagging every control whose value
// changed. c.mu must be held.
func (c *Controller) loadLocked(p indent.Preference) bool {
	changed := false
	if c.panel.TabWidth != p.TabWidth {
		c.panel.TabWidth = p.TabWidth
		c.suppress[controlTabWidth] = true
		changed = true
	}
	if c.panel.UseSpaces != p.UseSpaces {
		c.panel.UseSpaces = p.UseSpaces
		c.suppress[controlSpaces] = true
		changed = true
	}
	return changed
}

// handlersLocked returns a copy of the refresh handlers when changed is
// true. c.mu must be held.
func (c *Controller) handlersLocked(changed bool) []RefreshHandler {
	if !changed || len(c.handlers) == 0 {
		return nil
	}
	out := make([]RefreshHandler, len(c.handlers))
	copy(out, c.handlers)
	return out
}

func (c *Controller) notifyRefresh(handlers []RefreshHandler, p Panel) {
	for _, h := range handlers {
		h(p)
	}
}

// close unsubscribes the controller from the store.
func (c *Controller) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sub.Unsubscribe()
	c.sub = nil
}
