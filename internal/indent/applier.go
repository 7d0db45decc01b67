package indent

import (
	"github.com/dshills/customindent/internal/logging"
)

// Applier pushes stored preferences into open documents.
type Applier struct {
	store  *Store
	docs   DocumentSet
	views  ViewMutator
	logger *logging.Logger
}

// ApplierOption configures an Applier.
type ApplierOption func(*Applier)

// WithApplierLogger sets the applier logger.
func WithApplierLogger(l *logging.Logger) ApplierOption {
	return func(a *Applier) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewApplier creates an applier over the host's documents and views.
func NewApplier(store *Store, docs DocumentSet, views ViewMutator, opts ...ApplierOption) *Applier {
	a := &Applier{
		store:  store,
		docs:   docs,
		views:  views,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithComponent("applier")
	return a
}

// ApplyTo updates every open document whose language is one of ids.
// Calling it without ids does nothing.
func (a *Applier) ApplyTo(ids ...LanguageID) {
	if len(ids) == 0 {
		return
	}
	targets := make(map[LanguageID]struct{}, len(ids))
	for _, id := range ids {
		targets[id] = struct{}{}
	}
	a.apply(func(id LanguageID) bool {
		_, ok := targets[id]
		return ok
	})
}

// ApplyToAll updates every open document that has a language.
func (a *Applier) ApplyToAll() {
	a.apply(func(LanguageID) bool { return true })
}

// ApplyToDocument updates all open documents sharing doc's language.
// Documents without a language are ignored.
func (a *Applier) ApplyToDocument(doc Document) {
	if doc == nil {
		return
	}
	if id, ok := doc.Language(); ok {
		a.ApplyTo(id)
	}
}

func (a *Applier) apply(match func(LanguageID) bool) {
	applied := 0
	for _, doc := range a.docs.Documents() {
		id, ok := doc.Language()
		if !ok || !match(id) {
			continue
		}
		pref, err := a.store.Get(id)
		if err != nil {
			// The language may have left the store since load; keep the
			// document's current settings.
			a.logger.Debug("skipping document: %v", err)
			continue
		}
		a.views.SetTabWidth(doc, pref.TabWidth)
		a.views.SetInsertSpaces(doc, pref.UseSpaces)
		applied++
	}
	a.logger.Debug("applied preferences to %d documents", applied)
}
