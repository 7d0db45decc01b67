package indent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/customindent/internal/logging"
	"github.com/dshills/customindent/internal/notify"
)

// Change sources published with every store notification.
const (
	SourceLoad    = "load"
	SourceRefresh = "refresh"
)

// Store is the single source of truth for per-language preferences.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	backend  Backend
	registry LanguageRegistry
	defaults Preference

	prefs map[LanguageID]Preference
	names map[LanguageName]LanguageID

	notifier *notify.Notifier
	logger   *logging.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDefaults sets the preference given to languages without a stored one.
// Invalid preferences are ignored.
func WithDefaults(p Preference) StoreOption {
	return func(s *Store) {
		if p.Validate() == nil {
			s.defaults = p
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l *logging.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotifier sets the notifier changes are published on.
func WithNotifier(n *notify.Notifier) StoreOption {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// NewStore creates an empty store. Call Load before use.
func NewStore(backend Backend, registry LanguageRegistry, opts ...StoreOption) *Store {
	s := &Store{
		backend:  backend,
		registry: registry,
		defaults: DefaultPreference,
		prefs:    make(map[LanguageID]Preference),
		names:    make(map[LanguageName]LanguageID),
		notifier: notify.New(),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("store")
	return s
}

// Notifier returns the notifier the store publishes on.
func (s *Store) Notifier() *notify.Notifier {
	return s.notifier
}

// Defaults returns the preference given to languages without a stored one.
func (s *Store) Defaults() Preference {
	return s.defaults
}

// Load replaces the in-memory state with the persisted mapping. When nothing
// is persisted every registry language gets the default preference. The name
// index is rebuilt from the registry in both cases.
func (s *Store) Load(ctx context.Context) error {
	prefs, found, err := s.backend.Load(ctx)
	if err != nil {
		return s.storageError(OpLoad, err)
	}
	if !found || prefs == nil {
		s.logger.Info("no settings at %s, using defaults", s.backend.Location())
		prefs = make(map[LanguageID]Preference)
	}
	for id, p := range prefs {
		if err := p.Validate(); err != nil {
			return s.storageError(OpLoad, fmt.Errorf("%w: language %q: %w", ErrMalformedStorage, id, err))
		}
	}

	s.mu.Lock()
	s.prefs = prefs
	added := s.syncRegistryLocked()
	count := len(s.prefs)
	s.mu.Unlock()

	s.logger.Debug("loaded %d preferences (%d defaulted)", count, added)
	s.notifier.NotifyReload(SourceLoad)
	return nil
}

// Save writes the preference mapping to the backend, overwriting it. The
// name index is never persisted.
func (s *Store) Save(ctx context.Context) error {
	snapshot := s.Snapshot()
	if err := s.backend.Save(ctx, snapshot); err != nil {
		return s.storageError(OpSave, err)
	}
	s.logger.Debug("saved %d preferences to %s", len(snapshot), s.backend.Location())
	return nil
}

// Refresh rebuilds the name index from the registry and gives newly
// registered languages the default preference. Existing preferences are
// kept.
func (s *Store) Refresh() {
	s.mu.Lock()
	added := s.syncRegistryLocked()
	s.mu.Unlock()

	if added > 0 {
		s.logger.Info("registry refresh added %d languages", added)
	}
	s.notifier.NotifyReload(SourceRefresh)
}

// syncRegistryLocked defaults missing registry ids and rebuilds the name
// index. It returns the number of defaulted ids. s.mu must be held.
func (s *Store) syncRegistryLocked() int {
	added := 0
	names := make(map[LanguageName]LanguageID)
	for _, id := range s.registry.LanguageIDs() {
		if _, ok := s.prefs[id]; !ok {
			s.prefs[id] = s.defaults
			added++
		}
		name := s.registry.DisplayName(id)
		if name == "" {
			continue
		}
		if prev, dup := names[name]; dup && prev != id {
			s.logger.Warn("display name %q used by %q and %q", name, prev, id)
		}
		names[name] = id
	}
	s.names = names
	return added
}

// Get returns the preference of id.
func (s *Store) Get(id LanguageID) (Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prefs[id]
	if !ok {
		return Preference{}, notFound(id)
	}
	return p, nil
}

// Set inserts or replaces the preference of id.
func (s *Store) Set(id LanguageID, p Preference) error {
	return s.set(id, p, notify.ChangeSet, "")
}

// SetFrom is Set with the change source recorded on the notification.
func (s *Store) SetFrom(id LanguageID, p Preference, source string) error {
	return s.set(id, p, notify.ChangeSet, source)
}

func (s *Store) set(id LanguageID, p Preference, ct notify.ChangeType, source string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	old, existed := s.prefs[id]
	s.prefs[id] = p
	s.mu.Unlock()

	var oldValue any
	if existed {
		oldValue = old
	}
	if ct == notify.ChangeReset {
		s.notifier.NotifyReset(string(id), oldValue, p, source)
	} else {
		s.notifier.NotifySet(string(id), oldValue, p, source)
	}
	return nil
}

// Reset restores the default preference of id.
func (s *Store) Reset(id LanguageID) error {
	s.mu.RLock()
	_, ok := s.prefs[id]
	s.mu.RUnlock()
	if !ok {
		return notFound(id)
	}
	return s.set(id, s.defaults, notify.ChangeReset, "")
}

// GetByName returns the preference of the language displayed as name.
func (s *Store) GetByName(name LanguageName) (Preference, error) {
	id, ok := s.ResolveID(name)
	if !ok {
		return Preference{}, notFound(name)
	}
	return s.Get(id)
}

// SetByName replaces the preference of the language displayed as name.
func (s *Store) SetByName(name LanguageName, p Preference) error {
	id, ok := s.ResolveID(name)
	if !ok {
		return notFound(name)
	}
	return s.Set(id, p)
}

// ResolveID returns the id of the language displayed as name. It never
// fails; ok is false for names the registry did not report.
func (s *Store) ResolveID(name LanguageName) (id LanguageID, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok = s.names[name]
	return id, ok
}

// Resolve accepts either a display name or an id.
func (s *Store) Resolve(key string) (LanguageID, bool) {
	if id, ok := s.ResolveID(LanguageName(key)); ok {
		return id, true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.prefs[LanguageID(key)]; ok {
		return LanguageID(key), true
	}
	return "", false
}

// DisplayName returns the display name of id from the name index, falling
// back to the id itself.
func (s *Store) DisplayName(id LanguageID) LanguageName {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, nid := range s.names {
		if nid == id {
			return name
		}
	}
	return LanguageName(id)
}

// Names returns every known display name in unspecified order.
func (s *Store) Names() []LanguageName {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]LanguageName, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	return names
}

// IDs returns the ids of all stored preferences, sorted.
func (s *Store) IDs() []LanguageID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]LanguageID, 0, len(s.prefs))
	for id := range s.prefs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Snapshot returns a copy of the preference mapping.
func (s *Store) Snapshot() map[LanguageID]Preference {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[LanguageID]Preference, len(s.prefs))
	for id, p := range s.prefs {
		out[id] = p
	}
	return out
}

// storageError wraps a backend failure, classifying anything the backend
// did not classify as unavailable storage.
func (s *Store) storageError(op string, err error) error {
	if !errors.Is(err, ErrStorageUnavailable) && !errors.Is(err, ErrMalformedStorage) {
		err = fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return &StorageError{Op: op, Location: s.backend.Location(), Err: err}
}
