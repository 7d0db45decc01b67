// Package registry provides language registries for the preference store.
//
// A Registry is an ordered list of languages, each with a stable id and a
// display name. It can be built in code, parsed from a YAML file, or taken
// from the list compiled into the binary. A Watcher reloads a file-backed
// registry when the file changes.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/customindent/internal/indent"
)

// Registry errors.
var (
	ErrEmptyID       = errors.New("language id is empty")
	ErrDuplicateID   = errors.New("duplicate language id")
	ErrDuplicateName = errors.New("duplicate language name")
)

// Language is one entry of the registry.
type Language struct {
	ID   indent.LanguageID   `yaml:"id"`
	Name indent.LanguageName `yaml:"name"`
}

// Registry maintains the languages known to the host. It is safe for
// concurrent use; Replace swaps the whole list atomically.
type Registry struct {
	mu    sync.RWMutex
	langs []Language
	byID  map[indent.LanguageID]int
}

// New creates a registry from langs. A language without a name uses its id
// as its name.
func New(langs ...Language) (*Registry, error) {
	r := &Registry{}
	if err := r.Replace(langs); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(langs ...Language) *Registry {
	r, err := New(langs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Replace swaps the language list. On error the registry is unchanged.
func (r *Registry) Replace(langs []Language) error {
	list := make([]Language, 0, len(langs))
	byID := make(map[indent.LanguageID]int, len(langs))
	names := make(map[indent.LanguageName]indent.LanguageID, len(langs))

	for _, l := range langs {
		l.ID = indent.LanguageID(strings.TrimSpace(string(l.ID)))
		l.Name = indent.LanguageName(strings.TrimSpace(string(l.Name)))
		if l.ID == "" {
			return ErrEmptyID
		}
		if l.Name == "" {
			l.Name = indent.LanguageName(l.ID)
		}
		if _, dup := byID[l.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateID, l.ID)
		}
		if other, dup := names[l.Name]; dup {
			return fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateName, l.Name, other, l.ID)
		}
		byID[l.ID] = len(list)
		names[l.Name] = l.ID
		list = append(list, l)
	}

	r.mu.Lock()
	r.langs = list
	r.byID = byID
	r.mu.Unlock()
	return nil
}

// LanguageIDs returns the ids in registry order.
func (r *Registry) LanguageIDs() []indent.LanguageID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]indent.LanguageID, len(r.langs))
	for i, l := range r.langs {
		ids[i] = l.ID
	}
	return ids
}

// DisplayName returns the name of id, or "" when id is unknown.
func (r *Registry) DisplayName(id indent.LanguageID) indent.LanguageName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i, ok := r.byID[id]; ok {
		return r.langs[i].Name
	}
	return ""
}

// Len returns the number of languages.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.langs)
}

var _ indent.LanguageRegistry = (*Registry)(nil)
