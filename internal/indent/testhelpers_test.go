package indent

import (
	"context"
	"errors"
	"sort"
)

// fakeRegistry is a LanguageRegistry backed by an id -> name map.
type fakeRegistry map[LanguageID]LanguageName

func (r fakeRegistry) LanguageIDs() []LanguageID {
	ids := make([]LanguageID, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r fakeRegistry) DisplayName(id LanguageID) LanguageName {
	return r[id]
}

// memBackend keeps a copy of the last saved mapping.
type memBackend struct {
	data    map[LanguageID]Preference
	loadErr error
	saveErr error
	saves   int
}

func (b *memBackend) Load(context.Context) (map[LanguageID]Preference, bool, error) {
	if b.loadErr != nil {
		return nil, false, b.loadErr
	}
	if b.data == nil {
		return nil, false, nil
	}
	out := make(map[LanguageID]Preference, len(b.data))
	for k, v := range b.data {
		out[k] = v
	}
	return out, true, nil
}

func (b *memBackend) Save(_ context.Context, prefs map[LanguageID]Preference) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saves++
	b.data = make(map[LanguageID]Preference, len(prefs))
	for k, v := range prefs {
		b.data[k] = v
	}
	return nil
}

func (b *memBackend) Location() string { return "memory" }

var errDisk = errors.New("disk on fire")

// fakeDoc is an open document with its view state.
type fakeDoc struct {
	name      string
	lang      LanguageID
	hasLang   bool
	tabWidth  int
	useSpaces bool
	writes    int
}

func (d *fakeDoc) Language() (LanguageID, bool) { return d.lang, d.hasLang }

func newDoc(name string, lang LanguageID) *fakeDoc {
	return &fakeDoc{name: name, lang: lang, hasLang: lang != "", tabWidth: 8}
}

// fakeWindow implements DocumentSet and ViewMutator.
type fakeWindow struct {
	docs []*fakeDoc
}

func (w *fakeWindow) Documents() []Document {
	out := make([]Document, len(w.docs))
	for i, d := range w.docs {
		out[i] = d
	}
	return out
}

func (w *fakeWindow) SetTabWidth(doc Document, width int) {
	d := doc.(*fakeDoc)
	d.tabWidth = width
	d.writes++
}

func (w *fakeWindow) SetInsertSpaces(doc Document, on bool) {
	d := doc.(*fakeDoc)
	d.useSpaces = on
	d.writes++
}

func scenarioRegistry() fakeRegistry {
	return fakeRegistry{"python": "Python", "c": "C"}
}
