package host

import (
	"errors"
	"sync"

	"github.com/dshills/customindent/internal/indent"
)

// ErrDocumentNotFound indicates a document was not found.
var ErrDocumentNotFound = errors.New("document not found")

// LoadedHandler is called after a document has been added to the window.
type LoadedHandler func(doc *Document)

// Window manages the open documents of one editor window and their views.
// It implements indent.DocumentSet and indent.ViewMutator.
type Window struct {
	mu        sync.RWMutex
	documents map[string]*Document // id -> document
	order     []string             // open order
	active    *Document
	onLoaded  []LoadedHandler
}

// NewWindow creates an empty window.
func NewWindow() *Window {
	return &Window{
		documents: make(map[string]*Document),
		order:     make([]string, 0),
	}
}

// OnLoaded registers a handler for newly added documents.
func (w *Window) OnLoaded(h LoadedHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onLoaded = append(w.onLoaded, h)
}

// Open adds a document for path and makes it active. The file is not read.
func (w *Window) Open(path string) *Document {
	doc := NewDocument(path)
	w.Add(doc)
	return doc
}

// OpenScratch adds an untitled document and makes it active.
func (w *Window) OpenScratch() *Document {
	doc := NewScratchDocument()
	w.Add(doc)
	return doc
}

// Add inserts doc, makes it active and runs the loaded handlers outside
// the window lock.
func (w *Window) Add(doc *Document) {
	w.mu.Lock()
	if _, exists := w.documents[doc.ID]; !exists {
		w.documents[doc.ID] = doc
		w.order = append(w.order, doc.ID)
	}
	w.active = doc
	handlers := make([]LoadedHandler, len(w.onLoaded))
	copy(handlers, w.onLoaded)
	w.mu.Unlock()

	for _, h := range handlers {
		h(doc)
	}
}

// Close removes a document by id.
func (w *Window) Close(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, exists := w.documents[id]
	if !exists {
		return ErrDocumentNotFound
	}
	delete(w.documents, id)

	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}

	if w.active == doc {
		if len(w.order) > 0 {
			w.active = w.documents[w.order[len(w.order)-1]]
		} else {
			w.active = nil
		}
	}
	return nil
}

// Get returns a document by id.
func (w *Window) Get(id string) (*Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	doc, ok := w.documents[id]
	return doc, ok
}

// Active returns the active document, or nil.
func (w *Window) Active() *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active
}

// SetActive sets the active document by id.
func (w *Window) SetActive(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, ok := w.documents[id]
	if !ok {
		return ErrDocumentNotFound
	}
	w.active = doc
	return nil
}

// All returns all open documents in open order.
func (w *Window) All() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()

	docs := make([]*Document, 0, len(w.order))
	for _, id := range w.order {
		docs = append(docs, w.documents[id])
	}
	return docs
}

// Count returns the number of open documents.
func (w *Window) Count() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.documents)
}

// Documents implements indent.DocumentSet.
func (w *Window) Documents() []indent.Document {
	all := w.All()
	docs := make([]indent.Document, len(all))
	for i, d := range all {
		docs[i] = d
	}
	return docs
}

// SetTabWidth implements indent.ViewMutator. Documents of another host are
// ignored.
func (w *Window) SetTabWidth(doc indent.Document, width int) {
	if d, ok := doc.(*Document); ok {
		d.setTabWidth(width)
	}
}

// SetInsertSpaces implements indent.ViewMutator.
func (w *Window) SetInsertSpaces(doc indent.Document, on bool) {
	if d, ok := doc.(*Document); ok {
		d.setInsertSpaces(on)
	}
}

var (
	_ indent.DocumentSet = (*Window)(nil)
	_ indent.ViewMutator = (*Window)(nil)
)
