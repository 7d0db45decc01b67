package plugin

import "github.com/dshills/customindent/internal/indent"

// Surface identifies a UI surface that edits preferences.
type Surface int

// Surfaces.
const (
	// SurfaceDialog is the configuration dialog. It lists every stored
	// language id and does not follow the active document.
	SurfaceDialog Surface = iota

	// SurfaceStatusBar holds the language selector and the tab width
	// selector of the window's status bar. It follows the most recently
	// loaded document.
	SurfaceStatusBar
)

// String returns the surface name, also used as the change source.
func (s Surface) String() string {
	switch s {
	case SurfaceDialog:
		return "dialog"
	case SurfaceStatusBar:
		return "statusbar"
	default:
		return "unknown"
	}
}

// Event is something the user did on a surface, or a document the host
// added to the window. The set of events is closed.
type Event interface {
	event()
}

// LanguageSelected reports a choice in a language selector. Name may be a
// display name or an id.
type LanguageSelected struct {
	Name indent.LanguageName
}

// TabWidthSelected reports a new value of a tab width control.
type TabWidthSelected struct {
	Width int
}

// SpacesToggled reports a new state of an insert-spaces control.
type SpacesToggled struct {
	On bool
}

// DocumentAdded reports a newly loaded document. Surfaces that follow the
// active document refresh to its language.
type DocumentAdded struct {
	Doc indent.Document
}

func (LanguageSelected) event() {}
func (TabWidthSelected) event() {}
func (SpacesToggled) event()    {}
func (DocumentAdded) event()    {}
