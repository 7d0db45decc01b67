package indent

import "context"

// LanguageRegistry enumerates the languages known to the host editor.
type LanguageRegistry interface {
	// LanguageIDs returns every language id the host knows about.
	LanguageIDs() []LanguageID

	// DisplayName returns the display name of id.
	DisplayName(id LanguageID) LanguageName
}

// Document is a handle to one open document of the host.
type Document interface {
	// Language returns the document's language id, or false when the
	// document has no language assigned.
	Language() (LanguageID, bool)
}

// DocumentSet lists the documents currently open in the host.
type DocumentSet interface {
	Documents() []Document
}

// ViewMutator changes the editing view of a document.
type ViewMutator interface {
	SetTabWidth(doc Document, width int)
	SetInsertSpaces(doc Document, on bool)
}

// Backend persists the preference mapping.
type Backend interface {
	// Load returns the persisted mapping. found is false, with a nil error,
	// when nothing has been persisted yet. Errors should wrap
	// ErrStorageUnavailable or ErrMalformedStorage.
	Load(ctx context.Context) (prefs map[LanguageID]Preference, found bool, err error)

	// Save overwrites the persisted mapping.
	Save(ctx context.Context, prefs map[LanguageID]Preference) error

	// Location describes where preferences are stored, for messages.
	Location() string
}
