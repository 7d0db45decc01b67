// Package indent implements the per-language indentation preference core.
//
// A Store maps each language id known to the host editor to a Preference
// (tab width and tabs-vs-spaces). It is loaded once when the plugin is
// activated, mutated by UI surfaces while the editor runs, and saved once when
// the plugin is deactivated.
//
// An Applier pushes stored preferences into the open documents of the host
// through the ViewMutator collaborator.
//
// # Access paths
//
// Preferences are keyed by LanguageID, the stable identifier of a grammar.
// UI surfaces work with LanguageName, the display string. The store keeps a
// derived name index rebuilt from the LanguageRegistry at every Load so that
// callers never translate names themselves:
//
//	pref, err := store.GetByName("Python")
//	if errors.Is(err, indent.ErrNotFound) {
//	    // unknown language
//	}
//
//	id, ok := store.ResolveID("Python") // never fails
//
// # Errors
//
// Storage failures are returned as *StorageError, which unwraps to either
// ErrStorageUnavailable or ErrMalformedStorage. They are fatal for the
// caller: the plugin aborts activation/deactivation, the CLI exits.
package indent
