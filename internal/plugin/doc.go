// Package plugin connects the preference store to a host editor.
//
// The host constructs one Plugin per window and forwards three kinds of
// signals to it:
//
//	p := plugin.New(cfg, window)
//	if err := p.Activate(ctx); err != nil {
//	    // settings could not be loaded; the plugin is in StateError
//	}
//	defer p.Deactivate(ctx)
//
//	window.OnLoaded(func(d *host.Document) { p.DocumentLoaded(d) })
//	p.Dispatch(plugin.SurfaceStatusBar, plugin.TabWidthSelected{Width: 2})
//
// Activation loads the settings, runs the user's init script and applies
// preferences to every open document. Deactivation saves the settings.
//
// # Surfaces
//
// Each UI surface that edits preferences (the configuration dialog and the
// status bar) has a Controller. The UI layer reports what the user did as a
// typed Event; the controller updates the store and applies the result to
// the open documents of the affected language.
//
// Controls echo values set programmatically as if the user had changed
// them. A controller therefore swallows the next event from every control
// whose displayed value it changed during a refresh. Controls whose value
// did not change are left alone, since they fire no event.
//
// # Concurrency
//
// Dispatch, DocumentLoaded and registry reloads run one at a time, each
// finishing its store update and its apply before the next starts. A
// registry reload runs on the watcher goroutine, so refresh handlers may be
// called off the UI thread. Refresh handlers run inside the event that
// caused them: echoes they trigger must reach Dispatch after the handler
// returns.
package plugin
