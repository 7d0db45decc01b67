package plugin

import "errors"

// Plugin errors.
var (
	// ErrNotActive is returned when using a plugin that is not active.
	ErrNotActive = errors.New("plugin is not active")

	// ErrAlreadyActive is returned when activating an active plugin.
	ErrAlreadyActive = errors.New("plugin is already active")

	// ErrUnknownSurface is returned when dispatching to a surface the
	// plugin has no controller for.
	ErrUnknownSurface = errors.New("unknown surface")

	// ErrUnknownEvent is returned for an event type a controller does not
	// handle.
	ErrUnknownEvent = errors.New("unknown event")
)
