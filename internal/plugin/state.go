package plugin

// State represents the lifecycle state of a plugin.
type State int

// Plugin states.
const (
	// StateInactive - Plugin is constructed or deactivated.
	StateInactive State = iota

	// StateActivating - Plugin is loading settings.
	StateActivating

	// StateActive - Plugin is applying preferences.
	StateActive

	// StateDeactivating - Plugin is saving settings.
	StateDeactivating

	// StateError - Settings could not be loaded or saved.
	StateError
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	case StateDeactivating:
		return "deactivating"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// CanActivate returns true if Activate may be called in this state.
func (s State) CanActivate() bool {
	return s == StateInactive || s == StateError
}
