package indent

import (
	"errors"
	"fmt"
)

// Preference store errors.
var (
	// ErrNotFound is returned when a language id or name is not in the store.
	ErrNotFound = errors.New("language not found")

	// ErrInvalidPreference is returned for a tab width outside [1,16].
	ErrInvalidPreference = errors.New("invalid preference")

	// ErrStorageUnavailable is returned when persisted settings cannot be
	// opened for reading or writing.
	ErrStorageUnavailable = errors.New("settings storage unavailable")

	// ErrMalformedStorage is returned when persisted settings exist but
	// cannot be decoded.
	ErrMalformedStorage = errors.New("malformed settings storage")
)

// Storage operations reported by StorageError.
const (
	OpLoad = "load"
	OpSave = "save"
)

// StorageError reports a failed load or save of persisted preferences.
type StorageError struct {
	Op       string // OpLoad or OpSave
	Location string // file path or table the backend reported
	Err      error  // wraps ErrStorageUnavailable or ErrMalformedStorage
}

func (e *StorageError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("failed to %s settings", e.Op)
	if e.Location != "" {
		msg += " (" + e.Location + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsStorageError reports whether err is a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// notFound wraps ErrNotFound with the key that was looked up.
func notFound[K ~string](key K) error {
	return fmt.Errorf("%w: %q", ErrNotFound, string(key))
}
