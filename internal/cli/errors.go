package cli

import (
	"errors"

	"github.com/dshills/customindent/internal/indent"
)

// renderError turns err into the line printed before exiting. Storage
// failures are reported as "failed to load settings" or "failed to save
// settings" whatever wrapped them.
func renderError(err error) string {
	var serr *indent.StorageError
	if errors.As(err, &serr) {
		return serr.Error()
	}
	return "error: " + err.Error()
}
