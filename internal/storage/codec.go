package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/customindent/internal/indent"
)

// Codec encodes the preference mapping into a settings document.
type Codec interface {
	// Name returns the format name ("toml", "json").
	Name() string

	// Encode renders prefs at the current schema version.
	Encode(prefs map[indent.LanguageID]indent.Preference) ([]byte, error)

	// Decode parses a settings document. Errors wrap
	// indent.ErrMalformedStorage.
	Decode(source string, data []byte) (map[indent.LanguageID]indent.Preference, error)
}

// CodecFor returns the codec selected by the extension of path.
// Unknown extensions use TOML.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONCodec{}
	default:
		return TOMLCodec{}
	}
}

// CodecByName returns the codec called name.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "toml", "":
		return TOMLCodec{}, nil
	case "json":
		return JSONCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown settings format %q", name)
	}
}

// ParseError represents an error while decoding a settings document.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns both the malformed-storage sentinel and the decoder error.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{indent.ErrMalformedStorage}
	}
	return []error{indent.ErrMalformedStorage, e.Err}
}
