package storage

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/customindent/internal/indent"
)

// TOMLCodec reads and writes the TOML settings document:
//
//	version = "1.0.0"
//
//	[languages.python]
//	tab_width = 2
//	use_spaces = true
type TOMLCodec struct{}

// Name returns "toml".
func (TOMLCodec) Name() string { return "toml" }

// Encode renders prefs as TOML.
func (TOMLCodec) Encode(prefs map[indent.LanguageID]indent.Preference) ([]byte, error) {
	data, err := toml.Marshal(newDocument(prefs))
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	return data, nil
}

// Decode parses a TOML settings document.
func (TOMLCodec) Decode(source string, data []byte) (map[indent.LanguageID]indent.Preference, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return doc.toPreferences()
}
