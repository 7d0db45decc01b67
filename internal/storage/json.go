package storage

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/customindent/internal/indent"
)

// JSONCodec reads and writes the JSON form of the settings document:
//
//	{"version": "1.0.0", "languages": {"python": {"tab_width": 2, "use_spaces": true}}}
type JSONCodec struct{}

// Name returns "json".
func (JSONCodec) Name() string { return "json" }

// Encode renders prefs as indented JSON with languages in id order.
func (JSONCodec) Encode(prefs map[indent.LanguageID]indent.Preference) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "version", SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	out, err = sjson.SetRawBytes(out, "languages", []byte(`{}`))
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	for _, id := range sortedIDs(prefs) {
		p := prefs[id]
		base := "languages." + escapePath(string(id))
		if out, err = sjson.SetBytes(out, base+".tab_width", p.TabWidth); err != nil {
			return nil, fmt.Errorf("encoding %q: %w", id, err)
		}
		if out, err = sjson.SetBytes(out, base+".use_spaces", p.UseSpaces); err != nil {
			return nil, fmt.Errorf("encoding %q: %w", id, err)
		}
	}
	return pretty.Pretty(out), nil
}

// Decode parses a JSON settings document.
func (JSONCodec) Decode(source string, data []byte) (map[indent.LanguageID]indent.Preference, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: source, Message: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ParseError{Path: source, Message: "settings must be a JSON object"}
	}

	doc := document{Languages: make(map[string]record)}
	if v := root.Get("version"); v.Type == gjson.String {
		doc.Version = v.String()
	}

	langs := root.Get("languages")
	if langs.Exists() && !langs.IsObject() {
		return nil, &ParseError{Path: source, Message: "languages must be an object"}
	}

	var bad error
	langs.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		var rec record
		if w := value.Get("tab_width"); w.Type == gjson.Number {
			if w.Num != float64(int64(w.Num)) {
				bad = &ParseError{Path: source, Message: fmt.Sprintf("language %q: tab_width must be an integer", id)}
				return false
			}
			width := int(w.Int())
			rec.TabWidth = &width
		}
		if s := value.Get("use_spaces"); s.IsBool() {
			spaces := s.Bool()
			rec.UseSpaces = &spaces
		}
		doc.Languages[id] = rec
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return doc.toPreferences()
}

// escapePath escapes the gjson/sjson path metacharacters in a key.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
