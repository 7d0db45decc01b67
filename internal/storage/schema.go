package storage

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/dshills/customindent/internal/indent"
)

// SchemaVersion is written into every settings document.
const SchemaVersion = "1.0.0"

// supportedSchema accepts every document of the current major version.
var supportedSchema = mustConstraint("^1")

func mustConstraint(c string) *semver.Constraints {
	cons, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return cons
}

// document is the on-disk settings record.
type document struct {
	Version   string            `toml:"version" json:"version"`
	Languages map[string]record `toml:"languages" json:"languages"`
}

// record is the persisted preference of one language. Pointers let
// decoding tell a missing field from a zero value.
type record struct {
	TabWidth  *int  `toml:"tab_width" json:"tab_width"`
	UseSpaces *bool `toml:"use_spaces" json:"use_spaces"`
}

// checkVersion validates the schema version of a decoded document.
func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("%w: missing version", indent.ErrMalformedStorage)
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: invalid version %q: %v", indent.ErrMalformedStorage, v, err)
	}
	if !supportedSchema.Check(ver) {
		return fmt.Errorf("%w: unsupported version %s (want %s)", indent.ErrMalformedStorage, ver, supportedSchema)
	}
	return nil
}

// toPreferences validates a decoded document and converts it.
func (d document) toPreferences() (map[indent.LanguageID]indent.Preference, error) {
	if err := checkVersion(d.Version); err != nil {
		return nil, err
	}

	prefs := make(map[indent.LanguageID]indent.Preference, len(d.Languages))
	for id, rec := range d.Languages {
		if rec.TabWidth == nil || rec.UseSpaces == nil {
			return nil, fmt.Errorf("%w: language %q: missing field", indent.ErrMalformedStorage, id)
		}
		p, err := indent.NewPreference(*rec.TabWidth, *rec.UseSpaces)
		if err != nil {
			return nil, fmt.Errorf("%w: language %q: %v", indent.ErrMalformedStorage, id, err)
		}
		prefs[indent.LanguageID(id)] = p
	}
	return prefs, nil
}

// newDocument builds the record for prefs at the current schema version.
func newDocument(prefs map[indent.LanguageID]indent.Preference) document {
	d := document{
		Version:   SchemaVersion,
		Languages: make(map[string]record, len(prefs)),
	}
	for id, p := range prefs {
		width, spaces := p.TabWidth, p.UseSpaces
		d.Languages[string(id)] = record{TabWidth: &width, UseSpaces: &spaces}
	}
	return d
}

// sortedIDs returns the keys of prefs in a stable order.
func sortedIDs(prefs map[indent.LanguageID]indent.Preference) []indent.LanguageID {
	ids := make([]indent.LanguageID, 0, len(prefs))
	for id := range prefs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
