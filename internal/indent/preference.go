package indent

import "fmt"

// Tab width bounds.
const (
	MinTabWidth = 1
	MaxTabWidth = 16
)

// Default preference values.
const (
	DefaultTabWidth  = 4
	DefaultUseSpaces = true
)

// LanguageID is the stable identifier of a language grammar.
// It is the only key used for persistence.
type LanguageID string

// LanguageName is the human-readable display name of a language.
type LanguageName string

// Preference is the indentation setting of one language.
// Values are immutable; updates replace the whole Preference.
type Preference struct {
	TabWidth  int
	UseSpaces bool
}

// DefaultPreference is applied to languages without a stored preference.
var DefaultPreference = Preference{TabWidth: DefaultTabWidth, UseSpaces: DefaultUseSpaces}

// NewPreference returns a validated preference.
func NewPreference(tabWidth int, useSpaces bool) (Preference, error) {
	p := Preference{TabWidth: tabWidth, UseSpaces: useSpaces}
	if err := p.Validate(); err != nil {
		return Preference{}, err
	}
	return p, nil
}

// Validate reports whether the tab width is within [MinTabWidth, MaxTabWidth].
func (p Preference) Validate() error {
	if p.TabWidth < MinTabWidth || p.TabWidth > MaxTabWidth {
		return fmt.Errorf("%w: tab width %d outside [%d,%d]", ErrInvalidPreference, p.TabWidth, MinTabWidth, MaxTabWidth)
	}
	return nil
}

// WithTabWidth returns a copy with the tab width replaced.
func (p Preference) WithTabWidth(width int) Preference {
	p.TabWidth = width
	return p
}

// WithUseSpaces returns a copy with the spaces flag replaced.
func (p Preference) WithUseSpaces(on bool) Preference {
	p.UseSpaces = on
	return p
}

// String renders the preference as "4 spaces" or "8 tabs".
func (p Preference) String() string {
	if p.UseSpaces {
		return fmt.Sprintf("%d spaces", p.TabWidth)
	}
	return fmt.Sprintf("%d tabs", p.TabWidth)
}
