package registry

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dshills/customindent/internal/indent"
)

// SortNames sorts names for display using the collation rules of tag,
// ignoring case, so "C#", "c++" and "CMake" sort the way a user expects.
func SortNames(names []indent.LanguageName, tag language.Tag) {
	strs := make([]string, len(names))
	for i, n := range names {
		strs[i] = string(n)
	}
	collate.New(tag, collate.IgnoreCase).SortStrings(strs)
	for i, s := range strs {
		names[i] = indent.LanguageName(s)
	}
}
