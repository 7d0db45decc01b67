package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/dshills/customindent/internal/indent"
	"github.com/dshills/customindent/internal/registry"
)

func NewListCmd(deps *Deps) *cobra.Command {
	var byName bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "list every language and its preference",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := deps.Store(cmd.Context())
			if err != nil {
				return err
			}

			ids := store.IDs()
			if byName {
				ids = idsByName(store)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tWIDTH\tINDENT")
			for _, id := range ids {
				p, err := store.Get(id)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", id, store.DisplayName(id), p.TabWidth, indentWord(p))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&byName, "by-name", "n", false, "sort by display name")
	return cmd
}

// idsByName returns the stored ids ordered by collated display name; ids
// without a registry name follow in id order.
func idsByName(store *indent.Store) []indent.LanguageID {
	names := store.Names()
	registry.SortNames(names, language.English)

	seen := make(map[indent.LanguageID]bool, len(names))
	ids := make([]indent.LanguageID, 0, len(names))
	for _, n := range names {
		if id, ok := store.ResolveID(n); ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range store.IDs() {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func indentWord(p indent.Preference) string {
	if p.UseSpaces {
		return "spaces"
	}
	return "tabs"
}
