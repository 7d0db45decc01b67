package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/customindent/internal/host"
	"github.com/dshills/customindent/internal/indent"
	"github.com/dshills/customindent/internal/logging"
)

func NewSimulateCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <language|file>...",
		Short: "open documents in a simulated window and show their indentation",
		Long: `open one document per argument in an in-memory window and print the
view state the settings give it. An argument naming a language opens an
untitled document of that language; anything else is treated as a file name
and its language is detected from the extension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := deps.Store(cmd.Context())
			if err != nil {
				return err
			}

			win := host.NewWindow()
			applier := indent.NewApplier(store, win, win, indent.WithApplierLogger(logging.FromContext(cmd.Context())))
			win.OnLoaded(func(doc *host.Document) {
				applier.ApplyToDocument(doc)
			})

			for _, arg := range args {
				if id, ok := store.Resolve(arg); ok {
					doc := host.NewScratchDocument()
					doc.Name = arg
					doc.SetLanguage(id)
					win.Add(doc)
					continue
				}
				win.Open(arg)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DOCUMENT\tLANGUAGE\tWIDTH\tINDENT")
			for _, doc := range win.All() {
				lang := "-"
				if id, ok := doc.Language(); ok {
					lang = string(id)
				}
				v := doc.View()
				word := "tabs"
				if v.InsertSpaces {
					word = "spaces"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", doc.Name, lang, v.TabWidth, word)
			}
			return w.Flush()
		},
	}
}
