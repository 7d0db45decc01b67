package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/customindent/internal/logging"
)

func NewSetCmd(deps *Deps) *cobra.Command {
	var (
		width  int
		spaces bool
		tabs   bool
	)

	cmd := &cobra.Command{
		Use:   "set <language>",
		Short: "change the preference of a language",
		Long: `change the preference of a language given by display name or id.
Unchanged fields keep their stored value.`,
		Example: "  customindent set Python --tab-width 4 --spaces",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := deps.Store(ctx)
			if err != nil {
				return err
			}
			id, err := resolve(store, args[0])
			if err != nil {
				return err
			}
			p, err := store.Get(id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("tab-width") {
				p = p.WithTabWidth(width)
			}
			switch {
			case cmd.Flags().Changed("spaces"):
				p = p.WithUseSpaces(spaces)
			case cmd.Flags().Changed("tabs"):
				p = p.WithUseSpaces(!tabs)
			}

			if err := store.SetFrom(id, p, cliSource); err != nil {
				return err
			}
			if err := deps.save(ctx); err != nil {
				return err
			}
			logging.FromContext(ctx).Debug("%s set to %s", id, p)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, p)
			return err
		},
	}

	cmd.Flags().IntVarP(&width, "tab-width", "w", 0, "tab width (1-16)")
	cmd.Flags().BoolVar(&spaces, "spaces", false, "indent with spaces")
	cmd.Flags().BoolVar(&tabs, "tabs", false, "indent with tabs")
	cmd.MarkFlagsMutuallyExclusive("spaces", "tabs")
	cmd.MarkFlagsOneRequired("tab-width", "spaces", "tabs")

	return cmd
}
