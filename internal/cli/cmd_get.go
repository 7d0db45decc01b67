package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewGetCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "get <language>",
		Short: "show the preference of a language",
		Long:  "show the preference of a language given by display name or id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := deps.Store(cmd.Context())
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
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s\n", id, store.DisplayName(id), p)
			return err
		},
	}
}
