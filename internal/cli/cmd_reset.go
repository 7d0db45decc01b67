package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewResetCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <language>",
		Short: "restore the default preference of a language",
		Args:  cobra.ExactArgs(1),
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
			if err := store.Reset(id); err != nil {
				return err
			}
			if err := deps.save(ctx); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, store.Defaults())
			return err
		},
	}
}
