package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/customindent/internal/storage"
)

func NewExportCmd(deps *Deps) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "print the settings in the settings file format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := storage.CodecByName(format)
			if err != nil {
				return err
			}
			store, err := deps.Store(cmd.Context())
			if err != nil {
				return err
			}
			data, err := codec.Encode(store.Snapshot())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format (toml or json)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
