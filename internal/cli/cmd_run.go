package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/customindent/internal/logging"
	plua "github.com/dshills/customindent/internal/plugin/lua"
)

func NewRunCmd(deps *Deps) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <script.lua>",
		Short: "run a Lua script against the settings and save them",
		Long: `run a Lua script with the indent table installed, then save the
settings. The script's print output goes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := deps.Store(ctx)
			if err != nil {
				return err
			}

			state, err := plua.NewState(
				plua.WithOutput(cmd.OutOrStdout()),
				plua.WithLogger(logging.FromContext(ctx)),
			)
			if err != nil {
				return err
			}
			defer state.Close()

			if err := plua.NewModule(store, nil).Register(state); err != nil {
				return err
			}
			if err := state.DoFile(args[0]); err != nil {
				return err
			}
			if dryRun {
				return nil
			}
			return deps.save(ctx)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "do not save the settings")
	return cmd
}
