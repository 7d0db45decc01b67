package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/customindent/internal/config"
)

func NewPathCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "show where settings and configuration are read from",
		Long: `show where settings, configuration and languages are read from, and
list the environment variables that override the configuration.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := deps.ConfigPath
			if cfgPath == "" {
				cfgPath = config.DefaultConfigPath()
			}
			langs := deps.Config.Registry.Path
			if langs == "" {
				langs = "(built-in)"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "settings:  %s\n", deps.Backend.Location())
			fmt.Fprintf(out, "config:    %s\n", cfgPath)
			fmt.Fprintf(out, "languages: %s\n", langs)
			for _, name := range config.EnvVars() {
				if v, ok := os.LookupEnv(name); ok {
					fmt.Fprintf(out, "env:       %s=%s\n", name, v)
				}
			}
			return nil
		},
	}
}
