package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/customindent/internal/config"
	"github.com/dshills/customindent/internal/indent"
	"github.com/dshills/customindent/internal/logging"
	"github.com/dshills/customindent/internal/registry"
	"github.com/dshills/customindent/internal/storage"
)

// cliSource is the change source of edits made from the command line.
const cliSource = "cli"

// Deps carries the flags and the components built from them.
type Deps struct {
	Streams Streams

	ConfigPath    string
	SettingsPath  string
	LanguagesPath string
	LogLevel      string

	Config   config.Config
	Logger   *logging.Logger
	Registry indent.LanguageRegistry
	Backend  indent.Backend

	store *indent.Store
}

// NewRootCmd builds the root command. Its PersistentPreRunE loads the
// configuration, applies the global flags and opens the registry and the
// storage backend. Settings are loaded by the commands that need them.
func NewRootCmd(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = &Deps{Streams: OSStreams()}
	}

	cmd := &cobra.Command{
		Use:           "customindent",
		Short:         "edit per-language indentation preferences",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.setup(cmd.Context()); err != nil {
				return err
			}
			cmd.SetContext(logging.WithContext(cmd.Context(), deps.Logger))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&deps.ConfigPath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().StringVar(&deps.SettingsPath, "settings", "", "path to the settings file (file backend)")
	cmd.PersistentFlags().StringVar(&deps.LanguagesPath, "languages", "", "path to a YAML language list")
	cmd.PersistentFlags().StringVar(&deps.LogLevel, "log-level", "", "minimum log level")

	cmd.AddCommand(
		NewListCmd(deps),
		NewGetCmd(deps),
		NewSetCmd(deps),
		NewResetCmd(deps),
		NewPathCmd(deps),
		NewExportCmd(deps),
		NewRunCmd(deps),
		NewSimulateCmd(deps),
	)

	return cmd
}

func (d *Deps) setup(ctx context.Context) error {
	cfg, err := config.Load(d.ConfigPath)
	if err != nil {
		return err
	}

	if d.SettingsPath != "" {
		cfg.Storage.Backend = config.BackendFile
		if cfg.Storage.Path, err = config.ExpandPath(d.SettingsPath); err != nil {
			return err
		}
	}
	if d.LanguagesPath != "" {
		if cfg.Registry.Path, err = config.ExpandPath(d.LanguagesPath); err != nil {
			return err
		}
	}
	if d.LogLevel != "" {
		cfg.Logging.Level = d.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.Config = cfg

	lc := cfg.LoggerConfig()
	lc.Output = d.Streams.Err
	d.Logger = logging.New(lc).WithComponent("cli")

	if d.Registry == nil {
		if cfg.Registry.Path != "" {
			if d.Registry, err = registry.LoadFile(cfg.Registry.Path); err != nil {
				return err
			}
		} else {
			d.Registry = registry.Builtin()
		}
	}

	if d.Backend == nil {
		if d.Backend, err = storage.Open(ctx, cfg.Storage); err != nil {
			return err
		}
	}
	return nil
}

// Store loads the settings on first use.
func (d *Deps) Store(ctx context.Context) (*indent.Store, error) {
	if d.store != nil {
		return d.store, nil
	}
	s := indent.NewStore(d.Backend, d.Registry,
		indent.WithDefaults(d.Config.Defaults.Preference()),
		indent.WithLogger(d.Logger),
	)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	d.store = s
	return s, nil
}

// save writes the settings back.
func (d *Deps) save(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	return d.store.Save(ctx)
}

// resolve returns the id of a language given by display name or id.
func resolve(s *indent.Store, key string) (indent.LanguageID, error) {
	id, ok := s.Resolve(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", indent.ErrNotFound, key)
	}
	return id, nil
}
