package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/customindent/internal/indent"
	"github.com/dshills/customindent/internal/logging"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendDynamoDB = "dynamodb"
)

// Config is the plugin configuration.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Defaults DefaultsConfig `toml:"defaults"`
	Registry RegistryConfig `toml:"registry"`
	Logging  LoggingConfig  `toml:"logging"`
	Scripts  ScriptsConfig  `toml:"scripts"`
}

// StorageConfig selects where preferences are persisted.
type StorageConfig struct {
	// Backend is "file" or "dynamodb". Empty selects the file backend.
	Backend string `toml:"backend"`

	// Path is the settings file for the file backend. "~" is expanded.
	Path string `toml:"path"`

	// DynamoDB configures the dynamodb backend.
	DynamoDB DynamoDBConfig `toml:"dynamodb"`
}

// DynamoDBConfig configures the DynamoDB backend.
type DynamoDBConfig struct {
	Table    string `toml:"table"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
	Profile  string `toml:"profile"`
}

// DefaultsConfig is the preference given to languages without one.
type DefaultsConfig struct {
	TabWidth  int  `toml:"tab_width"`
	UseSpaces bool `toml:"use_spaces"`
}

// Preference returns the defaults as an indent.Preference.
func (d DefaultsConfig) Preference() indent.Preference {
	return indent.Preference{TabWidth: d.TabWidth, UseSpaces: d.UseSpaces}
}

// RegistryConfig configures the language registry file.
type RegistryConfig struct {
	// Path is a YAML language list. Empty uses the host registry or the
	// built-in list.
	Path string `toml:"path"`

	// Watch reloads the registry when the file changes.
	Watch bool `toml:"watch"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

// ScriptsConfig configures user Lua scripts.
type ScriptsConfig struct {
	// Init is run after the store is loaded at activation.
	Init string `toml:"init"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    DefaultSettingsPath(),
			DynamoDB: DynamoDBConfig{
				Table:   "customindent-preferences",
				Region:  "us-east-1",
				Profile: "default",
			},
		},
		Defaults: DefaultsConfig{
			TabWidth:  indent.DefaultTabWidth,
			UseSpaces: indent.DefaultUseSpaces,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns the default configuration overlaid with the TOML file at
// path and then with CUSTOMINDENT_* environment variables. A missing file is
// not an error. An empty path uses DefaultConfigPath.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath()
	}
	path, err := ExpandPath(path)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, &ParseError{Path: path, Err: err}
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	default:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.normalize(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// normalize expands "~" in paths.
func (c *Config) normalize() error {
	var err error
	if c.Storage.Path, err = ExpandPath(c.Storage.Path); err != nil {
		return err
	}
	if c.Registry.Path, err = ExpandPath(c.Registry.Path); err != nil {
		return err
	}
	if c.Scripts.Init, err = ExpandPath(c.Scripts.Init); err != nil {
		return err
	}
	return nil
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	var errs []error

	switch c.Storage.Backend {
	case BackendFile, "":
		if c.Storage.Path == "" {
			errs = append(errs, &ValidationError{Field: "storage.path", Message: "required for the file backend"})
		}
	case BackendDynamoDB:
		if c.Storage.DynamoDB.Table == "" {
			errs = append(errs, &ValidationError{Field: "storage.dynamodb.table", Message: "required for the dynamodb backend"})
		}
	default:
		errs = append(errs, &ValidationError{Field: "storage.backend", Message: fmt.Sprintf("unknown backend %q", c.Storage.Backend)})
	}

	if err := c.Defaults.Preference().Validate(); err != nil {
		errs = append(errs, &ValidationError{Field: "defaults.tab_width", Message: err.Error()})
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, &ValidationError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)})
	}

	return errors.Join(errs...)
}

// LoggerConfig converts the logging section for logging.New.
func (c Config) LoggerConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(c.Logging.Level)
	lc.JSON = strings.EqualFold(c.Logging.Format, "json")
	return lc
}
