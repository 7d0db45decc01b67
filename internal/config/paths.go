package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// AppName names the per-user config and data directories.
const AppName = "customindent"

// DataDir returns $XDG_DATA_HOME, or ~/.local/share.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(home(), ".local", "share")
}

// ConfigDir returns $XDG_CONFIG_HOME, or ~/.config.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(home(), ".config")
}

// DefaultSettingsPath is <data-dir>/customindent/settings.toml.
func DefaultSettingsPath() string {
	return filepath.Join(DataDir(), AppName, "settings.toml")
}

// DefaultConfigPath is <config-dir>/customindent/config.toml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), AppName, "config.toml")
}

// ExpandPath expands a leading "~" and environment variables.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return homedir.Expand(os.ExpandEnv(path))
}

func home() string {
	dir, err := homedir.Dir()
	if err != nil {
		return "."
	}
	return dir
}
