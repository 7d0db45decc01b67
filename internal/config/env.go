package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every recognised environment variable.
const EnvPrefix = "CUSTOMINDENT_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envVars lists the recognised environment variables, without the prefix.
var envVars = []string{
	"BACKEND",
	"SETTINGS",
	"LANGUAGES",
	"WATCH_LANGUAGES",
	"TAB_WIDTH",
	"USE_SPACES",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"INIT_SCRIPT",
	"DYNAMODB_TABLE",
	"DYNAMODB_REGION",
	"DYNAMODB_ENDPOINT",
	"PROFILE",
}

// EnvVars returns the recognised environment variable names.
func EnvVars() []string {
	names := make([]string, len(envVars))
	for i, v := range envVars {
		names[i] = EnvPrefix + v
	}
	return names
}

// ApplyEnv overrides cfg with the environment variables lookup reports.
// Empty values are treated as set.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	for _, name := range envVars {
		val, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := setEnv(cfg, name, val); err != nil {
			return fmt.Errorf("environment variable %s%s=%q: %w", EnvPrefix, name, val, err)
		}
	}
	return nil
}

func setEnv(cfg *Config, name, v string) error {
	var err error
	switch name {
	case "BACKEND":
		cfg.Storage.Backend = strings.ToLower(v)
	case "SETTINGS":
		cfg.Storage.Path = v
	case "LANGUAGES":
		cfg.Registry.Path = v
	case "WATCH_LANGUAGES":
		cfg.Registry.Watch, err = parseBool(v)
	case "TAB_WIDTH":
		cfg.Defaults.TabWidth, err = strconv.Atoi(v)
	case "USE_SPACES":
		cfg.Defaults.UseSpaces, err = parseBool(v)
	case "LOG_LEVEL":
		cfg.Logging.Level = v
	case "LOG_FORMAT":
		cfg.Logging.Format = v
	case "INIT_SCRIPT":
		cfg.Scripts.Init = v
	case "DYNAMODB_TABLE":
		cfg.Storage.DynamoDB.Table = v
	case "DYNAMODB_REGION":
		cfg.Storage.DynamoDB.Region = v
	case "DYNAMODB_ENDPOINT":
		cfg.Storage.DynamoDB.Endpoint = v
	case "PROFILE":
		cfg.Storage.DynamoDB.Profile = v
	}
	return err
}

// parseBool accepts the spellings shell users tend to write.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean")
	}
}
