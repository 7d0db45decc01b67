// Package config provides the configuration of the customindent plugin.
//
// Configuration is resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (CLI only)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← CUSTOMINDENT_*
//	├─────────────────────────────┤
//	│  2. User Config File        │  ← ~/.config/customindent/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// A config file looks like:
//
//	[storage]
//	backend = "file"
//	path = "~/.local/share/customindent/settings.toml"
//
//	[defaults]
//	tab_width = 4
//	use_spaces = true
//
//	[registry]
//	path = "~/.config/customindent/languages.yaml"
//	watch = true
//
//	[logging]
//	level = "debug"
//
// The per-language preferences themselves are not configuration; they live
// in the settings file owned by the preference store.
package config
