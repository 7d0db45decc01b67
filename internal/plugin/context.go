package plugin

import (
	"github.com/dshills/customindent/internal/indent"
	"github.com/dshills/customindent/internal/logging"
)

// Host is the part of the editor window the plugin drives.
type Host interface {
	indent.DocumentSet
	indent.ViewMutator
}

// Context carries the components shared by everything the plugin builds
// during one activation. It is created by Activate and passed to each
// controller; there is no package-level state.
type Context struct {
	Store    *indent.Store
	Applier  *indent.Applier
	Registry indent.LanguageRegistry
	Host     Host
	Logger   *logging.Logger
}
