// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and its sub-packages (internal/cmd/config).
package cmdtypes

import (
	"github.com/pipeline-tools/component-finder/internal/config"
	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// ConfigPath is the resolved --config path.
	ConfigPath string
	// ConfigSource tells where ConfigPath came from.
	ConfigSource config.ConfigSource
	// File is the configuration read from ConfigPath; empty if it is missing.
	File *config.Config
	// Env is the configuration read from CFINDER_* variables.
	Env *config.Config
	// Timestamps is the --timestamps flag when given.
	Timestamps *bool
	Verbose    bool
}

// Resolve merges command flags with the loaded layers.
func (g *GlobalConfig) Resolve(flags config.Flags) (*config.Config, []config.ResolvedValue) {
	if flags.Timestamps == nil {
		flags.Timestamps = g.Timestamps
	}
	return config.Resolve(config.ResolveOptions{Flags: flags, Env: g.Env, File: g.File})
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess          = oerrors.ExitSuccess
	ExitGeneralError     = oerrors.ExitGeneralError
	ExitValidationError  = oerrors.ExitValidationError
	ExitNotFound         = oerrors.ExitNotFound
	ExitWriteError       = oerrors.ExitWriteError
	ExitPermissionDenied = oerrors.ExitPermissionDenied
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError
