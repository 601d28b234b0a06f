package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipeline-tools/component-finder/internal/cmdtypes"
	"github.com/pipeline-tools/component-finder/internal/config"
	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the component-finder configuration file against the embedded
CUE schema.

The config path is resolved using precedence:
  --config flag > CFINDER_CONFIG env > ~/.component-finder/config.yaml

Examples:
  # Validate default configuration
  component-finder config vet

  # Validate custom config path
  component-finder config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigVet(cfg)
		},
	}
}

func runConfigVet(cfg *cmdtypes.GlobalConfig) error {
	path, err := config.ExpandPath(cfg.ConfigPath)
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not determine config path")
	}

	output.Debug("validating config", "path", path, "source", cfg.ConfigSource)

	exists, err := config.ConfigFileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if !exists {
		return oerrors.NewNotFoundError("configuration file not found", path,
			"Run 'component-finder config init' to create default configuration")
	}

	validator, err := config.NewValidator()
	if err != nil {
		return fmt.Errorf("creating validator: %w", err)
	}

	if err := validator.ValidateFile(path); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			output.Error("config validation failed", "file", path)
			for _, e := range verrs {
				output.Details(fmt.Sprintf("  %s: %s", e.Field, e.Message))
			}
			return &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: err, Printed: true}
		}
		return fmt.Errorf("validating config: %w", err)
	}

	output.Println("Configuration is valid: " + path)
	return nil
}
