// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	configcmd "github.com/pipeline-tools/component-finder/internal/cmd/config"
	"github.com/pipeline-tools/component-finder/internal/cmdtypes"
	"github.com/pipeline-tools/component-finder/internal/config"
	"github.com/pipeline-tools/component-finder/internal/output"
	"github.com/pipeline-tools/component-finder/internal/version"
)

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	config     string
	verbose    bool
	timestamps bool
}

// NewRootCmd creates the root command for component-finder. Running it
// without a sub-command generates the env file.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cfg := &cmdtypes.GlobalConfig{}
	gen := &generateOptions{}

	rootCmd := &cobra.Command{
		Use:   version.Name,
		Short: "Resolve the latest validated component releases",
		Long: `component-finder scans a shared components tree laid out as
<root>/<Component>/<SemVer>/release.json, validates every release against the
embedded release schema and writes a dated env file mapping each component to
its newest release folder.

One invalid release anywhere fails the run and nothing is written.

Running component-finder without a sub-command is the same as
'component-finder generate'.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, flags, cfg)
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return runGenerate(c, gen, cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "",
		fmt.Sprintf("Path to config file (env: %s)", config.ConfigEnvVar))
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")

	gen.addFlags(rootCmd)

	rootCmd.AddCommand(NewGenerateCmd(cfg))
	rootCmd.AddCommand(NewVetCmd(cfg))
	rootCmd.AddCommand(NewVersionCmd(cfg))
	rootCmd.AddCommand(configcmd.NewConfigCmd(cfg))

	return rootCmd
}

// initializeGlobals loads the config layers into cfg and sets up logging.
func initializeGlobals(c *cobra.Command, flags *rootFlags, cfg *cmdtypes.GlobalConfig) error {
	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: flags.config,
	})
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: fmt.Errorf("resolving config path: %w", err)}
	}

	loader := config.NewLoader()
	file, err := loader.Load(pathResult.ConfigPath)
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: err}
	}
	env, err := loader.Env()
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: err}
	}

	cfg.ConfigPath = pathResult.ConfigPath
	cfg.ConfigSource = pathResult.Source
	cfg.File = file
	cfg.Env = env
	cfg.Verbose = flags.verbose
	if c.Flags().Changed("timestamps") {
		cfg.Timestamps = output.BoolPtr(flags.timestamps)
	}

	// Timestamps: flag (if explicitly set) > env > config > default (true).
	resolved, _ := cfg.Resolve(config.Flags{})
	output.SetupLogging(output.LogConfig{
		Verbose:    flags.verbose,
		Timestamps: resolved.Log.Timestamps,
	})

	output.Debug("initializing CLI",
		"version", version.Version,
		"config", pathResult.ConfigPath,
		"config-source", pathResult.Source,
	)

	return nil
}
