package cmdutil

import (
	"fmt"
	"time"

	"github.com/pipeline-tools/component-finder/internal/cmdtypes"
	"github.com/pipeline-tools/component-finder/internal/config"
	"github.com/pipeline-tools/component-finder/internal/envfile"
	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/output"
	"github.com/pipeline-tools/component-finder/internal/pipeline"
	"github.com/pipeline-tools/component-finder/internal/version"
)

// RunOpts holds the inputs for RunPipeline.
type RunOpts struct {
	Root RootFlags
	Emit EmitFlags
	// Config is the global configuration loaded at startup.
	Config *cmdtypes.GlobalConfig
	// DryRun resolves without writing the env file.
	DryRun bool
	// Now supplies the run timestamp; nil means time.Now.
	Now func() time.Time
}

// RunPipeline executes the preamble shared by generate and vet: it resolves
// flags against env and config, validates the result, and runs the pipeline.
//
// On failure it prints the error and returns an *ExitError with Printed set.
// The Result is returned whenever the pipeline produced one, so a failed
// gate can still be reported.
func RunPipeline(opts RunOpts) (*pipeline.Result, error) {
	if opts.Config == nil {
		return nil, &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: fmt.Errorf("configuration not loaded")}
	}

	cfg, values := opts.Config.Resolve(config.Flags{
		Root:      opts.Root.Root,
		OutputDir: opts.Emit.OutputDir,
		Format:    opts.Emit.Format,
	})
	config.LogResolvedValues(values)

	validator, err := config.NewValidator()
	if err != nil {
		return nil, &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: err}
	}
	if err := validator.Validate(cfg); err != nil {
		PrintRunError(err)
		return nil, &oerrors.ExitError{Code: oerrors.ExitValidationError, Err: err, Printed: true}
	}

	format, err := envfile.ParseFormat(cfg.Format)
	if err != nil {
		PrintRunError(err)
		return nil, &oerrors.ExitError{Code: oerrors.ExitValidationError, Err: err, Printed: true}
	}

	output.Debug("running pipeline",
		"root", cfg.Root,
		"output-dir", cfg.OutputDir,
		"format", format,
		"dry-run", opts.DryRun,
	)

	result, err := pipeline.NewPipeline(opts.Now).Run(pipeline.Options{
		Root:      cfg.Root,
		Ignore:    cfg.Ignore,
		Reviewers: cfg.Reviewers,
		DryRun:    opts.DryRun,
		Env: envfile.Options{
			Dir:     cfg.OutputDir,
			Format:  format,
			Prefix:  cfg.VariablePrefix,
			Suffix:  cfg.Suffix(),
			Tool:    version.Name,
			Version: version.Version,
		},
	})
	if err != nil {
		PrintRunError(err)
		return result, &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
	}

	return result, nil
}
