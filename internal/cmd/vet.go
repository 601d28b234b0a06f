package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pipeline-tools/component-finder/internal/cmdtypes"
	"github.com/pipeline-tools/component-finder/internal/cmdutil"
	"github.com/pipeline-tools/component-finder/internal/output"
)

// vetOptions holds the flags of the vet command.
type vetOptions struct {
	root   cmdutil.RootFlags
	report cmdutil.ReportFlags

	now func() time.Time
}

// NewVetCmd creates the vet command.
func NewVetCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	opts := &vetOptions{}

	c := &cobra.Command{
		Use:   "vet",
		Short: "Validate all releases without writing the env file",
		Long: `Run the release gate and print the resolved mapping. Nothing is written.

The report goes to stdout; logs and diagnostics go to stderr. The exit code is
the same as generate would return for the tree.

Examples:
  # Check the default root
  component-finder vet

  # Machine-readable report
  component-finder vet --root /srv/components -o json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runVet(c, opts, cfg)
		},
	}

	opts.root.AddTo(c)
	opts.report.AddTo(c)

	return c
}

// runVet executes the vet command.
func runVet(c *cobra.Command, opts *vetOptions, cfg *cmdtypes.GlobalConfig) error {
	format, err := opts.report.Format()
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
	}

	result, runErr := cmdutil.RunPipeline(cmdutil.RunOpts{
		Root:   opts.root,
		Config: cfg,
		DryRun: true,
		Now:    opts.now,
	})
	if result == nil || result.Resolution == nil {
		return runErr
	}

	if err := output.WriteReport(cmdutil.ReportInfo(result), output.ReportOptions{
		Format: format,
		Writer: c.OutOrStdout(),
	}); err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
	}

	return runErr
}
