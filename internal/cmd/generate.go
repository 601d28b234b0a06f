package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pipeline-tools/component-finder/internal/cmdtypes"
	"github.com/pipeline-tools/component-finder/internal/cmdutil"
	"github.com/pipeline-tools/component-finder/internal/output"
	"github.com/pipeline-tools/component-finder/internal/pipeline"
)

// generateOptions holds the flags of the generate command.
type generateOptions struct {
	root cmdutil.RootFlags
	emit cmdutil.EmitFlags

	// now is the run clock; tests pin it.
	now func() time.Time
}

func (o *generateOptions) addFlags(c *cobra.Command) {
	o.root.AddTo(c)
	o.emit.AddTo(c)
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	opts := &generateOptions{}

	c := &cobra.Command{
		Use:   "generate",
		Short: "Validate all releases and write the dated env file",
		Long: `Validate every release under the components root and write the env file.

For each component the newest valid release wins. The env file is created as
pipeline_components_env-YYYY-MM-DD.<ext> in the output directory and is never
overwritten: a second run on the same day into the same directory fails.

Promoting the dated file to pipeline_components_env.<ext> is left to the
calling pipeline.

Examples:
  # Generate a Windows batch file from the default root
  component-finder generate

  # Generate a POSIX shell file into ./out
  component-finder generate --root /srv/components --output-dir ./out --format sh`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runGenerate(c, opts, cfg)
		},
	}

	opts.addFlags(c)

	return c
}

// runGenerate executes the generate command.
func runGenerate(_ *cobra.Command, opts *generateOptions, cfg *cmdtypes.GlobalConfig) error {
	result, err := cmdutil.RunPipeline(cmdutil.RunOpts{
		Root:   opts.root,
		Emit:   opts.emit,
		Config: cfg,
		Now:    opts.now,
	})
	if err != nil {
		return err
	}

	cmdutil.WriteResolvedLines(result)
	writeGenerateSummary(result)

	return nil
}

// writeGenerateSummary prints the written file and, on a terminal, the mapping
// table.
func writeGenerateSummary(result *pipeline.Result) {
	if output.StdoutIsTerminal() && result.Resolution.Mapping.Len() > 0 {
		rows := make([]output.MappingRow, 0, len(result.Assignments))
		for _, a := range result.Assignments {
			e, _ := result.Resolution.Mapping.Get(a.Component)
			rows = append(rows, output.MappingRow{
				Component: a.Component,
				Version:   e.Release,
				Variable:  a.Name,
				Path:      a.Value,
			})
		}
		output.Println(output.RenderMappingTable(rows))
	}

	output.Println(output.FormatCheckmark(fmt.Sprintf("%d component(s) written to %s",
		len(result.Assignments), result.Path)))
	output.Info("promote with the canonical name", "latest", result.LatestName)
}
