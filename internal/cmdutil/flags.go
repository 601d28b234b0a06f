// Package cmdutil provides shared command utilities for the generate and vet
// commands. It centralizes flag groups, pipeline invocation and error and
// report printing.
package cmdutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipeline-tools/component-finder/internal/config"
	"github.com/pipeline-tools/component-finder/internal/envfile"
	"github.com/pipeline-tools/component-finder/internal/output"
)

// RootFlags holds the components root flag (generate, vet).
type RootFlags struct {
	Root string
}

// AddTo registers the root flag on the given cobra command.
func (f *RootFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Root, "root", "",
		fmt.Sprintf("Components root directory (env: %s, default: %s)", config.EnvVar("root"), config.DefaultRoot))
}

// EmitFlags holds flags for commands that write the env file (generate).
type EmitFlags struct {
	OutputDir string
	Format    string
}

// AddTo registers the emit flags on the given cobra command.
func (f *EmitFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.OutputDir, "output-dir", "",
		fmt.Sprintf("Directory the env file is created in (env: %s, default: %s)", config.EnvVar("outputDir"), config.DefaultOutputDir))
	cmd.Flags().StringVar(&f.Format, "format", "",
		fmt.Sprintf("Env file format: %s (env: %s, default: %s)",
			strings.Join(envfile.ValidFormats(), ", "), config.EnvVar("format"), config.DefaultFormat))
}

// ReportFlags holds the report output flag (vet).
type ReportFlags struct {
	Output string
}

// AddTo registers the report flags on the given cobra command.
func (f *ReportFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Output, "output", "o", string(output.FormatText),
		fmt.Sprintf("Report format: %s", strings.Join(output.ValidFormats(), ", ")))
}

// Format parses the --output value.
func (f *ReportFlags) Format() (output.OutputFormat, error) {
	format, ok := output.ParseOutputFormat(f.Output)
	if !ok {
		return "", fmt.Errorf("unknown output format %q (valid: %s)", f.Output, strings.Join(output.ValidFormats(), ", "))
	}
	return format, nil
}
