package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipeline-tools/component-finder/internal/cmdtypes"
	"github.com/pipeline-tools/component-finder/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show component-finder version information.

Displays:
  - component-finder version, commit, and build date
  - CUE SDK version used to evaluate the release schema`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
}

func runVersion(c *cobra.Command, _ []string) error {
	fmt.Fprintln(c.OutOrStdout(), version.Get().String())
	return nil
}
