package cmdutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeline-tools/component-finder/internal/cmdtypes"
	"github.com/pipeline-tools/component-finder/internal/config"
	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/testutil"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
}

func TestRunPipeline_FlagsOverrideConfig(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	testutil.WriteValidRelease(t, root, "alpha", "1.0.0")

	global := &cmdtypes.GlobalConfig{
		File: &config.Config{Root: "/not/used", Format: "bat", VariablePrefix: "CF_"},
		Env:  &config.Config{},
	}

	var res any
	_, _ = captureOutput(t, func() {
		r, err := RunPipeline(RunOpts{
			Root:   RootFlags{Root: root},
			Emit:   EmitFlags{OutputDir: out, Format: "sh"},
			Config: global,
			Now:    fixedClock,
		})
		require.NoError(t, err)
		res = r
	})
	require.NotNil(t, res)

	content, err := os.ReadFile(filepath.Join(out, "pipeline_components_env-2026-10-16.sh"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "export CF_ALPHA_PATH=")
}

func TestRunPipeline_FormatAlias(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	testutil.WriteValidRelease(t, root, "alpha", "1.0.0")

	var err error
	_, _ = captureOutput(t, func() {
		_, err = RunPipeline(RunOpts{
			Root:   RootFlags{Root: root},
			Emit:   EmitFlags{OutputDir: out, Format: "bash"},
			Config: &cmdtypes.GlobalConfig{},
			Now:    fixedClock,
		})
	})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "pipeline_components_env-2026-10-16.sh"))
}

func TestRunPipeline_GateFailure(t *testing.T) {
	root := t.TempDir()
	testutil.WriteRelease(t, root, "alpha", "1.0.0", nil)

	var err error
	_, stderr := captureOutput(t, func() {
		var r any
		r, err = RunPipeline(RunOpts{
			Root:   RootFlags{Root: root},
			Emit:   EmitFlags{OutputDir: t.TempDir()},
			Config: &cmdtypes.GlobalConfig{},
			Now:    fixedClock,
		})
		assert.NotNil(t, r)
	})

	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, oerrors.ExitValidationError, exitErr.Code)
	assert.True(t, exitErr.Printed)
	assert.Contains(t, stderr, "MissingMetadataDocument")
}

func TestRunPipeline_InvalidConfig(t *testing.T) {
	var err error
	_, _ = captureOutput(t, func() {
		_, err = RunPipeline(RunOpts{
			Root:   RootFlags{Root: t.TempDir()},
			Emit:   EmitFlags{Format: "ps1"},
			Config: &cmdtypes.GlobalConfig{},
		})
	})

	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, oerrors.ExitValidationError, exitErr.Code)
}

func TestRunPipeline_RootNotFound(t *testing.T) {
	var err error
	_, _ = captureOutput(t, func() {
		_, err = RunPipeline(RunOpts{
			Root:   RootFlags{Root: filepath.Join(t.TempDir(), "missing")},
			Config: &cmdtypes.GlobalConfig{},
			DryRun: true,
		})
	})

	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
}

func TestRunPipeline_NoConfig(t *testing.T) {
	_, err := RunPipeline(RunOpts{})
	assert.Equal(t, oerrors.ExitGeneralError, oerrors.ExitCodeFromError(err))
}
