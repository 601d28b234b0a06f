package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeline-tools/component-finder/internal/cmdtypes"
	"github.com/pipeline-tools/component-finder/internal/config"
	oerrors "github.com/pipeline-tools/component-finder/internal/errors"
	"github.com/pipeline-tools/component-finder/internal/output"
)

func run(t *testing.T, cfg *cmdtypes.GlobalConfig, args ...string) error {
	t.Helper()
	output.SetWriter(&bytes.Buffer{})
	c := NewConfigCmd(cfg)
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(args)
	return c.Execute()
}

func TestNewConfigCmd(t *testing.T) {
	c := NewConfigCmd(&cmdtypes.GlobalConfig{})

	var names []string
	for _, sub := range c.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"init", "vet"}, names)
}

func TestConfigInit_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &cmdtypes.GlobalConfig{ConfigPath: path}

	require.NoError(t, run(t, cfg, "init"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := config.NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultRoot, loaded.Root)
	assert.Equal(t, config.DefaultFormat, loaded.Format)
	assert.Equal(t, config.DefaultVariableSuffix, loaded.Suffix())
}

func TestConfigInit_ExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: sh\n"), 0o600))
	cfg := &cmdtypes.GlobalConfig{ConfigPath: path}

	err := run(t, cfg, "init")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "format: sh\n", string(content))
}

func TestConfigInit_Force(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: sh\n"), 0o600))
	cfg := &cmdtypes.GlobalConfig{ConfigPath: path}

	require.NoError(t, run(t, cfg, "init", "--force"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "format: bat")
}

func TestConfigVet_InitializedConfigIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &cmdtypes.GlobalConfig{ConfigPath: path}

	require.NoError(t, run(t, cfg, "init"))
	assert.NoError(t, run(t, cfg, "vet"))
}

func TestConfigVet_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: ps1\n"), 0o600))
	cfg := &cmdtypes.GlobalConfig{ConfigPath: path}

	err := run(t, cfg, "vet")

	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, oerrors.ExitValidationError, exitErr.Code)
	assert.True(t, exitErr.Printed)
}

func TestConfigVet_Missing(t *testing.T) {
	cfg := &cmdtypes.GlobalConfig{ConfigPath: filepath.Join(t.TempDir(), "config.yaml")}

	err := run(t, cfg, "vet")
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
}
