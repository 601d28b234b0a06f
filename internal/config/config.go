// Package config provides configuration loading and management.
package config

// Built-in defaults.
const (
	// DefaultRoot is the shared components directory on build agents.
	DefaultRoot = "/mnt/pipeline/components"

	// DefaultOutputDir is the directory the env file is written to.
	DefaultOutputDir = "."

	// DefaultFormat is the env file dialect.
	DefaultFormat = "bat"

	// DefaultVariableSuffix is appended to every variable name.
	DefaultVariableSuffix = "_PATH"
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" json:"timestamps,omitempty" yaml:"timestamps,omitempty"`
}

// Config represents the component-finder configuration.
// Loaded from ~/.component-finder/config.yaml, validated against the embedded
// CUE schema.
type Config struct {
	// Root is the components root directory.
	// Env: CFINDER_ROOT, Flag: --root
	Root string `mapstructure:"root" json:"root,omitempty" yaml:"root,omitempty"`

	// OutputDir is where the dated env file is created.
	// Env: CFINDER_OUTPUT_DIR, Flag: --output-dir
	OutputDir string `mapstructure:"outputDir" json:"outputDir,omitempty" yaml:"outputDir,omitempty"`

	// Format is the env file dialect, "bat" or "sh".
	// Env: CFINDER_FORMAT, Flag: --format
	Format string `mapstructure:"format" json:"format,omitempty" yaml:"format,omitempty"`

	// VariablePrefix is prepended to every variable name.
	// Env: CFINDER_VARIABLE_PREFIX
	VariablePrefix string `mapstructure:"variablePrefix" json:"variablePrefix,omitempty" yaml:"variablePrefix,omitempty"`

	// VariableSuffix is appended to every variable name. nil means the
	// default; an explicit empty string disables the suffix.
	// Env: CFINDER_VARIABLE_SUFFIX
	VariableSuffix *string `mapstructure:"variableSuffix" json:"variableSuffix,omitempty" yaml:"variableSuffix,omitempty"`

	// Ignore lists doublestar patterns of component folders to skip.
	// Env: CFINDER_IGNORE (comma separated)
	Ignore []string `mapstructure:"ignore" json:"ignore,omitempty" yaml:"ignore,omitempty"`

	// Reviewers replaces the authorized peer reviewers of the release schema.
	// Env: CFINDER_REVIEWERS (comma separated)
	Reviewers []string `mapstructure:"reviewers" json:"reviewers,omitempty" yaml:"reviewers,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" json:"log,omitempty" yaml:"log,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `component-finder config init` to generate the initial file.
func DefaultConfig() *Config {
	suffix := DefaultVariableSuffix
	timestamps := true
	return &Config{
		Root:           DefaultRoot,
		OutputDir:      DefaultOutputDir,
		Format:         DefaultFormat,
		VariableSuffix: &suffix,
		Log:            LogConfig{Timestamps: &timestamps},
	}
}

// Suffix returns the variable suffix, applying the default when unset.
func (c *Config) Suffix() string {
	if c.VariableSuffix == nil {
		return DefaultVariableSuffix
	}
	return *c.VariableSuffix
}
