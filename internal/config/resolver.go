package config

import (
	"os"
	"slices"

	"github.com/pipeline-tools/component-finder/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records the winning value of one key and the values it
// shadowed.
type ResolvedValue struct {
	Key      string
	Value    any
	Source   ConfigSource
	Shadowed map[ConfigSource]any
}

// Flags holds the command-line values that override configuration. Empty
// strings and nil pointers mean the flag was not given.
type Flags struct {
	Root       string
	OutputDir  string
	Format     string
	Timestamps *bool
}

// ResolveOptions holds the layers to resolve.
type ResolveOptions struct {
	Flags Flags
	// Env is the configuration read from CFINDER_* variables.
	Env *Config
	// File is the configuration read from the config file.
	File *Config
}

// candidate is one layer's value for a key.
type candidate[T any] struct {
	source ConfigSource
	value  T
	set    bool
}

// pick returns the first set candidate and records the rest as shadowed.
// The last candidate is the default and is always set.
func pick[T any](key string, cands ...candidate[T]) (T, ResolvedValue) {
	rv := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]any)}
	var winner T
	found := false
	for _, c := range cands {
		if !c.set {
			continue
		}
		if !found {
			winner, rv.Value, rv.Source = c.value, c.value, c.source
			found = true
			continue
		}
		rv.Shadowed[c.source] = c.value
	}
	return winner, rv
}

func str(source ConfigSource, v string) candidate[string] {
	return candidate[string]{source: source, value: v, set: v != ""}
}

func strPtr(source ConfigSource, v *string) candidate[string] {
	if v == nil {
		return candidate[string]{source: source}
	}
	return candidate[string]{source: source, value: *v, set: true}
}

func boolPtr(source ConfigSource, v *bool) candidate[bool] {
	if v == nil {
		return candidate[bool]{source: source}
	}
	return candidate[bool]{source: source, value: *v, set: true}
}

func list(source ConfigSource, v []string) candidate[[]string] {
	return candidate[[]string]{source: source, value: slices.Clone(v), set: len(v) > 0}
}

// Resolve merges the layers using precedence flag > env > config > default
// and returns the effective Config with one ResolvedValue per key.
func Resolve(opts ResolveOptions) (*Config, []ResolvedValue) {
	env, file := opts.Env, opts.File
	if env == nil {
		env = &Config{}
	}
	if file == nil {
		file = &Config{}
	}

	var cfg Config
	var values []ResolvedValue
	var rv ResolvedValue

	cfg.Root, rv = pick("root",
		str(SourceFlag, opts.Flags.Root), str(SourceEnv, env.Root), str(SourceConfig, file.Root),
		str(SourceDefault, DefaultRoot))
	values = append(values, rv)

	cfg.OutputDir, rv = pick("outputDir",
		str(SourceFlag, opts.Flags.OutputDir), str(SourceEnv, env.OutputDir), str(SourceConfig, file.OutputDir),
		str(SourceDefault, DefaultOutputDir))
	values = append(values, rv)

	cfg.Format, rv = pick("format",
		str(SourceFlag, opts.Flags.Format), str(SourceEnv, env.Format), str(SourceConfig, file.Format),
		str(SourceDefault, DefaultFormat))
	values = append(values, rv)

	cfg.VariablePrefix, rv = pick("variablePrefix",
		str(SourceEnv, env.VariablePrefix), str(SourceConfig, file.VariablePrefix),
		candidate[string]{source: SourceDefault, set: true})
	values = append(values, rv)

	suffix, rv := pick("variableSuffix",
		strPtr(SourceEnv, env.VariableSuffix), strPtr(SourceConfig, file.VariableSuffix),
		str(SourceDefault, DefaultVariableSuffix))
	cfg.VariableSuffix = &suffix
	values = append(values, rv)

	cfg.Ignore, rv = pick("ignore",
		list(SourceEnv, env.Ignore), list(SourceConfig, file.Ignore),
		candidate[[]string]{source: SourceDefault, set: true})
	values = append(values, rv)

	cfg.Reviewers, rv = pick("reviewers",
		list(SourceEnv, env.Reviewers), list(SourceConfig, file.Reviewers),
		candidate[[]string]{source: SourceDefault, set: true})
	values = append(values, rv)

	timestamps, rv := pick("log.timestamps",
		boolPtr(SourceFlag, opts.Flags.Timestamps), boolPtr(SourceEnv, env.Log.Timestamps),
		boolPtr(SourceConfig, file.Log.Timestamps), candidate[bool]{source: SourceDefault, value: true, set: true})
	cfg.Log.Timestamps = &timestamps
	values = append(values, rv)

	return &cfg, values
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CFINDER_CONFIG env, (3) ~/.component-finder/config.yaml
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(ConfigEnvVar)

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case opts.FlagValue != "":
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
