package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for component-finder configuration.
const envPrefix = "CFINDER"

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"root":           "CFINDER_ROOT",
	"outputDir":      "CFINDER_OUTPUT_DIR",
	"format":         "CFINDER_FORMAT",
	"variablePrefix": "CFINDER_VARIABLE_PREFIX",
	"variableSuffix": "CFINDER_VARIABLE_SUFFIX",
	"ignore":         "CFINDER_IGNORE",
	"reviewers":      "CFINDER_REVIEWERS",
	"log.timestamps": "CFINDER_LOG_TIMESTAMPS",
}

// EnvVar returns the environment variable bound to a config key.
func EnvVar(key string) string {
	return envBindings[key]
}

// Loader reads configuration layers. The file and the environment are kept
// apart so every value's source can be reported.
type Loader struct {
	v   *viper.Viper
	env *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	env := viper.New()
	env.SetEnvPrefix(envPrefix)
	env.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, name := range envBindings {
		_ = env.BindEnv(key, name)
	}

	return &Loader{v: viper.New(), env: env}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path. A missing
// file yields an empty Config.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Env returns the configuration set through CFINDER_* environment variables.
// List values are comma separated.
func (l *Loader) Env() (*Config, error) {
	var cfg Config
	if err := l.env.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &cfg, nil
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
