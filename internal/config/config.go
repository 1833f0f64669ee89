package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application name
	AppName = "ryt"
	// ConfigFileName is the config file name inside the config directory
	ConfigFileName = "config.yaml"
	// EnvPrefix prefixes environment overrides of config keys
	EnvPrefix = "RYT_"
)

// Config represents the ryt configuration file
type Config struct {
	Git         string   `yaml:"git" mapstructure:"git"`
	NPM         string   `yaml:"npm" mapstructure:"npm"`
	Concurrency int      `yaml:"concurrency" mapstructure:"concurrency"`
	LogLevel    string   `yaml:"log_level" mapstructure:"log_level"`
	Ignore      []string `yaml:"ignore" mapstructure:"ignore"`
}

// envKeys are the config keys that can be overridden from the environment
var envKeys = []string{"git", "npm", "concurrency", "log_level"}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Git:         "git",
		NPM:         "npm",
		Concurrency: 8,
		LogLevel:    "warn",
		Ignore:      []string{},
	}
}

// Load reads the config file, if any, and applies environment overrides from
// env. It returns the config and the path of the file that was read, or "".
func Load(fs afero.Fs, env Env) (*Config, string, error) {
	defaults := Default()

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")
	v.SetDefault("git", defaults.Git)
	v.SetDefault("npm", defaults.NPM)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("ignore", defaults.Ignore)

	resolvedPath := ""
	if path := GetConfigPath(env); path != "" {
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
		if exists {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, "", fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
			resolvedPath = path
		}
	}

	for _, key := range envKeys {
		if value := env.Get(EnvPrefix + strings.ToUpper(key)); value != "" {
			v.Set(key, value)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Concurrency < 1 {
		return nil, "", fmt.Errorf("invalid concurrency %d: must be at least 1", cfg.Concurrency)
	}

	return &cfg, resolvedPath, nil
}

// Marshal renders the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// GetConfigPath returns the path to the ryt config file, or "" when neither
// XDG_CONFIG_HOME nor HOME is set.
func GetConfigPath(env Env) string {
	if dir := env.Get("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, ConfigFileName)
	}
	if home := env.Get("HOME"); home != "" {
		return filepath.Join(home, ".config", AppName, ConfigFileName)
	}
	return ""
}
