package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// RemoteSource identifies the exercises repository. Immutable once loaded.
type RemoteSource struct {
	URL    string `mapstructure:"url" yaml:"url"`
	Branch string `mapstructure:"branch" yaml:"branch"`
}

// DefaultSource is used when neither the app config nor a workspace root
// config names an exercises source.
func DefaultSource() RemoteSource {
	return RemoteSource{
		URL:    "https://github.com/git-mastery/exercises.git",
		Branch: "main",
	}
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type LogConfig struct {
	Path string `mapstructure:"path"`
}

// Config is the per-user app configuration, read from ~/.gitmastery/config.yaml.
type Config struct {
	ExercisesSource RemoteSource  `mapstructure:"exercises_source"`
	Storage         StorageConfig `mapstructure:"storage"`
	Log             LogConfig     `mapstructure:"log"`
}

// Load reads the app config, falling back to defaults when no config file
// exists. A present-but-malformed file is an error.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return loadFrom(filepath.Join(home, ".gitmastery"))
}

func loadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	src := DefaultSource()
	v.SetDefault("exercises_source.url", src.URL)
	v.SetDefault("exercises_source.branch", src.Branch)
	v.SetDefault("storage.db_path", filepath.Join(dir, "progress.db"))
	v.SetDefault("log.path", filepath.Join(dir, "gitmastery.log"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Source resolves the effective exercises source for the given directory:
// a workspace root config wins over the app config.
func (c *Config) Source(startDir string) RemoteSource {
	if root, err := FindRoot(startDir); err == nil && root.Config.ExercisesSource != nil {
		return *root.Config.ExercisesSource
	}
	return c.ExercisesSource
}
