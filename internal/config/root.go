package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RootFileName marks the top of a gitmastery workspace.
const RootFileName = ".gitmastery.yaml"

// RootConfig is the workspace marker file. All fields are optional; an
// empty file is a valid marker.
type RootConfig struct {
	ExercisesSource *RemoteSource `yaml:"exercises_source,omitempty"`
}

// Root is a located workspace root.
type Root struct {
	Dir    string
	Config RootConfig
}

// ErrNoRoot is returned when no workspace marker exists in the directory
// or any of its ancestors.
var ErrNoRoot = errors.New("not inside a gitmastery workspace")

// FindRoot walks up from startDir looking for the workspace marker.
func FindRoot(startDir string) (*Root, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		marker := filepath.Join(dir, RootFileName)
		if _, err := os.Stat(marker); err == nil {
			cfg, err := readRootConfig(marker)
			if err != nil {
				return nil, err
			}
			return &Root{Dir: dir, Config: *cfg}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNoRoot
		}
		dir = parent
	}
}

func readRootConfig(path string) (*RootConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg RootConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// WriteRoot writes the workspace marker into dir.
func WriteRoot(dir string, cfg RootConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, RootFileName), data, 0o644)
}
