package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are the file-backed defaults for options that tend to be
// fleet-wide: the shared common sources and the sweep toggles. Flags
// override anything set here.
type Settings struct {
	Common          []string `yaml:"common"`
	ExcludeInactive bool     `yaml:"exclude_inactive"`
	Report          bool     `yaml:"report"`
	Fixpoint        bool     `yaml:"fixpoint"`
	MetricsFile     string   `yaml:"metrics_file"`
}

// loadSettings reads the settings file named by --config, falling back
// to ~/.jprune.yaml. The explicit path must exist; the default one is
// optional. A malformed file is warned about and ignored.
func loadSettings(path string) (Settings, error) {
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".jprune.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		slog.Warn("ignoring malformed settings file", "path", path, "error", err)
		return Settings{}, nil
	}
	return s, nil
}

// commonSources returns the common-source paths for this run, -c flags
// taking precedence over the settings file.
func (s Settings) commonSources() []string {
	if len(commonPaths) > 0 {
		return commonPaths
	}
	return s.Common
}
