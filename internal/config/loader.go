package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"beakermatrix/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir = ".config/beakermatrix"

	// ConfigFileName is read from the configuration directory and from
	// each component directory.
	ConfigFileName = "beakermatrix.yaml"
)

// osUserHomeDir is replaced in tests.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/beakermatrix.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads beakermatrix.yaml from configPath on top of the defaults.
// A missing file is not an error.
func LoadConfig(configPath string) (Config, error) {
	cfg := GetDefaultConfig()
	if configPath == "" {
		return cfg, nil
	}
	if err := mergeFile(&cfg, filepath.Join(configPath, ConfigFileName), "user"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ForComponent layers a component's own beakermatrix.yaml over cfg and
// validates the result.
func ForComponent(cfg Config, componentDir string) (Config, error) {
	layered := cfg
	layered.PlatformVersions = append([]string(nil), cfg.PlatformVersions...)
	if cfg.FIPSSplit != nil {
		// yaml.v3 decodes into an existing pointee; keep cfg untouched.
		fipsSplit := *cfg.FIPSSplit
		layered.FIPSSplit = &fipsSplit
	}
	if err := mergeFile(&layered, filepath.Join(componentDir, ConfigFileName), "component"); err != nil {
		return Config{}, err
	}
	if err := layered.Validate(); err != nil {
		return Config{}, err
	}
	return layered, nil
}

// mergeFile unmarshals path over cfg. Keys absent from the file keep their
// current values.
func mergeFile(cfg *Config, path, source string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Config", "No %s found at %s", ConfigFileName, path)
			return nil
		}
		return NewConfigurationError(path, filepath.Base(path), source, "io", err.Error())
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return NewConfigurationErrorWithDetails(path, filepath.Base(path), source, "parse",
			"malformed configuration", err.Error(),
			[]string{"check the YAML syntax", "see `beakermatrix --help` for the supported keys"})
	}
	logging.Debug("Config", "Loaded configuration from %s", path)
	return nil
}
