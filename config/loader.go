package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads path over the defaults. Relative classpath entries and
// the sources root are taken relative to the file's directory.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigFile
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", configPath, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	dir := filepath.Dir(configPath)
	for i, p := range config.Classpath {
		config.Classpath[i] = relativeTo(dir, p)
	}
	config.Sources = relativeTo(dir, config.Sources)
	config.Maven.Repository = relativeTo(dir, config.Maven.Repository)

	return config, nil
}

func SaveConfig(config *Config, configPath string) error {
	if config == nil {
		return fmt.Errorf("%w: configuration cannot be nil", ErrInvalidConfig)
	}

	if configPath == "" {
		configPath = DefaultConfigFile
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file %s: %w", configPath, err)
	}

	return nil
}

// Discover looks for DefaultConfigFile in dir and its parents and returns
// the first one found, or "" when there is none.
func Discover(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, DefaultConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Resolve loads the discovered configuration for dir, or the defaults
// rooted at dir when there is no configuration file.
func Resolve(dir string) (*Config, error) {
	if path := Discover(dir); path != "" {
		return LoadConfig(path)
	}
	config := Default()
	config.Sources = dir
	return config, nil
}

func relativeTo(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
