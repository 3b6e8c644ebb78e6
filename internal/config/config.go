package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"thermite/internal/logging"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "thermite" // application name used for config directory

const (
	DefaultPasses     = 3
	DefaultMaxWorkers = 8
	DefaultBufferSize = 1024 * 1024
)

// Config holds user configuration for thermite. Every field has a usable
// default, so a missing config file is not an error.
type Config struct {
	// Passes is the number of overwrite passes, each applying all five patterns.
	Passes int `yaml:"passes"`
	// MaxWorkers caps the writer pool; the effective size is min(GOMAXPROCS, MaxWorkers).
	MaxWorkers int `yaml:"max_workers"`
	// BufferSize is the pattern buffer length in bytes and the minimum chunk length.
	BufferSize int `yaml:"buffer_size"`
	// Sync flushes the file to stable storage after every pattern.
	Sync bool `yaml:"sync"`
	// ProtectSystemPaths refuses targets inside reserved system directories.
	ProtectSystemPaths bool `yaml:"protect_system_paths"`
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() string {
	configPath := filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Passes:             DefaultPasses,
		MaxWorkers:         DefaultMaxWorkers,
		BufferSize:         DefaultBufferSize,
		Sync:               true,
		ProtectSystemPaths: true,
	}
}

// Load loads the config from the standard location, falling back to
// defaults when no file exists.
func Load() (*Config, error) {
	return loadOptional(ConfigPath())
}

// LoadFrom loads config from a specific path. Unlike Load, the file must exist.
func LoadFrom(path string) (*Config, error) {
	logging.Debug("Reading config file", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	// Start from defaults so omitted keys keep their default values
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty file
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

func loadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug("No config file found, using defaults", "path", path)
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("cannot access config file: %w", err)
	}
	return LoadFrom(path)
}

// Validate checks that every numeric setting is usable.
func (c *Config) Validate() error {
	if c.Passes <= 0 {
		return fmt.Errorf("passes must be positive, got %d", c.Passes)
	}
	if c.MaxWorkers <= 0 {
		return fmt.Errorf("max_workers must be positive, got %d", c.MaxWorkers)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive, got %d", c.BufferSize)
	}
	return nil
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file with restrictive permissions (600) for security
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}
