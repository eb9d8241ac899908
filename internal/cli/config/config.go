package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Built-in defaults used when neither the profile nor a flag sets a value.
const (
	DefaultServer = "127.0.0.1:6379"
	DefaultAdmin  = "127.0.0.1:9121"
	DefaultOutput = "text"
)

// CLIConfig is the memkv-cli profile.
type CLIConfig struct {
	Server     string `yaml:"server"`
	Admin      string `yaml:"admin"`
	Output     string `yaml:"output"`
	AdminToken string `yaml:"admin_token,omitempty"`
}

// Default returns the built-in profile.
func Default() *CLIConfig {
	return &CLIConfig{
		Server: DefaultServer,
		Admin:  DefaultAdmin,
		Output: DefaultOutput,
	}
}

// DefaultConfigPath returns the default profile path.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".memkv", "cli.yaml")
}

// Load reads the profile at path, or the default path when empty. A
// missing file yields the built-in profile. Fields absent from the file
// keep their defaults.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the profile to path, or the default path when empty. The
// file may hold the admin token so it is created owner-only.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
