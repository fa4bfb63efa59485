package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig is the small per-user file that remembers the server root so
// modnorris can be invoked from anywhere.
type UserConfig struct {
	ServerRoot string `json:"server_root,omitempty"`
}

// UserConfigPath returns the per-user config file location
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &ConfigError{Message: "failed to get home directory", Err: err}
	}
	return filepath.Join(home, ".config", "modnorris", "config.json"), nil
}

// LoadUserConfig reads the per-user config, returning an empty config when
// the file does not exist.
func LoadUserConfig() (*UserConfig, error) {
	path, err := UserConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &UserConfig{}, nil
		}
		return nil, &ConfigError{Message: "failed to read user config", Err: err}
	}

	cfg := &UserConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("invalid JSON in %s", path), Err: err}
	}
	return cfg, nil
}

// SaveUserConfig writes the per-user config, creating parent directories
func SaveUserConfig(cfg *UserConfig) (string, error) {
	path, err := UserConfigPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", &ConfigError{Message: "failed to create user config directory", Err: err}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", &ConfigError{Message: "failed to marshal user config", Err: err}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", &ConfigError{Message: "failed to write user config", Err: err}
	}
	return path, nil
}
