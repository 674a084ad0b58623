package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig represents CLI preferences stored in ~/.portbattle/config.json
// This file stores ONLY preferences, never tokens or secrets
type UserConfig struct {
	// Identity the CLI acts as when --actor is not given
	DefaultActor string `json:"default_actor,omitempty"`

	// Battle used by commands when --battle is not given
	DefaultBattleID string `json:"default_battle_id,omitempty"`
}

// UserConfigHandler manages loading and saving user configuration
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for the config file in the user's home
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".portbattle"))
}

// NewUserConfigHandlerAt creates a handler storing config.json under dir
func NewUserConfigHandlerAt(dir string) (*UserConfigHandler, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &UserConfigHandler{
		configPath: filepath.Join(dir, "config.json"),
	}, nil
}

// Load reads the user config from disk
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	// If file doesn't exist, return empty config
	if _, err := os.Stat(h.configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(h.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return &config, nil
}

// Save writes the user config to disk
func (h *UserConfigHandler) Save(config *UserConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(h.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// SetDefaultActor sets the identity used by the CLI
func (h *UserConfigHandler) SetDefaultActor(actor string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultActor = actor
	return h.Save(config)
}

// SetDefaultBattle sets the battle used when --battle is omitted
func (h *UserConfigHandler) SetDefaultBattle(battleID string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultBattleID = battleID
	return h.Save(config)
}

// Clear removes every preference
func (h *UserConfigHandler) Clear() error {
	return h.Save(&UserConfig{})
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
