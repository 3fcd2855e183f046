// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
)

// GlobalConfigDir returns the directory for global ares configuration.
// It uses $XDG_CONFIG_HOME/ares if set, otherwise ~/.config/ares.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ares")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ares")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// LoadGlobal loads the global config file.
// If the file does not exist, it returns a zero-value Config and nil error.
func LoadGlobal() (*Config, error) {
	return loadFile(GlobalConfigPath())
}

// LoadMerged loads the global config and the project config at
// projectPath, with project values taking precedence.
func LoadMerged(projectPath string) (*Config, error) {
	global, err := LoadGlobal()
	if err != nil {
		return nil, err
	}
	repo, err := Load(projectPath)
	if err != nil {
		return nil, err
	}
	return Merge(global, repo), nil
}
