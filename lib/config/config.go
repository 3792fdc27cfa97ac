// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for chronolog
// components.
//
// Configuration is loaded from a single file specified by:
//   - the CHRONOLOG_CONFIG environment variable, or
//   - the --config flag passed to the command
//
// There are no fallbacks or automatic discovery, and configuration is
// entirely optional: a hook binary with no config file runs on the
// environment overrides and built-in defaults alone. This keeps the
// precedence chain auditable — explicit argument, then environment,
// then config file, then default — with no hidden locations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the config file, for processes with no flag surface
// (the hook binary).
const EnvConfig = "CHRONOLOG_CONFIG"

// Config is the chronolog configuration.
type Config struct {
	// Paths configures file locations.
	Paths PathsConfig `yaml:"paths"`

	// Identity supplies the default agent identity used when neither
	// an append option nor the environment carries one.
	Identity IdentityConfig `yaml:"identity"`
}

// PathsConfig configures file locations.
type PathsConfig struct {
	// Log is the event log file. Empty defers to the environment
	// override and the default state-directory location.
	Log string `yaml:"log"`

	// Snapshots is the directory for advisory state snapshots. Empty
	// means the log file's directory.
	Snapshots string `yaml:"snapshots"`

	// Hooks is a JSONC hook definition file overriding the built-in
	// lifecycle-point-to-event-kind mapping. Empty means built-ins.
	Hooks string `yaml:"hooks"`
}

// IdentityConfig supplies default identity fields.
type IdentityConfig struct {
	AgentID   string `yaml:"agent_id"`
	SessionID string `yaml:"session_id"`
}

// Load reads the configuration. explicitPath (from a --config flag)
// wins over EnvConfig; with neither set, the zero config is returned
// and everything runs on defaults. A named file that cannot be read
// or parsed is an error — a config the operator pointed at must not
// be silently ignored.
func Load(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var configuration Config
	if err := yaml.Unmarshal(data, &configuration); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &configuration, nil
}
