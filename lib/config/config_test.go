// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadExplicitPath(t *testing.T) {
	t.Setenv(EnvConfig, "")

	path := writeConfig(t, `
paths:
  log: /var/lib/chronolog/events.jsonl
  snapshots: /var/lib/chronolog/snapshots
  hooks: /etc/chronolog/hooks.jsonc
identity:
  agent_id: main
  session_id: s-1
`)
	configuration, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if configuration.Paths.Log != "/var/lib/chronolog/events.jsonl" {
		t.Errorf("Paths.Log = %q", configuration.Paths.Log)
	}
	if configuration.Paths.Snapshots != "/var/lib/chronolog/snapshots" {
		t.Errorf("Paths.Snapshots = %q", configuration.Paths.Snapshots)
	}
	if configuration.Paths.Hooks != "/etc/chronolog/hooks.jsonc" {
		t.Errorf("Paths.Hooks = %q", configuration.Paths.Hooks)
	}
	if configuration.Identity.AgentID != "main" || configuration.Identity.SessionID != "s-1" {
		t.Errorf("Identity = %+v", configuration.Identity)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	path := writeConfig(t, "paths:\n  log: /from/env.jsonl\n")
	t.Setenv(EnvConfig, path)

	configuration, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if configuration.Paths.Log != "/from/env.jsonl" {
		t.Errorf("Paths.Log = %q, want /from/env.jsonl", configuration.Paths.Log)
	}
}

func TestExplicitPathBeatsEnvironment(t *testing.T) {
	envPath := writeConfig(t, "paths:\n  log: /from/env.jsonl\n")
	t.Setenv(EnvConfig, envPath)

	explicit := writeConfig(t, "paths:\n  log: /from/flag.jsonl\n")
	configuration, err := Load(explicit)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if configuration.Paths.Log != "/from/flag.jsonl" {
		t.Errorf("Paths.Log = %q, want the flag-named file to win", configuration.Paths.Log)
	}
}

func TestLoadNothingNamedIsZeroConfig(t *testing.T) {
	t.Setenv(EnvConfig, "")

	configuration, err := Load("")
	if err != nil {
		t.Fatalf("Load with nothing named: %v", err)
	}
	if *configuration != (Config{}) {
		t.Errorf("Load with nothing named = %+v, want the zero config", configuration)
	}
}

func TestLoadNamedButMissingIsError(t *testing.T) {
	t.Setenv(EnvConfig, "")

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of a named missing file returned nil error")
	}
}

func TestLoadMalformedIsError(t *testing.T) {
	t.Setenv(EnvConfig, "")

	path := writeConfig(t, "paths: [not, a, mapping\n")
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed YAML returned nil error")
	}
}
