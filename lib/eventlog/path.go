// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"os"
	"path/filepath"
)

// Environment variables consumed by the event log. They are the
// channel through which a parent process hands its ambient context to
// the short-lived hook subprocesses it spawns — a child inherits the
// environment and therefore writes to the same log with the same
// identity, with no argument plumbing.
const (
	// EnvLogPath relocates the log file. Tests set it to isolate runs;
	// the host runtime sets it so every hook writes to one log.
	EnvLogPath = "CHRONOLOG_LOG_PATH"

	// EnvSessionID and EnvAgentID supply the ambient identity used
	// when an append does not pass one explicitly.
	EnvSessionID = "CHRONOLOG_SESSION_ID"
	EnvAgentID   = "CHRONOLOG_AGENT_ID"

	// EnvCycle, EnvRevision, and EnvRequestID feed the breadcrumb.
	EnvCycle     = "CHRONOLOG_CYCLE"
	EnvRevision  = "CHRONOLOG_REVISION"
	EnvRequestID = "CHRONOLOG_REQUEST_ID"
)

// DefaultLogFileName is the file created under the state directory
// when no override names a path.
const DefaultLogFileName = "events.jsonl"

// ResolvePath returns the absolute log file path for this process.
// Precedence: the explicit argument, then EnvLogPath, then
// $XDG_STATE_HOME/chronolog/events.jsonl with a ~/.local/state
// fallback. There is no multi-location search beyond this chain — a
// session must resolve to exactly one stable path for its lifetime,
// so every caller resolves once and holds the result in its Log
// handle.
func ResolvePath(explicit string) string {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvLogPath)
	}
	if path == "" {
		path = filepath.Join(stateDirectory(), "chronolog", DefaultLogFileName)
	}
	if absolute, err := filepath.Abs(path); err == nil {
		return absolute
	}
	return path
}

// stateDirectory returns the base directory for durable per-user
// state, following the XDG base directory layout.
func stateDirectory() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// No resolvable home (stripped-down container). Fall back to
		// the working directory rather than failing: a writable log in
		// an odd place beats no log.
		return "."
	}
	return filepath.Join(home, ".local", "state")
}
