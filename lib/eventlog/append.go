// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/chronolog-foundation/chronolog/lib/clock"
)

// Log is a handle on one append-only event log file. The path is
// resolved once at Open and never re-resolved, so a handle's records
// all land in the same file even if the environment changes mid-run.
//
// A Log carries no open file descriptor: every append is one
// open-write-close so that independent short-lived processes (the
// normal producers) and long-lived readers coexist without any lock
// protocol. It is safe for concurrent use.
type Log struct {
	path   string
	clock  clock.Clock
	logger *slog.Logger

	defaultAgentID   string
	defaultSessionID string
}

// Option configures a Log handle.
type Option func(*Log)

// WithPath pins the log file path, overriding EnvLogPath and the
// default state-directory location.
func WithPath(path string) Option {
	return func(log *Log) { log.path = path }
}

// WithClock injects the time source used for event timestamps.
func WithClock(c clock.Clock) Option {
	return func(log *Log) { log.clock = c }
}

// WithLogger sets the diagnostic side channel. Append failures are
// reported here and nowhere else — the append path never returns an
// error.
func WithLogger(logger *slog.Logger) Option {
	return func(log *Log) { log.logger = logger }
}

// WithIdentity sets the default (agent_id, session_id) pair used when
// neither an append option nor the environment supplies one. The
// config file feeds this.
func WithIdentity(agentID, sessionID string) Option {
	return func(log *Log) {
		log.defaultAgentID = agentID
		log.defaultSessionID = sessionID
	}
}

// Open creates a Log handle. It never fails: an unwritable or
// nonexistent path surfaces later as a failed append or an empty
// read, both of which are defined, non-fatal outcomes.
func Open(options ...Option) *Log {
	log := &Log{}
	for _, option := range options {
		option(log)
	}
	log.path = ResolvePath(log.path)
	if log.clock == nil {
		log.clock = clock.Real()
	}
	if log.logger == nil {
		log.logger = slog.Default()
	}
	return log
}

// Path returns the resolved absolute log file path.
func (log *Log) Path() string { return log.path }

// AppendOption adjusts a single append.
type AppendOption func(*Event)

// WithHookInput attaches the verbatim trigger payload from the host
// runtime. Producers attach it on start-class records only; readers
// ignore it everywhere else.
func WithHookInput(payload map[string]any) AppendOption {
	return func(event *Event) { event.HookInput = payload }
}

// WithSession overrides the ambient session ID for this append.
func WithSession(sessionID string) AppendOption {
	return func(event *Event) { event.SessionID = sessionID }
}

// WithAgent overrides the ambient agent ID for this append.
func WithAgent(agentID string) AppendOption {
	return func(event *Event) { event.AgentID = agentID }
}

// Append records one event. It fills session and agent identity from
// ambient context when not overridden, derives the breadcrumb from
// ambient session/cycle/revision/request state at call time, creates
// parent directories on demand, and writes the record as a single
// whole-line write so concurrent appends from independent processes
// interleave as complete lines, never fragments.
//
// Append reports success. It never panics and never returns an error:
// producers run synchronously inside a user-facing interactive loop,
// and a logging failure must not abort that loop. Failures go to the
// diagnostic logger.
func (log *Log) Append(kind string, data map[string]any, options ...AppendOption) bool {
	now := log.clock.Now()

	event := Event{
		Kind:      kind,
		Timestamp: float64(now.UnixNano()) / 1e9,
		Data:      data,
	}
	for _, option := range options {
		option(&event)
	}
	if event.SessionID == "" {
		event.SessionID = firstNonEmpty(os.Getenv(EnvSessionID), log.defaultSessionID, "unknown")
	}
	if event.AgentID == "" {
		event.AgentID = firstNonEmpty(os.Getenv(EnvAgentID), log.defaultAgentID, "unknown")
	}
	event.Breadcrumb = FormatBreadcrumb(
		event.SessionID,
		ambientCycle(),
		firstNonEmpty(os.Getenv(EnvRevision), "unknown"),
		firstNonEmpty(os.Getenv(EnvRequestID), "unknown"),
		now.Unix(),
	)

	line, err := event.marshalLine()
	if err != nil {
		log.logger.Warn("event not recorded: serialization failed",
			"kind", kind, "error", err)
		return false
	}
	line = append(line, '\n')

	if err := os.MkdirAll(filepath.Dir(log.path), 0o755); err != nil {
		log.logger.Warn("event not recorded: cannot create log directory",
			"kind", kind, "path", log.path, "error", err)
		return false
	}

	// One open-append-close per record. A single write of one small
	// line is within the platform's atomic single-write guarantee for
	// O_APPEND files, which is the whole cross-process story: no lock
	// file, no fragment interleaving.
	file, err := os.OpenFile(log.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.logger.Warn("event not recorded: cannot open log",
			"kind", kind, "path", log.path, "error", err)
		return false
	}
	_, writeErr := file.Write(line)
	closeErr := file.Close()
	if writeErr != nil {
		log.logger.Warn("event not recorded: write failed",
			"kind", kind, "path", log.path, "error", writeErr)
		return false
	}
	if closeErr != nil {
		log.logger.Warn("event log close failed after write",
			"kind", kind, "path", log.path, "error", closeErr)
	}
	return true
}

// ambientCycle reads the current work-cycle number from the
// environment, defaulting to 1. Cycle numbers are 1-based: cycle 0
// does not exist, and a missing value means "first cycle", not "no
// cycle".
func ambientCycle() int {
	value := os.Getenv(EnvCycle)
	if value == "" {
		return 1
	}
	cycle, err := strconv.Atoi(value)
	if err != nil || cycle < 1 {
		return 1
	}
	return cycle
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
