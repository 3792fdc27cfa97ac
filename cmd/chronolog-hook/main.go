// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

// chronolog-hook is the lifecycle callback binary. The host agent
// runtime invokes it at fixed lifecycle points (session start/end,
// pre/post tool call, user input, sub-task completion, imminent memory
// truncation, permission prompt, notification); each invocation is one
// short-lived process that appends exactly one event and exits.
//
// The exit code is always 0. The host runtime treats hook failures as
// session-affecting, and a logging failure must never abort the
// user-facing interactive loop — at worst the log is missing one fact,
// which every reader is specified to tolerate.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chronolog-foundation/chronolog/lib/config"
	"github.com/chronolog-foundation/chronolog/lib/eventlog"
	"github.com/chronolog-foundation/chronolog/lib/hookdef"
	"github.com/chronolog-foundation/chronolog/lib/state"
)

// maxPayloadBytes bounds how much of stdin is read. Runtime payloads
// are small JSON documents; a runaway pipe must not balloon the log.
const maxPayloadBytes = 1 << 20

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: chronolog-hook <lifecycle-point>\npoints: %v\n", hookdef.Points())
		// Misconfigured hook registration, not a runtime failure: still
		// exit 0 so the host loop keeps running. The stderr line is the
		// operator's breadcrumb.
		return
	}
	point := os.Args[1]

	run(point, os.Stdin, os.Stdout, logger)
}

func run(point string, stdin io.Reader, stdout io.Writer, logger *slog.Logger) {
	configuration, err := config.Load("")
	if err != nil {
		logger.Warn("config unreadable, continuing with defaults", "error", err)
		configuration = &config.Config{}
	}

	var definition *hookdef.Definition
	if configuration.Paths.Hooks != "" {
		definition, err = hookdef.ReadFile(configuration.Paths.Hooks)
		if err != nil {
			logger.Warn("hook definition unreadable, using built-ins", "error", err)
			definition = nil
		}
	}

	kind, staticData, enabled := definition.Resolve(point)
	if kind == "" {
		logger.Warn("unknown lifecycle point, nothing recorded", "point", point)
		return
	}
	if !enabled {
		return
	}

	payload := readPayload(stdin, logger)

	log := eventlog.Open(
		eventlog.WithPath(configuration.Paths.Log),
		eventlog.WithLogger(logger),
		eventlog.WithIdentity(configuration.Identity.AgentID, configuration.Identity.SessionID),
	)

	// A hand-off is visible only while the log's most recent fact for
	// this agent still belongs to the prior session, so look before the
	// session_start record below buries it.
	var migrated bool
	var previousSession string
	if point == hookdef.PointSessionStart {
		migrated, previousSession = state.DetectMigration(log, eventlog.AmbientScope())
	}

	data := map[string]any{"point": point}
	for key, value := range staticData {
		data[key] = value
	}

	var options []eventlog.AppendOption
	if eventlog.StartClass(kind) && payload != nil {
		options = append(options, eventlog.WithHookInput(payload))
	}
	log.Append(kind, data, options...)

	if migrated {
		// One line on stdout for the runtime to show the user, with the
		// prior session ID for cross-reference.
		fmt.Fprintf(stdout, "session hand-off detected: prior session %s\n", previousSession)
	}
}

// readPayload reads the runtime's trigger payload from stdin. Empty
// or non-JSON input yields nil — hooks are invoked by many runtime
// versions and a missing payload is normal, not an error.
func readPayload(reader io.Reader, logger *slog.Logger) map[string]any {
	raw, err := io.ReadAll(io.LimitReader(reader, maxPayloadBytes))
	if err != nil {
		logger.Warn("payload read failed", "error", err)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		logger.Warn("payload is not a JSON object, recording without it", "error", err)
		return nil
	}
	return payload
}
