// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import (
	"bytes"
	"encoding/json"
)

// Event kinds written by chronolog's own producers. The log is
// open-world: readers must tolerate kinds not listed here, because a
// newer producer may record kinds an older reader has never seen.
const (
	// KindSessionStart is recorded when the host runtime begins a
	// session. Start-class: carries the verbatim trigger payload.
	KindSessionStart = "session_start"

	// KindSessionEnd is recorded when the host runtime ends a session.
	KindSessionEnd = "session_end"

	// KindContextBoundary marks invalidation of the agent's working
	// memory (context truncation, compaction, restart). It is the
	// reset point for session-relative derived state: reducers that
	// answer "what is in effect right now" ignore matching events
	// strictly before the most recent boundary. Session-absolute
	// counters (cycle number, compaction count) never reset across it.
	KindContextBoundary = "context_boundary"

	// KindCycleAdvanced records the agent moving to a new work cycle.
	// The cycle number rides in the breadcrumb and in data["cycle"].
	KindCycleAdvanced = "cycle_advanced"

	// KindPolicyActivated puts a guidance document into effect.
	// data["id"] names it; data["payload"] is its current content
	// reference. Re-activation is an idempotent upsert.
	KindPolicyActivated = "policy_activated"

	// KindPolicyCleared takes one guidance document out of effect.
	KindPolicyCleared = "policy_cleared"

	// KindPolicyClearedAll empties the active set.
	KindPolicyClearedAll = "policy_cleared_all"

	// KindAutoModeEnabled and KindAutoModeDisabled record explicit
	// auto-mode decisions. The runtime env override outranks both.
	KindAutoModeEnabled  = "auto_mode_enabled"
	KindAutoModeDisabled = "auto_mode_disabled"

	// Drive kinds bracket the agent's own bounded work units.
	// Start-class: KindDriveStarted carries the trigger payload.
	KindDriveStarted   = "drive_started"
	KindDriveCompleted = "drive_completed"

	// Subdrive kinds bracket delegated sub-work. Same protocol as
	// drives, distinguished only by prefix.
	KindSubdriveStarted   = "subdrive_started"
	KindSubdriveCompleted = "subdrive_completed"

	// Lifecycle observation kinds recorded by the hook binary.
	KindToolPre           = "tool_pre"
	KindToolPost          = "tool_post"
	KindUserPrompt        = "user_prompt"
	KindSubagentStop      = "subagent_stop"
	KindPermissionRequest = "permission_request"
	KindNotification      = "notification"
)

// StartClass reports whether kind may carry a verbatim hook_input
// payload. Only start-class records keep the raw trigger — replaying
// every payload on every record would bloat the log with data no
// reducer reads.
func StartClass(kind string) bool {
	switch kind {
	case KindSessionStart, KindDriveStarted, KindSubdriveStarted:
		return true
	}
	return false
}

// Event is one immutable record in the append-only log. One event is
// one JSON line; lines are never edited or deleted. Kind, Timestamp,
// and Data fully determine all derived state — no other store is
// authoritative.
type Event struct {
	// Kind is the event type, one of the Kind* constants or any
	// producer-defined string.
	Kind string `json:"event"`

	// Timestamp is seconds since the Unix epoch, fractional. It is
	// informational: "most recent" decisions key off file position,
	// because timestamps from independent processes may be skewed.
	Timestamp float64 `json:"timestamp"`

	// SessionID and AgentID scope the event. Every derived query is
	// pinned to one (agent_id, session_id) pair so one session's facts
	// never contaminate another's.
	SessionID string `json:"session_id"`
	AgentID   string `json:"agent_id"`

	// Breadcrumb is the compact locator for the ambient state at
	// record time: session, cycle, code revision, request, timestamp.
	// See FormatBreadcrumb.
	Breadcrumb string `json:"breadcrumb"`

	// Data is the open payload map. Reducers read well-known keys
	// ("id", "payload", "token", "cycle", "duration") and ignore the
	// rest.
	Data map[string]any `json:"data,omitempty"`

	// HookInput is the verbatim trigger payload from the host runtime,
	// present on start-class records only.
	HookInput map[string]any `json:"hook_input,omitempty"`

	// Position is the byte offset of this record's line in the log
	// file. Filled by readers, never serialized. It is the total order
	// reducers rely on when "most recent" must be definite.
	Position int64 `json:"-"`

	// End is the byte offset just past this record's line (including
	// its newline). Filled by readers, never serialized. The snapshot
	// cache digests the log prefix [0, End) of its last admitted
	// record.
	End int64 `json:"-"`
}

// marshalLine serializes the event to a single compact JSON line
// without a trailing newline. HTML escaping is off: the log is not an
// HTML context, and payloads carrying <, >, or & must round-trip
// byte-identically. Returns an error if Data or HookInput contain
// values encoding/json cannot represent.
func (event Event) marshalLine() ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(event); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buffer.Bytes(), "\n"), nil
}
