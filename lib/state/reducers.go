// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"os"
	"strings"

	"github.com/chronolog-foundation/chronolog/lib/eventlog"
	"github.com/chronolog-foundation/chronolog/lib/query"
)

// EnvAutoMode forces the auto-mode decision, bypassing event-derived
// state entirely. Accepted values: 1/true/on/enabled and
// 0/false/off/disabled. Any other value is ignored.
const EnvAutoMode = "CHRONOLOG_AUTO_MODE"

// scopedEvents returns the full-scan event sequence for a scope,
// bounded by the cutoff. This is the reconstruction read path; the
// live "most recent X" reducers use the bounded tail instead.
func scopedEvents(log *eventlog.Log, scope eventlog.Scope, cutoff Cutoff) []eventlog.Event {
	predicate := query.Predicate{
		AgentID:   scope.AgentID,
		SessionID: scope.SessionID,
	}
	if cutoff.Position > 0 {
		predicate.MaxPosition = cutoff.Position
	} else if cutoff.Timestamp > 0 {
		predicate.MaxTimestamp = cutoff.Timestamp
	}
	return query.Events(log, predicate)
}

// ActiveInjections returns the guidance documents currently in effect
// for the scope: a single forward fold of activation and clearing
// events, reset at every context boundary.
//
// Re-activating an identifier is an idempotent upsert — the entry
// latest in file order wins, even when embedded timestamps disagree
// (clock skew between producer processes must not reorder the log).
// Clearing removes one identifier; clear-all empties the set; clearing
// a never-activated identifier is a no-op, not an error.
func ActiveInjections(log *eventlog.Log, scope eventlog.Scope) map[string]Injection {
	return foldActiveInjections(scopedEvents(log, scope, Cutoff{}))
}

func foldActiveInjections(events []eventlog.Event) map[string]Injection {
	active := make(map[string]Injection)
	for _, event := range events {
		switch event.Kind {
		case eventlog.KindContextBoundary:
			// Working memory invalidated: everything injected before
			// this point is gone from the agent's context.
			clear(active)
		case eventlog.KindPolicyActivated:
			id, ok := event.Data["id"].(string)
			if !ok || id == "" {
				continue
			}
			payload, _ := event.Data["payload"].(string)
			active[id] = Injection{
				ID:          id,
				Payload:     payload,
				ActivatedAt: event.Timestamp,
				Position:    event.Position,
			}
		case eventlog.KindPolicyCleared:
			if id, ok := event.Data["id"].(string); ok {
				delete(active, id)
			}
		case eventlog.KindPolicyClearedAll:
			clear(active)
		}
	}
	return active
}

// CycleNumber returns the work-cycle number attached to the most
// recent in-scope event. Cycles are 1-based and session-absolute: the
// answer is 1 for a fresh session (never 0) and never resets across a
// boundary.
//
// This is a "most recent X" reducer, so it reads the bounded tail: if
// the scope has no event within the tail budget, the default of 1 is
// returned rather than forcing a full scan of a large log.
func CycleNumber(log *eventlog.Log, scope eventlog.Scope) int {
	events, found := log.TailScan(func(events []eventlog.Event) bool {
		return lastInScope(events, scope) >= 0
	})
	if !found {
		return 1
	}
	return cycleOf(events[lastInScope(events, scope)])
}

// cycleFromEvents is the full-scan twin of CycleNumber, used by
// reconstruction where the event sequence is already in hand.
func cycleFromEvents(events []eventlog.Event) int {
	if len(events) == 0 {
		return 1
	}
	return cycleOf(events[len(events)-1])
}

// cycleOf extracts the cycle number carried by an event: breadcrumb
// first, then data["cycle"] for records written by producers that
// predate breadcrumbs. Minimum 1.
func cycleOf(event eventlog.Event) int {
	if cycle := eventlog.CycleFromBreadcrumb(event.Breadcrumb); cycle >= 1 {
		return cycle
	}
	if value, ok := event.Data["cycle"].(float64); ok && value >= 1 {
		return int(value)
	}
	return 1
}

// lastInScope returns the index of the last event matching scope, or
// -1 when none does.
func lastInScope(events []eventlog.Event, scope eventlog.Scope) int {
	for i := len(events) - 1; i >= 0; i-- {
		if scope.Matches(events[i]) {
			return i
		}
	}
	return -1
}

// CompactionCount returns how many context boundaries the scope has
// seen. Session-absolute: the count only grows. The provenance flag
// distinguishes this live scan from a snapshot-served answer.
func CompactionCount(log *eventlog.Log, scope eventlog.Scope) (int, Provenance) {
	return countBoundaries(scopedEvents(log, scope, Cutoff{})), ProvenanceLiveScan
}

func countBoundaries(events []eventlog.Event) int {
	count := 0
	for _, event := range events {
		if event.Kind == eventlog.KindContextBoundary {
			count++
		}
	}
	return count
}

// AutoMode resolves whether the agent may operate autonomously.
// Three-tier precedence:
//
//  1. EnvAutoMode runtime override — confidence 1.0. The operator's
//     explicit word outranks anything the log says.
//  2. The latest enable/disable event in scope after the last
//     boundary — confidence 0.8. Session-relative: an in-context
//     agreement to run autonomously dies with the context that made
//     it.
//  3. Default to manual — confidence 0.0.
func AutoMode(log *eventlog.Log, scope eventlog.Scope) AutoModeDecision {
	if decision, ok := autoModeOverride(); ok {
		return decision
	}
	return foldAutoMode(scopedEvents(log, scope, Cutoff{}))
}

func autoModeOverride() (AutoModeDecision, bool) {
	switch strings.ToLower(os.Getenv(EnvAutoMode)) {
	case "1", "true", "on", "enabled":
		return AutoModeDecision{Enabled: true, Source: AutoModeSourceOverride, Confidence: 1.0}, true
	case "0", "false", "off", "disabled":
		return AutoModeDecision{Enabled: false, Source: AutoModeSourceOverride, Confidence: 1.0}, true
	}
	return AutoModeDecision{}, false
}

func foldAutoMode(events []eventlog.Event) AutoModeDecision {
	decision := AutoModeDecision{Source: AutoModeSourceDefault, Confidence: 0.0}
	for _, event := range events {
		switch event.Kind {
		case eventlog.KindContextBoundary:
			decision = AutoModeDecision{Source: AutoModeSourceDefault, Confidence: 0.0}
		case eventlog.KindAutoModeEnabled:
			decision = AutoModeDecision{Enabled: true, Source: AutoModeSourceEvent, Confidence: 0.8}
		case eventlog.KindAutoModeDisabled:
			decision = AutoModeDecision{Enabled: false, Source: AutoModeSourceEvent, Confidence: 0.8}
		}
	}
	return decision
}

// DetectMigration compares the most recently recorded session for the
// agent against the caller's current one. A mismatch means the agent
// was handed off from another session; the prior session ID is
// surfaced for cross-reference. Reads the bounded tail — a hand-off
// notice is a best-effort courtesy, not a correctness-critical fact.
func DetectMigration(log *eventlog.Log, scope eventlog.Scope) (migrated bool, previousSession string) {
	events, found := log.TailScan(func(events []eventlog.Event) bool {
		return lastForAgent(events, scope.AgentID) >= 0
	})
	if !found {
		return false, ""
	}
	last := events[lastForAgent(events, scope.AgentID)]
	if last.SessionID == scope.SessionID {
		return false, ""
	}
	return true, last.SessionID
}

func lastForAgent(events []eventlog.Event, agentID string) int {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].AgentID == agentID {
			return i
		}
	}
	return -1
}
