// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"reflect"
	"testing"

	"github.com/chronolog-foundation/chronolog/lib/eventlog"
)

// seedSession writes a representative session history and returns the
// position of the record just before the final boundary, so tests can
// reconstruct "mid-session" as well as "now".
func seedSession(t *testing.T, log *eventlog.Log, scope eventlog.Scope) (midCutoff Cutoff) {
	t.Helper()
	appendFor(t, log, scope, eventlog.KindSessionStart, nil)
	appendFor(t, log, scope, eventlog.KindPolicyActivated, map[string]any{"id": "A", "payload": "v1"})
	appendFor(t, log, scope, eventlog.KindAutoModeEnabled, nil)
	appendFor(t, log, scope, eventlog.KindDriveStarted, map[string]any{"token": "d-1"})
	appendFor(t, log, scope, eventlog.KindDriveCompleted, map[string]any{"token": "d-1", "duration": 2.5})

	events := log.ReadEvents(0)
	midCutoff = Cutoff{Position: events[len(events)-1].Position}

	appendFor(t, log, scope, eventlog.KindContextBoundary, nil)
	appendFor(t, log, scope, eventlog.KindPolicyActivated, map[string]any{"id": "B", "payload": "post"})
	return midCutoff
}

func TestCurrentStateReflectsWholeLog(t *testing.T) {
	t.Setenv(EnvAutoMode, "")

	log, scope := scopedLog(t)
	seedSession(t, log, scope)

	current := CurrentState(log, scope)
	if len(current.ActiveInjections) != 1 || current.ActiveInjections["B"].Payload != "post" {
		t.Errorf("ActiveInjections = %v, want only B (A died at the boundary)", current.ActiveInjections)
	}
	if current.CompactionCount != 1 {
		t.Errorf("CompactionCount = %d, want 1", current.CompactionCount)
	}
	if current.AutoMode.Enabled {
		t.Errorf("AutoMode = %+v, want disabled after the boundary", current.AutoMode)
	}
	if current.DriveStats.Count != 1 || current.DriveStats.Failed != 0 {
		t.Errorf("DriveStats = %+v, want one completed drive", current.DriveStats)
	}
	if current.Provenance != ProvenanceLiveScan {
		t.Errorf("Provenance = %s, want %s", current.Provenance, ProvenanceLiveScan)
	}
	if current.PrefixEnd == 0 {
		t.Error("PrefixEnd = 0, want the end offset of the last record")
	}
}

func TestReconstructAtMidSessionCutoff(t *testing.T) {
	t.Setenv(EnvAutoMode, "")

	log, scope := scopedLog(t)
	midCutoff := seedSession(t, log, scope)

	mid := ReconstructAt(log, scope, midCutoff)
	if len(mid.ActiveInjections) != 1 || mid.ActiveInjections["A"].Payload != "v1" {
		t.Errorf("mid-session ActiveInjections = %v, want only A=v1", mid.ActiveInjections)
	}
	if mid.CompactionCount != 0 {
		t.Errorf("mid-session CompactionCount = %d, want 0 (boundary is after the cutoff)", mid.CompactionCount)
	}
	if !mid.AutoMode.Enabled || mid.AutoMode.Source != AutoModeSourceEvent {
		t.Errorf("mid-session AutoMode = %+v, want enabled/event", mid.AutoMode)
	}
	if mid.Cutoff.Position != midCutoff.Position {
		t.Errorf("resolved cutoff = %d, want %d (last admitted record)", mid.Cutoff.Position, midCutoff.Position)
	}
}

func TestReconstructionIsIdempotent(t *testing.T) {
	t.Setenv(EnvAutoMode, "")

	log, scope := scopedLog(t)
	midCutoff := seedSession(t, log, scope)

	first := ReconstructAt(log, scope, midCutoff)
	second := ReconstructAt(log, scope, midCutoff)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated reconstruction diverged:\n first: %+v\nsecond: %+v", first, second)
	}
}

func TestReconstructionTemporallyStable(t *testing.T) {
	t.Setenv(EnvAutoMode, "")

	log, scope := scopedLog(t)
	midCutoff := seedSession(t, log, scope)

	before := ReconstructAt(log, scope, midCutoff)

	// Appends after the cutoff must not change the answer.
	appendFor(t, log, scope, eventlog.KindPolicyClearedAll, nil)
	appendFor(t, log, scope, eventlog.KindContextBoundary, nil)
	appendFor(t, log, scope, eventlog.KindAutoModeDisabled, nil)

	after := ReconstructAt(log, scope, midCutoff)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("reconstruction at a fixed cutoff changed after later appends:\nbefore: %+v\n after: %+v", before, after)
	}
}

func TestReconstructAtTimestampCutoff(t *testing.T) {
	t.Setenv(EnvAutoMode, "")

	log, scope := scopedLog(t)
	seedSession(t, log, scope)
	events := log.ReadEvents(0)

	// Cut at the timestamp of the drive completion: the boundary and
	// everything after it are excluded.
	cutTime := events[4].Timestamp
	reconstructed := ReconstructAt(log, scope, Cutoff{Timestamp: cutTime})
	if reconstructed.CompactionCount != 0 {
		t.Errorf("CompactionCount at timestamp cutoff = %d, want 0", reconstructed.CompactionCount)
	}
	if _, ok := reconstructed.ActiveInjections["A"]; !ok {
		t.Errorf("ActiveInjections at timestamp cutoff = %v, want A present", reconstructed.ActiveInjections)
	}
}

func TestReconstructEmptyScope(t *testing.T) {
	t.Setenv(EnvAutoMode, "")

	log, scope := scopedLog(t)
	seedSession(t, log, scope)

	// A scope with no events gets the fresh-session defaults even when
	// the log is busy with other scopes.
	empty := CurrentState(log, eventlog.Scope{AgentID: "nobody", SessionID: "s-x"})
	if len(empty.ActiveInjections) != 0 || empty.CycleNumber != 1 ||
		empty.CompactionCount != 0 || empty.AutoMode.Enabled {
		t.Errorf("state for an unseen scope = %+v, want fresh defaults", empty)
	}
	if empty.PrefixEnd != 0 {
		t.Errorf("PrefixEnd for an unseen scope = %d, want 0", empty.PrefixEnd)
	}
}
