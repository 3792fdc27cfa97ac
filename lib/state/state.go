// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"github.com/chronolog-foundation/chronolog/lib/drive"
	"github.com/chronolog-foundation/chronolog/lib/eventlog"
)

// Provenance says how a derived answer was produced. Cached answers
// are advisory: any consumer that must be correct re-derives from a
// live scan.
type Provenance string

const (
	// ProvenanceLiveScan means the answer was folded from the log in
	// this call.
	ProvenanceLiveScan Provenance = "live_scan"

	// ProvenanceSnapshot means the answer came from a snapshot file
	// whose log-prefix digest still matched.
	ProvenanceSnapshot Provenance = "snapshot"
)

// Cutoff bounds a reconstruction. Position is the definite order (byte
// offset of the last admitted record's line); Timestamp is accepted
// for callers that only have wall-clock coordinates. When both are
// set, Position wins. The zero Cutoff means end-of-file.
type Cutoff struct {
	Position  int64   `json:"position,omitempty"`
	Timestamp float64 `json:"timestamp,omitempty"`
}

// Injection is one active policy injection: a guidance document
// currently in effect for the session.
type Injection struct {
	// ID names the document.
	ID string `json:"id"`

	// Payload is the latest content reference recorded for it.
	// Re-activation replaces this (latest in file order wins).
	Payload string `json:"payload"`

	// ActivatedAt is the timestamp of the winning activation.
	ActivatedAt float64 `json:"activated_at"`

	// Position is the file position of the winning activation.
	Position int64 `json:"position"`
}

// AutoModeDecision is the three-tier auto-mode answer. Confidence is
// informational only — callers branch on Enabled, and Source explains
// the decision to a human.
type AutoModeDecision struct {
	Enabled    bool    `json:"enabled"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// Auto-mode decision sources, highest precedence first.
const (
	// AutoModeSourceOverride: the runtime env override decided.
	AutoModeSourceOverride = "override"

	// AutoModeSourceEvent: an explicit enable/disable event in scope
	// (after the last boundary) decided.
	AutoModeSourceEvent = "event"

	// AutoModeSourceDefault: nothing in scope; manual operation.
	AutoModeSourceDefault = "default"
)

// State is a full derived-state view at one cutoff.
type State struct {
	Scope            eventlog.Scope       `json:"-"`
	ActiveInjections map[string]Injection `json:"active_injections"`
	CycleNumber      int                  `json:"cycle_number"`
	CompactionCount  int                  `json:"compaction_count"`
	AutoMode         AutoModeDecision     `json:"auto_mode"`
	DriveStats       drive.Stats          `json:"drive_stats"`
	SubdriveStats    drive.Stats          `json:"subdrive_stats"`
	Cutoff           Cutoff               `json:"cutoff"`
	Provenance       Provenance           `json:"provenance"`

	// PrefixEnd is the byte offset just past the last admitted record:
	// the exact log prefix this state summarizes. The snapshot cache
	// digests [0, PrefixEnd) to detect a log that no longer matches.
	PrefixEnd int64 `json:"prefix_end"`
}
