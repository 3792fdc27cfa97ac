// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"github.com/chronolog-foundation/chronolog/lib/drive"
	"github.com/chronolog-foundation/chronolog/lib/eventlog"
)

// ReconstructAt replays every reducer over the log with all queries
// bounded by the cutoff, producing the derived state as of that point.
// Reconstruction is idempotent and referentially transparent: repeated
// calls at the same cutoff against an unmodified log (and unmodified
// runtime override environment) are identical, and appends after the
// cutoff never change the answer.
//
// The returned state's Cutoff is normalized to the position of the
// last admitted record, so the result names exactly the log prefix it
// summarizes.
func ReconstructAt(log *eventlog.Log, scope eventlog.Scope, cutoff Cutoff) State {
	events := scopedEvents(log, scope, cutoff)

	resolved := cutoff
	var prefixEnd int64
	if len(events) > 0 {
		resolved.Position = events[len(events)-1].Position
		prefixEnd = events[len(events)-1].End
	}

	autoMode, overridden := autoModeOverride()
	if !overridden {
		autoMode = foldAutoMode(events)
	}

	return State{
		Scope:            scope,
		ActiveInjections: foldActiveInjections(events),
		CycleNumber:      cycleFromEvents(events),
		CompactionCount:  countBoundaries(events),
		AutoMode:         autoMode,
		DriveStats:       drive.StatsFromEvents(events, drive.ClassAgent),
		SubdriveStats:    drive.StatsFromEvents(events, drive.ClassDelegated),
		Cutoff:           resolved,
		Provenance:       ProvenanceLiveScan,
		PrefixEnd:        prefixEnd,
	}
}

// CurrentState is ReconstructAt with the cutoff at end-of-file.
func CurrentState(log *eventlog.Log, scope eventlog.Scope) State {
	return ReconstructAt(log, scope, Cutoff{})
}
