// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

// Package state derives "current" facts from the event log by pure
// replay.
//
// Each reducer is a fold over the log for one (agent_id, session_id)
// scope. Two temporal classes exist and must not be mixed up:
//
//   - Session-relative reducers (active policy injections, auto-mode)
//     answer "what is in effect in the agent's working memory right
//     now". A context boundary event invalidates that memory, so these
//     reducers ignore matching events strictly before the most recent
//     boundary in scope.
//   - Session-absolute reducers (cycle number, compaction count) are
//     monotonic counters. They only ever increase across a boundary,
//     never reset.
//
// ReconstructAt replays the same folds with every query bounded by a
// cutoff, so any historical state can be recomputed bit-identically —
// later appends never change an earlier reconstruction. A CBOR
// snapshot cache exists purely as a read-through accelerator; it is
// keyed to a digest of the log prefix it summarizes and is discarded
// whenever that digest no longer matches. The log is the only system
// of record.
package state
