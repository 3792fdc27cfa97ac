// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

// Package eventlog implements the durable append-only record of agent
// facts and its two read paths.
//
// One event is one UTF-8 JSON object on one line of the log file
// (JSON Lines). Lines are never edited or deleted; all "current
// state" is recomputed by folding over the log, possibly by a
// different process than the one that recorded the facts. The wire
// format, path resolution, crash-atomic append discipline, and the
// full-scan and bounded tail-scan readers live here; predicate
// filtering is in lib/query and the derived-state reducers in
// lib/state.
//
// Concurrency model: producers are independent short-lived OS
// processes. Each append is a single whole-line write to an O_APPEND
// descriptor, which the platform guarantees is not interleaved with
// other writers at this size — so every possible interleaving of
// concurrent appends still parses as a sequence of valid (or
// individually skippable) lines, and no lock file is needed.
package eventlog
