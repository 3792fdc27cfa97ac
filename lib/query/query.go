// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

// Package query implements predicate filtering over the event log.
//
// Matching is pure and side-effect-free: a predicate is a value, and
// Events returns the records it admits in file order. No match, an
// empty log, or a missing log file all produce an empty slice, never
// an error — every derived fact downstream of a query has a total,
// default-producing answer.
package query

import (
	"slices"

	"github.com/chronolog-foundation/chronolog/lib/eventlog"
)

// Predicate selects events by equality and range filters. The zero
// value matches everything; each set field narrows the match.
type Predicate struct {
	// Kinds admits only the listed event kinds. Empty means any kind.
	Kinds []string

	// SessionID and AgentID pin the scope. Derived queries always set
	// both — cross-session contamination is the one mistake the data
	// model exists to prevent.
	SessionID string
	AgentID   string

	// Cycle matches the c_ component of the breadcrumb. Zero means
	// any cycle (cycle numbers are 1-based).
	Cycle int

	// MinTimestamp and MaxTimestamp bound the event timestamp in
	// seconds since the epoch. Zero means unbounded on that side.
	MinTimestamp float64
	MaxTimestamp float64

	// MaxPosition admits only records whose line starts at or before
	// this byte offset. Zero means unbounded. This is the cutoff
	// mechanism for point-in-time reconstruction: position is the
	// definite order, timestamps are advisory.
	MaxPosition int64
}

// Matches reports whether the predicate admits the event.
func (p Predicate) Matches(event eventlog.Event) bool {
	if len(p.Kinds) > 0 && !slices.Contains(p.Kinds, event.Kind) {
		return false
	}
	if p.SessionID != "" && event.SessionID != p.SessionID {
		return false
	}
	if p.AgentID != "" && event.AgentID != p.AgentID {
		return false
	}
	if p.Cycle > 0 && eventlog.CycleFromBreadcrumb(event.Breadcrumb) != p.Cycle {
		return false
	}
	if p.MinTimestamp > 0 && event.Timestamp < p.MinTimestamp {
		return false
	}
	if p.MaxTimestamp > 0 && event.Timestamp > p.MaxTimestamp {
		return false
	}
	if p.MaxPosition > 0 && event.Position > p.MaxPosition {
		return false
	}
	return true
}

// Events scans the log and returns the records the predicate admits,
// in file order.
func Events(log *eventlog.Log, predicate Predicate) []eventlog.Event {
	var matched []eventlog.Event
	for _, event := range log.ReadEvents(0) {
		if predicate.Matches(event) {
			matched = append(matched, event)
		}
	}
	return matched
}
