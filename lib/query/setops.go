// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"cmp"
	"slices"

	"github.com/chronolog-foundation/chronolog/lib/eventlog"
)

// SetOp is a set operation over two query results correlated by a
// data key.
type SetOp string

const (
	// Union keeps correlation keys present in either result.
	Union SetOp = "union"

	// Difference keeps keys present in the first result but not the
	// second. This is the primitive behind the active set:
	// activated − cleared.
	Difference SetOp = "difference"

	// Intersection keeps keys present in both results.
	Intersection SetOp = "intersection"
)

// SetOperation runs both queries and composes them by the string
// value of data[key]. The result contains, per surviving correlation
// key, the latest (by file position) event from the first query's
// result — "latest wins" is the same rule the active-set fold uses.
// Events without a string value under key never correlate and are
// dropped. Results come back in file order of the surviving events.
func SetOperation(log *eventlog.Log, first, second Predicate, op SetOp, key string) []eventlog.Event {
	switch op {
	case Union, Difference, Intersection:
	default:
		// Unknown operation: empty result, same total behavior as an
		// unmatched predicate.
		return nil
	}

	firstByKey := latestByKey(Events(log, first), key)
	secondByKey := latestByKey(Events(log, second), key)

	var survivors []eventlog.Event
	for correlation, event := range firstByKey {
		_, inSecond := secondByKey[correlation]
		keep := false
		switch op {
		case Union:
			keep = true
		case Difference:
			keep = !inSecond
		case Intersection:
			keep = inSecond
		}
		if keep {
			survivors = append(survivors, event)
		}
	}
	if op == Union {
		for correlation, event := range secondByKey {
			if _, inFirst := firstByKey[correlation]; !inFirst {
				survivors = append(survivors, event)
			}
		}
	}

	slices.SortFunc(survivors, func(a, b eventlog.Event) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return survivors
}

// latestByKey folds events into a map keyed by data[key], keeping the
// event latest in file order for each key.
func latestByKey(events []eventlog.Event, key string) map[string]eventlog.Event {
	byKey := make(map[string]eventlog.Event)
	for _, event := range events {
		correlation, ok := event.Data[key].(string)
		if !ok || correlation == "" {
			continue
		}
		byKey[correlation] = event
	}
	return byKey
}
