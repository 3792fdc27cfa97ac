// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

// Package drive tracks bounded work units bracketed by paired start
// and complete events.
//
// A drive is not stored as its own entity: it is derived by
// correlating a start event with a complete event sharing a token and
// session scope. An unmatched start is a zero-duration failed drive;
// an unmatched complete is discarded. Two tracker classes exist side
// by side — the agent's own work and delegated sub-work — identical in
// algorithm, distinguished only by event-kind prefix.
package drive

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/chronolog-foundation/chronolog/lib/clock"
	"github.com/chronolog-foundation/chronolog/lib/eventlog"
	"github.com/chronolog-foundation/chronolog/lib/query"
)

// Class selects which event-kind pair a tracker reads and writes.
type Class struct {
	StartKind    string
	CompleteKind string
}

// ClassAgent tracks the agent's own work units.
var ClassAgent = Class{
	StartKind:    eventlog.KindDriveStarted,
	CompleteKind: eventlog.KindDriveCompleted,
}

// ClassDelegated tracks delegated sub-work.
var ClassDelegated = Class{
	StartKind:    eventlog.KindSubdriveStarted,
	CompleteKind: eventlog.KindSubdriveCompleted,
}

// Stats aggregates the matched drive pairs of one scope.
type Stats struct {
	// Count is the number of matched (start, complete) pairs.
	Count int `json:"count"`

	// Failed is the number of unmatched starts: drives that never
	// completed, each a zero-duration failure.
	Failed int `json:"failed"`

	// TotalDuration and AverageDuration are in seconds, over matched
	// pairs only.
	TotalDuration   float64 `json:"total_duration"`
	AverageDuration float64 `json:"average_duration"`

	// LastToken is the correlation token of the latest matched pair
	// in file order.
	LastToken string `json:"last_token"`
}

// Tracker reads and writes one class of drive events on one log.
type Tracker struct {
	log    *eventlog.Log
	class  Class
	clock  clock.Clock
	logger *slog.Logger
}

// NewTracker creates a tracker. clk may be nil for the real clock;
// logger may be nil for slog.Default().
func NewTracker(log *eventlog.Log, class Class, clk clock.Clock, logger *slog.Logger) *Tracker {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{log: log, class: class, clock: clk, logger: logger}
}

// StartOption adjusts one Start call.
type StartOption func(*startConfig)

type startConfig struct {
	token     string
	hookInput map[string]any
	extraData map[string]any
}

// WithToken supplies the correlation token. Without it, Start mints a
// UUID so that Complete never has to disambiguate by timestamp alone.
func WithToken(token string) StartOption {
	return func(config *startConfig) { config.token = token }
}

// WithHookInput attaches the verbatim trigger payload to the start
// event (start-class records carry it; completes never do).
func WithHookInput(payload map[string]any) StartOption {
	return func(config *startConfig) { config.hookInput = payload }
}

// WithData merges extra payload fields into the start event's data.
func WithData(data map[string]any) StartOption {
	return func(config *startConfig) { config.extraData = data }
}

// Start appends a start event for a new drive and reports success.
// Like every producer operation it never returns an error: a failed
// append is logged on the side channel and reported as false.
func (tracker *Tracker) Start(scope eventlog.Scope, options ...StartOption) bool {
	var config startConfig
	for _, option := range options {
		option(&config)
	}
	if config.token == "" {
		config.token = uuid.NewString()
	}

	data := map[string]any{"token": config.token}
	for key, value := range config.extraData {
		if key != "token" {
			data[key] = value
		}
	}

	appendOptions := []eventlog.AppendOption{
		eventlog.WithAgent(scope.AgentID),
		eventlog.WithSession(scope.SessionID),
	}
	if config.hookInput != nil {
		appendOptions = append(appendOptions, eventlog.WithHookInput(config.hookInput))
	}
	return tracker.log.Append(tracker.class.StartKind, data, appendOptions...)
}

// Complete locates the most recent unmatched start in scope, computes
// its duration against the current clock, and appends the complete
// event carrying the start's token and the duration. With no unmatched
// start it returns (false, 0.0) and appends nothing — a complete
// without a start is a logical no-op, not an error.
func (tracker *Tracker) Complete(scope eventlog.Scope) (bool, float64) {
	start, found := tracker.lastUnmatchedStart(scope)
	if !found {
		return false, 0.0
	}

	duration := float64(tracker.clock.Now().UnixNano())/1e9 - start.Timestamp
	if duration < 0 {
		// Clock skew between the starting and completing process.
		// Record zero rather than a negative duration.
		duration = 0
	}

	token, _ := start.Data["token"].(string)
	ok := tracker.log.Append(tracker.class.CompleteKind, map[string]any{
		"token":    token,
		"duration": duration,
	},
		eventlog.WithAgent(scope.AgentID),
		eventlog.WithSession(scope.SessionID),
	)
	if !ok {
		return false, 0.0
	}
	return true, duration
}

// Stats folds the scope's matched pairs into aggregate statistics.
func (tracker *Tracker) Stats(scope eventlog.Scope) Stats {
	return StatsFromEvents(tracker.scopedEvents(scope), tracker.class)
}

// StatsFromEvents computes drive statistics for one class from an
// already-filtered event sequence in file order. Point-in-time
// reconstruction uses this directly so that drive stats replay under
// the same cutoff as every other reducer.
func StatsFromEvents(events []eventlog.Event, class Class) Stats {
	var stats Stats

	// A token may be reused by a sloppy producer, so each token holds a
	// stack of open starts; a complete claims the most recent, the same
	// rule lastUnmatchedStart applies. Starts left on any stack at the
	// end are the failures.
	unmatched := make(map[string][]eventlog.Event)

	for _, event := range events {
		token, _ := event.Data["token"].(string)
		switch event.Kind {
		case class.StartKind:
			if token != "" {
				unmatched[token] = append(unmatched[token], event)
			} else {
				// A start without a token can never be matched.
				stats.Failed++
			}
		case class.CompleteKind:
			open := unmatched[token]
			if len(open) == 0 {
				// Unmatched complete: discarded.
				continue
			}
			start := open[len(open)-1]
			unmatched[token] = open[:len(open)-1]
			stats.Count++
			stats.TotalDuration += pairDuration(start, event)
			stats.LastToken = token
		}
	}

	for _, open := range unmatched {
		stats.Failed += len(open)
	}
	if stats.Count > 0 {
		stats.AverageDuration = stats.TotalDuration / float64(stats.Count)
	}
	return stats
}

// pairDuration prefers the duration the completing process recorded
// (computed from its own clock against the start timestamp); a
// complete lacking one falls back to the timestamp difference.
func pairDuration(start, complete eventlog.Event) float64 {
	if duration, ok := complete.Data["duration"].(float64); ok && duration >= 0 {
		return duration
	}
	duration := complete.Timestamp - start.Timestamp
	if duration < 0 {
		return 0
	}
	return duration
}

// lastUnmatchedStart returns the in-scope start event latest in file
// order whose token no complete has claimed.
func (tracker *Tracker) lastUnmatchedStart(scope eventlog.Scope) (eventlog.Event, bool) {
	events := tracker.scopedEvents(scope)

	claimed := make(map[string]int)
	for _, event := range events {
		if event.Kind == tracker.class.CompleteKind {
			if token, ok := event.Data["token"].(string); ok && token != "" {
				claimed[token]++
			}
		}
	}

	for i := len(events) - 1; i >= 0; i-- {
		event := events[i]
		if event.Kind != tracker.class.StartKind {
			continue
		}
		token, _ := event.Data["token"].(string)
		if token == "" {
			continue
		}
		if claimed[token] > 0 {
			claimed[token]--
			continue
		}
		return event, true
	}
	return eventlog.Event{}, false
}

func (tracker *Tracker) scopedEvents(scope eventlog.Scope) []eventlog.Event {
	return query.Events(tracker.log, query.Predicate{
		Kinds:     []string{tracker.class.StartKind, tracker.class.CompleteKind},
		AgentID:   scope.AgentID,
		SessionID: scope.SessionID,
	})
}
