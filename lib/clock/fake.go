// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// Fake returns a FakeClock initialized to the given time. Time stands
// still until Advance is called. Sleep returns immediately — chronolog
// sleeps only in retry backoff loops, and tests want those loops to
// run at full speed while still observing the advancing timestamps.
//
// FakeClock is safe for concurrent use by multiple goroutines.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock for testing. Time advances only
// when Advance is called.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time

	// slept accumulates the total duration passed to Sleep, so tests
	// can assert that a backoff loop respected its overall cap.
	slept time.Duration
}

// Now returns the fake current time.
func (clock *FakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

// Sleep records the requested duration and returns immediately. The
// clock does NOT auto-advance: a loop that alternates Sleep and Now
// observes frozen time unless the test calls Advance.
func (clock *FakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.slept += d
}

// Advance moves the fake clock forward by d.
func (clock *FakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.current = clock.current.Add(d)
}

// Slept returns the total duration requested via Sleep so far.
func (clock *FakeClock) Slept() time.Duration {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.slept
}
