// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for chronolog packages.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer. Use this instead of time.Now()
// when tests need distinguishable session or correlation identifiers.
//
//	session := testutil.UniqueID("session")  // "session-1", "session-2", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}

// LogPath returns a path for a fresh event log inside a per-test
// temporary directory. The file does not exist yet — appending creates
// it, which is exactly the state a first-ever producer process sees.
func LogPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "events.jsonl")
}

// WriteRawLines writes pre-formatted lines (valid records, garbage, or
// a mix) to path, one per slice element, each terminated by a newline.
// Used by corruption-tolerance tests that need byte-exact control over
// file contents.
func WriteRawLines(t *testing.T, path string, lines []string) {
	t.Helper()
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer file.Close()
	for _, line := range lines {
		if _, err := file.WriteString(line + "\n"); err != nil {
			t.Fatalf("writing line to %s: %v", path, err)
		}
	}
}
