// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/chronolog-foundation/chronolog/lib/codec"
	"github.com/chronolog-foundation/chronolog/lib/eventlog"
)

// Snapshot is the on-disk form of a cached derived state. It is a
// read-through accelerator keyed by (scope, log prefix): the Digest
// field is a BLAKE3 hash of the log bytes [0, PrefixEnd), and a loaded
// snapshot is usable only while a re-hash of the same prefix still
// matches. It is never the system of record — any failure, mismatch,
// or doubt degrades to a live scan.
type Snapshot struct {
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
	PrefixEnd int64  `json:"prefix_end"`
	Digest    string `json:"digest"`
	State     State  `json:"state"`
}

// SnapshotPath returns the snapshot file path for a scope under dir.
// Scope components are sanitized so arbitrary session identifiers
// cannot escape the directory.
func SnapshotPath(dir string, scope eventlog.Scope) string {
	name := fmt.Sprintf("state-%s-%s.cbor", sanitize(scope.AgentID), sanitize(scope.SessionID))
	return filepath.Join(dir, name)
}

func sanitize(component string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '.'
	}, component)
}

// SaveSnapshot writes the state as a deterministic CBOR snapshot file
// under dir. The write goes through a temp file and rename so a
// concurrent loader never sees a half-written snapshot.
func SaveSnapshot(dir string, log *eventlog.Log, snapshotState State) error {
	digest, err := digestPrefix(log.Path(), snapshotState.PrefixEnd)
	if err != nil {
		return fmt.Errorf("digesting log prefix: %w", err)
	}

	snapshot := Snapshot{
		AgentID:   snapshotState.Scope.AgentID,
		SessionID: snapshotState.Scope.SessionID,
		PrefixEnd: snapshotState.PrefixEnd,
		Digest:    digest,
		State:     snapshotState,
	}

	data, err := codec.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	path := SnapshotPath(dir, snapshotState.Scope)
	temp, err := os.CreateTemp(dir, ".state-*.cbor.tmp")
	if err != nil {
		return fmt.Errorf("creating snapshot temp file: %w", err)
	}
	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(temp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(temp.Name())
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(temp.Name(), path); err != nil {
		os.Remove(temp.Name())
		return fmt.Errorf("installing snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the cached state for a scope if, and only if,
// the stored digest still matches a re-hash of the same log prefix.
// Everything else — no file, decode failure, digest mismatch, a log
// shorter than the recorded prefix — returns ok=false and the caller
// falls back to a live scan. The returned state carries
// ProvenanceSnapshot so consumers can tell a cached answer apart.
func LoadSnapshot(dir string, log *eventlog.Log, scope eventlog.Scope) (State, bool) {
	data, err := os.ReadFile(SnapshotPath(dir, scope))
	if err != nil {
		return State{}, false
	}

	var snapshot Snapshot
	if err := codec.Unmarshal(data, &snapshot); err != nil {
		return State{}, false
	}
	if snapshot.AgentID != scope.AgentID || snapshot.SessionID != scope.SessionID {
		return State{}, false
	}

	digest, err := digestPrefix(log.Path(), snapshot.PrefixEnd)
	if err != nil || digest != snapshot.Digest {
		return State{}, false
	}

	snapshotState := snapshot.State
	snapshotState.Scope = scope
	snapshotState.Provenance = ProvenanceSnapshot
	return snapshotState, true
}

// CompactionCountCached answers the compaction count through the
// snapshot when one is valid for the scope, falling back to a live
// scan. The provenance flag tells the caller which it got; a caller
// that needs the count as of this instant (rather than as of the
// snapshot's prefix) uses CompactionCount directly.
func CompactionCountCached(dir string, log *eventlog.Log, scope eventlog.Scope) (int, Provenance) {
	if snapshot, ok := LoadSnapshot(dir, log, scope); ok {
		return snapshot.CompactionCount, ProvenanceSnapshot
	}
	return CompactionCount(log, scope)
}

// digestPrefix hashes the first n bytes of the file with BLAKE3. A
// file shorter than n is an error: the prefix the snapshot described
// no longer exists.
func digestPrefix(path string, n int64) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening log: %w", err)
	}
	defer file.Close()

	hasher := blake3.New()
	copied, err := io.Copy(hasher, io.LimitReader(file, n))
	if err != nil {
		return "", fmt.Errorf("hashing log prefix: %w", err)
	}
	if copied != n {
		return "", fmt.Errorf("log prefix is %d bytes, snapshot describes %d", copied, n)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
