// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chronolog-foundation/chronolog/lib/config"
	"github.com/chronolog-foundation/chronolog/lib/eventlog"
	"github.com/chronolog-foundation/chronolog/lib/hookdef"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// hookEnv points the hook at a fresh log with the given ambient
// identity, and clears the config override.
func hookEnv(t *testing.T, agentID, sessionID string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	t.Setenv(eventlog.EnvLogPath, path)
	t.Setenv(eventlog.EnvAgentID, agentID)
	t.Setenv(eventlog.EnvSessionID, sessionID)
	t.Setenv(config.EnvConfig, "")
	return path
}

func TestSessionStartPrintsHandOffNotice(t *testing.T) {
	path := hookEnv(t, "main", "old-session")

	// The prior session's last fact for this agent.
	seed := eventlog.Open(eventlog.WithPath(path))
	if !seed.Append(eventlog.KindUserPrompt, nil) {
		t.Fatal("seeding append failed")
	}

	// The runtime hands the agent to a new session and fires the
	// session-start hook.
	t.Setenv(eventlog.EnvSessionID, "new-session")
	var out strings.Builder
	run(hookdef.PointSessionStart, strings.NewReader(`{"source":"startup"}`), &out, quietLogger())

	if !strings.Contains(out.String(), "prior session old-session") {
		t.Errorf("session-start hook printed %q; want a hand-off notice naming old-session", out.String())
	}

	events := eventlog.Open(eventlog.WithPath(path)).ReadEvents(0)
	if len(events) != 2 {
		t.Fatalf("log holds %d records, want 2 (seed + session_start)", len(events))
	}
	recorded := events[1]
	if recorded.Kind != eventlog.KindSessionStart || recorded.SessionID != "new-session" {
		t.Errorf("recorded %s in session %s, want %s in new-session",
			recorded.Kind, recorded.SessionID, eventlog.KindSessionStart)
	}
	if recorded.HookInput["source"] != "startup" {
		t.Errorf("HookInput = %v, want the verbatim trigger payload", recorded.HookInput)
	}
}

func TestSessionStartSameSessionStaysSilent(t *testing.T) {
	path := hookEnv(t, "main", "s-1")

	seed := eventlog.Open(eventlog.WithPath(path))
	seed.Append(eventlog.KindUserPrompt, nil)

	var out strings.Builder
	run(hookdef.PointSessionStart, strings.NewReader(""), &out, quietLogger())

	if out.String() != "" {
		t.Errorf("session-start in an unchanged session printed %q, want nothing", out.String())
	}
}

func TestPayloadOnlyOnStartClassRecords(t *testing.T) {
	path := hookEnv(t, "main", "s-1")

	var out strings.Builder
	run(hookdef.PointPostTool, strings.NewReader(`{"tool":"search"}`), &out, quietLogger())

	events := eventlog.Open(eventlog.WithPath(path)).ReadEvents(0)
	if len(events) != 1 {
		t.Fatalf("log holds %d records, want 1", len(events))
	}
	if events[0].Kind != eventlog.KindToolPost {
		t.Errorf("recorded kind %s, want %s", events[0].Kind, eventlog.KindToolPost)
	}
	if events[0].HookInput != nil {
		t.Errorf("tool_post carries hook_input %v; only start-class records keep the payload", events[0].HookInput)
	}
	if events[0].Data["point"] != hookdef.PointPostTool {
		t.Errorf("Data[point] = %v, want %s", events[0].Data["point"], hookdef.PointPostTool)
	}
}

func TestDisabledPointRecordsNothing(t *testing.T) {
	path := hookEnv(t, "main", "s-1")

	dir := t.TempDir()
	hooksPath := filepath.Join(dir, "hooks.jsonc")
	if err := os.WriteFile(hooksPath, []byte(`{"hooks": {"notification": {"disabled": true}}}`), 0o644); err != nil {
		t.Fatalf("writing hook definition: %v", err)
	}
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("paths:\n  hooks: "+hooksPath+"\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv(config.EnvConfig, configPath)

	var out strings.Builder
	run(hookdef.PointNotification, strings.NewReader(""), &out, quietLogger())

	if events := eventlog.Open(eventlog.WithPath(path)).ReadEvents(0); len(events) != 0 {
		t.Errorf("disabled point appended %d records, want 0", len(events))
	}
}

func TestUnknownPointRecordsNothing(t *testing.T) {
	path := hookEnv(t, "main", "s-1")

	var out strings.Builder
	run("no-such-point", strings.NewReader(""), &out, quietLogger())

	if events := eventlog.Open(eventlog.WithPath(path)).ReadEvents(0); len(events) != 0 {
		t.Errorf("unknown point appended %d records, want 0", len(events))
	}
}

func TestGarbagePayloadTolerated(t *testing.T) {
	path := hookEnv(t, "main", "s-1")

	var out strings.Builder
	run(hookdef.PointSessionStart, strings.NewReader("not json {{{"), &out, quietLogger())

	events := eventlog.Open(eventlog.WithPath(path)).ReadEvents(0)
	if len(events) != 1 {
		t.Fatalf("log holds %d records, want 1 despite the garbage payload", len(events))
	}
	if events[0].HookInput != nil {
		t.Errorf("HookInput = %v, want none for an unparseable payload", events[0].HookInput)
	}
}
