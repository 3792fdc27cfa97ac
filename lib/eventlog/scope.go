// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package eventlog

import "os"

// Scope pins a derived query to one (agent_id, session_id) pair.
// Every reducer takes a Scope: an agent may hand off across sessions,
// several agents may share one log file, and either way one session's
// facts must never contaminate another's answers.
type Scope struct {
	AgentID   string
	SessionID string
}

// AmbientScope builds a Scope from the environment, the same ambient
// identity the append path uses. Hook subprocesses inherit these
// variables from the host runtime, so a hook's reads and writes agree
// on identity without any argument plumbing.
func AmbientScope() Scope {
	return Scope{
		AgentID:   firstNonEmpty(os.Getenv(EnvAgentID), "unknown"),
		SessionID: firstNonEmpty(os.Getenv(EnvSessionID), "unknown"),
	}
}

// Matches reports whether the event belongs to this scope.
func (scope Scope) Matches(event Event) bool {
	return event.AgentID == scope.AgentID && event.SessionID == scope.SessionID
}
