// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

// Package hookdef parses lifecycle-hook definition files.
//
// The host runtime invokes chronolog-hook at fixed lifecycle points.
// Each point maps to an event kind plus optional static data fields;
// the built-in mapping covers every point, and a JSONC definition file
// (JSON extended with // comments, /* blocks */, and trailing commas)
// can override individual points or disable them. A typical file:
//
//	{
//	  "hooks": {
//	    // record tool results under a project-specific kind
//	    "post-tool": {"event": "tool_observed", "data": {"team": "infra"}},
//	    "notification": {"disabled": true},
//	  }
//	}
package hookdef

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/chronolog-foundation/chronolog/lib/eventlog"
)

// Lifecycle points the host runtime invokes hooks at.
const (
	PointSessionStart = "session-start"
	PointSessionEnd   = "session-end"
	PointPreTool      = "pre-tool"
	PointPostTool     = "post-tool"
	PointUserPrompt   = "user-prompt"
	PointSubagentStop = "subagent-stop"
	PointPreCompact   = "pre-compact"
	PointPermission   = "permission"
	PointNotification = "notification"
)

// defaultKinds is the built-in point-to-kind mapping. pre-compact maps
// to the context boundary kind: imminent memory truncation is exactly
// the fact the boundary event records.
var defaultKinds = map[string]string{
	PointSessionStart: eventlog.KindSessionStart,
	PointSessionEnd:   eventlog.KindSessionEnd,
	PointPreTool:      eventlog.KindToolPre,
	PointPostTool:     eventlog.KindToolPost,
	PointUserPrompt:   eventlog.KindUserPrompt,
	PointSubagentStop: eventlog.KindSubagentStop,
	PointPreCompact:   eventlog.KindContextBoundary,
	PointPermission:   eventlog.KindPermissionRequest,
	PointNotification: eventlog.KindNotification,
}

// Definition is a parsed hook definition file.
type Definition struct {
	// Hooks maps lifecycle points to overrides. Points not listed use
	// the built-in mapping.
	Hooks map[string]Hook `json:"hooks"`
}

// Hook overrides one lifecycle point.
type Hook struct {
	// Event replaces the built-in event kind. Empty keeps the
	// built-in.
	Event string `json:"event,omitempty"`

	// Data fields are merged into every event recorded at this point.
	// Producer-supplied fields win on collision.
	Data map[string]any `json:"data,omitempty"`

	// Disabled suppresses recording at this point entirely.
	Disabled bool `json:"disabled,omitempty"`
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals and validates the result.
func Parse(data []byte) (*Definition, error) {
	stripped := jsonc.ToJSON(data)

	var definition Definition
	if err := json.Unmarshal(stripped, &definition); err != nil {
		return nil, fmt.Errorf("parsing hook definition: %w", err)
	}
	if err := definition.validate(); err != nil {
		return nil, err
	}
	return &definition, nil
}

// ReadFile reads and parses a JSONC hook definition file.
func ReadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	definition, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return definition, nil
}

// validate rejects unknown lifecycle points. Every problem is
// reported in one error so the author fixes the file in one pass.
func (definition *Definition) validate() error {
	var problems []string
	for point := range definition.Hooks {
		if _, known := defaultKinds[point]; !known {
			problems = append(problems, fmt.Sprintf("unknown lifecycle point %q", point))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("hook definition: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Resolve returns the event kind and static data for a lifecycle
// point, honoring overrides. enabled is false when the point is
// disabled or unknown. A nil Definition resolves every known point to
// its built-in mapping.
func (definition *Definition) Resolve(point string) (kind string, data map[string]any, enabled bool) {
	kind, known := defaultKinds[point]
	if !known {
		return "", nil, false
	}

	if definition == nil {
		return kind, nil, true
	}
	hook, overridden := definition.Hooks[point]
	if !overridden {
		return kind, nil, true
	}
	if hook.Disabled {
		return "", nil, false
	}
	if hook.Event != "" {
		kind = hook.Event
	}
	return kind, hook.Data, true
}

// Points returns all known lifecycle points, for usage output.
func Points() []string {
	return []string{
		PointSessionStart, PointSessionEnd, PointPreTool, PointPostTool,
		PointUserPrompt, PointSubagentStop, PointPreCompact,
		PointPermission, PointNotification,
	}
}
