// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package hookdef

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chronolog-foundation/chronolog/lib/eventlog"
)

func TestParseJSONCWithCommentsAndTrailingCommas(t *testing.T) {
	t.Parallel()

	definition, err := Parse([]byte(`{
		// override the post-tool kind
		"hooks": {
			"post-tool": {"event": "tool_observed", "data": {"team": "infra"},},
			/* silence the noisy one */
			"notification": {"disabled": true},
		},
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	kind, data, enabled := definition.Resolve(PointPostTool)
	if !enabled || kind != "tool_observed" {
		t.Errorf("Resolve(post-tool) = %q, enabled=%v; want tool_observed, true", kind, enabled)
	}
	if data["team"] != "infra" {
		t.Errorf("Resolve(post-tool) data = %v, want team=infra", data)
	}

	if _, _, enabled := definition.Resolve(PointNotification); enabled {
		t.Error("Resolve(notification) enabled = true, want disabled")
	}
}

func TestResolveUnlistedPointUsesBuiltin(t *testing.T) {
	t.Parallel()

	definition, err := Parse([]byte(`{"hooks": {"post-tool": {"disabled": true}}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	kind, data, enabled := definition.Resolve(PointPreCompact)
	if !enabled || kind != eventlog.KindContextBoundary || data != nil {
		t.Errorf("Resolve(pre-compact) = %q, %v, %v; want %s built-in, nil, true",
			kind, data, enabled, eventlog.KindContextBoundary)
	}
}

func TestNilDefinitionResolvesBuiltins(t *testing.T) {
	t.Parallel()

	var definition *Definition
	for _, point := range Points() {
		kind, _, enabled := definition.Resolve(point)
		if !enabled || kind == "" {
			t.Errorf("nil definition Resolve(%s) = %q, enabled=%v; want built-in kind, true", point, kind, enabled)
		}
	}
	if _, _, enabled := definition.Resolve("no-such-point"); enabled {
		t.Error("nil definition resolved an unknown point")
	}
}

func TestParseRejectsUnknownPoints(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"hooks": {
		"pre-tool": {},
		"on-fire": {"event": "x"},
		"post-toool": {"event": "y"}
	}}`))
	if err == nil {
		t.Fatal("Parse accepted unknown lifecycle points")
	}
	// Both problems reported in one pass.
	message := err.Error()
	if !strings.Contains(message, "on-fire") || !strings.Contains(message, "post-toool") {
		t.Errorf("error %q does not name both unknown points", message)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte(`{"hooks": [`)); err == nil {
		t.Error("Parse accepted malformed input")
	}
}

func TestOverrideKeepsBuiltinKindWhenEventOmitted(t *testing.T) {
	t.Parallel()

	definition, err := Parse([]byte(`{"hooks": {"user-prompt": {"data": {"channel": "cli"}}}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	kind, data, enabled := definition.Resolve(PointUserPrompt)
	if !enabled || kind != eventlog.KindUserPrompt {
		t.Errorf("Resolve(user-prompt) = %q, want built-in %s", kind, eventlog.KindUserPrompt)
	}
	if data["channel"] != "cli" {
		t.Errorf("data = %v, want channel=cli", data)
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hooks.jsonc")
	content := `{"hooks": {"session-end": {"disabled": true}}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing definition: %v", err)
	}

	definition, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if _, _, enabled := definition.Resolve(PointSessionEnd); enabled {
		t.Error("Resolve(session-end) enabled = true, want disabled")
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.jsonc")); err == nil {
		t.Error("ReadFile on a missing file returned nil error")
	}
}
