// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

func TestMarshalIsDeterministic(t *testing.T) {
	t.Parallel()

	// Map iteration order varies run to run; deterministic encoding
	// must not.
	value := map[string]any{"zebra": 1, "alpha": 2, "mid": 3, "nested": map[string]any{"b": 1, "a": 2}}
	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("repeated Marshal of the same value produced different bytes")
		}
	}
}

func TestUnmarshalDefaultsToStringKeyedMaps(t *testing.T) {
	t.Parallel()

	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": "value"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if _, ok := outer["outer"].(map[string]any); !ok {
		t.Fatalf("nested type = %T, want map[string]any", outer["outer"])
	}
}

func TestDiagnose(t *testing.T) {
	t.Parallel()

	data, err := Marshal(map[string]any{"count": 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, "count") {
		t.Errorf("diagnostic notation %q does not mention the key", notation)
	}

	if _, err := Diagnose([]byte{0xff, 0x00, 0x01}); err == nil {
		t.Error("Diagnose accepted malformed CBOR")
	}
}
