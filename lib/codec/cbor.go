// Copyright 2026 The Chronolog Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides chronolog's deterministic CBOR encoding.
// Snapshot files are encoded with Core Deterministic Encoding so that
// the same derived state always produces identical bytes — a snapshot
// can be compared or digested without a canonicalization pass.
package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR.
// Unknown fields are silently ignored, so older binaries can read
// snapshots written by newer ones.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Snapshot payloads carry map[string]any event data. The CBOR
		// default for any-typed targets is map[interface{}]interface{}
		// (CBOR allows non-string keys), which is incompatible with
		// encoding/json and the rest of the event pipeline. Chronolog
		// never writes non-string keys, so decode them as
		// map[string]any. Struct field decoding is unaffected.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for the
// entire contents of data. Used by "chronolog snapshot show" to render
// a snapshot file without hand-writing a decoder for every field.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
