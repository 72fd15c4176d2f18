// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot is an archived capture of one persistent block.
// CBOR keys are small integers to keep stored snapshots compact.
type Snapshot struct {
	CapturedAt time.Time `cbor:"0,keyasint"`
	Source     string    `cbor:"1,keyasint"` // file name or device label
	Schema     string    `cbor:"2,keyasint"`
	Raw        []byte    `cbor:"3,keyasint"` // exactly the schema-sized record bytes
	Note       string    `cbor:"4,keyasint,omitempty"`
}

// NewSnapshot captures r as it is now
func NewSnapshot(r *Record, source string, capturedAt time.Time) (*Snapshot, error) {
	raw, err := r.Encode()
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		CapturedAt: capturedAt.UTC(),
		Source:     source,
		Schema:     r.Schema.String(),
		Raw:        raw,
	}, nil
}

// Record decodes the archived bytes back into a record
func (s *Snapshot) Record() (*Record, error) {
	schema, err := ParseSchema(s.Schema)
	if err != nil {
		return nil, err
	}
	return Decode(s.Raw, schema)
}

var snapshotEncMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("persistent: cbor enc mode: %v", err))
	}
	return em
}()

// MarshalSnapshot encodes a snapshot as deterministic CBOR
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	data, err := snapshotEncMode.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes a snapshot produced by MarshalSnapshot
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &s, nil
}
