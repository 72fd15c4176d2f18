// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import (
	"encoding/binary"
	"fmt"
)

// Record is the decoded persistent data block.
// Only the codec constructs one from bytes; field values are passed through
// unchecked (see ValidateRecord for anomaly detection).
type Record struct {
	Schema Schema

	ProgrammedTime TimeBlock // set at the programming station, never changed
	LaunchedTime   TimeBlock // set when the trigger pin is pulled

	InitializedFlag  uint16
	CommissionedFlag uint16
	LaunchedFlag     uint16

	PorsoltCount uint16 // SchemaV2 only: 0.1s ticks alive after power removal
	PowerupCount uint16

	// Elapsed time since launch
	Mins uint16
	Days uint32

	// Non-zero when the primary pair may be torn
	UpdateFlag uint16
	BackupMins uint16
	BackupDays uint32
}

// Decode parses a record from buf using the given schema.
// Bytes past the schema size are ignored, so a full 0x1800-0x18FF dump can
// be passed directly.
func Decode(buf []byte, schema Schema) (*Record, error) {
	l, err := schema.layout()
	if err != nil {
		return nil, err
	}

	if len(buf) < l.size {
		return nil, fmt.Errorf("%w: %d bytes, %s layout needs %d", ErrMalformedRecord, len(buf), schema, l.size)
	}

	u16 := func(off int) uint16 { return binary.LittleEndian.Uint16(buf[off:]) }
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(buf[off:]) }

	r := &Record{
		Schema:           schema,
		ProgrammedTime:   timeBlockFromBytes(buf[l.programmedTime:]),
		LaunchedTime:     timeBlockFromBytes(buf[l.launchedTime:]),
		InitializedFlag:  u16(l.initializedFlag),
		CommissionedFlag: u16(l.commissionedFlag),
		LaunchedFlag:     u16(l.launchedFlag),
		PowerupCount:     u16(l.powerupCount),
		Mins:             u16(l.mins),
		Days:             u32(l.days),
		UpdateFlag:       u16(l.updateFlag),
		BackupMins:       u16(l.backupMins),
		BackupDays:       u32(l.backupDays),
	}
	if l.porsoltCount >= 0 {
		r.PorsoltCount = u16(l.porsoltCount)
	}

	return r, nil
}

// Encode serializes the record to exactly Schema.Size() bytes
func (r *Record) Encode() ([]byte, error) {
	l, err := r.Schema.layout()
	if err != nil {
		return nil, err
	}

	if l.porsoltCount < 0 && r.PorsoltCount != 0 {
		return nil, fmt.Errorf("%w: porsolt count %d has no slot in the %s layout", ErrValueOutOfRange, r.PorsoltCount, r.Schema)
	}

	buf := make([]byte, l.size)

	programmed := r.ProgrammedTime.Bytes()
	launched := r.LaunchedTime.Bytes()
	copy(buf[l.programmedTime:], programmed[:])
	copy(buf[l.launchedTime:], launched[:])

	binary.LittleEndian.PutUint16(buf[l.initializedFlag:], r.InitializedFlag)
	binary.LittleEndian.PutUint16(buf[l.commissionedFlag:], r.CommissionedFlag)
	binary.LittleEndian.PutUint16(buf[l.launchedFlag:], r.LaunchedFlag)
	if l.porsoltCount >= 0 {
		binary.LittleEndian.PutUint16(buf[l.porsoltCount:], r.PorsoltCount)
	}
	binary.LittleEndian.PutUint16(buf[l.powerupCount:], r.PowerupCount)
	binary.LittleEndian.PutUint16(buf[l.mins:], r.Mins)
	binary.LittleEndian.PutUint32(buf[l.days:], r.Days)
	binary.LittleEndian.PutUint16(buf[l.updateFlag:], r.UpdateFlag)
	binary.LittleEndian.PutUint16(buf[l.backupMins:], r.BackupMins)
	binary.LittleEndian.PutUint32(buf[l.backupDays:], r.BackupDays)

	return buf, nil
}

// Clone returns a copy of the record
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

// IsLaunched reports whether the trigger has been pulled
func (r *Record) IsLaunched() bool {
	return r.LaunchedFlag != FlagClear
}

// IsTorn reports whether the primary elapsed counters must be distrusted
func (r *Record) IsTorn() bool {
	return r.UpdateFlag != 0
}

// Elapsed returns the authoritative stored counters: the backup pair when
// the update flag is set, the primary pair otherwise.
func (r *Record) Elapsed() (days uint32, mins uint16, source CounterSource) {
	if r.IsTorn() {
		return r.BackupDays, r.BackupMins, SourceBackup
	}
	return r.Days, r.Mins, SourcePrimary
}

// CounterSource names which copy of the elapsed counters was used
type CounterSource int

const (
	SourcePrimary CounterSource = iota
	SourceBackup
)

func (s CounterSource) String() string {
	if s == SourceBackup {
		return "backup"
	}
	return "primary"
}
