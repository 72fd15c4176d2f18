// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import (
	"bytes"
	"errors"
	"testing"
)

// launchedRecord is a commissioned and launched unit, launched 2024-01-01
func launchedRecord(schema Schema) *Record {
	r := &Record{
		Schema:           schema,
		ProgrammedTime:   TimeBlock{SecBCD: 0x30, MinBCD: 0x15, HourBCD: 0x09, WeekdayBCD: 0x05, DateBCD: 0x15, MonthBCD: 0x12, YearBCD: 0x23},
		LaunchedTime:     TimeBlock{SecBCD: 0x00, MinBCD: 0x00, HourBCD: 0x00, WeekdayBCD: 0x01, DateBCD: 0x01, MonthBCD: 0x01, YearBCD: 0x24},
		InitializedFlag:  1,
		CommissionedFlag: 1,
		LaunchedFlag:     1,
		PowerupCount:     1,
		Mins:             10,
		Days:             5,
		BackupMins:       10,
		BackupDays:       5,
	}
	if schema.HasPorsoltCount() {
		r.PorsoltCount = 12
	}
	return r
}

func TestSchema_Sizes(t *testing.T) {
	if SchemaV1.Size() != 36 {
		t.Errorf("v1 size = %d, want 36", SchemaV1.Size())
	}
	if SchemaV2.Size() != 38 {
		t.Errorf("v2 size = %d, want 38", SchemaV2.Size())
	}
	if SchemaUnknown.Size() != 0 {
		t.Errorf("unknown size = %d, want 0", SchemaUnknown.Size())
	}
}

func TestParseSchema(t *testing.T) {
	tests := []struct {
		name    string
		want    Schema
		wantErr bool
	}{
		{"v1", SchemaV1, false},
		{"V2", SchemaV2, false},
		{" v2 ", SchemaV2, false},
		{"legacy", SchemaUnknown, true},
		{"", SchemaUnknown, true},
		{"v3", SchemaUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSchema(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedSchema) {
					t.Fatalf("expected ErrUnsupportedSchema, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecode_V2Offsets(t *testing.T) {
	buf := make([]byte, 38)
	copy(buf[0:], []byte{0x30, 0x15, 0x09, 0x05, 0x15, 0x12, 0x23})
	copy(buf[7:], []byte{0x00, 0x00, 0x00, 0x01, 0x01, 0x01, 0x24})
	buf[14] = 1    // initialized
	buf[16] = 1    // commissioned
	buf[18] = 1    // launched
	buf[20] = 0x22 // porsolt
	buf[22] = 3    // powerups
	buf[24] = 0x2C // mins = 300
	buf[25] = 0x01
	buf[26] = 0x10 // days = 0x00010010
	buf[28] = 0x01
	buf[30] = 1    // update flag
	buf[32] = 0x05 // backup mins
	buf[34] = 0x07 // backup days

	r, err := Decode(buf, SchemaV2)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	checks := []struct {
		name string
		got  uint64
		want uint64
	}{
		{"initialized", uint64(r.InitializedFlag), 1},
		{"commissioned", uint64(r.CommissionedFlag), 1},
		{"launched", uint64(r.LaunchedFlag), 1},
		{"porsolt", uint64(r.PorsoltCount), 0x22},
		{"powerups", uint64(r.PowerupCount), 3},
		{"mins", uint64(r.Mins), 300},
		{"days", uint64(r.Days), 0x00010010},
		{"update", uint64(r.UpdateFlag), 1},
		{"backup mins", uint64(r.BackupMins), 5},
		{"backup days", uint64(r.BackupDays), 7},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}
	if r.LaunchedTime.YearBCD != 0x24 || r.ProgrammedTime.MonthBCD != 0x12 {
		t.Errorf("time blocks not copied verbatim: %+v %+v", r.ProgrammedTime, r.LaunchedTime)
	}
}

func TestDecode_V1Offsets(t *testing.T) {
	buf := make([]byte, 36)
	buf[20] = 9    // powerups
	buf[22] = 0x0A // mins
	buf[24] = 0x04 // days
	buf[28] = 0    // update flag
	buf[30] = 0x0A // backup mins
	buf[32] = 0x04 // backup days

	r, err := Decode(buf, SchemaV1)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if r.PowerupCount != 9 || r.Mins != 10 || r.Days != 4 || r.BackupMins != 10 || r.BackupDays != 4 {
		t.Errorf("unexpected v1 fields: %+v", r)
	}
	if r.PorsoltCount != 0 {
		t.Errorf("v1 porsolt = %d, want 0", r.PorsoltCount)
	}
}

func TestDecode_ShortBuffer(t *testing.T) {
	if _, err := Decode(make([]byte, 30), SchemaV2); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord, got %v", err)
	}
	if _, err := Decode(make([]byte, 37), SchemaV2); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("37 bytes: expected ErrMalformedRecord, got %v", err)
	}
	if _, err := Decode(make([]byte, 35), SchemaV1); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("v1 35 bytes: expected ErrMalformedRecord, got %v", err)
	}
}

func TestDecode_UnknownSchema(t *testing.T) {
	if _, err := Decode(make([]byte, 64), SchemaUnknown); !errors.Is(err, ErrUnsupportedSchema) {
		t.Errorf("expected ErrUnsupportedSchema, got %v", err)
	}
}

func TestDecode_IgnoresTrailingBytes(t *testing.T) {
	want := launchedRecord(SchemaV2)
	encoded, err := want.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	dump := make([]byte, 256)
	for i := range dump {
		dump[i] = 0xFF
	}
	copy(dump, encoded)

	got, err := Decode(dump, SchemaV2)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if *got != *want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	for _, schema := range []Schema{SchemaV1, SchemaV2} {
		t.Run(schema.String(), func(t *testing.T) {
			want := launchedRecord(schema)
			encoded, err := want.Encode()
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if len(encoded) != schema.Size() {
				t.Fatalf("encoded %d bytes, want %d", len(encoded), schema.Size())
			}

			got, err := Decode(encoded, schema)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if *got != *want {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}

			again, err := got.Encode()
			if err != nil {
				t.Fatalf("re-encode failed: %v", err)
			}
			if !bytes.Equal(again, encoded) {
				t.Errorf("re-encode differs:\n got % X\nwant % X", again, encoded)
			}
		})
	}
}

func TestEncode_PorsoltOnV1(t *testing.T) {
	r := launchedRecord(SchemaV1)
	r.PorsoltCount = 1
	if _, err := r.Encode(); !errors.Is(err, ErrValueOutOfRange) {
		t.Errorf("expected ErrValueOutOfRange, got %v", err)
	}
}

func TestRecord_Elapsed(t *testing.T) {
	r := launchedRecord(SchemaV2)
	r.Days, r.Mins = 5, 10
	r.BackupDays, r.BackupMins = 4, 50

	days, mins, src := r.Elapsed()
	if src != SourcePrimary || days != 5 || mins != 10 {
		t.Errorf("flag clear: got %d/%d from %s", days, mins, src)
	}

	r.UpdateFlag = 1
	days, mins, src = r.Elapsed()
	if src != SourceBackup || days != 4 || mins != 50 {
		t.Errorf("flag set: got %d/%d from %s", days, mins, src)
	}
}
