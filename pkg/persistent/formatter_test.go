// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import (
	"strings"
	"testing"
	"time"
)

func TestFormatRecord(t *testing.T) {
	out := FormatRecord(launchedRecord(SchemaV2), DefaultCentury)

	for _, want := range []string{
		"v2 layout, 38 bytes",
		"2023-12-15 09:15:30",
		"2024-01-01 00:00:00",
		"porsolt_count",
		"backup_days",
		"5d 00h 10m (primary)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatRecord_V1HasNoPorsolt(t *testing.T) {
	out := FormatRecord(launchedRecord(SchemaV1), DefaultCentury)
	if strings.Contains(out, "porsolt_count") {
		t.Errorf("v1 output should not list porsolt_count:\n%s", out)
	}
}

func TestFormatTimeBlock(t *testing.T) {
	if got := FormatTimeBlock(TimeBlock{}, DefaultCentury); !strings.Contains(got, "unset") {
		t.Errorf("zero block: %q", got)
	}
	bad := TimeBlock{MonthBCD: 0x13, DateBCD: 0x01}
	if got := FormatTimeBlock(bad, DefaultCentury); !strings.Contains(got, "invalid time block") {
		t.Errorf("bad block: %q", got)
	}
}

func TestFormatCInitializer(t *testing.T) {
	tb := TimeBlockFromTime(time.Date(2000, 1, 3, 4, 5, 6, 0, time.UTC))
	out := FormatCInitializer(tb)
	for _, want := range []string{".sec_bcd = 0x06,", ".hour_bcd = 0x04,", ".weekday_bcd = 0x01,", ".year_bcd = 0x00,"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatFindings(t *testing.T) {
	if got := FormatFindings(nil); !strings.Contains(got, "No anomalies") {
		t.Errorf("got %q", got)
	}

	r := launchedRecord(SchemaV2)
	r.UpdateFlag = 1
	got := FormatFindings(ValidateRecord(r))
	if !strings.Contains(got, "[WARNING] torn_counters") {
		t.Errorf("got %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(3, 125); got != "3d 02h 05m" {
		t.Errorf("got %q", got)
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	r := launchedRecord(SchemaV2)
	captured := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	snap, err := NewSnapshot(r, "unit-0042.txt", captured)
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}

	data, err := MarshalSnapshot(snap)
	if err != nil {
		t.Fatalf("MarshalSnapshot failed: %v", err)
	}

	back, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot failed: %v", err)
	}
	if back.Source != "unit-0042.txt" || back.Schema != "v2" || !back.CapturedAt.Equal(captured) {
		t.Errorf("unexpected snapshot: %+v", back)
	}

	got, err := back.Record()
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if *got != *r {
		t.Errorf("record mismatch:\n got %+v\nwant %+v", got, r)
	}
}

func TestUnmarshalSnapshot_Garbage(t *testing.T) {
	if _, err := UnmarshalSnapshot([]byte{0xFF, 0x00, 0x13}); err == nil {
		t.Error("expected error for garbage input")
	}
}
