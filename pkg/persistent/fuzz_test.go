// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import (
	"bytes"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

func randomTimeBlock(rng *rand.Rand) TimeBlock {
	var b [TimeBlockSize]byte
	for i := range b {
		b[i] = byte(rng.Intn(256))
	}
	return timeBlockFromBytes(b[:])
}

// randomRecord fills every field with arbitrary values, including ones the
// validator would flag; the codec must carry them through untouched
func randomRecord(rng *rand.Rand, schema Schema) *Record {
	r := &Record{
		Schema:           schema,
		ProgrammedTime:   randomTimeBlock(rng),
		LaunchedTime:     randomTimeBlock(rng),
		InitializedFlag:  uint16(rng.Intn(1 << 16)),
		CommissionedFlag: uint16(rng.Intn(1 << 16)),
		LaunchedFlag:     uint16(rng.Intn(1 << 16)),
		PowerupCount:     uint16(rng.Intn(1 << 16)),
		Mins:             uint16(rng.Intn(1 << 16)),
		Days:             rng.Uint32(),
		UpdateFlag:       uint16(rng.Intn(1 << 16)),
		BackupMins:       uint16(rng.Intn(1 << 16)),
		BackupDays:       rng.Uint32(),
	}
	if schema.HasPorsoltCount() {
		r.PorsoltCount = uint16(rng.Intn(1 << 16))
	}
	return r
}

// ============================================================
// Codec Fuzz Tests
// ============================================================

func TestFuzz_RecordRoundTrip(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for _, schema := range []Schema{SchemaV1, SchemaV2} {
		for i := 0; i < rounds; i++ {
			want := randomRecord(rng, schema)
			encoded, err := want.Encode()
			if err != nil {
				t.Fatalf("%s round %d: Encode failed: %v", schema, i, err)
			}
			got, err := Decode(encoded, schema)
			if err != nil {
				t.Fatalf("%s round %d: Decode failed: %v", schema, i, err)
			}
			if *got != *want {
				t.Fatalf("%s round %d: mismatch\n got %+v\nwant %+v", schema, i, got, want)
			}
		}
	}
}

func TestFuzz_BufferRoundTrip(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	// Every byte of a V2 record belongs to a field, so any buffer round-trips
	for i := 0; i < rounds; i++ {
		buf := make([]byte, SchemaV2.Size())
		rng.Read(buf)

		r, err := Decode(buf, SchemaV2)
		if err != nil {
			t.Fatalf("round %d: Decode failed: %v", i, err)
		}
		out, err := r.Encode()
		if err != nil {
			t.Fatalf("round %d: Encode failed: %v", i, err)
		}
		if !bytes.Equal(out, buf) {
			t.Fatalf("round %d: bytes differ\n got % X\nwant % X", i, out, buf)
		}
	}
}

func TestFuzz_DecodeRandomLengths(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		buf := make([]byte, rng.Intn(80))
		rng.Read(buf)

		for _, schema := range []Schema{SchemaV1, SchemaV2} {
			_, err := Decode(buf, schema)
			if len(buf) < schema.Size() && err == nil {
				t.Fatalf("round %d: %d bytes decoded as %s", i, len(buf), schema)
			}
			if len(buf) >= schema.Size() && err != nil {
				t.Fatalf("round %d: %d bytes failed as %s: %v", i, len(buf), schema, err)
			}
		}
	}
}

func TestFuzz_ValidateNeverPanics(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		r := randomRecord(rng, SchemaV2)
		_ = ValidateRecord(r)
		_ = FormatRecord(r, DefaultCentury)
	}
}
