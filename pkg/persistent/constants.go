// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package persistent decodes and re-encodes the TSL persistent data block.
//
// The block lives in MSP430 information FRAM at 0x1800 and survives both
// power cycles and reprogramming of main FRAM. It holds two BCD timestamps
// copied from the RV-3032 RTC, the lifecycle flags, and the elapsed time
// since launch (primary copy plus a backup copy guarded by an update flag).
//
// This package is pure: it never talks to a device. Raw bytes come from a
// TI-TXT dump (see package titxt) and go back out the same way.
package persistent

import "time"

// Memory layout
const (
	DefaultBaseAddress = 0x1800
	TimeBlockSize      = 7
)

// Counter limits
const (
	MinutesPerDay = 24 * 60
	SecondsPerDay = 24 * 60 * 60
	TickInterval  = 5 * time.Minute // RTC-driven counters advance on these boundaries
)

// DefaultCentury is added to the two-digit BCD year.
const DefaultCentury = 2000

// RTCEpoch is the time an unset RV-3032 starts counting from.
var RTCEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Flag values
const (
	FlagClear = 0
	FlagSet   = 1
)
