// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import (
	"fmt"
	"time"
)

// NormalizeReport describes what Normalize did, for logging
type NormalizeReport struct {
	LaunchedAt time.Time
	RoundedNow time.Time

	Source   CounterSource // which stored pair was authoritative
	BaseDays uint32
	BaseMins uint16

	NewDays uint32
	NewMins uint16
}

// Normalize re-projects the elapsed counters of r onto now.
//
// The stored record is a checkpoint, not ground truth: a unit that sat in
// storage keeps counting from the last value it saw. The update flag picks
// which stored pair is trusted as the base, then both pairs are replaced with
// the elapsed time since launch so primary and backup agree again. All other
// fields are untouched and r itself is not modified.
func Normalize(r *Record, now time.Time, centuryHint int) (*Record, NormalizeReport, error) {
	var report NormalizeReport
	report.BaseDays, report.BaseMins, report.Source = r.Elapsed()

	launched, err := r.LaunchedTime.Time(centuryHint)
	if err != nil {
		return nil, report, fmt.Errorf("launched time: %w", err)
	}
	report.LaunchedAt = launched
	report.RoundedNow = RoundUpToTick(now)

	days, mins, err := ComputeElapsedSinceLaunch(launched, now)
	if err != nil {
		return nil, report, err
	}
	report.NewDays, report.NewMins = days, mins

	out := r.Clone()
	out.Mins, out.BackupMins = mins, mins
	out.Days, out.BackupDays = days, days

	return out, report, nil
}

// ExpectedElapsed projects the counters a still-running unit would show at now
func ExpectedElapsed(r *Record, now time.Time, centuryHint int) (days uint32, mins uint16, err error) {
	launched, err := r.LaunchedTime.Time(centuryHint)
	if err != nil {
		return 0, 0, fmt.Errorf("launched time: %w", err)
	}
	return ComputeElapsedSinceLaunch(launched, now)
}
