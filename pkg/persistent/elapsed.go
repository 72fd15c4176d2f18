// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import (
	"fmt"
	"math"
	"time"
)

// RoundUpToTick drops seconds and sub-seconds, then moves forward to the next
// 5-minute boundary unless the minute is already on one. The device counters
// only advance on these ticks.
func RoundUpToTick(t time.Time) time.Time {
	t = t.Truncate(time.Minute)
	if rem := t.Minute() % 5; rem != 0 {
		t = t.Add(time.Duration(5-rem) * time.Minute)
	}
	return t
}

// ComputeElapsedSinceLaunch returns whole days and remaining minutes (0-1439)
// from launched to now rounded up to the next tick.
func ComputeElapsedSinceLaunch(launched, now time.Time) (days uint32, minutes uint16, err error) {
	if now.Before(launched) {
		return 0, 0, fmt.Errorf("%w: now %s precedes launch %s",
			ErrNegativeDuration, now.UTC().Format(time.RFC3339), launched.UTC().Format(time.RFC3339))
	}

	totalSeconds := int64(RoundUpToTick(now).Sub(launched) / time.Second)

	d := totalSeconds / SecondsPerDay
	if d > math.MaxUint32 {
		return 0, 0, fmt.Errorf("%w: %d days does not fit the day counter", ErrValueOutOfRange, d)
	}

	return uint32(d), uint16((totalSeconds % SecondsPerDay) / 60), nil
}
