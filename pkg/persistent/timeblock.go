// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import (
	"fmt"
	"time"
)

// TimeBlock is the RV-3032 time register block, stored verbatim as BCD.
// Byte order matches the RTC: sec, min, hour, weekday, date, month, year.
type TimeBlock struct {
	SecBCD     byte
	MinBCD     byte
	HourBCD    byte
	WeekdayBCD byte // ISO weekday, informational only
	DateBCD    byte
	MonthBCD   byte
	YearBCD    byte
}

// timeField describes one calendar field of a TimeBlock for validation
type timeField struct {
	name     string
	raw      byte
	min, max int
}

func (tb TimeBlock) fields() []timeField {
	return []timeField{
		{"second", tb.SecBCD, 0, 59},
		{"minute", tb.MinBCD, 0, 59},
		{"hour", tb.HourBCD, 0, 23},
		{"date", tb.DateBCD, 1, 31},
		{"month", tb.MonthBCD, 1, 12},
		{"year", tb.YearBCD, 0, 99},
	}
}

// Bytes returns the block in wire order
func (tb TimeBlock) Bytes() [TimeBlockSize]byte {
	return [TimeBlockSize]byte{
		tb.SecBCD, tb.MinBCD, tb.HourBCD, tb.WeekdayBCD,
		tb.DateBCD, tb.MonthBCD, tb.YearBCD,
	}
}

// IsZero reports whether every register is zero (never written)
func (tb TimeBlock) IsZero() bool {
	return tb == TimeBlock{}
}

func timeBlockFromBytes(b []byte) TimeBlock {
	return TimeBlock{
		SecBCD:     b[0],
		MinBCD:     b[1],
		HourBCD:    b[2],
		WeekdayBCD: b[3],
		DateBCD:    b[4],
		MonthBCD:   b[5],
		YearBCD:    b[6],
	}
}

// Validate checks that every calendar field is valid BCD and in range.
// The weekday register is not checked.
func (tb TimeBlock) Validate() error {
	for _, f := range tb.fields() {
		if !IsValidBCD(f.raw) {
			return fmt.Errorf("%w: %s 0x%02X is not BCD", ErrInvalidTimeBlock, f.name, f.raw)
		}
		if v := BcdToInt(f.raw); v < f.min || v > f.max {
			return fmt.Errorf("%w: %s %d out of range %d-%d", ErrInvalidTimeBlock, f.name, v, f.min, f.max)
		}
	}
	return nil
}

// Time converts the block to a UTC calendar time. The RTC only keeps two
// year digits, so centuryHint supplies the rest (normally 2000).
func (tb TimeBlock) Time(centuryHint int) (time.Time, error) {
	if err := tb.Validate(); err != nil {
		return time.Time{}, err
	}

	year := centuryHint + BcdToInt(tb.YearBCD)
	month := time.Month(BcdToInt(tb.MonthBCD))
	day := BcdToInt(tb.DateBCD)

	t := time.Date(year, month, day,
		BcdToInt(tb.HourBCD), BcdToInt(tb.MinBCD), BcdToInt(tb.SecBCD), 0, time.UTC)

	// time.Date normalizes Feb 30 into March; refuse instead
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d does not exist", ErrInvalidTimeBlock, year, month, day)
	}

	return t, nil
}

// TimeBlockFromTime builds a block the way the programming station does:
// ISO weekday (1=Monday..7=Sunday) and the last two digits of the year.
func TimeBlockFromTime(t time.Time) TimeBlock {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	// All inputs are in 0..99 so the errors cannot trigger
	enc := func(n int) byte {
		b, _ := IntToBcd(n)
		return b
	}

	return TimeBlock{
		SecBCD:     enc(t.Second()),
		MinBCD:     enc(t.Minute()),
		HourBCD:    enc(t.Hour()),
		WeekdayBCD: enc(weekday),
		DateBCD:    enc(t.Day()),
		MonthBCD:   enc(int(t.Month())),
		YearBCD:    enc(t.Year() % 100),
	}
}
