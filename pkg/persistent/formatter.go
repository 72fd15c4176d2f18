// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import (
	"fmt"
	"strings"
	"time"
)

// Field is one named value of a record, for tabular display
type Field struct {
	Name  string
	Value uint64
	Width int // bytes on the wire
}

// Fields lists the integer fields of r in wire order
func (r *Record) Fields() []Field {
	fields := []Field{
		{"initialized_flag", uint64(r.InitializedFlag), 2},
		{"commissioned_flag", uint64(r.CommissionedFlag), 2},
		{"launched_flag", uint64(r.LaunchedFlag), 2},
	}
	if r.Schema.HasPorsoltCount() {
		fields = append(fields, Field{"porsolt_count", uint64(r.PorsoltCount), 2})
	}
	return append(fields,
		Field{"powerup_count", uint64(r.PowerupCount), 2},
		Field{"mins", uint64(r.Mins), 2},
		Field{"days", uint64(r.Days), 4},
		Field{"update_flag", uint64(r.UpdateFlag), 2},
		Field{"backup_mins", uint64(r.BackupMins), 2},
		Field{"backup_days", uint64(r.BackupDays), 4},
	)
}

// FormatTimeBlock renders the raw registers and, when valid, the calendar time
func FormatTimeBlock(tb TimeBlock, centuryHint int) string {
	raw := tb.Bytes()
	hexParts := make([]string, len(raw))
	for i, b := range raw {
		hexParts[i] = fmt.Sprintf("%02X", b)
	}
	hex := strings.Join(hexParts, " ")

	if tb.IsZero() {
		return fmt.Sprintf("%s (unset)", hex)
	}

	t, err := tb.Time(centuryHint)
	if err != nil {
		return fmt.Sprintf("%s (%v)", hex, err)
	}
	return fmt.Sprintf("%s (%s)", hex, t.Format("2006-01-02 15:04:05"))
}

// FormatRecord formats a record into a human-readable field table
func FormatRecord(r *Record, centuryHint int) string {
	var s strings.Builder

	fmt.Fprintf(&s, "Persistent data (%s layout, %d bytes)\n", r.Schema, r.Schema.Size())
	fmt.Fprintf(&s, "  %-18s %s\n", "programmed_time", FormatTimeBlock(r.ProgrammedTime, centuryHint))
	fmt.Fprintf(&s, "  %-18s %s\n", "launched_time", FormatTimeBlock(r.LaunchedTime, centuryHint))

	for _, f := range r.Fields() {
		fmt.Fprintf(&s, "  %-18s=%10d [0x%0*X]\n", f.Name, f.Value, f.Width*2, f.Value)
	}

	days, mins, source := r.Elapsed()
	fmt.Fprintf(&s, "  %-18s %s (%s)\n", "elapsed", FormatDuration(days, mins), source)

	return s.String()
}

// FormatFindings formats validation findings one per line
func FormatFindings(findings []ValidationError) string {
	if len(findings) == 0 {
		return "  No anomalies\n"
	}

	var s strings.Builder
	for _, f := range findings {
		fmt.Fprintf(&s, "  [%s] %s: %s\n", strings.ToUpper(f.Severity.String()), f.Type, f.Message)
	}
	return s.String()
}

// FormatReport summarizes a normalization for the operator
func FormatReport(rep NormalizeReport) string {
	var s strings.Builder
	fmt.Fprintf(&s, "Launched time:   %s\n", rep.LaunchedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&s, "Reference tick:  %s\n", rep.RoundedNow.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&s, "Base (%s):  %d days %d minutes\n", rep.Source, rep.BaseDays, rep.BaseMins)
	fmt.Fprintf(&s, "Normalized:      %d days %d minutes\n", rep.NewDays, rep.NewMins)
	return s.String()
}

// FormatCInitializer renders a block as a firmware struct initializer
func FormatCInitializer(tb TimeBlock) string {
	return fmt.Sprintf(
		"    .sec_bcd = 0x%02X,\n"+
			"    .min_bcd = 0x%02X,\n"+
			"    .hour_bcd = 0x%02X,\n"+
			"    .weekday_bcd = 0x%02X,\n"+
			"    .date_bcd = 0x%02X,\n"+
			"    .month_bcd = 0x%02X,\n"+
			"    .year_bcd = 0x%02X,\n",
		tb.SecBCD, tb.MinBCD, tb.HourBCD, tb.WeekdayBCD, tb.DateBCD, tb.MonthBCD, tb.YearBCD)
}

// FormatDuration renders an elapsed day/minute pair compactly
func FormatDuration(days uint32, mins uint16) string {
	d := time.Duration(mins) * time.Minute
	return fmt.Sprintf("%dd %02dh %02dm", days, int(d.Hours()), int(d.Minutes())%60)
}
