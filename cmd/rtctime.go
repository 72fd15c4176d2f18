// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/tslprog/pkg/persistent"
)

var (
	rtcPast string
	rtcNow  string
)

var rtctimeCmd = &cobra.Command{
	Use:   "rtctime",
	Short: "Compute an RTC start value for a time offset",
	Long: `Compute how much time passed between two moments and print the RTC value
that represents that offset, counted from the RTC epoch 2000-01-01 00:00:00.
The output is a C initializer for a firmware time block.

Example:
  tslprog rtctime --past "2024-01-01 00:00:00" --now "2024-03-15 12:30:00"`,
	RunE: runRTCTime,
}

func init() {
	rootCmd.AddCommand(rtctimeCmd)
	rtctimeCmd.Flags().StringVar(&rtcPast, "past", "", "Past time, YYYY-MM-DD HH:MM:SS (UTC)")
	rtctimeCmd.Flags().StringVar(&rtcNow, "now", "", "Now, YYYY-MM-DD HH:MM:SS (default current UTC time)")
	rtctimeCmd.MarkFlagRequired("past")
}

// rtcOffset re-bases the span between past and now onto the RTC epoch
func rtcOffset(past, now time.Time) (time.Duration, persistent.TimeBlock, error) {
	if now.Before(past) {
		return 0, persistent.TimeBlock{}, fmt.Errorf("%w: now %s is before past %s",
			persistent.ErrNegativeDuration, now.Format(time.RFC3339), past.Format(time.RFC3339))
	}
	elapsed := now.Sub(past)
	return elapsed, persistent.TimeBlockFromTime(persistent.RTCEpoch.Add(elapsed)), nil
}

func runRTCTime(cmd *cobra.Command, args []string) error {
	past, err := parseTime(rtcPast)
	if err != nil {
		return err
	}
	now, err := parseTime(rtcNow)
	if err != nil {
		return err
	}

	elapsed, tb, err := rtcOffset(past, now)
	if err != nil {
		return err
	}

	fmt.Printf("Time passed: %.0f seconds\n\n", elapsed.Seconds())
	fmt.Print(persistent.FormatCInitializer(tb))
	return nil
}
