// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/tslprog/pkg/persistent"
)

var (
	normalizeNow     string
	normalizeArchive bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <in.txt> <out.txt>",
	Short: "Rewrite elapsed counters from the launched time",
	Long: `Recompute the elapsed day/minute counters of a launched unit from its
launched_time and the current time, and write a TI-TXT image that can be
programmed back with MSP430Flasher.

The update flag decides which stored pair (primary or backup) is reported as
the base. Both pairs are overwritten with the recomputed value; every other
field is kept as dumped.

The current time is rounded to the 5-minute tick the firmware counts in.
Times are UTC.

Examples:
  tslprog normalize dump.txt fixed.txt
  tslprog normalize --now "2025-06-01 12:00:00" dump.txt fixed.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().StringVar(&normalizeNow, "now", "", "Reference time in UTC (default current time)")
	normalizeCmd.Flags().BoolVar(&normalizeArchive, "archive", false, "Archive the record before and after normalizing")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	now, err := parseTime(normalizeNow)
	if err != nil {
		return err
	}

	r, err := loadRecord(in)
	if err != nil {
		return err
	}

	for _, f := range persistent.ValidateRecord(r) {
		entry := logger.WithFields(logrus.Fields{"file": in, "anomaly": f.Type.String()})
		if f.Severity == persistent.SeverityError {
			entry.Warn(f.Message)
		} else {
			entry.Info(f.Message)
		}
	}
	if !r.IsLaunched() {
		logger.WithField("file", in).Warn("launched_flag is not set; counters are computed anyway")
	}

	normalized, report, err := persistent.Normalize(r, now, settings.Record.Century)
	if errors.Is(err, persistent.ErrNegativeDuration) {
		return fmt.Errorf("refusing to normalize %s: %w", in, err)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	logger.WithFields(logrus.Fields{
		"source":   report.Source.String(),
		"old_days": report.BaseDays,
		"old_mins": report.BaseMins,
		"new_days": report.NewDays,
		"new_mins": report.NewMins,
	}).Info("counters normalized")

	fmt.Print(persistent.FormatReport(report))

	if err := writeRecord(out, normalized); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)

	if normalizeArchive {
		if err := archiveRecord(r, in, "before normalize"); err != nil {
			return err
		}
		return archiveRecord(normalized, out, "after normalize")
	}
	return nil
}
