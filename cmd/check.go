// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/tslprog/pkg/persistent"
)

var checkQuiet bool

// errCheckFailed makes the process exit non-zero without repeating the report
var errCheckFailed = errors.New("one or more records have errors")

var checkCmd = &cobra.Command{
	Use:   "check <file.txt>...",
	Short: "Validate many persistent data dumps",
	Long: `Decode and validate every given dump and print a summary.

Exit codes:
  0 - No errors (warnings allowed)
  1 - At least one file failed to decode or has errors`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Only list files with findings")
}

func runCheck(cmd *cobra.Command, args []string) error {
	// Fail once up front rather than once per file
	if _, err := recordSchema(); err != nil {
		return err
	}

	stats := persistent.NewStatistics()

	for _, path := range args {
		r, err := loadRecord(path)
		if err != nil {
			stats.Update(nil, err, nil)
			fmt.Printf("%s\n  [ERROR] %s: %v\n", path, persistent.AnomalyDecodeError, err)
			continue
		}

		findings := persistent.ValidateRecord(r)
		stats.Update(r, nil, findings)

		if checkQuiet && len(findings) == 0 {
			continue
		}
		fmt.Printf("%s\n%s", path, persistent.FormatFindings(findings))
	}

	fmt.Printf("\n%s", stats.String())

	if stats.Failed() {
		return errCheckFailed
	}
	return nil
}
