// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Thermoquad/tslprog/pkg/persistent"
)

var inspectNoTUI bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.txt>",
	Short: "Interactive view of a dump with live elapsed projection",
	Long: `Show a decoded dump next to the counters the unit should report right
now, updated every second. The difference between stored and projected
counters is how long the unit has been unpowered since its last checkpoint.

Uses a full-screen terminal UI when stdout is a terminal and plain text
otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectNoTUI, "no-tui", false, "Print once instead of starting the terminal UI")
}

func runInspect(cmd *cobra.Command, args []string) error {
	r, err := loadRecord(args[0])
	if err != nil {
		return err
	}

	if inspectNoTUI || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(persistent.FormatRecord(r, settings.Record.Century))
		fmt.Printf("\n%s\n", projectionLine(r, time.Now().UTC(), settings.Record.Century))
		fmt.Printf("\nFindings:\n%s", persistent.FormatFindings(persistent.ValidateRecord(r)))
		return nil
	}

	p := tea.NewProgram(newInspectModel(args[0], r, settings.Record.Century))
	_, err = p.Run()
	return err
}

// projectionLine compares stored counters with the launched-time projection
func projectionLine(r *persistent.Record, now time.Time, centuryHint int) string {
	storedDays, storedMins, _ := r.Elapsed()
	days, mins, err := persistent.ExpectedElapsed(r, now, centuryHint)
	if err != nil {
		return fmt.Sprintf("Projected: unavailable (%v)", err)
	}
	return fmt.Sprintf("Projected: %s   Drift: %s",
		persistent.FormatDuration(days, mins),
		formatDrift(storedDays, storedMins, days, mins))
}

// formatDrift renders projected minus stored as a signed duration
func formatDrift(storedDays uint32, storedMins uint16, days uint32, mins uint16) string {
	stored := int64(storedDays)*persistent.MinutesPerDay + int64(storedMins)
	projected := int64(days)*persistent.MinutesPerDay + int64(mins)
	diff := projected - stored

	sign := "+"
	if diff < 0 {
		sign = "-"
		diff = -diff
	}
	return sign + persistent.FormatDuration(uint32(diff/persistent.MinutesPerDay), uint16(diff%persistent.MinutesPerDay))
}
