// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/tslprog/pkg/persistent"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List or show archived snapshots",
	Long: `Without arguments, list archived snapshots newest first. With a snapshot
id, decode and print that snapshot.

Snapshots are written by "dump --archive" and "normalize --archive".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum snapshots to list (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openArchive()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 1 {
		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
		}
		snap, err := a.Get(id)
		if err != nil {
			return err
		}
		r, err := snap.Record()
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", id, err)
		}
		fmt.Printf("Snapshot %s\n", id)
		fmt.Printf("Captured: %s UTC\n", snap.CapturedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Source:   %s\n", snap.Source)
		if snap.Note != "" {
			fmt.Printf("Note:     %s\n", snap.Note)
		}
		fmt.Println()
		fmt.Print(persistent.FormatRecord(r, settings.Record.Century))
		return nil
	}

	entries, err := a.List(historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("Archive is empty")
		return nil
	}

	fmt.Printf("%-27s  %-19s  %-6s  %-14s  %s\n", "ID", "CAPTURED (UTC)", "LAYOUT", "ELAPSED", "SOURCE")
	for _, e := range entries {
		elapsed := "?"
		if r, err := e.Snapshot.Record(); err == nil {
			days, mins, _ := r.Elapsed()
			elapsed = persistent.FormatDuration(days, mins)
		}
		source := e.Snapshot.Source
		if e.Snapshot.Note != "" {
			source += " (" + e.Snapshot.Note + ")"
		}
		fmt.Printf("%-27s  %-19s  %-6s  %-14s  %s\n",
			e.ID, e.Snapshot.CapturedAt.Format("2006-01-02 15:04:05"), e.Snapshot.Schema, elapsed, source)
	}
	return nil
}
