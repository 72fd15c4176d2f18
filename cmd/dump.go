// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/tslprog/pkg/persistent"
	"github.com/Thermoquad/tslprog/pkg/titxt"
)

var (
	dumpArchive bool
	dumpRaw     bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file.txt>",
	Short: "Decode a persistent data dump",
	Long: `Decode the persistent block from a TI-TXT dump read with MSP430Flasher
and print every field with its validation findings.

Example:
  MSP430Flasher -r [persistent.txt,0x1800-0x1825]
  tslprog dump --schema v2 persistent.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().BoolVar(&dumpArchive, "archive", false, "Save a snapshot to the archive")
	dumpCmd.Flags().BoolVar(&dumpRaw, "raw", false, "Also print the record bytes as TI-TXT")
}

func runDump(cmd *cobra.Command, args []string) error {
	r, err := loadRecord(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("File: %s\n", args[0])
	fmt.Print(persistent.FormatRecord(r, settings.Record.Century))

	if dumpRaw {
		raw, err := r.Encode()
		if err != nil {
			return err
		}
		fmt.Printf("\nRaw:\n%s", titxt.EncodeSections([]titxt.Section{{Address: settings.Record.BaseAddress, Data: raw}}))
	}

	fmt.Printf("\nFindings:\n")
	fmt.Print(persistent.FormatFindings(persistent.ValidateRecord(r)))

	if dumpArchive {
		return archiveRecord(r, args[0], "dump")
	}
	return nil
}
