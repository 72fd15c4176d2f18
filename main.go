// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// tslprog - TSL production station toolkit
//
// Decodes, validates and normalizes the persistent data block of TSL units
// exchanged with MSP430Flasher as TI-TXT.

package main

import (
	"os"

	"github.com/Thermoquad/tslprog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
