// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

var portsProbe bool

// Column widths
const (
	indexWidth  = 4
	portWidth   = 16
	vidPidWidth = 10
	snWidth     = 20
	descWidth   = 30
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Long: `List the serial ports on this station with their USB identifiers, marking
the configured relay port (relay.port) with "*".

With --probe the relay port is opened at relay.baud and closed again, to
confirm it is present and not held by another program.`,
	RunE: runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
	portsCmd.Flags().BoolVar(&portsProbe, "probe", false, "Open and close the configured relay port")
}

var ansiEscape = regexp.MustCompile(`\x1B(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

// column pads or truncates text to width, stripping terminal escapes
func column(text string, width int) string {
	text = ansiEscape.ReplaceAllString(text, "")
	if len(text) > width {
		if width <= 3 {
			return text[:width]
		}
		text = text[:width-3] + "..."
	}
	return text + strings.Repeat(" ", width-len(text))
}

func formatPortLine(index string, p *enumerator.PortDetails, relay string) string {
	mark := " "
	if p.Name == relay {
		mark = "*"
	}
	vidPid := "-"
	if p.IsUSB {
		vidPid = strings.ToUpper(p.VID + ":" + p.PID)
	}
	sn := p.SerialNumber
	if sn == "" {
		sn = "-"
	}
	return column(index, indexWidth) + column(mark+p.Name, portWidth) +
		column(vidPid, vidPidWidth) + column(sn, snWidth) + column(p.Product, descWidth)
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	if len(ports) == 0 {
		fmt.Println("No serial ports found")
	} else {
		fmt.Println("Available ports:")
		fmt.Println(column("#", indexWidth) + column(" PORT", portWidth) + column("VID:PID", vidPidWidth) +
			column("SN", snWidth) + column("DESCRIPTION", descWidth))
		fmt.Println(strings.Repeat("=", indexWidth+portWidth+vidPidWidth+snWidth+descWidth))
		for i, p := range ports {
			fmt.Println(formatPortLine(fmt.Sprintf("%d", i+1), p, settings.Relay.Port))
		}
	}

	if !portsProbe {
		return nil
	}
	return probeRelay()
}

func probeRelay() error {
	if settings.Relay.Port == "" {
		return fmt.Errorf("relay.port is not configured")
	}

	mode := &serial.Mode{
		BaudRate: settings.Relay.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(settings.Relay.Port, mode)
	if err != nil {
		return fmt.Errorf("failed to open relay port %s: %w", settings.Relay.Port, err)
	}
	if err := port.Close(); err != nil {
		return fmt.Errorf("failed to close relay port %s: %w", settings.Relay.Port, err)
	}

	logger.WithField("port", settings.Relay.Port).Debug("relay port probed")
	fmt.Printf("\nRelay port %s @ %d baud: OK\n", settings.Relay.Port, settings.Relay.Baud)
	return nil
}
