// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package titxt reads and writes TI-TXT memory images, the text format
// MSP430Flasher uses for dumps (-r) and programming images (-w).
//
//	@1800
//	00 15 09 05 15 12 23 00 00 00 01 01 01 24 01 00
//	...
//	q
//
// An "@" line starts a section at a hex address, data lines carry
// space-separated hex bytes, and "q" ends the file.
package titxt

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// BytesPerLine is the line width MSP430Flasher writes
const BytesPerLine = 16

// Section is a contiguous run of bytes starting at Address
type Section struct {
	Address uint32
	Data    []byte
}

// End returns the address one past the last byte
func (s Section) End() uint32 {
	return s.Address + uint32(len(s.Data))
}

// Slice returns n bytes starting at addr, or an error if the window is not
// fully inside the section.
func (s Section) Slice(addr uint32, n int) ([]byte, error) {
	if addr < s.Address || uint64(addr)+uint64(n) > uint64(s.End()) {
		return nil, fmt.Errorf("window 0x%04X+%d outside section 0x%04X-0x%04X", addr, n, s.Address, s.End())
	}
	off := addr - s.Address
	return s.Data[off : off+uint32(n)], nil
}

// Decode parses TI-TXT text into sections. Data before any "@" header is
// placed in a section at address 0. Parsing stops at the "q" terminator.
func Decode(text string) ([]Section, error) {
	var sections []Section
	var cur *Section

	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "q") || strings.HasPrefix(line, "Q"):
			return sections, nil

		case strings.HasPrefix(line, "@"):
			addr, err := strconv.ParseUint(strings.TrimSpace(line[1:]), 16, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid address %q: %w", lineNo+1, line, err)
			}
			sections = append(sections, Section{Address: uint32(addr)})
			cur = &sections[len(sections)-1]

		default:
			if cur == nil {
				sections = append(sections, Section{})
				cur = &sections[len(sections)-1]
			}
			for _, token := range strings.Fields(line) {
				if len(token) != 2 {
					return nil, fmt.Errorf("line %d: %q is not a two-digit hex byte", lineNo+1, token)
				}
				b, err := hex.DecodeString(token)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
				}
				cur.Data = append(cur.Data, b[0])
			}
		}
	}

	// Dumps written by hand sometimes lose the terminator
	return sections, nil
}

// Flatten concatenates the data of all sections, ignoring addresses
func Flatten(sections []Section) []byte {
	var out []byte
	for _, s := range sections {
		out = append(out, s.Data...)
	}
	return out
}

// DecodeBytes decodes text and returns the concatenated data
func DecodeBytes(text string) ([]byte, error) {
	sections, err := Decode(text)
	if err != nil {
		return nil, err
	}
	return Flatten(sections), nil
}

// Find returns the section containing addr
func Find(sections []Section, addr uint32) (Section, bool) {
	for _, s := range sections {
		if addr >= s.Address && addr < s.End() {
			return s, true
		}
	}
	return Section{}, false
}

// EncodeSections writes sections without the "q" terminator, so the result
// can be prepended to another image
func EncodeSections(sections []Section) string {
	var b strings.Builder
	for _, s := range sections {
		fmt.Fprintf(&b, "@%04X\n", s.Address)
		for i := 0; i < len(s.Data); i += BytesPerLine {
			end := i + BytesPerLine
			if end > len(s.Data) {
				end = len(s.Data)
			}
			for j, v := range s.Data[i:end] {
				if j > 0 {
					b.WriteByte(' ')
				}
				fmt.Fprintf(&b, "%02X", v)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Encode writes sections as a complete TI-TXT file
func Encode(sections []Section) string {
	return EncodeSections(sections) + "q\n"
}

// EncodeBytes writes data as a single section at base
func EncodeBytes(data []byte, base uint32) string {
	return Encode([]Section{{Address: base, Data: data}})
}
