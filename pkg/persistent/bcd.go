// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import "fmt"

// BcdToInt converts a packed BCD byte to its decimal value.
// Nibbles above 9 are not rejected; use IsValidBCD first when it matters.
func BcdToInt(b byte) int {
	return 10*int(b>>4) + int(b&0x0F)
}

// IntToBcd packs a value in 0..99 into a BCD byte
func IntToBcd(n int) (byte, error) {
	if n < 0 || n > 99 {
		return 0, fmt.Errorf("%w: %d cannot be encoded as two BCD digits", ErrValueOutOfRange, n)
	}
	return byte((n/10)<<4 | n%10), nil
}

// IsValidBCD reports whether both nibbles are decimal digits
func IsValidBCD(b byte) bool {
	return b>>4 <= 9 && b&0x0F <= 9
}
