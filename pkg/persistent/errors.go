// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import "errors"

// Codec failures. Wrapped errors carry the detail; match with errors.Is.
var (
	ErrMalformedRecord   = errors.New("malformed record")
	ErrInvalidTimeBlock  = errors.New("invalid time block")
	ErrValueOutOfRange   = errors.New("value out of range")
	ErrNegativeDuration  = errors.New("negative duration")
	ErrUnsupportedSchema = errors.New("unsupported schema")
)
