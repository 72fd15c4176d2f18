// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import (
	"fmt"
	"sort"
	"time"
)

// Statistics tracks validation results across a batch of records
type Statistics struct {
	StartTime time.Time

	// Counters
	TotalRecords   uint64
	ValidRecords   uint64
	DecodeErrors   uint64
	RecordsWithErr uint64
	RecordsWithWrn uint64
	Launched       uint64
	Torn           uint64

	ByAnomaly map[AnomalyType]uint64
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	return &Statistics{
		StartTime: time.Now(),
		ByAnomaly: make(map[AnomalyType]uint64),
	}
}

// Update records the outcome of decoding and validating one record.
// Pass a nil record with decodeErr set when decoding failed.
func (s *Statistics) Update(r *Record, decodeErr error, findings []ValidationError) {
	s.TotalRecords++

	if decodeErr != nil {
		s.DecodeErrors++
		s.ByAnomaly[AnomalyDecodeError]++
		return
	}

	if r.IsLaunched() {
		s.Launched++
	}
	if r.IsTorn() {
		s.Torn++
	}

	if len(findings) == 0 {
		s.ValidRecords++
		return
	}

	for _, f := range findings {
		s.ByAnomaly[f.Type]++
	}
	if HasErrors(findings) {
		s.RecordsWithErr++
	} else {
		s.RecordsWithWrn++
	}
}

// Failed reports whether any record failed to decode or carried an error
func (s *Statistics) Failed() bool {
	return s.DecodeErrors > 0 || s.RecordsWithErr > 0
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	percent := func(n uint64) float64 {
		if s.TotalRecords == 0 {
			return 0
		}
		return float64(n) * 100.0 / float64(s.TotalRecords)
	}

	result := fmt.Sprintf("=== Statistics (%d records, %.1fs) ===\n", s.TotalRecords, time.Since(s.StartTime).Seconds())
	result += fmt.Sprintf("Clean:           %8d (%.1f%%)\n", s.ValidRecords, percent(s.ValidRecords))
	result += fmt.Sprintf("Warnings only:   %8d (%.1f%%)\n", s.RecordsWithWrn, percent(s.RecordsWithWrn))
	result += fmt.Sprintf("With errors:     %8d (%.1f%%)\n", s.RecordsWithErr, percent(s.RecordsWithErr))
	if s.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode errors:   %8d (%.1f%%)\n", s.DecodeErrors, percent(s.DecodeErrors))
	}
	result += fmt.Sprintf("Launched:        %8d\n", s.Launched)
	result += fmt.Sprintf("Torn counters:   %8d\n", s.Torn)

	if len(s.ByAnomaly) > 0 {
		kinds := make([]AnomalyType, 0, len(s.ByAnomaly))
		for k := range s.ByAnomaly {
			kinds = append(kinds, k)
		}
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

		result += "Findings:\n"
		for _, k := range kinds {
			result += fmt.Sprintf("  %-18s %5d\n", k.String()+":", s.ByAnomaly[k])
		}
	}

	result += "================================\n"
	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	*s = *NewStatistics()
}
