// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package persistent

import "fmt"

// AnomalyType represents different kinds of record anomalies
type AnomalyType int

const (
	AnomalyInvalidTimeBlock AnomalyType = iota
	AnomalyInvalidFlag
	AnomalyLifecycleOrder
	AnomalyTornCounters
	AnomalyCounterMismatch
	AnomalyMinutesOverflow
	AnomalyDecodeError
)

// String returns a short name for the anomaly type
func (a AnomalyType) String() string {
	switch a {
	case AnomalyInvalidTimeBlock:
		return "invalid_time_block"
	case AnomalyInvalidFlag:
		return "invalid_flag"
	case AnomalyLifecycleOrder:
		return "lifecycle_order"
	case AnomalyTornCounters:
		return "torn_counters"
	case AnomalyCounterMismatch:
		return "counter_mismatch"
	case AnomalyMinutesOverflow:
		return "minutes_overflow"
	case AnomalyDecodeError:
		return "decode_error"
	default:
		return "unknown"
	}
}

// Severity separates conditions the firmware recovers from on its own
// (warnings) from ones that mean the block is corrupt or misread (errors)
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// ValidationError represents one finding on a record
type ValidationError struct {
	Type     AnomalyType
	Severity Severity
	Message  string
	Details  map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidateRecord inspects a decoded record and reports anomalies.
// Returns an empty slice for a clean record. The record is not modified.
func ValidateRecord(r *Record) []ValidationError {
	errors := []ValidationError{}

	errors = append(errors, validateTimeBlocks(r)...)
	errors = append(errors, validateFlags(r)...)
	errors = append(errors, validateCounters(r)...)

	return errors
}

// HasErrors reports whether any finding is an error rather than a warning
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateTimeBlocks(r *Record) []ValidationError {
	errors := []ValidationError{}

	if err := r.ProgrammedTime.Validate(); err != nil {
		errors = append(errors, ValidationError{
			Type:     AnomalyInvalidTimeBlock,
			Severity: SeverityError,
			Message:  fmt.Sprintf("programmed_time: %v", err),
			Details:  map[string]interface{}{"field": "programmed_time"},
		})
	}

	// An unlaunched unit has an all-zero launch block, which is expected
	if r.IsLaunched() || !r.LaunchedTime.IsZero() {
		if err := r.LaunchedTime.Validate(); err != nil {
			errors = append(errors, ValidationError{
				Type:     AnomalyInvalidTimeBlock,
				Severity: SeverityError,
				Message:  fmt.Sprintf("launched_time: %v", err),
				Details:  map[string]interface{}{"field": "launched_time"},
			})
		}
	}

	return errors
}

func validateFlags(r *Record) []ValidationError {
	errors := []ValidationError{}

	flags := []struct {
		name  string
		value uint16
	}{
		{"initialized_flag", r.InitializedFlag},
		{"commissioned_flag", r.CommissionedFlag},
		{"launched_flag", r.LaunchedFlag},
	}

	for _, f := range flags {
		if f.value != FlagClear && f.value != FlagSet {
			errors = append(errors, ValidationError{
				Type:     AnomalyInvalidFlag,
				Severity: SeverityError,
				Message:  fmt.Sprintf("Invalid %s=%d (expected 0 or 1)", f.name, f.value),
				Details:  map[string]interface{}{"field": f.name, "value": f.value},
			})
		}
	}

	// Flags latch in order: initialized, then commissioned, then launched
	if r.LaunchedFlag != FlagClear && r.CommissionedFlag == FlagClear {
		errors = append(errors, ValidationError{
			Type:     AnomalyLifecycleOrder,
			Severity: SeverityError,
			Message:  "launched_flag set but commissioned_flag clear",
			Details:  map[string]interface{}{"launched_flag": r.LaunchedFlag, "commissioned_flag": r.CommissionedFlag},
		})
	}
	if r.CommissionedFlag != FlagClear && r.InitializedFlag == FlagClear {
		errors = append(errors, ValidationError{
			Type:     AnomalyLifecycleOrder,
			Severity: SeverityError,
			Message:  "commissioned_flag set but initialized_flag clear",
			Details:  map[string]interface{}{"commissioned_flag": r.CommissionedFlag, "initialized_flag": r.InitializedFlag},
		})
	}

	return errors
}

func validateCounters(r *Record) []ValidationError {
	errors := []ValidationError{}

	if r.IsTorn() {
		errors = append(errors, ValidationError{
			Type:     AnomalyTornCounters,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("update_flag=%d: primary counters may be torn, backup is authoritative", r.UpdateFlag),
			Details:  map[string]interface{}{"update_flag": r.UpdateFlag},
		})
	} else if r.Mins != r.BackupMins || r.Days != r.BackupDays {
		errors = append(errors, ValidationError{
			Type:     AnomalyCounterMismatch,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("primary %dd %dm differs from backup %dd %dm",
				r.Days, r.Mins, r.BackupDays, r.BackupMins),
			Details: map[string]interface{}{
				"days": r.Days, "mins": r.Mins,
				"backup_days": r.BackupDays, "backup_mins": r.BackupMins,
			},
		})
	}

	// The minute ISR may leave mins at exactly one day before the rollover
	// is applied; anything beyond that is corruption
	days, mins, source := r.Elapsed()
	switch {
	case mins > MinutesPerDay:
		errors = append(errors, ValidationError{
			Type:     AnomalyMinutesOverflow,
			Severity: SeverityError,
			Message:  fmt.Sprintf("%s mins=%d exceeds %d", source, mins, MinutesPerDay),
			Details:  map[string]interface{}{"source": source.String(), "mins": mins, "days": days},
		})
	case mins == MinutesPerDay:
		errors = append(errors, ValidationError{
			Type:     AnomalyMinutesOverflow,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%s mins=%d awaiting day rollover", source, mins),
			Details:  map[string]interface{}{"source": source.String(), "mins": mins, "days": days},
		})
	}

	return errors
}
