// Package errors defines the engine's error taxonomy and its HTTP rendering.
//
// The three domain errors are raised at the parser/classifier boundary and
// propagate unchanged to the caller. The engine never recovers silently:
// substituting wrong academic-period data would corrupt the displayed trend,
// so the caller is expected to present these errors verbatim.
package errors

import (
	"errors"
	"fmt"
)

// MalformedReportError reports a structural mismatch between a file and the
// expected layout of its declared report type: wrong title cell, missing
// columns, a truncated grid or an incomplete export.
type MalformedReportError struct {
	File   string
	Reason string
}

func (e *MalformedReportError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("malformed report: %s", e.Reason)
	}
	return fmt.Sprintf("malformed report %s: %s", e.File, e.Reason)
}

// UnsupportedPeriodError reports a request for data outside the guaranteed
// scope of a report type, e.g. a historical or not-yet-issued period through
// the achievement/attendance summary, which only ever carries the current
// academic year's finalized periods.
type UnsupportedPeriodError struct {
	File   string
	Period string
	Reason string
}

func (e *UnsupportedPeriodError) Error() string {
	return fmt.Sprintf("unsupported period %q in %s: %s", e.Period, e.File, e.Reason)
}

// AmbiguousPeriodError reports two source-declared periods of the same kind
// whose date ranges overlap. Month periods cannot overlap by construction.
type AmbiguousPeriodError struct {
	First  string
	Second string
}

func (e *AmbiguousPeriodError) Error() string {
	return fmt.Sprintf("ambiguous periods: %q and %q overlap", e.First, e.Second)
}

// IsMalformedReport reports whether err wraps a MalformedReportError.
func IsMalformedReport(err error) bool {
	var target *MalformedReportError
	return errors.As(err, &target)
}

// IsUnsupportedPeriod reports whether err wraps an UnsupportedPeriodError.
func IsUnsupportedPeriod(err error) bool {
	var target *UnsupportedPeriodError
	return errors.As(err, &target)
}

// IsAmbiguousPeriod reports whether err wraps an AmbiguousPeriodError.
func IsAmbiguousPeriod(err error) bool {
	var target *AmbiguousPeriodError
	return errors.As(err, &target)
}
