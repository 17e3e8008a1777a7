package domain

import (
	"fmt"
	"time"
)

// PeriodKind selects the academic time window a record is grouped into.
type PeriodKind string

const (
	PeriodTrimester PeriodKind = "trimester"
	PeriodSemester  PeriodKind = "semester"
	PeriodMonth     PeriodKind = "month"
)

// Valid reports whether the kind is one of the supported window kinds.
func (k PeriodKind) Valid() bool {
	switch k {
	case PeriodTrimester, PeriodSemester, PeriodMonth:
		return true
	}
	return false
}

// Finalization is the explicit state of an academic period. It is a tagged
// variant rather than a bare bool so the two report-type code paths cannot
// drift apart in how they check finalization.
type Finalization string

const (
	// Finalized means grades for the period were officially issued.
	Finalized Finalization = "finalized"
	// InProgress means the period is a partial, rolling window. Month
	// periods are always in progress.
	InProgress Finalization = "in_progress"
)

// AcademicPeriod is one academic time window on the chart axis.
type AcademicPeriod struct {
	Kind         PeriodKind   `json:"kind"`
	Label        string       `json:"label"`
	Start        time.Time    `json:"start"`
	End          time.Time    `json:"end"`
	Finalization Finalization `json:"finalization"`
}

// Contains reports whether t falls inside the period window, inclusive of
// both boundary dates.
func (p AcademicPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Overlaps reports whether two period windows intersect.
func (p AcademicPeriod) Overlaps(other AcademicPeriod) bool {
	return !p.End.Before(other.Start) && !other.End.Before(p.Start)
}

// MonthPeriod derives the calendar-month window containing t. Month windows
// span the whole calendar month regardless of weekends or holidays and are
// never finalized.
func MonthPeriod(t time.Time) AcademicPeriod {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return AcademicPeriod{
		Kind:         PeriodMonth,
		Label:        start.Format("2006-01"),
		Start:        start,
		End:          end,
		Finalization: InProgress,
	}
}

// AcademicYear is the September-to-August window used to decide whether a
// report belongs to the current school year.
type AcademicYear struct {
	StartYear int `json:"start_year"`
}

// AcademicYearForDate returns the academic year containing t.
func AcademicYearForDate(t time.Time) AcademicYear {
	year := t.Year()
	if t.Month() < time.September {
		year--
	}
	return AcademicYear{StartYear: year}
}

// Start returns September 1st of the starting year.
func (y AcademicYear) Start() time.Time {
	return time.Date(y.StartYear, time.September, 1, 0, 0, 0, 0, time.UTC)
}

// End returns August 31st of the following year.
func (y AcademicYear) End() time.Time {
	return time.Date(y.StartYear+1, time.August, 31, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the academic year.
func (y AcademicYear) Contains(t time.Time) bool {
	return !t.Before(y.Start()) && !t.After(y.End())
}

// String renders the year the way the exports label it, e.g. "2023-2024".
func (y AcademicYear) String() string {
	return fmt.Sprintf("%d-%d", y.StartYear, y.StartYear+1)
}
