package domain

import (
	"time"
)

// Mark is a normalized mark on the 10-point scale. Valid is false when the
// source cell carried no gradable value (empty, "-", "atl", absence codes).
// A zero in the export also means "no mark", never an actual grade.
type Mark struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// NewMark creates a valid mark with the given normalized value.
func NewMark(value float64) Mark {
	return Mark{Value: value, Valid: true}
}

// NoMark represents the absence of a mark.
func NoMark() Mark {
	return Mark{}
}

// GradeRecord is a single normalized grade extracted from an exported report.
// Records are immutable once parsed; re-running an analysis re-parses and
// recomputes everything from scratch.
type GradeRecord struct {
	StudentID string    `json:"student_id"`
	Subject   string    `json:"subject"`
	Date      time.Time `json:"date"`
	Mark      Mark      `json:"mark"`
	// Finalized is true when the mark was officially issued for a closed
	// grading period, as opposed to a provisional in-progress mark.
	Finalized bool `json:"finalized"`
}

// AttendanceStatus classifies a missed or attended lesson.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// AttendanceRecord is a normalized attendance entry. The summary export
// reports per-period counters per pupil rather than individual lessons, so
// Count carries the counter value; per-lesson sources use Count == 1.
type AttendanceRecord struct {
	StudentID string           `json:"student_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Count     int              `json:"count"`
}
