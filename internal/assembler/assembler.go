// Package assembler arranges aggregated values into ordered, chartable
// period series. It performs no aggregation arithmetic of its own; gaps stay
// explicit so a missing average is never plotted as a zero.
package assembler

import (
	"mdacli/internal/aggregation"
	"mdacli/pkg/contracts/domain"
)

// AnalysisMode selects which period kind and aggregation scope a chart is
// built from.
type AnalysisMode string

const (
	// ModeClassFinalized charts every pupil's overall average across the
	// finalized trimester/semester periods of the summary exports.
	ModeClassFinalized AnalysisMode = "class_by_finalized_period"
	// ModeClassRolling charts class averages across rolling windows of the
	// averages exports, finalized or not.
	ModeClassRolling AnalysisMode = "class_by_rolling_period"
	// ModeStudentSubjects charts one student's per-subject averages.
	ModeStudentSubjects AnalysisMode = "student_subject_by_period"
	// ModeStudentVsClass overlays one student's overall average with the
	// class average on the same axis.
	ModeStudentVsClass AnalysisMode = "student_overall_vs_class_by_period"
	// ModeClassAttendance charts the class mean of missed lessons.
	ModeClassAttendance AnalysisMode = "class_attendance_by_period"
	// ModeStudentAttendanceVsClass overlays one student's missed lessons
	// with the class mean.
	ModeStudentAttendanceVsClass AnalysisMode = "student_attendance_vs_class_by_period"
)

// Valid reports whether the mode is supported.
func (m AnalysisMode) Valid() bool {
	switch m {
	case ModeClassFinalized, ModeClassRolling, ModeStudentSubjects,
		ModeStudentVsClass, ModeClassAttendance, ModeStudentAttendanceVsClass:
		return true
	}
	return false
}

// NeedsStudent reports whether the mode targets a single student.
func (m AnalysisMode) NeedsStudent() bool {
	switch m {
	case ModeStudentSubjects, ModeStudentVsClass, ModeStudentAttendanceVsClass:
		return true
	}
	return false
}

// SourceType returns which export type feeds the mode. Finalized-period
// charts come from the achievement/attendance summary, which only ever
// reports issued periods; everything else comes from the averages export.
func (m AnalysisMode) SourceType() domain.ReportType {
	switch m {
	case ModeClassFinalized, ModeClassAttendance, ModeStudentAttendanceVsClass:
		return domain.ReportAchievementAttendanceSummary
	default:
		return domain.ReportAverages
	}
}

// Point is one (period label, value-or-gap) pair. A nil Value is an explicit
// gap.
type Point struct {
	Period string   `json:"period"`
	Value  *float64 `json:"value"`
}

// Series is one labeled line on a chart.
type Series struct {
	Label  string  `json:"label"`
	Points []Point `json:"points"`
}

// Chart is the assembled output of one analysis: the shared chronological
// period axis plus every series aligned onto it.
type Chart struct {
	Mode   AnalysisMode      `json:"mode"`
	Kind   domain.PeriodKind `json:"kind"`
	Axis   []string          `json:"axis"`
	Series []Series          `json:"series"`
}

// FromStudentAverages builds a series from per-period student averages,
// which arrive in axis order with one entry per period.
func FromStudentAverages(label string, averages []domain.StudentAverage) Series {
	points := make([]Point, len(averages))
	for i, avg := range averages {
		points[i] = Point{Period: avg.Period.Label}
		if avg.Defined() {
			value := avg.Value
			points[i].Value = &value
		}
	}
	return Series{Label: label, Points: points}
}

// FromClassAverages builds a series from per-period class averages.
func FromClassAverages(label string, averages []domain.ClassAverage) Series {
	points := make([]Point, len(averages))
	for i, avg := range averages {
		points[i] = Point{Period: avg.Period.Label}
		if avg.Defined() {
			value := avg.Value
			points[i].Value = &value
		}
	}
	return Series{Label: label, Points: points}
}

// FromComparative builds the paired student and class series of the
// comparative mode, aligned on the identical axis by construction.
func FromComparative(studentLabel, classLabel string, points []aggregation.ComparativePoint) []Series {
	student := make([]domain.StudentAverage, len(points))
	class := make([]domain.ClassAverage, len(points))
	for i, p := range points {
		student[i] = p.Student
		class[i] = p.Class
	}
	return []Series{
		FromStudentAverages(studentLabel, student),
		FromClassAverages(classLabel, class),
	}
}

// NewChart assembles the final chart from an ordered period axis and its
// series. Series built from the same classification share the axis already;
// the axis labels are re-derived here so callers cannot desynchronize them.
func NewChart(mode AnalysisMode, kind domain.PeriodKind, axis []domain.AcademicPeriod, series ...Series) *Chart {
	labels := make([]string, len(axis))
	for i, p := range axis {
		labels[i] = p.Label
	}
	return &Chart{Mode: mode, Kind: kind, Axis: labels, Series: series}
}
