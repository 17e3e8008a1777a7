package domain

// ReportType identifies which export of the school record system a file
// claims to be. The column layout of each type is a versioned external wire
// format owned by the exporter, not by this engine.
type ReportType string

const (
	// ReportAchievementAttendanceSummary covers finalized trimester or
	// semester marks plus attendance counters for the current academic year.
	ReportAchievementAttendanceSummary ReportType = "achievement_attendance_summary"
	// ReportAverages covers per-pupil averages over an arbitrary declared
	// date window, including periods that are not yet finalized.
	ReportAverages ReportType = "averages_report"
)

// Valid reports whether the type is one of the supported export types.
func (t ReportType) Valid() bool {
	switch t {
	case ReportAchievementAttendanceSummary, ReportAverages:
		return true
	}
	return false
}

// ClassReport is the normalized result of parsing one exported file: the
// declared period window stated by the exporter plus every grade and
// attendance record extracted from the grid.
type ClassReport struct {
	Type       ReportType         `json:"type"`
	Class      string             `json:"class"`
	Period     AcademicPeriod     `json:"period"`
	Grades     []GradeRecord      `json:"grades"`
	Attendance []AttendanceRecord `json:"attendance"`
}

// Students returns the distinct student IDs in first-seen order.
func (r ClassReport) Students() []string {
	seen := make(map[string]struct{}, len(r.Grades))
	var ids []string
	for _, g := range r.Grades {
		if _, ok := seen[g.StudentID]; !ok {
			seen[g.StudentID] = struct{}{}
			ids = append(ids, g.StudentID)
		}
	}
	return ids
}
