package domain

// StudentAverage is a derived per-student mean over one period. Subject is
// empty for the overall average. Recomputed on demand, never persisted.
type StudentAverage struct {
	StudentID   string         `json:"student_id"`
	Period      AcademicPeriod `json:"period"`
	Subject     string         `json:"subject,omitempty"`
	Value       float64        `json:"value"`
	SampleCount int            `json:"sample_count"`
}

// ClassAverage is the derived class-wide mean over one period. It uses the
// identical arithmetic mean formula as StudentAverage so overlaying the two
// series is directly comparable.
type ClassAverage struct {
	Period      AcademicPeriod `json:"period"`
	Subject     string         `json:"subject,omitempty"`
	Value       float64        `json:"value"`
	SampleCount int            `json:"sample_count"`
}

// Defined reports whether the average has any samples. A zero-sample average
// is undefined and must surface as a gap, never as a plotted zero.
func (a StudentAverage) Defined() bool { return a.SampleCount > 0 }

// Defined reports whether the average has any samples.
func (a ClassAverage) Defined() bool { return a.SampleCount > 0 }
