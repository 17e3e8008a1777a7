// Package aggregation computes the average metrics over classified records.
//
// Every scope (class, student, student+subject) uses the identical
// arithmetic mean, sum of marks divided by their count, so any two series
// can be overlaid on one chart without cross-normalization. Averages with
// zero samples are undefined and carry SampleCount == 0; they must surface
// as gaps, never as zeros.
package aggregation

import (
	"log/slog"
	"sort"

	"mdacli/internal/periods"
	"mdacli/pkg/contracts/domain"
)

// Aggregator computes per-period averages from a classification. It holds no
// state between requests; every call recomputes from its inputs.
type Aggregator struct {
	logger *slog.Logger
}

// New creates an aggregator.
func New(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger.With(slog.String("component", "aggregator"))}
}

// ComparativePoint pairs a student average with the class average over the
// identical period and subject scope.
type ComparativePoint struct {
	Student domain.StudentAverage `json:"student"`
	Class   domain.ClassAverage   `json:"class"`
}

// ClassAverages computes the class-wide mean per period. Subject narrows the
// scope to one subject; empty means all subjects.
func (a *Aggregator) ClassAverages(c *periods.Classification, subject string) []domain.ClassAverage {
	out := make([]domain.ClassAverage, 0, len(c.Periods))
	for _, p := range c.Periods {
		sum, count := meanScope(c.Grades[p.Label], p, "", subject)
		out = append(out, domain.ClassAverage{
			Period:      p,
			Subject:     subject,
			Value:       mean(sum, count),
			SampleCount: count,
		})
	}
	return out
}

// StudentAverages computes one student's mean per period. Subject narrows
// the scope to one subject; empty means the overall average.
func (a *Aggregator) StudentAverages(c *periods.Classification, studentID, subject string) []domain.StudentAverage {
	out := make([]domain.StudentAverage, 0, len(c.Periods))
	for _, p := range c.Periods {
		sum, count := meanScope(c.Grades[p.Label], p, studentID, subject)
		out = append(out, domain.StudentAverage{
			StudentID:   studentID,
			Period:      p,
			Subject:     subject,
			Value:       mean(sum, count),
			SampleCount: count,
		})
	}
	return out
}

// StudentSubjectAverages computes one student's mean per period for every
// subject the student has at least one mark in. Subjects come back sorted
// by name for deterministic output.
func (a *Aggregator) StudentSubjectAverages(c *periods.Classification, studentID string) ([]string, map[string][]domain.StudentAverage) {
	subjectSet := make(map[string]struct{})
	for _, p := range c.Periods {
		for _, g := range c.Grades[p.Label] {
			if g.StudentID == studentID && g.Mark.Valid {
				subjectSet[g.Subject] = struct{}{}
			}
		}
	}
	subjects := make([]string, 0, len(subjectSet))
	for s := range subjectSet {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	bySubject := make(map[string][]domain.StudentAverage, len(subjects))
	for _, subject := range subjects {
		bySubject[subject] = a.StudentAverages(c, studentID, subject)
	}
	return subjects, bySubject
}

// StudentVsClass computes the student's overall averages paired with the
// class averages over the identical period axis.
func (a *Aggregator) StudentVsClass(c *periods.Classification, studentID string) []ComparativePoint {
	student := a.StudentAverages(c, studentID, "")
	class := a.ClassAverages(c, "")
	points := make([]ComparativePoint, len(student))
	for i := range student {
		points[i] = ComparativePoint{Student: student[i], Class: class[i]}
	}
	return points
}

// StudentMissedLessons totals a student's missed lessons per period. The
// value is a count, not a mean, but shares the gap semantics: a period
// without attendance data is undefined.
func (a *Aggregator) StudentMissedLessons(c *periods.Classification, studentID string) []domain.StudentAverage {
	out := make([]domain.StudentAverage, 0, len(c.Periods))
	for _, p := range c.Periods {
		total, seen := 0, false
		for _, rec := range c.Attendance[p.Label] {
			if rec.StudentID != studentID {
				continue
			}
			total += rec.Count
			seen = true
		}
		avg := domain.StudentAverage{StudentID: studentID, Period: p}
		if seen {
			avg.Value = float64(total)
			avg.SampleCount = 1
		}
		out = append(out, avg)
	}
	return out
}

// ClassMissedLessons computes the mean missed-lesson count per pupil per
// period.
func (a *Aggregator) ClassMissedLessons(c *periods.Classification) []domain.ClassAverage {
	out := make([]domain.ClassAverage, 0, len(c.Periods))
	for _, p := range c.Periods {
		perPupil := make(map[string]int)
		for _, rec := range c.Attendance[p.Label] {
			perPupil[rec.StudentID] += rec.Count
		}
		avg := domain.ClassAverage{Period: p}
		if len(perPupil) > 0 {
			total := 0
			for _, n := range perPupil {
				total += n
			}
			avg.Value = float64(total) / float64(len(perPupil))
			avg.SampleCount = len(perPupil)
		}
		out = append(out, avg)
	}
	return out
}

// meanScope sums the in-scope marks of one period. Finalized periods count
// only officially issued marks; in-progress windows count everything.
func meanScope(grades []domain.GradeRecord, p domain.AcademicPeriod, studentID, subject string) (sum float64, count int) {
	for _, g := range grades {
		if !g.Mark.Valid {
			continue
		}
		if p.Finalization == domain.Finalized && !g.Finalized {
			continue
		}
		if studentID != "" && g.StudentID != studentID {
			continue
		}
		if subject != "" && g.Subject != subject {
			continue
		}
		sum += g.Mark.Value
		count++
	}
	return sum, count
}

func mean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
