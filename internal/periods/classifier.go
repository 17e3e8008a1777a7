// Package periods assigns parsed records to academic time windows.
//
// Trimester and semester windows are taken verbatim from the source exports'
// own period declarations; the classifier trusts the exporter's boundaries
// and does not infer academic calendars. Month windows are derived purely
// from the calendar date on each record.
package periods

import (
	"log/slog"
	"sort"
	"time"

	apperrors "mdacli/internal/errors"
	"mdacli/pkg/contracts/domain"
)

// Classification is the ordered period axis plus the attribution of every
// record to exactly one period of the requested kind. Records are grouped by
// period label.
type Classification struct {
	Kind       domain.PeriodKind
	Periods    []domain.AcademicPeriod
	Grades     map[string][]domain.GradeRecord
	Attendance map[string][]domain.AttendanceRecord
}

// Classify builds the period axis of the requested kind spanned by the
// reports and attributes each record to its period. Overlapping declared
// periods fail with AmbiguousPeriodError before any aggregation can run.
func Classify(reports []domain.ClassReport, kind domain.PeriodKind) (*Classification, error) {
	if !kind.Valid() {
		return nil, &apperrors.MalformedReportError{Reason: "unknown period kind " + string(kind)}
	}

	var axis []domain.AcademicPeriod
	var err error
	if kind == domain.PeriodMonth {
		axis = monthAxis(reports)
	} else {
		axis, err = declaredAxis(reports, kind)
		if err != nil {
			return nil, err
		}
	}

	c := &Classification{
		Kind:       kind,
		Periods:    axis,
		Grades:     make(map[string][]domain.GradeRecord),
		Attendance: make(map[string][]domain.AttendanceRecord),
	}
	for _, report := range reports {
		for _, g := range report.Grades {
			if label, ok := c.periodFor(g.Date); ok {
				c.Grades[label] = append(c.Grades[label], g)
			} else {
				slog.Debug("grade outside every period window, dropped",
					slog.String("student", g.StudentID),
					slog.Time("date", g.Date))
			}
		}
		for _, a := range report.Attendance {
			if label, ok := c.periodFor(a.Date); ok {
				c.Attendance[label] = append(c.Attendance[label], a)
			}
		}
	}
	return c, nil
}

// periodFor finds the single period containing t. Non-overlap of the axis
// guarantees at most one match.
func (c *Classification) periodFor(t time.Time) (string, bool) {
	for _, p := range c.Periods {
		if p.Contains(t) {
			return p.Label, true
		}
	}
	return "", false
}

// monthAxis derives the ordered calendar-month axis spanned by the records.
// Empty months between the first and last non-empty month are kept so trend
// charts get a continuous, evenly spaced time axis.
func monthAxis(reports []domain.ClassReport) []domain.AcademicPeriod {
	seen := make(map[string]domain.AcademicPeriod)
	var first, last time.Time
	note := func(t time.Time) {
		p := domain.MonthPeriod(t)
		if _, ok := seen[p.Label]; !ok {
			seen[p.Label] = p
		}
		if first.IsZero() || p.Start.Before(first) {
			first = p.Start
		}
		if last.IsZero() || p.Start.After(last) {
			last = p.Start
		}
	}
	for _, report := range reports {
		for _, g := range report.Grades {
			note(g.Date)
		}
		for _, a := range report.Attendance {
			note(a.Date)
		}
	}
	if first.IsZero() {
		return nil
	}

	var axis []domain.AcademicPeriod
	for cursor := first; !cursor.After(last); cursor = cursor.AddDate(0, 1, 0) {
		axis = append(axis, domain.MonthPeriod(cursor))
	}
	return axis
}

// declaredAxis collects the source-declared periods of the requested kind,
// deduplicates identical declarations and rejects overlapping ones.
func declaredAxis(reports []domain.ClassReport, kind domain.PeriodKind) ([]domain.AcademicPeriod, error) {
	seen := make(map[string]domain.AcademicPeriod)
	var axis []domain.AcademicPeriod
	for _, report := range reports {
		p := report.Period
		if p.Kind != kind {
			continue
		}
		if prev, ok := seen[p.Label]; ok {
			if !prev.Start.Equal(p.Start) || !prev.End.Equal(p.End) {
				return nil, &apperrors.AmbiguousPeriodError{First: prev.Label, Second: p.Label}
			}
			continue
		}
		seen[p.Label] = p
		axis = append(axis, p)
	}

	sort.SliceStable(axis, func(i, j int) bool {
		return axis[i].Start.Before(axis[j].Start)
	})
	for i := 1; i < len(axis); i++ {
		if axis[i-1].Overlaps(axis[i]) {
			return nil, &apperrors.AmbiguousPeriodError{First: axis[i-1].Label, Second: axis[i].Label}
		}
	}
	return axis, nil
}
