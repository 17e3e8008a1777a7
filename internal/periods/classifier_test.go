package periods

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mdacli/internal/errors"
	"mdacli/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func gradeOn(t time.Time) domain.GradeRecord {
	return domain.GradeRecord{
		StudentID: "Jonas Jonaitis",
		Subject:   "Matematika",
		Date:      t,
		Mark:      domain.NewMark(8),
	}
}

func semester(label string, start, end time.Time) domain.AcademicPeriod {
	return domain.AcademicPeriod{
		Kind:         domain.PeriodSemester,
		Label:        label,
		Start:        start,
		End:          end,
		Finalization: domain.Finalized,
	}
}

func TestClassifyMonthAxis(t *testing.T) {
	reports := []domain.ClassReport{
		{Grades: []domain.GradeRecord{gradeOn(day(2023, time.September, 29))}},
		{Grades: []domain.GradeRecord{gradeOn(day(2023, time.December, 22))}},
	}

	c, err := Classify(reports, domain.PeriodMonth)
	require.NoError(t, err)

	// October and November are kept as empty axis entries.
	labels := make([]string, len(c.Periods))
	for i, p := range c.Periods {
		labels[i] = p.Label
	}
	assert.Equal(t, []string{"2023-09", "2023-10", "2023-11", "2023-12"}, labels)

	assert.Len(t, c.Grades["2023-09"], 1)
	assert.Empty(t, c.Grades["2023-10"])
	assert.Len(t, c.Grades["2023-12"], 1)
}

func TestClassifyMonthAxisEmpty(t *testing.T) {
	c, err := Classify(nil, domain.PeriodMonth)
	require.NoError(t, err)
	assert.Empty(t, c.Periods)
}

func TestClassifyDeclaredAxis(t *testing.T) {
	first := semester("2023-2024 I pusmetis", day(2023, time.September, 1), day(2024, time.January, 31))
	second := semester("2023-2024 II pusmetis", day(2024, time.February, 1), day(2024, time.August, 31))

	reports := []domain.ClassReport{
		// Out of chronological order on purpose.
		{Period: second, Grades: []domain.GradeRecord{gradeOn(second.End)}},
		{Period: first, Grades: []domain.GradeRecord{gradeOn(first.End)}},
		// Duplicate declaration of the same window is deduplicated.
		{Period: first},
	}

	c, err := Classify(reports, domain.PeriodSemester)
	require.NoError(t, err)

	require.Len(t, c.Periods, 2)
	assert.Equal(t, first.Label, c.Periods[0].Label)
	assert.Equal(t, second.Label, c.Periods[1].Label)
	assert.Len(t, c.Grades[first.Label], 1)
	assert.Len(t, c.Grades[second.Label], 1)
}

func TestClassifySkipsOtherKinds(t *testing.T) {
	sem := semester("2023-2024 I pusmetis", day(2023, time.September, 1), day(2024, time.January, 31))
	tri := domain.AcademicPeriod{
		Kind:  domain.PeriodTrimester,
		Label: "2023-2024 I trimestras",
		Start: day(2023, time.September, 1),
		End:   day(2023, time.November, 30),
	}

	c, err := Classify([]domain.ClassReport{{Period: sem}, {Period: tri}}, domain.PeriodSemester)
	require.NoError(t, err)
	require.Len(t, c.Periods, 1)
	assert.Equal(t, sem.Label, c.Periods[0].Label)
}

func TestClassifyAmbiguousPeriods(t *testing.T) {
	t.Run("same label different window", func(t *testing.T) {
		a := semester("2023-2024 I pusmetis", day(2023, time.September, 1), day(2024, time.January, 31))
		b := semester("2023-2024 I pusmetis", day(2023, time.September, 1), day(2023, time.December, 31))

		_, err := Classify([]domain.ClassReport{{Period: a}, {Period: b}}, domain.PeriodSemester)
		assert.True(t, apperrors.IsAmbiguousPeriod(err), "got %v", err)
	})

	t.Run("overlapping windows", func(t *testing.T) {
		a := semester("2023-2024 I pusmetis", day(2023, time.September, 1), day(2024, time.February, 15))
		b := semester("2023-2024 II pusmetis", day(2024, time.February, 1), day(2024, time.August, 31))

		_, err := Classify([]domain.ClassReport{{Period: a}, {Period: b}}, domain.PeriodSemester)
		assert.True(t, apperrors.IsAmbiguousPeriod(err), "got %v", err)
	})
}

func TestClassifyUnknownKind(t *testing.T) {
	_, err := Classify(nil, domain.PeriodKind("week"))
	assert.True(t, apperrors.IsMalformedReport(err), "got %v", err)
}
