package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdacli/internal/aggregation"
	"mdacli/pkg/contracts/domain"
)

func monthPeriod(label string) domain.AcademicPeriod {
	return domain.AcademicPeriod{Kind: domain.PeriodMonth, Label: label, Finalization: domain.InProgress}
}

func studentAvg(label string, value float64, samples int) domain.StudentAverage {
	return domain.StudentAverage{
		StudentID:   "Jonas",
		Period:      monthPeriod(label),
		Value:       value,
		SampleCount: samples,
	}
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeClassFinalized.Valid())
	assert.True(t, ModeStudentAttendanceVsClass.Valid())
	assert.False(t, AnalysisMode("everything").Valid())
}

func TestModeNeedsStudent(t *testing.T) {
	assert.True(t, ModeStudentSubjects.NeedsStudent())
	assert.True(t, ModeStudentVsClass.NeedsStudent())
	assert.False(t, ModeClassRolling.NeedsStudent())
	assert.False(t, ModeClassAttendance.NeedsStudent())
}

func TestModeSourceType(t *testing.T) {
	assert.Equal(t, domain.ReportAchievementAttendanceSummary, ModeClassFinalized.SourceType())
	assert.Equal(t, domain.ReportAchievementAttendanceSummary, ModeClassAttendance.SourceType())
	assert.Equal(t, domain.ReportAverages, ModeClassRolling.SourceType())
	assert.Equal(t, domain.ReportAverages, ModeStudentSubjects.SourceType())
}

func TestFromStudentAveragesKeepsGaps(t *testing.T) {
	series := FromStudentAverages("Mokinio vidurkis", []domain.StudentAverage{
		studentAvg("2023-09", 8.5, 12),
		studentAvg("2023-10", 0, 0),
		studentAvg("2023-11", 9.25, 10),
	})

	require.Len(t, series.Points, 3)
	require.NotNil(t, series.Points[0].Value)
	assert.InDelta(t, 8.5, *series.Points[0].Value, 1e-9)
	assert.Nil(t, series.Points[1].Value, "undefined average must stay a gap")
	require.NotNil(t, series.Points[2].Value)
	assert.InDelta(t, 9.25, *series.Points[2].Value, 1e-9)
}

func TestFromComparativeAlignsSeries(t *testing.T) {
	points := []aggregation.ComparativePoint{
		{
			Student: studentAvg("2023-09", 8, 5),
			Class:   domain.ClassAverage{Period: monthPeriod("2023-09"), Value: 9, SampleCount: 40},
		},
		{
			Student: studentAvg("2023-10", 0, 0),
			Class:   domain.ClassAverage{Period: monthPeriod("2023-10"), Value: 7.5, SampleCount: 38},
		},
	}

	series := FromComparative("Mokinio vidurkis", "Klasės vidurkis", points)
	require.Len(t, series, 2)

	student, class := series[0], series[1]
	assert.Equal(t, "Mokinio vidurkis", student.Label)
	assert.Equal(t, "Klasės vidurkis", class.Label)
	require.Len(t, student.Points, 2)
	require.Len(t, class.Points, 2)

	// The student has a gap in October while the class does not.
	assert.Nil(t, student.Points[1].Value)
	require.NotNil(t, class.Points[1].Value)
	assert.InDelta(t, 7.5, *class.Points[1].Value, 1e-9)
	assert.Equal(t, student.Points[1].Period, class.Points[1].Period)
}

func TestNewChartAxisOrder(t *testing.T) {
	axis := []domain.AcademicPeriod{
		monthPeriod("2023-09"),
		monthPeriod("2023-10"),
		monthPeriod("2023-11"),
	}
	series := FromStudentAverages("Mokinio vidurkis", []domain.StudentAverage{
		studentAvg("2023-09", 8, 1),
		studentAvg("2023-10", 9, 1),
		studentAvg("2023-11", 10, 1),
	})

	chart := NewChart(ModeStudentSubjects, domain.PeriodMonth, axis, series)
	assert.Equal(t, ModeStudentSubjects, chart.Mode)
	assert.Equal(t, domain.PeriodMonth, chart.Kind)
	assert.Equal(t, []string{"2023-09", "2023-10", "2023-11"}, chart.Axis)
	require.Len(t, chart.Series, 1)
	for i, p := range chart.Series[0].Points {
		assert.Equal(t, chart.Axis[i], p.Period)
	}
}
