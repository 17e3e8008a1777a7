package reports_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mdacli/internal/errors"
	"mdacli/internal/reports"
	"mdacli/internal/shared/testutil"
	"mdacli/pkg/contracts/domain"
)

var testYear = domain.AcademicYear{StartYear: 2023}

func summaryFixture(t *testing.T, spec testutil.SummarySpec) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	testutil.WriteSummaryReport(t, path, spec)
	return path
}

func averagesFixture(t *testing.T, spec testutil.AveragesSpec) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "averages.xlsx")
	testutil.WriteAveragesReport(t, path, spec)
	return path
}

func TestOpenSummary(t *testing.T) {
	path := summaryFixture(t, testutil.SummarySpec{
		Class:     "7a",
		TermLabel: "2023-2024m.m.I pusmetis",
		Subjects:  []string{"Matematika", "Lietuvių kalba"},
		Pupils: []PupilRowAlias{
			{Name: "Jonas Jonaitis", Marks: []string{"8", "9"}, Attendance: [4]string{"12", "10", "0", "2"}},
			{Name: "Ona Onaitė", Marks: []string{"10", "-"}},
		},
	})

	p, err := reports.Open(path, domain.ReportAchievementAttendanceSummary, testYear, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "7a", p.Class())
	period := p.Period()
	assert.Equal(t, domain.PeriodSemester, period.Kind)
	assert.Equal(t, "2023-2024 I pusmetis", period.Label)
	assert.Equal(t, domain.Finalized, period.Finalization)

	report, err := p.Collect()
	require.NoError(t, err)

	require.Len(t, report.Grades, 3)
	first := report.Grades[0]
	assert.Equal(t, "Jonas Jonaitis", first.StudentID)
	assert.Equal(t, "Matematika", first.Subject)
	assert.True(t, first.Finalized)
	assert.InDelta(t, 8.0, first.Mark.Value, 1e-9)
	assert.Equal(t, period.End, first.Date)

	// The dash is a no-mark cell; no record is produced for it.
	last := report.Grades[2]
	assert.Equal(t, "Ona Onaitė", last.StudentID)
	assert.Equal(t, "Matematika", last.Subject)

	require.Len(t, report.Attendance, 2)
	assert.Equal(t, domain.AttendanceExcused, report.Attendance[0].Status)
	assert.Equal(t, 10, report.Attendance[0].Count)
	assert.Equal(t, domain.AttendanceAbsent, report.Attendance[1].Status)
	assert.Equal(t, 2, report.Attendance[1].Count)
}

// PupilRowAlias keeps the fixture literals compact.
type PupilRowAlias = testutil.PupilRow

func TestOpenSummaryRejections(t *testing.T) {
	base := func() testutil.SummarySpec {
		return testutil.SummarySpec{
			Class:     "7a",
			TermLabel: "2023-2024m.m.I pusmetis",
			Subjects:  []string{"Matematika"},
			Pupils:    []PupilRowAlias{{Name: "Jonas Jonaitis", Marks: []string{"8"}}},
		}
	}

	t.Run("wrong title", func(t *testing.T) {
		spec := base()
		spec.Title = "Ataskaita: Kita suvestinė"
		_, err := reports.Open(summaryFixture(t, spec), domain.ReportAchievementAttendanceSummary, testYear, nil)
		assert.True(t, apperrors.IsMalformedReport(err), "got %v", err)
	})

	t.Run("yearly report", func(t *testing.T) {
		spec := base()
		spec.TermLabel = "2023-2024m.m.metinis"
		_, err := reports.Open(summaryFixture(t, spec), domain.ReportAchievementAttendanceSummary, testYear, nil)
		assert.True(t, apperrors.IsUnsupportedPeriod(err), "got %v", err)
	})

	t.Run("previous academic year", func(t *testing.T) {
		spec := base()
		spec.TermLabel = "2022-2023m.m.I pusmetis"
		_, err := reports.Open(summaryFixture(t, spec), domain.ReportAchievementAttendanceSummary, testYear, nil)
		assert.True(t, apperrors.IsUnsupportedPeriod(err), "got %v", err)
	})

	t.Run("period not issued", func(t *testing.T) {
		spec := base()
		spec.ClassAverage = "0"
		_, err := reports.Open(summaryFixture(t, spec), domain.ReportAchievementAttendanceSummary, testYear, nil)
		assert.True(t, apperrors.IsUnsupportedPeriod(err), "got %v", err)
	})

	t.Run("garbage mark cell", func(t *testing.T) {
		spec := base()
		spec.Pupils[0].Marks = []string{"abc"}
		p, err := reports.Open(summaryFixture(t, spec), domain.ReportAchievementAttendanceSummary, testYear, nil)
		require.NoError(t, err)
		defer p.Close()
		_, err = p.Collect()
		assert.True(t, apperrors.IsMalformedReport(err), "got %v", err)
	})

	t.Run("no subjects", func(t *testing.T) {
		spec := base()
		spec.Subjects = nil
		spec.Pupils[0].Marks = nil
		_, err := reports.Open(summaryFixture(t, spec), domain.ReportAchievementAttendanceSummary, testYear, nil)
		assert.True(t, apperrors.IsMalformedReport(err), "got %v", err)
	})
}

func TestOpenAverages(t *testing.T) {
	path := averagesFixture(t, testutil.AveragesSpec{
		Class:    "7a",
		Window:   "2024-02-01 - 2024-02-29",
		Subjects: []string{"Matematika", "Istorija"},
		Pupils: []PupilRowAlias{
			{Name: "Jonas Jonaitis", Marks: []string{"8,25", "9"}},
			{Name: "Ona Onaitė", Marks: []string{"", "7,5"}},
		},
	})

	p, err := reports.Open(path, domain.ReportAverages, testYear, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "7a", p.Class())
	period := p.Period()
	assert.Equal(t, domain.PeriodMonth, period.Kind)
	assert.Equal(t, "2024-02", period.Label)
	assert.Equal(t, domain.InProgress, period.Finalization)

	report, err := p.Collect()
	require.NoError(t, err)
	require.Len(t, report.Grades, 3)
	assert.InDelta(t, 8.25, report.Grades[0].Mark.Value, 1e-9)
	assert.False(t, report.Grades[0].Finalized)
	assert.Empty(t, report.Attendance)
}

func TestOpenAveragesRejections(t *testing.T) {
	base := func() testutil.AveragesSpec {
		return testutil.AveragesSpec{
			Class:    "7a",
			Window:   "2024-02-01 - 2024-02-29",
			Subjects: []string{"Matematika"},
			Pupils:   []PupilRowAlias{{Name: "Jonas Jonaitis", Marks: []string{"8"}}},
		}
	}

	t.Run("incomplete export", func(t *testing.T) {
		spec := base()
		spec.ClassAverage = "0,0"
		_, err := reports.Open(averagesFixture(t, spec), domain.ReportAverages, testYear, nil)
		assert.True(t, apperrors.IsMalformedReport(err), "got %v", err)
	})

	t.Run("bad window", func(t *testing.T) {
		spec := base()
		spec.Window = "vasaris"
		_, err := reports.Open(averagesFixture(t, spec), domain.ReportAverages, testYear, nil)
		assert.True(t, apperrors.IsMalformedReport(err), "got %v", err)
	})

	t.Run("inverted window", func(t *testing.T) {
		spec := base()
		spec.Window = "2024-02-29 - 2024-02-01"
		_, err := reports.Open(averagesFixture(t, spec), domain.ReportAverages, testYear, nil)
		assert.True(t, apperrors.IsMalformedReport(err), "got %v", err)
	})
}

func TestRecordsRestart(t *testing.T) {
	path := summaryFixture(t, testutil.SummarySpec{
		Class:     "7a",
		TermLabel: "2023-2024m.m.II trimestras",
		Subjects:  []string{"Matematika", "Istorija"},
		Pupils: []PupilRowAlias{
			{Name: "Jonas Jonaitis", Marks: []string{"8", "9"}, Attendance: [4]string{"3", "0", "1", "2"}},
			{Name: "Ona Onaitė", Marks: []string{"7", "10"}},
		},
	})

	p, err := reports.Open(path, domain.ReportAchievementAttendanceSummary, testYear, nil)
	require.NoError(t, err)
	defer p.Close()

	drain := func() []reports.Record {
		var out []reports.Record
		scanner := p.Records()
		for scanner.Next() {
			out = append(out, scanner.Record())
		}
		require.NoError(t, scanner.Err())
		return out
	}

	first := drain()
	second := drain()
	require.Len(t, first, len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i])
	}
}
