// Package services orchestrates the analysis pipeline: parse, classify,
// aggregate, assemble. Each request recomputes everything from the input
// files; no state is shared across requests.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"mdacli/internal/aggregation"
	"mdacli/internal/assembler"
	"mdacli/internal/periods"
	"mdacli/internal/reports"
	"mdacli/pkg/contracts/domain"
)

// Series labels mirror the wording of the source system's own charts.
const (
	studentSeriesLabel = "Mokinio vidurkis"
	classSeriesLabel   = "Klasės vidurkis"
	missedSeriesLabel  = "Praleistos pamokos"
	classMissedLabel   = "Klasės praleistų pamokų vidurkis"
)

// parseConcurrency bounds how many report files are opened at once.
const parseConcurrency = 4

// ErrStudentNotFound is returned when a student-scoped mode names a student
// that appears in none of the supplied reports.
var ErrStudentNotFound = errors.New("student not found in the supplied reports")

// AnalysisRequest describes one analysis invocation.
type AnalysisRequest struct {
	Mode       assembler.AnalysisMode `json:"mode" validate:"required"`
	PeriodKind domain.PeriodKind      `json:"period_kind" validate:"required"`
	StudentID  string                 `json:"student_id,omitempty"`
	Files      []string               `json:"files" validate:"required,min=1"`
}

// AnalysisService runs the full pipeline for one request. The pipeline is
// deterministic: identical input files yield bit-for-bit identical charts.
type AnalysisService struct {
	year   domain.AcademicYear
	logger *slog.Logger
}

// NewAnalysisService creates an analysis service bound to the current
// academic year.
func NewAnalysisService(year domain.AcademicYear, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		year:   year,
		logger: logger.With(slog.String("component", "analysis_service")),
	}
}

// Run parses the request's report files and assembles the chart for its
// analysis mode. Parser and classifier errors propagate unchanged.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*assembler.Chart, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	classReports, err := s.parseReports(ctx, req.Files, req.Mode.SourceType())
	if err != nil {
		return nil, err
	}
	if len(classReports) == 0 {
		return nil, fmt.Errorf("no usable reports among %d files", len(req.Files))
	}

	classification, err := periods.Classify(classReports, req.PeriodKind)
	if err != nil {
		return nil, err
	}

	agg := aggregation.New(s.logger)
	roster := latestRoster(classReports)

	switch req.Mode {
	case assembler.ModeClassFinalized, assembler.ModeClassRolling:
		series := make([]assembler.Series, 0, len(roster))
		for _, student := range roster {
			series = append(series, assembler.FromStudentAverages(student, agg.StudentAverages(classification, student, "")))
		}
		return assembler.NewChart(req.Mode, req.PeriodKind, classification.Periods, series...), nil

	case assembler.ModeStudentSubjects:
		if err := requireStudent(roster, req.StudentID); err != nil {
			return nil, err
		}
		subjects, bySubject := agg.StudentSubjectAverages(classification, req.StudentID)
		series := make([]assembler.Series, 0, len(subjects))
		for _, subject := range subjects {
			series = append(series, assembler.FromStudentAverages(subject, bySubject[subject]))
		}
		return assembler.NewChart(req.Mode, req.PeriodKind, classification.Periods, series...), nil

	case assembler.ModeStudentVsClass:
		if err := requireStudent(roster, req.StudentID); err != nil {
			return nil, err
		}
		series := assembler.FromComparative(studentSeriesLabel, classSeriesLabel, agg.StudentVsClass(classification, req.StudentID))
		return assembler.NewChart(req.Mode, req.PeriodKind, classification.Periods, series...), nil

	case assembler.ModeClassAttendance:
		series := make([]assembler.Series, 0, len(roster))
		for _, student := range roster {
			series = append(series, assembler.FromStudentAverages(student, agg.StudentMissedLessons(classification, student)))
		}
		return assembler.NewChart(req.Mode, req.PeriodKind, classification.Periods, series...), nil

	case assembler.ModeStudentAttendanceVsClass:
		if err := requireStudent(roster, req.StudentID); err != nil {
			return nil, err
		}
		series := []assembler.Series{
			assembler.FromStudentAverages(missedSeriesLabel, agg.StudentMissedLessons(classification, req.StudentID)),
			assembler.FromClassAverages(classMissedLabel, agg.ClassMissedLessons(classification)),
		}
		return assembler.NewChart(req.Mode, req.PeriodKind, classification.Periods, series...), nil
	}

	return nil, fmt.Errorf("unhandled analysis mode %q", req.Mode)
}

func (s *AnalysisService) validate(req AnalysisRequest) error {
	if !req.Mode.Valid() {
		return fmt.Errorf("unknown analysis mode %q", req.Mode)
	}
	if !req.PeriodKind.Valid() {
		return fmt.Errorf("unknown period kind %q", req.PeriodKind)
	}
	if req.Mode.NeedsStudent() && req.StudentID == "" {
		return fmt.Errorf("mode %q requires a student", req.Mode)
	}
	if len(req.Files) == 0 {
		return fmt.Errorf("no report files supplied")
	}
	// The summary export never carries month windows; months never finalize.
	if req.Mode.SourceType() == domain.ReportAchievementAttendanceSummary && req.PeriodKind == domain.PeriodMonth {
		return fmt.Errorf("mode %q does not support month periods", req.Mode)
	}
	return nil
}

// parseReports parses the files concurrently, then restores a deterministic
// order and drops duplicate exports of the same period.
func (s *AnalysisService) parseReports(ctx context.Context, paths []string, typ domain.ReportType) ([]domain.ClassReport, error) {
	results := make([]domain.ClassReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parseConcurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parser, err := reports.Open(path, typ, s.year, s.logger)
			if err != nil {
				return err
			}
			defer parser.Close()

			report, err := parser.Collect()
			if err != nil {
				return err
			}
			results[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Re-exporting the same period twice is idempotent: later duplicates
	// are skipped.
	seen := make(map[string]struct{}, len(results))
	var out []domain.ClassReport
	for i, report := range results {
		key := report.Class + "|" + report.Period.Label
		if _, ok := seen[key]; ok {
			s.logger.Warn("duplicate export skipped",
				slog.String("file", paths[i]),
				slog.String("period", report.Period.Label))
			continue
		}
		seen[key] = struct{}{}
		out = append(out, report)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Period.Start.Before(out[j].Period.Start)
	})
	return out, nil
}

// latestRoster returns the student roster of the most recent report, in the
// export's own row order. Pupils who left the class earlier are not charted.
func latestRoster(classReports []domain.ClassReport) []string {
	if len(classReports) == 0 {
		return nil
	}
	return classReports[len(classReports)-1].Students()
}

func requireStudent(roster []string, studentID string) error {
	for _, id := range roster {
		if id == studentID {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrStudentNotFound, studentID)
}
