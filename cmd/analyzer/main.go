// Command analyzer runs one analysis over a directory of exported reports
// and writes the assembled chart as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"mdacli/internal/assembler"
	"mdacli/internal/config"
	"mdacli/internal/exporter"
	"mdacli/internal/files"
	"mdacli/internal/infrastructure"
	"mdacli/internal/services"
	"mdacli/pkg/contracts/domain"
)

func main() {
	inDir := flag.String("in", "", "input directory with exported .xlsx reports (defaults to the configured reports dir)")
	outFile := flag.String("out", "chart.csv", "output CSV file name, written below the configured output dir")
	mode := flag.String("mode", string(assembler.ModeClassFinalized), "analysis mode")
	kind := flag.String("kind", string(domain.PeriodSemester), "period kind: trimester, semester or month")
	student := flag.String("student", "", "student name for student-scoped modes")
	year := flag.Int("year", 0, "starting calendar year of the academic year, e.g. 2023 for 2023-2024")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	reportsDir := *inDir
	if reportsDir == "" {
		reportsDir = cfg.Paths.ReportsDir
	}

	startYear := *year
	if startYear == 0 {
		startYear = cfg.AcademicYearStart(time.Now())
	}
	academicYear := domain.AcademicYear{StartYear: startYear}

	discovery := files.NewDiscovery(".")
	found, err := discovery.FindReportFiles(reportsDir)
	if err != nil {
		logger.Error("failed to discover report files", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(found) == 0 {
		logger.Error("no report files found", slog.String("dir", reportsDir))
		os.Exit(1)
	}

	paths := make([]string, len(found))
	for i, f := range found {
		paths[i] = f.Path
	}
	logger.Info("reports discovered",
		slog.Int("count", len(paths)),
		slog.String("academic_year", academicYear.String()))

	service := services.NewAnalysisService(academicYear, logger)
	chart, err := service.Run(context.Background(), services.AnalysisRequest{
		Mode:       assembler.AnalysisMode(*mode),
		PeriodKind: domain.PeriodKind(*kind),
		StudentID:  *student,
		Files:      paths,
	})
	if err != nil {
		logger.Error("analysis failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(cfg.Paths.OutputDir, logger)
	path, err := writer.WriteChart(*outFile, chart)
	if err != nil {
		logger.Error("failed to write chart", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(path)
}
