// Package exporter writes assembled charts to CSV for spreadsheet import.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"mdacli/internal/assembler"
)

// CSVWriter writes analysis output below a fixed output directory.
type CSVWriter struct {
	outputDir string
	logger    *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at outputDir.
func NewCSVWriter(outputDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		outputDir: outputDir,
		logger:    logger.With(slog.String("component", "csv_exporter")),
	}
}

// WriteChart writes one chart as a CSV grid: the period axis down the first
// column, one column per series. Gaps become empty cells, never zeros. A
// UTF-8 BOM is prepended so Excel decodes Lithuanian subject names.
func (w *CSVWriter) WriteChart(fileName string, chart *assembler.Chart) (string, error) {
	fullPath := filepath.Join(w.outputDir, fileName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := make([]string, 0, len(chart.Series)+1)
	header = append(header, "period")
	for _, s := range chart.Series {
		header = append(header, s.Label)
	}
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for i, period := range chart.Axis {
		row := make([]string, 0, len(header))
		row = append(row, period)
		for _, s := range chart.Series {
			cell := ""
			if i < len(s.Points) && s.Points[i].Value != nil {
				cell = strconv.FormatFloat(*s.Points[i].Value, 'f', 2, 64)
			}
			row = append(row, cell)
		}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	w.logger.Info("chart written",
		slog.String("path", fullPath),
		slog.Int("periods", len(chart.Axis)),
		slog.Int("series", len(chart.Series)))
	return fullPath, nil
}
