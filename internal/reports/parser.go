package reports

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "mdacli/internal/errors"
	"mdacli/pkg/contracts/domain"
)

// Scan guards: a marker not found within these bounds means the grid does
// not match the declared report type.
const (
	maxScanColumns = 256
	maxScanRows    = 5000
)

// Cell landmarks of the achievement/attendance summary export.
const (
	summaryTitle         = "Ataskaita: Mokinių pasiekimų ir lankomumo suvestinė"
	summaryTitleRow      = 2
	summaryClassRow      = 1
	summaryTermRow       = 2
	summaryMetaCol       = 9
	summaryHeaderRow     = 3
	summarySubjectRow    = 4
	summaryFirstSubject  = 3
	summaryFirstPupilRow = 14
)

// Cell landmarks of the averages export.
const (
	averagesTitle         = "Ataskaita: Mokinių vidurkių suvestinė"
	averagesClassCol      = 5
	averagesWindowCol     = 7
	averagesHeaderRow     = 2
	averagesSubjectRow    = 3
	averagesFirstSubject  = 4
	averagesFirstPupilRow = 12
)

// Markers shared by both layouts.
const (
	classPrefix      = "Klasė: "
	averageHeader    = "Vidurkis"
	subjectAvgFooter = "Dalyko vidurkis"
	pupilNameCol     = 2
	windowDateFormat = "2006-01-02"
)

// gridLayout is the discovered geometry of one report grid.
type gridLayout struct {
	subjects        []string
	firstSubjectCol int
	averageCol      int
	attendanceCol   int
	firstPupilRow   int
	lastPupilRow    int
	footerRow       int
}

// Parser reads one exported report file. It validates the headers eagerly on
// Open and never mutates the source file. Record iteration is lazy via
// Records.
type Parser struct {
	file   *excelize.File
	sheet  string
	path   string
	typ    domain.ReportType
	year   domain.AcademicYear
	logger *slog.Logger

	class  string
	period domain.AcademicPeriod
	layout gridLayout
}

// Open opens and validates a report file of the declared type. Validation
// failures surface as MalformedReportError or UnsupportedPeriodError.
func Open(path string, typ domain.ReportType, year domain.AcademicYear, logger *slog.Logger) (*Parser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown report type %q", typ)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &apperrors.MalformedReportError{File: path, Reason: fmt.Sprintf("cannot open workbook: %v", err)}
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, &apperrors.MalformedReportError{File: path, Reason: "workbook has no sheets"}
	}

	p := &Parser{
		file:   f,
		sheet:  sheets[0],
		path:   path,
		typ:    typ,
		year:   year,
		logger: logger.With(slog.String("component", "report_parser")),
	}

	switch typ {
	case domain.ReportAchievementAttendanceSummary:
		err = p.validateSummary()
	case domain.ReportAverages:
		err = p.validateAverages()
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	p.logger.Debug("report opened",
		slog.String("file", path),
		slog.String("type", string(typ)),
		slog.String("class", p.class),
		slog.String("period", p.period.Label),
		slog.Int("subjects", len(p.layout.subjects)))
	return p, nil
}

// Close releases the underlying workbook. No operations are valid afterwards.
func (p *Parser) Close() error {
	return p.file.Close()
}

// Class returns the class name the report declares.
func (p *Parser) Class() string { return p.class }

// Period returns the academic period the report declares.
func (p *Parser) Period() domain.AcademicPeriod { return p.period }

// Records returns a fresh scanner over the report's records. Each call
// restarts the sequence; scanners share no cursor state.
func (p *Parser) Records() *RecordScanner {
	return &RecordScanner{parser: p, row: p.layout.firstPupilRow}
}

// Collect drains a fresh scanner into a ClassReport.
func (p *Parser) Collect() (domain.ClassReport, error) {
	report := domain.ClassReport{
		Type:   p.typ,
		Class:  p.class,
		Period: p.period,
	}
	scanner := p.Records()
	for scanner.Next() {
		rec := scanner.Record()
		switch {
		case rec.Grade != nil:
			report.Grades = append(report.Grades, *rec.Grade)
		case rec.Attendance != nil:
			report.Attendance = append(report.Attendance, *rec.Attendance)
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.ClassReport{}, err
	}
	return report, nil
}

// cell returns the trimmed value at the 1-based column and row.
func (p *Parser) cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	value, err := p.file.GetCellValue(p.sheet, name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func (p *Parser) malformed(format string, args ...interface{}) error {
	return &apperrors.MalformedReportError{File: p.path, Reason: fmt.Sprintf(format, args...)}
}

func (p *Parser) validateSummary() error {
	if p.cell(1, summaryTitleRow) != summaryTitle {
		return p.malformed("title does not match the achievement/attendance summary export")
	}

	rawClass := p.cell(summaryMetaCol, summaryClassRow)
	if !strings.HasPrefix(rawClass, classPrefix) {
		return p.malformed("class cell %q lacks the %q prefix", rawClass, classPrefix)
	}
	p.class = strings.TrimPrefix(rawClass, classPrefix)

	// Both "Laikotarpis:" and "Periodas:" appear in the wild.
	rawTerm := p.cell(summaryMetaCol, summaryTermRow)
	_, label, found := strings.Cut(rawTerm, ": ")
	if !found {
		return p.malformed("period cell %q lacks a label", rawTerm)
	}

	t, err := parseTermLabel(label)
	if err != nil {
		return p.malformed("%v", err)
	}
	if t.yearly {
		return &apperrors.UnsupportedPeriodError{
			File:   p.path,
			Period: label,
			Reason: "yearly summaries are not supported",
		}
	}
	if t.year != p.year {
		return &apperrors.UnsupportedPeriodError{
			File:   p.path,
			Period: label,
			Reason: fmt.Sprintf("outside the current academic year %s; historical data requires an archive export", p.year),
		}
	}
	p.period = t.period()

	if err := p.discoverGrid(summaryHeaderRow, summarySubjectRow, summaryFirstSubject, summaryFirstPupilRow); err != nil {
		return err
	}

	// A zero class average means the exporter has not issued the period yet.
	if isZeroCell(p.cell(p.layout.averageCol, p.layout.footerRow)) {
		return &apperrors.UnsupportedPeriodError{
			File:   p.path,
			Period: p.period.Label,
			Reason: "period is not flagged as issued in the source export",
		}
	}
	return nil
}

func (p *Parser) validateAverages() error {
	// The exporter occasionally appends punctuation to the title.
	if !strings.HasPrefix(p.cell(1, 1), averagesTitle) {
		return p.malformed("title does not match the averages export")
	}

	rawClass := p.cell(averagesClassCol, 1)
	if !strings.HasPrefix(rawClass, classPrefix) {
		return p.malformed("class cell %q lacks the %q prefix", rawClass, classPrefix)
	}
	p.class = strings.TrimSuffix(strings.TrimPrefix(rawClass, classPrefix), ",")

	rawWindow := p.cell(averagesWindowCol, 1)
	startRaw, endRaw, found := strings.Cut(rawWindow, " - ")
	if !found {
		return p.malformed("window cell %q is not a date range", rawWindow)
	}
	start, err := time.Parse(windowDateFormat, startRaw)
	if err != nil {
		return p.malformed("window start %q: %v", startRaw, err)
	}
	end, err := time.Parse(windowDateFormat, endRaw)
	if err != nil {
		return p.malformed("window end %q: %v", endRaw, err)
	}
	if end.Before(start) {
		return p.malformed("window %q ends before it starts", rawWindow)
	}
	p.period = classifyWindow(start.UTC(), end.UTC())

	if err := p.discoverGrid(averagesHeaderRow, averagesSubjectRow, averagesFirstSubject, averagesFirstPupilRow); err != nil {
		return err
	}

	// A zero class average means an incomplete export.
	if isZeroCell(p.cell(p.layout.averageCol, p.layout.footerRow)) {
		return p.malformed("class average is zero, the export is incomplete")
	}
	return nil
}

// discoverGrid locates the average column, the subject columns and the pupil
// row range shared by both layouts.
func (p *Parser) discoverGrid(headerRow, subjectRow, firstSubjectCol, firstPupilRow int) error {
	averageCol := 0
	for col := firstSubjectCol; col <= maxScanColumns; col++ {
		if p.cell(col, headerRow) == averageHeader {
			averageCol = col
			break
		}
	}
	if averageCol == 0 {
		return p.malformed("average column marker %q not found", averageHeader)
	}
	if averageCol == firstSubjectCol {
		return p.malformed("report contains no subject columns")
	}

	subjects := make([]string, 0, averageCol-firstSubjectCol)
	for col := firstSubjectCol; col < averageCol; col++ {
		name := p.cell(col, subjectRow)
		if name == "" {
			return p.malformed("empty subject name in column %d", col)
		}
		subjects = append(subjects, name)
	}

	footerRow := 0
	for row := firstPupilRow; row <= maxScanRows; row++ {
		if p.cell(1, row) == subjectAvgFooter {
			footerRow = row
			break
		}
	}
	if footerRow == 0 {
		return p.malformed("footer row %q not found", subjectAvgFooter)
	}
	if footerRow == firstPupilRow {
		return p.malformed("report contains no pupil rows")
	}

	p.layout = gridLayout{
		subjects:        subjects,
		firstSubjectCol: firstSubjectCol,
		averageCol:      averageCol,
		attendanceCol:   averageCol + 1,
		firstPupilRow:   firstPupilRow,
		lastPupilRow:    footerRow - 1,
		footerRow:       footerRow,
	}
	return nil
}

func isZeroCell(value string) bool {
	if value == "" {
		return true
	}
	number, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	return err == nil && number == 0
}
