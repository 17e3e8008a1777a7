package reports

import (
	"strconv"
	"strings"

	"mdacli/pkg/contracts/domain"
)

// Record is one parsed record: exactly one of Grade or Attendance is set.
type Record struct {
	Grade      *domain.GradeRecord
	Attendance *domain.AttendanceRecord
}

// RecordScanner walks the pupil rows of an open report lazily, one record at
// a time, in the style of bufio.Scanner:
//
//	scanner := parser.Records()
//	for scanner.Next() {
//		rec := scanner.Record()
//		...
//	}
//	if err := scanner.Err(); err != nil { ... }
//
// A scanner is not restartable; obtain a fresh one from Records instead.
type RecordScanner struct {
	parser *Parser
	row    int
	queue  []Record
	cur    Record
	err    error
	done   bool
}

// Next advances to the next record. It returns false at the end of the
// sequence or on the first error.
func (s *RecordScanner) Next() bool {
	if s.err != nil || s.done {
		return false
	}
	for len(s.queue) == 0 {
		if s.row > s.parser.layout.lastPupilRow {
			s.done = true
			return false
		}
		if err := s.loadRow(s.row); err != nil {
			s.err = err
			return false
		}
		s.row++
	}
	s.cur = s.queue[0]
	s.queue = s.queue[1:]
	return true
}

// Record returns the record produced by the last successful Next.
func (s *RecordScanner) Record() Record { return s.cur }

// Err returns the first error encountered while scanning.
func (s *RecordScanner) Err() error { return s.err }

// loadRow extracts all records of one pupil row into the queue. Cells
// without a gradable mark yield no record; gap detection downstream relies
// on record absence, not on zero values.
func (s *RecordScanner) loadRow(row int) error {
	p := s.parser
	name := p.cell(pupilNameCol, row)
	if name == "" {
		return p.malformed("pupil row %d has no name", row)
	}

	finalized := p.typ == domain.ReportAchievementAttendanceSummary
	for i, subject := range p.layout.subjects {
		raw := p.cell(p.layout.firstSubjectCol+i, row)
		mark, err := NormalizeMark(raw)
		if err != nil {
			return p.malformed("pupil %q, subject %q: %v", name, subject, err)
		}
		if !mark.Valid {
			continue
		}
		s.queue = append(s.queue, Record{Grade: &domain.GradeRecord{
			StudentID: name,
			Subject:   subject,
			Date:      p.period.End,
			Mark:      mark,
			Finalized: finalized,
		}})
	}

	// Attendance counters follow the average column: missed in total,
	// justified by illness, justified by other reasons, not justified. The
	// total is redundant with the breakdown and is skipped.
	illness := s.counter(row, 1)
	other := s.counter(row, 2)
	notJustified := s.counter(row, 3)
	if excused := illness + other; excused > 0 {
		s.queue = append(s.queue, Record{Attendance: &domain.AttendanceRecord{
			StudentID: name,
			Date:      p.period.End,
			Status:    domain.AttendanceExcused,
			Count:     excused,
		}})
	}
	if notJustified > 0 {
		s.queue = append(s.queue, Record{Attendance: &domain.AttendanceRecord{
			StudentID: name,
			Date:      p.period.End,
			Status:    domain.AttendanceAbsent,
			Count:     notJustified,
		}})
	}
	return nil
}

// counter reads an attendance counter cell at the given offset past the
// total column. Blank cells count as zero.
func (s *RecordScanner) counter(row, offset int) int {
	raw := s.parser.cell(s.parser.layout.attendanceCol+offset, row)
	if raw == "" {
		return 0
	}
	number, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0
	}
	return int(number)
}
