// Package testutil builds Excel report fixtures matching the exporter's
// wire format, for use in tests across packages.
package testutil

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// Grid landmarks of the two export layouts, kept in one place so fixtures
// and parser stay in sync.
const (
	SummaryTitle  = "Ataskaita: Mokinių pasiekimų ir lankomumo suvestinė"
	AveragesTitle = "Ataskaita: Mokinių vidurkių suvestinė"
)

// PupilRow is one pupil's row in a report fixture.
type PupilRow struct {
	Name string
	// Marks holds one raw cell value per subject, in subject order.
	Marks []string
	// Attendance holds the four counters: missed in total, justified by
	// illness, justified by other reasons, not justified.
	Attendance [4]string
}

// SummarySpec describes an achievement/attendance summary fixture.
type SummarySpec struct {
	Title        string // defaults to SummaryTitle
	Class        string
	TermLabel    string // e.g. "2023-2024m.m.I pusmetis"
	TermPrefix   string // defaults to "Laikotarpis"
	Subjects     []string
	Pupils       []PupilRow
	ClassAverage string // footer cell; defaults to "7,5"
}

// AveragesSpec describes an averages report fixture.
type AveragesSpec struct {
	Title        string // defaults to AveragesTitle
	Class        string
	Window       string // e.g. "2024-02-01 - 2024-02-29"
	Subjects     []string
	Pupils       []PupilRow
	ClassAverage string // footer cell; defaults to "7,5"
}

// WriteSummaryReport writes a summary fixture to path.
func WriteSummaryReport(t *testing.T, path string, spec SummarySpec) {
	t.Helper()

	if spec.Title == "" {
		spec.Title = SummaryTitle
	}
	if spec.TermPrefix == "" {
		spec.TermPrefix = "Laikotarpis"
	}
	if spec.ClassAverage == "" {
		spec.ClassAverage = "7,5"
	}

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	set := func(col, row int, value interface{}) {
		name, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			t.Fatalf("cell name (%d,%d): %v", col, row, err)
		}
		if err := f.SetCellValue(sheet, name, value); err != nil {
			t.Fatalf("set cell %s: %v", name, err)
		}
	}

	const firstSubjectCol = 3
	averageCol := firstSubjectCol + len(spec.Subjects)

	set(1, 2, spec.Title)
	set(9, 1, "Klasė: "+spec.Class)
	set(9, 2, spec.TermPrefix+": "+spec.TermLabel)
	set(averageCol, 3, "Vidurkis")
	for i, subject := range spec.Subjects {
		set(firstSubjectCol+i, 4, subject)
	}

	row := 14
	for i, pupil := range spec.Pupils {
		writePupilRow(t, set, pupil, row, i, firstSubjectCol, averageCol)
		row++
	}
	set(1, row, "Dalyko vidurkis")
	set(averageCol, row, spec.ClassAverage)

	saveFixture(t, f, path)
}

// WriteAveragesReport writes an averages fixture to path.
func WriteAveragesReport(t *testing.T, path string, spec AveragesSpec) {
	t.Helper()

	if spec.Title == "" {
		spec.Title = AveragesTitle
	}
	if spec.ClassAverage == "" {
		spec.ClassAverage = "7,5"
	}

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	set := func(col, row int, value interface{}) {
		name, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			t.Fatalf("cell name (%d,%d): %v", col, row, err)
		}
		if err := f.SetCellValue(sheet, name, value); err != nil {
			t.Fatalf("set cell %s: %v", name, err)
		}
	}

	const firstSubjectCol = 4
	averageCol := firstSubjectCol + len(spec.Subjects)

	set(1, 1, spec.Title)
	set(5, 1, "Klasė: "+spec.Class+",")
	set(7, 1, spec.Window)
	set(averageCol, 2, "Vidurkis")
	for i, subject := range spec.Subjects {
		set(firstSubjectCol+i, 3, subject)
	}

	row := 12
	for i, pupil := range spec.Pupils {
		writePupilRow(t, set, pupil, row, i, firstSubjectCol, averageCol)
		row++
	}
	set(1, row, "Dalyko vidurkis")
	set(averageCol, row, spec.ClassAverage)

	saveFixture(t, f, path)
}

func writePupilRow(t *testing.T, set func(int, int, interface{}), pupil PupilRow, row, index, firstSubjectCol, averageCol int) {
	t.Helper()
	set(1, row, index+1)
	set(2, row, pupil.Name)
	for i, mark := range pupil.Marks {
		if mark != "" {
			set(firstSubjectCol+i, row, mark)
		}
	}
	for i, counter := range pupil.Attendance {
		if counter != "" {
			set(averageCol+1+i, row, counter)
		}
	}
}

func saveFixture(t *testing.T, f *excelize.File, path string) {
	t.Helper()
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close fixture %s: %v", path, err)
	}
}
