package reports

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"mdacli/pkg/contracts/domain"
)

// termLabelPattern matches the period label of the summary export, e.g.
// "2023-2024m.m.I pusmetis" or "2023-2024 m.m. II trimestras".
var termLabelPattern = regexp.MustCompile(`^(\d{4})-(\d{4})\s*m\.m\.\s*(I{1,3}|IV)?\s*(pusmetis|trimestras|metinis)$`)

// term is the decoded period label of a summary export.
type term struct {
	year   domain.AcademicYear
	kind   domain.PeriodKind
	index  int // 1-based ordinal within the year; 0 for the yearly report
	yearly bool
}

var romanOrdinals = map[string]int{"I": 1, "II": 2, "III": 3}

// parseTermLabel decodes the exporter's declared period label. The exporter
// owns the encoding; the parser only trusts what the label states.
func parseTermLabel(label string) (term, error) {
	m := termLabelPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return term{}, fmt.Errorf("unrecognized period label %q", label)
	}

	startYear := mustAtoi(m[1])
	endYear := mustAtoi(m[2])
	if endYear != startYear+1 {
		return term{}, fmt.Errorf("period label %q spans %d years", label, endYear-startYear)
	}

	t := term{year: domain.AcademicYear{StartYear: startYear}}
	switch m[4] {
	case "metinis":
		t.yearly = true
		return t, nil
	case "pusmetis":
		t.kind = domain.PeriodSemester
	case "trimestras":
		t.kind = domain.PeriodTrimester
	}

	if m[3] == "IV" {
		return term{}, fmt.Errorf("period label %q: no fourth grading period", label)
	}
	index, ok := romanOrdinals[m[3]]
	if !ok {
		return term{}, fmt.Errorf("period label %q has no ordinal", label)
	}
	if t.kind == domain.PeriodSemester && index > 2 {
		return term{}, fmt.Errorf("period label %q: no third semester", label)
	}
	t.index = index
	return t, nil
}

// window derives the date window of the term. The exporter labels periods by
// academic year and ordinal only; the boundary split below mirrors the
// school calendar the exporter uses (September through August).
func (t term) window() (start, end time.Time) {
	ys := t.year.Start()
	switch t.kind {
	case domain.PeriodSemester:
		// I: Sep-Jan, II: Feb-Aug.
		bounds := []time.Time{ys, date(t.year.StartYear+1, time.February), t.year.End().AddDate(0, 0, 1)}
		return bounds[t.index-1], bounds[t.index].AddDate(0, 0, -1)
	case domain.PeriodTrimester:
		// I: Sep-Nov, II: Dec-Feb, III: Mar-Aug.
		bounds := []time.Time{ys, date(t.year.StartYear, time.December), date(t.year.StartYear+1, time.March), t.year.End().AddDate(0, 0, 1)}
		return bounds[t.index-1], bounds[t.index].AddDate(0, 0, -1)
	}
	return ys, t.year.End()
}

// period builds the finalized AcademicPeriod the term declares.
func (t term) period() domain.AcademicPeriod {
	start, end := t.window()
	return domain.AcademicPeriod{
		Kind:         t.kind,
		Label:        t.label(),
		Start:        start,
		End:          end,
		Finalization: domain.Finalized,
	}
}

func (t term) label() string {
	names := map[domain.PeriodKind]string{
		domain.PeriodSemester:  "pusmetis",
		domain.PeriodTrimester: "trimestras",
	}
	ordinals := []string{"", "I", "II", "III"}
	return fmt.Sprintf("%s %s %s", t.year, ordinals[t.index], names[t.kind])
}

// classifyWindow maps an explicit date window of the averages export onto a
// period. Exact calendar months become month periods; windows matching a
// declared semester/trimester split become in-progress periods of that kind;
// anything else stays an in-progress window labeled by its dates.
func classifyWindow(start, end time.Time) domain.AcademicPeriod {
	if month := domain.MonthPeriod(start); month.Start.Equal(start) && month.End.Equal(end) {
		return month
	}

	year := domain.AcademicYearForDate(start)
	for _, kind := range []domain.PeriodKind{domain.PeriodSemester, domain.PeriodTrimester} {
		for index := 1; index <= 3; index++ {
			t := term{year: year, kind: kind, index: index}
			if kind == domain.PeriodSemester && index > 2 {
				continue
			}
			ws, we := t.window()
			if ws.Equal(start) && we.Equal(end) {
				p := t.period()
				p.Finalization = domain.InProgress
				return p
			}
		}
	}

	return domain.AcademicPeriod{
		Kind:         domain.PeriodMonth,
		Label:        fmt.Sprintf("%s - %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
		Start:        start,
		End:          end,
		Finalization: domain.InProgress,
	}
}

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func mustAtoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
