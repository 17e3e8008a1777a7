package reports

import (
	"fmt"
	"strconv"
	"strings"

	"mdacli/pkg/contracts/domain"
)

// Credit marks carry no numeric value in the export; they are mapped onto
// the 10-point scale so downstream components never branch on
// representation.
const (
	creditPassValue = 10
	creditFailValue = 2
)

// noMarkValues are cell values that mean "no gradable mark": an untouched
// cell, an exemption ("atl") or an absence code.
var noMarkValues = map[string]struct{}{
	"":    {},
	"-":   {},
	"atl": {},
	"n":   {},
	"nk":  {},
	"nl":  {},
	"0":   {},
	"0.0": {},
}

// NormalizeMark converts a raw mark cell into a normalized Mark on the
// 10-point scale. Unrecognized values are an error so a layout drift in the
// export surfaces immediately instead of skewing averages.
func NormalizeMark(raw string) (domain.Mark, error) {
	value := strings.TrimSpace(raw)

	// Hour counters like "2val." appear in attendance-adjacent columns.
	if strings.HasSuffix(value, "val.") || strings.HasSuffix(value, "val") {
		return domain.NoMark(), nil
	}

	// Interim/project prefixes wrap an otherwise ordinary value.
	value = strings.TrimPrefix(value, "IN")
	value = strings.TrimPrefix(value, "PR")
	value = strings.TrimSpace(value)

	if _, ok := noMarkValues[value]; ok {
		return domain.NoMark(), nil
	}

	switch value {
	case "įsk":
		return domain.NewMark(creditPassValue), nil
	case "nsk":
		return domain.NewMark(creditFailValue), nil
	}

	// Exports use a comma decimal separator.
	number, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return domain.NoMark(), fmt.Errorf("unrecognized mark value %q", raw)
	}
	if number == 0 {
		return domain.NoMark(), nil
	}
	if number < 1 || number > 10 {
		return domain.NoMark(), fmt.Errorf("mark value %q outside the 10-point scale", raw)
	}
	return domain.NewMark(number), nil
}
