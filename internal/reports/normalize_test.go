package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMark(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantValid bool
		wantValue float64
		wantErr   bool
	}{
		{name: "integer mark", raw: "8", wantValid: true, wantValue: 8},
		{name: "decimal mark with comma", raw: "7,5", wantValid: true, wantValue: 7.5},
		{name: "decimal mark with dot", raw: "9.25", wantValid: true, wantValue: 9.25},
		{name: "padded mark", raw: " 10 ", wantValid: true, wantValue: 10},
		{name: "empty cell", raw: ""},
		{name: "dash", raw: "-"},
		{name: "zero is no mark", raw: "0"},
		{name: "decimal zero is no mark", raw: "0.0"},
		{name: "exempt", raw: "atl"},
		{name: "absence", raw: "n"},
		{name: "absence nk", raw: "nk"},
		{name: "absence nl", raw: "nl"},
		{name: "hour counter", raw: "2val."},
		{name: "hour counter no dot", raw: "5val"},
		{name: "credit pass", raw: "įsk", wantValid: true, wantValue: 10},
		{name: "credit fail", raw: "nsk", wantValid: true, wantValue: 2},
		{name: "interim prefix", raw: "IN8", wantValid: true, wantValue: 8},
		{name: "project prefix", raw: "PR7,5", wantValid: true, wantValue: 7.5},
		{name: "interim credit", raw: "INįsk", wantValid: true, wantValue: 10},
		{name: "interim zero", raw: "IN0"},
		{name: "garbage", raw: "abc", wantErr: true},
		{name: "above scale", raw: "11", wantErr: true},
		{name: "below scale", raw: "0,5", wantErr: true},
		{name: "negative", raw: "-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mark, err := NormalizeMark(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, mark.Valid)
			if tt.wantValid {
				assert.Equal(t, tt.wantValue, mark.Value)
			}
		})
	}
}
