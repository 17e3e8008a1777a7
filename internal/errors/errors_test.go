package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	malformed := &MalformedReportError{File: "report.xlsx", Reason: "wrong title"}
	unsupported := &UnsupportedPeriodError{File: "report.xlsx", Period: "metinis", Reason: "not supported"}
	ambiguous := &AmbiguousPeriodError{First: "I pusmetis", Second: "II pusmetis"}

	assert.True(t, IsMalformedReport(malformed))
	assert.True(t, IsMalformedReport(fmt.Errorf("parse: %w", malformed)))
	assert.False(t, IsMalformedReport(unsupported))

	assert.True(t, IsUnsupportedPeriod(unsupported))
	assert.True(t, IsAmbiguousPeriod(ambiguous))
	assert.False(t, IsAmbiguousPeriod(malformed))
}

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed report",
			err:        &MalformedReportError{Reason: "no footer"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "MALFORMED_REPORT",
		},
		{
			name:       "unsupported period",
			err:        &UnsupportedPeriodError{Period: "metinis"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "UNSUPPORTED_PERIOD",
		},
		{
			name:       "ambiguous period",
			err:        &AmbiguousPeriodError{First: "a", Second: "b"},
			wantStatus: http.StatusConflict,
			wantCode:   "AMBIGUOUS_PERIOD",
		},
		{
			name:       "anything else",
			err:        fmt.Errorf("disk exploded"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromDomain(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}

func TestFromDomainWrapped(t *testing.T) {
	wrapped := fmt.Errorf("open report: %w", &UnsupportedPeriodError{Period: "2022-2023 I pusmetis"})
	apiErr := FromDomain(wrapped)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "UNSUPPORTED_PERIOD", apiErr.ErrorCode)
}
