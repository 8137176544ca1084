package reportshandler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"timecard/internal/domain/reports"
	"timecard/internal/platform/clock"
)

func TestMonthParamDefaultsToClockMonth(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, clock.Zone)
	h := &Handler{Reports: &reports.Service{Clock: clock.Fixed(now)}}

	req := httptest.NewRequest(http.MethodGet, "/reports/shift-table", nil)
	rec := httptest.NewRecorder()

	year, month, ok := h.monthParam(rec, req, "r1")
	if !ok {
		t.Fatal("missing month must fall back to the current month")
	}
	if year != 2025 || month != time.June {
		t.Fatalf("expected 2025-06, got %d-%02d", year, int(month))
	}
}

func TestMonthParamRejectsMalformedMonth(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, clock.Zone)
	h := &Handler{Reports: &reports.Service{Clock: clock.Fixed(now)}}

	req := httptest.NewRequest(http.MethodGet, "/reports/shift-table?month=june", nil)
	rec := httptest.NewRecorder()

	if _, _, ok := h.monthParam(rec, req, "r1"); ok {
		t.Fatal("malformed month must be rejected")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
