package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"timecard/internal/domain/shifts"
	"timecard/internal/domain/timesheet"
	"timecard/internal/platform/clock"
)

type ShiftTableRow struct {
	UserID     string         `json:"userId"`
	Name       string         `json:"name"`
	EmployeeID string         `json:"employeeId"`
	Days       map[int]string `json:"days"`
}

type ShiftTable struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	DaysInMonth int             `json:"daysInMonth"`
	Rows        []ShiftTableRow `json:"rows"`
}

type Service struct {
	Store     *Store
	Timesheet *timesheet.Service
	Clock     clock.Clock
}

func NewService(store *Store, ts *timesheet.Service, clk clock.Clock) *Service {
	return &Service{Store: store, Timesheet: ts, Clock: clk}
}

// MonthlyShiftTable builds the staff-by-day shift grid for a month.
// Night shifts are suffixed so the grid can flag them.
func (s *Service) MonthlyShiftTable(ctx context.Context, tenantID string, year int, month time.Month) (*ShiftTable, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, clock.Zone)
	to := from.AddDate(0, 1, -1)

	users, err := s.Store.tenantUsers(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	monthShifts, err := s.Store.monthShifts(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	byUser := map[string]int{}
	for i, row := range users {
		byUser[row.UserID] = i
	}
	for _, sh := range monthShifts {
		i, ok := byUser[sh.UserID]
		if !ok {
			continue
		}
		label := shifts.EventTitle(sh.StartAt, sh.EndAt)
		if shifts.IsNight(sh.StartAt, sh.EndAt) {
			label += " (night)"
		}
		users[i].Days[dayOfMonth(sh.StartAt)] = label
	}

	return &ShiftTable{
		Year:        year,
		Month:       int(month),
		DaysInMonth: to.Day(),
		Rows:        users,
	}, nil
}

// TimesheetCSV renders a user's monthly summary as CSV.
func (s *Service) TimesheetCSV(ctx context.Context, tenantID, userID string, year int, month time.Month) ([]byte, error) {
	summary, err := s.Timesheet.Monthly(ctx, tenantID, userID, year, month)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"date", "shift", "clock_in", "clock_out", "break", "actual", "overtime"}); err != nil {
		return nil, err
	}
	for _, day := range summary.Days {
		record := []string{
			day.Date,
			shiftLabel(day.ShiftStart, day.ShiftEnd),
			day.ClockIn.In(clock.Zone).Format("15:04"),
			timeLabel(day.ClockOut),
			day.BreakTotal,
			day.Actual,
			day.Overtime,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	totals := []string{
		"total", summary.Totals.Scheduled, "", "",
		summary.Totals.BreakTotal, summary.Totals.Actual, summary.Totals.Overtime,
	}
	if err := w.Write(totals); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TimesheetPDF renders a user's monthly summary as a PDF document.
func (s *Service) TimesheetPDF(ctx context.Context, tenantID, userID, userName string, year int, month time.Month) ([]byte, error) {
	summary, err := s.Timesheet.Monthly(ctx, tenantID, userID, year, month)
	if err != nil {
		return nil, err
	}
	company, err := s.Store.companyName(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Timesheet")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Company: %s", company))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", userName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Month: %04d-%02d", year, int(month)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	widths := []float64{24, 32, 22, 22, 22, 22, 22}
	headers := []string{"Date", "Shift", "In", "Out", "Break", "Actual", "Overtime"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, day := range summary.Days {
		cells := []string{
			day.Date,
			shiftLabel(day.ShiftStart, day.ShiftEnd),
			day.ClockIn.In(clock.Zone).Format("15:04"),
			timeLabel(day.ClockOut),
			day.BreakTotal,
			day.Actual,
			day.Overtime,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 7, summary.Totals.BreakTotal, "1", 0, "C", false, 0, "")
	pdf.CellFormat(widths[5], 7, summary.Totals.Actual, "1", 0, "C", false, 0, "")
	pdf.CellFormat(widths[6], 7, summary.Totals.Overtime, "1", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func shiftLabel(start, end *time.Time) string {
	if start == nil || end == nil {
		return ""
	}
	return shifts.EventTitle(*start, *end)
}

func timeLabel(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(clock.Zone).Format("15:04")
}
