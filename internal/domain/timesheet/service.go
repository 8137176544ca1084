package timesheet

import (
	"context"
	"log/slog"
	"time"

	"timecard/internal/platform/clock"
)

const (
	breakSoonWindow = 10 * time.Minute
	overdueGrace    = 15 * time.Minute
)

type StoreAPI interface {
	Records(ctx context.Context, tenantID, userID string, from, to time.Time) ([]DayRecord, error)
	ShiftIntervals(ctx context.Context, userID string, from, to time.Time) ([]Interval, error)
	OpenBreakStart(ctx context.Context, userID string, date time.Time) (*time.Time, error)
	ReminderDates(ctx context.Context, userID string) (breakOn, overdueOn *time.Time, err error)
	MarkBreakReminded(ctx context.Context, userID string, date time.Time) error
	MarkOverdueReminded(ctx context.Context, userID string, date time.Time) error
}

type Notifier interface {
	Notify(ctx context.Context, tenantID, userID, content string) error
}

type Service struct {
	Store  StoreAPI
	Notify Notifier
	Clock  clock.Clock
}

func NewService(store StoreAPI, notifier Notifier, clk clock.Clock) *Service {
	return &Service{Store: store, Notify: notifier, Clock: clk}
}

type DaySummary struct {
	Date            string     `json:"date"`
	ShiftStart      *time.Time `json:"shiftStart,omitempty"`
	ShiftEnd        *time.Time `json:"shiftEnd,omitempty"`
	ClockIn         time.Time  `json:"clockIn"`
	ClockOut        *time.Time `json:"clockOut,omitempty"`
	ActualSeconds   int64      `json:"actualSeconds"`
	BreakSeconds    int64      `json:"breakSeconds"`
	OvertimeSeconds int64      `json:"overtimeSeconds"`
	Actual          string     `json:"actual"`
	BreakTotal      string     `json:"breakTotal"`
	Overtime        string     `json:"overtime"`
}

type Totals struct {
	ScheduledSeconds int64  `json:"scheduledSeconds"`
	ActualSeconds    int64  `json:"actualSeconds"`
	BreakSeconds     int64  `json:"breakSeconds"`
	OvertimeSeconds  int64  `json:"overtimeSeconds"`
	Scheduled        string `json:"scheduled"`
	Actual           string `json:"actual"`
	BreakTotal       string `json:"breakTotal"`
	Overtime         string `json:"overtime"`
}

type MonthlySummary struct {
	Year   int          `json:"year"`
	Month  int          `json:"month"`
	Days   []DaySummary `json:"days"`
	Totals Totals       `json:"totals"`
}

func (s *Service) Monthly(ctx context.Context, tenantID, userID string, year int, month time.Month) (*MonthlySummary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, clock.Zone)
	to := from.AddDate(0, 1, -1)

	records, err := s.Store.Records(ctx, tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	shifts, err := s.Store.ShiftIntervals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{Year: year, Month: int(month)}
	for _, rec := range records {
		actual := ActualSeconds(rec)
		brk := BreakSeconds(rec.Breaks)
		over := OvertimeSeconds(rec)

		day := DaySummary{
			Date:            clock.CivilDate(rec.Date).Format("2006-01-02"),
			ClockIn:         rec.ClockIn,
			ClockOut:        rec.ClockOut,
			ActualSeconds:   actual,
			BreakSeconds:    brk,
			OvertimeSeconds: over,
			Actual:          FormatSeconds(actual),
			BreakTotal:      FormatSeconds(brk),
			Overtime:        FormatSeconds(over),
		}
		if rec.Shift != nil {
			start, end := rec.Shift.Start, rec.Shift.End
			day.ShiftStart, day.ShiftEnd = &start, &end
		}
		summary.Days = append(summary.Days, day)

		summary.Totals.ActualSeconds += actual
		summary.Totals.BreakSeconds += brk
		summary.Totals.OvertimeSeconds += over
	}
	summary.Totals.ScheduledSeconds = ScheduledSeconds(shifts)
	summary.Totals.Scheduled = FormatSeconds(summary.Totals.ScheduledSeconds)
	summary.Totals.Actual = FormatSeconds(summary.Totals.ActualSeconds)
	summary.Totals.BreakTotal = FormatSeconds(summary.Totals.BreakSeconds)
	summary.Totals.Overtime = FormatSeconds(summary.Totals.OvertimeSeconds)
	return summary, nil
}

type TodaySummary struct {
	WorkedSeconds      int64      `json:"workedSeconds"`
	BreakSeconds       int64      `json:"breakSeconds"`
	Worked             string     `json:"worked"`
	BreakTotal         string     `json:"breakTotal"`
	ShiftStart         *time.Time `json:"shiftStart,omitempty"`
	ShiftEnd           *time.Time `json:"shiftEnd,omitempty"`
	ExpectedBreakStart *time.Time `json:"expectedBreakStart,omitempty"`
	ExpectedBreakMins  int        `json:"expectedBreakMinutes"`
}

// Today assembles the live display for the current day, valuing any
// open record with "now", and fires at most one break reminder and one
// overdue reminder per user per day.
func (s *Service) Today(ctx context.Context, tenantID, userID string) (*TodaySummary, error) {
	now := s.Clock.Now()
	today := clock.CivilDate(now)

	records, err := s.Store.Records(ctx, tenantID, userID, today, today)
	if err != nil {
		return nil, err
	}
	shifts, err := s.Store.ShiftIntervals(ctx, userID, today, today)
	if err != nil {
		return nil, err
	}

	summary := &TodaySummary{}
	var shift *Interval
	if len(shifts) > 0 {
		shift = &shifts[0]
		start, end := shift.Start, shift.End
		summary.ShiftStart, summary.ShiftEnd = &start, &end
		if expStart, expLen := ExpectedBreak(*shift); expLen > 0 {
			es := expStart
			summary.ExpectedBreakStart = &es
			summary.ExpectedBreakMins = int(expLen / time.Minute)
		}
	}

	var rec *DayRecord
	var openBreak *time.Time
	if len(records) > 0 {
		rec = &records[0]
		openBreak, err = s.Store.OpenBreakStart(ctx, userID, today)
		if err != nil {
			return nil, err
		}
		summary.WorkedSeconds = LiveActualSeconds(*rec, openBreak, now)
		summary.BreakSeconds = BreakSeconds(rec.Breaks)
		if openBreak != nil && rec.ClockOut == nil {
			summary.BreakSeconds += int64(now.Sub(*openBreak) / time.Second)
		}
	}
	summary.Worked = FormatSeconds(summary.WorkedSeconds)
	summary.BreakTotal = FormatSeconds(summary.BreakSeconds)

	s.fireReminders(ctx, tenantID, userID, now, shift, rec, summary.ExpectedBreakStart)
	return summary, nil
}

func (s *Service) fireReminders(ctx context.Context, tenantID, userID string, now time.Time, shift *Interval, rec *DayRecord, expectedBreakStart *time.Time) {
	if shift == nil || rec == nil || s.Notify == nil {
		return
	}

	breakOn, overdueOn, err := s.Store.ReminderDates(ctx, userID)
	if err != nil {
		slog.Warn("reminder flag lookup failed", "error", err, "user_id", userID)
		return
	}

	if expectedBreakStart != nil && rec.ClockOut == nil &&
		(breakOn == nil || !clock.SameDate(*breakOn, now)) {
		windowOpen := expectedBreakStart.Add(-breakSoonWindow)
		if !now.Before(windowOpen) && now.Before(*expectedBreakStart) {
			s.deliver(ctx, tenantID, userID, "Your break time is coming up soon.")
			if err := s.Store.MarkBreakReminded(ctx, userID, now); err != nil {
				slog.Warn("break reminder flag update failed", "error", err, "user_id", userID)
			}
		}
	}

	if rec.ClockOut == nil && now.After(shift.End.Add(overdueGrace)) &&
		(overdueOn == nil || !clock.SameDate(*overdueOn, now)) {
		s.deliver(ctx, tenantID, userID, "Your shift has ended. Don't forget to clock out.")
		if err := s.Store.MarkOverdueReminded(ctx, userID, now); err != nil {
			slog.Warn("overdue reminder flag update failed", "error", err, "user_id", userID)
		}
	}
}

func (s *Service) deliver(ctx context.Context, tenantID, userID, content string) {
	if err := s.Notify.Notify(ctx, tenantID, userID, content); err != nil {
		slog.Warn("reminder delivery failed", "error", err, "user_id", userID)
	}
}
