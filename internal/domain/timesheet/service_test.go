package timesheet

import (
	"context"
	"testing"
	"time"

	"timecard/internal/platform/clock"
)

type fakeStore struct {
	records   []DayRecord
	shifts    []Interval
	openBreak *time.Time

	breakOn   *time.Time
	overdueOn *time.Time
}

func (f *fakeStore) Records(_ context.Context, _, _ string, from, to time.Time) ([]DayRecord, error) {
	var out []DayRecord
	for _, rec := range f.records {
		if !rec.Date.Before(from) && !rec.Date.After(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) ShiftIntervals(_ context.Context, _ string, from, to time.Time) ([]Interval, error) {
	var out []Interval
	for _, s := range f.shifts {
		date := clock.CivilDate(s.Start)
		if !date.Before(from) && !date.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) OpenBreakStart(context.Context, string, time.Time) (*time.Time, error) {
	return f.openBreak, nil
}

func (f *fakeStore) ReminderDates(context.Context, string) (*time.Time, *time.Time, error) {
	return f.breakOn, f.overdueOn, nil
}

func (f *fakeStore) MarkBreakReminded(_ context.Context, _ string, date time.Time) error {
	f.breakOn = &date
	return nil
}

func (f *fakeStore) MarkOverdueReminded(_ context.Context, _ string, date time.Time) error {
	f.overdueOn = &date
	return nil
}

type recordingNotifier struct {
	sent []string
}

func (r *recordingNotifier) Notify(_ context.Context, _, _ string, content string) error {
	r.sent = append(r.sent, content)
	return nil
}

func TestMonthlyTotals(t *testing.T) {
	out1 := jst(10, 17, 10)
	out2 := jst(11, 17, 0)
	store := &fakeStore{
		records: []DayRecord{
			{
				Date:     jst(10, 0, 0),
				ClockIn:  jst(10, 8, 56),
				ClockOut: &out1,
				Breaks:   []Interval{{Start: jst(10, 12, 0), End: jst(10, 12, 45)}},
				Shift:    &Interval{Start: jst(10, 9, 0), End: jst(10, 17, 0)},
			},
			{
				Date:     jst(11, 0, 0),
				ClockIn:  jst(11, 9, 0),
				ClockOut: &out2,
				Breaks:   []Interval{{Start: jst(11, 12, 0), End: jst(11, 13, 0)}},
				Shift:    &Interval{Start: jst(11, 9, 0), End: jst(11, 17, 0)},
			},
		},
		shifts: []Interval{
			{Start: jst(10, 9, 0), End: jst(10, 17, 0)},
			{Start: jst(11, 9, 0), End: jst(11, 17, 0)},
			{Start: jst(12, 9, 0), End: jst(12, 17, 0)},
		},
	}
	svc := NewService(store, nil, clock.Fixed(jst(30, 12, 0)))

	summary, err := svc.Monthly(context.Background(), "t1", "u1", 2025, time.June)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if len(summary.Days) != 2 {
		t.Fatalf("expected 2 day rows, got %d", len(summary.Days))
	}
	// 7:29 + 7:00 worked, 0:45 + 1:00 break, 10 minutes overtime, and
	// three 8h shifts scheduled.
	if summary.Totals.Actual != "14:29" {
		t.Fatalf("actual total = %q, want 14:29", summary.Totals.Actual)
	}
	if summary.Totals.BreakTotal != "1:45" {
		t.Fatalf("break total = %q, want 1:45", summary.Totals.BreakTotal)
	}
	if summary.Totals.OvertimeSeconds != 600 {
		t.Fatalf("overtime total = %d, want 600", summary.Totals.OvertimeSeconds)
	}
	if summary.Totals.Scheduled != "24:00" {
		t.Fatalf("scheduled total = %q, want 24:00", summary.Totals.Scheduled)
	}
}

func TestTodayLiveTotals(t *testing.T) {
	openBreak := jst(10, 12, 0)
	store := &fakeStore{
		records: []DayRecord{
			{
				Date:    jst(10, 0, 0),
				ClockIn: jst(10, 9, 0),
				Breaks:  []Interval{{Start: jst(10, 10, 30), End: jst(10, 10, 45)}},
			},
		},
		openBreak: &openBreak,
	}
	svc := NewService(store, nil, clock.Fixed(jst(10, 12, 20)))

	summary, err := svc.Today(context.Background(), "t1", "u1")
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	// 3h20m gross minus 15m closed and 20m open break.
	if summary.Worked != "2:45" {
		t.Fatalf("worked = %q, want 2:45", summary.Worked)
	}
	if summary.BreakTotal != "0:35" {
		t.Fatalf("break = %q, want 0:35", summary.BreakTotal)
	}
}

func TestBreakReminderFiresOncePerDay(t *testing.T) {
	// Shift 09:00-18:00: expected break is 60 minutes starting 13:00,
	// so the reminder window is [12:50, 13:00).
	store := &fakeStore{
		records: []DayRecord{{Date: jst(10, 0, 0), ClockIn: jst(10, 9, 0)}},
		shifts:  []Interval{{Start: jst(10, 9, 0), End: jst(10, 18, 0)}},
	}
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier, clock.Fixed(jst(10, 12, 55)))

	if _, err := svc.Today(context.Background(), "t1", "u1"); err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one break reminder, got %v", notifier.sent)
	}
	if store.breakOn == nil || !clock.SameDate(*store.breakOn, jst(10, 12, 55)) {
		t.Fatal("break reminder flag must be persisted for today")
	}

	if _, err := svc.Today(context.Background(), "t1", "u1"); err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("reminder must fire at most once per day, got %v", notifier.sent)
	}
}

func TestBreakReminderOutsideWindowIsSilent(t *testing.T) {
	store := &fakeStore{
		records: []DayRecord{{Date: jst(10, 0, 0), ClockIn: jst(10, 9, 0)}},
		shifts:  []Interval{{Start: jst(10, 9, 0), End: jst(10, 18, 0)}},
	}
	notifier := &recordingNotifier{}

	for _, now := range []time.Time{jst(10, 12, 49), jst(10, 13, 0)} {
		svc := NewService(store, notifier, clock.Fixed(now))
		if _, err := svc.Today(context.Background(), "t1", "u1"); err != nil {
			t.Fatalf("today: %v", err)
		}
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("no reminder expected outside the window, got %v", notifier.sent)
	}
}

func TestOverdueReminderAfterGrace(t *testing.T) {
	store := &fakeStore{
		records: []DayRecord{{Date: jst(10, 0, 0), ClockIn: jst(10, 9, 0)}},
		shifts:  []Interval{{Start: jst(10, 9, 0), End: jst(10, 18, 0)}},
	}
	notifier := &recordingNotifier{}

	svc := NewService(store, notifier, clock.Fixed(jst(10, 18, 10)))
	if _, err := svc.Today(context.Background(), "t1", "u1"); err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("no overdue reminder inside the grace period, got %v", notifier.sent)
	}

	svc = NewService(store, notifier, clock.Fixed(jst(10, 18, 16)))
	if _, err := svc.Today(context.Background(), "t1", "u1"); err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one overdue reminder, got %v", notifier.sent)
	}

	if _, err := svc.Today(context.Background(), "t1", "u1"); err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("overdue reminder must fire once per day, got %v", notifier.sent)
	}
}

func TestClockedOutUserGetsNoReminders(t *testing.T) {
	out := jst(10, 18, 5)
	store := &fakeStore{
		records: []DayRecord{{Date: jst(10, 0, 0), ClockIn: jst(10, 9, 0), ClockOut: &out}},
		shifts:  []Interval{{Start: jst(10, 9, 0), End: jst(10, 18, 0)}},
	}
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier, clock.Fixed(jst(10, 18, 30)))

	if _, err := svc.Today(context.Background(), "t1", "u1"); err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("no reminders after clock-out, got %v", notifier.sent)
	}
}
