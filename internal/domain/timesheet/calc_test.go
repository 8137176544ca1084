package timesheet

import (
	"testing"
	"time"

	"timecard/internal/platform/clock"
)

func jst(day, hour, min int) time.Time {
	return time.Date(2025, 6, day, hour, min, 0, 0, clock.Zone)
}

func TestActualSecondsSubtractsClosedBreaks(t *testing.T) {
	// Clock in 08:56, break 12:00-12:45, out 17:10: 8h14m gross minus
	// 45m break is 7h29m.
	out := jst(10, 17, 10)
	rec := DayRecord{
		Date:     jst(10, 0, 0),
		ClockIn:  jst(10, 8, 56),
		ClockOut: &out,
		Breaks:   []Interval{{Start: jst(10, 12, 0), End: jst(10, 12, 45)}},
	}
	got := ActualSeconds(rec)
	want := int64(7*3600 + 29*60)
	if got != want {
		t.Fatalf("ActualSeconds = %d, want %d", got, want)
	}
	if s := FormatSeconds(got); s != "7:29" {
		t.Fatalf("FormatSeconds = %q, want 7:29", s)
	}
}

func TestActualSecondsIgnoresOpenRecords(t *testing.T) {
	rec := DayRecord{Date: jst(10, 0, 0), ClockIn: jst(10, 9, 0)}
	if got := ActualSeconds(rec); got != 0 {
		t.Fatalf("open record must not count historically, got %d", got)
	}
}

func TestLiveActualSecondsUsesNow(t *testing.T) {
	rec := DayRecord{Date: jst(10, 0, 0), ClockIn: jst(10, 9, 0)}
	got := LiveActualSeconds(rec, nil, jst(10, 10, 30))
	if want := int64(90 * 60); got != want {
		t.Fatalf("LiveActualSeconds = %d, want %d", got, want)
	}

	openBreak := jst(10, 12, 0)
	rec.Breaks = []Interval{{Start: jst(10, 10, 45), End: jst(10, 11, 0)}}
	got = LiveActualSeconds(rec, &openBreak, jst(10, 12, 20))
	// 3h20m gross minus 15m closed minus 20m open break.
	if want := int64(2*3600 + 45*60); got != want {
		t.Fatalf("LiveActualSeconds with open break = %d, want %d", got, want)
	}
}

func TestOvertimeSeconds(t *testing.T) {
	shift := Interval{Start: jst(10, 9, 0), End: jst(10, 17, 0)}
	out := jst(10, 17, 10)
	rec := DayRecord{ClockIn: jst(10, 8, 56), ClockOut: &out, Shift: &shift}
	if got := OvertimeSeconds(rec); got != 600 {
		t.Fatalf("OvertimeSeconds = %d, want 600", got)
	}

	early := jst(10, 16, 30)
	rec.ClockOut = &early
	if got := OvertimeSeconds(rec); got != 0 {
		t.Fatalf("early clock-out must yield zero overtime, got %d", got)
	}

	rec.Shift = nil
	rec.ClockOut = &out
	if got := OvertimeSeconds(rec); got != 0 {
		t.Fatalf("no shift means no overtime baseline, got %d", got)
	}
}

func TestExpectedBreak(t *testing.T) {
	cases := []struct {
		name       string
		shift      Interval
		wantLength time.Duration
		wantStart  time.Time
	}{
		{
			name:       "eight hour shift gets 45 minutes",
			shift:      Interval{Start: jst(10, 9, 0), End: jst(10, 17, 0)},
			wantLength: 45 * time.Minute,
			wantStart:  jst(10, 12, 37).Add(30 * time.Second),
		},
		{
			name:       "nine hour shift gets an hour",
			shift:      Interval{Start: jst(10, 9, 0), End: jst(10, 18, 0)},
			wantLength: 60 * time.Minute,
			wantStart:  jst(10, 13, 0),
		},
		{
			name:  "short shift gets none",
			shift: Interval{Start: jst(10, 9, 0), End: jst(10, 14, 0)},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, length := ExpectedBreak(tc.shift)
			if length != tc.wantLength {
				t.Fatalf("length = %v, want %v", length, tc.wantLength)
			}
			if tc.wantLength != 0 && !start.Equal(tc.wantStart) {
				t.Fatalf("start = %v, want %v", start, tc.wantStart)
			}
		})
	}
}

func TestFormatSecondsTruncates(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0:00"},
		{59, "0:00"},
		{60, "0:01"},
		{3599, "0:59"},
		{26940, "7:29"},
		{-5, "0:00"},
	}
	for _, tc := range cases {
		if got := FormatSeconds(tc.seconds); got != tc.want {
			t.Fatalf("FormatSeconds(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
