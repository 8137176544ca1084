package attendance

import (
	"testing"
	"time"

	"timecard/internal/platform/clock"
)

func TestDeriveState(t *testing.T) {
	clockIn := time.Date(2025, 6, 10, 9, 0, 0, 0, clock.Zone)
	clockOut := clockIn.Add(8 * time.Hour)
	breakStart := clockIn.Add(3 * time.Hour)
	breakEnd := breakStart.Add(45 * time.Minute)

	cases := []struct {
		name      string
		att       *Attendance
		lastBreak *Break
		want      Status
	}{
		{"no row", nil, nil, StatusNotStarted},
		{"clocked in", &Attendance{ID: "a1", ClockIn: clockIn}, nil, StatusWorking},
		{"open break", &Attendance{ID: "a1", ClockIn: clockIn}, &Break{ID: "b1", BreakStart: breakStart}, StatusOnBreak},
		{"closed break", &Attendance{ID: "a1", ClockIn: clockIn}, &Break{ID: "b1", BreakStart: breakStart, BreakEnd: &breakEnd}, StatusWorking},
		{"clocked out", &Attendance{ID: "a1", ClockIn: clockIn, ClockOut: &clockOut}, nil, StatusFinished},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveState(tc.att, tc.lastBreak)
			if got.Status != tc.want {
				t.Fatalf("DeriveState = %s, want %s", got.Status, tc.want)
			}
		})
	}
}

func TestDeriveStateCarriesIDs(t *testing.T) {
	att := &Attendance{ID: "a1", ClockIn: time.Now()}
	br := &Break{ID: "b1", AttendanceID: "a1", BreakStart: time.Now()}

	state := DeriveState(att, br)
	if state.AttendanceID != "a1" || state.BreakID != "b1" {
		t.Fatalf("expected ids carried over, got %+v", state)
	}
}
