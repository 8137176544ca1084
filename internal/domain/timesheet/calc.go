package timesheet

import (
	"fmt"
	"time"
)

const (
	longWorkThreshold  = 8 * time.Hour
	longBreakLength    = 60 * time.Minute
	shortWorkThreshold = 6 * time.Hour
	shortBreakLength   = 45 * time.Minute
)

// Interval is a closed timestamp range with End after Start.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Seconds() int64 {
	return int64(i.End.Sub(i.Start) / time.Second)
}

// DayRecord is one day's attendance joined with its breaks and the
// shift registered for the same date, if any.
type DayRecord struct {
	Date     time.Time
	ClockIn  time.Time
	ClockOut *time.Time
	Breaks   []Interval
	Shift    *Interval
}

func ScheduledSeconds(shifts []Interval) int64 {
	var total int64
	for _, s := range shifts {
		total += s.Seconds()
	}
	return total
}

func BreakSeconds(breaks []Interval) int64 {
	var total int64
	for _, b := range breaks {
		total += b.Seconds()
	}
	return total
}

// ActualSeconds is gross presence minus closed breaks. Records without
// a clock-out contribute nothing to historical totals.
func ActualSeconds(rec DayRecord) int64 {
	if rec.ClockOut == nil {
		return 0
	}
	gross := int64(rec.ClockOut.Sub(rec.ClockIn) / time.Second)
	return gross - BreakSeconds(rec.Breaks)
}

// LiveActualSeconds values an open record with now standing in for the
// clock-out and for the end of an open break.
func LiveActualSeconds(rec DayRecord, openBreakStart *time.Time, now time.Time) int64 {
	end := now
	if rec.ClockOut != nil {
		end = *rec.ClockOut
	}
	gross := int64(end.Sub(rec.ClockIn) / time.Second)
	breaks := BreakSeconds(rec.Breaks)
	if openBreakStart != nil && rec.ClockOut == nil {
		breaks += int64(now.Sub(*openBreakStart) / time.Second)
	}
	return gross - breaks
}

func OvertimeSeconds(rec DayRecord) int64 {
	if rec.ClockOut == nil || rec.Shift == nil {
		return 0
	}
	over := int64(rec.ClockOut.Sub(rec.Shift.End) / time.Second)
	if over < 0 {
		return 0
	}
	return over
}

// ExpectedBreak returns the advisory break window for a shift: 60
// minutes when scheduled work exceeds 8 hours, 45 minutes when it
// exceeds 6, otherwise none. The window is centred on the shift
// midpoint.
func ExpectedBreak(shift Interval) (start time.Time, length time.Duration) {
	scheduled := shift.End.Sub(shift.Start)
	switch {
	case scheduled > longWorkThreshold:
		length = longBreakLength
	case scheduled > shortWorkThreshold:
		length = shortBreakLength
	default:
		return time.Time{}, 0
	}
	midpoint := shift.Start.Add(scheduled / 2)
	return midpoint.Add(-length / 2), length
}

// FormatSeconds renders whole hours and minutes, seconds truncated.
func FormatSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/3600, (seconds%3600)/60)
}
