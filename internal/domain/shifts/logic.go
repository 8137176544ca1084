package shifts

import (
	"errors"
	"fmt"
	"time"

	"timecard/internal/platform/clock"
)

var (
	ErrInvalidRange    = errors.New("shift start must be before shift end")
	ErrPastDate        = errors.New("shifts on past dates cannot be changed")
	ErrNothingToDelete = errors.New("no shift registered for that date")
)

// ValidateRange rejects intervals where the start is not strictly
// before the end. Overnight shifts (end on a later date) are fine.
func ValidateRange(start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidRange
	}
	return nil
}

// IsNight classifies a shift as a night shift for display: start at or
// after 22:00, or end at or before 05:00.
func IsNight(start, end time.Time) bool {
	start = start.In(clock.Zone)
	end = end.In(clock.Zone)
	if start.Hour() >= 22 {
		return true
	}
	endMinutes := end.Hour()*60 + end.Minute()
	return endMinutes <= 5*60
}

// EventTitle renders the calendar label for a shift, appending the end
// date when the shift runs overnight.
func EventTitle(start, end time.Time) string {
	start = start.In(clock.Zone)
	end = end.In(clock.Zone)
	if clock.SameDate(start, end) {
		return fmt.Sprintf("%s~%s", start.Format("15:04"), end.Format("15:04"))
	}
	return fmt.Sprintf("%s~%s", start.Format("15:04"), end.Format("01/02 15:04"))
}

func (s Shift) Event() Event {
	return Event{
		ID:    s.ID,
		Title: EventTitle(s.StartAt, s.EndAt),
		Start: s.StartAt,
		End:   s.EndAt,
		Night: IsNight(s.StartAt, s.EndAt),
	}
}
