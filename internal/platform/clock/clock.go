// Package clock pins every civil-time decision in the service to one
// timezone. Shift dates, work dates and reminder gates all derive from
// the same zone, so a shift registered for "today" and an attendance
// row stamped "today" can never disagree about which day it is.
package clock

import "time"

// Zone is Asia/Tokyo, with a fixed +09:00 fallback for hosts without tzdata.
var Zone = loadZone()

func loadZone() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().In(Zone) }

func System() Clock { return systemClock{} }

// Fixed returns a clock frozen at t, for tests.
func Fixed(t time.Time) Clock { return fixedClock{t: t.In(Zone)} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

// CivilDate truncates t to its calendar date in Zone.
func CivilDate(t time.Time) time.Time {
	t = t.In(Zone)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Zone)
}

// SameDate reports whether a and b fall on the same calendar date in Zone.
func SameDate(a, b time.Time) bool {
	return CivilDate(a).Equal(CivilDate(b))
}
