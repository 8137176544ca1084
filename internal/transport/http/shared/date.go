package shared

import (
	"time"

	"timecard/internal/platform/clock"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD, interpreted in JST.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.In(clock.Zone), nil
	}
	return time.ParseInLocation("2006-01-02", value, clock.Zone)
}

// ParseMonth accepts YYYY-MM and returns its year and month.
func ParseMonth(value string) (int, time.Month, error) {
	parsed, err := time.ParseInLocation("2006-01", value, clock.Zone)
	if err != nil {
		return 0, 0, err
	}
	return parsed.Year(), parsed.Month(), nil
}
