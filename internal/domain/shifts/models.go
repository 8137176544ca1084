package shifts

import "time"

type Shift struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"-"`
	UserID    string    `json:"userId"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is the calendar representation of a shift.
type Event struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Night bool      `json:"night"`
}
