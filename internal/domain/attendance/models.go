package attendance

import "time"

type Attendance struct {
	ID       string     `json:"id"`
	TenantID string     `json:"-"`
	UserID   string     `json:"userId"`
	WorkDate time.Time  `json:"workDate"`
	ClockIn  time.Time  `json:"clockIn"`
	ClockOut *time.Time `json:"clockOut,omitempty"`
}

type Break struct {
	ID           string     `json:"id"`
	AttendanceID string     `json:"attendanceId"`
	BreakStart   time.Time  `json:"breakStart"`
	BreakEnd     *time.Time `json:"breakEnd,omitempty"`
}

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusWorking    Status = "working"
	StatusOnBreak    Status = "on_break"
	StatusFinished   Status = "finished"
)

// State is the per-user-per-day machine state, reconstructed from
// storage on every request and never cached across requests.
type State struct {
	Status       Status `json:"status"`
	AttendanceID string `json:"attendanceId,omitempty"`
	BreakID      string `json:"breakId,omitempty"`
}
