package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	ForDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)
	Open(ctx context.Context, userID string) (*Attendance, error)
	LatestBreak(ctx context.Context, attendanceID string) (*Break, error)
	Breaks(ctx context.Context, attendanceID string) ([]Break, error)
	Insert(ctx context.Context, tenantID, userID string, workDate, clockIn time.Time) (string, error)
	Close(ctx context.Context, attendanceID string, at time.Time) error
	InsertBreak(ctx context.Context, attendanceID string, at time.Time) (string, error)
	CloseBreak(ctx context.Context, breakID string, at time.Time) error
	Delete(ctx context.Context, attendanceID string) error
}

// ShiftSource is the slice of the shift manager the state tracker needs
// for the clock-in window check.
type ShiftSource interface {
	ForDate(ctx context.Context, userID string, date time.Time) (*ShiftWindow, error)
}

type ShiftWindow struct {
	StartAt time.Time
	EndAt   time.Time
}

// Notifier is the messaging side-channel. Delivery failures are logged
// by the caller, never propagated.
type Notifier interface {
	Notify(ctx context.Context, tenantID, userID, content string) error
	Broadcast(ctx context.Context, tenantID, content string) error
}
