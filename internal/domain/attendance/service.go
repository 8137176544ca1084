package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"timecard/internal/platform/clock"
)

var (
	ErrInvalidState = errors.New("operation not allowed in the current state")
	ErrNoShift      = errors.New("no shift is registered for today")
)

// TooEarlyError reports a clock-in attempt before the allowed window.
type TooEarlyError struct {
	Earliest time.Time
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("clock-in opens 5 minutes before the shift start (%s)", e.Earliest.In(clock.Zone).Format("15:04"))
}

const (
	clockInWindow = 5 * time.Minute

	longWorkThreshold  = 8 * time.Hour
	longBreakMinimum   = 60 * time.Minute
	shortWorkThreshold = 6 * time.Hour
	shortBreakMinimum  = 45 * time.Minute
)

type Service struct {
	Store  StoreAPI
	Shifts ShiftSource
	Notify Notifier
	Clock  clock.Clock
}

func NewService(store StoreAPI, shiftSource ShiftSource, notifier Notifier, clk clock.Clock) *Service {
	return &Service{Store: store, Shifts: shiftSource, Notify: notifier, Clock: clk}
}

// State derives the user's machine state from storage. The open
// attendance row wins regardless of its work date, so a shift that
// crossed midnight is still working or on break the next morning;
// without one, today's closed row decides between finished and
// not_started.
func (s *Service) State(ctx context.Context, userID string) (State, error) {
	att, err := s.Store.Open(ctx, userID)
	if err != nil {
		return State{}, err
	}
	if att == nil {
		today := clock.CivilDate(s.Clock.Now())
		closed, err := s.Store.ForDate(ctx, userID, today)
		if err != nil {
			return State{}, err
		}
		return DeriveState(closed, nil), nil
	}
	lastBreak, err := s.Store.LatestBreak(ctx, att.ID)
	if err != nil {
		return State{}, err
	}
	return DeriveState(att, lastBreak), nil
}

// ClockIn starts today's work interval. It requires a registered shift
// and refuses stamps earlier than five minutes before the shift start.
func (s *Service) ClockIn(ctx context.Context, tenantID, userID, userName string) (State, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return state, err
	}
	if state.Status != StatusNotStarted {
		return state, ErrInvalidState
	}

	now := s.Clock.Now()
	today := clock.CivilDate(now)
	shift, err := s.Shifts.ForDate(ctx, userID, today)
	if err != nil {
		return state, err
	}
	if shift == nil {
		return state, ErrNoShift
	}
	earliest := shift.StartAt.Add(-clockInWindow)
	if now.Before(earliest) {
		return state, &TooEarlyError{Earliest: earliest}
	}

	id, err := s.Store.Insert(ctx, tenantID, userID, today, now)
	if err != nil {
		return state, err
	}

	s.broadcast(ctx, tenantID, fmt.Sprintf("%s clocked in. (%s)", userName, now.In(clock.Zone).Format("15:04")))
	return State{Status: StatusWorking, AttendanceID: id}, nil
}

// ClockOut ends the open work interval, also one that started the
// previous day. Clocking out while on break is permitted; the open
// break is closed at the same instant.
func (s *Service) ClockOut(ctx context.Context, tenantID, userID, userName string) (State, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return state, err
	}
	if state.Status != StatusWorking && state.Status != StatusOnBreak {
		return state, ErrInvalidState
	}

	att, err := s.Store.Open(ctx, userID)
	if err != nil {
		return state, err
	}

	now := s.Clock.Now()
	if err := s.Store.Close(ctx, state.AttendanceID, now); err != nil {
		return state, err
	}

	breaks, err := s.Store.Breaks(ctx, state.AttendanceID)
	if err != nil {
		return state, err
	}

	s.broadcast(ctx, tenantID, fmt.Sprintf("%s clocked out. (%s)", userName, now.In(clock.Zone).Format("15:04")))

	if att != nil {
		workDuration := now.Sub(att.ClockIn)
		breakDuration := closedBreakTotal(breaks)
		if warning := breakComplianceWarning(workDuration, breakDuration); warning != "" {
			s.notify(ctx, tenantID, userID, warning)
		}
	}

	return State{Status: StatusFinished, AttendanceID: state.AttendanceID}, nil
}

// BreakStart opens a break on the working attendance row.
func (s *Service) BreakStart(ctx context.Context, userID string) (State, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return state, err
	}
	if state.Status != StatusWorking {
		return state, ErrInvalidState
	}

	id, err := s.Store.InsertBreak(ctx, state.AttendanceID, s.Clock.Now())
	if err != nil {
		return state, err
	}
	return State{Status: StatusOnBreak, AttendanceID: state.AttendanceID, BreakID: id}, nil
}

// BreakEnd closes the open break.
func (s *Service) BreakEnd(ctx context.Context, userID string) (State, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return state, err
	}
	if state.Status != StatusOnBreak {
		return state, ErrInvalidState
	}

	if err := s.Store.CloseBreak(ctx, state.BreakID, s.Clock.Now()); err != nil {
		return state, err
	}
	return State{Status: StatusWorking, AttendanceID: state.AttendanceID}, nil
}

// Cancel withdraws today's clock-in before any break or clock-out. The
// attendance row and its breaks are removed and the day returns to
// not_started.
func (s *Service) Cancel(ctx context.Context, tenantID, userID string) (State, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return state, err
	}
	if state.Status != StatusWorking {
		return state, ErrInvalidState
	}

	if err := s.Store.Delete(ctx, state.AttendanceID); err != nil {
		return state, err
	}
	s.notify(ctx, tenantID, userID, "Your clock-in record was cancelled.")
	return State{Status: StatusNotStarted}, nil
}

func (s *Service) broadcast(ctx context.Context, tenantID, content string) {
	if s.Notify == nil {
		return
	}
	if err := s.Notify.Broadcast(ctx, tenantID, content); err != nil {
		slog.Warn("attendance broadcast failed", "tenantId", tenantID, "err", err)
	}
}

func (s *Service) notify(ctx context.Context, tenantID, userID, content string) {
	if s.Notify == nil {
		return
	}
	if err := s.Notify.Notify(ctx, tenantID, userID, content); err != nil {
		slog.Warn("attendance notification failed", "userId", userID, "err", err)
	}
}

func closedBreakTotal(breaks []Break) time.Duration {
	var total time.Duration
	for _, br := range breaks {
		if br.BreakEnd != nil {
			total += br.BreakEnd.Sub(br.BreakStart)
		}
	}
	return total
}

// breakComplianceWarning returns the advisory text when the day's
// gross work exceeds a statutory threshold with too little break, or
// "" when the break was adequate.
func breakComplianceWarning(work, breaks time.Duration) string {
	if work > longWorkThreshold && breaks < longBreakMinimum {
		return "Warning: you worked more than 8 hours with less than 60 minutes of break. Please make sure to take the legally required break time."
	}
	if work > shortWorkThreshold && breaks < shortBreakMinimum {
		return "Warning: you worked more than 6 hours with less than 45 minutes of break. Please make sure to take the legally required break time."
	}
	return ""
}
