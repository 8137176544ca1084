package shifts

import (
	"context"
	"time"

	"timecard/internal/platform/clock"
)

type StoreAPI interface {
	ForDate(ctx context.Context, userID string, date time.Time) (*Shift, error)
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]Shift, error)
	Upsert(ctx context.Context, tenantID, userID string, start, end time.Time) (Shift, bool, error)
	DeleteByDate(ctx context.Context, userID string, date time.Time) (bool, error)
}

type Service struct {
	Store StoreAPI
	Clock clock.Clock
}

func NewService(store StoreAPI, clk clock.Clock) *Service {
	return &Service{Store: store, Clock: clk}
}

// Upsert registers or replaces the shift for the start date of the
// interval. Past dates are immutable.
func (s *Service) Upsert(ctx context.Context, tenantID, userID string, start, end time.Time) (Shift, bool, error) {
	if err := ValidateRange(start, end); err != nil {
		return Shift{}, false, err
	}
	today := clock.CivilDate(s.Clock.Now())
	if clock.CivilDate(start).Before(today) {
		return Shift{}, false, ErrPastDate
	}
	return s.Store.Upsert(ctx, tenantID, userID, start, end)
}

func (s *Service) Delete(ctx context.Context, userID string, date time.Time) error {
	today := clock.CivilDate(s.Clock.Now())
	if clock.CivilDate(date).Before(today) {
		return ErrPastDate
	}
	deleted, err := s.Store.DeleteByDate(ctx, userID, date)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNothingToDelete
	}
	return nil
}

func (s *Service) ForDate(ctx context.Context, userID string, date time.Time) (*Shift, error) {
	return s.Store.ForDate(ctx, userID, date)
}

// Calendar lists the user's shifts in [from, to] as calendar events.
func (s *Service) Calendar(ctx context.Context, userID string, from, to time.Time) ([]Event, error) {
	list, err := s.Store.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(list))
	for _, sh := range list {
		events = append(events, sh.Event())
	}
	return events, nil
}
