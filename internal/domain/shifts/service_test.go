package shifts

import (
	"context"
	"errors"
	"testing"
	"time"

	"timecard/internal/platform/clock"
)

type fakeStore struct {
	byDate map[string]Shift
}

func newFakeStore() *fakeStore {
	return &fakeStore{byDate: map[string]Shift{}}
}

func dateKey(userID string, t time.Time) string {
	return userID + "/" + clock.CivilDate(t).Format("2006-01-02")
}

func (f *fakeStore) ForDate(_ context.Context, userID string, date time.Time) (*Shift, error) {
	if sh, ok := f.byDate[dateKey(userID, date)]; ok {
		return &sh, nil
	}
	return nil, nil
}

func (f *fakeStore) ListRange(_ context.Context, userID string, from, to time.Time) ([]Shift, error) {
	var out []Shift
	for _, sh := range f.byDate {
		if sh.UserID == userID && !clock.CivilDate(sh.StartAt).Before(clock.CivilDate(from)) && !clock.CivilDate(sh.StartAt).After(clock.CivilDate(to)) {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (f *fakeStore) Upsert(_ context.Context, tenantID, userID string, start, end time.Time) (Shift, bool, error) {
	key := dateKey(userID, start)
	existing, ok := f.byDate[key]
	if ok {
		existing.StartAt = start
		existing.EndAt = end
		f.byDate[key] = existing
		return existing, false, nil
	}
	sh := Shift{ID: key, TenantID: tenantID, UserID: userID, StartAt: start, EndAt: end}
	f.byDate[key] = sh
	return sh, true, nil
}

func (f *fakeStore) DeleteByDate(_ context.Context, userID string, date time.Time) (bool, error) {
	key := dateKey(userID, date)
	if _, ok := f.byDate[key]; !ok {
		return false, nil
	}
	delete(f.byDate, key)
	return true, nil
}

func TestUpsertIsIdempotentPerStartDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, clock.Zone)
	svc := NewService(newFakeStore(), clock.Fixed(now))

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, clock.Zone)
	end := time.Date(2025, 6, 10, 17, 0, 0, 0, clock.Zone)

	_, created, err := svc.Upsert(context.Background(), "t1", "u1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("first upsert should create")
	}

	sh, created, err := svc.Upsert(context.Background(), "t1", "u1", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("re-submitting the same interval must update, not duplicate")
	}
	if !sh.StartAt.Equal(start) || !sh.EndAt.Equal(end) {
		t.Fatalf("stored interval mismatch: %v-%v", sh.StartAt, sh.EndAt)
	}
}

func TestUpsertRejectsInvertedAndPast(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, clock.Zone)
	svc := NewService(newFakeStore(), clock.Fixed(now))

	start := time.Date(2025, 6, 16, 17, 0, 0, 0, clock.Zone)
	if _, _, err := svc.Upsert(context.Background(), "t1", "u1", start, start.Add(-time.Hour)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	past := time.Date(2025, 6, 14, 9, 0, 0, 0, clock.Zone)
	if _, _, err := svc.Upsert(context.Background(), "t1", "u1", past, past.Add(8*time.Hour)); !errors.Is(err, ErrPastDate) {
		t.Fatalf("expected ErrPastDate, got %v", err)
	}
}

func TestDeleteMissingShiftIsReported(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, clock.Zone)
	svc := NewService(newFakeStore(), clock.Fixed(now))

	err := svc.Delete(context.Background(), "u1", time.Date(2025, 6, 20, 0, 0, 0, 0, clock.Zone))
	if !errors.Is(err, ErrNothingToDelete) {
		t.Fatalf("expected ErrNothingToDelete, got %v", err)
	}
}
