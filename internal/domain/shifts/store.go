package shifts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// ForDate returns the shift whose start falls on the given civil date,
// or nil when none is registered.
func (s *Store) ForDate(ctx context.Context, userID string, date time.Time) (*Shift, error) {
	var out Shift
	err := s.DB.QueryRow(ctx, `
    SELECT id, tenant_id, user_id, start_at, end_at, created_at
    FROM shifts
    WHERE user_id = $1 AND (start_at AT TIME ZONE 'Asia/Tokyo')::date = $2::date
  `, userID, date).Scan(&out.ID, &out.TenantID, &out.UserID, &out.StartAt, &out.EndAt, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) ListRange(ctx context.Context, userID string, from, to time.Time) ([]Shift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, tenant_id, user_id, start_at, end_at, created_at
    FROM shifts
    WHERE user_id = $1
      AND (start_at AT TIME ZONE 'Asia/Tokyo')::date BETWEEN $2::date AND $3::date
    ORDER BY start_at
  `, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Shift
	for rows.Next() {
		var sh Shift
		if err := rows.Scan(&sh.ID, &sh.TenantID, &sh.UserID, &sh.StartAt, &sh.EndAt, &sh.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

// Upsert inserts the shift for the start date of the interval, or
// updates the existing row in place. Returns the stored shift and
// whether a new row was created.
func (s *Store) Upsert(ctx context.Context, tenantID, userID string, start, end time.Time) (Shift, bool, error) {
	var out Shift
	var created bool
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shifts (tenant_id, user_id, start_at, end_at)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (user_id, ((start_at AT TIME ZONE 'Asia/Tokyo')::date))
    DO UPDATE SET start_at = EXCLUDED.start_at, end_at = EXCLUDED.end_at
    RETURNING id, tenant_id, user_id, start_at, end_at, created_at, (xmax = 0)
  `, tenantID, userID, start, end).Scan(&out.ID, &out.TenantID, &out.UserID, &out.StartAt, &out.EndAt, &out.CreatedAt, &created)
	if err != nil {
		return Shift{}, false, err
	}
	return out, created, nil
}

// DeleteByDate removes the user's shift starting on the given date and
// reports whether a row existed.
func (s *Store) DeleteByDate(ctx context.Context, userID string, date time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM shifts
    WHERE user_id = $1 AND (start_at AT TIME ZONE 'Asia/Tokyo')::date = $2::date
  `, userID, date)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
