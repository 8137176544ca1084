package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// ForDate returns the user's attendance row for the given work date, or
// nil when the day has not started.
func (s *Store) ForDate(ctx context.Context, userID string, date time.Time) (*Attendance, error) {
	var out Attendance
	err := s.DB.QueryRow(ctx, `
    SELECT id, tenant_id, user_id, work_date, clock_in, clock_out
    FROM attendance
    WHERE user_id = $1 AND work_date = $2::date
  `, userID, date).Scan(&out.ID, &out.TenantID, &out.UserID, &out.WorkDate, &out.ClockIn, &out.ClockOut)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Open returns the user's attendance row that has not been clocked out
// yet, whatever its work date. The partial unique index guarantees at
// most one such row, so an overnight interval is found here even after
// the date has rolled over.
func (s *Store) Open(ctx context.Context, userID string) (*Attendance, error) {
	var out Attendance
	err := s.DB.QueryRow(ctx, `
    SELECT id, tenant_id, user_id, work_date, clock_in, clock_out
    FROM attendance
    WHERE user_id = $1 AND clock_out IS NULL
  `, userID).Scan(&out.ID, &out.TenantID, &out.UserID, &out.WorkDate, &out.ClockIn, &out.ClockOut)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LatestBreak returns the most recent break for the attendance row, or
// nil when no break has been taken.
func (s *Store) LatestBreak(ctx context.Context, attendanceID string) (*Break, error) {
	var out Break
	err := s.DB.QueryRow(ctx, `
    SELECT id, attendance_id, break_start, break_end
    FROM breaks
    WHERE attendance_id = $1
    ORDER BY break_start DESC
    LIMIT 1
  `, attendanceID).Scan(&out.ID, &out.AttendanceID, &out.BreakStart, &out.BreakEnd)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) Breaks(ctx context.Context, attendanceID string) ([]Break, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, attendance_id, break_start, break_end
    FROM breaks
    WHERE attendance_id = $1
    ORDER BY break_start
  `, attendanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Break
	for rows.Next() {
		var br Break
		if err := rows.Scan(&br.ID, &br.AttendanceID, &br.BreakStart, &br.BreakEnd); err != nil {
			return nil, err
		}
		out = append(out, br)
	}
	return out, rows.Err()
}

// Insert creates the day's attendance row. The partial unique index on
// open rows makes a racing second clock-in fail here instead of
// leaving two open rows behind; that violation surfaces as
// ErrInvalidState so the caller sees the same answer the state check
// would have given.
func (s *Store) Insert(ctx context.Context, tenantID, userID string, workDate, clockIn time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance (tenant_id, user_id, work_date, clock_in)
    VALUES ($1, $2, $3::date, $4)
    RETURNING id
  `, tenantID, userID, workDate, clockIn).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrInvalidState
		}
		return "", err
	}
	return id, nil
}

// Close stamps clock_out and, in the same transaction, ends any break
// still open on the row.
func (s *Store) Close(ctx context.Context, attendanceID string, at time.Time) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
    UPDATE breaks SET break_end = $1
    WHERE attendance_id = $2 AND break_end IS NULL
  `, at, attendanceID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
    UPDATE attendance SET clock_out = $1 WHERE id = $2 AND clock_out IS NULL
  `, at, attendanceID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) InsertBreak(ctx context.Context, attendanceID string, at time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO breaks (attendance_id, break_start)
    VALUES ($1, $2)
    RETURNING id
  `, attendanceID, at).Scan(&id)
	return id, err
}

func (s *Store) CloseBreak(ctx context.Context, breakID string, at time.Time) error {
	_, err := s.DB.Exec(ctx, "UPDATE breaks SET break_end = $1 WHERE id = $2 AND break_end IS NULL", at, breakID)
	return err
}

// Delete removes the attendance row; its breaks go with it via the
// foreign key cascade.
func (s *Store) Delete(ctx context.Context, attendanceID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM attendance WHERE id = $1", attendanceID)
	return err
}
