package timesheet

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Records returns the attendance rows in the range joined with their
// breaks and the shift registered for the same date.
func (s *Store) Records(ctx context.Context, tenantID, userID string, from, to time.Time) ([]DayRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.id, a.work_date, a.clock_in, a.clock_out, sh.start_at, sh.end_at
    FROM attendance a
    LEFT JOIN shifts sh
      ON sh.user_id = a.user_id
     AND (sh.start_at AT TIME ZONE 'Asia/Tokyo')::date = a.work_date
    WHERE a.tenant_id = $1 AND a.user_id = $2
      AND a.work_date BETWEEN $3::date AND $4::date
    ORDER BY a.work_date
  `, tenantID, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DayRecord
	var ids []string
	for rows.Next() {
		var id string
		var rec DayRecord
		var shiftStart, shiftEnd *time.Time
		if err := rows.Scan(&id, &rec.Date, &rec.ClockIn, &rec.ClockOut, &shiftStart, &shiftEnd); err != nil {
			return nil, err
		}
		if shiftStart != nil && shiftEnd != nil {
			rec.Shift = &Interval{Start: *shiftStart, End: *shiftEnd}
		}
		records = append(records, rec)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		breaks, err := s.closedBreaks(ctx, id)
		if err != nil {
			return nil, err
		}
		records[i].Breaks = breaks
	}
	return records, nil
}

func (s *Store) closedBreaks(ctx context.Context, attendanceID string) ([]Interval, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT break_start, break_end
    FROM breaks
    WHERE attendance_id = $1 AND break_end IS NOT NULL
    ORDER BY break_start
  `, attendanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breaks []Interval
	for rows.Next() {
		var b Interval
		if err := rows.Scan(&b.Start, &b.End); err != nil {
			return nil, err
		}
		breaks = append(breaks, b)
	}
	return breaks, rows.Err()
}

// ShiftIntervals lists every shift whose JST start date falls in the
// range, including days without attendance.
func (s *Store) ShiftIntervals(ctx context.Context, userID string, from, to time.Time) ([]Interval, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT start_at, end_at
    FROM shifts
    WHERE user_id = $1
      AND (start_at AT TIME ZONE 'Asia/Tokyo')::date BETWEEN $2::date AND $3::date
    ORDER BY start_at
  `, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []Interval
	for rows.Next() {
		var s Interval
		if err := rows.Scan(&s.Start, &s.End); err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

func (s *Store) OpenBreakStart(ctx context.Context, userID string, date time.Time) (*time.Time, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT b.break_start
    FROM breaks b
    JOIN attendance a ON a.id = b.attendance_id
    WHERE a.user_id = $1 AND a.work_date = $2::date AND b.break_end IS NULL
  `, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var start *time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		start = &t
	}
	return start, rows.Err()
}

func (s *Store) ReminderDates(ctx context.Context, userID string) (breakOn, overdueOn *time.Time, err error) {
	err = s.DB.QueryRow(ctx, `
    SELECT break_reminded_on, overdue_reminded_on FROM users WHERE id = $1
  `, userID).Scan(&breakOn, &overdueOn)
	return breakOn, overdueOn, err
}

func (s *Store) MarkBreakReminded(ctx context.Context, userID string, date time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE users SET break_reminded_on = $2::date WHERE id = $1
  `, userID, date)
	return err
}

func (s *Store) MarkOverdueReminded(ctx context.Context, userID string, date time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE users SET overdue_reminded_on = $2::date WHERE id = $1
  `, userID, date)
	return err
}
