package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"timecard/internal/platform/clock"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type staffShift struct {
	UserID  string
	StartAt time.Time
	EndAt   time.Time
}

func (s *Store) tenantUsers(ctx context.Context, tenantID string) ([]ShiftTableRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, employee_id
    FROM users
    WHERE tenant_id = $1
    ORDER BY employee_id
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []ShiftTableRow
	for rows.Next() {
		var row ShiftTableRow
		if err := rows.Scan(&row.UserID, &row.Name, &row.EmployeeID); err != nil {
			return nil, err
		}
		row.Days = map[int]string{}
		users = append(users, row)
	}
	return users, rows.Err()
}

func (s *Store) monthShifts(ctx context.Context, tenantID string, from, to time.Time) ([]staffShift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT user_id, start_at, end_at
    FROM shifts
    WHERE tenant_id = $1
      AND (start_at AT TIME ZONE 'Asia/Tokyo')::date BETWEEN $2::date AND $3::date
    ORDER BY start_at
  `, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []staffShift
	for rows.Next() {
		var sh staffShift
		if err := rows.Scan(&sh.UserID, &sh.StartAt, &sh.EndAt); err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}

func (s *Store) ListJobRuns(ctx context.Context, tenantID, jobType string, limit, offset int) ([]map[string]any, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, job_type, status, details_json, started_at, completed_at
    FROM job_runs
    WHERE tenant_id = $1 AND ($2 = '' OR job_type = $2)
    ORDER BY started_at DESC
    LIMIT $3 OFFSET $4
  `, tenantID, jobType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]any
	for rows.Next() {
		var id, jtype, status string
		var details []byte
		var startedAt time.Time
		var completedAt *time.Time
		if err := rows.Scan(&id, &jtype, &status, &details, &startedAt, &completedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]any{
			"id":          id,
			"jobType":     jtype,
			"status":      status,
			"details":     string(details),
			"startedAt":   startedAt,
			"completedAt": completedAt,
		})
	}
	return runs, rows.Err()
}

func (s *Store) companyName(ctx context.Context, tenantID string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx, `SELECT name FROM tenants WHERE id = $1`, tenantID).Scan(&name)
	return name, err
}

func dayOfMonth(t time.Time) int {
	return t.In(clock.Zone).Day()
}
