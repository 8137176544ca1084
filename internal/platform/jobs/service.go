package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"timecard/internal/platform/clock"
	"timecard/internal/platform/config"
)

const JobReminderSweep = "reminder_sweep"

// SweepFunc evaluates reminder conditions for one user and fires any
// that are due.
type SweepFunc func(ctx context.Context, tenantID, userID string) error

type Service struct {
	DB    *pgxpool.Pool
	Cfg   config.Config
	Clock clock.Clock
	Sweep SweepFunc
	queue chan job
}

type job struct {
	Type     string
	TenantID string
	Run      func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, clk clock.Clock, sweep SweepFunc) *Service {
	return &Service{
		DB:    db,
		Cfg:   cfg,
		Clock: clk,
		Sweep: sweep,
		queue: make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.ReminderInterval > 0 {
		go s.scheduleReminders(ctx, s.Cfg.ReminderInterval)
	}
}

func (s *Service) Enqueue(jobType, tenantID string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, TenantID: tenantID, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "tenantId", tenantID)
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "tenantId", j.TenantID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (tenant_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, j.TenantID, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

// scheduleReminders periodically sweeps every user who is clocked in
// today, so break and overdue reminders fire even when the user never
// refreshes their timecard page.
func (s *Service) scheduleReminders(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			candidates, err := s.openAttendanceUsers(ctx)
			if err != nil {
				slog.Warn("reminder sweep candidate lookup failed", "err", err)
				continue
			}
			for tenantID, userIDs := range candidates {
				tenant := tenantID
				users := userIDs
				s.Enqueue(JobReminderSweep, tenant, func(ctx context.Context) (any, error) {
					swept := 0
					for _, userID := range users {
						if err := s.Sweep(ctx, tenant, userID); err != nil {
							slog.Warn("reminder sweep failed", "tenantId", tenant, "userId", userID, "err", err)
							continue
						}
						swept++
					}
					return map[string]any{"usersSwept": swept}, nil
				})
			}
		}
	}
}

func (s *Service) openAttendanceUsers(ctx context.Context) (map[string][]string, error) {
	today := clock.CivilDate(s.Clock.Now())
	rows, err := s.DB.Query(ctx, `
    SELECT tenant_id, user_id
    FROM attendance
    WHERE work_date = $1::date AND clock_out IS NULL
  `, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := map[string][]string{}
	for rows.Next() {
		var tenantID, userID string
		if err := rows.Scan(&tenantID, &userID); err != nil {
			return nil, err
		}
		candidates[tenantID] = append(candidates[tenantID], userID)
	}
	return candidates, rows.Err()
}
