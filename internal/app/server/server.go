package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timecard/internal/domain/attendance"
	"timecard/internal/domain/auth"
	"timecard/internal/domain/core"
	"timecard/internal/domain/messages"
	"timecard/internal/domain/reports"
	"timecard/internal/domain/shifts"
	"timecard/internal/domain/timesheet"
	"timecard/internal/platform/clock"
	"timecard/internal/platform/config"
	cryptoutil "timecard/internal/platform/crypto"
	"timecard/internal/platform/db"
	"timecard/internal/platform/email"
	"timecard/internal/platform/jobs"
	"timecard/internal/platform/metrics"
	"timecard/internal/transport/http/api"
	authhandler "timecard/internal/transport/http/handlers/auth"
	messageshandler "timecard/internal/transport/http/handlers/messages"
	reportshandler "timecard/internal/transport/http/handlers/reports"
	shiftshandler "timecard/internal/transport/http/handlers/shifts"
	timecardhandler "timecard/internal/transport/http/handlers/timecard"
	usershandler "timecard/internal/transport/http/handlers/users"
	"timecard/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler

	jobs   *jobs.Service
	cancel context.CancelFunc
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	log.Printf("timecard server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	clk := clock.System()
	collector := metrics.New()

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, err
	}

	authStore := auth.NewStore(pool)
	messageSvc := messages.New(messages.NewStore(pool), email.New(cfg))
	shiftSvc := shifts.NewService(shifts.NewStore(pool), clk)
	attendanceSvc := attendance.NewService(attendance.NewStore(pool), shiftWindows{shiftSvc}, messageSvc, clk)
	timesheetSvc := timesheet.NewService(timesheet.NewStore(pool), messageSvc, clk)
	userSvc := core.NewService(core.NewStore(pool), messageSvc)
	reportSvc := reports.NewService(reports.NewStore(pool), timesheetSvc, clk)

	jobSvc := jobs.New(pool, cfg, clk, func(ctx context.Context, tenantID, userID string) error {
		_, err := timesheetSvc.Today(ctx, tenantID, userID)
		return err
	})
	jobCtx, cancel := context.WithCancel(context.Background())
	jobSvc.Start(jobCtx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, authStore))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		if cfg.MetricsEnabled {
			r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(req.Context()))
			})
		}

		authHandler := authhandler.NewHandler(authStore, userSvc, cfg.JWTSecret, cryptoSvc)
		r.Group(func(r chi.Router) {
			r.Use(middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute))
			r.Post("/auth/login", authHandler.HandleLogin)
		})
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/auth/logout", authHandler.HandleLogout)
			r.Post("/auth/mfa/setup", authHandler.HandleMFASetup)
			r.Post("/auth/mfa/enable", authHandler.HandleMFAEnable)
			r.Post("/auth/mfa/disable", authHandler.HandleMFADisable)
		})

		timecardhandler.NewHandler(attendanceSvc, timesheetSvc, userSvc).RegisterRoutes(r)
		shiftshandler.NewHandler(shiftSvc).RegisterRoutes(r)
		usershandler.NewHandler(userSvc).RegisterRoutes(r)
		messageshandler.NewHandler(messageSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportSvc, userSvc).RegisterRoutes(r)
	})

	return &App{
		Config: cfg,
		DB:     pool,
		Router: router,
		jobs:   jobSvc,
		cancel: cancel,
	}, nil
}

func (a *App) Close() {
	a.cancel()
	a.DB.Close()
}

// shiftWindows adapts the shift service to the attendance view of a
// shift, which only needs the start and end instants.
type shiftWindows struct {
	shifts *shifts.Service
}

func (s shiftWindows) ForDate(ctx context.Context, userID string, date time.Time) (*attendance.ShiftWindow, error) {
	shift, err := s.shifts.ForDate(ctx, userID, date)
	if err != nil || shift == nil {
		return nil, err
	}
	return &attendance.ShiftWindow{StartAt: shift.StartAt, EndAt: shift.EndAt}, nil
}
