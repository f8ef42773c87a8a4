package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"perfreview/internal/domain/directory"
	"perfreview/internal/domain/evaluation"
	"perfreview/internal/domain/report"
	"perfreview/internal/platform/config"
	"perfreview/internal/platform/db"
	"perfreview/internal/platform/grid"
	"perfreview/internal/platform/grid/pggrid"
	"perfreview/internal/platform/grid/sqlitegrid"
	"perfreview/internal/platform/grid/xlsxgrid"
	"perfreview/internal/platform/jobs"
	"perfreview/internal/platform/lock"
	"perfreview/internal/platform/metrics"
	"perfreview/internal/platform/notify"
	adminhandler "perfreview/internal/transport/http/handlers/admin"
	evaluationhandler "perfreview/internal/transport/http/handlers/evaluation"
	"perfreview/internal/transport/http/middleware"
	"perfreview/migrations"
)

type App struct {
	Config  config.Config
	Grid    grid.Grid
	Service *evaluation.Service
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Router  http.Handler
	closers []func()
}

func (a *App) storage(ctx context.Context) (grid.Grid, lock.Locker, error) {
	cfg := a.Config
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return grid.NewMemory(), lock.NewKeyedMutex(), nil
	case config.DriverXLSX:
		wb, err := xlsxgrid.Open(cfg.WorkbookPath)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() { _ = wb.Close() })
		return wb, lock.NewKeyedMutex(), nil
	case config.DriverSQLite:
		store, err := sqlitegrid.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() { _ = store.Close() })
		return store, lock.NewKeyedMutex(), nil
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect failed: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
				return nil, nil, fmt.Errorf("migrations failed: %w", err)
			}
		}
		lockPool, err := db.ConnectLocks(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("lock pool connect failed: %w", err)
		}
		a.closers = append(a.closers, lockPool.Close)
		return pggrid.New(pool), lock.NewAdvisory(lockPool, cfg.LockTimeout), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func tablesFrom(s config.Sheets) evaluation.Tables {
	return evaluation.Tables{
		Directory:   s.Directory,
		Headers:     s.Headers,
		Details:     s.Details,
		CommonItems: s.CommonItems,
		GradeItems:  s.GradeItems,
	}
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := &App{Config: cfg}

	g, locker, err := app.storage(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Grid = g

	tables := tablesFrom(cfg.Sheets)
	if cfg.RunSeed {
		err = evaluation.SeedDemo(ctx, g, tables)
	} else {
		err = evaluation.Bootstrap(ctx, g, tables)
	}
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("prepare tables: %w", err)
	}

	roles := directory.NewRoleResolver(cfg.AdminEmails)
	app.Service = evaluation.NewService(g, locker, tables, roles, cfg.DateLayout)
	if cfg.MetricsEnabled {
		app.Metrics = metrics.New()
		app.Service.Observer = app.Metrics
	}

	schedule, err := jobs.ParseSchedule(cfg.ReminderSchedule)
	if err != nil {
		app.Close()
		return nil, err
	}
	var notifier notify.Notifier = notify.Log{}
	switch {
	case cfg.SlackBotToken != "":
		notifier = notify.NewSlack(cfg.SlackBotToken)
	case cfg.SMTP.Host != "":
		notifier = notify.NewEmail(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			UseTLS:   cfg.SMTP.UseTLS,
			From:     cfg.SMTP.From,
		})
	}
	app.Jobs = jobs.New(app.Service, notifier, schedule, cfg.Location())

	app.Router = app.routes(roles)
	return app, nil
}

func (a *App) routes(roles directory.RoleResolver) http.Handler {
	cfg := a.Config
	accessLog := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(accessLog))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	if a.Metrics != nil {
		router.Use(a.Metrics.Middleware)
	}
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SaveRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.ready(ctx); err != nil {
			slog.Warn("readiness probe failed", "err", err)
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		evaluationHandler := evaluationhandler.NewHandler(a.Service, report.Options{FontPath: cfg.PDFFontPath})
		evaluationHandler.RegisterRoutes(r)

		adminHandler := adminhandler.NewHandler(a.Service, roles)
		adminHandler.RunReminders = func(ctx context.Context) (any, error) {
			return a.Jobs.RunNow(ctx, jobs.JobReminders, func(ctx context.Context) (any, error) {
				return a.Jobs.SendReminders(ctx)
			})
		}
		if a.Metrics != nil {
			adminHandler.Metrics = a.Metrics.Snapshot
		}
		adminHandler.RegisterRoutes(r)
	})

	return router
}

func (a *App) ready(ctx context.Context) error {
	if p, ok := a.Grid.(grid.Pinger); ok {
		return p.Ping(ctx)
	}
	_, _, err := a.Grid.Dimensions(ctx, a.Config.Sheets.Headers)
	return err
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("perfreview server listening", "addr", cfg.Addr, "storage", cfg.StorageDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
