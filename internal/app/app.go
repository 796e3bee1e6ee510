// Package app wires configuration, storage, messaging and the reminder loop
// into a running process.
package app

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/avasilev/taskpulse/internal/adapter/postgres"
	"github.com/avasilev/taskpulse/internal/adapter/postgres/assignment"
	taskrepo "github.com/avasilev/taskpulse/internal/adapter/postgres/task"
	"github.com/avasilev/taskpulse/internal/adapter/slackmsg"
	"github.com/avasilev/taskpulse/internal/config"
	"github.com/avasilev/taskpulse/internal/deadline"
	"github.com/avasilev/taskpulse/internal/llm"
	"github.com/avasilev/taskpulse/internal/reminder"
	tasksvc "github.com/avasilev/taskpulse/internal/service/task"
)

// App holds the wired application components.
type App struct {
	Tasks     *tasksvc.Service
	Reminders *reminder.Scheduler
	Users     *slackmsg.Directory

	log  *slog.Logger
	pool interface{ Close() }
}

// New loads configuration and builds every component. The caller owns the
// returned App and must Close it.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
		pool.Close()
		return nil, err
	}

	extractor := llm.NewClient(cfg.LLM, logger)
	resolver := deadline.NewResolver(logger, extractor, deadline.Options{
		OfficeStartHour: cfg.Deadline.OfficeStartHour,
		EarlyHourFloor:  cfg.Deadline.EarlyHourFloor,
	})

	msg := slackmsg.NewMessenger(cfg.Slack, logger)
	dir, err := slackmsg.NewDirectory(cfg.Slack, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	tasks := taskrepo.New(pool)
	assignments := assignment.New(pool)
	tx := postgres.NewTxManager(pool)

	svc := tasksvc.NewService(logger, tasks, assignments, resolver, msg, dir, tx)

	sched := reminder.New(logger, assignments, msg, reminder.NewSentCache(), reminder.Config{
		Interval:   cfg.Reminder.Interval,
		DailyHour:  cfg.Reminder.DailyHour,
		Tolerance:  cfg.Reminder.Tolerance,
		RetainDays: cfg.Reminder.RetainDays,
	})

	return &App{
		Tasks:     svc,
		Reminders: sched,
		Users:     dir,
		log:       logger,
		pool:      pool,
	}, nil
}

// Close releases held resources.
func (a *App) Close() {
	a.pool.Close()
}

// Run builds the application and drives the reminder loop until ctx is
// cancelled.
func Run(ctx context.Context) error {
	a, err := New(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Reminders.Run(ctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	a.log.Info("shutdown complete")
	return nil
}
