// Package app wires the repository, settings, history, scheduler and
// notification sink together and exposes the operations the presentation
// layers call.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sandeepkv93/remindflow/internal/config"
	"github.com/sandeepkv93/remindflow/internal/history"
	"github.com/sandeepkv93/remindflow/internal/log"
	"github.com/sandeepkv93/remindflow/internal/model"
	"github.com/sandeepkv93/remindflow/internal/notify"
	"github.com/sandeepkv93/remindflow/internal/persist"
	"github.com/sandeepkv93/remindflow/internal/repository"
	"github.com/sandeepkv93/remindflow/internal/scheduler"
	"github.com/sandeepkv93/remindflow/internal/settings"
	"github.com/sandeepkv93/remindflow/internal/storage"
)

type Options struct {
	Store         storage.Store
	Sink          notify.Sink
	Location      *time.Location
	Now           func() time.Time
	PollInterval  time.Duration
	SweepInterval time.Duration
	ArmWindow     time.Duration
	EngineBuffer  int
}

type App struct {
	Repo      *repository.Repository
	Settings  *settings.State
	History   *history.Log
	Records   *persist.Records
	Sink      notify.Sink
	Scheduler *scheduler.Service
	Sweeper   *repository.Sweeper

	cron    *cron.Cron
	loc     *time.Location
	now     func() time.Time
	mu      sync.Mutex
	started bool
	closers []func() error
}

// New loads every record from opts.Store. Nothing runs in the background
// until Start.
func New(ctx context.Context, opts Options) *App {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sink == nil {
		opts.Sink = notify.Noop{}
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	loc := opts.Location
	now := func() time.Time { return opts.Now().In(loc) }

	records := persist.New(opts.Store)
	a := &App{
		Records:  records,
		Repo:     repository.Load(ctx, records, now()),
		Settings: settings.NewState(ctx, records),
		History:  history.NewLog(ctx, records),
		Sink:     opts.Sink,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(log.CronLogger{}),
			cron.WithChain(cron.Recover(log.CronLogger{}), cron.SkipIfStillRunning(log.CronLogger{})),
		),
		loc: loc,
		now: now,
	}
	a.Sweeper = repository.NewSweeper(a.Repo, a.cron, opts.SweepInterval, now)
	a.Scheduler = scheduler.NewService(
		scheduler.NewEngine(opts.EngineBuffer),
		a.cron, a.Repo, a.Settings, a.Sink, a.History,
		scheduler.Options{
			PollInterval: opts.PollInterval,
			ArmWindow:    opts.ArmWindow,
			Location:     loc,
			Now:          now,
		},
	)
	return a
}

// Open builds an App from the runtime configuration.
func Open(ctx context.Context, cfg config.RuntimeConfig, sink notify.Sink) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	a := New(ctx, Options{
		Store:         store,
		Sink:          sink,
		Location:      loc,
		PollInterval:  cfg.PollInterval,
		SweepInterval: cfg.SweepInterval,
		ArmWindow:     cfg.ArmWindow,
		EngineBuffer:  cfg.EngineBuffer,
	})
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}
	return a, nil
}

func openStore(cfg config.RuntimeConfig) (storage.Store, func() error, error) {
	path := cfg.DatabasePath()
	if path == config.MemoryDatabase {
		return storage.NewMemoryStore(), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("app: create data dir: %w", err)
	}
	store, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

// Start prompts for notification permission once when it is still
// undecided, then runs the archival sweeper and the reminder scheduler.
// Schedule and settings changes restart the scheduler from then on.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return
	}
	a.started = true
	a.mu.Unlock()

	if a.Sink.Permission() == notify.PermissionDefault {
		if p, err := a.Sink.RequestPermission(ctx); err != nil {
			log.Error("notification permission request failed", err)
		} else {
			log.Info("notification permission", "state", p)
		}
	}

	a.Repo.Subscribe(func([]model.Schedule) { a.restartScheduler() })
	a.Settings.Subscribe(func(settings.Settings) { a.restartScheduler() })

	a.cron.Start()
	a.Sweeper.Start()
	a.Scheduler.Start(ctx)
	a.restartScheduler()
}

func (a *App) restartScheduler() {
	if a.Scheduler.Restart() {
		log.Debug("reminder scheduler running")
		return
	}
	log.Debug("reminder scheduler stopped")
}

// Close stops every background job and releases the store.
func (a *App) Close() error {
	a.mu.Lock()
	started := a.started
	a.started = false
	a.mu.Unlock()

	if started {
		a.Sweeper.Stop()
		a.Scheduler.Close()
		<-a.cron.Stop().Done()
	}
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *App) Now() time.Time { return a.now() }

func (a *App) Location() *time.Location { return a.loc }

func (a *App) Permission() notify.Permission { return a.Sink.Permission() }

// RequestPermission asks the sink and restarts the scheduler so a grant
// takes effect at once.
func (a *App) RequestPermission(ctx context.Context) (notify.Permission, error) {
	p, err := a.Sink.RequestPermission(ctx)
	a.mu.Lock()
	started := a.started
	a.mu.Unlock()
	if started {
		a.restartScheduler()
	}
	return p, err
}
