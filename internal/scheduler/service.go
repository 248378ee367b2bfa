package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sandeepkv93/remindflow/internal/history"
	"github.com/sandeepkv93/remindflow/internal/log"
	"github.com/sandeepkv93/remindflow/internal/model"
	"github.com/sandeepkv93/remindflow/internal/notify"
	"github.com/sandeepkv93/remindflow/internal/settings"
)

const (
	DefaultPollInterval = time.Minute
	DefaultArmWindow    = 5 * time.Minute

	TestScheduleID = "test"
)

var ErrNotificationsOff = errors.New("scheduler: notifications disabled or not permitted")

type ScheduleSource interface {
	List() []model.Schedule
	Get(id string) (model.Schedule, bool)
}

type SettingsSource interface {
	Current() settings.Settings
}

type HistoryWriter interface {
	Append(ctx context.Context, e history.Entry) (history.Entry, error)
}

type Options struct {
	PollInterval time.Duration
	ArmWindow    time.Duration
	Location     *time.Location
	Now          func() time.Time
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.ArmWindow <= 0 {
		o.ArmWindow = DefaultArmWindow
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Service polls the schedule set while notifications are enabled and
// permitted, arms a one-shot alarm for each of today's reminders that falls
// inside the arm window, and delivers fired alarms to the sink and history.
type Service struct {
	mu        sync.Mutex
	engine    *Engine
	cron      *cron.Cron
	schedules ScheduleSource
	settings  SettingsSource
	sink      notify.Sink
	history   HistoryWriter
	opts      Options

	checkMu sync.Mutex
	// restartMu serializes Restart and Stop so at most one poll entry
	// exists at a time.
	restartMu sync.Mutex
	entry     cron.EntryID
	polling   bool
	// armed holds every alarm key handed to the engine until the
	// schedule's start passes, so a reminder is armed at most once.
	armed map[string]time.Time
	done  chan struct{}
}

func NewService(engine *Engine, c *cron.Cron, schedules ScheduleSource, st SettingsSource, sink notify.Sink, h HistoryWriter, opts Options) *Service {
	return &Service{
		engine:    engine,
		cron:      c,
		schedules: schedules,
		settings:  st,
		sink:      sink,
		history:   h,
		opts:      opts.withDefaults(),
		armed:     make(map[string]time.Time),
	}
}

// Start launches the engine and the delivery loop. Delivery stops when
// Close is called.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return
	}
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.engine.Start()
	go func() {
		defer close(s.done)
		for a := range s.engine.C() {
			s.deliver(ctx, a)
		}
	}()
}

// Close stops polling and the engine, and waits for the delivery loop.
func (s *Service) Close() {
	s.Stop()
	s.engine.Stop()
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Active reports whether notifications are enabled and permitted.
func (s *Service) Active() bool {
	return s.settings.Current().Notification.Enabled && s.sink.Permission() == notify.PermissionGranted
}

// Restart cancels the poll entry if armed, then re-arms it and runs an
// immediate check when the service is active. It reports whether polling
// is running afterwards.
func (s *Service) Restart() bool {
	s.restartMu.Lock()
	defer s.restartMu.Unlock()
	s.stop()
	if !s.Active() {
		return false
	}
	s.mu.Lock()
	s.entry = s.cron.Schedule(cron.Every(s.opts.PollInterval), cron.FuncJob(func() { s.Check() }))
	s.polling = true
	s.mu.Unlock()
	s.Check()
	return true
}

// Stop removes the poll entry and cancels every pending alarm.
func (s *Service) Stop() {
	s.restartMu.Lock()
	defer s.restartMu.Unlock()
	s.stop()
}

func (s *Service) stop() {
	s.mu.Lock()
	if s.polling {
		s.cron.Remove(s.entry)
		s.polling = false
	}
	s.mu.Unlock()
	s.forget(s.engine.CancelWhere(func(Alarm) bool { return true }))
}

func (s *Service) Polling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polling
}

// Check is one poll tick. It returns the number of newly armed alarms.
func (s *Service) Check() int {
	if !s.Active() {
		return 0
	}
	s.checkMu.Lock()
	defer s.checkMu.Unlock()
	now := s.opts.Now().In(s.opts.Location)
	s.pruneArmed(now)

	desired := make(map[string]Alarm)
	for _, sched := range s.todaysReminders(now) {
		at, start, err := model.ReminderWindow(sched, s.opts.Location)
		if err != nil {
			log.Debug("skip reminder with bad date", "schedule_id", sched.ID, "err", err)
			continue
		}
		diff := at.Sub(now)
		if diff <= 0 || diff > s.opts.ArmWindow {
			continue
		}
		key := AlarmKey(sched.ID, at)
		desired[key] = Alarm{Key: key, ScheduleID: sched.ID, FireAt: at, StartAt: start}
	}

	stale := s.engine.CancelWhere(func(a Alarm) bool {
		_, keep := desired[a.Key]
		return !keep && a.FireAt.After(now)
	})
	if len(stale) > 0 {
		s.forget(stale)
		log.Debug("cancelled stale reminders", "count", len(stale))
	}

	armed := 0
	for key, a := range desired {
		if s.isArmed(key) {
			continue
		}
		ok, err := s.engine.Arm(a)
		if err != nil {
			log.Error("arm reminder failed", err, "schedule_id", a.ScheduleID)
			continue
		}
		s.remember(a)
		if ok {
			armed++
			log.Debug("reminder armed", "schedule_id", a.ScheduleID, "fire_at", a.FireAt)
		}
	}
	return armed
}

// CheckNow fires, without waiting, the reminder of every schedule today
// that has not started yet.
func (s *Service) CheckNow(ctx context.Context) (int, error) {
	if !s.Active() {
		return 0, ErrNotificationsOff
	}
	now := s.opts.Now().In(s.opts.Location)
	var errs []error
	n := 0
	for _, sched := range s.todaysReminders(now) {
		start, err := model.Combine(sched.Date, sched.Time, s.opts.Location)
		if err != nil || !start.After(now) {
			continue
		}
		if err := s.Fire(ctx, sched); err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

// TestNotification fires a synthetic reminder dated now.
func (s *Service) TestNotification(ctx context.Context) error {
	now := s.opts.Now().In(s.opts.Location)
	return s.Fire(ctx, model.Schedule{
		ID:          TestScheduleID,
		Title:       "テスト通知",
		Description: "これはテスト通知です",
		Date:        now.Format(model.DateLayout),
		Time:        now.Format(model.TimeLayout),
		Reminder:    model.Reminder{Enabled: true},
	})
}

// Fire displays the reminder for sched and records it in the history.
func (s *Service) Fire(ctx context.Context, sched model.Schedule) error {
	if !s.Active() {
		return ErrNotificationsOff
	}
	st := s.settings.Current().Notification
	n := notify.Notification{
		Tag:    sched.ID,
		Title:  ReminderTitle(sched),
		Body:   ReminderBody(sched),
		Sound:  sched.Reminder.SoundOr(st.DefaultSound),
		Expire: time.Duration(st.DisplayDuration) * time.Second,
	}
	if err := s.sink.Display(ctx, n); err != nil {
		return fmt.Errorf("scheduler: display %s: %w", sched.ID, err)
	}
	if _, err := s.history.Append(ctx, history.Entry{
		ScheduleID: sched.ID,
		Title:      n.Title,
		Body:       n.Body,
	}); err != nil {
		log.Error("record notification failed", err, "schedule_id", sched.ID)
	}
	log.Info("reminder delivered", "schedule_id", sched.ID, "sound", n.Sound)
	return nil
}

func ReminderTitle(s model.Schedule) string {
	return "リマインダー: " + s.Title
}

func ReminderBody(s model.Schedule) string {
	if s.Description != "" {
		return s.Description
	}
	return fmt.Sprintf("%s %sの予定です", s.Date, s.Time)
}

// deliver re-validates a fired alarm against the current schedule before
// showing it. Deleted, disabled, archived or rescheduled entries are
// dropped.
func (s *Service) deliver(ctx context.Context, a Alarm) {
	sched, ok := s.schedules.Get(a.ScheduleID)
	if !ok || !sched.Reminder.Enabled || sched.Archived {
		log.Debug("drop stale reminder", "schedule_id", a.ScheduleID)
		return
	}
	at, err := model.CalculateReminderTime(sched, s.opts.Location)
	if err != nil || !at.Equal(a.FireAt) {
		log.Debug("drop rescheduled reminder", "schedule_id", a.ScheduleID)
		return
	}
	if err := s.Fire(ctx, sched); err != nil {
		log.Error("deliver reminder failed", err, "schedule_id", a.ScheduleID)
	}
}

func (s *Service) todaysReminders(now time.Time) []model.Schedule {
	today := now.Format(model.DateLayout)
	out := make([]model.Schedule, 0)
	for _, sched := range s.schedules.List() {
		if sched.Date == today && sched.Reminder.Enabled && !sched.Archived {
			out = append(out, sched)
		}
	}
	return out
}

func (s *Service) remember(a Alarm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed[a.Key] = a.StartAt
}

func (s *Service) forget(alarms []Alarm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range alarms {
		delete(s.armed, a.Key)
	}
}

func (s *Service) isArmed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.armed[key]
	return ok
}

func (s *Service) pruneArmed(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, start := range s.armed {
		if !start.After(now) {
			delete(s.armed, key)
		}
	}
}
