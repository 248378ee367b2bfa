package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sandeepkv93/remindflow/internal/export"
	"github.com/sandeepkv93/remindflow/internal/model"
	"github.com/sandeepkv93/remindflow/internal/notify"
	"github.com/sandeepkv93/remindflow/internal/persist"
	"github.com/sandeepkv93/remindflow/internal/repository"
	"github.com/sandeepkv93/remindflow/internal/settings"
)

var (
	ErrUnknownFormat = errors.New("app: unknown export format")
	ErrNotFound      = errors.New("app: schedule not found")
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatICS  Format = "ics"
	FormatJSON Format = "json"
)

func (f Format) IsValid() bool {
	switch f {
	case FormatCSV, FormatICS, FormatJSON:
		return true
	default:
		return false
	}
}

func ParseFormat(v string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(v)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, v)
	}
	return f, nil
}

// Draft returns a blank schedule carrying the configured creation
// defaults.
func (a *App) Draft() model.Schedule {
	st := a.Settings.Current()
	s := model.NewSchedule()
	s.Category = st.Defaults.Category
	s.Reminder.MinutesBefore = st.Notification.DefaultMinutesBefore
	s.Reminder.Sound = st.Notification.DefaultSound
	return s
}

// AddSchedule validates a user-entered schedule and stores it. An empty
// category takes the configured default. When the schedule recurs and has
// an end date, every generated occurrence is stored with it.
func (a *App) AddSchedule(ctx context.Context, s model.Schedule) ([]model.Schedule, error) {
	if err := model.ValidateNew(s, a.now()); err != nil {
		return nil, err
	}
	if s.Category == "" {
		s.Category = a.Settings.Current().Defaults.Category
	}
	if s.Priority == "" {
		s.Priority = model.DefaultPriority
	}
	if strings.TrimSpace(s.ID) == "" {
		s.ID = repository.NewID()
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s = model.Normalize(s)

	batch := []model.Schedule{s}
	if s.Recurrence.Type != model.RecurrenceNone && s.Recurrence.EndDate != "" {
		more, err := model.GenerateRecurring(s, s.Recurrence.EndDate)
		if err != nil {
			return nil, err
		}
		batch = append(batch, more...)
	}
	return a.Repo.AddMany(ctx, batch)
}

func (a *App) get(id string) (model.Schedule, error) {
	s, ok := a.Repo.Get(id)
	if !ok {
		return model.Schedule{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s, nil
}

func (a *App) UpdateSchedule(ctx context.Context, id string, p repository.Patch) error {
	if _, err := a.get(id); err != nil {
		return err
	}
	return a.Repo.Update(ctx, id, p)
}

func (a *App) CompleteSchedule(ctx context.Context, id string, completed bool) error {
	if _, err := a.get(id); err != nil {
		return err
	}
	return a.Repo.Complete(ctx, id, completed)
}

// RestoreSchedule clears the archived flag. The next sweep archives it
// again if its end has already passed.
func (a *App) RestoreSchedule(ctx context.Context, id string) error {
	if _, err := a.get(id); err != nil {
		return err
	}
	return a.Repo.SetArchived(ctx, id, false)
}

func (a *App) ArchiveSchedule(ctx context.Context, id string) error {
	if _, err := a.get(id); err != nil {
		return err
	}
	return a.Repo.SetArchived(ctx, id, true)
}

func (a *App) DeleteSchedules(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if _, err := a.get(id); err != nil {
			return err
		}
	}
	return a.Repo.DeleteMany(ctx, ids)
}

// Status derives the lifecycle of s at the current instant.
func (a *App) Status(s model.Schedule) model.Lifecycle {
	return model.DeriveStatus(s, a.now())
}

func (a *App) Stats() repository.Stats {
	return a.Repo.Stats(a.now())
}

// SetNotificationsEnabled persists the master switch. Enabling asks for
// permission first when it is not granted yet; a refusal leaves the
// setting untouched and reports false.
func (a *App) SetNotificationsEnabled(ctx context.Context, enabled bool) (bool, error) {
	if enabled && a.Sink.Permission() != notify.PermissionGranted {
		p, err := a.Sink.RequestPermission(ctx)
		if err != nil || p != notify.PermissionGranted {
			return false, err
		}
	}
	_, err := a.Settings.Update(ctx, func(s *settings.Settings) {
		s.Notification.Enabled = enabled
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (a *App) SaveSettings(ctx context.Context, s settings.Settings) error {
	return a.Settings.Save(ctx, s)
}

// NotifySchedule displays the reminder for id right away when
// notifications are enabled and permitted.
func (a *App) NotifySchedule(ctx context.Context, id string) error {
	s, err := a.get(id)
	if err != nil {
		return err
	}
	return a.Scheduler.Fire(ctx, s)
}

func (a *App) CheckNow(ctx context.Context) (int, error) {
	return a.Scheduler.CheckNow(ctx)
}

func (a *App) TestNotification(ctx context.Context) error {
	return a.Scheduler.TestNotification(ctx)
}

// Export writes every schedule in format f.
func (a *App) Export(w io.Writer, f Format) error {
	list := a.Repo.List()
	switch f {
	case FormatCSV:
		return export.CSV(w, list)
	case FormatICS:
		return export.ICS(w, list, a.now())
	case FormatJSON:
		return export.JSON(w, list, a.Settings.Current())
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// ImportResult summarises an import.
type ImportResult struct {
	Added           int
	Skipped         int
	SettingsApplied bool
}

// Import merges a JSON backup into the collection. Schedules whose id is
// missing or already taken get a fresh one. Settings in the document
// replace the current settings wholesale.
func (a *App) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	doc, err := export.ParseImport(r)
	if err != nil {
		return ImportResult{}, err
	}

	taken := make(map[string]struct{})
	for _, s := range a.Repo.List() {
		taken[s.ID] = struct{}{}
	}
	batch := make([]model.Schedule, 0, len(doc.Schedules))
	for _, s := range doc.Schedules {
		if _, dup := taken[s.ID]; dup || strings.TrimSpace(s.ID) == "" {
			s.ID = repository.NewID()
		}
		taken[s.ID] = struct{}{}
		batch = append(batch, s)
	}

	res := ImportResult{Skipped: doc.Skipped}
	added, err := a.Repo.AddMany(ctx, batch)
	if err != nil {
		return res, err
	}
	res.Added = len(added)

	if doc.Settings != nil {
		if err := a.Settings.Save(ctx, *doc.Settings); err != nil {
			return res, err
		}
		res.SettingsApplied = true
	}
	return res, nil
}

func (a *App) Backup(ctx context.Context) (persist.Backup, error) {
	return a.Records.CreateBackup(ctx)
}

func (a *App) Usage(ctx context.Context) persist.Usage {
	return a.Records.Usage(ctx)
}
