// Package persist maps the logical records (schedules, settings,
// notification history, backup) onto a key/value store. Loads never fail:
// missing or corrupt records come back as the empty list or the defaults.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/remindflow/internal/history"
	"github.com/sandeepkv93/remindflow/internal/log"
	"github.com/sandeepkv93/remindflow/internal/model"
	"github.com/sandeepkv93/remindflow/internal/settings"
	"github.com/sandeepkv93/remindflow/internal/storage"
)

const (
	KeySchedules = "remindflow_schedules"
	KeySettings  = "remindflow_settings"
	KeyHistory   = "remindflow_notification_history"
	KeyBackup    = "remindflow_backup"

	// QuotaBytes is the nominal capacity reported by Usage.
	QuotaBytes = 5 * 1024 * 1024
)

type Records struct {
	store storage.Store
	now   func() time.Time
}

func New(store storage.Store) *Records {
	return &Records{store: store, now: time.Now}
}

func (r *Records) LoadSchedules(ctx context.Context) []model.Schedule {
	rec, ok := r.get(ctx, KeySchedules)
	if !ok || rec == "" {
		return []model.Schedule{}
	}
	plain, err := Deobfuscate(rec)
	if err != nil {
		log.Error("load schedules failed", err, "key", KeySchedules)
		return []model.Schedule{}
	}
	var out []model.Schedule
	if err := json.Unmarshal(plain, &out); err != nil {
		log.Error("decode schedules failed", err, "key", KeySchedules)
		return []model.Schedule{}
	}
	if out == nil {
		return []model.Schedule{}
	}
	return out
}

func (r *Records) SaveSchedules(ctx context.Context, list []model.Schedule) error {
	if list == nil {
		list = []model.Schedule{}
	}
	plain, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("persist: encode schedules: %w", err)
	}
	return r.set(ctx, KeySchedules, Obfuscate(plain))
}

func (r *Records) LoadSettings(ctx context.Context) settings.Settings {
	rec, ok := r.get(ctx, KeySettings)
	if !ok {
		return settings.Default()
	}
	out, err := settings.Merge([]byte(rec))
	if err != nil {
		log.Error("load settings failed", err, "key", KeySettings)
	}
	return out
}

func (r *Records) SaveSettings(ctx context.Context, s settings.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("persist: encode settings: %w", err)
	}
	return r.set(ctx, KeySettings, string(raw))
}

func (r *Records) LoadHistory(ctx context.Context) []history.Entry {
	rec, ok := r.get(ctx, KeyHistory)
	if !ok || rec == "" {
		return []history.Entry{}
	}
	var out []history.Entry
	if err := json.Unmarshal([]byte(rec), &out); err != nil {
		log.Error("load notification history failed", err, "key", KeyHistory)
		return []history.Entry{}
	}
	if out == nil {
		return []history.Entry{}
	}
	return out
}

func (r *Records) SaveHistory(ctx context.Context, entries []history.Entry) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("persist: encode history: %w", err)
	}
	return r.set(ctx, KeyHistory, string(raw))
}

// Backup is the snapshot written by CreateBackup.
type Backup struct {
	Schedules []model.Schedule  `json:"schedules"`
	Settings  settings.Settings `json:"settings"`
	Timestamp time.Time         `json:"timestamp"`
}

// CreateBackup stores a plain snapshot of the current schedules and
// settings under KeyBackup.
func (r *Records) CreateBackup(ctx context.Context) (Backup, error) {
	b := Backup{
		Schedules: r.LoadSchedules(ctx),
		Settings:  r.LoadSettings(ctx),
		Timestamp: r.now().UTC(),
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return Backup{}, fmt.Errorf("persist: encode backup: %w", err)
	}
	if err := r.set(ctx, KeyBackup, string(raw)); err != nil {
		return Backup{}, err
	}
	return b, nil
}

type Usage struct {
	Used  int
	Total int
}

// Usage sums key and value lengths over every stored record.
func (r *Records) Usage(ctx context.Context) Usage {
	out := Usage{Total: QuotaBytes}
	records, err := r.store.List(ctx)
	if err != nil {
		log.Error("storage usage failed", err)
		return out
	}
	for _, rec := range records {
		out.Used += len(rec.Key) + len(rec.Value)
	}
	return out
}

func (r *Records) get(ctx context.Context, key string) (string, bool) {
	rec, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Error("read record failed", err, "key", key)
		}
		return "", false
	}
	return rec.Value, true
}

func (r *Records) set(ctx context.Context, key, value string) error {
	if err := r.store.Set(ctx, key, value); err != nil {
		log.Error("write record failed", err, "key", key)
		return fmt.Errorf("persist: write %s: %w", key, err)
	}
	return nil
}
