package persist

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/remindflow/internal/history"
	"github.com/sandeepkv93/remindflow/internal/model"
	"github.com/sandeepkv93/remindflow/internal/settings"
	"github.com/sandeepkv93/remindflow/internal/storage"
)

func sampleSchedules() []model.Schedule {
	a := model.NewSchedule()
	a.ID = "schedule_a"
	a.Title = "会議"
	a.Description = "四半期レビュー"
	a.Date = "2026-02-09"
	a.Time = "10:00"
	a.EndTime = "11:30"
	a.Category = model.CategoryWork
	a.Priority = model.PriorityHigh

	b := model.NewSchedule()
	b.ID = "schedule_b"
	b.Title = "Dinner"
	b.Date = "2026-02-10"
	b.Time = "19:00"
	b.Archived = true
	b.Recurrence = model.Recurrence{Type: model.RecurrenceWeekly, EndDate: "2026-03-01"}
	return []model.Schedule{a, b}
}

func TestSchedulesRoundTrip(t *testing.T) {
	for name, list := range map[string][]model.Schedule{
		"populated": sampleSchedules(),
		"empty":     {},
	} {
		t.Run(name, func(t *testing.T) {
			records := New(storage.NewMemoryStore())
			if err := records.SaveSchedules(testContext(t), list); err != nil {
				t.Fatalf("save: %v", err)
			}
			got := records.LoadSchedules(testContext(t))
			if !reflect.DeepEqual(got, list) {
				t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", list, got)
			}
		})
	}
}

func TestSchedulesAreObfuscated(t *testing.T) {
	store := storage.NewMemoryStore()
	records := New(store)
	if err := records.SaveSchedules(testContext(t), sampleSchedules()); err != nil {
		t.Fatalf("save: %v", err)
	}
	rec, err := store.Get(testContext(t), KeySchedules)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.Contains(rec.Value, "schedule_a") {
		t.Fatalf("expected obfuscated value, got %q", rec.Value)
	}
	plain, err := Deobfuscate(rec.Value)
	if err != nil || !strings.Contains(string(plain), `"id":"schedule_a"`) {
		t.Fatalf("expected decodable json, got %q (%v)", plain, err)
	}
}

func TestSaveNilSchedulesWritesEmptyList(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := New(store).SaveSchedules(testContext(t), nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	rec, _ := store.Get(testContext(t), KeySchedules)
	if plain, _ := Deobfuscate(rec.Value); string(plain) != "[]" {
		t.Fatalf("expected [], got %q", plain)
	}
}

func TestCorruptRecordsFailSoft(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := testContext(t)
	_ = store.Set(ctx, KeySchedules, "%%%not-base64")
	_ = store.Set(ctx, KeySettings, "{broken")
	_ = store.Set(ctx, KeyHistory, "[{")
	records := New(store)

	if got := records.LoadSchedules(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty schedules, got %#v", got)
	}
	if got := records.LoadSettings(ctx); got != settings.Default() {
		t.Fatalf("expected default settings, got %+v", got)
	}
	if got := records.LoadHistory(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty history, got %#v", got)
	}

	_ = store.Set(ctx, KeySchedules, Obfuscate([]byte("null")))
	if got := records.LoadSchedules(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty schedules for null, got %#v", got)
	}
}

type failingStore struct{ storage.Store }

func (failingStore) Get(context.Context, string) (storage.Record, error) {
	return storage.Record{}, errors.New("disk gone")
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk gone")
}

func TestUnavailableStoreFailsSoftOnLoad(t *testing.T) {
	records := New(failingStore{Store: storage.NewMemoryStore()})
	if got := records.LoadSchedules(testContext(t)); len(got) != 0 {
		t.Fatalf("expected empty schedules, got %v", got)
	}
	if err := records.SaveSchedules(testContext(t), sampleSchedules()); err == nil {
		t.Fatal("expected save error to be reported")
	}
}

func TestSettingsAndHistoryRoundTrip(t *testing.T) {
	records := New(storage.NewMemoryStore())
	ctx := testContext(t)

	s := settings.Default()
	s.Notification.Enabled = false
	if err := records.SaveSettings(ctx, s); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if got := records.LoadSettings(ctx); got != s {
		t.Fatalf("settings mismatch: %+v", got)
	}

	entries := []history.Entry{{ID: "nh_1", Title: "t", Body: "b", CreatedAt: time.Date(2026, 2, 9, 8, 45, 0, 0, time.UTC)}}
	if err := records.SaveHistory(ctx, entries); err != nil {
		t.Fatalf("save history: %v", err)
	}
	if got := records.LoadHistory(ctx); !reflect.DeepEqual(got, entries) {
		t.Fatalf("history mismatch: %+v", got)
	}
}

func TestCreateBackupAndUsage(t *testing.T) {
	store := storage.NewMemoryStore()
	records := New(store)
	records.now = func() time.Time { return time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC) }
	ctx := testContext(t)
	if err := records.SaveSchedules(ctx, sampleSchedules()); err != nil {
		t.Fatalf("save: %v", err)
	}

	b, err := records.CreateBackup(ctx)
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if len(b.Schedules) != 2 || !b.Timestamp.Equal(records.now()) {
		t.Fatalf("unexpected backup: %+v", b)
	}
	if _, err := store.Get(ctx, KeyBackup); err != nil {
		t.Fatalf("expected backup record: %v", err)
	}

	usage := records.Usage(ctx)
	if usage.Used <= 0 || usage.Total != QuotaBytes {
		t.Fatalf("unexpected usage: %+v", usage)
	}
}
