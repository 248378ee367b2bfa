package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/remindflow/internal/app"
	"github.com/sandeepkv93/remindflow/internal/model"
)

type harness struct {
	t   *testing.T
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("REMINDFLOW_DATA_DIR", dir)
	t.Setenv("REMINDFLOW_TIMEZONE", "UTC")
	t.Setenv("REMINDFLOW_DESKTOP_NOTIFICATIONS", "false")
	t.Setenv("REMINDFLOW_LOG_LEVEL", "error")
	return &harness{t: t, dir: dir}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", filepath.Join(h.dir, "config.yaml")}, args...))
	err := root.ExecuteContext(testContext(h.t))
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func tomorrow() string {
	return time.Now().UTC().AddDate(0, 0, 1).Format(model.DateLayout)
}

func addedID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "added" {
		t.Fatalf("unexpected add output: %q", out)
	}
	return fields[1]
}

func TestAddListAndComplete(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("add", "--date", tomorrow(), "--time", "09:00", "--priority", "high", "pay", "rent")
	id := addedID(t, out)
	if !strings.HasPrefix(id, "schedule_") {
		t.Fatalf("unexpected id %q", id)
	}

	out = h.mustRun("list")
	if !strings.Contains(out, "pay rent") || !strings.Contains(out, "not_started") {
		t.Fatalf("unexpected list output:\n%s", out)
	}

	h.mustRun("done", id)
	out = h.mustRun("list", "--priority", "high")
	if !strings.Contains(out, "completed") {
		t.Fatalf("expected completed status:\n%s", out)
	}

	out = h.mustRun("list", "--priority", "low")
	if !strings.Contains(out, "no schedules") {
		t.Fatalf("expected empty filtered list:\n%s", out)
	}
}

func TestAddRejectsPastSchedule(t *testing.T) {
	h := newHarness(t)
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(model.DateLayout)
	_, err := h.run("add", "--date", yesterday, "--time", "09:00", "late")
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddRecurringCreatesOccurrences(t *testing.T) {
	h := newHarness(t)
	start := time.Now().UTC().AddDate(0, 0, 1)
	until := start.AddDate(0, 0, 2).Format(model.DateLayout)
	out := h.mustRun("add", "--date", start.Format(model.DateLayout), "--time", "07:30", "--repeat", "daily", "--until", until, "run")
	if n := strings.Count(out, "added "); n != 3 {
		t.Fatalf("expected 3 schedules, got %d:\n%s", n, out)
	}
}

func TestSearchAndDelete(t *testing.T) {
	h := newHarness(t)
	id := addedID(t, h.mustRun("add", "--date", tomorrow(), "--time", "10:00", "--description", "bring the X-ray", "dentist"))
	h.mustRun("add", "--date", tomorrow(), "--time", "11:00", "lunch")

	out := h.mustRun("search", "x-RAY")
	if !strings.Contains(out, "dentist") || strings.Contains(out, "lunch") {
		t.Fatalf("unexpected search output:\n%s", out)
	}

	h.mustRun("delete", id)
	if out := h.mustRun("search", "dentist"); !strings.Contains(out, "no schedules") {
		t.Fatalf("expected deleted schedule gone:\n%s", out)
	}
	if _, err := h.run("delete", id); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "--date", tomorrow(), "--time", "15:00", "--category", "work", "review")
	h.mustRun("settings", "set", "notification.defaultMinutesBefore", "30")

	out := h.mustRun("export", "--format", "csv")
	if !strings.HasPrefix(out, `"件名","日付"`) || !strings.Contains(out, `"review"`) {
		t.Fatalf("unexpected csv:\n%s", out)
	}
	out = h.mustRun("export", "--format", "ics")
	if !strings.Contains(out, "BEGIN:VEVENT") || !strings.Contains(out, "SUMMARY:review") {
		t.Fatalf("unexpected ics:\n%s", out)
	}

	backup := filepath.Join(h.dir, "backup.json")
	h.mustRun("export", "--format", "json", "-o", backup)

	other := newHarness(t)
	out = other.mustRun("import", backup)
	if !strings.Contains(out, "imported 1 schedule(s), skipped 0, settings replaced") {
		t.Fatalf("unexpected import output: %q", out)
	}
	if out := other.mustRun("settings", "show"); !strings.Contains(out, "notification.defaultMinutesBefore = 30") {
		t.Fatalf("expected imported settings:\n%s", out)
	}
	if out := other.mustRun("list"); !strings.Contains(out, "review") {
		t.Fatalf("expected imported schedule:\n%s", out)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run("export", "--format", "xml"); !errors.Is(err, app.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestNotifyTestRecordsHistory(t *testing.T) {
	h := newHarness(t)
	h.mustRun("notify", "test")

	out := h.mustRun("history")
	if !strings.Contains(out, "1 entries, 1 unread") || !strings.Contains(out, "テスト通知") {
		t.Fatalf("unexpected history:\n%s", out)
	}
	h.mustRun("history", "--mark-read")
	if out := h.mustRun("history"); !strings.Contains(out, "1 entries, 0 unread") {
		t.Fatalf("expected read history:\n%s", out)
	}
	h.mustRun("history", "--clear")
	if out := h.mustRun("history"); !strings.Contains(out, "0 entries") {
		t.Fatalf("expected cleared history:\n%s", out)
	}
}

func TestNotificationsOffBlocksTest(t *testing.T) {
	h := newHarness(t)
	h.mustRun("notify", "off")
	if _, err := h.run("notify", "test"); err == nil {
		t.Fatal("expected test notification to fail while notifications are off")
	}
	h.mustRun("notify", "on")
	h.mustRun("notify", "test")
}

func TestSettingsSetRejectsUnknownKey(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run("settings", "set", "display.bogus", "1"); err == nil {
		t.Fatal("expected error for unknown key")
	}
	h.mustRun("settings", "set", "display.theme", "dark")
	if out := h.mustRun("settings", "show"); !strings.Contains(out, "display.theme = dark") {
		t.Fatalf("expected dark theme:\n%s", out)
	}
}

func TestUsageAndBackup(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "--date", tomorrow(), "--time", "08:00", "walk")
	if out := h.mustRun("usage"); !strings.Contains(out, "of 5242880 bytes") {
		t.Fatalf("unexpected usage: %q", out)
	}
	if out := h.mustRun("backup"); !strings.Contains(out, `"schedules"`) {
		t.Fatalf("unexpected backup output:\n%s", out)
	}
}

func TestConfigFileCreatedOnFirstRun(t *testing.T) {
	h := newHarness(t)
	h.mustRun("list")
	if _, err := os.Stat(filepath.Join(h.dir, "config.yaml")); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(h.dir, "remindflow.db")); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}
