package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/remindflow/internal/model"
	"github.com/sandeepkv93/remindflow/internal/settings"
)

func sample() []model.Schedule {
	a := model.NewSchedule()
	a.ID = "schedule_a"
	a.Title = `Review "Q1" plan`
	a.Description = "slides"
	a.Date = "2026-02-09"
	a.Time = "10:00"
	a.Category = model.CategoryWork
	a.Priority = model.PriorityHigh

	b := model.NewSchedule()
	b.ID = "schedule_b"
	b.Title = "Dinner"
	b.Date = "2026-02-10"
	b.Time = "19:00"
	b.EndTime = "21:30"
	b.Status = ""
	return []model.Schedule{a, b}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := CSV(&buf, sample()); err != nil {
		t.Fatalf("csv: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(lines))
	}
	if lines[0] != `"件名","日付","開始時間","終了時間","カテゴリ","優先度","ステータス","詳細"` {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[1] != `"Review ""Q1"" plan","2026-02-09","10:00","","work","high","pending","slides"` {
		t.Fatalf("unexpected row: %s", lines[1])
	}
	if !strings.HasSuffix(lines[2], `"personal","medium","pending",""`) {
		t.Fatalf("expected defaulted status, got %s", lines[2])
	}
}

func TestICS(t *testing.T) {
	list := sample()
	allDay := model.NewSchedule()
	allDay.ID = "schedule_c"
	allDay.Title = "Holiday"
	allDay.Date = "2026-02-11"
	list = append(list, allDay)

	var buf bytes.Buffer
	stamp := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if err := ICS(&buf, list, stamp); err != nil {
		t.Fatalf("ics: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"UID:schedule_a@remindflow",
		"DTSTART:20260209T100000",
		"DTEND:20260209T110000",
		"DTEND:20260210T213000",
		"DESCRIPTION:slides",
		"CATEGORIES:work",
		"SUMMARY:Dinner",
		"DTSTART;VALUE=DATE:20260211",
		"DTEND;VALUE=DATE:20260212",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 3 {
		t.Fatalf("expected 3 events, got %d", got)
	}
	if strings.Count(out, "DESCRIPTION") != 1 {
		t.Fatal("description must only be written when present")
	}
}

func TestJSONRoundTripsThroughImport(t *testing.T) {
	st := settings.Default()
	st.Display.Theme = settings.ThemeDark

	var buf bytes.Buffer
	if err := JSON(&buf, sample(), st); err != nil {
		t.Fatalf("json: %v", err)
	}
	got, err := ParseImport(&buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if got.Settings == nil || *got.Settings != st {
		t.Fatalf("settings mismatch: %+v", got.Settings)
	}
	want := sample()
	want[1].Status = model.StatusPending
	if len(got.Schedules) != 2 || got.Schedules[0] != want[0] || got.Schedules[1] != want[1] {
		t.Fatalf("schedules mismatch:\nwant %+v\ngot  %+v", want, got.Schedules)
	}
}

func TestParseImportMinimalSchedule(t *testing.T) {
	got, err := ParseImport(strings.NewReader(`{"schedules":[{"title":"X","date":"2024-01-01","time":"10:00"}]}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if got.Settings != nil {
		t.Fatal("expected no settings")
	}
	if len(got.Schedules) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(got.Schedules))
	}
	s := got.Schedules[0]
	if s.Category != model.CategoryPersonal || s.Priority != model.PriorityMedium {
		t.Fatalf("expected default category and priority, got %+v", s)
	}
	if !s.Reminder.Enabled || s.Reminder.MinutesBefore != 15 || s.Recurrence.Type != model.RecurrenceNone {
		t.Fatalf("expected default reminder and recurrence, got %+v", s)
	}
	if s.ID != "" {
		t.Fatalf("id assignment belongs to the repository, got %q", s.ID)
	}
}

func TestParseImportPartialSubfields(t *testing.T) {
	doc := `{"schedules":[
		{"title":"A","date":"2024-01-01","time":"10:00","reminder":{"enabled":false}},
		{"title":"","date":"2024-01-01","time":"10:00"},
		{"title":"C","date":"01/02/2024","time":"10:00"},
		"garbage"
	],"settings":{"notification":{"enabled":false}}}`
	got, err := ParseImport(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(got.Schedules) != 1 || got.Skipped != 3 {
		t.Fatalf("expected 1 imported and 3 skipped, got %d/%d", len(got.Schedules), got.Skipped)
	}
	r := got.Schedules[0].Reminder
	if r.Enabled || r.MinutesBefore != 15 || r.Sound != "chime" {
		t.Fatalf("expected merged reminder, got %+v", r)
	}
	if got.Settings.Notification.Enabled || got.Settings.Notification.DisplayDuration != 10 {
		t.Fatalf("expected merged settings, got %+v", got.Settings.Notification)
	}
}

func TestParseImportRejectsMalformed(t *testing.T) {
	if _, err := ParseImport(strings.NewReader(`{"schedules": [`)); !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("expected ErrInvalidImport, got %v", err)
	}
}
