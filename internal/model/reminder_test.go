package model

import (
	"errors"
	"testing"
	"time"
)

func TestCalculateReminderTime(t *testing.T) {
	s := NewSchedule()
	s.Date = "2024-06-01"
	s.Time = "09:00"
	s.Reminder.MinutesBefore = 15

	at, err := CalculateReminderTime(s, time.Local)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	want := time.Date(2024, 6, 1, 8, 45, 0, 0, time.Local)
	if !at.Equal(want) {
		t.Fatalf("expected %s, got %s", want, at)
	}
}

func TestCalculateReminderTimeCrossesMidnight(t *testing.T) {
	s := NewSchedule()
	s.Date = "2024-06-01"
	s.Time = "00:10"
	s.Reminder.MinutesBefore = 30

	at, err := CalculateReminderTime(s, time.UTC)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if at.Format("2006-01-02 15:04") != "2024-05-31 23:40" {
		t.Fatalf("unexpected reminder time %s", at)
	}
}

func TestCalculateReminderTimeInvalidClock(t *testing.T) {
	s := NewSchedule()
	s.Date = "2024-06-01"
	s.Time = "25:00"
	if _, err := CalculateReminderTime(s, time.UTC); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
}

func TestReminderValidateLeadTime(t *testing.T) {
	if err := (Reminder{MinutesBefore: -1}).Validate(); !errors.Is(err, ErrInvalidLeadTime) {
		t.Fatalf("expected ErrInvalidLeadTime, got %v", err)
	}
	if got := (Reminder{}).SoundOr("bell"); got != "bell" {
		t.Fatalf("expected fallback sound, got %q", got)
	}
}

func TestReminderWindowReturnsStart(t *testing.T) {
	s := NewSchedule()
	s.Date = "2024-06-01"
	s.Time = "09:00"
	s.Reminder.MinutesBefore = 15

	at, start, err := ReminderWindow(s, time.UTC)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if !start.Equal(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %s", start)
	}
	if start.Sub(at) != 15*time.Minute {
		t.Fatalf("expected 15m lead, got %s", start.Sub(at))
	}

	s.Date = "2024-13-01"
	if _, _, err := ReminderWindow(s, time.UTC); err == nil {
		t.Fatal("expected error for bad date")
	}
}
