package model

import (
	"errors"
	"testing"
)

func TestScheduleValidate(t *testing.T) {
	s := timedSchedule("2026-02-09", "10:00")
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid schedule, got %v", err)
	}

	bad := s
	bad.Category = Category("hobby")
	if err := bad.Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}

	bad = s
	bad.Priority = Priority("urgent")
	if err := bad.Validate(); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}

	bad = s
	bad.Date = "2026/02/09"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	bad = s
	bad.Recurrence.Type = "hourly"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidRecurrenceType) {
		t.Fatalf("expected ErrInvalidRecurrenceType, got %v", err)
	}
}

func TestNormalizeRepairsUnknownValues(t *testing.T) {
	s := Schedule{
		Title:      "X",
		Category:   "hobby",
		Priority:   "",
		Status:     "done",
		Reminder:   Reminder{MinutesBefore: -5},
		Recurrence: Recurrence{Type: "hourly"},
	}
	got := Normalize(s)
	if got.Category != CategoryPersonal || got.Priority != PriorityMedium || got.Status != StatusPending {
		t.Fatalf("unexpected enums after normalize: %+v", got)
	}
	if got.Reminder.MinutesBefore != DefaultMinutesBefore || got.Reminder.Sound != DefaultSound {
		t.Fatalf("unexpected reminder after normalize: %+v", got.Reminder)
	}
	if got.Recurrence.Type != RecurrenceNone {
		t.Fatalf("unexpected recurrence after normalize: %+v", got.Recurrence)
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityHigh.Rank() > PriorityMedium.Rank() && PriorityMedium.Rank() > PriorityLow.Rank()) {
		t.Fatal("expected high > medium > low")
	}
	if Priority("x").Rank() != 0 {
		t.Fatal("unknown priority must rank lowest")
	}
}
