package model

import (
	"testing"
)

func recurringBase(date string, typ RecurrenceType) Schedule {
	s := NewSchedule()
	s.ID = "schedule_1"
	s.Title = "Standup"
	s.Date = date
	s.Time = "09:00"
	s.Recurrence = Recurrence{Type: typ}
	return s
}

func instanceDates(items []Schedule) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Date)
	}
	return out
}

func TestGenerateRecurringMonthlyClampsShortMonths(t *testing.T) {
	got, err := GenerateRecurring(recurringBase("2024-01-31", RecurrenceMonthly), "2024-04-30")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{"2024-02-29", "2024-03-31", "2024-04-30"}
	dates := instanceDates(got)
	if len(dates) != len(want) {
		t.Fatalf("expected %d instances, got %v", len(want), dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("instance %d: expected %s, got %s", i, want[i], dates[i])
		}
	}
	if got[0].ID != "schedule_1_2024-02-29" {
		t.Fatalf("unexpected instance id %q", got[0].ID)
	}
	if got[0].Title != "Standup" || got[0].Time != "09:00" {
		t.Fatalf("expected fields copied from base, got %+v", got[0])
	}
}

func TestGenerateRecurringDailyAndWeekly(t *testing.T) {
	daily, err := GenerateRecurring(recurringBase("2026-02-09", RecurrenceDaily), "2026-02-12")
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if got := instanceDates(daily); len(got) != 3 || got[0] != "2026-02-10" || got[2] != "2026-02-12" {
		t.Fatalf("unexpected daily instances: %v", got)
	}

	weekly, err := GenerateRecurring(recurringBase("2026-02-09", RecurrenceWeekly), "2026-03-02")
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if got := instanceDates(weekly); len(got) != 3 || got[0] != "2026-02-16" || got[2] != "2026-03-02" {
		t.Fatalf("unexpected weekly instances: %v", got)
	}
}

func TestGenerateRecurringYearlyLeapDay(t *testing.T) {
	got, err := GenerateRecurring(recurringBase("2024-02-29", RecurrenceYearly), "2028-03-01")
	if err != nil {
		t.Fatalf("yearly: %v", err)
	}
	want := []string{"2025-02-28", "2026-02-28", "2027-02-28", "2028-02-29"}
	dates := instanceDates(got)
	if len(dates) != len(want) {
		t.Fatalf("expected %v, got %v", want, dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("instance %d: expected %s, got %s", i, want[i], dates[i])
		}
	}
}

func TestGenerateRecurringNoneOrUnknown(t *testing.T) {
	for _, typ := range []RecurrenceType{RecurrenceNone, RecurrenceType("fortnightly"), ""} {
		got, err := GenerateRecurring(recurringBase("2026-02-09", typ), "2026-12-31")
		if err != nil {
			t.Fatalf("type %q: unexpected error %v", typ, err)
		}
		if len(got) != 0 {
			t.Fatalf("type %q: expected no instances, got %d", typ, len(got))
		}
	}
}

func TestGenerateRecurringEndBeforeStart(t *testing.T) {
	got, err := GenerateRecurring(recurringBase("2026-02-09", RecurrenceDaily), "2026-02-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no instances, got %v", instanceDates(got))
	}
}

func TestGenerateRecurringCapsOccurrences(t *testing.T) {
	got, err := GenerateRecurring(recurringBase("2000-01-01", RecurrenceDaily), "2099-12-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != MaxOccurrences {
		t.Fatalf("expected %d instances, got %d", MaxOccurrences, len(got))
	}
}
