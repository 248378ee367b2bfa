package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Lifecycle is the display state of a schedule. It is always derived from
// the stored fields and the current instant and never persisted.
type Lifecycle string

const (
	LifecycleNotStarted Lifecycle = "not_started"
	LifecycleOngoing    Lifecycle = "ongoing"
	LifecycleCompleted  Lifecycle = "completed"
	LifecycleArchived   Lifecycle = "archived"
)

func (l Lifecycle) IsValid() bool {
	switch l {
	case LifecycleNotStarted, LifecycleOngoing, LifecycleCompleted, LifecycleArchived:
		return true
	default:
		return false
	}
}

// ParseDate parses a YYYY-MM-DD value as local midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return d, nil
}

func parseClock(value string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return h, m, nil
}

// Combine joins a date and a time of day into an instant in loc.
func Combine(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location()), nil
}

// Bounds returns the start and end instants of s in loc. Without an end
// time the schedule lasts DefaultDuration.
func Bounds(s Schedule, loc *time.Location) (time.Time, time.Time, error) {
	start, err := Combine(s.Date, s.Time, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if strings.TrimSpace(s.EndTime) == "" {
		return start, start.Add(DefaultDuration), nil
	}
	end, err := Combine(s.Date, s.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// DeriveStatus computes the lifecycle of s at now. The archived flag wins
// over completion, completion wins over the time window. Unparseable
// dates fall back to LifecycleNotStarted. Wall-clock values are read in
// now's location.
func DeriveStatus(s Schedule, now time.Time) Lifecycle {
	if s.Archived {
		return LifecycleArchived
	}
	if s.IsCompleted() {
		return LifecycleCompleted
	}
	start, end, err := Bounds(s, now.Location())
	if err != nil {
		return LifecycleNotStarted
	}
	switch {
	case now.Before(start):
		return LifecycleNotStarted
	case now.Before(end):
		return LifecycleOngoing
	default:
		return LifecycleArchived
	}
}

// ShouldArchive reports whether the sweep must flag s as archived at now.
// Completed schedules keep their completed state.
func ShouldArchive(s Schedule, now time.Time) bool {
	return !s.Archived && DeriveStatus(s, now) == LifecycleArchived
}

var ErrValidation = errors.New("model: validation failed")

// ValidationError maps form fields (title, date, time, datetime) to
// user-facing messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := []string{"title", "date", "time", "datetime"}
	msgs := make([]string, 0, len(e.Fields))
	for _, k := range keys {
		if msg, ok := e.Fields[k]; ok {
			msgs = append(msgs, k+": "+msg)
		}
	}
	return "model: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ValidateNew checks a schedule about to be created or edited through a
// form: title, date and time are required and the start must not lie in
// the past.
func ValidateNew(s Schedule, now time.Time) error {
	fields := make(map[string]string)
	if strings.TrimSpace(s.Title) == "" {
		fields["title"] = "title is required"
	}
	if strings.TrimSpace(s.Date) == "" {
		fields["date"] = "date is required"
	}
	if strings.TrimSpace(s.Time) == "" {
		fields["time"] = "time is required"
	}
	if _, ok := fields["date"]; !ok {
		if _, ok := fields["time"]; !ok {
			start, err := Combine(s.Date, s.Time, now.Location())
			switch {
			case err != nil:
				fields["datetime"] = "invalid date or time"
			case start.Before(now):
				fields["datetime"] = "date and time must not be in the past"
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
