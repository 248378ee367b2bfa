package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidLeadTime = errors.New("model: invalid reminder lead time")

type Reminder struct {
	Enabled       bool   `json:"enabled"`
	MinutesBefore int    `json:"minutesBefore"`
	Sound         string `json:"sound"`
	Repeat        bool   `json:"repeat"`
}

func (r Reminder) Validate() error {
	if r.MinutesBefore < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLeadTime, r.MinutesBefore)
	}
	return nil
}

// LeadTime is the offset between the reminder and the schedule start.
func (r Reminder) LeadTime() time.Duration {
	return time.Duration(r.MinutesBefore) * time.Minute
}

// CalculateReminderTime returns the schedule start in loc minus the
// reminder lead time.
func CalculateReminderTime(s Schedule, loc *time.Location) (time.Time, error) {
	at, _, err := ReminderWindow(s, loc)
	return at, err
}

// ReminderWindow returns the reminder instant and the schedule start in loc.
func ReminderWindow(s Schedule, loc *time.Location) (at, start time.Time, err error) {
	start, err = Combine(s.Date, s.Time, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start.Add(-s.Reminder.LeadTime()), start, nil
}

// SoundOr returns the reminder sound, or fallback when none is set.
func (r Reminder) SoundOr(fallback string) string {
	if r.Sound == "" {
		return fallback
	}
	return r.Sound
}
