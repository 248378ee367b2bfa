package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

var ErrInvalidRecurrenceType = errors.New("model: invalid recurrence type")

// MaxOccurrences bounds a single expansion.
const MaxOccurrences = 5000

func (r RecurrenceType) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	default:
		return false
	}
}

// GenerateRecurring expands base into the dated instances strictly after
// base.Date up to and including endDate. Each instance copies base with a
// new Date and an ID of the form "<baseID>_<date>". Monthly and yearly
// steps land on the base day of month, clamped to the last day of shorter
// months. A none or unknown recurrence type yields no instances.
func GenerateRecurring(base Schedule, endDate string) ([]Schedule, error) {
	opt, ok := recurrenceOption(base.Recurrence.Type)
	if !ok {
		return []Schedule{}, nil
	}
	start, err := ParseDate(base.Date, time.UTC)
	if err != nil {
		return nil, err
	}
	until, err := ParseDate(endDate, time.UTC)
	if err != nil {
		return nil, err
	}
	if until.Before(start) {
		return []Schedule{}, nil
	}

	opt.Dtstart = start
	opt.Until = until
	if opt.Freq == rrule.MONTHLY || opt.Freq == rrule.YEARLY {
		clampMonthDay(&opt, start)
	}
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("model: build recurrence rule: %w", err)
	}

	out := make([]Schedule, 0)
	next := rule.Iterator()
	for len(out) < MaxOccurrences {
		at, ok := next()
		if !ok {
			break
		}
		if !at.After(start) {
			continue
		}
		date := at.Format(DateLayout)
		inst := base
		inst.ID = base.ID + "_" + date
		inst.Date = date
		out = append(out, inst)
	}
	return out, nil
}

func recurrenceOption(t RecurrenceType) (rrule.ROption, bool) {
	switch t {
	case RecurrenceDaily:
		return rrule.ROption{Freq: rrule.DAILY, Interval: 1}, true
	case RecurrenceWeekly:
		return rrule.ROption{Freq: rrule.WEEKLY, Interval: 1}, true
	case RecurrenceMonthly:
		return rrule.ROption{Freq: rrule.MONTHLY, Interval: 1}, true
	case RecurrenceYearly:
		return rrule.ROption{Freq: rrule.YEARLY, Interval: 1}, true
	default:
		return rrule.ROption{}, false
	}
}

// clampMonthDay selects the base day of month, or the last existing day
// when the month is shorter: BYMONTHDAY=28..d with BYSETPOS=-1.
func clampMonthDay(opt *rrule.ROption, start time.Time) {
	day := start.Day()
	if opt.Freq == rrule.YEARLY {
		opt.Bymonth = []int{int(start.Month())}
	}
	if day <= 28 {
		opt.Bymonthday = []int{day}
		return
	}
	days := make([]int, 0, day-27)
	for d := 28; d <= day; d++ {
		days = append(days, d)
	}
	opt.Bymonthday = days
	opt.Bysetpos = []int{-1}
}
