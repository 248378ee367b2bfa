package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCategory = errors.New("model: invalid schedule category")
	ErrInvalidPriority = errors.New("model: invalid schedule priority")
	ErrInvalidStatus   = errors.New("model: invalid schedule status")
	ErrInvalidDate     = errors.New("model: invalid date")
	ErrInvalidTime     = errors.New("model: invalid time of day")
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// DefaultDuration applies when a schedule has no end time.
	DefaultDuration = 60 * time.Minute
)

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryFamily   Category = "family"
	CategoryOther    Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryFamily, CategoryOther:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank orders priorities high > medium > low; unknown values rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted:
		return true
	default:
		return false
	}
}

type Recurrence struct {
	Type    RecurrenceType `json:"type"`
	EndDate string         `json:"endDate,omitempty"`
}

// Schedule is a single dated, timed entry. Date and Time are local wall-clock
// values without an offset; they are combined in the caller's location.
type Schedule struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	EndTime     string     `json:"endTime,omitempty"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status,omitempty"`
	Archived    bool       `json:"archived"`
	Reminder    Reminder   `json:"reminder"`
	Recurrence  Recurrence `json:"recurrence"`
}

func (s Schedule) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// Validate checks a stored record: required fields, enums and date/time format.
func (s Schedule) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("model: schedule id is required")
	}
	if strings.TrimSpace(s.Title) == "" {
		return errors.New("model: schedule title is required")
	}
	if _, err := ParseDate(s.Date, time.UTC); err != nil {
		return err
	}
	if _, _, err := parseClock(s.Time); err != nil {
		return err
	}
	if s.EndTime != "" {
		if _, _, err := parseClock(s.EndTime); err != nil {
			return err
		}
	}
	if !s.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, s.Category)
	}
	if !s.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, s.Priority)
	}
	if s.Status != "" && !s.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, s.Status)
	}
	if err := s.Reminder.Validate(); err != nil {
		return err
	}
	if s.Recurrence.Type != "" && !s.Recurrence.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrenceType, s.Recurrence.Type)
	}
	return nil
}

// Defaults used when a schedule arrives without the optional sections.
const (
	DefaultCategory      = CategoryPersonal
	DefaultPriority      = PriorityMedium
	DefaultMinutesBefore = 15
	DefaultSound         = "chime"
)

// NewSchedule returns a blank schedule with the creation-form defaults.
func NewSchedule() Schedule {
	return Schedule{
		Category: DefaultCategory,
		Priority: DefaultPriority,
		Status:   StatusPending,
		Reminder: Reminder{
			Enabled:       true,
			MinutesBefore: DefaultMinutesBefore,
			Sound:         DefaultSound,
		},
		Recurrence: Recurrence{Type: RecurrenceNone},
	}
}

// Normalize repairs enum fields and sub-records that failed to decode or
// carried unknown values. ID assignment is left to the caller.
func Normalize(s Schedule) Schedule {
	if !s.Category.IsValid() {
		s.Category = DefaultCategory
	}
	if !s.Priority.IsValid() {
		s.Priority = DefaultPriority
	}
	if !s.Status.IsValid() {
		s.Status = StatusPending
	}
	if s.Reminder.MinutesBefore < 0 {
		s.Reminder.MinutesBefore = DefaultMinutesBefore
	}
	if strings.TrimSpace(s.Reminder.Sound) == "" {
		s.Reminder.Sound = DefaultSound
	}
	if !s.Recurrence.Type.IsValid() {
		s.Recurrence.Type = RecurrenceNone
	}
	return s
}
