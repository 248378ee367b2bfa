package repository

import "github.com/sandeepkv93/remindflow/internal/model"

// Patch lists the fields an update may change; nil fields are left alone.
type Patch struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	EndTime     *string
	Category    *model.Category
	Priority    *model.Priority
	Status      *model.Status
	Archived    *bool
	Reminder    *model.Reminder
	Recurrence  *model.Recurrence
}

func (p Patch) Apply(s model.Schedule) model.Schedule {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Date != nil {
		s.Date = *p.Date
	}
	if p.Time != nil {
		s.Time = *p.Time
	}
	if p.EndTime != nil {
		s.EndTime = *p.EndTime
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Priority != nil {
		s.Priority = *p.Priority
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.Archived != nil {
		s.Archived = *p.Archived
	}
	if p.Reminder != nil {
		s.Reminder = *p.Reminder
	}
	if p.Recurrence != nil {
		s.Recurrence = *p.Recurrence
	}
	return s
}
