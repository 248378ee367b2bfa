package repository

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/remindflow/internal/model"
)

// Search matches term case-insensitively against title and description.
// A blank term returns the whole collection.
func (r *Repository) Search(term string) []model.Schedule {
	all := r.List()
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return all
	}
	out := make([]model.Schedule, 0)
	for _, s := range all {
		if strings.Contains(strings.ToLower(s.Title), needle) ||
			strings.Contains(strings.ToLower(s.Description), needle) {
			out = append(out, s)
		}
	}
	return out
}

// DateRange is an inclusive range of YYYY-MM-DD dates. An empty bound is
// open.
type DateRange struct {
	Start string
	End   string
}

func (d DateRange) Contains(date string) bool {
	if d.Start != "" && date < d.Start {
		return false
	}
	if d.End != "" && date > d.End {
		return false
	}
	return true
}

// Criteria are ANDed; empty slices and a nil range impose no constraint.
type Criteria struct {
	Categories []model.Category
	Priorities []model.Priority
	DateRange  *DateRange
}

// Filter keeps the schedules matching every criterion, preserving order.
func Filter(list []model.Schedule, c Criteria) []model.Schedule {
	out := make([]model.Schedule, 0, len(list))
	for _, s := range list {
		if len(c.Categories) > 0 && !containsValue(c.Categories, s.Category) {
			continue
		}
		if len(c.Priorities) > 0 && !containsValue(c.Priorities, s.Priority) {
			continue
		}
		if c.DateRange != nil && !c.DateRange.Contains(s.Date) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func containsValue[T comparable](set []T, v T) bool {
	for _, it := range set {
		if it == v {
			return true
		}
	}
	return false
}

type SortKey string

const (
	SortTime     SortKey = "time"
	SortPriority SortKey = "priority"
	SortTitle    SortKey = "title"
	SortCategory SortKey = "category"
)

func (k SortKey) IsValid() bool {
	switch k {
	case SortTime, SortPriority, SortTitle, SortCategory:
		return true
	default:
		return false
	}
}

func ParseSortKey(v string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(v)))
	if !k.IsValid() {
		return "", fmt.Errorf("repository: unknown sort key %q", v)
	}
	return k, nil
}

// Sort returns a sorted copy. time orders by (date, time) ascending;
// priority orders high first; title and category ascend. Ties after the
// primary key fall back to title.
func Sort(list []model.Schedule, key SortKey) []model.Schedule {
	out := make([]model.Schedule, len(list))
	copy(out, list)
	var less func(a, b model.Schedule) bool
	switch key {
	case SortPriority:
		less = func(a, b model.Schedule) bool {
			if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
				return ra > rb
			}
			return a.Title < b.Title
		}
	case SortTitle:
		less = func(a, b model.Schedule) bool { return a.Title < b.Title }
	case SortCategory:
		less = func(a, b model.Schedule) bool {
			if a.Category != b.Category {
				return a.Category < b.Category
			}
			return a.Title < b.Title
		}
	default:
		less = func(a, b model.Schedule) bool {
			if a.Date != b.Date {
				return a.Date < b.Date
			}
			return a.Time < b.Time
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (r *Repository) ByDate(date string) []model.Schedule {
	return r.ByDateRange(date, date)
}

func (r *Repository) ByDateRange(start, end string) []model.Schedule {
	return Filter(r.List(), Criteria{DateRange: &DateRange{Start: start, End: end}})
}

func (r *Repository) Today(now time.Time) []model.Schedule {
	return r.ByDate(now.Format(model.DateLayout))
}

// Upcoming lists non-archived, non-completed schedules starting after now
// and within the next days calendar days, soonest first.
func (r *Repository) Upcoming(now time.Time, days int) []model.Schedule {
	limit := now.AddDate(0, 0, days).Format(model.DateLayout)
	out := make([]model.Schedule, 0)
	for _, s := range r.List() {
		if s.Archived || s.IsCompleted() || s.Date > limit {
			continue
		}
		start, err := model.Combine(s.Date, s.Time, now.Location())
		if err != nil || !start.After(now) {
			continue
		}
		out = append(out, s)
	}
	return Sort(out, SortTime)
}

// Past lists schedules whose start lies before now, most recent first.
func (r *Repository) Past(now time.Time) []model.Schedule {
	out := make([]model.Schedule, 0)
	for _, s := range r.List() {
		start, err := model.Combine(s.Date, s.Time, now.Location())
		if err != nil || !start.Before(now) {
			continue
		}
		out = append(out, s)
	}
	sorted := Sort(out, SortTime)
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted
}

// Stats are the dashboard counters.
type Stats struct {
	Total      int
	Today      int
	NotStarted int
	Ongoing    int
	Completed  int
	Archived   int
}

func (r *Repository) Stats(now time.Time) Stats {
	today := now.Format(model.DateLayout)
	var st Stats
	for _, s := range r.List() {
		st.Total++
		if s.Date == today {
			st.Today++
		}
		switch model.DeriveStatus(s, now) {
		case model.LifecycleNotStarted:
			st.NotStarted++
		case model.LifecycleOngoing:
			st.Ongoing++
		case model.LifecycleCompleted:
			st.Completed++
		case model.LifecycleArchived:
			st.Archived++
		}
	}
	return st
}
