package update

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/remindflow/internal/commands"
	"github.com/sandeepkv93/remindflow/internal/model"
	"github.com/sandeepkv93/remindflow/internal/repository"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, m.paletteHandlers())
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	m.refresh()
	return m
}

func (m *Model) paletteHandlers() commands.Handlers {
	ctx := context.Background()
	onTarget := func(action func(model.Schedule) (string, error)) func(commands.TargetArgs) (commands.Result, error) {
		return func(t commands.TargetArgs) (commands.Result, error) {
			s, err := m.resolve(t.Targets[0])
			if err != nil {
				return commands.Result{}, err
			}
			msg, err := action(s)
			return commands.Result{Message: msg}, err
		}
	}
	result := func(msg string, err error) (commands.Result, error) {
		return commands.Result{Message: msg}, err
	}

	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			s, err := scheduleFromArgs(m.app.Draft(), a)
			if err != nil {
				return commands.Result{}, err
			}
			added, err := m.app.AddSchedule(ctx, s)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %s (%d schedule(s))", s.Title, len(added))}, nil
		},
		Done: onTarget(func(s model.Schedule) (string, error) {
			if err := m.app.CompleteSchedule(ctx, s.ID, true); err != nil {
				return "", err
			}
			return "completed: " + s.Title, nil
		}),
		Undo: onTarget(func(s model.Schedule) (string, error) {
			if err := m.app.CompleteSchedule(ctx, s.ID, false); err != nil {
				return "", err
			}
			return "reopened: " + s.Title, nil
		}),
		Archive: onTarget(m.archive),
		Restore: onTarget(m.restore),
		Notify:  onTarget(m.notifyNow),
		Delete: func(t commands.TargetArgs) (commands.Result, error) {
			ids := make([]string, 0, len(t.Targets))
			for _, target := range t.Targets {
				s, err := m.resolve(target)
				if err != nil {
					return commands.Result{}, err
				}
				ids = append(ids, s.ID)
			}
			if err := m.app.DeleteSchedules(ctx, ids...); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted %d schedule(s)", len(ids))}, nil
		},
		Search: func(a commands.SearchArgs) (commands.Result, error) {
			m.Query.Search = strings.TrimSpace(a.Term)
			if m.Query.Search == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("search: %q", m.Query.Search)}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			if a.Clear {
				m.Query.Criteria = repository.Criteria{}
				return commands.Result{Message: "filters cleared"}, nil
			}
			c, err := criteriaFromArgs(a)
			if err != nil {
				return commands.Result{}, err
			}
			m.Query.Criteria = c
			return commands.Result{Message: "filter applied"}, nil
		},
		Sort: func(a commands.SortArgs) (commands.Result, error) {
			key, err := repository.ParseSortKey(a.Key)
			if err != nil {
				return commands.Result{}, err
			}
			m.Query.Sort = key
			return commands.Result{Message: "sorted by " + string(key)}, nil
		},
		View: func(a commands.ViewArgs) (commands.Result, error) {
			v, ok := viewByName(a.Name)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown view %q", a.Name)}
			}
			m.CurrentView = v
			m.Cursor = 0
			return commands.Result{Message: "view: " + string(v)}, nil
		},
		Check: func() (commands.Result, error) { return result(m.checkNow()) },
		Test:  func() (commands.Result, error) { return result(m.testNotification()) },
		Notifications: func(a commands.ToggleArgs) (commands.Result, error) {
			return result(m.toggleNotifications(a.On))
		},
		Export: func(a commands.ExportArgs) (commands.Result, error) {
			return result(m.exportTo(a.Format, a.Path))
		},
		Import: func(a commands.ImportArgs) (commands.Result, error) {
			return result(m.importFrom(a.Path))
		},
		History: func(a commands.HistoryArgs) (commands.Result, error) {
			switch a.Action {
			case "read":
				return result(m.markHistoryRead())
			case "clear":
				return result(m.clearHistory())
			default:
				m.CurrentView = ViewHistory
				return commands.Result{Message: "view: History"}, nil
			}
		},
		Set: func(a commands.SetArgs) (commands.Result, error) {
			if a.Key == "notification.enabled" {
				on, err := strconv.ParseBool(a.Value)
				if err != nil {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
				}
				return result(m.toggleNotifications(on))
			}
			next, err := m.app.Settings.Current().Set(a.Key, a.Value)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.app.SaveSettings(ctx, next); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s = %s", a.Key, a.Value)}, nil
		},
	}
}

func scheduleFromArgs(s model.Schedule, a commands.AddArgs) (model.Schedule, error) {
	s.Title = a.Title
	s.Date = a.Date
	s.Time = a.Time
	s.EndTime = a.EndTime
	if a.Category != "" {
		c := model.Category(a.Category)
		if !c.IsValid() {
			return s, fmt.Errorf("%w: %q", model.ErrInvalidCategory, a.Category)
		}
		s.Category = c
	}
	if a.Priority != "" {
		p := model.Priority(a.Priority)
		if !p.IsValid() {
			return s, fmt.Errorf("%w: %q", model.ErrInvalidPriority, a.Priority)
		}
		s.Priority = p
	}
	if a.Repeat != "" {
		r := model.RecurrenceType(a.Repeat)
		if !r.IsValid() {
			return s, fmt.Errorf("%w: %q", model.ErrInvalidRecurrenceType, a.Repeat)
		}
		s.Recurrence.Type = r
	}
	s.Recurrence.EndDate = a.Until
	if a.Sound != "" {
		s.Reminder.Sound = a.Sound
	}
	if a.Remind != nil {
		if *a.Remind < 0 {
			s.Reminder.Enabled = false
		} else {
			s.Reminder.Enabled = true
			s.Reminder.MinutesBefore = *a.Remind
		}
	}
	return s, nil
}

func criteriaFromArgs(a commands.FilterArgs) (repository.Criteria, error) {
	var c repository.Criteria
	for _, v := range a.Categories {
		cat := model.Category(v)
		if !cat.IsValid() {
			return c, fmt.Errorf("%w: %q", model.ErrInvalidCategory, v)
		}
		c.Categories = append(c.Categories, cat)
	}
	for _, v := range a.Priorities {
		p := model.Priority(v)
		if !p.IsValid() {
			return c, fmt.Errorf("%w: %q", model.ErrInvalidPriority, v)
		}
		c.Priorities = append(c.Priorities, p)
	}
	if a.From != "" || a.To != "" {
		c.DateRange = &repository.DateRange{Start: a.From, End: a.To}
	}
	return c, nil
}

func viewByName(name string) (View, bool) {
	for _, v := range []View{ViewToday, ViewUpcoming, ViewAll, ViewPast, ViewArchived, ViewHistory, ViewSettings} {
		if strings.EqualFold(string(v), name) {
			return v, true
		}
	}
	return "", false
}
