package update

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/sandeepkv93/remindflow/internal/app"
	"github.com/sandeepkv93/remindflow/internal/commands"
	"github.com/sandeepkv93/remindflow/internal/model"
)

var errNoSelection = errors.New("no schedule selected")

// run applies an action, reports its outcome in the status bar and
// refreshes the visible rows.
func (m Model) run(action func() (string, error)) Model {
	msg, err := action()
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: msg}
	}
	m.refresh()
	return m
}

func (m Model) onSelected(action func(model.Schedule) (string, error)) Model {
	s, ok := m.selected()
	if !ok {
		m.Status = StatusBar{Text: errNoSelection.Error(), IsError: true}
		return m
	}
	return m.run(func() (string, error) { return action(s) })
}

// resolve finds a schedule by 1-based row number in the current view or
// by id.
func (m Model) resolve(target string) (model.Schedule, error) {
	if n, err := strconv.Atoi(target); err == nil {
		if n < 1 || n > len(m.Rows) {
			return model.Schedule{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no row %d in this view", n)}
		}
		return m.Rows[n-1], nil
	}
	s, ok := m.app.Repo.Get(target)
	if !ok {
		return model.Schedule{}, fmt.Errorf("%w: %q", app.ErrNotFound, target)
	}
	return s, nil
}

func (m Model) toggleComplete(s model.Schedule) (string, error) {
	done := !s.IsCompleted()
	if err := m.app.CompleteSchedule(context.Background(), s.ID, done); err != nil {
		return "", err
	}
	if done {
		return fmt.Sprintf("completed: %s", s.Title), nil
	}
	return fmt.Sprintf("reopened: %s", s.Title), nil
}

func (m Model) archive(s model.Schedule) (string, error) {
	if err := m.app.ArchiveSchedule(context.Background(), s.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("archived: %s", s.Title), nil
}

func (m Model) restore(s model.Schedule) (string, error) {
	if err := m.app.RestoreSchedule(context.Background(), s.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("restored: %s", s.Title), nil
}

func (m Model) remove(s model.Schedule) (string, error) {
	if err := m.app.DeleteSchedules(context.Background(), s.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("deleted: %s", s.Title), nil
}

func (m Model) notifyNow(s model.Schedule) (string, error) {
	if err := m.app.NotifySchedule(context.Background(), s.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("notified: %s", s.Title), nil
}

func (m Model) checkNow() (string, error) {
	n, err := m.app.CheckNow(context.Background())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("checked today's reminders, %d notified", n), nil
}

func (m Model) testNotification() (string, error) {
	if err := m.app.TestNotification(context.Background()); err != nil {
		return "", err
	}
	return "test notification sent", nil
}

func (m Model) toggleNotifications(on bool) (string, error) {
	ok, err := m.app.SetNotificationsEnabled(context.Background(), on)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("notification permission denied")
	}
	if on {
		return "notifications on", nil
	}
	return "notifications off", nil
}

func (m Model) markHistoryRead() (string, error) {
	if err := m.app.History.MarkAllRead(context.Background()); err != nil {
		return "", err
	}
	return "history marked read", nil
}

func (m Model) clearHistory() (string, error) {
	if err := m.app.History.Clear(context.Background()); err != nil {
		return "", err
	}
	return "history cleared", nil
}

func (m Model) exportTo(format, path string) (string, error) {
	f, err := app.ParseFormat(format)
	if err != nil {
		return "", err
	}
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := m.app.Export(out, f); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("exported %s to %s", f, path), nil
}

func (m Model) importFrom(path string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer in.Close()
	res, err := m.app.Import(context.Background(), in)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("imported %d schedule(s), skipped %d", res.Added, res.Skipped), nil
}
