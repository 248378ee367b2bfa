package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/remindflow/internal/notify"
)

// ToastExpiredMsg hides the toast for Tag once its display time is over.
type ToastExpiredMsg struct {
	Tag string
}

func waitForReminderCmd(ch <-chan notify.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderMsg{Notification: n}
	}
}

func (m *Model) onReminder(n notify.Notification) tea.Cmd {
	m.Toast = &n
	m.Status = StatusBar{Text: "reminder: " + n.Title}
	m.refresh()
	if n.Expire <= 0 {
		return nil
	}
	tag := n.Tag
	return tea.Tick(n.Expire, func(time.Time) tea.Msg { return ToastExpiredMsg{Tag: tag} })
}

func (m *Model) expireToast(tag string) {
	if m.Toast != nil && m.Toast.Tag == tag {
		m.Toast = nil
	}
}
