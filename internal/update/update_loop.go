package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/remindflow/internal/repository"
	"github.com/sandeepkv93/remindflow/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForReminderCmd(m.reminders), refreshTickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		return m.handleKey(typed)
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			m.Cursor = 0
			m.refresh()
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case ReminderMsg:
		expire := m.onReminder(typed.Notification)
		return m, tea.Batch(waitForReminderCmd(m.reminders), expire)
	case ToastExpiredMsg:
		m.expireToast(typed.Tag)
		return m, nil
	case RefreshMsg:
		m.refresh()
		return m, refreshTickCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Today:
		return m.switchView(ViewToday), nil
	case m.Keys.Upcoming:
		return m.switchView(ViewUpcoming), nil
	case m.Keys.All:
		return m.switchView(ViewAll), nil
	case m.Keys.Past:
		return m.switchView(ViewPast), nil
	case m.Keys.Archived:
		return m.switchView(ViewArchived), nil
	case m.Keys.History:
		return m.switchView(ViewHistory), nil
	case m.Keys.Settings:
		return m.switchView(ViewSettings), nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case "esc":
		m.Query = Query{Sort: m.Query.Sort}
		m.Toast = nil
		m.refresh()
		m.Status = StatusBar{Text: "search and filters cleared"}
		return m, nil
	case "c":
		return m.run(m.checkNow), nil
	case "t":
		return m.run(m.testNotification), nil
	case "N":
		return m.run(func() (string, error) {
			return m.toggleNotifications(!m.app.Settings.Current().Notification.Enabled)
		}), nil
	}

	switch m.CurrentView {
	case ViewHistory:
		return m.handleHistoryKey(msg), nil
	case ViewSettings:
		return m, nil
	default:
		return m.handleListKey(msg), nil
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.Cursor = 0
		m.syncBubbleData()
	case "G", "end":
		m.Cursor = len(m.Rows) - 1
		m.syncBubbleData()
	case "s":
		m.Query.Sort = nextSortKey(m.Query.Sort)
		m.refresh()
		m.Status = StatusBar{Text: fmt.Sprintf("sorted by %s", m.Query.Sort)}
	case "x", " ":
		return m.onSelected(m.toggleComplete)
	case "a":
		return m.onSelected(m.archive)
	case "r":
		return m.onSelected(m.restore)
	case "d":
		return m.onSelected(m.remove)
	case "n":
		return m.onSelected(m.notifyNow)
	}
	return m
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "m":
		return m.run(m.markHistoryRead)
	case "C":
		return m.run(m.clearHistory)
	}
	return m
}

func (m Model) switchView(v View) Model {
	m.CurrentView = v
	m.Cursor = 0
	m.refresh()
	return m
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	var left, right string
	switch m.CurrentView {
	case ViewHistory:
		left = m.renderHistoryView()
		right = m.renderHelpIfVisible()
	case ViewSettings:
		left = m.renderSettingsView()
		right = m.renderHelpIfVisible()
	default:
		left = m.renderListView()
		right = m.renderDetailView()
		if m.HelpVisible {
			right = m.renderHelpView()
		}
	}
	if p := m.renderCommandPalette(); p != "" {
		right = p + "\n\n" + right
	}

	return views.RenderApp(views.AppData{
		Header:       m.renderHeader(),
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderToast(),
		Footer: fmt.Sprintf("keys: %s-%s views | / cmd | x done | n notify | c check | t test | %s help | %s quit",
			m.Keys.Today, m.Keys.Settings, m.Keys.Help, m.Keys.Quit),
	}, views.PanelWidth(string(m.app.Settings.Current().Display.FontSize)))
}

func isKnownView(v View) bool {
	switch v {
	case ViewToday, ViewUpcoming, ViewAll, ViewPast, ViewArchived, ViewHistory, ViewSettings:
		return true
	default:
		return false
	}
}

func nextSortKey(k repository.SortKey) repository.SortKey {
	switch k {
	case repository.SortTime:
		return repository.SortPriority
	case repository.SortPriority:
		return repository.SortTitle
	case repository.SortTitle:
		return repository.SortCategory
	default:
		return repository.SortTime
	}
}

func refreshTickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return RefreshMsg{} })
}
