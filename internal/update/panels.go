package update

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/remindflow/internal/model"
	"github.com/sandeepkv93/remindflow/internal/repository"
	"github.com/sandeepkv93/remindflow/internal/settings"
	"github.com/sandeepkv93/remindflow/internal/views"
)

func (m *Model) initBubbleComponents() {
	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Date", Width: 10},
		{Title: "Time", Width: 5},
		{Title: "Title", Width: 20},
		{Title: "Pri", Width: 6},
		{Title: "Status", Width: 11},
	}
	m.scheduleTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(14))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.detailView = viewport.New(56, 18)
}

// refresh recomputes the visible rows for the current view and query.
func (m *Model) refresh() {
	now := m.app.Now()
	repo := m.app.Repo
	var base []model.Schedule
	switch m.CurrentView {
	case ViewToday:
		base = withoutArchived(repo.Today(now))
	case ViewUpcoming:
		base = repo.Upcoming(now, UpcomingDays)
	case ViewAll:
		base = withoutArchived(repo.List())
	case ViewPast:
		base = repo.Past(now)
	case ViewArchived:
		base = onlyArchived(repo.List())
	}
	if term := strings.TrimSpace(m.Query.Search); term != "" {
		base = intersect(base, repo.Search(term))
	}
	base = repository.Filter(base, m.Query.Criteria)
	// Past keeps its most-recent-first order under the default sort.
	if m.CurrentView != ViewPast || m.Query.Sort != repository.SortTime {
		base = repository.Sort(base, m.Query.Sort)
	}
	m.Rows = base
	if m.Cursor >= len(m.Rows) {
		m.Cursor = len(m.Rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.syncBubbleData()
}

func (m *Model) syncBubbleData() {
	rows := make([]table.Row, 0, len(m.Rows))
	for i, s := range m.Rows {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			s.Date,
			s.Time,
			s.Title,
			string(s.Priority),
			string(m.app.Status(s)),
		})
	}
	m.scheduleTable.SetRows(rows)
	if len(rows) > 0 {
		m.scheduleTable.SetCursor(m.Cursor)
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}
	m.detailView.SetContent(m.detailContent())
}

func (m *Model) moveCursor(delta int) {
	if len(m.Rows) == 0 {
		return
	}
	m.Cursor += delta
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor >= len(m.Rows) {
		m.Cursor = len(m.Rows) - 1
	}
	m.syncBubbleData()
}

func (m Model) selected() (model.Schedule, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Rows) {
		return model.Schedule{}, false
	}
	return m.Rows[m.Cursor], true
}

func (m Model) renderHeader() string {
	st := m.app.Settings.Current()
	notifications := "off"
	if st.Notification.Enabled {
		notifications = "on"
	}
	if m.app.Scheduler.Polling() {
		notifications += " (watching)"
	}
	s := m.app.Stats()
	return fmt.Sprintf("remindflow | view: %s | %s | notifications: %s | unread: %d",
		m.CurrentView,
		views.RenderStats(views.StatsData{
			Total:      s.Total,
			Today:      s.Today,
			NotStarted: s.NotStarted,
			Ongoing:    s.Ongoing,
			Completed:  s.Completed,
			Archived:   s.Archived,
		}),
		notifications,
		m.app.History.CountUnread(),
	)
}

func (m Model) renderListView() string {
	return views.RenderListPanel(views.ListPanelData{
		Title:     string(m.CurrentView),
		Summary:   m.querySummary(),
		TableView: m.scheduleTable.View(),
		Empty:     len(m.Rows) == 0,
	})
}

func (m Model) querySummary() string {
	parts := []string{"sort: " + string(m.Query.Sort)}
	if m.Query.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.Query.Search))
	}
	c := m.Query.Criteria
	for _, cat := range c.Categories {
		parts = append(parts, "cat:"+string(cat))
	}
	for _, p := range c.Priorities {
		parts = append(parts, "pri:"+string(p))
	}
	if c.DateRange != nil {
		parts = append(parts, fmt.Sprintf("dates: %s..%s", c.DateRange.Start, c.DateRange.End))
	}
	return strings.Join(parts, " | ")
}

func (m Model) renderDetailView() string {
	return m.detailView.View()
}

func (m Model) detailContent() string {
	s, ok := m.selected()
	if !ok {
		return views.RenderDetailPanel(views.DetailData{})
	}
	st := m.app.Settings.Current()
	when := s.Date + " " + s.Time
	if s.EndTime != "" {
		when += "-" + s.EndTime
	}
	reminder := "off"
	if s.Reminder.Enabled {
		reminder = fmt.Sprintf("%dm before (%s)", s.Reminder.MinutesBefore, s.Reminder.SoundOr(st.Notification.DefaultSound))
	}
	recurrence := ""
	if s.Recurrence.Type != "" && s.Recurrence.Type != model.RecurrenceNone {
		recurrence = string(s.Recurrence.Type)
		if s.Recurrence.EndDate != "" {
			recurrence += " until " + s.Recurrence.EndDate
		}
	}
	return views.RenderDetailPanel(views.DetailData{
		ID:            s.ID,
		Title:         s.Title,
		When:          when,
		Category:      string(s.Category),
		Priority:      string(s.Priority),
		PriorityColor: st.Display.ColorFor(s.Priority),
		Status:        string(m.app.Status(s)),
		Reminder:      reminder,
		Recurrence:    recurrence,
		Description:   views.RenderMarkdown(s.Description, string(st.Display.Theme), 52),
		Occurrences:   occurrencePreview(s, previewLimit),
	})
}

func (m Model) renderHistoryView() string {
	entries := m.app.History.Entries()
	data := make([]views.HistoryEntryData, 0, len(entries))
	for _, e := range entries {
		data = append(data, views.HistoryEntryData{
			Title: e.Title,
			Body:  e.Body,
			At:    e.CreatedAt.In(m.app.Location()).Format("01-02 15:04"),
			Read:  e.Read,
		})
	}
	return views.RenderHistoryPanel(data, m.app.History.CountUnread()) +
		"\n\n" + views.Muted("[m] mark all read  [C] clear")
}

func (m Model) renderSettingsView() string {
	st := m.app.Settings.Current()
	rows := make([]views.SettingRow, 0, len(settings.Keys))
	for _, key := range settings.Keys {
		v, err := st.Get(key)
		if err != nil {
			continue
		}
		rows = append(rows, views.SettingRow{Key: key, Value: v})
	}
	state := fmt.Sprintf("permission %s", m.app.Permission())
	if m.app.Scheduler.Polling() {
		state += ", polling"
	}
	return views.RenderSettingsPanel(rows, state)
}

func (m Model) renderCommandPalette() string {
	if !m.Palette.Active {
		return ""
	}
	return views.RenderCommandPalette(true, m.Palette.Input)
}

func (m Model) renderToast() string {
	if m.Toast == nil {
		return ""
	}
	return views.RenderNotification(m.Toast.Title, m.Toast.Body)
}

func withoutArchived(list []model.Schedule) []model.Schedule {
	out := make([]model.Schedule, 0, len(list))
	for _, s := range list {
		if !s.Archived {
			out = append(out, s)
		}
	}
	return out
}

func onlyArchived(list []model.Schedule) []model.Schedule {
	out := make([]model.Schedule, 0)
	for _, s := range list {
		if s.Archived {
			out = append(out, s)
		}
	}
	return out
}

func intersect(list, keep []model.Schedule) []model.Schedule {
	ids := make(map[string]struct{}, len(keep))
	for _, s := range keep {
		ids[s.ID] = struct{}{}
	}
	out := make([]model.Schedule, 0, len(list))
	for _, s := range list {
		if _, ok := ids[s.ID]; ok {
			out = append(out, s)
		}
	}
	return out
}
