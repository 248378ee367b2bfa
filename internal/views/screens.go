package views

import (
	"fmt"
	"strings"
)

type ListPanelData struct {
	Title     string
	Summary   string
	TableView string
	Empty     bool
}

type DetailData struct {
	ID            string
	Title         string
	When          string
	Category      string
	Priority      string
	PriorityColor string
	Status        string
	Reminder      string
	Recurrence    string
	Description   string
	Occurrences   []string
}

type HistoryEntryData struct {
	Title string
	Body  string
	At    string
	Read  bool
}

type SettingRow struct {
	Key   string
	Value string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

type StatsData struct {
	Total      int
	Today      int
	NotStarted int
	Ongoing    int
	Completed  int
	Archived   int
}

func RenderListPanel(data ListPanelData) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(data.Title) + ":\n")
	if data.Summary != "" {
		b.WriteString(Muted(data.Summary) + "\n")
	}
	if data.Empty {
		b.WriteString("(no schedules)")
		return b.String()
	}
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderDetailPanel(data DetailData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	b.WriteString(fmt.Sprintf("when: %s\n", data.When))
	b.WriteString(fmt.Sprintf("category: %s\n", data.Category))
	b.WriteString(fmt.Sprintf("priority: %s\n", Colored(data.Priority, data.PriorityColor)))
	b.WriteString(fmt.Sprintf("status: %s\n", StatusBadge(data.Status)))
	b.WriteString(fmt.Sprintf("reminder: %s\n", data.Reminder))
	if data.Recurrence != "" {
		b.WriteString(fmt.Sprintf("repeats: %s\n", data.Recurrence))
	}
	b.WriteString(Muted("id: "+data.ID) + "\n")
	if data.Description != "" {
		b.WriteString("\n" + data.Description + "\n")
	}
	if len(data.Occurrences) > 0 {
		b.WriteString("\nnext occurrences:\n")
		for _, item := range data.Occurrences {
			b.WriteString("- " + item + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderHistoryPanel(entries []HistoryEntryData, unread int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("notification history (%d unread):\n", unread))
	if len(entries) == 0 {
		b.WriteString("(empty)")
		return b.String()
	}
	for _, e := range entries {
		mark := " "
		if !e.Read {
			mark = "*"
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", mark, Muted(e.At), e.Title))
		if e.Body != "" {
			b.WriteString("    " + e.Body + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderSettingsPanel(rows []SettingRow, scheduler string) string {
	var b strings.Builder
	b.WriteString("settings:\n")
	b.WriteString(Muted("change with /set <key> <value>") + "\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-36s %s\n", r.Key, r.Value))
	}
	if scheduler != "" {
		b.WriteString("\nscheduler: " + scheduler)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderStats(s StatsData) string {
	return fmt.Sprintf("total %d | today %d | not started %d | ongoing %d | completed %d | archived %d",
		s.Total, s.Today, s.NotStarted, s.Ongoing, s.Completed, s.Archived)
}

// StatusBadge colours a derived lifecycle label.
func StatusBadge(status string) string {
	switch status {
	case "ongoing":
		return Colored("[ONGOING]", "11")
	case "completed":
		return Colored("[DONE]", "10")
	case "archived":
		return Colored("[ARCHIVED]", "8")
	default:
		return "[" + strings.ToUpper(strings.ReplaceAll(status, "_", " ")) + "]"
	}
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(title, body string) string {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("%s\n%s", title, body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
