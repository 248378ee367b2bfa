package views

import (
	"strings"
	"testing"
)

func TestRenderDetailPanelWithoutSelection(t *testing.T) {
	if got := RenderDetailPanel(DetailData{}); !strings.Contains(got, "(no selection)") {
		t.Fatalf("unexpected detail panel: %q", got)
	}
}

func TestRenderDetailPanelFields(t *testing.T) {
	got := RenderDetailPanel(DetailData{
		ID:          "schedule_1",
		Title:       "dentist",
		When:        "2026-02-10 09:00-10:00",
		Category:    "personal",
		Priority:    "high",
		Status:      "not_started",
		Reminder:    "15m before (chime)",
		Recurrence:  "monthly until 2026-12-31",
		Occurrences: []string{"2026-03-10", "2026-04-10"},
	})
	for _, want := range []string{"title: dentist", "reminder: 15m before (chime)", "repeats: monthly", "- 2026-04-10", "[NOT STARTED]"} {
		if !strings.Contains(got, want) {
			t.Fatalf("detail panel missing %q:\n%s", want, got)
		}
	}
}

func TestRenderHistoryPanelMarksUnread(t *testing.T) {
	got := RenderHistoryPanel([]HistoryEntryData{
		{Title: "new", At: "09:00", Read: false},
		{Title: "old", At: "08:00", Read: true},
	}, 1)
	if !strings.Contains(got, "(1 unread)") {
		t.Fatalf("missing unread count:\n%s", got)
	}
	lines := strings.Split(got, "\n")
	if !strings.HasPrefix(lines[1], "*") || strings.HasPrefix(lines[2], "*") {
		t.Fatalf("unexpected unread markers:\n%s", got)
	}
}

func TestRenderListPanelEmpty(t *testing.T) {
	got := RenderListPanel(ListPanelData{Title: "Today", Empty: true})
	if !strings.HasPrefix(got, "today:") || !strings.Contains(got, "(no schedules)") {
		t.Fatalf("unexpected list panel: %q", got)
	}
}

func TestPanelWidthFollowsFontSize(t *testing.T) {
	if PanelWidth("small") >= PanelWidth("medium") || PanelWidth("medium") >= PanelWidth("large") {
		t.Fatal("expected widths to grow with font size")
	}
	if PanelWidth("unknown") != PanelWidth("medium") {
		t.Fatal("expected unknown font size to use medium width")
	}
}

func TestRenderMarkdownBlank(t *testing.T) {
	if got := RenderMarkdown("   ", "dark", 40); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}
