// Package update holds the bubbletea model of the terminal client.
package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/remindflow/internal/app"
	"github.com/sandeepkv93/remindflow/internal/model"
	"github.com/sandeepkv93/remindflow/internal/notify"
	"github.com/sandeepkv93/remindflow/internal/repository"
)

type View string

const (
	ViewToday    View = "Today"
	ViewUpcoming View = "Upcoming"
	ViewAll      View = "All"
	ViewPast     View = "Past"
	ViewArchived View = "Archived"
	ViewHistory  View = "History"
	ViewSettings View = "Settings"
)

// UpcomingDays is the horizon of the Upcoming view.
const UpcomingDays = 7

// refreshInterval keeps derived statuses current while the client idles.
const refreshInterval = 30 * time.Second

type Query struct {
	Search   string
	Criteria repository.Criteria
	Sort     repository.SortKey
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today    string
	Upcoming string
	All      string
	Past     string
	Archived string
	History  string
	Settings string
	Help     string
	Quit     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView View
	Query       Query
	Rows        []model.Schedule
	Cursor      int
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	// Toast is the last reminder shown in the client.
	Toast     *notify.Notification
	Keys      GlobalKeyMap
	Quitting  bool
	LastError error

	app       *app.App
	reminders <-chan notify.Notification

	scheduleTable table.Model
	commandInput  textinput.Model
	helpModel     help.Model
	detailView    viewport.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// ReminderMsg carries a reminder delivered to the in-app channel.
type ReminderMsg struct {
	Notification notify.Notification
}

type RefreshMsg struct{}

// NewModel builds the client over a, listening for reminders on ch. ch may
// be nil.
func NewModel(a *app.App, ch <-chan notify.Notification) Model {
	m := Model{
		CurrentView: ViewToday,
		Query:       Query{Sort: repository.SortTime},
		Keys: GlobalKeyMap{
			Today:    "1",
			Upcoming: "2",
			All:      "3",
			Past:     "4",
			Archived: "5",
			History:  "6",
			Settings: "7",
			Help:     "?",
			Quit:     "q",
		},
		app:       a,
		reminders: ch,
	}
	m.initBubbleComponents()
	m.refresh()
	return m
}
