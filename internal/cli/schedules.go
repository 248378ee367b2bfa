package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/remindflow/internal/app"
	"github.com/sandeepkv93/remindflow/internal/model"
	"github.com/sandeepkv93/remindflow/internal/repository"
)

func newAddCmd(opts *options) *cobra.Command {
	var (
		date, clock, end, description string
		category, priority, sound     string
		repeat, until                 string
		remind                        int
		noRemind                      bool
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a schedule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				s := a.Draft()
				s.Title = strings.Join(args, " ")
				s.Date = date
				s.Time = clock
				s.EndTime = end
				s.Description = description
				if category != "" {
					s.Category = model.Category(category)
				}
				if priority != "" {
					s.Priority = model.Priority(priority)
				}
				if sound != "" {
					s.Reminder.Sound = sound
				}
				if cmd.Flags().Changed("remind") {
					s.Reminder.MinutesBefore = remind
				}
				if noRemind {
					s.Reminder.Enabled = false
				}
				if repeat != "" {
					s.Recurrence = model.Recurrence{Type: model.RecurrenceType(repeat), EndDate: until}
				}
				added, err := a.AddSchedule(cmd.Context(), s)
				if err != nil {
					return err
				}
				for _, it := range added {
					fmt.Fprintf(cmd.OutOrStdout(), "added %s %s %s %s\n", it.ID, it.Date, it.Time, it.Title)
				}
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&date, "date", "", "Start date, YYYY-MM-DD")
	f.StringVar(&clock, "time", "", "Start time, HH:MM")
	f.StringVar(&end, "end", "", "End time, HH:MM")
	f.StringVar(&description, "description", "", "Details, markdown allowed")
	f.StringVar(&category, "category", "", "work, personal, family or other (default from settings)")
	f.StringVar(&priority, "priority", "", "high, medium or low")
	f.StringVar(&sound, "sound", "", "Reminder sound name")
	f.IntVar(&remind, "remind", 0, "Minutes before start to remind (default from settings)")
	f.BoolVar(&noRemind, "no-remind", false, "Do not remind for this schedule")
	f.StringVar(&repeat, "repeat", "", "daily, weekly, monthly or yearly")
	f.StringVar(&until, "until", "", "Last date of the repetition, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

type listFlags struct {
	view       string
	search     string
	categories []string
	priorities []string
	from, to   string
	sort       string
	days       int
}

func newListCmd(opts *options) *cobra.Command {
	lf := listFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				list, err := lf.apply(a)
				if err != nil {
					return err
				}
				printSchedules(cmd.OutOrStdout(), a, list)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&lf.view, "view", "all", "today, upcoming, all, past or archived")
	f.StringVar(&lf.search, "search", "", "Match title or description")
	f.StringSliceVar(&lf.categories, "category", nil, "Only these categories")
	f.StringSliceVar(&lf.priorities, "priority", nil, "Only these priorities")
	f.StringVar(&lf.from, "from", "", "First date, YYYY-MM-DD")
	f.StringVar(&lf.to, "to", "", "Last date, YYYY-MM-DD")
	f.StringVar(&lf.sort, "sort", "time", "time, priority, title or category")
	f.IntVar(&lf.days, "days", 7, "Horizon of the upcoming view in days")
	return cmd
}

func (lf listFlags) apply(a *app.App) ([]model.Schedule, error) {
	now := a.Now()
	var list []model.Schedule
	switch lf.view {
	case "today":
		list = a.Repo.Today(now)
	case "upcoming":
		list = a.Repo.Upcoming(now, lf.days)
	case "past":
		list = a.Repo.Past(now)
	case "archived", "all":
		for _, s := range a.Repo.List() {
			if s.Archived == (lf.view == "archived") {
				list = append(list, s)
			}
		}
	default:
		return nil, fmt.Errorf("unknown view %q", lf.view)
	}
	if lf.search != "" {
		keep := make(map[string]bool)
		for _, s := range a.Repo.Search(lf.search) {
			keep[s.ID] = true
		}
		matched := make([]model.Schedule, 0, len(list))
		for _, s := range list {
			if keep[s.ID] {
				matched = append(matched, s)
			}
		}
		list = matched
	}

	var c repository.Criteria
	for _, v := range lf.categories {
		c.Categories = append(c.Categories, model.Category(v))
	}
	for _, v := range lf.priorities {
		c.Priorities = append(c.Priorities, model.Priority(v))
	}
	if lf.from != "" || lf.to != "" {
		c.DateRange = &repository.DateRange{Start: lf.from, End: lf.to}
	}
	key, err := repository.ParseSortKey(lf.sort)
	if err != nil {
		return nil, err
	}
	list = repository.Filter(list, c)
	if lf.view == "past" && key == repository.SortTime {
		return list, nil
	}
	return repository.Sort(list, key), nil
}

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search schedules by title or description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				printSchedules(cmd.OutOrStdout(), a, a.Repo.Search(strings.Join(args, " ")))
				return nil
			})
		},
	}
}

type markFunc func(cmd *cobra.Command, a *app.App, id string) (string, error)

func markDone(cmd *cobra.Command, a *app.App, id string) (string, error) {
	return "completed", a.CompleteSchedule(cmd.Context(), id, true)
}

func markUndo(cmd *cobra.Command, a *app.App, id string) (string, error) {
	return "reopened", a.CompleteSchedule(cmd.Context(), id, false)
}

func markArchive(cmd *cobra.Command, a *app.App, id string) (string, error) {
	return "archived", a.ArchiveSchedule(cmd.Context(), id)
}

func markRestore(cmd *cobra.Command, a *app.App, id string) (string, error) {
	return "restored", a.RestoreSchedule(cmd.Context(), id)
}

func newMarkCmd(opts *options, use, short string, fn markFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				verb, err := fn(cmd, a, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, args[0])
				return nil
			})
		},
	}
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete schedules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				if err := a.DeleteSchedules(cmd.Context(), args...); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d schedule(s)\n", len(args))
				return nil
			})
		},
	}
}

func printSchedules(w io.Writer, a *app.App, list []model.Schedule) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no schedules")
		return
	}
	for _, s := range list {
		when := s.Time
		if s.EndTime != "" {
			when += "-" + s.EndTime
		}
		fmt.Fprintf(w, "%s  %s %-11s %-12s %-8s %-6s %s\n",
			s.ID, s.Date, when, a.Status(s), s.Category, s.Priority, s.Title)
	}
}
