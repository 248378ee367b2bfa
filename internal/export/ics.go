package export

import (
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sandeepkv93/remindflow/internal/model"
)

const icsLocalLayout = "20060102T150405"

// ICS writes one VEVENT per schedule. Timed schedules carry floating local
// DTSTART/DTEND values; schedules without a time become all-day events.
// Schedules with an unparseable date are skipped.
func ICS(w io.Writer, list []model.Schedule, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.SetProductId("-//remindflow//remindflow//JA")
	cal.SetMethod(ical.MethodPublish)

	for _, s := range list {
		day, err := model.ParseDate(s.Date, time.UTC)
		if err != nil {
			continue
		}
		ev := cal.AddEvent(s.ID + "@remindflow")
		ev.SetDtStampTime(stamp)
		if strings.TrimSpace(s.Time) == "" {
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		} else {
			start, end, err := model.Bounds(s, time.UTC)
			if err != nil {
				ev.SetAllDayStartAt(day)
				ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
			} else {
				ev.SetProperty(ical.ComponentPropertyDtStart, start.Format(icsLocalLayout))
				ev.SetProperty(ical.ComponentPropertyDtEnd, end.Format(icsLocalLayout))
			}
		}
		ev.SetSummary(s.Title)
		if s.Description != "" {
			ev.SetDescription(s.Description)
		}
		ev.SetProperty(ical.ComponentPropertyCategories, string(s.Category))
	}
	_, err := io.WriteString(w, cal.Serialize())
	return err
}
