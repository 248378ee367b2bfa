package update

import (
	"time"

	"github.com/sandeepkv93/remindflow/internal/model"
)

const previewLimit = 5

// occurrencePreview lists the next dates a recurring schedule repeats on,
// up to its end date or one year past its own date.
func occurrencePreview(s model.Schedule, limit int) []string {
	if !s.Recurrence.Type.IsValid() || s.Recurrence.Type == model.RecurrenceNone {
		return nil
	}
	end := s.Recurrence.EndDate
	if end == "" {
		start, err := model.ParseDate(s.Date, time.UTC)
		if err != nil {
			return nil
		}
		end = start.AddDate(1, 0, 0).Format(model.DateLayout)
	}
	list, err := model.GenerateRecurring(s, end)
	if err != nil {
		return nil
	}
	out := make([]string, 0, limit)
	for _, inst := range list {
		if len(out) == limit {
			break
		}
		out = append(out, inst.Date+" "+inst.Time)
	}
	return out
}
