// Package export renders schedules as CSV, iCalendar and JSON backups, and
// parses JSON backups for import.
package export

import (
	"io"
	"strings"

	"github.com/sandeepkv93/remindflow/internal/model"
)

var csvHeader = []string{"件名", "日付", "開始時間", "終了時間", "カテゴリ", "優先度", "ステータス", "詳細"}

// CSV writes a header row and one row per schedule. Every field is quoted.
func CSV(w io.Writer, list []model.Schedule) error {
	rows := make([]string, 0, len(list)+1)
	rows = append(rows, csvRow(csvHeader))
	for _, s := range list {
		status := string(s.Status)
		if status == "" {
			status = string(model.StatusPending)
		}
		rows = append(rows, csvRow([]string{
			s.Title,
			s.Date,
			s.Time,
			s.EndTime,
			string(s.Category),
			string(s.Priority),
			status,
			s.Description,
		}))
	}
	_, err := io.WriteString(w, strings.Join(rows, "\n")+"\n")
	return err
}

func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = csvQuote(f)
	}
	return strings.Join(quoted, ",")
}

// csvQuote wraps a field in quotes, doubling any quote inside it.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
