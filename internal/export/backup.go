package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sandeepkv93/remindflow/internal/model"
	"github.com/sandeepkv93/remindflow/internal/settings"
)

var ErrInvalidImport = errors.New("export: invalid import file")

// Backup is the JSON export document.
type Backup struct {
	Schedules []model.Schedule  `json:"schedules"`
	Settings  settings.Settings `json:"settings"`
}

func JSON(w io.Writer, list []model.Schedule, s settings.Settings) error {
	if list == nil {
		list = []model.Schedule{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Backup{Schedules: list, Settings: s})
}

// Import is a parsed import document. Settings is nil when the document
// has none. Schedules may lack ids; the caller assigns them.
type Import struct {
	Schedules []model.Schedule
	Settings  *settings.Settings
	Skipped   int
}

type importDoc struct {
	Schedules []json.RawMessage `json:"schedules"`
	Settings  json.RawMessage   `json:"settings"`
}

// ParseImport decodes a backup document. Each schedule is decoded over the
// creation defaults, so missing reminder and recurrence fields keep their
// default values. Records without a title or with a bad date or time are
// skipped.
func ParseImport(r io.Reader) (Import, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Import{}, fmt.Errorf("export: read import: %w", err)
	}
	var doc importDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Import{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	out := Import{Schedules: make([]model.Schedule, 0, len(doc.Schedules))}
	if s := bytes.TrimSpace(doc.Settings); len(s) > 0 && !bytes.Equal(s, []byte("null")) {
		merged, err := settings.Merge(s)
		if err != nil {
			return Import{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		out.Settings = &merged
	}
	for _, item := range doc.Schedules {
		s := model.NewSchedule()
		if err := json.Unmarshal(item, &s); err != nil {
			out.Skipped++
			continue
		}
		s = model.Normalize(s)
		if !importable(s) {
			out.Skipped++
			continue
		}
		out.Schedules = append(out.Schedules, s)
	}
	return out, nil
}

func importable(s model.Schedule) bool {
	if strings.TrimSpace(s.ID) == "" {
		s.ID = "pending"
	}
	return s.Validate() == nil
}
