// Package history keeps the ledger of delivered notifications, newest
// first and capped at MaxEntries.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const MaxEntries = 100

type Entry struct {
	ID         string    `json:"id"`
	ScheduleID string    `json:"scheduleId,omitempty"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
	Read       bool      `json:"read"`
}

// NewID returns a history entry id of the form "nh_<uuid>".
func NewID() string {
	return "nh_" + uuid.New().String()
}

type Backend interface {
	LoadHistory(ctx context.Context) []Entry
	SaveHistory(ctx context.Context, entries []Entry) error
}

type Log struct {
	mu      sync.Mutex
	backend Backend
	entries []Entry
	now     func() time.Time
}

func NewLog(ctx context.Context, backend Backend) *Log {
	loaded := backend.LoadHistory(ctx)
	if len(loaded) > MaxEntries {
		loaded = loaded[:MaxEntries]
	}
	entries := make([]Entry, len(loaded))
	copy(entries, loaded)
	return &Log{backend: backend, entries: entries, now: time.Now}
}

// Append prepends e, drops the oldest entries past MaxEntries and persists.
// Missing ID and CreatedAt are filled in.
func (l *Log) Append(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = l.now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]Entry, 0, min(len(l.entries)+1, MaxEntries))
	next = append(next, e)
	next = append(next, l.entries...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	l.entries = next
	return e, l.backend.SaveHistory(ctx, l.snapshot())
}

func (l *Log) MarkAllRead(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		l.entries[i].Read = true
	}
	return l.backend.SaveHistory(ctx, l.snapshot())
}

func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = []Entry{}
	return l.backend.SaveHistory(ctx, l.snapshot())
}

func (l *Log) CountUnread() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if !e.Read {
			n++
		}
	}
	return n
}

// Entries returns a copy, newest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Log) snapshot() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}
