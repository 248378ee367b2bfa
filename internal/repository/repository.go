// Package repository is the in-memory schedule collection. Every mutation
// writes the full collection through the Backend and then notifies
// subscribers.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/remindflow/internal/log"
	"github.com/sandeepkv93/remindflow/internal/model"
)

var (
	ErrNotFound    = errors.New("repository: schedule not found")
	ErrDuplicateID = errors.New("repository: duplicate schedule id")
)

type Backend interface {
	LoadSchedules(ctx context.Context) []model.Schedule
	SaveSchedules(ctx context.Context, list []model.Schedule) error
}

// NewID returns a schedule id of the form "schedule_<uuid>".
func NewID() string {
	return "schedule_" + uuid.New().String()
}

type Repository struct {
	mu        sync.RWMutex
	backend   Backend
	items     []model.Schedule
	listeners []func([]model.Schedule)
}

// Load reads the persisted collection and runs one archival sweep at now.
func Load(ctx context.Context, backend Backend, now time.Time) *Repository {
	r := &Repository{backend: backend, items: backend.LoadSchedules(ctx)}
	if _, err := r.Sweep(ctx, now); err != nil {
		log.Error("initial archive sweep failed", err)
	}
	return r
}

// Subscribe registers fn to run with a snapshot after every mutation.
func (r *Repository) Subscribe(fn func([]model.Schedule)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// List returns a copy in insertion order.
func (r *Repository) List() []model.Schedule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

func (r *Repository) Get(id string) (model.Schedule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.items[i], true
	}
	return model.Schedule{}, false
}

// Add appends s, assigning an id when absent and defaulting the status.
func (r *Repository) Add(ctx context.Context, s model.Schedule) (model.Schedule, error) {
	if strings.TrimSpace(s.ID) == "" {
		s.ID = NewID()
	}
	if s.Status == "" {
		s.Status = model.StatusPending
	}
	err := r.mutate(ctx, func(items []model.Schedule) ([]model.Schedule, bool, error) {
		for _, it := range items {
			if it.ID == s.ID {
				return nil, false, fmt.Errorf("%w: %q", ErrDuplicateID, s.ID)
			}
		}
		return append(items, s), true, nil
	})
	if err != nil {
		return model.Schedule{}, err
	}
	return s, nil
}

// AddMany appends every schedule with a single persistence write.
func (r *Repository) AddMany(ctx context.Context, list []model.Schedule) ([]model.Schedule, error) {
	added := make([]model.Schedule, 0, len(list))
	err := r.mutate(ctx, func(items []model.Schedule) ([]model.Schedule, bool, error) {
		seen := make(map[string]struct{}, len(items)+len(list))
		for _, it := range items {
			seen[it.ID] = struct{}{}
		}
		for _, s := range list {
			if strings.TrimSpace(s.ID) == "" {
				s.ID = NewID()
			}
			if s.Status == "" {
				s.Status = model.StatusPending
			}
			if _, dup := seen[s.ID]; dup {
				return nil, false, fmt.Errorf("%w: %q", ErrDuplicateID, s.ID)
			}
			seen[s.ID] = struct{}{}
			items = append(items, s)
			added = append(added, s)
		}
		return items, len(added) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// Update merges the set fields of p into the schedule with id. A missing
// id is a no-op.
func (r *Repository) Update(ctx context.Context, id string, p Patch) error {
	return r.mutate(ctx, func(items []model.Schedule) ([]model.Schedule, bool, error) {
		i := indexIn(items, id)
		if i < 0 {
			return items, false, nil
		}
		items[i] = p.Apply(items[i])
		return items, true, nil
	})
}

func (r *Repository) Complete(ctx context.Context, id string, completed bool) error {
	status := model.StatusPending
	if completed {
		status = model.StatusCompleted
	}
	return r.Update(ctx, id, Patch{Status: &status})
}

// SetArchived flags or restores a schedule by hand.
func (r *Repository) SetArchived(ctx context.Context, id string, archived bool) error {
	return r.Update(ctx, id, Patch{Archived: &archived})
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.DeleteMany(ctx, []string{id})
}

func (r *Repository) DeleteMany(ctx context.Context, ids []string) error {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	return r.mutate(ctx, func(items []model.Schedule) ([]model.Schedule, bool, error) {
		kept := items[:0]
		for _, it := range items {
			if _, ok := drop[it.ID]; !ok {
				kept = append(kept, it)
			}
		}
		return kept, len(kept) != len(items), nil
	})
}

// Sweep flags every schedule whose derived status at now is archived and
// returns how many were flagged. Running it again without time passing
// changes nothing.
func (r *Repository) Sweep(ctx context.Context, now time.Time) (int, error) {
	flagged := 0
	err := r.mutate(ctx, func(items []model.Schedule) ([]model.Schedule, bool, error) {
		for i := range items {
			if model.ShouldArchive(items[i], now) {
				items[i].Archived = true
				flagged++
			}
		}
		return items, flagged > 0, nil
	})
	return flagged, err
}

// mutate runs fn on a working copy. When fn reports a change the copy is
// persisted, committed and broadcast. A failed write keeps the in-memory
// change and is returned to the caller.
func (r *Repository) mutate(ctx context.Context, fn func([]model.Schedule) ([]model.Schedule, bool, error)) error {
	r.mu.Lock()
	next, changed, err := fn(r.snapshot())
	if err != nil || !changed {
		r.mu.Unlock()
		return err
	}
	r.items = next
	snap := r.snapshot()
	listeners := append([]func([]model.Schedule){}, r.listeners...)
	saveErr := r.backend.SaveSchedules(ctx, snap)
	r.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return saveErr
}

func (r *Repository) snapshot() []model.Schedule {
	out := make([]model.Schedule, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Repository) indexOf(id string) int {
	return indexIn(r.items, id)
}

func indexIn(items []model.Schedule, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
