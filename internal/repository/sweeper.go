package repository

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sandeepkv93/remindflow/internal/log"
)

// Sweeper runs the archival sweep on a cron cadence.
type Sweeper struct {
	mu       sync.Mutex
	repo     *Repository
	cron     *cron.Cron
	interval time.Duration
	now      func() time.Time
	entry    cron.EntryID
	armed    bool
}

func NewSweeper(repo *Repository, c *cron.Cron, interval time.Duration, now func() time.Time) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{repo: repo, cron: c, interval: interval, now: now}
}

// Start arms the periodic sweep, replacing any previous entry.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armed {
		s.cron.Remove(s.entry)
	}
	s.entry = s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(s.run))
	s.armed = true
}

func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armed {
		s.cron.Remove(s.entry)
		s.armed = false
	}
}

func (s *Sweeper) run() {
	n, err := s.repo.Sweep(context.Background(), s.now())
	if err != nil {
		log.Error("archive sweep failed", err)
		return
	}
	if n > 0 {
		log.Info("archived past schedules", "count", n)
	}
}
