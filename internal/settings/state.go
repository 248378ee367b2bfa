package settings

import (
	"context"
	"sync"
)

// Backend loads and stores the full settings object.
type Backend interface {
	LoadSettings(ctx context.Context) Settings
	SaveSettings(ctx context.Context, s Settings) error
}

// State is the process-wide settings holder. Every save writes the
// complete object and then notifies subscribers.
type State struct {
	mu        sync.RWMutex
	backend   Backend
	current   Settings
	listeners []func(Settings)
}

func NewState(ctx context.Context, backend Backend) *State {
	return &State{backend: backend, current: backend.LoadSettings(ctx)}
}

func (s *State) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload re-reads the persisted settings.
func (s *State) Reload(ctx context.Context) Settings {
	next := s.backend.LoadSettings(ctx)
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return next
}

// Subscribe registers fn to run after every successful save.
func (s *State) Subscribe(fn func(Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Save replaces the settings wholesale.
func (s *State) Save(ctx context.Context, next Settings) error {
	next = next.normalized()
	if err := s.backend.SaveSettings(ctx, next); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = next
	listeners := append([]func(Settings){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(next)
	}
	return nil
}

// Update applies fn to a copy of the current settings and saves the result.
func (s *State) Update(ctx context.Context, fn func(*Settings)) (Settings, error) {
	next := s.Current()
	fn(&next)
	if err := s.Save(ctx, next); err != nil {
		return s.Current(), err
	}
	return s.Current(), nil
}
