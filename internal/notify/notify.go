// Package notify delivers reminders to the user and tracks the
// notification permission state.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrPermissionDenied = errors.New("notify: permission not granted")

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notification is one visible reminder. Expire is how long it stays on
// screen; zero leaves it to the sink.
type Notification struct {
	Tag    string
	Title  string
	Body   string
	Sound  string
	Expire time.Duration
}

type Sink interface {
	Permission() Permission
	// RequestPermission asks once; granted and denied are final.
	RequestPermission(ctx context.Context) (Permission, error)
	Display(ctx context.Context, n Notification) error
}

// Noop accepts and discards every notification.
type Noop struct{}

func (Noop) Permission() Permission { return PermissionGranted }

func (Noop) RequestPermission(context.Context) (Permission, error) { return PermissionGranted, nil }

func (Noop) Display(context.Context, Notification) error { return nil }

// Channel forwards notifications to an in-process consumer such as the
// TUI. A full buffer drops the notification.
type Channel struct {
	ch chan Notification
}

func NewChannel(buffer int) *Channel {
	if buffer <= 0 {
		buffer = 1
	}
	return &Channel{ch: make(chan Notification, buffer)}
}

func (c *Channel) C() <-chan Notification { return c.ch }

func (c *Channel) Permission() Permission { return PermissionGranted }

func (c *Channel) RequestPermission(context.Context) (Permission, error) {
	return PermissionGranted, nil
}

func (c *Channel) Display(_ context.Context, n Notification) error {
	select {
	case c.ch <- n:
		return nil
	default:
		return errors.New("notify: channel full")
	}
}

// Fanout displays on every granted sink. Its permission is granted when any
// member is granted.
type Fanout struct {
	mu    sync.Mutex
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Permission() Permission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return combine(f.sinks, func(s Sink) Permission { return s.Permission() })
}

func (f *Fanout) RequestPermission(ctx context.Context) (Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var errs []error
	p := combine(f.sinks, func(s Sink) Permission {
		got, err := s.RequestPermission(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		return got
	})
	return p, errors.Join(errs...)
}

func (f *Fanout) Display(ctx context.Context, n Notification) error {
	f.mu.Lock()
	sinks := append([]Sink{}, f.sinks...)
	f.mu.Unlock()
	var errs []error
	shown := false
	for _, s := range sinks {
		if s.Permission() != PermissionGranted {
			continue
		}
		if err := s.Display(ctx, n); err != nil {
			errs = append(errs, err)
			continue
		}
		shown = true
	}
	if !shown && len(errs) == 0 {
		return ErrPermissionDenied
	}
	return errors.Join(errs...)
}

func combine(sinks []Sink, get func(Sink) Permission) Permission {
	out := PermissionDenied
	if len(sinks) == 0 {
		return out
	}
	for _, s := range sinks {
		switch get(s) {
		case PermissionGranted:
			out = PermissionGranted
		case PermissionDefault:
			if out != PermissionGranted {
				out = PermissionDefault
			}
		}
	}
	return out
}
