package scheduler

import (
	"container/heap"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidFireTime = errors.New("scheduler: invalid fire time")
	ErrEngineStopped   = errors.New("scheduler: engine stopped")
)

// Alarm is one armed reminder. Key identifies the (schedule, reminder
// instant) pair; an engine holds at most one alarm per key.
type Alarm struct {
	Key        string
	ScheduleID string
	FireAt     time.Time
	StartAt    time.Time
}

func AlarmKey(scheduleID string, fireAt time.Time) string {
	return scheduleID + "@" + fireAt.UTC().Format(time.RFC3339Nano)
}

type queueItem struct {
	alarm Alarm
	index int
}

type alarmQueue []*queueItem

func (q alarmQueue) Len() int { return len(q) }

func (q alarmQueue) Less(i, j int) bool {
	return q[i].alarm.FireAt.Before(q[j].alarm.FireAt)
}

func (q alarmQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *alarmQueue) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *alarmQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[0 : n-1]
	return item
}

// Engine fires one-shot alarms at their exact instant from a single
// goroutine. Fired alarms go to C(); when the consumer lags and the buffer
// is full the alarm is dropped and counted.
type Engine struct {
	mu      sync.Mutex
	queue   alarmQueue
	pending map[string]*queueItem
	out     chan Alarm
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:   make(alarmQueue, 0),
		pending: make(map[string]*queueItem),
		out:     make(chan Alarm, bufferSize),
		wakeup:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Alarm {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

// Stop cancels every pending alarm and closes C().
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Arm queues a. It reports false when an alarm with the same key is
// already pending.
func (e *Engine) Arm(a Alarm) (bool, error) {
	if a.FireAt.IsZero() {
		return false, ErrInvalidFireTime
	}
	if a.Key == "" {
		a.Key = AlarmKey(a.ScheduleID, a.FireAt)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return false, ErrEngineStopped
	}
	if _, ok := e.pending[a.Key]; ok {
		return false, nil
	}
	item := &queueItem{alarm: a}
	heap.Push(&e.queue, item)
	e.pending[a.Key] = item
	e.signalWakeup()
	return true, nil
}

func (e *Engine) Cancel(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok := e.pending[key]
	if !ok {
		return false
	}
	e.remove(item)
	e.signalWakeup()
	return true
}

// CancelWhere drops every pending alarm matching fn and returns them.
func (e *Engine) CancelWhere(fn func(Alarm) bool) []Alarm {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Alarm
	for _, item := range e.pending {
		if fn(item.alarm) {
			e.remove(item)
			out = append(out, item.alarm)
		}
	}
	if len(out) > 0 {
		e.signalWakeup()
	}
	return out
}

// Pending lists armed alarms ordered by fire time.
func (e *Engine) Pending() []Alarm {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Alarm, 0, len(e.pending))
	for _, item := range e.pending {
		out = append(out, item.alarm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) remove(item *queueItem) {
	if item.index >= 0 {
		heap.Remove(&e.queue, item.index)
	}
	delete(e.pending, item.alarm.Key)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, a := range e.popDue(time.Now()) {
				select {
				case e.out <- a:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Alarm, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Alarm{}, false
	}
	return e.queue[0].alarm, true
}

func (e *Engine) popDue(now time.Time) []Alarm {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Alarm, 0)
	for len(e.queue) > 0 {
		if e.queue[0].alarm.FireAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(*queueItem)
		delete(e.pending, item.alarm.Key)
		out = append(out, item.alarm)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
