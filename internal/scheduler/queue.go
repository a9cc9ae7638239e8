package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrDisposed is returned when arming a queue that has been disposed.
var ErrDisposed = errors.New("scheduler disposed")

type Kind string

const (
	KindTaskDue     Kind = "task-due"
	KindTaskOverdue Kind = "task-overdue"
	KindHabit       Kind = "habit"
	KindPrayerPoll  Kind = "prayer-poll"
	KindHabitDigest Kind = "habit-digest"
	KindHabitWeekly Kind = "habit-weekly"
)

// Key identifies a timer. At most one timer exists per key.
type Key struct {
	Kind Kind
	ID   string
}

func (k Key) String() string {
	if k.ID == "" {
		return string(k.Kind)
	}
	return string(k.Kind) + "-" + k.ID
}

// Clock abstracts time so tests can drive the queue.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Callback runs on the goroutine calling Tick. at is the time it was armed for.
type Callback func(ctx context.Context, at time.Time)

type entry struct {
	key   Key
	at    time.Time
	seq   uint64
	fn    Callback
	index int
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Queue is a delay queue of keyed one-shot callbacks. Callbacks run one at a
// time from Tick; none run concurrently.
type Queue struct {
	mu       sync.Mutex
	clock    Clock
	entries  entryHeap
	byKey    map[Key]*entry
	seq      uint64
	disposed bool
	wake     chan struct{}
}

func NewQueue(clock Clock) *Queue {
	if clock == nil {
		clock = realClock{}
	}
	return &Queue{
		clock: clock,
		byKey: make(map[Key]*entry),
		wake:  make(chan struct{}, 1),
	}
}

// Arm schedules fn for at, replacing any timer already armed under key.
func (q *Queue) Arm(key Key, at time.Time, fn Callback) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.disposed {
		return ErrDisposed
	}
	q.removeLocked(key)

	q.seq++
	e := &entry{key: key, at: at, seq: q.seq, fn: fn}
	heap.Push(&q.entries, e)
	q.byKey[key] = e
	q.notify()
	return nil
}

// Cancel removes the timer for key and reports whether one was armed.
func (q *Queue) Cancel(key Key) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.removeLocked(key)
}

func (q *Queue) removeLocked(key Key) bool {
	e, ok := q.byKey[key]
	if !ok {
		return false
	}
	delete(q.byKey, key)
	if e.index >= 0 {
		heap.Remove(&q.entries, e.index)
	}
	return true
}

// Pending returns the fire time armed for key.
func (q *Queue) Pending(key Key) (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.byKey[key]
	if !ok {
		return time.Time{}, false
	}
	return e.at, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.byKey)
}

// Keys returns the armed keys ordered by fire time.
func (q *Queue) Keys() []Key {
	q.mu.Lock()
	all := make([]*entry, 0, len(q.byKey))
	for _, e := range q.byKey {
		all = append(all, e)
	}
	q.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		return entryHeap(all).Less(i, j)
	})
	keys := make([]Key, len(all))
	for i, e := range all {
		keys[i] = e.key
	}
	return keys
}

// Tick runs every callback due at or before now and returns how many ran.
// Timers armed by those callbacks wait for the next tick.
func (q *Queue) Tick(ctx context.Context, now time.Time) int {
	q.mu.Lock()
	limit := q.seq
	q.mu.Unlock()

	var deferred []*entry
	fired := 0
	for {
		q.mu.Lock()
		if q.disposed || len(q.entries) == 0 || q.entries[0].at.After(now) {
			q.mu.Unlock()
			break
		}
		e := heap.Pop(&q.entries).(*entry)
		if e.seq > limit {
			deferred = append(deferred, e)
			q.mu.Unlock()
			continue
		}
		delete(q.byKey, e.key)
		q.mu.Unlock()

		e.fn(ctx, e.at)
		fired++
	}

	q.mu.Lock()
	for _, e := range deferred {
		if !q.disposed && q.byKey[e.key] == e {
			heap.Push(&q.entries, e)
		}
	}
	q.mu.Unlock()
	return fired
}

func (q *Queue) next() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return time.Time{}, false
	}
	return q.entries[0].at, true
}

func (q *Queue) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Run sleeps until the earliest timer is due and ticks, until ctx is done or
// the queue is disposed.
func (q *Queue) Run(ctx context.Context) error {
	for {
		if q.isDisposed() {
			return ErrDisposed
		}

		var timer <-chan time.Time
		if at, ok := q.next(); ok {
			d := at.Sub(q.clock.Now())
			if d < 0 {
				d = 0
			}
			timer = q.clock.After(d)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
		case now := <-timer:
			q.Tick(ctx, now)
		}
	}
}

func (q *Queue) isDisposed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.disposed
}

// Dispose cancels every timer. The queue cannot be armed afterwards.
func (q *Queue) Dispose() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
	q.byKey = make(map[Key]*entry)
	q.disposed = true
	q.notify()
}
