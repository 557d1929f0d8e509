// Package regen drives per-resource regeneration: a simulated-time callback
// queue and the delay-then-tick state machine that refills HP, MP and AP.
package regen

import (
	"container/heap"
	"time"
)

// Handle identifies one scheduled callback.
type Handle struct {
	at    time.Duration
	seq   uint64
	fn    func()
	index int // position in the queue; -1 once fired or cancelled
	s     *Scheduler
}

// At returns the simulated time the callback is due.
func (h *Handle) At() time.Duration { return h.at }

// Active reports whether the callback is still waiting to fire.
func (h *Handle) Active() bool { return h != nil && h.index >= 0 }

// Cancel removes the callback from the queue.
//
// Postcondition: the callback never fires; returns false if it already fired or was cancelled.
func (h *Handle) Cancel() bool {
	if !h.Active() {
		return false
	}
	heap.Remove(&h.s.queue, h.index)
	h.index = -1
	return true
}

type eventQueue []*Handle

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *eventQueue) Push(x any) {
	h := x.(*Handle)
	h.index = len(*q)
	*q = append(*q, h)
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	h := old[n-1]
	old[n-1] = nil
	h.index = -1
	*q = old[:n-1]
	return h
}

// Scheduler is a queue of callbacks keyed by simulated time. Callbacks run
// on the goroutine that calls Advance, in due-time order; ties fire in the
// order they were scheduled.
//
// A Scheduler is not safe for concurrent use.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue eventQueue
}

// NewScheduler returns an empty scheduler at simulated time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current simulated time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Pending returns the number of callbacks waiting to fire.
func (s *Scheduler) Pending() int { return len(s.queue) }

// At schedules fn at simulated time t. A time in the past fires on the next Advance.
//
// Precondition: fn must not be nil.
func (s *Scheduler) At(t time.Duration, fn func()) *Handle {
	if fn == nil {
		panic("regen.Scheduler.At: fn must not be nil")
	}
	s.seq++
	h := &Handle{at: t, seq: s.seq, fn: fn, s: s}
	heap.Push(&s.queue, h)
	return h
}

// After schedules fn d after the current simulated time.
func (s *Scheduler) After(d time.Duration, fn func()) *Handle {
	return s.At(s.now+d, fn)
}

// Advance moves simulated time forward by dt and fires every callback that
// comes due, including ones scheduled by callbacks during this call.
//
// Precondition: dt >= 0.
// Postcondition: Now() has grown by dt; returns the number of callbacks fired.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt < 0 {
		panic("regen.Scheduler.Advance: dt must be >= 0")
	}
	target := s.now + dt
	fired := 0
	for len(s.queue) > 0 && s.queue[0].at <= target {
		h := heap.Pop(&s.queue).(*Handle)
		s.now = max(s.now, h.at)
		h.fn()
		fired++
	}
	s.now = target
	return fired
}
