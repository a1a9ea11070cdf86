package runtime

import (
	"msn-reimagined/contract"
	"sort"
	"sync"
	"time"
)

// ClockScheduler schedules callbacks on the wall clock.
type ClockScheduler struct{}

func NewClockScheduler() ClockScheduler {
	return ClockScheduler{}
}

func (ClockScheduler) After(d time.Duration, fn func()) contract.Timer {
	return time.AfterFunc(d, fn)
}

// ManualScheduler is a deterministic clock driven by Advance.
// Callbacks run on the goroutine calling Advance, outside the scheduler lock,
// so they may schedule or stop other timers.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Time
	nextSeq uint64
	timers  map[uint64]*manualTimer
}

type manualTimer struct {
	scheduler *ManualScheduler
	seq       uint64
	due       time.Time
	fn        func()
}

func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start, timers: make(map[uint64]*manualTimer)}
}

func (s *ManualScheduler) After(d time.Duration, fn func()) contract.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	t := &manualTimer{scheduler: s, seq: s.nextSeq, due: s.now.Add(d), fn: fn}
	s.timers[t.seq] = t
	return t
}

func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending counts the timers that have neither fired nor been stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Advance moves the clock forward by d and fires every timer that became due,
// ordered by due time then by scheduling order. Timers scheduled by a callback
// fire within the same call when they fall inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		delete(s.timers, next.seq)
		s.now = next.due
		s.mu.Unlock()

		next.fn()
	}
}

func (s *ManualScheduler) nextDue(target time.Time) *manualTimer {
	due := make([]*manualTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if !t.due.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	return due[0]
}

func (t *manualTimer) Stop() bool {
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()
	if _, ok := t.scheduler.timers[t.seq]; !ok {
		return false
	}
	delete(t.scheduler.timers, t.seq)
	return true
}
