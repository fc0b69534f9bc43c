package toast

import (
	"sync"
	"time"
)

// Timer is a pending deferred call.
type Timer interface {
	Stop() bool
}

// Clock creates deferred calls. It exists so tests can fire expiries
// without waiting on wall-clock time.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Scheduler owns the expiry timers for dismissed toasts, keyed by toast id.
// At most one timer exists per id.
type Scheduler struct {
	clock  Clock
	delay  time.Duration
	expire func(id string)

	mu     sync.Mutex
	timers map[string]Timer
}

// NewScheduler returns a scheduler that calls expire(id) delay after
// Schedule(id).
func NewScheduler(clock Clock, delay time.Duration, expire func(id string)) *Scheduler {
	if clock == nil {
		clock = realClock{}
	}
	return &Scheduler{
		clock:  clock,
		delay:  delay,
		expire: expire,
		timers: make(map[string]Timer),
	}
}

// Schedule starts the expiry timer for id unless one is already registered.
// It reports whether a new timer was started.
func (s *Scheduler) Schedule(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timers == nil {
		return false
	}
	if _, ok := s.timers[id]; ok {
		return false
	}

	s.timers[id] = s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if _, ok := s.timers[id]; !ok {
			// stopped while firing
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		s.mu.Unlock()

		s.expire(id)
	})
	return true
}

// Pending reports whether an expiry timer is registered for id.
func (s *Scheduler) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[id]
	return ok
}

// Len returns the number of registered timers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending timer. Schedule is a no-op afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	timers := s.timers
	s.timers = nil
	s.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
}
