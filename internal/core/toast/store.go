package toast

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/toaster/internal/core/logging"
)

// Listener receives a snapshot of the toast list after every dispatch.
//
// Listeners are called in registration order. A listener may call any Store
// method, including Notify or Dismiss. Operations issued during delivery are
// applied immediately and their snapshots are delivered after the current one
// finishes, so every listener still sees snapshots in dispatch order.
type Listener func(toasts []Toast)

// Hooks observe store activity. Hooks run inside dispatch, after listeners.
type Hooks struct {
	OnOp func(op Op, toasts []Toast)
}

// Option configures a Store.
type Option func(*Store)

// WithLimit sets the maximum number of toasts held at once.
func WithLimit(n int) Option {
	return func(s *Store) { s.limit = n }
}

// WithRemoveDelay sets the delay between dismissal and removal.
func WithRemoveDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

// WithClock replaces the wall clock used for expiry timers.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithHooks registers store hooks.
func WithHooks(h Hooks) Option {
	return func(s *Store) { s.hooks = h }
}

type listener struct {
	fn func(version uint64, toasts []Toast)
}

// delivery is a reduced snapshot waiting to be broadcast.
type delivery struct {
	op      Op
	version uint64
	toasts  []Toast
}

// Store is the single source of truth for active toasts. All mutations go
// through dispatch, which reduces the current list to a new one and queues
// the result for broadcast. The call that finds the queue idle drains it and
// returns once every queued snapshot is delivered. A call made while a drain
// is running returns after its state change is applied, and the running
// drain delivers its snapshot.
//
// A Store is meant to be constructed once at startup, passed to the
// components that need it, and closed at shutdown.
type Store struct {
	limit int
	delay time.Duration
	clock Clock
	log   zerolog.Logger
	hooks Hooks

	ids   idGen
	sched *Scheduler

	dispatchMu sync.Mutex
	closed     bool
	outbox     []delivery
	delivering bool

	stateMu sync.RWMutex
	toasts  []Toast
	version uint64

	listenersMu sync.Mutex
	listeners   []*listener
}

// New constructs a Store. Without options it holds DefaultLimit toasts and
// removes dismissed toasts after DefaultRemoveDelay.
func New(opts ...Option) *Store {
	s := &Store{
		limit:  DefaultLimit,
		delay:  DefaultRemoveDelay,
		log:    logging.Component("toast"),
		toasts: []Toast{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sched = NewScheduler(s.clock, s.delay, s.expire)
	return s
}

// Limit returns the maximum number of toasts held at once.
func (s *Store) Limit() int {
	return s.limit
}

// Notify creates a new open toast from p, inserts it at the head of the list
// and returns a handle to it.
func (s *Store) Notify(p Payload) Handle {
	id := s.ids.next()
	h := Handle{ID: id, store: s}

	t := Toast{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Variant:     p.Variant,
		Open:        true,
		OnOpenChange: func(open bool) {
			if !open {
				h.Dismiss()
			}
		},
	}
	if t.Variant == "" {
		t.Variant = VariantDefault
	}
	if p.Action != nil {
		a := *p.Action
		t.Action = &a
	}
	if len(p.Extra) > 0 {
		t.Extra = maps.Clone(p.Extra)
	}

	s.dispatch(Op{Kind: OpAdd, Toast: t})
	return h
}

// Update merges p into the toast with the given id.
func (s *Store) Update(id string, p Patch) {
	s.dispatch(Op{Kind: OpUpdate, ID: id, Patch: p})
}

// Dismiss closes the toast with the given id and schedules its removal.
// An empty id dismisses every toast.
func (s *Store) Dismiss(id string) {
	s.dispatch(Op{Kind: OpDismiss, ID: id})
}

// DismissAll closes every toast and schedules each for removal.
func (s *Store) DismissAll() {
	s.Dismiss("")
}

// Remove deletes the toast with the given id immediately. An empty id
// clears the list.
func (s *Store) Remove(id string) {
	s.dispatch(Op{Kind: OpRemove, ID: id})
}

// RemoveAll clears the list.
func (s *Store) RemoveAll() {
	s.Remove("")
}

// Snapshot returns a copy of the current toast list, newest first.
func (s *Store) Snapshot() []Toast {
	_, toasts := s.current()
	return cloneAll(toasts)
}

// PendingExpiries returns the number of dismissed toasts awaiting removal.
func (s *Store) PendingExpiries() int {
	return s.sched.Len()
}

// Subscribe registers fn to receive every subsequent snapshot. The returned
// function deregisters it and may be called more than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	return s.subscribe(func(_ uint64, toasts []Toast) { fn(toasts) })
}

func (s *Store) subscribe(fn func(uint64, []Toast)) func() {
	l := &listener{fn: fn}

	s.listenersMu.Lock()
	s.listeners = append(s.listeners, l)
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(x *listener) bool { return x == l })
	}
}

// Close cancels every pending expiry and drops all listeners. Operations
// after Close are ignored.
func (s *Store) Close() {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.outbox = nil
	s.sched.Stop()

	s.listenersMu.Lock()
	s.listeners = nil
	s.listenersMu.Unlock()

	s.log.Debug().Msg("store closed")
}

func (s *Store) current() (uint64, []Toast) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.version, s.toasts
}

// expire is the scheduler callback for a fired timer.
func (s *Store) expire(id string) {
	s.log.Debug().Str("toast_id", id).Msg("toast expired")
	s.Remove(id)
}

func (s *Store) dispatch(op Op) {
	s.dispatchMu.Lock()

	if s.closed {
		s.dispatchMu.Unlock()
		s.log.Debug().Str("op", string(op.Kind)).Msg("dispatch after close ignored")
		return
	}

	_, prev := s.current()
	next := Reduce(prev, op, s.limit)

	if op.Kind == OpDismiss {
		for _, t := range prev {
			if op.ID == "" || t.ID == op.ID {
				s.sched.Schedule(t.ID)
			}
		}
	}

	s.stateMu.Lock()
	s.version++
	version := s.version
	s.toasts = next
	s.stateMu.Unlock()

	s.log.Debug().
		Str("op", string(op.Kind)).
		Str("toast_id", op.ID).
		Int("count", len(next)).
		Msg("dispatch")

	s.outbox = append(s.outbox, delivery{op: op, version: version, toasts: next})
	if s.delivering {
		// Another call further up this stack, or on another goroutine,
		// is draining the outbox and will deliver this snapshot.
		s.dispatchMu.Unlock()
		return
	}
	s.delivering = true
	s.dispatchMu.Unlock()

	s.drain()
}

// drain broadcasts queued snapshots until the outbox is empty.
func (s *Store) drain() {
	for {
		s.dispatchMu.Lock()
		if len(s.outbox) == 0 {
			s.delivering = false
			s.dispatchMu.Unlock()
			return
		}
		d := s.outbox[0]
		s.outbox = s.outbox[1:]
		s.dispatchMu.Unlock()

		s.listenersMu.Lock()
		listeners := make([]*listener, len(s.listeners))
		copy(listeners, s.listeners)
		s.listenersMu.Unlock()

		for _, l := range listeners {
			l.fn(d.version, cloneAll(d.toasts))
		}

		if s.hooks.OnOp != nil {
			s.hooks.OnOp(d.op, cloneAll(d.toasts))
		}
	}
}

func cloneAll(toasts []Toast) []Toast {
	out := make([]Toast, len(toasts))
	for i, t := range toasts {
		out[i] = t.clone()
	}
	return out
}
