package toast

import "sync"

// Bridge connects one presentation-layer observer to a Store. It keeps the
// most recent snapshot the observer has seen and forwards commands back to
// the store, so observers never touch store internals.
type Bridge struct {
	store    *Store
	onChange func([]Toast)
	unsub    func()

	mu      sync.Mutex
	toasts  []Toast
	version uint64
}

// Bridge registers a new observer. The bridge starts with the store's current
// snapshot; onChange, if non-nil, is called with every later snapshot.
func (s *Store) Bridge(onChange func([]Toast)) *Bridge {
	b := &Bridge{store: s, onChange: onChange}
	b.unsub = s.subscribe(b.receive)

	version, toasts := s.current()
	b.mu.Lock()
	if b.version == 0 || version > b.version {
		b.version = version
		b.toasts = cloneAll(toasts)
	}
	b.mu.Unlock()

	return b
}

func (b *Bridge) receive(version uint64, toasts []Toast) {
	b.mu.Lock()
	if version <= b.version && b.toasts != nil {
		b.mu.Unlock()
		return
	}
	b.version = version
	b.toasts = toasts
	b.mu.Unlock()

	if b.onChange != nil {
		b.onChange(cloneAll(toasts))
	}
}

// Toasts returns the last snapshot delivered to this observer.
func (b *Bridge) Toasts() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneAll(b.toasts)
}

// Notify creates a toast through the store.
func (b *Bridge) Notify(p Payload) Handle {
	return b.store.Notify(p)
}

// Dismiss dismisses one toast by id. An empty id dismisses every toast.
func (b *Bridge) Dismiss(id string) {
	b.store.Dismiss(id)
}

// DismissAll dismisses every toast.
func (b *Bridge) DismissAll() {
	b.store.DismissAll()
}

// Close stops delivery to this observer.
func (b *Bridge) Close() {
	b.unsub()
}
