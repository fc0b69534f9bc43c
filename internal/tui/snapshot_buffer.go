package tui

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/toaster/internal/core/toast"
)

type drainToastsMsg struct{}

// SnapshotBuffer hands store snapshots from the store's dispatch goroutine to
// the Bubble Tea update loop. Only the newest snapshot is kept since each one
// is the complete toast list.
type SnapshotBuffer struct {
	mu      sync.Mutex
	latest  []toast.Toast
	pending bool
	signal  chan struct{}
}

// NewSnapshotBuffer constructs an empty buffer.
func NewSnapshotBuffer() *SnapshotBuffer {
	return &SnapshotBuffer{
		signal: make(chan struct{}, 1),
	}
}

// Push stores the snapshot and emits a non-blocking drain signal.
func (b *SnapshotBuffer) Push(toasts []toast.Toast) {
	b.mu.Lock()
	b.latest = toasts
	b.pending = true
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Drain returns the newest snapshot pushed since the last Drain.
func (b *SnapshotBuffer) Drain() ([]toast.Toast, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.pending {
		return nil, false
	}
	out := b.latest
	b.latest = nil
	b.pending = false
	return out, true
}

// WaitForSignal blocks until a snapshot is ready to drain.
func (b *SnapshotBuffer) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-b.signal
		return drainToastsMsg{}
	}
}
