package toast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toaster/internal/core/toast"
)

func TestBridge_SeedsCurrentSnapshot(t *testing.T) {
	s, _ := newStore(t)
	s.Notify(toast.Payload{Title: "existing"})

	var calls int
	b := s.Bridge(func([]toast.Toast) { calls++ })
	defer b.Close()

	got := b.Toasts()
	require.Len(t, got, 1)
	assert.Equal(t, "existing", got[0].Title)
	assert.Equal(t, 0, calls, "seeding does not replay")
}

func TestBridge_ReceivesChanges(t *testing.T) {
	s, _ := newStore(t)

	var seen [][]toast.Toast
	b := s.Bridge(func(ts []toast.Toast) { seen = append(seen, ts) })
	defer b.Close()

	h := b.Notify(toast.Payload{Title: "from bridge"})
	b.Dismiss(h.ID)

	require.Len(t, seen, 2)
	assert.True(t, seen[0][0].Open)
	assert.False(t, seen[1][0].Open)

	got := b.Toasts()
	require.Len(t, got, 1)
	assert.False(t, got[0].Open)
}

func TestBridge_DismissAll(t *testing.T) {
	s, _ := newStore(t, toast.WithLimit(2))
	b := s.Bridge(nil)
	defer b.Close()

	b.Notify(toast.Payload{Title: "a"})
	b.Notify(toast.Payload{Title: "b"})
	b.DismissAll()

	for _, tt := range b.Toasts() {
		assert.False(t, tt.Open)
	}
}

func TestBridge_MultipleObserversShareState(t *testing.T) {
	s, _ := newStore(t)
	a := s.Bridge(nil)
	b := s.Bridge(nil)
	defer a.Close()
	defer b.Close()

	a.Notify(toast.Payload{Title: "shared"})

	require.Len(t, b.Toasts(), 1)
	assert.Equal(t, "shared", b.Toasts()[0].Title)
}

func TestBridge_CloseStopsDelivery(t *testing.T) {
	s, _ := newStore(t)

	var calls int
	b := s.Bridge(func([]toast.Toast) { calls++ })
	s.Notify(toast.Payload{Title: "a"})
	b.Close()
	s.Notify(toast.Payload{Title: "b"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, "a", b.Toasts()[0].Title)
}

func TestBridge_ToastsIsACopy(t *testing.T) {
	s, _ := newStore(t)
	b := s.Bridge(nil)
	defer b.Close()

	b.Notify(toast.Payload{Title: "orig"})
	got := b.Toasts()
	got[0].Title = "mutated"

	assert.Equal(t, "orig", b.Toasts()[0].Title)
}
