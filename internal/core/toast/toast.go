// Package toast implements the process-wide toast queue: a bounded list of
// ephemeral notifications, a reducer that applies add/update/dismiss/remove
// actions to it, an expiry scheduler that purges dismissed toasts, and a
// subscription bridge for presentation-layer observers.
package toast

import (
	"maps"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultLimit is the maximum number of toasts held at once.
	DefaultLimit = 1

	// DefaultRemoveDelay is the delay between dismissal and removal. It is
	// large enough that dismissed toasts are effectively only removed on demand.
	DefaultRemoveDelay = 1000000 * time.Millisecond

	// maxID bounds the id counter (2^53-1) so ids stay exact when decoded
	// as JSON numbers by browser clients.
	maxID = 1<<53 - 1
)

// Variant selects the visual treatment of a toast.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Action is an optional interactive affordance rendered with a toast.
type Action struct {
	Label   string `json:"label"`
	AltText string `json:"alt_text,omitempty"`
}

// Toast is a single notification held by the store.
type Toast struct {
	ID          string         `json:"id"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Action      *Action        `json:"action,omitempty"`
	Variant     Variant        `json:"variant,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
	Open        bool           `json:"open"`

	// OnOpenChange is invoked by the presentation layer when the toast's
	// visibility changes outside the store (for example the user closes it).
	// The store binds it to Dismiss for this toast's id.
	OnOpenChange func(open bool) `json:"-"`
}

// clone returns a copy of t that shares no mutable state with it.
func (t Toast) clone() Toast {
	if t.Action != nil {
		a := *t.Action
		t.Action = &a
	}
	if t.Extra != nil {
		t.Extra = maps.Clone(t.Extra)
	}
	return t
}

// Payload is the caller-supplied content of a new toast.
type Payload struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Action      *Action        `json:"action,omitempty"`
	Variant     Variant        `json:"variant,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Patch is a partial payload merged into an existing toast. Nil fields are
// left untouched; Extra keys are merged individually.
type Patch struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Action      *Action        `json:"action,omitempty"`
	Variant     *Variant       `json:"variant,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// apply returns t with the patch fields merged in.
func (p Patch) apply(t Toast) Toast {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Action != nil {
		a := *p.Action
		t.Action = &a
	}
	if p.Variant != nil {
		t.Variant = *p.Variant
	}
	if len(p.Extra) > 0 {
		merged := make(map[string]any, len(t.Extra)+len(p.Extra))
		maps.Copy(merged, t.Extra)
		maps.Copy(merged, p.Extra)
		t.Extra = merged
	}
	return t
}

// Handle is returned by Notify and addresses a single toast.
type Handle struct {
	ID    string
	store *Store
}

// Update merges p into the toast. No-op once the toast is gone.
func (h Handle) Update(p Patch) {
	h.store.Update(h.ID, p)
}

// Dismiss closes the toast and schedules its removal.
func (h Handle) Dismiss() {
	h.store.Dismiss(h.ID)
}

// idGen hands out monotonically increasing decimal ids, wrapping at maxID.
type idGen struct {
	mu    sync.Mutex
	count uint64
}

func (g *idGen) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count = (g.count + 1) % maxID
	return strconv.FormatUint(g.count, 10)
}
