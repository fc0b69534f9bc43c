package tui

import (
	"github.com/colonyops/toaster/internal/core/toast"
)

// ToastController holds the toast list the view renders. It never mutates
// toasts itself: every change arrives as a store snapshot through Sync.
type ToastController struct {
	toasts []toast.Toast
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Sync replaces the rendered list with a store snapshot (newest first).
func (c *ToastController) Sync(toasts []toast.Toast) {
	c.toasts = toasts
}

// HasToasts returns true if there are any toasts, open or dismissed.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// Toasts returns the current toast slice, newest first.
func (c *ToastController) Toasts() []toast.Toast {
	return c.toasts
}

// Newest returns the most recently added toast.
func (c *ToastController) Newest() (toast.Toast, bool) {
	if len(c.toasts) == 0 {
		return toast.Toast{}, false
	}
	return c.toasts[0], true
}

// NewestOpen returns the most recently added toast that is still open.
func (c *ToastController) NewestOpen() (toast.Toast, bool) {
	for _, t := range c.toasts {
		if t.Open {
			return t, true
		}
	}
	return toast.Toast{}, false
}

// OpenCount returns the number of toasts still visible.
func (c *ToastController) OpenCount() int {
	n := 0
	for _, t := range c.toasts {
		if t.Open {
			n++
		}
	}
	return n
}
