// Package tui implements the terminal toaster: a Bubble Tea program that
// renders the live toast list and drives the store from the keyboard.
package tui

import (
	"fmt"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/toaster/internal/core/jobboard"
	"github.com/colonyops/toaster/internal/core/logging"
	"github.com/colonyops/toaster/internal/core/styles"
	"github.com/colonyops/toaster/internal/core/toast"
)

const updatedSuffix = " (updated)"

// Deps holds the dependencies of the terminal toaster.
type Deps struct {
	Store *toast.Store
}

// ThemeChangedMsg switches the active palette. It is sent from outside the
// program when the config file changes, and applied inside Update so styles
// are never swapped during a render.
type ThemeChangedMsg struct {
	Name    string
	Palette styles.Palette
}

// Model is the main Bubble Tea model.
type Model struct {
	store  *toast.Store
	bridge *toast.Bridge
	buffer *SnapshotBuffer
	log    zerolog.Logger

	keys KeyMap
	help help.Model

	samples  *jobboard.Cycle
	failures *jobboard.Cycle

	toastController *ToastController
	toastView       *ToastView

	width    int
	height   int
	quitting bool
}

// New creates a Model bound to the store in deps.
func New(deps Deps) Model {
	buffer := NewSnapshotBuffer()
	controller := NewToastController()

	bridge := deps.Store.Bridge(buffer.Push)
	controller.Sync(bridge.Toasts())

	return Model{
		store:           deps.Store,
		bridge:          bridge,
		buffer:          buffer,
		log:             logging.Component("tui"),
		keys:            DefaultKeyMap(),
		help:            help.New(),
		samples:         jobboard.NewCycle(jobboard.Samples()),
		failures:        jobboard.NewCycle(jobboard.Failures()),
		toastController: controller,
		toastView:       NewToastView(controller),
	}
}

// Init starts listening for store snapshots.
func (m Model) Init() tea.Cmd {
	return m.buffer.WaitForSignal()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(msg.Width)
		return m, nil
	case drainToastsMsg:
		if toasts, ok := m.buffer.Drain(); ok {
			m.toastController.Sync(toasts)
		}
		return m, m.buffer.WaitForSignal()
	case ThemeChangedMsg:
		styles.SetTheme(msg.Palette)
		m.toastView.ResetTheme()
		m.log.Debug().Str("theme", msg.Name).Msg("theme changed")
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Notify):
		m.notify(m.samples.Next())
	case key.Matches(msg, m.keys.Destructive):
		m.notify(m.failures.Next())
	case key.Matches(msg, m.keys.Update):
		if t, ok := m.toastController.NewestOpen(); ok {
			title := t.Title + updatedSuffix
			m.store.Update(t.ID, toast.Patch{Title: &title})
		}
	case key.Matches(msg, m.keys.Dismiss):
		if t, ok := m.toastController.NewestOpen(); ok {
			m.bridge.Dismiss(t.ID)
		}
	case key.Matches(msg, m.keys.DismissAll):
		m.bridge.DismissAll()
	case key.Matches(msg, m.keys.Remove):
		if t, ok := m.toastController.Newest(); ok {
			m.store.Remove(t.ID)
		}
	case key.Matches(msg, m.keys.RemoveAll):
		m.store.RemoveAll()
	}
	return m, nil
}

func (m Model) notify(p toast.Payload) {
	h := m.bridge.Notify(p)
	m.log.Debug().Str("toast_id", h.ID).Str("title", p.Title).Msg("notify")
}

// quit sets the quitting flag and detaches from the store.
func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	m.bridge.Close()
	return m, tea.Quit
}

// View renders the model.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	status := fmt.Sprintf("%d toasts, %d open, limit %d",
		len(m.toastController.Toasts()),
		m.toastController.OpenCount(),
		m.store.Limit(),
	)

	mainView := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.HeaderStyle.Render("toaster"),
		styles.MutedStyle.Render(status),
		styles.HelpStyle.Render(m.help.View(m.keys)),
	)

	return m.toastView.Overlay(mainView, w, h)
}
