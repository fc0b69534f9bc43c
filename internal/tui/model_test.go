package tui

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toaster/internal/core/jobboard"
	"github.com/colonyops/toaster/internal/core/styles"
	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/internal/core/toast/toasttest"
	"github.com/colonyops/toaster/pkg/tuitest"
)

func newTestModel(t *testing.T, opts ...toast.Option) (Model, *toast.Store, *toasttest.Clock) {
	t.Helper()
	clock := toasttest.NewClock()
	opts = append([]toast.Option{
		toast.WithClock(clock),
		toast.WithLogger(zerolog.Nop()),
	}, opts...)
	s := toast.New(opts...)
	t.Cleanup(s.Close)
	return New(Deps{Store: s}), s, clock
}

// press sends a key and then delivers any pending snapshot, as the program
// loop would after the drain signal fires.
func press(t *testing.T, m Model, msg tea.KeyPressMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	next, _ = next.(Model).Update(drainToastsMsg{})
	return next.(Model)
}

func TestModel_NewSeedsFromStore(t *testing.T) {
	clock := toasttest.NewClock()
	s := toast.New(toast.WithClock(clock), toast.WithLogger(zerolog.Nop()))
	t.Cleanup(s.Close)
	s.Notify(toast.Payload{Title: "before"})

	m := New(Deps{Store: s})

	newest, ok := m.toastController.Newest()
	require.True(t, ok)
	assert.Equal(t, "before", newest.Title)
}

func TestModel_Notify(t *testing.T) {
	m, s, _ := newTestModel(t)

	m = press(t, m, tuitest.KeyPress('n'))

	got := s.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, jobboard.ResumeUploaded.Title, got[0].Title)
	assert.Equal(t, toast.VariantDefault, got[0].Variant)

	newest, ok := m.toastController.Newest()
	require.True(t, ok)
	assert.Equal(t, got[0].ID, newest.ID)
}

func TestModel_Destructive(t *testing.T) {
	m, s, _ := newTestModel(t)

	_ = press(t, m, tuitest.KeyPress('e'))

	got := s.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, toast.VariantDestructive, got[0].Variant)
}

func TestModel_UpdateNewest(t *testing.T) {
	m, s, _ := newTestModel(t)

	m = press(t, m, tuitest.KeyPress('n'))
	_ = press(t, m, tuitest.KeyPress('u'))

	got := s.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, jobboard.ResumeUploaded.Title+updatedSuffix, got[0].Title)
}

func TestModel_DismissThenExpire(t *testing.T) {
	m, s, clock := newTestModel(t)

	m = press(t, m, tuitest.KeyPress('n'))
	m = press(t, m, tuitest.KeyPress('d'))

	got := s.Snapshot()
	require.Len(t, got, 1)
	assert.False(t, got[0].Open)
	assert.Equal(t, 0, m.toastController.OpenCount())

	clock.Advance(toast.DefaultRemoveDelay)
	next, _ := m.Update(drainToastsMsg{})
	m = next.(Model)

	assert.Empty(t, s.Snapshot())
	assert.False(t, m.toastController.HasToasts())
}

func TestModel_DismissAllAndRemoveAll(t *testing.T) {
	m, s, _ := newTestModel(t, toast.WithLimit(3))

	for range 3 {
		m = press(t, m, tuitest.KeyPress('n'))
	}
	m = press(t, m, tuitest.KeyPress('D'))

	for _, got := range s.Snapshot() {
		assert.False(t, got.Open)
	}
	assert.Equal(t, 3, s.PendingExpiries())

	_ = press(t, m, tuitest.KeyPress('X'))
	assert.Empty(t, s.Snapshot())
}

func TestModel_RemoveNewest(t *testing.T) {
	m, s, _ := newTestModel(t, toast.WithLimit(2))

	m = press(t, m, tuitest.KeyPress('n'))
	m = press(t, m, tuitest.KeyPress('n'))
	_ = press(t, m, tuitest.KeyPress('x'))

	got := s.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, jobboard.ResumeUploaded.Title, got[0].Title)
}

func TestModel_HelpToggle(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = press(t, m, tuitest.KeyPress('?'))
	assert.True(t, m.help.ShowAll)
	m = press(t, m, tuitest.KeyPress('?'))
	assert.False(t, m.help.ShowAll)
}

func TestModel_Quit(t *testing.T) {
	m, s, _ := newTestModel(t)

	next, cmd := m.Update(tuitest.KeyCtrl('c'))
	require.NotNil(t, cmd)
	m = next.(Model)
	assert.True(t, m.quitting)

	s.Notify(toast.Payload{Title: "after quit"})
	_, ok := m.buffer.Drain()
	assert.False(t, ok, "bridge should be detached after quit")
}

func TestModel_ViewRendersToasts(t *testing.T) {
	m, _, _ := newTestModel(t)

	next, _ := m.Update(tuitest.WindowSize(120, 30))
	m = next.(Model)
	m = press(t, m, tuitest.KeyPress('n'))

	assert.True(t, m.View().AltScreen)

	out := tuitest.StripANSI(m.render())
	assert.Contains(t, out, "toaster")
	assert.Contains(t, out, "1 toasts, 1 open, limit 1")
	assert.Contains(t, out, jobboard.ResumeUploaded.Title)
}

func TestModel_ThemeChanged(t *testing.T) {
	t.Cleanup(func() {
		p, _ := styles.GetPalette(styles.DefaultTheme)
		styles.SetTheme(p)
	})
	m, _, _ := newTestModel(t)

	p, ok := styles.GetPalette("gruvbox")
	require.True(t, ok)

	_, cmd := m.Update(ThemeChangedMsg{Name: "gruvbox", Palette: p})
	assert.Nil(t, cmd)
	assert.Equal(t, p, styles.CurrentPalette)
}
