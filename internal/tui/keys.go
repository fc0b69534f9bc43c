package tui

import "charm.land/bubbles/v2/key"

// KeyMap defines the terminal toaster keybindings.
type KeyMap struct {
	Notify      key.Binding
	Destructive key.Binding
	Update      key.Binding
	Dismiss     key.Binding
	DismissAll  key.Binding
	Remove      key.Binding
	RemoveAll   key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Notify:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notify")),
		Destructive: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "error")),
		Update:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "update newest")),
		Dismiss:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss newest")),
		DismissAll:  key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "dismiss all")),
		Remove:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove newest")),
		RemoveAll:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "remove all")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Notify, k.Dismiss, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Notify, k.Destructive, k.Update},
		{k.Dismiss, k.DismissAll},
		{k.Remove, k.RemoveAll},
		{k.Help, k.Quit},
	}
}
