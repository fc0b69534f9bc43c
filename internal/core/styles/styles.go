// Package styles provides shared lipgloss v2 styles for the terminal toaster.
package styles

import (
	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	HeaderStyle lipgloss.Style
	MutedStyle  lipgloss.Style
	HelpStyle   lipgloss.Style

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style

	ToastDefaultStyle     lipgloss.Style
	ToastDestructiveStyle lipgloss.Style
	ToastDismissedStyle   lipgloss.Style
	ToastTitleStyle       lipgloss.Style
	ToastActionStyle      lipgloss.Style
)

func init() {
	SetTheme(themes[DefaultTheme])
}

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)
	SuccessStyle = lipgloss.NewStyle().
		Foreground(p.Success)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	toastBase := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Foreground(p.Foreground)

	ToastDefaultStyle = toastBase.
		BorderForeground(p.Primary)
	ToastDestructiveStyle = toastBase.
		BorderForeground(p.Error).
		Foreground(p.Error)
	ToastDismissedStyle = toastBase.
		BorderForeground(p.Surface).
		Foreground(p.Muted)
	ToastTitleStyle = lipgloss.NewStyle().
		Bold(true)
	ToastActionStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(p.Surface).
		Foreground(p.Foreground)
}
