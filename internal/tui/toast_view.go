package tui

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/toaster/internal/core/logging"
	"github.com/colonyops/toaster/internal/core/styles"
	"github.com/colonyops/toaster/internal/core/toast"
)

const (
	toastWidth = 50
	// border and padding on each side
	toastInnerWidth = toastWidth - 4
)

// ToastView renders toast notifications and composites them as an overlay.
type ToastView struct {
	controller *ToastController
	md         *markdown
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{
		controller: controller,
		md:         newMarkdown(toastInnerWidth, logging.Component("tui")),
	}
}

// ResetTheme re-renders descriptions with the active theme on the next View.
func (v *ToastView) ResetTheme() {
	v.md.Reset()
}

// View renders the toast stack as a single string, newest at the top.
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, v.renderToast(t))
	}

	return strings.Join(rendered, "\n")
}

func (v *ToastView) renderToast(t toast.Toast) string {
	var icon string
	var style lipgloss.Style

	switch {
	case !t.Open:
		icon = styles.IconToastDismissed
		style = styles.ToastDismissedStyle
	case t.Variant == toast.VariantDestructive:
		icon = styles.IconToastDestructive
		style = styles.ToastDestructiveStyle
	default:
		icon = styles.IconToastDefault
		style = styles.ToastDefaultStyle
	}

	lines := []string{icon + " " + styles.ToastTitleStyle.Render(t.Title)}
	if t.Description != "" {
		lines = append(lines, v.md.Render(t.Description))
	}
	if t.Action != nil {
		lines = append(lines, styles.ToastActionStyle.Render("["+t.Action.Label+"]"))
	}

	return style.Width(toastWidth).Render(strings.Join(lines, "\n"))
}

// Overlay composites the toast stack over background in the lower-right corner.
func (v *ToastView) Overlay(background string, width, height int) string {
	toastContent := v.View()
	if toastContent == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(toastContent)

	toastW := lipgloss.Width(toastContent)
	toastH := lipgloss.Height(toastContent)

	rightX := max(width-toastW-1, 0)
	bottomY := max(height-toastH, 0)

	toastLayer.X(rightX).Y(bottomY).Z(2)

	compositor := lipgloss.NewCompositor(bgLayer, toastLayer)
	return compositor.Render()
}
