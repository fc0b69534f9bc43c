package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThemeNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{"gruvbox", "tokyo-night"}, ThemeNames())
}

func TestGetPalette(t *testing.T) {
	_, ok := GetPalette(DefaultTheme)
	assert.True(t, ok)

	_, ok = GetPalette("neon")
	assert.False(t, ok)
}

func TestSetTheme_RebuildsStyles(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, _ := GetPalette("gruvbox")
	SetTheme(p)

	assert.Equal(t, p, CurrentPalette)
	assert.Equal(t, p.Error, ToastDestructiveStyle.GetBorderTopForeground())
}

func TestSetTheme_StatusStyles(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	p, _ := GetPalette("gruvbox")
	SetTheme(p)

	assert.Equal(t, p.Success, SuccessStyle.GetForeground())
	assert.Equal(t, p.Error, ErrorStyle.GetForeground())
	assert.True(t, ErrorStyle.GetBold())
}
