package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/colonyops/toaster/internal/core/styles"
)

// markdown renders toast descriptions. Output is cached per source text until
// Reset, since View runs on every frame.
type markdown struct {
	width int
	log   zerolog.Logger

	renderer *glamour.TermRenderer
	failed   bool
	cache    map[string]string
}

func newMarkdown(width int, log zerolog.Logger) *markdown {
	return &markdown{width: width, log: log, cache: make(map[string]string)}
}

// Render returns text as styled markdown, or text unchanged if rendering
// fails.
func (m *markdown) Render(text string) string {
	if out, ok := m.cache[text]; ok {
		return out
	}

	out := m.render(text)
	m.cache[text] = out
	return out
}

func (m *markdown) render(text string) string {
	if m.renderer == nil && !m.failed {
		r, err := glamour.NewTermRenderer(
			glamour.WithStyles(styles.GlamourStyle()),
			glamour.WithWordWrap(m.width),
		)
		if err != nil {
			m.log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw text")
			m.failed = true
		}
		m.renderer = r
	}
	if m.renderer == nil {
		return text
	}

	rendered, err := m.renderer.Render(text)
	if err != nil {
		m.log.Debug().Err(err).Msg("failed to render markdown, showing raw text")
		return text
	}

	lines := strings.Split(strings.Trim(rendered, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

// Reset drops the renderer and cache so the next render picks up the active
// theme.
func (m *markdown) Reset() {
	m.renderer = nil
	m.failed = false
	clear(m.cache)
}
