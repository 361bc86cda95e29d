package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle paints bar segments on one background. Separately rendered
// segments each end in an ANSI reset, so joins and inner spaces must be
// painted too or the bar shows gaps.
// See https://github.com/charmbracelet/lipgloss/discussions/78
type BgStyle struct {
	fill  lipgloss.Style
	space string
}

func NewBgStyle(bgColor string) BgStyle {
	fill := lipgloss.NewStyle().Background(lipgloss.Color(bgColor))
	return BgStyle{fill: fill, space: fill.Render(" ")}
}

// Render applies style on the shared background, word by word.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(b.fill.GetBackground())
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

func (b BgStyle) Space() string { return b.space }

func (b BgStyle) Spaces(n int) string {
	return b.fill.Render(strings.Repeat(" ", n))
}

// Join joins parts with a painted separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.fill.Render(sep))
}

// FillLine pads content to width on the background.
func (b BgStyle) FillLine(content string, width int) string {
	return b.fill.Width(width).Render(content)
}
