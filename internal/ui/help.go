package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title    string
	bindings []key.Binding
}

// helpSections groups the key map for the help modal. Each entry shows the
// binding's own help text.
func (k keyMap) helpSections() []helpSection {
	return []helpSection{
		{"Tabs", []key.Binding{k.NextTab, k.PrevTab, k.ListTab, k.FavTab}},
		{"Lists", []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.Open, k.Search, k.Cancel, k.Delete}},
		{"Detail", []key.Binding{k.Favorite, k.Back}},
		{"General", []key.Binding{k.Retry, k.CycleTheme, k.Help, k.Quit}},
	}
}

// renderHelp renders the help modal centered over the screen.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := styles.WarningText.Width(12)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n")

	for _, section := range m.keys.helpSections() {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(44)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		modal.Render(strings.TrimRight(b.String(), "\n")),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
