package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dex/internal/feature/root"
)

// renderHeader renders the top bar: logo, tabs and load status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render(logoText, styles.Logo)}
	for _, tab := range []root.Tab{root.TabList, root.TabFavorites} {
		parts = append(parts, m.renderTab(tab, styles, bg))
	}
	if status := m.renderStatus(styles, bg); status != "" {
		parts = append(parts, status)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  ")+sep)
}

func (m Model) renderTab(tab root.Tab, styles Styles, bg BgStyle) string {
	label := fmt.Sprintf("%d %s", int(tab)+1, tabTitle(tab))
	if tab == m.state.SelectedTab {
		return bg.Render(label, styles.AccentText.Bold(true).Underline(true))
	}
	return bg.Render(label, styles.MutedText)
}

// renderStatus summarises the selected screen: a spinner while loading, the
// error when there is one, otherwise a count.
func (m Model) renderStatus(styles Styles, bg BgStyle) string {
	var loading bool
	var errMsg string
	var count int
	var noun string

	switch m.state.SelectedTab {
	case root.TabFavorites:
		fs := m.state.Favorites
		loading, errMsg, count, noun = fs.IsLoading, fs.ErrorMessage, len(fs.Favorites), "saved"
	default:
		ls := m.state.List
		loading, errMsg, count, noun = ls.IsLoading, ls.ErrorMessage, len(ls.Items), "shown"
	}

	compact := m.width < LayoutCompactWidth
	switch {
	case loading:
		return bg.Render(m.spinner.View(), styles.InfoText) + bg.Space() + bg.Render("Loading", styles.InfoText)
	case errMsg != "":
		limit := 60
		if compact {
			limit = 30
		}
		return bg.Render("ERROR", styles.DangerText) + bg.Space() + bg.Render(truncate(errMsg, limit), styles.DangerText)
	}
	return bg.Render(fmt.Sprintf("%d %s", count, noun), styles.MutedText)
}

// renderCommandBar renders the line below the header: the search box on the
// browse tab, and context hints everywhere else.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.state.SelectedTab == root.TabList && m.activeDetail() == nil {
		if m.search.Focused() || m.search.Value() != "" {
			return bg.FillLine(m.search.View(), m.width)
		}
	}

	type cmd struct{ key, desc string }
	var commands []cmd
	switch {
	case m.activeDetail() != nil:
		label := "Save"
		if d := m.activeDetail(); d.IsFavorite {
			label = "Unsave"
		}
		commands = []cmd{
			{"f", label},
			{"j/k", "Scroll"},
			{"r", "Reload"},
			{"esc", "Close"},
		}
	case m.state.SelectedTab == root.TabFavorites:
		commands = []cmd{
			{"enter", "Open"},
			{"d", "Remove"},
			{"r", "Reload"},
			{"tab", "Browse"},
		}
	default:
		commands = []cmd{
			{"/", "Search"},
			{"enter", "Open"},
			{"r", "Reload"},
			{"tab", "Favorites"},
		}
	}

	parts := make([]string, 0, len(commands))
	for _, c := range commands {
		parts = append(parts, bg.Render("<"+c.key+">", styles.WarningText)+bg.Space()+bg.Render(c.desc, styles.MutedText))
	}
	return bg.FillLine(bg.Join(parts, "  "), m.width)
}

func tabTitle(tab root.Tab) string {
	if tab == root.TabFavorites {
		return "Favorites"
	}
	return "Browse"
}
