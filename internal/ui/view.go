package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/feature/detail"
	"github.com/five82/dex/internal/feature/root"
)

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.theme.Styles().Footer.Width(m.width).Render(m.help.View(m.keys)))
	return b.String()
}

// renderBody lays out the selected screen and, when open, its overlay.
// Wide terminals show both side by side; narrow ones show only the overlay.
func (m Model) renderBody() string {
	height := m.bodyHeight()
	d := m.activeDetail()

	if d == nil {
		return m.renderPane(m.screenTitle(), m.renderRows(m.width-2, height-2), m.width, height, true)
	}
	overlay := m.renderPane(m.overlayTitle(*d), m.renderOverlay(*d), m.overlayPaneWidth(), height, true)
	if !m.split() {
		return overlay
	}
	rows := m.renderPane(m.screenTitle(), m.renderRows(ListPaneWidth-2, height-2), ListPaneWidth, height, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, rows, overlay)
}

// renderPane draws a bordered box of exactly width x height.
func (m Model) renderPane(title, content string, width, height int, focused bool) string {
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	styles := m.theme.Styles()
	heading := styles.Text.Bold(true).Render(truncate(title, maxInt(width-4, 1)))

	lines := strings.Split(content, "\n")
	inner := maxInt(height-3, 0)
	if len(lines) > inner {
		lines = lines[:inner]
	}
	body := heading + "\n" + strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(maxInt(width-2, 1)).
		Height(maxInt(height-2, 1)).
		Render(body)
}

func (m Model) screenTitle() string {
	if m.state.SelectedTab == root.TabFavorites {
		return "Favorites"
	}
	if q := m.state.List.Query; q != "" {
		return fmt.Sprintf("Results for %q", q)
	}
	return "Browse"
}

func (m Model) overlayTitle(d detail.State) string {
	if d.Detail != nil {
		return itemLabel(d.Detail.ID, d.Detail.Name)
	}
	return formatID(d.ItemID)
}

// renderRows renders the selected screen's rows, windowed around the cursor.
func (m Model) renderRows(width, height int) string {
	styles := m.theme.Styles()

	var labels []string
	var cursor int
	var loading bool
	var errMsg, empty string

	if m.state.SelectedTab == root.TabFavorites {
		fs := m.state.Favorites
		for _, fav := range fs.Favorites {
			labels = append(labels, favoriteRow(fav, width))
		}
		cursor, loading, errMsg = m.favCursor, fs.IsLoading, fs.ErrorMessage
		empty = "No favorites yet. Open an entry and press f to save it."
	} else {
		ls := m.state.List
		for _, item := range ls.Items {
			labels = append(labels, itemLabel(item.ID, item.Name))
		}
		cursor, loading, errMsg = m.listCursor, ls.IsLoading, ls.ErrorMessage
		empty = "Nothing to show."
		if ls.Query != "" {
			empty = "No entries match."
		}
	}

	switch {
	case errMsg != "" && len(labels) == 0:
		return styles.DangerText.Render(errMsg) + "\n" + styles.MutedText.Render("Press r to retry.")
	case loading && len(labels) == 0:
		return styles.InfoText.Render(m.spinner.View() + " Loading...")
	case len(labels) == 0:
		return styles.MutedText.Render(empty)
	}

	start, end := visibleRange(cursor, len(labels), maxInt(height-1, 1))
	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := truncate(labels[i], width-2)
		if i == cursor {
			out = append(out, styles.Selected.Width(maxInt(width-2, 1)).Render(line))
			continue
		}
		out = append(out, styles.Text.Render(line))
	}
	return strings.Join(out, "\n")
}

// renderOverlay renders the overlay body. Transient states render directly
// so the spinner keeps animating; loaded records go through the viewport.
func (m Model) renderOverlay(d detail.State) string {
	styles := m.theme.Styles()
	if d.Detail == nil {
		switch {
		case d.ErrorMessage != "":
			return styles.DangerText.Render(d.ErrorMessage) + "\n" + styles.MutedText.Render("Press r to retry.")
		default:
			return styles.InfoText.Render(m.spinner.View() + " Loading " + formatID(d.ItemID) + "...")
		}
	}
	return m.overlay.View()
}

// renderDetailContent renders a loaded record for the overlay viewport.
func (m Model) renderDetailContent(d detail.State) string {
	if d.Detail == nil {
		return ""
	}
	styles := m.theme.Styles()
	rec := *d.Detail
	width := maxInt(m.overlayWidth(), 10)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(rec.Name))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render(formatID(rec.ID)))
	b.WriteString("\n")
	if d.IsFavorite {
		b.WriteString(styles.WarningText.Render("★ Favorite"))
	} else {
		b.WriteString(styles.FaintText.Render("☆ Press f to save"))
	}
	b.WriteString("\n")
	if d.ErrorMessage != "" {
		b.WriteString(styles.DangerText.Render(d.ErrorMessage))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	badges := make([]string, 0, len(rec.Types))
	for _, name := range rec.TypeNames() {
		badges = append(badges, styles.TypeStyle(name).Render(name))
	}
	writeField(&b, styles, "Types", strings.Join(badges, " "))
	writeField(&b, styles, "Height", fmt.Sprintf("%.1f m", rec.HeightMeters()))
	writeField(&b, styles, "Weight", fmt.Sprintf("%.1f kg", rec.WeightKilograms()))

	if len(rec.Abilities) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render("Abilities"))
		b.WriteString("\n")
		for _, a := range rec.Abilities {
			line := "  " + a.Name
			if a.IsHidden {
				line += styles.FaintText.Render(" (hidden)")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if len(rec.Moves) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Moves (%d)", len(rec.Moves))))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(strings.Join(rec.Moves, ", ")))
		b.WriteString("\n")
	}

	if sprite := spriteURL(rec.Sprites); sprite != "" {
		b.WriteString("\n")
		writeField(&b, styles, "Sprite", styles.FaintText.Render(sprite))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeField(b *strings.Builder, styles Styles, label, value string) {
	b.WriteString(styles.MutedText.Render(padRight(label, 8)))
	b.WriteString(value)
	b.WriteString("\n")
}

func favoriteRow(d catalog.Detail, width int) string {
	label := itemLabel(d.ID, d.Name)
	types := strings.Join(d.TypeNames(), "/")
	if types == "" || width < LayoutCompactWidth/3 {
		return label
	}
	return padRight(label, 20) + types
}

func spriteURL(s catalog.Sprites) string {
	if s.Front != nil {
		return *s.Front
	}
	return ""
}

// visibleRange returns the [start, end) window of n rows that keeps cursor
// on screen.
func visibleRange(cursor, n, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}

// Layout

func (m Model) split() bool {
	return m.width >= LayoutSplitWidth
}

// bodyHeight is what remains after the header, command bar and footer.
func (m Model) bodyHeight() int {
	return maxInt(m.height-3, 4)
}

func (m Model) overlayPaneWidth() int {
	if m.split() {
		return m.width - ListPaneWidth
	}
	return m.width
}

// overlayWidth and overlayHeight size the viewport inside the overlay pane
// (border, padding and title row excluded).
func (m Model) overlayWidth() int {
	return maxInt(m.overlayPaneWidth()-4, 10)
}

func (m Model) overlayHeight() int {
	return maxInt(m.bodyHeight()-3, 1)
}
