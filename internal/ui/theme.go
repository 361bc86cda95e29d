package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Styles derives every lipgloss style from it.
type Theme struct {
	Name string

	Background string // terminal fill, also the badge text color
	Surface    string // header, command bar and footer

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Warning string
	Danger  string
	Info    string

	// TypeColors maps a catalog type name to its badge color.
	TypeColors map[string]string
}

// Styles returns the lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Logo: fg(t.Danger).Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		typeColors: t.TypeColors,
		background: t.Background,
		muted:      t.Muted,
	}
}

// Styles contains pre-built lipgloss styles for a theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	typeColors map[string]string
	background string
	muted      string
}

// TypeStyle returns the badge style for a catalog type such as "grass".
// Unknown types get the muted color.
func (s Styles) TypeStyle(name string) lipgloss.Style {
	color, ok := s.typeColors[name]
	if !ok {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground returns a copy whose text styles paint bgColor explicitly,
// so text on the header bar never falls through to the terminal default.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	out.Text = s.Text.Background(bg)
	out.MutedText = s.MutedText.Background(bg)
	out.FaintText = s.FaintText.Background(bg)
	out.AccentText = s.AccentText.Background(bg)
	out.WarningText = s.WarningText.Background(bg)
	out.DangerText = s.DangerText.Background(bg)
	out.InfoText = s.InfoText.Background(bg)
	out.Footer = s.Footer.Background(bg)
	out.Logo = s.Logo.Background(bg)
	return out
}

const defaultThemeName = "Dex"

var themeOrder = []string{"Dex", "Gameboy", "Midnight"}

var themes = map[string]Theme{
	"Dex":      dexTheme(),
	"Gameboy":  gameboyTheme(),
	"Midnight": midnightTheme(),
}

// GetTheme returns a theme by name, or the Dex theme for unknown names.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[defaultThemeName]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns the available theme names in cycle order.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}

// dexTheme is the red handheld on a charcoal screen.
func dexTheme() Theme {
	return Theme{
		Name:          "Dex",
		Background:    "#141414",
		Surface:       "#2a1215",
		SelectionBg:   "#8c1c24",
		SelectionText: "#fdf2f2",
		Border:        "#4a2a2d",
		BorderFocus:   "#e3350d",
		Text:          "#ececec",
		Muted:         "#a39b9b",
		Faint:         "#6e6666",
		Accent:        "#30a7d7",
		Warning:       "#ffcb05",
		Danger:        "#e3350d",
		Info:          "#7dd3c0",
		TypeColors:    baseTypeColors,
	}
}

// gameboyTheme uses the four-shade green of the original handheld screen.
// Badges keep their type colors so they stay distinguishable.
func gameboyTheme() Theme {
	return Theme{
		Name:          "Gameboy",
		Background:    "#0f380f",
		Surface:       "#1f4f1f",
		SelectionBg:   "#8bac0f",
		SelectionText: "#0f380f",
		Border:        "#306230",
		BorderFocus:   "#9bbc0f",
		Text:          "#c4dd8a",
		Muted:         "#8bac0f",
		Faint:         "#5a7d2a",
		Accent:        "#9bbc0f",
		Warning:       "#e0f8a0",
		Danger:        "#f08060",
		Info:          "#b0d060",
		TypeColors:    baseTypeColors,
	}
}

func midnightTheme() Theme {
	return Theme{
		Name:          "Midnight",
		Background:    "#0b1020",
		Surface:       "#141b33",
		SelectionBg:   "#2c3a6b",
		SelectionText: "#e6e9f5",
		Border:        "#2a3356",
		BorderFocus:   "#8aa4ff",
		Text:          "#dfe3f0",
		Muted:         "#8b93ad",
		Faint:         "#5d6580",
		Accent:        "#8aa4ff",
		Warning:       "#f2c46d",
		Danger:        "#f2707a",
		Info:          "#6fd3e8",
		TypeColors:    baseTypeColors,
	}
}

// baseTypeColors are the conventional badge colors for each type.
var baseTypeColors = map[string]string{
	"normal":   "#a8a77a",
	"fire":     "#ee8130",
	"water":    "#6390f0",
	"electric": "#f7d02c",
	"grass":    "#7ac74c",
	"ice":      "#96d9d6",
	"fighting": "#c22e28",
	"poison":   "#a33ea1",
	"ground":   "#e2bf65",
	"flying":   "#a98ff3",
	"psychic":  "#f95587",
	"bug":      "#a6b91a",
	"rock":     "#b6a136",
	"ghost":    "#735797",
	"dragon":   "#6f35fc",
	"dark":     "#705746",
	"steel":    "#b7b7ce",
	"fairy":    "#d685ad",
}
