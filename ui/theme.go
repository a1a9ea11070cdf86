package ui

import (
	"fmt"
	"msn-reimagined/domain"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is owned by the presentation layer, the messenger never sees it.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

type palette struct {
	accent, text, muted, border, own, buddy, system lipgloss.Color
}

var palettes = map[Theme]palette{
	ThemeLight: {
		accent: "#0066CC", text: "#1F2937", muted: "#6B7280", border: "#93C5FD",
		own: "#1D4ED8", buddy: "#047857", system: "#B45309",
	},
	ThemeDark: {
		accent: "#60A5FA", text: "#E5E7EB", muted: "#9CA3AF", border: "#374151",
		own: "#93C5FD", buddy: "#34D399", system: "#FBBF24",
	},
}

var presenceColors = map[domain.Presence]lipgloss.Color{
	domain.PresenceOnline:  "#22C55E",
	domain.PresenceAway:    "#EAB308",
	domain.PresenceBusy:    "#EF4444",
	domain.PresenceOffline: "#9CA3AF",
}

type Styles struct {
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Group    lipgloss.Style
	Selected lipgloss.Style
	Item     lipgloss.Style
	Sidebar  lipgloss.Style
	Window   lipgloss.Style
	Header   lipgloss.Style
	Own      lipgloss.Style
	Buddy    lipgloss.Style
	System   lipgloss.Style
	Tab      lipgloss.Style
	Box      lipgloss.Style
}

func NewStyles(theme Theme) Styles {
	p := palettes[theme]
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.accent).Padding(0, 1),
		Muted:    lipgloss.NewStyle().Foreground(p.muted),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		Group:    lipgloss.NewStyle().Bold(true).Foreground(p.text),
		Selected: lipgloss.NewStyle().Foreground(p.accent).Bold(true).PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(p.accent),
		Item:     lipgloss.NewStyle().Foreground(p.text).PaddingLeft(2),
		Sidebar:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 1),
		Window:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(0, 1),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(p.text).Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(p.border),
		Own:      lipgloss.NewStyle().Foreground(p.own),
		Buddy:    lipgloss.NewStyle().Foreground(p.buddy),
		System:   lipgloss.NewStyle().Foreground(p.system).Italic(true),
		Tab:      lipgloss.NewStyle().Foreground(p.text).Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 1),
		Box:      lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(p.accent).Padding(1, 3),
	}
}

// PresenceDot renders the colored bullet shown next to a buddy.
func PresenceDot(p domain.Presence) string {
	return lipgloss.NewStyle().Foreground(presenceColors[p]).Render("●")
}
