// Package theme provides the colour palettes used by the workspace and the
// syntax highlighter.
package theme

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Syntax holds the colours for highlighted source.
type Syntax struct {
	Comment   lipgloss.Color
	String    lipgloss.Color
	Template  lipgloss.Color
	Keyword   lipgloss.Color
	Type      lipgloss.Color
	Constant  lipgloss.Color
	Number    lipgloss.Color
	Decorator lipgloss.Color
	Import    lipgloss.Color
}

// Theme defines all colours used in the application UI.
type Theme struct {
	Name       string
	Light      bool
	Background lipgloss.Color
	Accent     lipgloss.Color
	AccentFg   lipgloss.Color // text drawn on Accent
	AccentDim  lipgloss.Color
	Border     lipgloss.Color
	BorderDim  lipgloss.Color
	MutedFg    lipgloss.Color
	TextFg     lipgloss.Color
	SuccessFg  lipgloss.Color
	WarnFg     lipgloss.Color
	ErrorFg    lipgloss.Color
	Syntax     Syntax
}

// Theme names.
const (
	DraculaName         = "dracula"
	DraculaLightName    = "dracula-light"
	NordName            = "nord"
	MonokaiName         = "monokai"
	GruvboxDarkName     = "gruvbox-dark"
	SolarizedLightName  = "solarized-light"
	CatppuccinMochaName = "catppuccin-mocha"
)

// palette is the compact form every theme is declared in:
// bg, accent, accentFg, accentDim, border, borderDim, muted, text,
// green, orange, red, cyan, pink, yellow, purple, blue, emerald.
type palette [17]string

var palettes = map[string]palette{
	DraculaName: {
		"#282A36", "#BD93F9", "#282A36", "#44475A", "#6272A4", "#44475A", "#6272A4", "#F8F8F2",
		"#50FA7B", "#FFB86C", "#FF5555", "#8BE9FD", "#FF79C6", "#F1FA8C", "#BD93F9", "#8BE9FD", "#50FA7B",
	},
	DraculaLightName: {
		"#FFFFFF", "#C6DBE5", "#24292F", "#F3E8FF", "#D0D7DE", "#E8E8E8", "#6E7781", "#24292F",
		"#059669", "#D97706", "#DC2626", "#0891B2", "#DB2777", "#CA8A04", "#7C3AED", "#2563EB", "#047857",
	},
	NordName: {
		"#2E3440", "#88C0D0", "#2E3440", "#3B4252", "#4C566A", "#434C5E", "#81A1C1", "#E5E9F0",
		"#A3BE8C", "#D08770", "#BF616A", "#88C0D0", "#B48EAD", "#EBCB8B", "#B48EAD", "#81A1C1", "#8FBCBB",
	},
	MonokaiName: {
		"#272822", "#A6E22E", "#272822", "#3E3D32", "#75715E", "#3E3D32", "#75715E", "#F8F8F2",
		"#A6E22E", "#FD971F", "#F92672", "#66D9EF", "#F92672", "#E6DB74", "#AE81FF", "#66D9EF", "#A6E22E",
	},
	GruvboxDarkName: {
		"#282828", "#FABD2F", "#282828", "#3C3836", "#504945", "#3C3836", "#928374", "#EBDBB2",
		"#B8BB26", "#FE8019", "#FB4934", "#83A598", "#D3869B", "#FABD2F", "#D3869B", "#83A598", "#8EC07C",
	},
	SolarizedLightName: {
		"#FDF6E3", "#268BD2", "#FDF6E3", "#EEE8D5", "#93A1A1", "#E4DDC7", "#93A1A1", "#073642",
		"#859900", "#CB4B16", "#DC322F", "#2AA198", "#D33682", "#B58900", "#6C71C4", "#268BD2", "#2AA198",
	},
	CatppuccinMochaName: {
		"#1E1E2E", "#B4BEFE", "#1E1E2E", "#313244", "#45475A", "#313244", "#6C7086", "#CDD6F4",
		"#A6E3A1", "#FAB387", "#F38BA8", "#89DCEB", "#F5C2E7", "#F9E2AF", "#CBA6F7", "#89B4FA", "#94E2D5",
	},
}

var lightThemes = map[string]bool{
	DraculaLightName:   true,
	SolarizedLightName: true,
}

func (p palette) build(name string) *Theme {
	c := func(i int) lipgloss.Color { return lipgloss.Color(p[i]) }
	return &Theme{
		Name:       name,
		Light:      lightThemes[name],
		Background: c(0),
		Accent:     c(1),
		AccentFg:   c(2),
		AccentDim:  c(3),
		Border:     c(4),
		BorderDim:  c(5),
		MutedFg:    c(6),
		TextFg:     c(7),
		SuccessFg:  c(8),
		WarnFg:     c(9),
		ErrorFg:    c(10),
		Syntax: Syntax{
			Comment:   c(6),
			String:    c(8),
			Template:  c(13),
			Keyword:   c(15),
			Type:      c(11),
			Constant:  c(14),
			Number:    c(9),
			Decorator: c(12),
			Import:    c(16),
		},
	}
}

// NormalizeThemeName lower-cases and trims name, returning "" for unknown themes.
func NormalizeThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := palettes[name]; ok {
		return name
	}
	return ""
}

// GetTheme returns a theme by name, or Dracula if not found.
func GetTheme(name string) *Theme {
	if n := NormalizeThemeName(name); n != "" {
		return palettes[n].build(n)
	}
	return palettes[DraculaName].build(DraculaName)
}

// IsLight returns true if the theme is a light theme.
func IsLight(name string) bool {
	return lightThemes[NormalizeThemeName(name)]
}

// DefaultDark returns the default dark theme name.
func DefaultDark() string {
	return DraculaName
}

// AvailableThemes returns the sorted list of theme names.
func AvailableThemes() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
