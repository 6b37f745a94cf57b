package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of a rendered figure. Series colors are cycled
// across the curves of a panel.
type Theme struct {
	Name    string
	Title   lipgloss.Color
	Border  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Field   lipgloss.Color
	Warning lipgloss.Color
	Series  []lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Title:   lipgloss.Color("#00ffff"),
		Border:  lipgloss.Color("#444466"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Field:   lipgloss.Color("#555577"),
		Warning: lipgloss.Color("#ff8800"),
		Series: []lipgloss.Color{
			"#ff00ff", "#00ffff", "#ffff00", "#00ff88", "#ff4444", "#0088ff", "#ffaa00", "#88ff88",
		},
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Title:   lipgloss.Color("#88ff88"),
		Border:  lipgloss.Color("#005500"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Field:   lipgloss.Color("#007700"),
		Warning: lipgloss.Color("#ffff00"),
		Series: []lipgloss.Color{
			"#00ff00", "#88ff88", "#00cc00", "#ccffcc", "#44dd44",
		},
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Title:   lipgloss.Color("#ffffff"),
		Border:  lipgloss.Color("#888888"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Field:   lipgloss.Color("#666666"),
		Warning: lipgloss.Color("#ffaa00"),
		Series: []lipgloss.Color{
			"#0088ff", "#ff8800", "#00aa44", "#dd2222", "#aa44dd", "#886644", "#ff66cc", "#cccccc",
		},
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Title:   lipgloss.Color("#ffd700"),
		Border:  lipgloss.Color("#4488aa"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Field:   lipgloss.Color("#336688"),
		Warning: lipgloss.Color("#ffcc00"),
		Series: []lipgloss.Color{
			"#00a8cc", "#ffd700", "#00ff88", "#ff4444", "#0077be", "#e0f0ff",
		},
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Title:   lipgloss.Color("#feca57"),
		Border:  lipgloss.Color("#8b6b8c"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Field:   lipgloss.Color("#6b4b6c"),
		Warning: lipgloss.Color("#ffc048"),
		Series: []lipgloss.Color{
			"#ff6b6b", "#feca57", "#ff9ff3", "#5fd068", "#48dbfb", "#ff4757",
		},
	}

	// Themes lists every built-in scheme; the first is the default.
	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, or the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// SeriesColor returns the color of curve i.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	return t.Series[i%len(t.Series)]
}
