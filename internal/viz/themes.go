package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors used by heatmaps and panels. Ramp runs from the
// coldest to the hottest color.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Ramp    []lipgloss.Color
}

var (
	ThemeInferno = Theme{
		Name:    "inferno",
		Primary: lipgloss.Color("#fca50a"),
		Accent:  lipgloss.Color("#f6d746"),
		Muted:   lipgloss.Color("#666666"),
		Ramp: []lipgloss.Color{
			"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
			"#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4",
		},
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Muted:   lipgloss.Color("#4488aa"),
		Ramp: []lipgloss.Color{
			"#001a33", "#003366", "#004c99", "#0066cc", "#0077be",
			"#00a8cc", "#33c1d6", "#66d9e0", "#99ebeb", "#e0f0ff",
		},
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Muted:   lipgloss.Color("#005500"),
		Ramp: []lipgloss.Color{
			"#001100", "#002200", "#003300", "#005500", "#007700",
			"#009900", "#00bb00", "#00dd00", "#00ff00", "#88ff88",
		},
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Muted:   lipgloss.Color("#888888"),
		Ramp: []lipgloss.Color{
			"#222222", "#444444", "#666666", "#888888", "#aaaaaa",
			"#cccccc", "#eeeeee", "#ffffff",
		},
	}

	// Default theme
	CurrentTheme = ThemeInferno

	Themes = []Theme{
		ThemeInferno,
		ThemeOcean,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name, falling back to inferno.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeInferno
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme returns the theme after current in Themes, wrapping around.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
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
