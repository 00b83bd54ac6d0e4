package ui

import lipgloss "charm.land/lipgloss/v2"

// Theme bundles the popup's styles with its stylesheet-level transition
// values. The transition strings use CSS time syntax ("0.25s", "250ms");
// the controller's timing cache parses the close value once.
type Theme struct {
	Overlay       lipgloss.Style
	OverlayTitle  lipgloss.Style
	PanelBorder   lipgloss.Style
	PanelBody     lipgloss.Style
	Accent        lipgloss.Style
	Muted         lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style

	OpenTransition  string
	CloseTransition string
}

func DefaultTheme() Theme {
	return ThemeForVariant("modern_arcade")
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "cozy_clean":
		return cozyCleanTheme()
	case "retro_terminal":
		return retroTerminalTheme()
	default:
		return modernArcadeTheme()
	}
}

func modernArcadeTheme() Theme {
	ink := lipgloss.Color("#0E1420")
	powder := lipgloss.Color("#EAF2FF")
	blue := lipgloss.Color("#5EEBFF")
	border := lipgloss.Color("#4B5F8A")

	return Theme{
		Overlay: lipgloss.NewStyle().
			Background(ink).
			Foreground(powder),
		OverlayTitle: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),
		PanelBorder: lipgloss.NewStyle().
			Foreground(border),
		PanelBody: lipgloss.NewStyle().
			Foreground(powder),
		Accent: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CAAC6")),
		Button: lipgloss.NewStyle().
			Foreground(powder),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(ink).
			Background(blue).
			Bold(true),
		OpenTransition:  "0.3s",
		CloseTransition: "0.25s",
	}
}

func cozyCleanTheme() Theme {
	night := lipgloss.Color("#1E2430")
	paper := lipgloss.Color("#F4F6FA")
	honey := lipgloss.Color("#F2B872")
	sky := lipgloss.Color("#86B6F6")

	return Theme{
		Overlay:         lipgloss.NewStyle().Background(night).Foreground(paper),
		OverlayTitle:    lipgloss.NewStyle().Foreground(honey).Bold(true),
		PanelBorder:     lipgloss.NewStyle().Foreground(lipgloss.Color("#30394A")),
		PanelBody:       lipgloss.NewStyle().Foreground(paper),
		Accent:          lipgloss.NewStyle().Foreground(sky).Bold(true),
		Muted:           lipgloss.NewStyle().Foreground(lipgloss.Color("#A3ACC2")),
		Button:          lipgloss.NewStyle().Foreground(paper),
		ButtonFocused:   lipgloss.NewStyle().Foreground(night).Background(honey).Bold(true),
		OpenTransition:  "0.3s",
		CloseTransition: "0.25s",
	}
}

func retroTerminalTheme() Theme {
	deep := lipgloss.Color("#07150A")
	glow := lipgloss.Color("#C5F7C4")
	amber := lipgloss.Color("#E5D47A")
	lime := lipgloss.Color("#9CF5A2")

	return Theme{
		Overlay:         lipgloss.NewStyle().Background(deep).Foreground(glow),
		OverlayTitle:    lipgloss.NewStyle().Foreground(amber).Bold(true),
		PanelBorder:     lipgloss.NewStyle().Foreground(lipgloss.Color("#12301A")),
		PanelBody:       lipgloss.NewStyle().Foreground(glow),
		Accent:          lipgloss.NewStyle().Foreground(lime).Bold(true),
		Muted:           lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")),
		Button:          lipgloss.NewStyle().Foreground(glow),
		ButtonFocused:   lipgloss.NewStyle().Foreground(deep).Background(lime).Bold(true),
		OpenTransition:  "0.2s",
		CloseTransition: "0.15s",
	}
}

func normalizeStyleVariant(v string) string {
	switch v {
	case "cozy_clean", "retro_terminal", "modern_arcade":
		return v
	default:
		return "modern_arcade"
	}
}

func normalizeMotionLevel(v string) string {
	switch v {
	case "off", "reduced", "full":
		return v
	default:
		return "full"
	}
}
