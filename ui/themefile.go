package ui

import (
	"fmt"
	"os"
	"regexp"

	lipgloss "charm.land/lipgloss/v2"
	"gopkg.in/yaml.v3"
)

const (
	ThemeKind              = "theme"
	SupportedSchemaVersion = 1
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
var transitionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(ms|s)?$`)

// ThemeFile is the on-disk theme document. Colors override the chosen
// variant's palette; anything left empty keeps the variant default.
type ThemeFile struct {
	Kind          string `yaml:"kind"`
	SchemaVersion int    `yaml:"schema_version"`
	Variant       string `yaml:"variant"`

	Colors struct {
		Background string `yaml:"background"`
		Body       string `yaml:"body"`
		Title      string `yaml:"title"`
		Accent     string `yaml:"accent"`
		Muted      string `yaml:"muted"`
		Border     string `yaml:"border"`
	} `yaml:"colors"`

	Transitions struct {
		Open  string `yaml:"open"`
		Close string `yaml:"close"`
	} `yaml:"transitions"`
}

func (t ThemeFile) Validate() error {
	if t.Kind != ThemeKind {
		return fmt.Errorf("kind must be %q", ThemeKind)
	}
	if t.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if t.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported theme schema_version %d (max supported %d)", t.SchemaVersion, SupportedSchemaVersion)
	}
	for name, c := range map[string]string{
		"colors.background": t.Colors.Background,
		"colors.body":       t.Colors.Body,
		"colors.title":      t.Colors.Title,
		"colors.accent":     t.Colors.Accent,
		"colors.muted":      t.Colors.Muted,
		"colors.border":     t.Colors.Border,
	} {
		if c != "" && !hexColorPattern.MatchString(c) {
			return fmt.Errorf("%s: invalid color %q", name, c)
		}
	}
	for name, d := range map[string]string{
		"transitions.open":  t.Transitions.Open,
		"transitions.close": t.Transitions.Close,
	} {
		if d != "" && !transitionPattern.MatchString(d) {
			return fmt.Errorf("%s: invalid duration %q", name, d)
		}
	}
	return nil
}

// LoadThemeFile reads and validates a theme document, then folds its
// overrides into the variant it names.
func LoadThemeFile(path string) (Theme, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var tf ThemeFile
	if err := yaml.Unmarshal(b, &tf); err != nil {
		return Theme{}, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if err := tf.Validate(); err != nil {
		return Theme{}, fmt.Errorf("theme %s: %w", path, err)
	}
	return tf.theme(), nil
}

func (t ThemeFile) theme() Theme {
	theme := ThemeForVariant(normalizeStyleVariant(t.Variant))
	if c := t.Colors.Background; c != "" {
		theme.Overlay = theme.Overlay.Background(lipgloss.Color(c))
	}
	if c := t.Colors.Body; c != "" {
		theme.Overlay = theme.Overlay.Foreground(lipgloss.Color(c))
		theme.PanelBody = theme.PanelBody.Foreground(lipgloss.Color(c))
		theme.Button = theme.Button.Foreground(lipgloss.Color(c))
	}
	if c := t.Colors.Title; c != "" {
		theme.OverlayTitle = theme.OverlayTitle.Foreground(lipgloss.Color(c))
	}
	if c := t.Colors.Accent; c != "" {
		theme.Accent = theme.Accent.Foreground(lipgloss.Color(c))
		theme.ButtonFocused = theme.ButtonFocused.Background(lipgloss.Color(c))
	}
	if c := t.Colors.Muted; c != "" {
		theme.Muted = theme.Muted.Foreground(lipgloss.Color(c))
	}
	if c := t.Colors.Border; c != "" {
		theme.PanelBorder = theme.PanelBorder.Foreground(lipgloss.Color(c))
	}
	if d := t.Transitions.Open; d != "" {
		theme.OpenTransition = d
	}
	if d := t.Transitions.Close; d != "" {
		theme.CloseTransition = d
	}
	return theme
}
