package swal

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Icon is the capability an alert icon must satisfy. Built-in icons are
// BuiltinIcon values; anything else implementing this interface can be
// used as a custom icon.
type Icon interface {
	// Render returns the icon fragment as a text block. ascii requests a
	// pure-ASCII rendering for terminals without good glyph support.
	Render(ascii bool) string

	// Defined reports whether an icon should be displayed at all. The
	// built-in None icon is the only built-in returning false.
	Defined() bool
}

// BuiltinIcon is one of the stock alert icons.
type BuiltinIcon string

const (
	IconNone     BuiltinIcon = ""
	IconInfo     BuiltinIcon = "info"
	IconError    BuiltinIcon = "error"
	IconSuccess  BuiltinIcon = "success"
	IconWarning  BuiltinIcon = "warning"
	IconQuestion BuiltinIcon = "question"
)

func (i BuiltinIcon) String() string {
	if i == IconNone {
		return "NONE"
	}
	return string(i)
}

func (i BuiltinIcon) Defined() bool {
	return i != IconNone
}

func (i BuiltinIcon) Render(ascii bool) string {
	glyph, color := i.face(ascii)
	if glyph == "" {
		return ""
	}
	st := lipgloss.NewStyle().Foreground(color).Bold(true)
	return renderRoundedIcon(st, glyph, ascii)
}

func (i BuiltinIcon) face(ascii bool) (string, color.Color) {
	switch i {
	case IconInfo:
		return "i", lipgloss.Color("#5EC2FF")
	case IconError:
		g := "✗"
		if ascii {
			g = "x"
		}
		return g, lipgloss.Color("#FF6F91")
	case IconSuccess:
		g := "✓"
		if ascii {
			g = "v"
		}
		return g, lipgloss.Color("#67F0A8")
	case IconWarning:
		return "!", lipgloss.Color("#FFC857")
	case IconQuestion:
		return "?", lipgloss.Color("#9CAAC6")
	default:
		return "", nil
	}
}

// renderRoundedIcon draws the shared circled-glyph fragment the built-in
// icons use, mirroring the rounded-icon look of the web original.
func renderRoundedIcon(st lipgloss.Style, glyph string, ascii bool) string {
	tl, tr, bl, br, h, v := "╭", "╮", "╰", "╯", "─", "│"
	if ascii {
		tl, tr, bl, br, h, v = "+", "+", "+", "+", "-", "|"
	}
	lines := []string{
		tl + strings.Repeat(h, 3) + tr,
		v + " " + glyph + " " + v,
		bl + strings.Repeat(h, 3) + br,
	}
	return st.Render(strings.Join(lines, "\n"))
}

var _ Icon = IconNone
