package ui

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// rect is a placement in terminal cells, rows down and columns across.
type rect struct {
	row, col      int
	height, width int
}

func (r rect) contains(x, y int) bool {
	return x >= r.col && x < r.col+r.width && y >= r.row && y < r.row+r.height
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		i = n - 1
	}
	if i >= n {
		i = 0
	}
	return i
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// wrapText folds s into lines of at most width cells, breaking on
// spaces where possible.
func wrapText(s string, width int) []string {
	if width <= 0 || s == "" {
		return nil
	}
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, w := range words {
			switch {
			case line == "":
				line = w
			case len([]rune(line))+1+len([]rune(w)) <= width:
				line += " " + w
			default:
				out = append(out, line)
				line = w
			}
		}
		for len([]rune(line)) > width {
			r := []rune(line)
			out = append(out, string(r[:width]))
			line = string(r[width:])
		}
		out = append(out, line)
	}
	return out
}

// padCell pads or truncates s to width terminal cells, measured with
// ANSI sequences left intact.
func padCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "")
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// composeOverlay centers overlay on top of base and reports where it
// landed. The base is flattened to plain cells and repainted with the
// backdrop style so its own colors never bleed through; the overlay
// keeps its styling, so cell arithmetic uses ANSI-aware widths.
func composeOverlay(base, overlay string, cols, rows int, backdrop lipgloss.Style) (string, rect) {
	if cols <= 0 || rows <= 0 {
		return base, rect{}
	}
	dim := func(s string) string {
		if s == "" {
			return ""
		}
		return backdrop.Render(s)
	}
	base = ansi.Strip(base)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	if overlay == "" || len(overlayLines) == 0 {
		for i := 0; i < rows; i++ {
			baseLines[i] = dim(baseLines[i])
		}
		return strings.Join(baseLines[:rows], "\n"), rect{}
	}
	ow := 1
	for _, line := range overlayLines {
		if lw := ansi.StringWidth(line); lw > ow {
			ow = lw
		}
	}
	if ow > cols {
		ow = cols
	}
	oh := len(overlayLines)
	if oh > rows {
		oh = rows
	}
	startRow := (rows - oh) / 2
	startCol := (cols - ow) / 2
	if startCol < 0 {
		startCol = 0
	}

	for i := 0; i < rows; i++ {
		oi := i - startRow
		if oi < 0 || oi >= oh {
			baseLines[i] = dim(baseLines[i])
			continue
		}
		dst := []rune(baseLines[i])
		prefix := string(dst[:min(startCol, len(dst))])
		suffix := ""
		if startCol+ow < len(dst) {
			suffix = string(dst[startCol+ow:])
		}
		baseLines[i] = dim(prefix) + padCell(overlayLines[oi], ow) + dim(suffix)
	}
	return strings.Join(baseLines[:rows], "\n"), rect{row: startRow, col: startCol, height: oh, width: ow}
}
