package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridrule/pkg/grid"
)

// =============================================================================
// Grid Palette
// =============================================================================

// defaultPalette is the conventional ten-color puzzle palette.
var defaultPalette = map[int]lipgloss.Color{
	0: lipgloss.Color("#111111"),
	1: lipgloss.Color("#0074D9"),
	2: lipgloss.Color("#FF4136"),
	3: lipgloss.Color("#2ECC40"),
	4: lipgloss.Color("#FFDC00"),
	5: lipgloss.Color("#AAAAAA"),
	6: lipgloss.Color("#F012BE"),
	7: lipgloss.Color("#FF851B"),
	8: lipgloss.Color("#7FDBFF"),
	9: lipgloss.Color("#870C25"),
}

// palette maps cell values to terminal colors.
type palette map[int]lipgloss.Color

// newPalette returns the default palette with overrides applied.
func newPalette(overrides map[int]string) palette {
	p := make(palette, len(defaultPalette)+len(overrides))
	for k, v := range defaultPalette {
		p[k] = v
	}
	for k, v := range overrides {
		p[k] = lipgloss.Color(v)
	}
	return p
}

func (p palette) color(v int) lipgloss.Color {
	if c, ok := p[v]; ok {
		return c
	}
	// ANSI 256 index for values outside the palette.
	return lipgloss.Color(strconv.Itoa(v % 256))
}

// cell renders one grid cell, two columns wide.
func (p palette) cell(v int) string {
	fg := lipgloss.Color("#FFFFFF")
	if v == 4 || v == 5 || v == 8 {
		fg = lipgloss.Color("#000000")
	}
	return lipgloss.NewStyle().
		Background(p.color(v)).
		Foreground(fg).
		Render(fmt.Sprintf("%2d", v))
}

// =============================================================================
// Grid Rendering
// =============================================================================

// renderGrid draws g one row per line.
func renderGrid(g grid.Grid, p palette) string {
	var b strings.Builder
	for r := 0; r < g.Rows(); r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < g.Cols(); c++ {
			b.WriteString(p.cell(g.At(grid.Point{Row: r, Col: c})))
		}
	}
	return b.String()
}

// renderPanel draws g under a dim caption.
func renderPanel(title string, g grid.Grid, p palette) string {
	caption := StyleDim.Render(fmt.Sprintf("%s %dx%d", title, g.Rows(), g.Cols()))
	return lipgloss.JoinVertical(lipgloss.Left, caption, renderGrid(g, p))
}

// renderPanels places captioned grids side by side with arrows between them.
func renderPanels(p palette, titles []string, grids []grid.Grid) string {
	var parts []string
	for i, g := range grids {
		if i > 0 {
			parts = append(parts, StyleDim.Render("  "+iconArrow+"  "))
		}
		parts = append(parts, renderPanel(titles[i], g, p))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// palette returns the configured grid palette.
func (c *CLI) palette() palette {
	colors, err := c.Config.Colors()
	if err != nil {
		return newPalette(nil)
	}
	return newPalette(colors)
}
