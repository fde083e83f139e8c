package model

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bnema/dumbtile/internal/domain/entity"
)

// cell is one terminal cell of the preview canvas.
type cell struct {
	r     string
	color lipgloss.Color
}

// canvas is a fixed-size grid the panes are drawn into before being turned
// into styled lines.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 0), h: max(h, 0)}
	c.cells = make([][]cell, c.h)
	for y := range c.cells {
		row := make([]cell, c.w)
		for x := range row {
			row[x] = cell{r: " "}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) set(x, y int, r string, color lipgloss.Color) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, color: color}
}

// box draws a rounded border around rect with label embedded in the top
// edge. Rectangles narrower or shorter than two cells get no border.
func (c *canvas) box(rect entity.Rect, label string, color lipgloss.Color) {
	if rect.W < 2 || rect.H < 2 {
		return
	}
	b := lipgloss.RoundedBorder()
	x0, y0 := rect.X, rect.Y
	x1, y1 := rect.X+rect.W-1, rect.Y+rect.H-1

	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, b.Top, color)
		c.set(x, y1, b.Bottom, color)
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, b.Left, color)
		c.set(x1, y, b.Right, color)
	}
	c.set(x0, y0, b.TopLeft, color)
	c.set(x1, y0, b.TopRight, color)
	c.set(x0, y1, b.BottomLeft, color)
	c.set(x1, y1, b.BottomRight, color)

	room := rect.W - 4
	if room <= 0 || label == "" {
		return
	}
	label = ansi.Truncate(" "+label+" ", room, "…")
	x := x0 + 2
	for _, r := range label {
		s := string(r)
		c.set(x, y0, s, color)
		x += max(ansi.StringWidth(s), 1)
	}
}

// render turns the grid into lines, styling runs of equal color at once.
func (c *canvas) render() string {
	var out strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			out.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].color == row[start].color {
				continue
			}
			var run strings.Builder
			for _, cl := range row[start:x] {
				run.WriteString(cl.r)
			}
			if row[start].color == "" {
				out.WriteString(run.String())
			} else {
				out.WriteString(lipgloss.NewStyle().Foreground(row[start].color).Render(run.String()))
			}
			start = x
		}
	}
	return out.String()
}

// plain returns the grid without styling, for tests and non-TTY output.
func (c *canvas) plain() string {
	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		var b strings.Builder
		for _, cl := range row {
			b.WriteString(cl.r)
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// paneLabel names a pane by view and id.
func paneLabel(p entity.PaneFlattened) string {
	return string(p.View) + " #" + p.ID.String()
}

// Sketch draws entries as unstyled boxes on a w x h grid, for output that is
// not a live terminal.
func Sketch(entries []entity.PaneFlattened, w, h int) string {
	c := newCanvas(w, h)
	for _, p := range entries {
		label := paneLabel(p)
		if p.Focused {
			label += " *"
		}
		c.box(p.Rect, label, "")
	}
	return c.plain()
}
