package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

type cell struct {
	dots  rune
	color colorful.Color
	tint  bool
	text  rune
	bold  bool
}

// Canvas is a terminal drawing surface. Each cell holds a 2x4 block of
// braille sub-pixels, so a canvas of Width x Height cells is addressed in
// (Width*2) x (Height*4) pixels. Color is tracked per cell; the last
// writer wins.
type Canvas struct {
	Width, Height int
	cells         [][]cell
}

func NewCanvas(w, h int) *Canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &Canvas{Width: w, Height: h, cells: make([][]cell, h)}
	for i := range c.cells {
		c.cells[i] = make([]cell, w)
	}
	c.Clear()
	return c
}

// PixelSize returns the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) {
	return c.Width * 2, c.Height * 4
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = cell{dots: brailleBase}
		}
	}
}

func (c *Canvas) at(x, y int) (*cell, int, int, bool) {
	if x < 0 || y < 0 {
		return nil, 0, 0, false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return nil, 0, 0, false
	}
	return &c.cells[row][col], x % 2, y % 4, true
}

// Set lights the sub-pixel at (x, y) in the given color.
func (c *Canvas) Set(x, y int, col colorful.Color) {
	cl, sx, sy, ok := c.at(x, y)
	if !ok {
		return
	}
	cl.dots |= pixelMap[sy][sx]
	cl.color = col
	cl.tint = true
}

// IsSet reports whether the sub-pixel at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	cl, sx, sy, ok := c.at(x, y)
	return ok && cl.dots&pixelMap[sy][sx] != 0
}

// ColorAt returns the color of the cell containing sub-pixel (x, y).
func (c *Canvas) ColorAt(x, y int) (colorful.Color, bool) {
	cl, _, _, ok := c.at(x, y)
	if !ok || !cl.tint {
		return colorful.Color{}, false
	}
	return cl.color, true
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col colorful.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillCircle lights every sub-pixel within r of (cx, cy).
func (c *Canvas) FillCircle(cx, cy, r float64, col colorful.Color) {
	c.ring(cx, cy, -1, r, col)
}

// StrokeCircle lights a band of the given width just outside radius r.
func (c *Canvas) StrokeCircle(cx, cy, r, width float64, col colorful.Color) {
	c.ring(cx, cy, r, r+width, col)
}

func (c *Canvas) ring(cx, cy, inner, outer float64, col colorful.Color) {
	x0, x1 := int(math.Floor(cx-outer)), int(math.Ceil(cx+outer))
	y0, y1 := int(math.Floor(cy-outer)), int(math.Ceil(cy+outer))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			if d <= outer && d > inner {
				c.Set(x, y, col)
			}
		}
	}
}

// Print writes s into the cells starting at the cell containing (x, y).
// Text replaces braille glyphs and is clipped at the canvas edges.
func (c *Canvas) Print(x, y int, s string, col colorful.Color, bold bool) {
	if y < 0 || y/4 >= c.Height {
		return
	}
	row := y / 4
	start := int(math.Floor(float64(x) / 2))
	for i, r := range []rune(s) {
		cc := start + i
		if cc < 0 {
			continue
		}
		if cc >= c.Width {
			break
		}
		t := &c.cells[row][cc]
		t.text, t.color, t.tint, t.bold = r, col, true, bold
	}
}

// Rasterize draws cmds in order. Strokes thinner than one sub-pixel are
// below braille resolution and are skipped.
func (c *Canvas) Rasterize(cmds []Command) {
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case Circle:
			if cmd.Filled {
				c.FillCircle(cmd.Center.X, cmd.Center.Y, cmd.Radius, cmd.Color)
			} else if cmd.Width >= 1 {
				c.StrokeCircle(cmd.Center.X, cmd.Center.Y, cmd.Radius, cmd.Width, cmd.Color)
			}
		case Polyline:
			c.polyline(cmd)
		case Text:
			c.Print(int(math.Round(cmd.Pos.X)), int(math.Round(cmd.Pos.Y)), cmd.Text, cmd.Color, cmd.Size >= SelectedLabelSize)
		}
	}
}

func (c *Canvas) polyline(p Polyline) {
	for i, pt := range p.Points {
		x, y := int(math.Round(pt.X)), int(math.Round(pt.Y))
		if p.Dotted || i == 0 {
			if !c.IsSet(x, y) {
				c.Set(x, y, p.Color)
			}
			continue
		}
		prev := p.Points[i-1]
		c.DrawLine(int(math.Round(prev.X)), int(math.Round(prev.Y)), x, y, p.Color)
	}
}

// String returns the canvas as plain text, one line per row.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		for _, cl := range row {
			b.WriteRune(cl.glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render returns the canvas with per-cell foreground colors.
func (c *Canvas) Render() string {
	var b strings.Builder
	for _, row := range c.cells {
		var run strings.Builder
		var style lipgloss.Style
		styled := false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if styled {
				b.WriteString(style.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}

		for j, cl := range row {
			if j == 0 || cl.tint != row[j-1].tint || cl.color != row[j-1].color || cl.bold != row[j-1].bold {
				flush()
				styled = cl.tint
				if styled {
					style = lipgloss.NewStyle().Foreground(lipgloss.Color(cl.color.Clamped().Hex())).Bold(cl.bold)
				}
			}
			run.WriteRune(cl.glyph())
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func (cl cell) glyph() rune {
	if cl.text != 0 {
		return cl.text
	}
	return cl.dots
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
