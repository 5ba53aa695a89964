package viz

import (
	"math"
	"strings"

	"github.com/san-kum/trackdyn/internal/vmath"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
const brailleBase = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells addressed in dots, Width*2 by Height*4.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for _, row := range c.Grid {
		for j := range row {
			row[j] = brailleBase
		}
	}
}

// DrawLine draws with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var sb strings.Builder
	for i, row := range c.Grid {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(row))
	}
	return sb.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps the ground plane onto a canvas, top down with +X up the
// screen and +Y to the right, centred on Center.
type Viewport struct {
	Canvas *Canvas
	Center vmath.Vec3
	// Scale is cm per dot.
	Scale float64
}

func (v Viewport) project(p vmath.Vec3) (int, int) {
	w, h := v.Canvas.Width*2, v.Canvas.Height*4
	d := p.Sub(v.Center)
	// terminal cells are about twice as tall as wide, so a dot is square
	col := float64(w)/2 + d.Y()/v.Scale
	row := float64(h)/2 - d.X()/v.Scale
	return int(math.Round(col)), int(math.Round(row))
}

func (v Viewport) Plot(p vmath.Vec3) {
	x, y := v.project(p)
	v.Canvas.Set(x, y)
}

func (v Viewport) Line(a, b vmath.Vec3) {
	x0, y0 := v.project(a)
	x1, y1 := v.project(b)
	v.Canvas.DrawLine(x0, y0, x1, y1)
}

// Polygon closes the outline through pts.
func (v Viewport) Polygon(pts ...vmath.Vec3) {
	for i := range pts {
		v.Line(pts[i], pts[(i+1)%len(pts)])
	}
}
