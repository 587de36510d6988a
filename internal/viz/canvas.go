package viz

import "strings"

// Braille cells pack 2x4 sub-pixels per terminal cell (unicode 0x2800).
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille sub-pixel drawing surface. Coordinates are in
// sub-pixels: (Width*2) x (Height*4).
type Canvas struct {
	Width  int
	Height int
	grid   [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, grid: make([][]rune, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// SubSize returns the drawable area in sub-pixels.
func (c *Canvas) SubSize() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= brailleDots[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
}

// Line draws with Bresenham's algorithm in sub-pixel space.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
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

// Polyline connects consecutive points.
func (c *Canvas) Polyline(pts [][2]int) {
	for i := 1; i < len(pts); i++ {
		c.Line(pts[i-1][0], pts[i-1][1], pts[i][0], pts[i][1])
	}
}

// Rect draws an axis-aligned outline.
func (c *Canvas) Rect(x0, y0, x1, y1 int) {
	c.Line(x0, y0, x1, y0)
	c.Line(x1, y0, x1, y1)
	c.Line(x1, y1, x0, y1)
	c.Line(x0, y1, x0, y0)
}

// FillRect fills a solid block, used for liquid levels.
func (c *Canvas) FillRect(x0, y0, x1, y1 int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Set(x, y)
		}
	}
}

// Dot draws a fat point.
func (c *Canvas) Dot(x, y int) {
	c.Set(x, y)
	c.Set(x+1, y)
	c.Set(x, y+1)
	c.Set(x+1, y+1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
