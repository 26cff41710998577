package tui

// canvas is a braille drawing surface: every terminal cell holds a 2x4 grid
// of dots, addressed in micro coordinates (x in [0,2w), y in [0,4h)).
type canvas struct {
	w, h  int // in cells
	cells [][]uint8
}

func newCanvas(w, h int) *canvas {
	c := make([][]uint8, h)
	for i := range c {
		c[i] = make([]uint8, w)
	}
	return &canvas{w: w, h: h, cells: c}
}

// Braille dot bit by (column, row) within one cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (c *canvas) set(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= c.w || cy >= c.h {
		return
	}
	c.cells[cy][cx] |= brailleBits[mx%2][my%4]
}

// line draws a micro-resolution segment using Bresenham.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.set(x0, y0)
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

// rows renders the buffer as one string per cell row; empty cells are
// spaces, everything else is a braille rune.
func (c *canvas) rows() []string {
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		row := make([]rune, c.w)
		for x, mask := range c.cells[y] {
			if mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(row)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
