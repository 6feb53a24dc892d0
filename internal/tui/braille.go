package tui

import "sort"

// brailleDots maps a micro-pixel (column, row) inside a cell to its dot bit.
var brailleDots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// canvas is a braille raster. Each terminal cell holds 2x4 micro-pixels.
type canvas struct {
	w, h  int // in cells
	cells []uint8
}

func newCanvas(w, h int) *canvas {
	return &canvas{w: w, h: h, cells: make([]uint8, w*h)}
}

func (c *canvas) set(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= c.w || cy >= c.h {
		return
	}
	c.cells[cy*c.w+cx] |= brailleDots[mx%2][my%4]
}

// line draws a segment with Bresenham's algorithm.
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

// outline closes and strokes every ring.
func (c *canvas) outline(rings [][][2]int) {
	for _, r := range rings {
		for i := range r {
			a, b := r[i], r[(i+1)%len(r)]
			c.line(a[0], a[1], b[0], b[1])
		}
	}
}

// fill paints the interior of rings by the even-odd rule, so interior
// rings punch holes.
func (c *canvas) fill(rings [][][2]int) {
	var xs []int
	for y := 0; y < c.h*4; y++ {
		xs = xs[:0]
		for _, r := range rings {
			for i := range r {
				a, b := r[i], r[(i+1)%len(r)]
				if a[1] == b[1] {
					continue
				}
				if (y >= a[1] && y < b[1]) || (y >= b[1] && y < a[1]) {
					t := float64(y-a[1]) / float64(b[1]-a[1])
					xs = append(xs, a[0]+int(t*float64(b[0]-a[0])))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(0, xs[i]); x <= min(xs[i+1], c.w*2-1); x++ {
				c.set(x, y)
			}
		}
	}
}

// rows renders the raster, one string per cell row. Blank cells are spaces.
func (c *canvas) rows() []string {
	out := make([]string, c.h)
	row := make([]rune, c.w)
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			row[x] = ' '
			if mask := c.cells[y*c.w+x]; mask != 0 {
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
