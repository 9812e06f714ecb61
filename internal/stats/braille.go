package stats

// brailleBase is U+2800, the blank braille pattern.
const brailleBase = 0x2800

// dotBits maps a dot at (column, row) of a 2x4 braille cell to its bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// canvas is a grid of braille cells addressed in dot coordinates. Each cell
// is two dots wide and four dots tall.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

func (c *canvas) dotsHigh() int { return len(c.cells) * 4 }

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(c.cells) || cx >= len(c.cells[cy]) {
		return
	}
	c.cells[cy][cx] |= dotBits[x%2][y%4]
}

func (c *canvas) mask(x, y int) uint8 {
	if y < 0 || y >= len(c.cells) || x < 0 || x >= len(c.cells[y]) {
		return 0
	}
	return c.cells[y][x]
}

// line draws a Bresenham line between two dots, skipping the dots whose x
// keep rejects.
func (c *canvas) line(x0, y0, x1, y1 int, keep func(x int) bool) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	err := dx + dy
	for {
		if keep(x0) {
			c.set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				return
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				return
			}
			err += dx
			y0 += sy
		}
	}
}

// overlay merges the cell at (x, y) of every layer. owner is the first layer
// with a dot there, or -1.
func overlay(layers []*canvas, x, y int) (mask uint8, owner int) {
	owner = -1
	for i, layer := range layers {
		m := layer.mask(x, y)
		if m == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}

func brailleRune(mask uint8) rune {
	return rune(brailleBase + int(mask))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
