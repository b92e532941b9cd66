// Package draw renders arena snapshots to a terminal using half-block characters.
package draw

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tomz197/arena/internal/physics"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockEmpty     = ' '
)

// maxChunkSize is the maximum bytes to write at once.
// Roughly one MTU keeps SSH output smooth.
const maxChunkSize = 1400

// Canvas is a drawing buffer with 2x vertical resolution. World coordinates
// are scaled to terminal cells; the y axis points up like the arena's.
type Canvas struct {
	cols, rows int
	pixels     []bool // [y*cols + x], y counts sub-pixel rows from the top

	scaleX, scaleY float64
	height         float64 // World height, used to flip y

	buf strings.Builder
	num [20]byte
}

// NewCanvas creates a canvas of cols x rows cells showing a width x height world.
func NewCanvas(cols, rows int, width, height float64) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows, width, height)
	return c
}

// Resize updates the terminal and world dimensions.
func (c *Canvas) Resize(cols, rows int, width, height float64) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols != c.cols || rows != c.rows {
		c.pixels = make([]bool, cols*rows*2)
		c.cols, c.rows = cols, rows
	}
	c.scaleX = float64(cols) / width
	c.scaleY = float64(rows*2) / height
	c.height = height
}

// Cols returns the terminal column count.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the terminal row count.
func (c *Canvas) Rows() int { return c.rows }

// Clear resets all pixels.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

func (c *Canvas) toPixel(p physics.Vector2D) (int, int) {
	return int(math.Floor(p.X * c.scaleX)), int(math.Floor((c.height - p.Y) * c.scaleY))
}

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.cols && y >= 0 && y < c.rows*2 {
		c.pixels[y*c.cols+x] = true
	}
}

// Set sets the pixel containing world point p.
func (c *Canvas) Set(p physics.Vector2D) {
	c.setPixel(c.toPixel(p))
}

// Lit reports whether the pixel containing world point p is set.
func (c *Canvas) Lit(p physics.Vector2D) bool {
	x, y := c.toPixel(p)
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows*2 {
		return false
	}
	return c.pixels[y*c.cols+x]
}

// Line draws a line between two world points using Bresenham's algorithm.
func (c *Canvas) Line(a, b physics.Vector2D) {
	x1, y1 := c.toPixel(a)
	x2, y2 := c.toPixel(b)

	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Circle draws a circle of radius r around center. Circles smaller than a
// pixel collapse to a single dot.
func (c *Canvas) Circle(center physics.Vector2D, r float64, filled bool) {
	c.Set(center)

	// Sample the rim densely enough to leave no gaps at this scale.
	steps := int(math.Ceil(2 * math.Pi * r * max(c.scaleX, c.scaleY)))
	if steps < 8 {
		return
	}
	prev := center.Add(physics.Vec(r, 0))
	for i := 1; i <= steps; i++ {
		next := center.Add(physics.FromAngle(2*math.Pi*float64(i)/float64(steps), r))
		c.Line(prev, next)
		prev = next
	}
	if !filled {
		return
	}

	_, top := c.toPixel(center.Add(physics.Vec(0, r)))
	_, bottom := c.toPixel(center.Sub(physics.Vec(0, r)))
	for y := top; y <= bottom; y++ {
		wy := c.height - (float64(y)+0.5)/c.scaleY
		dy := wy - center.Y
		half := r*r - dy*dy
		if half < 0 {
			continue
		}
		w := math.Sqrt(half)
		x1, _ := c.toPixel(physics.Vec(center.X-w, wy))
		x2, _ := c.toPixel(physics.Vec(center.X+w, wy))
		for x := x1; x <= x2; x++ {
			c.setPixel(x, y)
		}
	}
}

// Render writes every row of the canvas starting at terminal row top (1-based).
// Empty cells are written as spaces so a frame fully replaces the previous one.
func (c *Canvas) Render(w io.Writer, top int) error {
	c.buf.Reset()
	c.buf.Grow(c.cols * c.rows * 3)

	for row := 0; row < c.rows; row++ {
		c.moveCursor(1, top+row)
		upper := row * 2 * c.cols
		lower := upper + c.cols
		for col := 0; col < c.cols; col++ {
			t, b := c.pixels[upper+col], c.pixels[lower+col]
			switch {
			case t && b:
				c.buf.WriteRune(BlockFull)
			case t:
				c.buf.WriteRune(BlockUpperHalf)
			case b:
				c.buf.WriteRune(BlockLowerHalf)
			default:
				c.buf.WriteByte(BlockEmpty)
			}
		}
	}
	return writeChunks(w, c.buf.String())
}

func (c *Canvas) moveCursor(col, row int) {
	c.buf.WriteString("\033[")
	c.buf.Write(strconv.AppendInt(c.num[:0], int64(row), 10))
	c.buf.WriteByte(';')
	c.buf.Write(strconv.AppendInt(c.num[:0], int64(col), 10))
	c.buf.WriteByte('H')
}

func writeChunks(w io.Writer, data string) error {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
