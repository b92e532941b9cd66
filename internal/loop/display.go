package loop

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tomz197/arena/internal/draw"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/world"
)

// Number of event lines kept under the arena map.
const tailLines = 6

// Display draws the arena and the most recent events on a terminal.
// It is an io.Writer so a Feed can write event lines into its tail.
type Display struct {
	out    io.Writer
	size   draw.TermSizeFunc
	canvas *draw.Canvas
	tail   []string
	part   []byte
	active bool
}

// NewDisplay creates a display writing to out and sizing itself with size.
func NewDisplay(out io.Writer, size draw.TermSizeFunc) *Display {
	return &Display{out: out, size: size}
}

// Write collects complete lines into the event tail.
func (d *Display) Write(p []byte) (int, error) {
	d.part = append(d.part, p...)
	for {
		i := bytes.IndexByte(d.part, '\n')
		if i < 0 {
			break
		}
		line := string(bytes.TrimRight(d.part[:i], "\r"))
		d.part = d.part[i+1:]
		d.tail = append(d.tail, line)
		if len(d.tail) > tailLines {
			d.tail = d.tail[len(d.tail)-tailLines:]
		}
	}
	return len(p), nil
}

// Tail returns the recent event lines, oldest first.
func (d *Display) Tail() []string { return d.tail }

func (d *Display) start() {
	d.active = true
	draw.HideCursor(d.out)
	draw.ClearScreen(d.out)
}

func (d *Display) stop() {
	if !d.active {
		return
	}
	d.active = false
	draw.ShowCursor(d.out)
	fmt.Fprint(d.out, "\r\n")
}

// Draw renders one frame of s.
func (d *Display) Draw(s world.Snapshot) error {
	cols, rows, err := d.size()
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}
	mapRows := rows - tailLines - 1
	if mapRows < 1 || cols < 1 {
		return nil
	}
	if d.canvas == nil {
		d.canvas = draw.NewCanvas(cols, mapRows, s.Width, s.Height)
	} else {
		d.canvas.Resize(cols, mapRows, s.Width, s.Height)
	}

	d.canvas.Scene(s)
	if err := d.canvas.Render(d.out, 1); err != nil {
		return err
	}

	status := fmt.Sprintf("t=%.2f  ships=%d bullets=%d planets=%d",
		s.Clock,
		s.Count(object.KindShip),
		s.Count(object.KindBullet),
		s.Count(object.KindMinorPlanet),
	)
	if err := draw.WriteLine(d.out, mapRows+1, status); err != nil {
		return err
	}
	for i := 0; i < tailLines; i++ {
		line := ""
		if i < len(d.tail) {
			line = d.tail[i]
		}
		if err := draw.WriteLine(d.out, mapRows+2+i, line); err != nil {
			return err
		}
	}
	return nil
}
