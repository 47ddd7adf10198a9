package framebuffer

import (
	"errors"
	"image"
	"image/color"
)

const (
	Width  = 64
	Height = 32
)

var ErrOutOfBounds = errors.New("framebuffer: coordinate out of bounds")

// Cell is one pixel of the chip8 display. Region is where a renderer
// should paint it.
type Cell struct {
	Lit    bool
	Region image.Rectangle
}

type Framebuffer struct {
	cells [Width * Height]Cell
	on    color.Color
	off   color.Color
}

func New() *Framebuffer {
	return &Framebuffer{on: color.White, off: color.Black}
}

// Initialize lays the cells out row-major with the given cell size and
// switches every cell off. It must run before the first draw.
func (f *Framebuffer) Initialize(cellW, cellH int, on, off color.Color) {
	for i := range f.cells {
		row, col := i/Width, i%Width
		f.cells[i] = Cell{
			Region: image.Rect(col*cellW, row*cellH, (col+1)*cellW, (row+1)*cellH),
		}
	}
	f.on = on
	f.off = off
}

// Toggle flips the cell at (x, y) and returns its new state.
func (f *Framebuffer) Toggle(x, y int) (bool, error) {
	if !inside(x, y) {
		return false, ErrOutOfBounds
	}
	c := &f.cells[y*Width+x]
	c.Lit = !c.Lit
	return c.Lit, nil
}

func (f *Framebuffer) IsLit(x, y int) bool {
	if !inside(x, y) {
		return false
	}
	return f.cells[y*Width+x].Lit
}

func (f *Framebuffer) Clear() {
	for i := range f.cells {
		f.cells[i].Lit = false
	}
}

// Cells returns a copy of the grid in row-major order.
func (f *Framebuffer) Cells() []Cell {
	s := make([]Cell, len(f.cells))
	copy(s, f.cells[:])
	return s
}

func (f *Framebuffer) OnColor() color.Color  { return f.on }
func (f *Framebuffer) OffColor() color.Color { return f.off }

func inside(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}
