// Package life implements Conway's Game of Life on a toroidal grid.
//
// A Grid owns a packed bit buffer of width*height cells in row-major order.
// Tick computes the next generation into a second buffer and swaps it in, so
// callers never observe a partially computed generation.
package life

import (
	"errors"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"

	"torus-life/pkg/sample"
)

var (
	// ErrInvalidSize is returned when a grid is requested with a zero or
	// negative dimension, or with more cells than an int can count.
	ErrInvalidSize = errors.New("life: invalid grid size")
	// ErrSeed is returned when the randomness source fails during seeding.
	ErrSeed = errors.New("life: seeding failed")
)

// Coord addresses a cell by row and column.
type Coord struct {
	Row int `yaml:"row" json:"row"`
	Col int `yaml:"col" json:"col"`
}

// Grid is a fixed-size Game of Life universe with wrap-around edges.
type Grid struct {
	w, h int
	gen  uint64
	cur  *bitset.BitSet
	nxt  *bitset.BitSet
}

// New returns an all-dead grid. w*h must fit in an int.
func New(w, h int) (*Grid, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, w, h)
	}
	if w > math.MaxInt/h {
		return nil, fmt.Errorf("%w: %dx%d cells overflow", ErrInvalidSize, w, h)
	}
	n := uint(w * h)
	return &Grid{w: w, h: h, cur: bitset.New(n), nxt: bitset.New(n)}, nil
}

// NewFromCells returns a grid with exactly the listed cells alive. Coordinates
// must be in range; an out-of-range coordinate panics.
func NewFromCells(w, h int, alive []Coord) (*Grid, error) {
	g, err := New(w, h)
	if err != nil {
		return nil, err
	}
	for _, c := range alive {
		g.cur.Set(uint(g.Index(c.Row, c.Col)))
	}
	return g, nil
}

// NewRandom seeds each cell from one sample of src, taken in row-major order.
// A cell is alive when its sample is greater than 0.5. Any sampler error
// aborts construction.
func NewRandom(w, h int, src sample.Sampler) (*Grid, error) {
	g, err := New(w, h)
	if err != nil {
		return nil, err
	}
	for i := 0; i < w*h; i++ {
		v, err := src.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d: %w", ErrSeed, i, err)
		}
		if v > 0.5 {
			g.cur.Set(uint(i))
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Len returns the number of cells, always Width()*Height().
func (g *Grid) Len() int { return int(g.cur.Len()) }

// Generation returns the number of ticks applied since construction.
func (g *Grid) Generation() uint64 { return g.gen }

// Index returns the linear buffer index for (row, col). Both must be in range.
func (g *Grid) Index(row, col int) int {
	if row < 0 || row >= g.h || col < 0 || col >= g.w {
		panic(fmt.Sprintf("life: cell (%d,%d) outside %dx%d grid", row, col, g.w, g.h))
	}
	return row*g.w + col
}

// Alive reports whether the cell at (row, col) is alive.
func (g *Grid) Alive(row, col int) bool {
	return g.cur.Test(uint(g.Index(row, col)))
}

// Population returns the number of alive cells.
func (g *Grid) Population() int { return int(g.cur.Count()) }

// LiveNeighborCount counts alive cells in the Moore neighbourhood of (row, col),
// wrapping at the edges. Offsets h-1 and w-1 stand in for -1 so every
// intermediate sum stays non-negative. On grids one cell wide or tall a cell
// can be its own neighbour.
func (g *Grid) LiveNeighborCount(row, col int) int {
	count := 0
	// The centre is skipped by position: on a 1-tall grid h-1 is also 0.
	for i, dr := range [3]int{g.h - 1, 0, 1} {
		for j, dc := range [3]int{g.w - 1, 0, 1} {
			if i == 1 && j == 1 {
				continue
			}
			nr := (row + dr) % g.h
			nc := (col + dc) % g.w
			if g.cur.Test(uint(nr*g.w + nc)) {
				count++
			}
		}
	}
	return count
}

// Tick advances the grid by one generation.
func (g *Grid) Tick() {
	g.nxt.ClearAll()
	for row := 0; row < g.h; row++ {
		for col := 0; col < g.w; col++ {
			idx := uint(row*g.w + col)
			if next(g.cur.Test(idx), g.LiveNeighborCount(row, col)) {
				g.nxt.Set(idx)
			}
		}
	}
	g.cur, g.nxt = g.nxt, g.cur
	g.gen++
}

// next applies the Conway rule table to a single cell.
func next(alive bool, neighbors int) bool {
	switch {
	case alive && neighbors < 2:
		return false
	case alive && (neighbors == 2 || neighbors == 3):
		return true
	case alive && neighbors > 3:
		return false
	case !alive && neighbors == 3:
		return true
	default:
		return false
	}
}

// Cells returns a copy of the current state, one byte (0 or 1) per cell in
// row-major order.
func (g *Grid) Cells() []uint8 {
	out := make([]uint8, g.w*g.h)
	g.CopyCells(out)
	return out
}

// CopyCells writes the current state into dst, which must hold at least Len()
// bytes. It lets renderers reuse a buffer between frames.
func (g *Grid) CopyCells(dst []uint8) {
	dst = dst[:g.w*g.h]
	for i := range dst {
		dst[i] = 0
	}
	for i, ok := g.cur.NextSet(0); ok; i, ok = g.cur.NextSet(i + 1) {
		dst[i] = 1
	}
}

// Words returns a copy of the packed buffer, 64 cells per word, least
// significant bit first.
func (g *Grid) Words() []uint64 {
	return append([]uint64(nil), g.cur.Bytes()...)
}

// FromWords rebuilds a grid from a buffer produced by Words.
func FromWords(w, h int, words []uint64) (*Grid, error) {
	g, err := New(w, h)
	if err != nil {
		return nil, err
	}
	n := uint(w * h)
	if want := int((n + 63) / 64); len(words) != want {
		return nil, fmt.Errorf("life: packed buffer has %d words, want %d", len(words), want)
	}
	buf := append([]uint64(nil), words...)
	if tail := n % 64; tail != 0 {
		buf[len(buf)-1] &= 1<<tail - 1
	}
	g.cur = bitset.FromWithLength(n, buf)
	return g, nil
}

// Equal reports whether both grids have the same dimensions and cells.
// Generation counts are ignored.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.w == o.w && g.h == o.h && g.cur.Equal(o.cur)
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{w: g.w, h: g.h, gen: g.gen, cur: g.cur.Clone(), nxt: bitset.New(g.cur.Len())}
}
