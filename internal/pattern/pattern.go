// Package pattern loads explicit Game of Life seeds from YAML.
//
// A pattern lists its live cells either as coordinates:
//
//	name: blinker
//	width: 5
//	height: 5
//	alive: [[1, 2], [2, 2], [3, 2]]
//
// or as rows of text, where '#' or 'O' marks a live cell and anything else
// is dead:
//
//	name: glider
//	rows: [".#.", "..#", "###"]
//
// Width and height default to the extent of rows.
package pattern

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"torus-life/pkg/life"
)

//go:embed patterns/*.yaml
var builtins embed.FS

var (
	// ErrUnknownPattern is returned by Builtin for names it does not know.
	ErrUnknownPattern = errors.New("unknown pattern")
	// ErrOutOfBounds is returned when a live cell lies outside the pattern.
	ErrOutOfBounds = errors.New("cell out of bounds")
)

// Pattern is a named set of live cells on a width x height board.
type Pattern struct {
	Name   string   `yaml:"name"`
	Width  int      `yaml:"width,omitempty"`
	Height int      `yaml:"height,omitempty"`
	Alive  [][2]int `yaml:"alive,omitempty"`
	Rows   []string `yaml:"rows,omitempty"`
}

// Parse decodes and validates a YAML pattern. Unknown keys are rejected.
func Parse(data []byte) (*Pattern, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p Pattern
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("pattern: empty document")
		}
		return nil, fmt.Errorf("pattern: decode: %w", err)
	}
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads a pattern file. A path that does not exist but names a built-in
// pattern returns the built-in.
func Load(file string) (*Pattern, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if p, berr := Builtin(file); berr == nil {
				return p, nil
			}
		}
		return nil, fmt.Errorf("pattern: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return p, nil
}

// Builtin returns one of the bundled patterns.
func Builtin(name string) (*Pattern, error) {
	data, err := builtins.ReadFile(path.Join("patterns", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w (have %s)", name, ErrUnknownPattern, strings.Join(Builtins(), ", "))
	}
	return Parse(data)
}

// Builtins lists bundled pattern names.
func Builtins() []string {
	entries, _ := builtins.ReadDir("patterns")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func (p *Pattern) normalize() {
	if p.Height == 0 {
		p.Height = len(p.Rows)
	}
	if p.Width == 0 {
		for _, r := range p.Rows {
			if n := utf8.RuneCountInString(r); n > p.Width {
				p.Width = n
			}
		}
	}
}

// Validate checks dimensions and that every live cell is on the board.
func (p *Pattern) Validate() error {
	if p.Width < 1 || p.Height < 1 {
		return fmt.Errorf("pattern %q: %w", p.Name, life.ErrInvalidSize)
	}
	if len(p.Rows) > p.Height {
		return fmt.Errorf("pattern %q: %d rows exceed height %d: %w", p.Name, len(p.Rows), p.Height, ErrOutOfBounds)
	}
	for i, r := range p.Rows {
		if n := utf8.RuneCountInString(r); n > p.Width {
			return fmt.Errorf("pattern %q: row %d is %d wide, width is %d: %w", p.Name, i, n, p.Width, ErrOutOfBounds)
		}
	}
	for _, c := range p.Alive {
		if c[0] < 0 || c[0] >= p.Height || c[1] < 0 || c[1] >= p.Width {
			return fmt.Errorf("pattern %q: cell (%d,%d) on %dx%d board: %w", p.Name, c[0], c[1], p.Width, p.Height, ErrOutOfBounds)
		}
	}
	return nil
}

// Cells returns the live cells from both alive and rows, in no particular
// order. Duplicates are harmless.
func (p *Pattern) Cells() []life.Coord {
	out := make([]life.Coord, 0, len(p.Alive))
	for _, c := range p.Alive {
		out = append(out, life.Coord{Row: c[0], Col: c[1]})
	}
	for row, r := range p.Rows {
		col := 0
		for _, ch := range r {
			if ch == '#' || ch == 'O' {
				out = append(out, life.Coord{Row: row, Col: col})
			}
			col++
		}
	}
	return out
}

// Grid builds a grid the size of the pattern.
func (p *Pattern) Grid() (*life.Grid, error) {
	return life.NewFromCells(p.Width, p.Height, p.Cells())
}

// GridSized centres the pattern on a larger w x h grid. Zero dimensions take
// the pattern's own size.
func (p *Pattern) GridSized(w, h int) (*life.Grid, error) {
	if w == 0 {
		w = p.Width
	}
	if h == 0 {
		h = p.Height
	}
	if w < p.Width || h < p.Height {
		return nil, fmt.Errorf("pattern %q is %dx%d, grid is %dx%d: %w", p.Name, p.Width, p.Height, w, h, ErrOutOfBounds)
	}
	offRow, offCol := (h-p.Height)/2, (w-p.Width)/2
	cells := p.Cells()
	for i := range cells {
		cells[i].Row += offRow
		cells[i].Col += offCol
	}
	return life.NewFromCells(w, h, cells)
}

// Marshal encodes the pattern as YAML.
func (p *Pattern) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

// FromGrid captures the live cells of g as a row-based pattern.
func FromGrid(name string, g *life.Grid) *Pattern {
	rows := make([]string, g.Height())
	var b strings.Builder
	for row := 0; row < g.Height(); row++ {
		b.Reset()
		for col := 0; col < g.Width(); col++ {
			if g.Alive(row, col) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows[row] = b.String()
	}
	return &Pattern{Name: name, Width: g.Width(), Height: g.Height(), Rows: rows}
}
