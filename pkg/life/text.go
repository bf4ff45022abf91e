package life

import "strings"

const (
	aliveGlyph = '◼'
	deadGlyph  = '◻'
)

// String renders one line per row, one glyph per cell, each row terminated by
// a newline.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.h * (g.w*3 + 1))
	for row := 0; row < g.h; row++ {
		for col := 0; col < g.w; col++ {
			if g.cur.Test(uint(row*g.w + col)) {
				b.WriteRune(aliveGlyph)
			} else {
				b.WriteRune(deadGlyph)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
