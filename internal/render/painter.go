//go:build ebiten

package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter updates a single RGBA image based on binary cell data.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit uploads the provided cells into the painter image and draws each cell
// as a CellSize square inside a BorderSize grid.
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []uint8, on, off color.Color) {
	if len(cells) != gp.w*gp.h {
		return
	}
	fillCellPixels(gp.buf, cells, on, off)
	gp.img.WritePixels(gp.buf)

	dst.Fill(GridColor)
	pitch := float64(CellSize + BorderSize)
	for row := 0; row < gp.h; row++ {
		for col := 0; col < gp.w; col++ {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(CellSize, CellSize)
			op.GeoM.Translate(float64(col)*pitch+BorderSize, float64(row)*pitch+BorderSize)
			dst.DrawImage(gp.img.SubImage(image.Rect(col, row, col+1, row+1)).(*ebiten.Image), op)
		}
	}
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
