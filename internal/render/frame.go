// Package render turns cell buffers into pixels.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
)

const (
	// CellSize is the side of a cell in pixels.
	CellSize = 3
	// BorderSize is the width of the grid lines between cells.
	BorderSize = 1

	// FallbackViewport is used when the host cannot report its size.
	FallbackViewport = 400
)

var (
	// AliveColor fills live cells.
	AliveColor = color.RGBA{R: 0xae, G: 0xae, B: 0xae, A: 0xff}
	// DeadColor fills dead cells.
	DeadColor = color.RGBA{A: 0xff}
	// GridColor draws the lines between cells.
	GridColor = color.RGBA{R: 0x2e, G: 0x2e, B: 0x2e, A: 0xff}
)

// GridSize returns how many cells fit a viewport of the given pixel size.
// Non-positive viewport dimensions fall back to FallbackViewport.
func GridSize(viewportW, viewportH int) (w, h int) {
	if viewportW <= 0 {
		viewportW = FallbackViewport
	}
	if viewportH <= 0 {
		viewportH = FallbackViewport
	}
	return cellsFor(viewportW), cellsFor(viewportH)
}

func cellsFor(px int) int {
	n := (px - BorderSize) / (CellSize + BorderSize)
	if n < 1 {
		n = 1
	}
	return n
}

// FrameSize is the pixel size of a frame for a w x h grid.
func FrameSize(w, h int) (int, int) {
	return w*(CellSize+BorderSize) + BorderSize, h*(CellSize+BorderSize) + BorderSize
}

// Frame rasterises cells (row-major, one byte per cell) into an image with
// grid lines and one filled square per cell.
func Frame(cells []uint8, w, h int) (*image.RGBA, error) {
	if w < 1 || h < 1 || len(cells) != w*h {
		return nil, fmt.Errorf("render: %d cells do not form a %dx%d grid", len(cells), w, h)
	}
	fw, fh := FrameSize(w, h)
	img := image.NewRGBA(image.Rect(0, 0, fw, fh))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: GridColor}, image.Point{}, draw.Src)

	alive := &image.Uniform{C: AliveColor}
	dead := &image.Uniform{C: DeadColor}
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			x := col*(CellSize+BorderSize) + BorderSize
			y := row*(CellSize+BorderSize) + BorderSize
			src := dead
			if cells[row*w+col] != 0 {
				src = alive
			}
			draw.Draw(img, image.Rect(x, y, x+CellSize, y+CellSize), src, image.Point{}, draw.Src)
		}
	}
	return img, nil
}

// WritePNG encodes a frame for cells as PNG.
func WritePNG(out io.Writer, cells []uint8, w, h int) error {
	img, err := Frame(cells, w, h)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}
