package render

import "image/color"

// pixel is one RGBA pixel in the byte order image.RGBA and ebiten use.
type pixel [4]byte

func toPixel(c color.Color) pixel {
	r, g, b, a := c.RGBA()
	return pixel{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

// fillCellPixels writes one pixel per cell into buf: on for alive cells, off
// for dead ones. buf must hold 4*len(cells) bytes.
func fillCellPixels(buf []byte, cells []uint8, on, off color.Color) {
	lut := [2]pixel{toPixel(off), toPixel(on)}
	for i, c := range cells {
		p := lut[0]
		if c != 0 {
			p = lut[1]
		}
		copy(buf[i*4:i*4+4], p[:])
	}
}
