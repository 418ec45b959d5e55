package mandelbrot

import (
	"image/color"
)

const White uint32 = 0xFFFFFF

// IterationToColor scales an iteration count onto the 24 bit range [0, 0xFFFFFF]. The product is taken in floating
// point before truncating so small counts do not collapse to 0. maxIterations must be positive.
func IterationToColor(iterations uint, maxIterations uint) uint32 {
	return uint32(float64(White) * float64(iterations) / float64(maxIterations))
}

// RGBA unpacks a 0xRRGGBB value into an opaque color
func RGBA(packed uint32) color.RGBA {
	return color.RGBA{
		R: uint8(packed >> 16),
		G: uint8(packed >> 8),
		B: uint8(packed),
		A: 255,
	}
}

// Pack is the inverse of RGBA, ignoring alpha
func Pack(c color.RGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
