package mandelbrot

import (
	"MandelbrotMovie/task"
)

// Boundary is the squared magnitude past which a point is considered escaped
const Boundary = 4.0

// Canvas is the pixel grid a band is rendered onto
type Canvas interface {
	Width() int
	Height() int
	SetPixel(x int, y int, color uint32)
}

// IterationsAtPoint returns how many steps of z = z^2 + c the point (x0, y0) survives inside the boundary, up to maxIterations.
// The iterate is seeded with the point itself and the boundary is checked before every step, so a point that starts
// outside the boundary returns 0 and a point that never escapes returns maxIterations.
// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Unoptimized_na%C3%AFve_escape_time_algorithm
func IterationsAtPoint(x0 float64, y0 float64, maxIterations uint) uint {
	x, y := x0, y0
	var iteration uint
	for x*x+y*y <= Boundary && iteration < maxIterations {
		xt := x*x - y*y + x0
		yt := 2*x*y + y0
		x = xt
		y = yt
		iteration++
	}
	return iteration
}

// RenderBand colors every pixel in the rows of band. Rows outside the band are never touched, which is what lets
// several bands of the same canvas be rendered concurrently without a lock.
func RenderBand(canvas Canvas, viewport task.Viewport, maxIterations uint, band task.RowBand) {
	if band.Empty() {
		return
	}

	width := canvas.Width()
	height := canvas.Height()
	for row := band.Start; row < band.End; row++ {
		for column := 0; column < width; column++ {
			// The y mapping uses the full image height so every band shares one coordinate system
			x, y := viewport.Point(column, row, width, height)
			canvas.SetPixel(column, row, IterationToColor(IterationsAtPoint(x, y, maxIterations), maxIterations))
		}
	}
}
