package task

import "fmt"

// Viewport is the rectangle of the complex plane mapped onto an image.
// The y extent is always derived from the x extent and the pixel aspect ratio.
type Viewport struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

func NewViewport(centerX float64, centerY float64, scaleX float64, width int, height int) Viewport {
	scaleY := scaleX / float64(width) * float64(height)
	return Viewport{
		XMin: centerX - scaleX/2,
		XMax: centerX + scaleX/2,
		YMin: centerY - scaleY/2,
		YMax: centerY + scaleY/2,
	}
}

// Point maps the pixel (column, row) of a width x height image onto the complex plane
func (v Viewport) Point(column int, row int, width int, height int) (float64, float64) {
	x := v.XMin + float64(column)*(v.XMax-v.XMin)/float64(width)
	y := v.YMin + float64(row)*(v.YMax-v.YMin)/float64(height)
	return x, y
}

func (v Viewport) String() string {
	output := "{Viewport "
	output += fmt.Sprintf("XMin: %f ", v.XMin)
	output += fmt.Sprintf("XMax: %f ", v.XMax)
	output += fmt.Sprintf("YMin: %f ", v.YMin)
	output += fmt.Sprintf("YMax: %f}", v.YMax)
	return output
}
