package task

import (
	"fmt"
)

// ImageTask describes one frame of the batch. It is built by the coordinator for an owned image number, rendered once
// and then discarded.
type ImageTask struct {
	Extra         bool
	Index         uint
	MaxIterations uint
	Scale         float64
	XCenter       float64
	YCenter       float64
}

func NewImageTask(index uint, xCenter float64, yCenter float64, scale float64, maxIterations uint, extra bool) ImageTask {
	return ImageTask{
		Extra:         extra,
		Index:         index,
		MaxIterations: maxIterations,
		Scale:         scale,
		XCenter:       xCenter,
		YCenter:       yCenter,
	}
}

func (t ImageTask) Viewport(width int, height int) Viewport {
	return NewViewport(t.XCenter, t.YCenter, t.Scale, width, height)
}

// FileName is the name the encoded frame is saved under, e.g. mandel7.jpg
func (t ImageTask) FileName(extension string) string {
	return fmt.Sprintf("mandel%d.%s", t.Index, extension)
}

func (t ImageTask) String() string {
	output := "{ImageTask "
	output += fmt.Sprintf("Index: %d ", t.Index)
	output += fmt.Sprintf("Extra: %t ", t.Extra)
	output += fmt.Sprintf("Center: (%f, %f) ", t.XCenter, t.YCenter)
	output += fmt.Sprintf("Scale: %f ", t.Scale)
	output += fmt.Sprintf("MaxIterations: %d}", t.MaxIterations)
	return output
}
