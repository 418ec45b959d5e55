package worker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"MandelbrotMovie/mandelbrot"
	"MandelbrotMovie/misc"
	"MandelbrotMovie/raw"
	"MandelbrotMovie/task"

	"github.com/BrugadaSyndrome/bslogger"
)

// Background is the color every buffer is filled with before any band is rendered
const Background uint32 = 0x000000

// Renderer turns one ImageTask into a finished buffer by splitting the rows across a fixed number of goroutines
type Renderer struct {
	height         int
	imagesRendered int
	logger         bslogger.Logger
	threads        int
	width          int
}

func NewRenderer(width int, height int, threads int, logger bslogger.Logger) (*Renderer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: image size must be positive, got %dx%d", misc.ErrInvalidSettings, width, height)
	}
	if threads < 1 {
		return nil, fmt.Errorf("%w: thread count must be at least 1, got %d", misc.ErrInvalidSettings, threads)
	}
	return &Renderer{
		height:  height,
		logger:  logger,
		threads: threads,
		width:   width,
	}, nil
}

// Render allocates a fresh buffer for t, renders every row band concurrently against it and returns it once all
// bands have finished. The buffer belongs to the caller; the renderer keeps no reference to it.
func (r *Renderer) Render(t task.ImageTask) (*raw.Image, error) {
	if t.MaxIterations < 1 {
		return nil, fmt.Errorf("%w: image %d has no iteration budget", misc.ErrInvalidSettings, t.Index)
	}

	startTime := time.Now()
	img := raw.New(r.width, r.height)
	img.Fill(Background)

	viewport := t.Viewport(r.width, r.height)
	bands := task.PartitionRows(r.height, r.threads)
	errs := make([]error, len(bands))

	var wg sync.WaitGroup
	for i, band := range bands {
		if band.Empty() {
			continue
		}
		wg.Add(1)
		go func(i int, band task.RowBand) {
			defer wg.Done()
			defer func() {
				if v := recover(); v != nil {
					errs[i] = fmt.Errorf("%w: image %d %s: %v", misc.ErrBandPanicked, t.Index, band, v)
				}
			}()
			mandelbrot.RenderBand(img, viewport, t.MaxIterations, band)
		}(i, band)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	r.imagesRendered++
	r.logger.Debugf("Rendered image %d with %d bands in %s", t.Index, len(bands), time.Since(startTime))
	return img, nil
}

func (r *Renderer) ImagesRendered() int {
	return r.imagesRendered
}
