package coordinator

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"MandelbrotMovie/misc"
	"MandelbrotMovie/rpc"
	"MandelbrotMovie/task"
	"MandelbrotMovie/worker"

	"github.com/BrugadaSyndrome/bslogger"
)

type State int

const (
	Unassigned State = iota
	Assigned
	Rendering
	Done
)

func (s State) String() string {
	return []string{
		"Unassigned", "Assigned", "Rendering", "Done",
	}[s]
}

// Coordinator renders the block of images owned by one process ordinal, one image at a time
type Coordinator struct {
	assignment task.Assignment
	logger     bslogger.Logger
	renderer   *worker.Renderer
	reporter   rpc.Reporter
	settings   Settings
	state      State
}

func NewCoordinator(settings Settings, ordinal int, reporter rpc.Reporter, logger bslogger.Logger) (*Coordinator, error) {
	coordinator := &Coordinator{
		logger:   logger,
		reporter: reporter,
		state:    Unassigned,
	}
	if coordinator.reporter == nil {
		coordinator.reporter = rpc.NopReporter{}
	}

	if err := settings.Verify(); err != nil {
		return nil, err
	}
	coordinator.settings = settings

	assignment, err := task.Assign(ImagesToGenerate, settings.Processes, ordinal)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", misc.ErrInvalidSettings, err)
	}
	coordinator.assignment = assignment

	coordinator.renderer, err = worker.NewRenderer(settings.Width, settings.Height, settings.Threads, logger)
	if err != nil {
		return nil, err
	}

	coordinator.state = Assigned
	return coordinator, nil
}

// ScaleFor is the x extent of image number n. Regular images widen by RegularScaleStep per image number, the remainder
// image of an ordinal by ExtraScaleStep.
func ScaleFor(base float64, n uint, extra bool) float64 {
	if extra {
		return base + ExtraScaleStep*float64(n)
	}
	return base + RegularScaleStep*float64(n)
}

// Tasks builds the tasks for every image this ordinal owns, in render order
func (c *Coordinator) Tasks() []task.ImageTask {
	tasks := make([]task.ImageTask, 0, len(c.assignment.Images()))
	for _, n := range c.assignment.Regular() {
		tasks = append(tasks, c.newTask(n, false))
	}
	if c.assignment.HasExtra() {
		tasks = append(tasks, c.newTask(c.assignment.Extra, true))
	}
	return tasks
}

func (c *Coordinator) newTask(n uint, extra bool) task.ImageTask {
	return task.NewImageTask(n, c.settings.CenterX, c.settings.CenterY, ScaleFor(c.settings.Scale, n, extra), c.settings.MaxIterations, extra)
}

// Run renders and saves every owned image and returns the paths written. Cancellation is only observed between
// images; an image that has started rendering always finishes.
func (c *Coordinator) Run(ctx context.Context) ([]string, error) {
	if c.state != Assigned {
		return nil, fmt.Errorf("coordinator for ordinal %d is %s, not %s", c.assignment.Ordinal, c.state, Assigned)
	}
	if err := misc.EnsureDir(c.settings.SavePath); err != nil {
		return nil, err
	}

	c.logger.Infof("Rendering %s", c.assignment.String())
	format := c.settings.ImageFormat()
	paths := make([]string, 0, len(c.assignment.Images()))
	startTime := time.Now()

	for _, todo := range c.Tasks() {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		c.state = Rendering
		imageStart := time.Now()

		img, err := c.renderer.Render(todo)
		if err != nil {
			return paths, fmt.Errorf("rendering image %d - %w", todo.Index, err)
		}

		path := filepath.Join(c.settings.SavePath, todo.FileName(format.Extension()))
		// img is scoped to this iteration so a process never holds more than one buffer
		if err := img.EncodeToFile(path, format, c.settings.Quality); err != nil {
			return paths, err
		}
		paths = append(paths, path)

		report := rpc.ImageReport{
			Elapsed:     time.Since(imageStart),
			ImageNumber: todo.Index,
			Ordinal:     c.assignment.Ordinal,
			Path:        path,
		}
		// Progress is informational, the frame is already on disk
		misc.CheckError(c.reporter.Report(report), c.logger, misc.Warning)
		c.logger.Debugf("Saved image to %s", path)
	}

	c.state = Done
	c.logger.Infof("Done rendering %d images in %s", len(paths), time.Since(startTime))
	return paths, nil
}

func (c *Coordinator) Assignment() task.Assignment {
	return c.assignment
}

func (c *Coordinator) State() State {
	return c.state
}
