package coordinator

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"MandelbrotMovie/mandelbrot"
	"MandelbrotMovie/raw"
	"MandelbrotMovie/rpc"
	"MandelbrotMovie/worker"

	"github.com/BrugadaSyndrome/bslogger"
)

func testLogger() bslogger.Logger {
	return bslogger.NewLogger("Coordinator", bslogger.Normal, nil)
}

func smallSettings(t *testing.T) Settings {
	s := DefaultSettings()
	s.Width = 100
	s.Height = 100
	s.MaxIterations = 100
	s.Threads = 4
	s.SavePath = t.TempDir()
	return s
}

func TestScaleFor(t *testing.T) {
	tests := []struct {
		n     uint
		extra bool
		want  float64
	}{
		{1, false, 4.1},
		{10, false, 5},
		{49, true, 13.8},
		{50, true, 14},
	}
	for _, tt := range tests {
		if got := ScaleFor(4, tt.n, tt.extra); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ScaleFor(4, %d, %t) = %f, want %f", tt.n, tt.extra, got, tt.want)
		}
	}
}

func TestTasks(t *testing.T) {
	s := smallSettings(t)
	s.Processes = 3

	c, err := NewCoordinator(s, 1, nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	tasks := c.Tasks()
	if len(tasks) != 17 {
		t.Fatalf("expected 17 tasks for ordinal 1 of 3, got %d", len(tasks))
	}
	if tasks[0].Index != 17 || tasks[15].Index != 32 {
		t.Errorf("unexpected regular block %d-%d", tasks[0].Index, tasks[15].Index)
	}

	extra := tasks[16]
	if !extra.Extra || extra.Index != 50 {
		t.Fatalf("expected extra image 50, got %v", extra)
	}
	if math.Abs(extra.Scale-14) > 1e-9 {
		t.Errorf("extra image scale = %f, want 14", extra.Scale)
	}
	if math.Abs(tasks[0].Scale-5.7) > 1e-9 {
		t.Errorf("image 17 scale = %f, want 5.7", tasks[0].Scale)
	}

	vp := tasks[0].Viewport(s.Width, s.Height)
	if math.Abs((vp.YMax-vp.YMin)-(vp.XMax-vp.XMin)) > 1e-12 {
		t.Errorf("square image should have a square viewport, got %v", vp)
	}
}

func TestNewCoordinatorInvalid(t *testing.T) {
	s := smallSettings(t)
	s.Processes = 2
	if _, err := NewCoordinator(s, 2, nil, testLogger()); err == nil {
		t.Error("expected error for ordinal outside the process count")
	}

	s = smallSettings(t)
	s.MaxIterations = 0
	if _, err := NewCoordinator(s, 0, nil, testLogger()); err == nil {
		t.Error("expected error for zero max iterations")
	}
}

func TestRunWholeBatch(t *testing.T) {
	s := smallSettings(t)
	monitor := rpc.NewMonitor(ImagesToGenerate, testLogger())

	c, err := NewCoordinator(s, 0, monitor, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if c.State() != Assigned {
		t.Fatalf("expected state Assigned, got %s", c.State())
	}

	paths, err := c.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if c.State() != Done {
		t.Errorf("expected state Done, got %s", c.State())
	}
	if len(paths) != 50 {
		t.Fatalf("expected 50 images, got %d", len(paths))
	}
	for n := 1; n <= 50; n++ {
		path := filepath.Join(s.SavePath, fmt.Sprintf("mandel%d.jpg", n))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}
	if monitor.Completed() != 50 {
		t.Errorf("expected 50 reports, got %d", monitor.Completed())
	}

	decoded, err := raw.Decode(filepath.Join(s.SavePath, "mandel1.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != 100 || decoded.Bounds().Dy() != 100 {
		t.Fatalf("unexpected bounds %v", decoded.Bounds())
	}
	r, g, b, _ := decoded.At(50, 50).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("center of mandel1.jpg should be white, got %d %d %d", r>>8, g>>8, b>>8)
	}

	if _, err := c.Run(context.Background()); err == nil {
		t.Error("expected error running a finished coordinator twice")
	}
}

func TestFirstImageCenterDoesNotEscape(t *testing.T) {
	s := smallSettings(t)
	c, err := NewCoordinator(s, 0, nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	first := c.Tasks()[0]

	x, y := first.Viewport(s.Width, s.Height).Point(50, 50, s.Width, s.Height)
	if got := mandelbrot.IterationsAtPoint(x, y, s.MaxIterations); got != s.MaxIterations {
		t.Errorf("center iterations = %d, want %d", got, s.MaxIterations)
	}

	r, err := worker.NewRenderer(s.Width, s.Height, s.Threads, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	img, err := r.Render(first)
	if err != nil {
		t.Fatal(err)
	}
	if img.Pixel(50, 50) != mandelbrot.White {
		t.Errorf("center pixel = %06x, want ffffff", img.Pixel(50, 50))
	}
}

func TestRunCancelled(t *testing.T) {
	s := smallSettings(t)
	c, err := NewCoordinator(s, 0, nil, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, err := c.Run(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(paths) != 0 {
		t.Errorf("expected no images after cancellation, got %d", len(paths))
	}
}
