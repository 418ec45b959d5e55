package rpc

import (
	"fmt"
	"sync"
	"time"

	"github.com/BrugadaSyndrome/bslogger"
)

// ImageReport is sent by a process each time it has written a frame to disk
type ImageReport struct {
	Elapsed     time.Duration
	ImageNumber uint
	Ordinal     int
	Path        string
}

func (r ImageReport) String() string {
	return fmt.Sprintf("{ImageReport Image: %d Ordinal: %d Path: %s Elapsed: %s}", r.ImageNumber, r.Ordinal, r.Path, r.Elapsed)
}

// Reporter receives a report for every finished frame
type Reporter interface {
	Report(report ImageReport) error
}

type NopReporter struct{}

func (NopReporter) Report(ImageReport) error {
	return nil
}

// Monitor tallies the frames reported by every process of a batch. It only logs progress; image assignments never
// depend on it.
type Monitor struct {
	completed map[uint]ImageReport
	logger    bslogger.Logger
	mutex     sync.Mutex
	total     uint
}

func NewMonitor(total uint, logger bslogger.Logger) *Monitor {
	return &Monitor{
		completed: make(map[uint]ImageReport),
		logger:    logger,
		total:     total,
	}
}

// ImageRendered is the rpc entry point children call. ack is set once the report is recorded.
func (m *Monitor) ImageRendered(report ImageReport, ack *bool) error {
	if err := m.Report(report); err != nil {
		return err
	}
	*ack = true
	return nil
}

func (m *Monitor) Report(report ImageReport) error {
	if report.ImageNumber < 1 || report.ImageNumber > m.total {
		return fmt.Errorf("image number %d is outside [1, %d]", report.ImageNumber, m.total)
	}

	m.mutex.Lock()
	if _, ok := m.completed[report.ImageNumber]; ok {
		m.mutex.Unlock()
		m.logger.Warningf("Image %d reported twice (ordinal %d)", report.ImageNumber, report.Ordinal)
		return nil
	}
	m.completed[report.ImageNumber] = report
	count := len(m.completed)
	m.mutex.Unlock()

	m.logger.Infof("Rendered image %d in %s by process %d [completed images %d/%d]", report.ImageNumber, report.Elapsed.Round(time.Millisecond), report.Ordinal, count, m.total)
	return nil
}

func (m *Monitor) Completed() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.completed)
}

// Missing lists the image numbers nobody has reported yet, in ascending order
func (m *Monitor) Missing() []uint {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	missing := make([]uint, 0)
	var n uint
	for n = 1; n <= m.total; n++ {
		if _, ok := m.completed[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
