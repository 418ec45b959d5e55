// Package process fans a batch out over OS processes. The originating process always keeps ordinal 0; every other
// ordinal is handed to a child explicitly on its command line.
package process

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/BrugadaSyndrome/bslogger"
	"golang.org/x/sync/errgroup"
)

const (
	OrdinalFlag = "ordinal"
	ReportFlag  = "report"
)

type Spawner struct {
	children map[int]*exec.Cmd
	logger   bslogger.Logger
	mutex    sync.Mutex

	// Command builds the child for an ordinal in [1, processes)
	Command func(ordinal int) *exec.Cmd
}

func NewSpawner(command func(ordinal int) *exec.Cmd, logger bslogger.Logger) *Spawner {
	return &Spawner{
		children: make(map[int]*exec.Cmd),
		logger:   logger,
		Command:  command,
	}
}

// SelfCommand re-executes the running binary with args plus the child ordinal and, when set, the progress address
func SelfCommand(args []string, reportAddress string) (func(ordinal int) *exec.Cmd, error) {
	executable, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("unable to locate executable - %w", err)
	}
	return func(ordinal int) *exec.Cmd {
		childArgs := append([]string{}, args...)
		childArgs = append(childArgs, "--"+OrdinalFlag, strconv.Itoa(ordinal))
		if reportAddress != "" {
			childArgs = append(childArgs, "--"+ReportFlag, reportAddress)
		}
		cmd := exec.Command(executable, childArgs...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd
	}, nil
}

// Start launches ordinals 1 through processes-1. Ordinals that could not be started are returned so the caller can
// render them itself; they are never skipped.
func (s *Spawner) Start(processes int) []int {
	failed := make([]int, 0)
	for ordinal := 1; ordinal < processes; ordinal++ {
		cmd := s.Command(ordinal)
		if err := cmd.Start(); err != nil {
			s.logger.Warningf("Unable to start process %d, rendering its images here: %s", ordinal, err)
			failed = append(failed, ordinal)
			continue
		}
		s.mutex.Lock()
		s.children[ordinal] = cmd
		s.mutex.Unlock()
		s.logger.Infof("Started process %d (pid %d)", ordinal, cmd.Process.Pid)
	}
	return failed
}

// Wait reaps every started child and returns the first failure. All children are waited on even after one fails so
// none is left behind.
func (s *Spawner) Wait() error {
	s.mutex.Lock()
	children := s.children
	s.children = make(map[int]*exec.Cmd)
	s.mutex.Unlock()

	var g errgroup.Group
	for ordinal, cmd := range children {
		g.Go(func() error {
			if err := cmd.Wait(); err != nil {
				return fmt.Errorf("process %d failed - %w", ordinal, err)
			}
			s.logger.Debugf("Process %d finished", ordinal)
			return nil
		})
	}
	return g.Wait()
}

// Running is the number of children started and not yet reaped
func (s *Spawner) Running() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.children)
}
