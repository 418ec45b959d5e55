package task

import (
	"fmt"
)

// Assignment is the static block of image numbers owned by one process. Every process computes its own assignment from
// the same constants, so no process has to ask another which images it owns.
type Assignment struct {
	Extra      uint // 0 when this ordinal gets no remainder image
	Ordinal    int
	PerProcess uint
	Processes  int
	Start      uint
	Total      uint
}

func Assign(total uint, processes int, ordinal int) (Assignment, error) {
	if total < 1 {
		return Assignment{}, fmt.Errorf("image total must be at least 1, got %d", total)
	}
	if processes < 1 {
		return Assignment{}, fmt.Errorf("process count must be at least 1, got %d", processes)
	}
	if ordinal < 0 || ordinal >= processes {
		return Assignment{}, fmt.Errorf("process ordinal %d is outside [0, %d)", ordinal, processes)
	}

	perProcess := total / uint(processes)
	remainder := total % uint(processes)
	a := Assignment{
		Ordinal:    ordinal,
		PerProcess: perProcess,
		Processes:  processes,
		Start:      uint(ordinal) * perProcess,
		Total:      total,
	}
	if uint(ordinal) < remainder {
		a.Extra = perProcess*uint(processes) + uint(ordinal) + 1
	}
	return a, nil
}

// Regular returns the evenly divided image numbers, Start+1 through Start+PerProcess
func (a Assignment) Regular() []uint {
	images := make([]uint, 0, a.PerProcess)
	var i uint
	for i = 1; i <= a.PerProcess; i++ {
		images = append(images, a.Start+i)
	}
	return images
}

func (a Assignment) HasExtra() bool {
	return a.Extra != 0
}

// Images lists every owned image number in render order: the regular block followed by the extra image
func (a Assignment) Images() []uint {
	images := a.Regular()
	if a.HasExtra() {
		images = append(images, a.Extra)
	}
	return images
}

func (a Assignment) String() string {
	output := "{Assignment "
	output += fmt.Sprintf("Ordinal: %d/%d ", a.Ordinal, a.Processes)
	output += fmt.Sprintf("Images: %d-%d ", a.Start+1, a.Start+a.PerProcess)
	output += fmt.Sprintf("Extra: %d}", a.Extra)
	return output
}
