package task

import "fmt"

// RowBand is the half open row range [Start, End) of an image handed to one worker
type RowBand struct {
	Start int
	End   int
}

func (b RowBand) Empty() bool {
	return b.End <= b.Start
}

func (b RowBand) Len() int {
	if b.Empty() {
		return 0
	}
	return b.End - b.Start
}

func (b RowBand) String() string {
	return fmt.Sprintf("{RowBand Start: %d End: %d}", b.Start, b.End)
}

// PartitionRows splits [0, height) into count contiguous bands. The first count-1 bands get height/count rows and the
// last band absorbs the remainder, so the bands always tile the image exactly. When count exceeds height every band but
// the last is empty.
func PartitionRows(height int, count int) []RowBand {
	if count < 1 {
		count = 1
	}
	if height < 0 {
		height = 0
	}

	split := height / count
	bands := make([]RowBand, count)
	for i := 0; i < count; i++ {
		bands[i] = RowBand{Start: i * split, End: (i + 1) * split}
	}
	bands[count-1].End = height
	return bands
}
