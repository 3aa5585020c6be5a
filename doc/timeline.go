package doc

import "math/big"

// BeatOrEnd is a TimelineBlock's end time: either a beat index within the
// grid cell, or EndOfCell meaning "runs to the end of the enclosing cell".
type BeatOrEnd uint32

// EndOfCell is the BeatOrEnd sentinel meaning "end of the grid cell".
const EndOfCell BeatOrEnd = 1<<32 - 1

// ValueOr returns the block's end time, substituting other when the block
// runs to the end of the cell.
func (b BeatOrEnd) ValueOr(other uint32) uint32 {
	if b == EndOfCell {
		return other
	}
	return uint32(b)
}

// Cmp compares a BeatOrEnd against a beat position: EndOfCell always
// compares greater.
func (b BeatOrEnd) Cmp(beat *BeatFraction) int {
	if b == EndOfCell {
		return 1
	}
	return big.NewRat(int64(b), 1).Cmp(beat)
}

// TimelineBlock is one occurrence of a Pattern on the timeline.
//
// Invariants (enforced by the document loader, never by the audio thread):
// BeginTime < EndTime; a block never crosses a grid-cell boundary; blocks
// within a cell are stored in begin-time order and never overlap.
type TimelineBlock struct {
	BeginTime uint32
	EndTime   BeatOrEnd
	Pattern   Pattern
}

// TimelineCell holds every TimelineBlock for one (channel, grid cell) pair.
type TimelineCell struct {
	Blocks []TimelineBlock
}

// GridCell is the length, in beats, of one grid slot in the global timeline.
type GridCell struct {
	NBeats *BeatFraction
}

// ChannelTimeline is one channel's list of TimelineCells in grid order.
type ChannelTimeline []TimelineCell

// Timeline is the document-wide arrangement: a shared grid (one GridCell
// length per grid index) plus one ChannelTimeline per flattened channel
// index (chip slot, then channel within the chip, in Document.Chips order).
type Timeline struct {
	Grid     []GridCell
	Channels []ChannelTimeline
}

// NumGridCells returns the number of grid cells in the timeline.
func (t Timeline) NumGridCells() int {
	return len(t.Grid)
}
