package doc

import "testing"

func at(beat int64) TimeInPattern {
	return TimeInPattern{AnchorBeat: NewBeatFraction(beat, 1), TickOffset: 0}
}

func singleBlock(endTime BeatOrEnd) TimelineCell {
	numEvents := 1
	if endTime != EndOfCell {
		numEvents = int(endTime)
	}
	events := make([]TimedRowEvent, numEvents)
	for i := range events {
		events[i] = TimedRowEvent{Time: at(int64(i))}
	}
	return TimelineCell{Blocks: []TimelineBlock{
		{BeginTime: 0, EndTime: endTime, Pattern: Pattern{Events: events}},
	}}
}

func singleBlockLoop(endTime BeatOrEnd, loopModulo uint32) TimelineCell {
	events := make([]TimedRowEvent, loopModulo)
	for i := range events {
		events[i] = TimedRowEvent{Time: at(int64(i))}
	}
	return TimelineCell{Blocks: []TimelineBlock{
		{BeginTime: 0, EndTime: endTime, Pattern: Pattern{Events: events, LoopLength: loopModulo}},
	}}
}

type expectedRef struct {
	block      int
	begin      uint32
	end        int64
	first, last bool
	nev        int
}

func verifyAll(t *testing.T, cell TimelineCell, nbeats int64, expected []expectedRef) {
	t.Helper()
	nb := NewBeatFraction(nbeats, 1)
	var it TimelineCellIter

	for i, exp := range expected {
		ref, ok := it.Next(cell, nb)
		if !ok {
			t.Fatalf("ref %d: expected a PatternRef, got none", i)
		}
		if ref.BlockIdx != exp.block {
			t.Errorf("ref %d: block = %d, want %d", i, ref.BlockIdx, exp.block)
		}
		if ref.BeginTime != exp.begin {
			t.Errorf("ref %d: begin = %d, want %d", i, ref.BeginTime, exp.begin)
		}
		if ref.EndTime.Cmp(NewBeatFraction(exp.end, 1)) != 0 {
			t.Errorf("ref %d: end = %v, want %d", i, ref.EndTime, exp.end)
		}
		if ref.IsBlockBegin != exp.first {
			t.Errorf("ref %d: is_block_begin = %v, want %v", i, ref.IsBlockBegin, exp.first)
		}
		if ref.IsBlockEnd != exp.last {
			t.Errorf("ref %d: is_block_end = %v, want %v", i, ref.IsBlockEnd, exp.last)
		}
		if len(ref.Events) != exp.nev {
			t.Errorf("ref %d: len(events) = %d, want %d", i, len(ref.Events), exp.nev)
		}
	}

	for i := 0; i < 2; i++ {
		if _, ok := it.Next(cell, nb); ok {
			t.Errorf("extra call %d: expected exhaustion", i)
		}
	}
}

func TestTimelineCellIterSingleBlockFillsCell(t *testing.T) {
	verifyAll(t, singleBlock(EndOfCell), 4, []expectedRef{
		{block: 0, begin: 0, end: 4, first: true, last: true, nev: 1},
	})
}

func TestTimelineCellIterSingleBlockEndsBeforeCell(t *testing.T) {
	verifyAll(t, singleBlock(4), 5, []expectedRef{
		{block: 0, begin: 0, end: 4, first: true, last: true, nev: 4},
	})
}

func TestTimelineCellIterSingleBlockOverflowsCell(t *testing.T) {
	verifyAll(t, singleBlock(4), 3, []expectedRef{
		{block: 0, begin: 0, end: 3, first: true, last: true, nev: 3},
	})
}

func TestTimelineCellIterLoopedBlockFillsCell(t *testing.T) {
	verifyAll(t, singleBlockLoop(EndOfCell, 1), 4, []expectedRef{
		{block: 0, begin: 0, end: 1, first: true, last: false, nev: 1},
		{block: 0, begin: 1, end: 2, first: false, last: false, nev: 1},
		{block: 0, begin: 2, end: 3, first: false, last: false, nev: 1},
		{block: 0, begin: 3, end: 4, first: false, last: true, nev: 1},
	})
}

func TestTimelineCellIterFullGridLoopTruncatedByCell(t *testing.T) {
	verifyAll(t, singleBlockLoop(EndOfCell, 3), 4, []expectedRef{
		{block: 0, begin: 0, end: 3, first: true, last: false, nev: 3},
		{block: 0, begin: 3, end: 4, first: false, last: true, nev: 1},
	})
}

func TestTimelineCellIterLoopedBlockEndsBeforeCell(t *testing.T) {
	verifyAll(t, singleBlockLoop(4, 1), 5, []expectedRef{
		{block: 0, begin: 0, end: 1, first: true, last: false, nev: 1},
		{block: 0, begin: 1, end: 2, first: false, last: false, nev: 1},
		{block: 0, begin: 2, end: 3, first: false, last: false, nev: 1},
		{block: 0, begin: 3, end: 4, first: false, last: true, nev: 1},
	})
}

func TestTimelineCellIterLoopedBlockEndsAfterCell(t *testing.T) {
	verifyAll(t, singleBlockLoop(4, 1), 3, []expectedRef{
		{block: 0, begin: 0, end: 1, first: true, last: false, nev: 1},
		{block: 0, begin: 1, end: 2, first: false, last: false, nev: 1},
		{block: 0, begin: 2, end: 3, first: false, last: true, nev: 1},
	})
}

func TestTimelineCellIterLoopedBlockTruncatedByItsEnding(t *testing.T) {
	verifyAll(t, singleBlockLoop(4, 3), 100, []expectedRef{
		{block: 0, begin: 0, end: 3, first: true, last: false, nev: 3},
		{block: 0, begin: 3, end: 4, first: false, last: true, nev: 1},
	})
}

func TestTimelineCellIterLoopedBlockTruncatedByCell(t *testing.T) {
	verifyAll(t, singleBlockLoop(5, 3), 4, []expectedRef{
		{block: 0, begin: 0, end: 3, first: true, last: false, nev: 3},
		{block: 0, begin: 3, end: 4, first: false, last: true, nev: 1},
	})
}

func twoBlocks() TimelineCell {
	return TimelineCell{Blocks: []TimelineBlock{
		{BeginTime: 0, EndTime: 4, Pattern: Pattern{Events: []TimedRowEvent{{Time: at(0)}}}},
		{BeginTime: 6, EndTime: 8, Pattern: Pattern{Events: []TimedRowEvent{{Time: at(0)}}}},
	}}
}

func TestTimelineCellIterMultipleInBoundsBlocks(t *testing.T) {
	verifyAll(t, twoBlocks(), 10, []expectedRef{
		{block: 0, begin: 0, end: 4, first: true, last: true, nev: 1},
		{block: 1, begin: 6, end: 8, first: true, last: true, nev: 1},
	})
}

func TestTimelineCellIterMultipleOutOfBoundsBlocks(t *testing.T) {
	verifyAll(t, twoBlocks(), 1, []expectedRef{
		{block: 0, begin: 0, end: 1, first: true, last: true, nev: 1},
	})
}

func twoBlocksLoop1() TimelineCell {
	return TimelineCell{Blocks: []TimelineBlock{
		{BeginTime: 0, EndTime: 4, Pattern: Pattern{Events: []TimedRowEvent{{Time: at(0)}}, LoopLength: 1}},
		{BeginTime: 6, EndTime: 8, Pattern: Pattern{Events: []TimedRowEvent{{Time: at(0)}}, LoopLength: 1}},
	}}
}

func TestTimelineCellIterOutOfBoundsLoopedBlocks(t *testing.T) {
	verifyAll(t, twoBlocksLoop1(), 3, []expectedRef{
		{block: 0, begin: 0, end: 1, first: true, last: false, nev: 1},
		{block: 0, begin: 1, end: 2, first: false, last: false, nev: 1},
		{block: 0, begin: 2, end: 3, first: false, last: true, nev: 1},
	})
}

// Zero-length blocks currently produce empty event slices (the strict-less-
// than cutoff excludes events at time == end). This is documented behavior,
// not a bug: see the "zero-length blocks" open question in spec.md §9.
func hasZeroLengthBlock() TimelineCell {
	cut := CutNote
	return TimelineCell{Blocks: []TimelineBlock{
		{BeginTime: 0, EndTime: 4, Pattern: Pattern{Events: []TimedRowEvent{{Time: at(0)}}}},
		{BeginTime: 4, EndTime: 4, Pattern: Pattern{Events: []TimedRowEvent{{Time: at(0), Event: RowEvent{Note: &cut}}}}},
	}}
}

func TestTimelineCellIterZeroLengthBlockBeforeCellEnd(t *testing.T) {
	verifyAll(t, hasZeroLengthBlock(), 5, []expectedRef{
		{block: 0, begin: 0, end: 4, first: true, last: true, nev: 1},
		{block: 1, begin: 4, end: 4, first: true, last: true, nev: 0},
	})
}

func TestTimelineCellIterZeroLengthBlockAtCellEnd(t *testing.T) {
	verifyAll(t, hasZeroLengthBlock(), 4, []expectedRef{
		{block: 0, begin: 0, end: 4, first: true, last: true, nev: 1},
	})
}

func TestTimelineCellIterZeroLengthBlockTruncatedByCell(t *testing.T) {
	verifyAll(t, hasZeroLengthBlock(), 3, []expectedRef{
		{block: 0, begin: 0, end: 3, first: true, last: true, nev: 1},
	})
}
