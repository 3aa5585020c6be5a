package doc

import "math/big"

// PatternRef is a view into one visible slice of one block, yielded once per
// loop iteration by TimelineCellIter.
type PatternRef struct {
	BlockIdx int

	// BeginTime and EndTime are stamped relative to the start of the grid
	// cell, not the block.
	BeginTime uint32
	EndTime   *BeatFraction

	// IsBlockBegin is true only for the first ref yielded for a block.
	IsBlockBegin bool
	// IsBlockEnd is true only for the last ref yielded for a block.
	IsBlockEnd bool

	// Events carries timestamps relative to this particular loop
	// iteration's BeginTime (not the block's own BeginTime).
	Events []TimedRowEvent
}

// TimelineCellIter is a pull iterator over one TimelineCell, yielding one
// PatternRef per visible loop iteration of each block in begin-time order.
//
// It holds no pointer into the cell between calls — the caller must pass the
// same, unmodified cell and nbeats on every call to Next, exactly as the
// original's scrDefine coroutine macro required a stable TimelineCellRef.
// State fits in six small fields. Next does allocate: the big.Rat end times
// of each PatternRef it yields are freshly built values.
type TimelineCellIter struct {
	blockIdx int

	inLoop        bool
	loopBeginTime uint32
	blockEndTime  *BeatFraction
	// loopEvIdx caches the truncation index for a full (non-final) loop
	// iteration, computed once per block.
	loopEvIdx int

	done bool
}

func uint32ToFraction(v uint32) *BeatFraction {
	return new(big.Rat).SetUint64(uint64(v))
}

func minFraction(a, b *BeatFraction) *BeatFraction {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func subFraction(a, b *BeatFraction) *BeatFraction {
	return new(big.Rat).Sub(a, b)
}

func addFraction(a, b *BeatFraction) *BeatFraction {
	return new(big.Rat).Add(a, b)
}

// valueOrFraction returns the block's end time as a BeatFraction,
// substituting nbeats when the block runs to the end of the cell.
func (b BeatOrEnd) valueOrFraction(nbeats *BeatFraction) *BeatFraction {
	if b == EndOfCell {
		return nbeats
	}
	return uint32ToFraction(uint32(b))
}

func cmpUint32Fraction(u uint32, f *BeatFraction) int {
	return uint32ToFraction(u).Cmp(f)
}

// Next yields the next PatternRef, or (_, false) once every block has been
// exhausted. Calling Next again after exhaustion keeps returning false.
func (it *TimelineCellIter) Next(cell TimelineCell, nbeats *BeatFraction) (PatternRef, bool) {
	for {
		if it.done || it.blockIdx >= len(cell.Blocks) {
			it.done = true
			return PatternRef{}, false
		}

		block := cell.Blocks[it.blockIdx]

		if !it.inLoop {
			// A block starting at or past the cell boundary (and every
			// subsequent block, since blocks are stored in begin-time
			// order) is out of bounds.
			if cmpUint32Fraction(block.BeginTime, nbeats) >= 0 {
				it.blockIdx = len(cell.Blocks)
				continue
			}

			it.blockEndTime = minFraction(block.EndTime.valueOrFraction(nbeats), nbeats)
			it.loopBeginTime = block.BeginTime

			if block.Pattern.LoopLength != 0 {
				it.loopEvIdx = EventsBefore(
					block.Pattern.Events,
					uint32ToFraction(block.Pattern.LoopLength),
				)
				it.inLoop = true
			} else {
				relEnd := subFraction(it.blockEndTime, uint32ToFraction(block.BeginTime))
				endEvIdx := EventsBefore(block.Pattern.Events, relEnd)
				ref := PatternRef{
					BlockIdx:     it.blockIdx,
					BeginTime:    block.BeginTime,
					EndTime:      it.blockEndTime,
					IsBlockBegin: true,
					IsBlockEnd:   true,
					Events:       block.Pattern.Events[:endEvIdx],
				}
				it.blockIdx++
				return ref, true
			}
		}

		// Looped block: yield the next loop iteration, if any remain.
		if cmpUint32Fraction(it.loopBeginTime, it.blockEndTime) >= 0 {
			it.inLoop = false
			it.blockIdx++
			continue
		}

		loopLen := block.Pattern.LoopLength
		loopEnd := minFraction(
			addFraction(uint32ToFraction(it.loopBeginTime), uint32ToFraction(loopLen)),
			it.blockEndTime,
		)
		isBegin := it.loopBeginTime == block.BeginTime
		isEnd := loopEnd.Cmp(it.blockEndTime) == 0

		var endEvIdx int
		if isEnd {
			relEnd := subFraction(it.blockEndTime, uint32ToFraction(it.loopBeginTime))
			endEvIdx = EventsBefore(block.Pattern.Events, relEnd)
		} else {
			endEvIdx = it.loopEvIdx
		}

		ref := PatternRef{
			BlockIdx:     it.blockIdx,
			BeginTime:    it.loopBeginTime,
			EndTime:      loopEnd,
			IsBlockBegin: isBegin,
			IsBlockEnd:   isEnd,
			Events:       block.Pattern.Events[:endEvIdx],
		}

		it.loopBeginTime += loopLen
		if isEnd {
			it.inLoop = false
			it.blockIdx++
		}
		return ref, true
	}
}
