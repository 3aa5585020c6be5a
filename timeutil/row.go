package timeutil

import "github.com/nyanpasu64/exotracker/doc"

// NoBeatInMeasure marks a Row that does not land exactly on a beat boundary.
const NoBeatInMeasure = -1

// Row names one row-granular position on the tick clock. BeatInMeasure is
// NoBeatInMeasure unless the row coincides exactly with a beat.
type Row struct {
	Time          doc.TickT
	BeatInMeasure int16
}

// RowIter walks the tick clock one row at a time, where a row subdivides a
// beat into ticksPerRow-sized slices.
type RowIter struct {
	beat        BeatIter
	ticksPerRow doc.TickT
	rowInBeat   int32
}

// RowIterAtTime returns a RowIter positioned at the nearest row <= now.
func RowIterAtTime(opts doc.SequencerOptions, now doc.TickT, ticksPerRow doc.TickT) (RowIter, bool) {
	beat, _ := BeatIterAtTime(opts, now)
	beatTick := beat.Peek().Time

	rowInBeat := (now - beatTick) / ticksPerRow
	snappedEarlier := rowInBeat*ticksPerRow+beatTick != now

	return RowIter{beat: beat, ticksPerRow: ticksPerRow, rowInBeat: rowInBeat}, snappedEarlier
}

func (it RowIter) timeRelAfterBeat() doc.TickT {
	return it.rowInBeat * it.ticksPerRow
}

// Peek returns the row the iterator currently points to.
func (it RowIter) Peek() Row {
	beat := it.beat.Peek()
	rowTick := beat.Time + it.timeRelAfterBeat()
	if rowTick != beat.Time {
		return Row{Time: rowTick, BeatInMeasure: NoBeatInMeasure}
	}
	return Row{Time: beat.Time, BeatInMeasure: beat.BeatInMeasure}
}

// Next advances the iterator by one row.
func (it *RowIter) Next() {
	it.rowInBeat++
	if it.timeRelAfterBeat() >= it.beat.TicksUntilNextBeat() {
		it.rowInBeat = 0
		it.beat.Next()
	}
}

// TryPrev moves the iterator back one row, reporting false if there is no
// earlier row.
func (it *RowIter) TryPrev() bool {
	if it.rowInBeat != 0 {
		it.rowInBeat--
		return true
	}
	if !it.beat.TryPrev() {
		return false
	}
	beatEndTick := it.beat.TicksUntilNextBeat()
	it.rowInBeat = (beatEndTick - 1) / it.ticksPerRow
	return true
}
