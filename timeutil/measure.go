package timeutil

import "github.com/nyanpasu64/exotracker/doc"

// MeasureIter walks the tick clock one measure at a time, skipping every
// beat that does not begin a measure.
type MeasureIter struct {
	beat BeatIter
}

// MeasureIterAtTime returns a MeasureIter positioned at the nearest measure
// <= now.
func MeasureIterAtTime(opts doc.SequencerOptions, now doc.TickT) (MeasureIter, bool) {
	beat, snappedEarlier := BeatIterAtTime(opts, now)

	for !beat.Peek().IsMeasure() {
		if beat.Peek().Time <= 0 {
			panic("timeutil: walked back past tick 0 without finding a measure")
		}
		beat.TryPrev()
		snappedEarlier = true
	}
	return MeasureIter{beat: beat}, snappedEarlier
}

// Peek returns the tick time of the measure the iterator currently points to.
func (it MeasureIter) Peek() doc.TickT {
	return it.beat.Peek().Time
}

// Next advances the iterator to the next measure.
func (it *MeasureIter) Next() {
	it.beat.Next()
	for !it.beat.Peek().IsMeasure() {
		it.beat.Next()
	}
}

// TryPrev moves the iterator back to the previous measure.
func (it *MeasureIter) TryPrev() {
	it.beat.TryPrev()
	for !it.beat.Peek().IsMeasure() {
		if it.beat.Peek().Time <= 0 {
			panic("timeutil: walked back past tick 0 without finding a measure")
		}
		it.beat.TryPrev()
	}
}
