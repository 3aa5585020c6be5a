// Package timeutil walks a document's tick clock in beat, row and measure
// increments, and binary-searches event lists by time. It is the Go
// counterpart of original_source/src/doc_util/time_util.cpp and
// event_search.cpp, translating the original's scrDefine coroutines into
// plain iterator structs (doc.TimelineCellIter already set the pattern this
// module follows).
package timeutil

import "github.com/nyanpasu64/exotracker/doc"

// Beat names one beat-granular position on the tick clock.
type Beat struct {
	Time          doc.TickT
	BeatInMeasure int16
}

// IsMeasure reports whether this beat begins a measure.
func (b Beat) IsMeasure() bool {
	return b.BeatInMeasure == 0
}

// BeatIter walks the tick clock one beat at a time. It does not yet support
// mid-song tempo or time-signature changes (TODO, matches the original).
type BeatIter struct {
	ticksPerBeat    doc.TickT
	beatsPerMeasure int32

	currTime      doc.TickT
	beatInMeasure int32
}

// BeatIterAtTime returns a BeatIter positioned at the nearest beat <= now,
// and whether now had to be rounded down to reach it.
func BeatIterAtTime(opts doc.SequencerOptions, now doc.TickT) (BeatIter, bool) {
	if now < 0 {
		panic("timeutil: BeatIterAtTime called with negative tick")
	}

	ticksPerBeat := opts.TicksPerBeat
	beatIndex := now / ticksPerBeat
	currBeatTime := beatIndex * ticksPerBeat

	it := BeatIter{
		ticksPerBeat:    ticksPerBeat,
		beatsPerMeasure: opts.BeatsPerMeasure,
		currTime:        currBeatTime,
		beatInMeasure:   beatIndex % opts.BeatsPerMeasure,
	}
	return it, currBeatTime != now
}

// MeasureAt returns the index of the nearest measure <= now.
func MeasureAt(opts doc.SequencerOptions, now doc.TickT) int {
	return int(now / (opts.TicksPerBeat * opts.BeatsPerMeasure))
}

// Peek returns the beat the iterator currently points to.
func (it BeatIter) Peek() Beat {
	return Beat{Time: it.currTime, BeatInMeasure: int16(it.beatInMeasure)}
}

// TicksUntilNextBeat returns the tick length of the current beat.
func (it BeatIter) TicksUntilNextBeat() doc.TickT {
	return it.ticksPerBeat
}

// Next advances the iterator by one beat.
func (it *BeatIter) Next() {
	it.currTime += it.ticksPerBeat
	it.beatInMeasure = (it.beatInMeasure + 1) % it.beatsPerMeasure
}

// TryPrev moves the iterator back one beat. It reports false (and leaves the
// iterator at tick 0) if it was already there — there is no beat before 0.
func (it *BeatIter) TryPrev() bool {
	if it.currTime-it.ticksPerBeat < 0 {
		it.currTime = 0
		it.beatInMeasure = 0
		return false
	}
	it.currTime -= it.ticksPerBeat
	it.beatInMeasure = (it.beatInMeasure + it.beatsPerMeasure - 1) % it.beatsPerMeasure
	return true
}
