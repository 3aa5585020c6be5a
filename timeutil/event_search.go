package timeutil

import (
	"sort"

	"github.com/nyanpasu64/exotracker/doc"
)

// GreaterEqual returns the index of the first event whose (AnchorBeat,
// TickOffset) is >= t. Events must be sorted by TimeInPattern.Compare.
func GreaterEqual(events []doc.TimedRowEvent, t doc.TimeInPattern) int {
	return sort.Search(len(events), func(i int) bool {
		return !events[i].Time.Less(t)
	})
}

// Greater returns the index of the first event whose (AnchorBeat,
// TickOffset) is > t.
func Greater(events []doc.TimedRowEvent, t doc.TimeInPattern) int {
	return sort.Search(len(events), func(i int) bool {
		return t.Less(events[i].Time)
	})
}

// BeatBegin returns the index of the first event whose AnchorBeat is >= beat.
func BeatBegin(events []doc.TimedRowEvent, beat *doc.BeatFraction) int {
	return sort.Search(len(events), func(i int) bool {
		return events[i].Time.AnchorBeat.Cmp(beat) >= 0
	})
}

// BeatEnd returns the index of the first event whose AnchorBeat is > beat.
func BeatEnd(events []doc.TimedRowEvent, beat *doc.BeatFraction) int {
	return sort.Search(len(events), func(i int) bool {
		return events[i].Time.AnchorBeat.Cmp(beat) > 0
	})
}

// GetMaybe returns the last event anchored exactly to beat, or (_, false) if
// none exists.
func GetMaybe(events []doc.TimedRowEvent, beat *doc.BeatFraction) (*doc.TimedRowEvent, bool) {
	end := BeatEnd(events, beat)
	if end == 0 {
		return nil, false
	}
	last := &events[end-1]
	if last.Time.AnchorBeat.Cmp(beat) != 0 {
		return nil, false
	}
	return last, true
}

// GetOrInsert returns the (possibly new) slice and the index of the last
// event anchored exactly to beat, inserting a zero-value event there if none
// existed.
func GetOrInsert(events []doc.TimedRowEvent, beat *doc.BeatFraction) ([]doc.TimedRowEvent, int) {
	end := BeatEnd(events, beat)
	if end > 0 && events[end-1].Time.AnchorBeat.Cmp(beat) == 0 {
		return events, end - 1
	}

	ev := doc.TimedRowEvent{Time: doc.TimeInPattern{AnchorBeat: beat, TickOffset: 0}}
	events = append(events, doc.TimedRowEvent{})
	copy(events[end+1:], events[end:])
	events[end] = ev
	return events, end
}
