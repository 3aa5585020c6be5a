package doc

import "sort"

// Pattern is the reusable event container referenced by a TimelineBlock. If
// LoopLength is nonzero, the first LoopLength beats of Events repeat to fill
// whatever span of the timeline the owning block occupies.
type Pattern struct {
	Events []TimedRowEvent

	// LoopLength is in beats. Zero means "do not loop".
	LoopLength uint32
}

// Clone deep-copies a Pattern, including every event.
func (p Pattern) Clone() Pattern {
	out := Pattern{LoopLength: p.LoopLength}
	if p.Events != nil {
		out.Events = make([]TimedRowEvent, len(p.Events))
		for i, e := range p.Events {
			out.Events[i] = e.Clone()
		}
	}
	return out
}

// SortEvents restores the (AnchorBeat, TickOffset) invariant after bulk
// mutation (e.g. an edit command inserting into the middle of the slice).
func (p *Pattern) SortEvents() {
	sort.SliceStable(p.Events, func(i, j int) bool {
		return p.Events[i].Time.Less(p.Events[j].Time)
	})
}

// EventsBefore returns the number of leading events whose AnchorBeat is
// strictly less than relEnd, used by the timeline iterator to truncate a
// pattern slice to a loop or block boundary. Events must already be sorted.
func EventsBefore(events []TimedRowEvent, relEnd *BeatFraction) int {
	return sort.Search(len(events), func(i int) bool {
		return events[i].Time.AnchorBeat.Cmp(relEnd) >= 0
	})
}
