package doc

import (
	"math/big"
)

// BeatFraction is a rational beat position. The retrieval pack carries no
// dedicated rational-arithmetic library, so this uses the standard library's
// math/big.Rat (see DESIGN.md's standard-library justification ledger).
type BeatFraction = big.Rat

// NewBeatFraction builds a BeatFraction from an integer numerator/denominator
// pair, matching boost::rational<int32_t>'s construction in the original.
func NewBeatFraction(num, den int64) *BeatFraction {
	return new(big.Rat).SetFrac64(num, den)
}

// BeatFractionFromInt builds a whole-beat BeatFraction.
func BeatFractionFromInt(beats int64) *BeatFraction {
	return new(big.Rat).SetInt64(beats)
}

// TickT is a signed tick count. Negative values represent a note's
// tick_offset playing before its anchor beat (or before the pattern begins):
// the original's "feature(tm)", carried unchanged here.
type TickT = int32

// RoundToInt rounds a rational value to the nearest integer, breaking ties
// away from zero (half-away-from-zero), matching
// doc_util/time_util.h's round_to_int.
func RoundToInt(v *BeatFraction) int {
	num := v.Num()
	den := v.Denom()

	half := new(big.Int).Mul(big.NewInt(2), num)
	// half = 2*num ± den, then integer-divide by 2*den, truncating toward
	// zero exactly like boost::rational_cast after adding sign(num)/2.
	twiceDen := new(big.Int).Mul(big.NewInt(2), den)

	sign := num.Sign()
	if sign > 0 {
		half.Add(half, den)
	} else if sign < 0 {
		half.Sub(half, den)
	}
	q := new(big.Int).Quo(half, twiceDen)
	return int(q.Int64())
}

// TimeInPattern anchors a RowEvent within a Pattern.
//
// Ordering is by (AnchorBeat, TickOffset) only; TickOffset may cause actual
// playback order (anchor_beat + tick_offset/ticks_per_beat) to differ from
// this sorted order. That mismatch is intentional note-nudging, not a bug —
// see the "tick offsets reshuffling order" open question in spec.md §9.
type TimeInPattern struct {
	AnchorBeat *BeatFraction
	TickOffset TickT
}

// Compare orders two TimeInPattern values by (AnchorBeat, TickOffset).
func (t TimeInPattern) Compare(o TimeInPattern) int {
	if c := t.AnchorBeat.Cmp(o.AnchorBeat); c != 0 {
		return c
	}
	switch {
	case t.TickOffset < o.TickOffset:
		return -1
	case t.TickOffset > o.TickOffset:
		return 1
	default:
		return 0
	}
}

// Less reports whether t sorts before o.
func (t TimeInPattern) Less(o TimeInPattern) bool {
	return t.Compare(o) < 0
}

// BeginOfBeat returns a timestamp that sorts before every event anchored to
// beat, regardless of tick offset.
func BeginOfBeat(beat *BeatFraction) TimeInPattern {
	return TimeInPattern{AnchorBeat: beat, TickOffset: -1 << 31}
}

// TimedRowEvent is a RowEvent anchored at a point within a pattern.
type TimedRowEvent struct {
	Time  TimeInPattern
	Event RowEvent
}

// Clone deep-copies a TimedRowEvent.
func (t TimedRowEvent) Clone() TimedRowEvent {
	return TimedRowEvent{
		Time: TimeInPattern{
			AnchorBeat: new(big.Rat).Set(t.Time.AnchorBeat),
			TickOffset: t.Time.TickOffset,
		},
		Event: t.Event.Clone(),
	}
}
