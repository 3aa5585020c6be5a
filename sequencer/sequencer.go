// Package sequencer walks a document's timeline one tick at a time,
// resolving which row events fire on each tick for each channel. It is the
// Go counterpart of the original's (unretrieved) sequencer.cpp, built on
// doc.TimelineCellIter (C2) and doc.RoundToInt, following the
// tick-subdivision shape of the teacher's player.go (sequenceTick /
// GenerateAudio's tickSamplePos accumulation).
package sequencer

import (
	"math/big"

	"github.com/nyanpasu64/exotracker/doc"
	"github.com/nyanpasu64/exotracker/synth"
)

// channelCursor tracks one channel's position in the timeline: which grid
// cell it's in, the TimelineCellIter walking that cell's blocks, the
// PatternRef currently in view, and how many of that ref's events have
// already fired.
type channelCursor struct {
	gridIndex int
	iter      doc.TimelineCellIter
	ref       doc.PatternRef
	haveRef   bool
	eventIdx  int
}

// Sequencer drives one document's timeline, tick by tick.
type Sequencer struct {
	document *doc.Document
	opts     doc.SequencerOptions

	currentTick doc.TickT
	channels    []channelCursor

	// gridStartTicks[gi] is the absolute tick at which grid cell gi begins.
	// gridStartTicks[len(Grid)] is the tick at which the song ends.
	gridStartTicks []doc.TickT
}

// NewSequencer builds a Sequencer positioned at tick 0. document must
// already have passed Document.Validate.
func NewSequencer(document *doc.Document) *Sequencer {
	s := &Sequencer{
		document: document,
		opts:     document.SequencerOptions,
		channels: make([]channelCursor, document.NumChipChannels()),
	}
	s.rebuildGridStartTicks()
	s.PlayFrom(0)
	return s
}

func (s *Sequencer) rebuildGridStartTicks() {
	grid := s.document.Timeline.Grid
	s.gridStartTicks = make([]doc.TickT, len(grid)+1)
	var tick doc.TickT
	for gi, cell := range grid {
		s.gridStartTicks[gi] = tick
		tick += cellLengthTicks(cell.NBeats, s.opts.TicksPerBeat)
	}
	s.gridStartTicks[len(grid)] = tick
}

// cellLengthTicks converts a grid cell's beat length into ticks, rounding to
// the nearest tick for grid cells whose length isn't a whole number of
// ticks (fractional-beat grid cells are permitted by the document model; see
// doc.GridCell).
func cellLengthTicks(nbeats *doc.BeatFraction, ticksPerBeat doc.TickT) doc.TickT {
	scaled := new(big.Rat).Mul(nbeats, big.NewRat(int64(ticksPerBeat), 1))
	return doc.TickT(doc.RoundToInt(scaled))
}

// SongLengthTicks returns the tick at which the timeline ends (the
// one-past-the-end tick of the final grid cell).
func (s *Sequencer) SongLengthTicks() doc.TickT {
	return s.gridStartTicks[len(s.gridStartTicks)-1]
}

// gridCellAt returns the grid index containing tick, and the tick at which
// that cell begins.
func (s *Sequencer) gridCellAt(tick doc.TickT) (int, doc.TickT) {
	for gi := 0; gi < len(s.document.Timeline.Grid); gi++ {
		if tick < s.gridStartTicks[gi+1] {
			return gi, s.gridStartTicks[gi]
		}
	}
	last := len(s.document.Timeline.Grid) - 1
	if last < 0 {
		return 0, 0
	}
	return last, s.gridStartTicks[last]
}

// PlayFrom seeks every channel's cursor to the block/loop containing tick,
// discarding in-flight tick state — the cmdqueue.PlayFrom command's effect.
func (s *Sequencer) PlayFrom(tick doc.TickT) {
	s.currentTick = tick
	gi, cellStartTick := s.gridCellAt(tick)
	relBeat := ticksToBeat(tick-cellStartTick, s.opts.TicksPerBeat)
	nbeats := doc.BeatFractionFromInt(0)
	if gi < len(s.document.Timeline.Grid) {
		nbeats = s.document.Timeline.Grid[gi].NBeats
	}

	for ci := range s.channels {
		cur := &s.channels[ci]
		*cur = channelCursor{gridIndex: gi}
		cell := s.document.Timeline.Channels[ci][gi]
		// pattern_or_end: advance past every ref that ends at or before
		// relBeat, matching doc_util/time_util.h's documented contract.
		for {
			ref, ok := cur.iter.Next(cell, nbeats)
			if !ok {
				cur.haveRef = false
				break
			}
			if ref.EndTime.Cmp(relBeat) > 0 {
				cur.ref = ref
				cur.haveRef = true
				cur.eventIdx = 0
				break
			}
		}
	}
}

func ticksToBeat(ticks doc.TickT, ticksPerBeat doc.TickT) *doc.BeatFraction {
	return big.NewRat(int64(ticks), int64(ticksPerBeat))
}

// Tick advances the sequencer by one tick and returns every channel's row
// events that fire exactly on the tick that just elapsed, plus that tick's
// absolute position. Events are resolved from TimeInPattern (anchor beat +
// tick offset, relative to the current PatternRef's BeginTime) by rounding to
// the nearest tick, per doc.TimeInPattern's documented ordering caveat.
func (s *Sequencer) Tick() (synth.ChannelEvents, doc.TickT) {
	firedTick := s.currentTick
	var events synth.ChannelEvents

	gi, cellStartTick := s.gridCellAt(firedTick)
	nbeats := s.document.Timeline.Grid[gi].NBeats

	for ci := range s.channels {
		cur := &s.channels[ci]
		if cur.gridIndex != gi {
			// Crossed into a new grid cell: reseed this channel's cursor.
			cur.gridIndex = gi
			cur.iter = doc.TimelineCellIter{}
			cur.haveRef = false
		}

		cell := s.document.Timeline.Channels[ci][gi]
		for {
			if !cur.haveRef {
				ref, ok := cur.iter.Next(cell, nbeats)
				if !ok {
					break
				}
				cur.ref = ref
				cur.haveRef = true
				cur.eventIdx = 0
			}

			advanced := false
			for cur.eventIdx < len(cur.ref.Events) {
				ev := cur.ref.Events[cur.eventIdx]
				// ref.BeginTime is already this loop iteration's absolute
				// position within the grid cell; Events' AnchorBeat is
				// relative to it (see doc.PatternRef's field comments).
				absBeat := new(big.Rat).Add(
					big.NewRat(int64(cur.ref.BeginTime), 1),
					ev.Time.AnchorBeat,
				)
				beatTicks := new(big.Rat).Mul(absBeat, big.NewRat(int64(s.opts.TicksPerBeat), 1))
				evTick := doc.TickT(doc.RoundToInt(beatTicks)) + ev.Time.TickOffset + cellStartTick

				if evTick > firedTick {
					break
				}
				cur.eventIdx++
				advanced = true
				if evTick == firedTick {
					events[ci] = append(events[ci], ev.Event)
				}
			}

			if cur.eventIdx >= len(cur.ref.Events) {
				cur.haveRef = false
				if !advanced {
					break
				}
				continue
			}
			break
		}
	}

	s.currentTick++
	return events, firedTick
}
