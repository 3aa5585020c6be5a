package doc

import (
	"fmt"

	clone "github.com/huandu/go-clone/generic"
)

// AccidentalMode selects sharp or flat spelling for note names, a
// display-only concern carried on the document per SPEC_FULL.md §7.
type AccidentalMode int

const (
	AccidentalSharp AccidentalMode = iota
	AccidentalFlat
)

// SequencerOptions holds document-wide tempo parameters.
type SequencerOptions struct {
	TicksPerBeat    int32
	BeatsPerMeasure int32
}

// Document is the exclusive owner of a song: options, tuning, instruments,
// samples, chip list and timeline. The GUI thread owns a Document while
// editing; a cloned snapshot crosses to the audio thread via the command
// queue (see cmdqueue and edit packages).
type Document struct {
	SequencerOptions SequencerOptions
	FrequencyTable   [ChromaticCount]float64
	AccidentalMode   AccidentalMode

	Instruments []Instrument
	Samples     []Sample

	Chips    []ChipKind
	Timeline Timeline
}

// Clone returns a deep copy of the document suitable for handing to the
// audio thread. Event vectors are not shared copy-on-write — go-clone
// performs a plain deep clone, which spec.md §3 explicitly allows
// ("equivalently be deep-cloned if the implementation prefers simplicity —
// a 10k-event song is small").
func (d *Document) Clone() *Document {
	return clone.Clone(d)
}

// NumChipChannels returns the total channel count across every chip slot,
// i.e. the flattened channel-index space Timeline.Channels is indexed by.
func (d *Document) NumChipChannels() int {
	n := 0
	for _, c := range d.Chips {
		n += NumChannels(c)
	}
	return n
}

// ChannelTimeline returns the ChannelTimeline for (chip slot, channel within
// chip), translating the 2-D (chip, channel) address into the flattened
// index Timeline.Channels uses.
func (d *Document) ChannelTimeline(chip int, channel int) (*ChannelTimeline, error) {
	idx, err := d.flatChannelIndex(chip, channel)
	if err != nil {
		return nil, err
	}
	return &d.Timeline.Channels[idx], nil
}

func (d *Document) flatChannelIndex(chip, channel int) (int, error) {
	if chip < 0 || chip >= len(d.Chips) {
		return 0, fmt.Errorf("chip index %d out of range [0, %d)", chip, len(d.Chips))
	}
	nchan := NumChannels(d.Chips[chip])
	if channel < 0 || channel >= nchan {
		return 0, fmt.Errorf("channel index %d out of range [0, %d) for chip %d", channel, nchan, chip)
	}
	idx := 0
	for i := 0; i < chip; i++ {
		idx += NumChannels(d.Chips[i])
	}
	return idx + channel, nil
}

// Validate rejects malformed documents per spec.md §7.2: block layout
// (begin < end, no cross-cell, no overlap, sorted) and sample data shape.
// This must run before a document ever reaches the audio thread.
func (d *Document) Validate() error {
	for si, s := range d.Samples {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("sample %d: %w", si, err)
		}
	}

	for ci, ct := range d.Timeline.Channels {
		for gi, cell := range ct {
			if gi >= len(d.Timeline.Grid) {
				return fmt.Errorf("channel %d: grid cell %d has no matching grid entry", ci, gi)
			}
			nbeats := d.Timeline.Grid[gi].NBeats
			var prevEnd *BeatFraction
			for bi, block := range cell.Blocks {
				end := block.EndTime.valueOrFraction(nbeats)
				if cmpUint32Fraction(block.BeginTime, end) >= 0 {
					return fmt.Errorf("channel %d cell %d block %d: begin_time %d >= end_time",
						ci, gi, bi, block.BeginTime)
				}
				if end.Cmp(nbeats) > 0 {
					return fmt.Errorf("channel %d cell %d block %d: end_time past the end of the grid cell", ci, gi, bi)
				}
				if prevEnd != nil && cmpUint32Fraction(block.BeginTime, prevEnd) < 0 {
					return fmt.Errorf("channel %d cell %d block %d: overlaps previous block", ci, gi, bi)
				}
				prevEnd = end
			}
		}
	}
	return nil
}
