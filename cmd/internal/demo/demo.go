// Package demo builds a small in-memory document for the CLI tools.
// SPEC_FULL.md carries no persisted document file format (the original's
// project-file format is out of scope, matching the teacher's own .mod/.s3m
// parsers having no Go-native tracker format to target), so exoplay and
// exowav both play this fixed demo song rather than loading one from disk.
package demo

import (
	"math"

	"github.com/nyanpasu64/exotracker/doc"
)

// MIDI-style note numbers (A4=69), matching doc.Note's tuning table
// convention.
const (
	noteC4 doc.Note = 60
	noteE4 doc.Note = 64
	noteG4 doc.Note = 67
	noteC5 doc.Note = 72
	noteC3 doc.Note = 48
	noteG3 doc.Note = 55
)

const (
	instLead = 0
	instBass = 1
	instHat  = 2
)

// Song returns a fresh demo document: an 8-beat C-major arpeggio on pulse1,
// a held root/fifth bass on pulse2, a triangle sub-bass doubling pulse2, and
// a noise hi-hat on every beat. ticksPerBeat sets the sequencer's tick
// resolution.
func Song(ticksPerBeat int32) *doc.Document {
	nchan := doc.NumChannels(doc.Chip2A03)
	channels := make([]doc.ChannelTimeline, nchan)

	channels[doc.ChannelPulse1] = doc.ChannelTimeline{leadCell()}
	channels[doc.ChannelPulse2] = doc.ChannelTimeline{bassCell()}
	channels[doc.ChannelTriangle] = doc.ChannelTimeline{bassCell()}
	channels[doc.ChannelNoise] = doc.ChannelTimeline{hatCell()}
	channels[doc.ChannelDPCM] = doc.ChannelTimeline{{Blocks: nil}}

	var freq [doc.ChromaticCount]float64
	for n := range freq {
		freq[n] = 440 * math.Pow(2, (float64(n)-69)/12)
	}

	return &doc.Document{
		SequencerOptions: doc.SequencerOptions{TicksPerBeat: ticksPerBeat, BeatsPerMeasure: 4},
		FrequencyTable:   freq,
		Chips:            []doc.ChipKind{doc.Chip2A03},
		Instruments: []doc.Instrument{
			instLead: {
				Name:   "lead",
				Volume: doc.Envelope{Values: []int8{15, 14, 12, 10}, ReleaseIndex: doc.NoRelease, LoopIndex: 3},
				Wave:   doc.Envelope{Values: []int8{2}, ReleaseIndex: doc.NoRelease, LoopIndex: doc.NoLoop}, // 50% duty
			},
			instBass: {
				Name:   "bass",
				Volume: doc.Envelope{Values: []int8{12}, ReleaseIndex: doc.NoRelease, LoopIndex: 0},
				Wave:   doc.Envelope{Values: []int8{1}, ReleaseIndex: doc.NoRelease, LoopIndex: doc.NoLoop}, // 25% duty
			},
			instHat: {
				Name:   "hat",
				Volume: doc.Envelope{Values: []int8{8, 4, 2, 0}, ReleaseIndex: doc.NoRelease, LoopIndex: doc.NoLoop},
				Wave:   doc.Envelope{Values: []int8{1}, ReleaseIndex: doc.NoRelease, LoopIndex: doc.NoLoop}, // bit 0 set: pitched noise mode
			},
		},
		Timeline: doc.Timeline{
			Grid:     []doc.GridCell{{NBeats: doc.BeatFractionFromInt(8)}},
			Channels: channels,
		},
	}
}

func leadCell() doc.TimelineCell {
	notes := []doc.Note{noteC4, noteE4, noteG4, noteC5}
	events := make([]doc.TimedRowEvent, 0, 8)
	inst := instLead
	for beat := 0; beat < 8; beat++ {
		n := notes[beat%len(notes)]
		events = append(events, doc.TimedRowEvent{
			Time:  doc.TimeInPattern{AnchorBeat: doc.BeatFractionFromInt(int64(beat))},
			Event: doc.RowEvent{Note: notePtr(n), Instrument: &inst},
		})
	}
	return doc.TimelineCell{Blocks: []doc.TimelineBlock{
		{BeginTime: 0, EndTime: doc.EndOfCell, Pattern: doc.Pattern{Events: events}},
	}}
}

func bassCell() doc.TimelineCell {
	inst := instBass
	events := []doc.TimedRowEvent{
		{Time: doc.TimeInPattern{AnchorBeat: doc.BeatFractionFromInt(0)}, Event: doc.RowEvent{Note: notePtr(noteC3), Instrument: &inst}},
		{Time: doc.TimeInPattern{AnchorBeat: doc.BeatFractionFromInt(4)}, Event: doc.RowEvent{Note: notePtr(noteG3), Instrument: &inst}},
	}
	return doc.TimelineCell{Blocks: []doc.TimelineBlock{
		{BeginTime: 0, EndTime: doc.EndOfCell, Pattern: doc.Pattern{Events: events}},
	}}
}

func hatCell() doc.TimelineCell {
	inst := instHat
	events := make([]doc.TimedRowEvent, 0, 8)
	for beat := 0; beat < 8; beat++ {
		events = append(events, doc.TimedRowEvent{
			Time:  doc.TimeInPattern{AnchorBeat: doc.BeatFractionFromInt(int64(beat))},
			Event: doc.RowEvent{Note: notePtr(noteC4), Instrument: &inst},
		})
	}
	return doc.TimelineCell{Blocks: []doc.TimelineBlock{
		{BeginTime: 0, EndTime: doc.EndOfCell, Pattern: doc.Pattern{Events: events}},
	}}
}

func notePtr(n doc.Note) *doc.Note {
	return &n
}
