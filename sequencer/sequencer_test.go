package sequencer

import (
	"testing"

	"github.com/nyanpasu64/exotracker/doc"
)

func beatAt(n int64) doc.TimeInPattern {
	return doc.TimeInPattern{AnchorBeat: doc.BeatFractionFromInt(n), TickOffset: 0}
}

func noteEvent(n doc.Note) doc.RowEvent {
	note := n
	return doc.RowEvent{Note: &note}
}

// testDocument builds a single-chip (2A03) document whose pulse1 channel has
// one grid cell of 4 beats containing a block with two events at beat 0 and
// beat 2, at 10 ticks/beat.
func testDocument() *doc.Document {
	events := []doc.TimedRowEvent{
		{Time: beatAt(0), Event: noteEvent(60)},
		{Time: beatAt(2), Event: noteEvent(62)},
	}
	block := doc.TimelineBlock{
		BeginTime: 0,
		EndTime:   doc.EndOfCell,
		Pattern:   doc.Pattern{Events: events},
	}
	cell := doc.TimelineCell{Blocks: []doc.TimelineBlock{block}}

	nchan := doc.NumChannels(doc.Chip2A03)
	channels := make([]doc.ChannelTimeline, nchan)
	for i := range channels {
		if i == int(doc.ChannelPulse1) {
			channels[i] = doc.ChannelTimeline{cell}
		} else {
			channels[i] = doc.ChannelTimeline{{Blocks: nil}}
		}
	}

	return &doc.Document{
		SequencerOptions: doc.SequencerOptions{TicksPerBeat: 10, BeatsPerMeasure: 4},
		Chips:            []doc.ChipKind{doc.Chip2A03},
		Timeline: doc.Timeline{
			Grid:     []doc.GridCell{{NBeats: doc.BeatFractionFromInt(4)}},
			Channels: channels,
		},
	}
}

func TestSequencerFiresEventsOnTheirTick(t *testing.T) {
	document := testDocument()
	seq := NewSequencer(document)

	var fired []int
	for i := 0; i < 30; i++ {
		events, tick := seq.Tick()
		if len(events[doc.ChannelPulse1]) > 0 {
			fired = append(fired, int(tick))
		}
	}

	if len(fired) != 2 || fired[0] != 0 || fired[1] != 20 {
		t.Errorf("fired ticks = %v, want [0 20]", fired)
	}
}

func TestSequencerSilentOnOtherTicks(t *testing.T) {
	document := testDocument()
	seq := NewSequencer(document)

	events, tick := seq.Tick()
	if tick != 0 {
		t.Fatalf("first Tick() returned tick %d, want 0", tick)
	}
	if len(events[doc.ChannelPulse1]) != 1 {
		t.Fatalf("tick 0 events = %v, want one note-on", events[doc.ChannelPulse1])
	}

	events, tick = seq.Tick()
	if tick != 1 {
		t.Fatalf("second Tick() returned tick %d, want 1", tick)
	}
	if len(events[doc.ChannelPulse1]) != 0 {
		t.Errorf("tick 1 events = %v, want none", events[doc.ChannelPulse1])
	}
}

func TestSequencerPlayFromSeeksForward(t *testing.T) {
	document := testDocument()
	seq := NewSequencer(document)

	seq.PlayFrom(20)
	events, tick := seq.Tick()
	if tick != 20 {
		t.Fatalf("Tick() after PlayFrom(20) returned tick %d, want 20", tick)
	}
	if len(events[doc.ChannelPulse1]) != 1 {
		t.Errorf("tick 20 events = %v, want one note-on", events[doc.ChannelPulse1])
	}
}

func TestSequencerPlayFromMidPatternSkipsPastEvents(t *testing.T) {
	document := testDocument()
	seq := NewSequencer(document)

	// Seeking to tick 5 (between the beat-0 and beat-2 events) must not
	// replay the beat-0 note; only the beat-2 note should still fire.
	seq.PlayFrom(5)

	var fired []int
	for i := 0; i < 20; i++ {
		events, tick := seq.Tick()
		if len(events[doc.ChannelPulse1]) > 0 {
			fired = append(fired, int(tick))
		}
	}

	if len(fired) != 1 || fired[0] != 20 {
		t.Errorf("fired ticks after PlayFrom(5) = %v, want [20]", fired)
	}
}

func TestSequencerSongLengthTicks(t *testing.T) {
	document := testDocument()
	seq := NewSequencer(document)

	if got := seq.SongLengthTicks(); got != 40 {
		t.Errorf("SongLengthTicks() = %d, want 40 (4 beats * 10 ticks/beat)", got)
	}
}
