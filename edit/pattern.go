// Package edit implements document mutation as swap commands: applying a
// command exchanges the target's old content for the new, and applying the
// very same command again restores the old content. This is the Go
// counterpart of original_source/src/edit/pattern.cpp's EditCommand<Body>,
// whose apply_swap does doc_events.swap(_events) — the command IS its own
// inverse, so History needs no separate undo representation.
package edit

import (
	"github.com/nyanpasu64/exotracker/doc"
	"github.com/nyanpasu64/exotracker/timeutil"
)

// Command mutates a document in place. Calling ApplySwap once performs the
// edit; calling it again on the same Command undoes it.
type Command interface {
	ApplySwap(document *doc.Document)
}

// PatternEdit swaps one TimelineBlock's Pattern.Events for Events, per
// edit/pattern.cpp's PatternEdit body (generalized from the original's flat
// per-seq-entry event list to this document model's per-block Pattern).
type PatternEdit struct {
	ChannelIndex int
	GridIndex    int
	BlockIndex   int
	Events       []doc.TimedRowEvent
}

// ApplySwap exchanges the target block's events with e.Events.
func (e *PatternEdit) ApplySwap(document *doc.Document) {
	block := &document.Timeline.Channels[e.ChannelIndex][e.GridIndex].Blocks[e.BlockIndex]
	block.Pattern.Events, e.Events = e.Events, block.Pattern.Events
}

// SubColumnKind identifies which field of a RowEvent a DeleteCell clears.
type SubColumnKind int

const (
	SubColumnNote SubColumnKind = iota
	SubColumnInstrument
	SubColumnVolume
	SubColumnEffectName
	SubColumnEffectValue
)

// SubColumn names one editable field within a row, matching
// edit/pattern.h's SubColumn variant (Note/Instrument/Volume/EffectName{effect_col}/EffectValue{effect_col}).
type SubColumn struct {
	Kind      SubColumnKind
	EffectCol int
}

func clearSubColumn(ev *doc.RowEvent, sub SubColumn) {
	switch sub.Kind {
	case SubColumnNote:
		ev.Note = nil
	case SubColumnInstrument:
		ev.Instrument = nil
	case SubColumnVolume:
		ev.Volume = nil
	case SubColumnEffectName:
		ev.Effects[sub.EffectCol].Name = [2]byte{}
		ev.Effects[sub.EffectCol].Value = 0
	case SubColumnEffectValue:
		ev.Effects[sub.EffectCol].Value = 0
	}
}

// eraseEmpty drops every event that has become entirely empty, per
// edit/pattern.cpp's erase_empty.
func eraseEmpty(events []doc.TimedRowEvent) []doc.TimedRowEvent {
	out := events[:0]
	for _, ev := range events {
		if !ev.Event.IsEmpty() {
			out = append(out, ev)
		}
	}
	return out
}

// DeleteCell clears sub at beat within the given block's pattern, pruning
// the event entirely if every field is now unset, and returns a Command
// that performs (and, reapplied, undoes) the edit. It returns ok=false if no
// event exists at beat.
func DeleteCell(document *doc.Document, channelIndex, gridIndex, blockIndex int, beat *doc.BeatFraction, sub SubColumn) (Command, bool) {
	block := &document.Timeline.Channels[channelIndex][gridIndex].Blocks[blockIndex]

	events := make([]doc.TimedRowEvent, len(block.Pattern.Events))
	for i, ev := range block.Pattern.Events {
		events[i] = ev.Clone()
	}

	if _, found := timeutil.GetMaybe(events, beat); !found {
		return nil, false
	}
	end := timeutil.BeatEnd(events, beat)
	pos := end - 1
	clearSubColumn(&events[pos].Event, sub)
	events = eraseEmpty(events)

	return &PatternEdit{
		ChannelIndex: channelIndex,
		GridIndex:    gridIndex,
		BlockIndex:   blockIndex,
		Events:       events,
	}, true
}

// InsertNote writes note (and, if the row at beat has no instrument yet, the
// given instrument) into the given block's pattern at beat, per
// edit/pattern.cpp's insert_note: kv.get_or_insert(time.beat) followed by
// setting .note.
func InsertNote(document *doc.Document, channelIndex, gridIndex, blockIndex int, beat *doc.BeatFraction, note doc.Note, instrument int) Command {
	block := &document.Timeline.Channels[channelIndex][gridIndex].Blocks[blockIndex]

	events := make([]doc.TimedRowEvent, len(block.Pattern.Events))
	for i, ev := range block.Pattern.Events {
		events[i] = ev.Clone()
	}

	events, pos := timeutil.GetOrInsert(events, beat)
	n := note
	events[pos].Event.Note = &n
	if events[pos].Event.Instrument == nil {
		inst := instrument
		events[pos].Event.Instrument = &inst
	}

	return &PatternEdit{
		ChannelIndex: channelIndex,
		GridIndex:    gridIndex,
		BlockIndex:   blockIndex,
		Events:       events,
	}
}
