package synth

import "github.com/nyanpasu64/exotracker/doc"

// EnvelopeSelector picks one named envelope out of an instrument, e.g.
// `func(ins *doc.Instrument) doc.Envelope { return ins.Volume }`. Using a
// closure instead of per-field subclassing keeps one EnvelopeIterator type
// usable for every envelope slot across every channel driver.
type EnvelopeSelector func(*doc.Instrument) doc.Envelope

// EnvelopeIterator tracks one envelope's playback position for one channel.
// NoteOn/SwitchInstrument/Release/NoteCut are driven by row events; Next is
// called once per driver tick to fetch the current value and advance.
type EnvelopeIterator struct {
	selector EnvelopeSelector
	def      int8

	instrument *doc.Instrument
	pos        int
	released   bool
}

// NewEnvelopeIterator builds an iterator with no instrument bound yet; Next
// returns def until a note_on or switch_instrument binds one.
func NewEnvelopeIterator(selector EnvelopeSelector, def int8) EnvelopeIterator {
	return EnvelopeIterator{selector: selector, def: def}
}

// NoteOn resets playback position to the start of instr's envelope.
func (it *EnvelopeIterator) NoteOn(instr *doc.Instrument) {
	it.instrument = instr
	it.pos = 0
	it.released = false
}

// SwitchInstrument rebinds to a new instrument's envelope, preserving
// playback position (the 0CC-FamiTracker "instrument switch doesn't retrigger"
// behavior the original macro-expands per envelope field).
func (it *EnvelopeIterator) SwitchInstrument(instr *doc.Instrument) {
	it.instrument = instr
}

// Release jumps to the envelope's release point, once, the first time it is
// called after a note_on; subsequent calls are a no-op.
func (it *EnvelopeIterator) Release() {
	if it.released || it.instrument == nil {
		return
	}
	it.released = true
	env := it.selector(it.instrument)
	if env.ReleaseIndex != doc.NoRelease {
		it.pos = env.ReleaseIndex
	}
}

// NoteCut unbinds the instrument; Next falls back to def until the next
// NoteOn.
func (it *EnvelopeIterator) NoteCut() {
	it.instrument = nil
}

// Next returns the envelope's current value and advances playback position,
// looping at LoopIndex (or holding at the final value if LoopIndex is unset).
func (it *EnvelopeIterator) Next() int8 {
	if it.instrument == nil {
		return it.def
	}
	env := it.selector(it.instrument)
	if len(env.Values) == 0 {
		return it.def
	}

	val := env.ValueAt(it.pos, it.def)
	it.pos++
	if it.pos >= len(env.Values) {
		if env.LoopIndex != doc.NoLoop {
			it.pos = env.LoopIndex
		} else {
			it.pos = len(env.Values) - 1
		}
	}
	return val
}
