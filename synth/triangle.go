package synth

import "github.com/nyanpasu64/exotracker/doc"

// TriangleMaxPeriod is the 2A03 triangle channel's 11-bit period register
// ceiling (same register width as pulse).
const TriangleMaxPeriod = 0x7ff

// triangleSamplesPerCycle: the triangle generator advances twice as fast per
// waveform cycle as the pulse generators (nes_2a03_driver.cpp's
// Apu2TriDriver::TRI_PERIOD).
const triangleSamplesPerCycle = 32

// TriangleDriver drives the 2A03's triangle-wave channel.
type TriangleDriver struct {
	volumeEnv EnvelopeIterator
	pitchEnv  EnvelopeIterator
	arpEnv    EnvelopeIterator

	prevNote    doc.Note
	prevPlaying bool

	firstTickOccurred bool
	prevBytes         [3]byte // $4008, $400A, $400B
}

// NewTriangleDriver constructs a fresh triangle driver.
func NewTriangleDriver() *TriangleDriver {
	return &TriangleDriver{
		volumeEnv: NewEnvelopeIterator(func(i *doc.Instrument) doc.Envelope { return i.Volume }, 1),
		pitchEnv:  NewEnvelopeIterator(func(i *doc.Instrument) doc.Envelope { return i.Pitch }, 0),
		arpEnv:    NewEnvelopeIterator(func(i *doc.Instrument) doc.Envelope { return i.Arpeggio }, 0),
	}
}

// StopPlayback resets mutable playback state, keeping cached register
// contents so the next Tick call diffs correctly.
func (d *TriangleDriver) StopPlayback() {
	prevBytes := d.prevBytes
	*d = *NewTriangleDriver()
	d.prevBytes = prevBytes
}

// Tick processes one tick's row events for the triangle channel.
func (d *TriangleDriver) Tick(document *doc.Document, tuning TuningTable, events []doc.RowEvent, writes *RegisterWriteQueue) {
	for _, event := range events {
		if event.Note != nil {
			note := *event.Note
			switch {
			case note.IsValidNote():
				instr := instrumentAt(document, event.Instrument)
				d.volumeEnv.NoteOn(instr)
				d.pitchEnv.NoteOn(instr)
				d.arpEnv.NoteOn(instr)
				d.prevNote = note
			case note.IsRelease():
				d.volumeEnv.Release()
				d.pitchEnv.Release()
				d.arpEnv.Release()
			case note.IsCut():
				d.volumeEnv.NoteCut()
				d.pitchEnv.NoteCut()
				d.arpEnv.NoteCut()
			}
		}
		if event.Instrument != nil {
			instr := instrumentAt(document, event.Instrument)
			d.volumeEnv.SwitchInstrument(instr)
			d.pitchEnv.SwitchInstrument(instr)
			d.arpEnv.SwitchInstrument(instr)
		}
		if event.Volume != nil {
			d.prevPlaying = *event.Volume != 0
		}
	}

	playing := d.prevPlaying && d.volumeEnv.Next() != 0
	reloadLinearCounter := false
	var byte0 byte
	if playing {
		// Bits 6:0=1111111 keep the linear counter nonzero (audible); bit 7=1
		// halts the length counter so it never silences the channel on its own.
		byte0 = 0xff
		reloadLinearCounter = true
	} else {
		byte0 = 0x80
	}

	// d.pitchEnv is ticked to keep its position advancing, matching the
	// original's "ignore _envs.pitch until we implement pitch envelopes".
	d.pitchEnv.Next()

	note := clampNote(int(d.prevNote) + int(d.arpEnv.Next()))
	periodReg := tuning[note]

	next := [3]byte{byte0, byte(periodReg & 0xff), byte((periodReg >> 8) & 0x7)}

	if !d.firstTickOccurred || next[0] != d.prevBytes[0] {
		writes.PushWrite(RegisterWrite{Address: 0x4008, Value: next[0]})
	}
	if !d.firstTickOccurred || next[1] != d.prevBytes[1] {
		writes.PushWrite(RegisterWrite{Address: 0x400A, Value: next[1]})
	}
	// $400B reloads the linear counter as a side effect, so it must be
	// written unconditionally whenever reloadLinearCounter is set, not just
	// when its byte value changed.
	if !d.firstTickOccurred || reloadLinearCounter || next[2] != d.prevBytes[2] {
		writes.PushWrite(RegisterWrite{Address: 0x400B, Value: next[2]})
	}

	d.firstTickOccurred = true
	d.prevBytes = next
}
