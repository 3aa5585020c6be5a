package synth

import "github.com/nyanpasu64/exotracker/doc"

// NoiseDriver drives the 2A03's noise channel. Noise has no period-register
// tuning table: its 4-bit period register is the bitwise complement of the
// low nibble of (prev note + arpeggio offset), per nes_2a03_driver.cpp.
type NoiseDriver struct {
	volumeEnv EnvelopeIterator
	modeEnv   EnvelopeIterator // wave_index bit 0 selects pitched vs. noise mode
	arpEnv    EnvelopeIterator

	prevNote   doc.Note
	prevVolume int

	firstTickOccurred bool
	prevBytes         [4]byte // $400C-$400F
}

// NewNoiseDriver constructs a fresh noise driver.
func NewNoiseDriver() *NoiseDriver {
	return &NoiseDriver{
		volumeEnv:  NewEnvelopeIterator(func(i *doc.Instrument) doc.Envelope { return i.Volume }, 0),
		modeEnv:    NewEnvelopeIterator(func(i *doc.Instrument) doc.Envelope { return i.Wave }, 0),
		arpEnv:     NewEnvelopeIterator(func(i *doc.Instrument) doc.Envelope { return i.Arpeggio }, 0),
		prevVolume: MaxVolume,
	}
}

// StopPlayback resets mutable playback state, keeping cached registers.
func (d *NoiseDriver) StopPlayback() {
	prevBytes := d.prevBytes
	*d = *NewNoiseDriver()
	d.prevBytes = prevBytes
}

// Tick processes one tick's row events for the noise channel.
func (d *NoiseDriver) Tick(document *doc.Document, events []doc.RowEvent, writes *RegisterWriteQueue) {
	for _, event := range events {
		if event.Note != nil {
			note := *event.Note
			switch {
			case note.IsValidNote():
				instr := instrumentAt(document, event.Instrument)
				d.volumeEnv.NoteOn(instr)
				d.modeEnv.NoteOn(instr)
				d.arpEnv.NoteOn(instr)
				d.prevNote = note
			case note.IsRelease():
				d.volumeEnv.Release()
				d.modeEnv.Release()
				d.arpEnv.Release()
			case note.IsCut():
				d.volumeEnv.NoteCut()
				d.modeEnv.NoteCut()
				d.arpEnv.NoteCut()
			}
		}
		if event.Instrument != nil {
			instr := instrumentAt(document, event.Instrument)
			d.volumeEnv.SwitchInstrument(instr)
			d.modeEnv.SwitchInstrument(instr)
			d.arpEnv.SwitchInstrument(instr)
		}
		if event.Volume != nil {
			d.prevVolume = clampVolume(*event.Volume)
		}
	}

	volume := VolumeMul4x4(d.prevVolume, int(d.volumeEnv.Next()))
	pitched := int(d.modeEnv.Next()) & 1
	periodReg := ((int(d.prevNote) + int(d.arpEnv.Next())) & 0xf) ^ 0xf

	var next [4]byte
	// $400C: --LC VVVV (length-halt, constant-volume, volume).
	next[0] = 0x30 | byte(volume)
	// $400D unused.
	// $400E: M--- PPPP (mode, period).
	next[2] = byte(pitched<<7) | byte(periodReg)
	// $400F: length-counter load (1, muted via length_halt).
	next[3] = 1 << 3

	for i, b := range next {
		if !d.firstTickOccurred || b != d.prevBytes[i] {
			writes.PushWrite(RegisterWrite{Address: uint16(0x400C + i), Value: b})
		}
	}
	d.firstTickOccurred = true
	d.prevBytes = next
}
