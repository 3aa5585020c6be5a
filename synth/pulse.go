package synth

import "github.com/nyanpasu64/exotracker/doc"

// PulseMaxPeriod is the 2A03 pulse channel's 11-bit period register ceiling.
const PulseMaxPeriod = 0x7ff

// pulseSamplesPerCycle is how many APU cycles the pulse generator advances
// per waveform cycle (nes_2a03_driver.cpp's Apu1Driver::PULSE_PERIOD).
const pulseSamplesPerCycle = 16

// PulseNum selects which of the two identical pulse channels a driver drives
// (their base register address differs by 0x4).
type PulseNum int

const (
	Pulse1 PulseNum = 0
	Pulse2 PulseNum = 1
)

type pulseState struct {
	periodReg int
	duty      int
	volume    int
}

// PulseDriver drives one of the 2A03's two square-wave channels.
type PulseDriver struct {
	pulseNum    PulseNum
	baseAddress uint16

	volumeEnv EnvelopeIterator
	dutyEnv   EnvelopeIterator
	arpEnv    EnvelopeIterator

	prevNote   doc.Note
	prevVolume int

	firstTickOccurred bool
	prevState         pulseState
}

// NewPulseDriver constructs a driver for pulse channel 1 or 2.
//
// prevVolume starts at MaxVolume: a note with no volume-column effect plays
// at full volume, matching 0CC-FamiTracker's convention. Actual silence (no
// instrument bound, or after a note cut / StopPlayback) comes from the
// volume envelope itself returning 0 once unbound — volumeEnv is built with
// a default of 0, which Next returns while no instrument is bound.
func NewPulseDriver(pulseNum PulseNum) *PulseDriver {
	return &PulseDriver{
		pulseNum:    pulseNum,
		baseAddress: uint16(0x4000 + 0x4*int(pulseNum)),
		volumeEnv:   NewEnvelopeIterator(func(i *doc.Instrument) doc.Envelope { return i.Volume }, 0),
		dutyEnv:     NewEnvelopeIterator(func(i *doc.Instrument) doc.Envelope { return i.Wave }, 0),
		arpEnv:      NewEnvelopeIterator(func(i *doc.Instrument) doc.Envelope { return i.Arpeggio }, 0),
		prevVolume:  MaxVolume,
	}
}

// StopPlayback resets all mutable playback state (but not cached register
// contents, which the next Tick call diffs against).
func (d *PulseDriver) StopPlayback() {
	pulseNum, baseAddress, prevState := d.pulseNum, d.baseAddress, d.prevState
	*d = *NewPulseDriver(pulseNum)
	d.baseAddress = baseAddress
	d.prevState = prevState
}

func instrumentAt(document *doc.Document, idx *int) *doc.Instrument {
	if idx == nil || *idx < 0 || *idx >= len(document.Instruments) {
		return nil
	}
	return &document.Instruments[*idx]
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}

func clampNote(n int) int {
	if n < 0 {
		return 0
	}
	if n > doc.ChromaticCount-1 {
		return doc.ChromaticCount - 1
	}
	return n
}

// Tick processes one tick's row events and emits the resulting register
// writes, diffed against the previous tick's state.
func (d *PulseDriver) Tick(document *doc.Document, tuning TuningTable, events []doc.RowEvent, writes *RegisterWriteQueue) {
	for _, event := range events {
		if event.Note != nil {
			note := *event.Note
			switch {
			case note.IsValidNote():
				instr := instrumentAt(document, event.Instrument)
				d.volumeEnv.NoteOn(instr)
				d.dutyEnv.NoteOn(instr)
				d.arpEnv.NoteOn(instr)
				d.prevNote = note
			case note.IsRelease():
				d.volumeEnv.Release()
				d.dutyEnv.Release()
				d.arpEnv.Release()
			case note.IsCut():
				d.volumeEnv.NoteCut()
				d.dutyEnv.NoteCut()
				d.arpEnv.NoteCut()
			}
		}
		if event.Instrument != nil {
			instr := instrumentAt(document, event.Instrument)
			d.volumeEnv.SwitchInstrument(instr)
			d.dutyEnv.SwitchInstrument(instr)
			d.arpEnv.SwitchInstrument(instr)
		}
		if event.Volume != nil {
			d.prevVolume = clampVolume(*event.Volume)
		}
	}

	next := pulseState{
		volume: VolumeMul4x4(d.prevVolume, int(d.volumeEnv.Next())),
		duty:   int(d.dutyEnv.Next()),
	}
	note := clampNote(int(d.prevNote) + int(d.arpEnv.Next()))
	next.periodReg = tuning[note]

	bytes := pulseRegisterBytes(next)
	for i, b := range bytes {
		if !d.firstTickOccurred || b != d.prevStateBytes()[i] {
			writes.PushWrite(RegisterWrite{Address: d.baseAddress + uint16(i), Value: b})
		}
	}
	d.firstTickOccurred = true
	d.prevState = next
}

func (d *PulseDriver) prevStateBytes() [4]byte {
	return pulseRegisterBytes(d.prevState)
}

// pulseRegisterBytes packs pulse state into the four $4000-$4003-style
// register bytes: duty+volume, sweep-disable, period low, length+period high.
func pulseRegisterBytes(s pulseState) [4]byte {
	var bytes [4]byte
	// $4000: DDLC VVVV (duty, length-halt, constant-volume, volume).
	bytes[0] = byte(s.duty<<6) | 0x30 | byte(s.volume)
	// $4001: sweep unit disabled (EPPP NSSS = 0000 1000).
	bytes[1] = 0x08
	// $4002: period low 8 bits.
	bytes[2] = byte(s.periodReg & 0xff)
	// $4003: length-counter load (1, muted via length_halt) + period high 3 bits.
	bytes[3] = (1 << 3) | byte((s.periodReg>>8)&0x7)
	return bytes
}
