package synth

import "github.com/nyanpasu64/exotracker/doc"

// DpcmDriver is a minimal amplitude-only DMC driver: it forwards the row's
// volume-column value straight to the DMC output level register and does
// not play samples from doc.Sample (sample playback is out of scope — see
// SPEC_FULL.md §7's keysplit note). Matches Apu2DpcmDriver::tick exactly.
type DpcmDriver struct{}

// NewDpcmDriver constructs a DpcmDriver. It carries no state.
func NewDpcmDriver() *DpcmDriver {
	return &DpcmDriver{}
}

func (d *DpcmDriver) setDMC(writes *RegisterWriteQueue, amplitude byte) {
	writes.PushWrite(RegisterWrite{Address: 0x4011, Value: amplitude})
}

// clampDmcAmplitude restricts a row's volume-column value to the DMC output
// level register's 7-bit range.
func clampDmcAmplitude(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 0x7f {
		return 0x7f
	}
	return byte(v)
}

// StopPlayback silences the DMC output level immediately.
func (d *DpcmDriver) StopPlayback(writes *RegisterWriteQueue) {
	d.setDMC(writes, 0)
}

// Tick processes one tick's row events for the DPCM channel.
func (d *DpcmDriver) Tick(events []doc.RowEvent, writes *RegisterWriteQueue) {
	for _, event := range events {
		if event.Note != nil && event.Note.IsCut() {
			d.setDMC(writes, 0)
		}
		if event.Volume != nil {
			d.setDMC(writes, clampDmcAmplitude(*event.Volume))
		}
	}
}
