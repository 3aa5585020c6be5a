package synth

import "github.com/nyanpasu64/exotracker/doc"

// ChannelEvents carries one tick's resolved row events per 2A03 channel, in
// doc.ChannelID order.
type ChannelEvents [5][]doc.RowEvent

// Chip2A03Driver drives all five 2A03 channels from one tuning configuration.
// It owns no audio-rate state (see chipemu for the actual waveform
// generator) — only the note/instrument-to-register-write pipeline.
type Chip2A03Driver struct {
	PulseTuning    TuningTable
	TriangleTuning TuningTable

	pulse1   *PulseDriver
	pulse2   *PulseDriver
	triangle *TriangleDriver
	noise    *NoiseDriver
	dpcm     *DpcmDriver
}

// NewChip2A03Driver builds a driver whose tuning tables are quantized from
// frequencies at the given master clock rate.
func NewChip2A03Driver(clocksPerSecond float64, frequencies [doc.ChromaticCount]float64) *Chip2A03Driver {
	return &Chip2A03Driver{
		PulseTuning:    MakeTuningTable(frequencies, clocksPerSecond, pulseSamplesPerCycle, PulseMaxPeriod),
		TriangleTuning: MakeTuningTable(frequencies, clocksPerSecond, triangleSamplesPerCycle, TriangleMaxPeriod),
		pulse1:         NewPulseDriver(Pulse1),
		pulse2:         NewPulseDriver(Pulse2),
		triangle:       NewTriangleDriver(),
		noise:          NewNoiseDriver(),
		dpcm:           NewDpcmDriver(),
	}
}

// StopPlayback resets every channel's playback state and writes the DMC
// output level to 0. Pulse, triangle and noise get no writes here; the next
// Tick writes every one of their registers, which with no events and no
// instrument bound are their silent values.
func (d *Chip2A03Driver) StopPlayback(writes *RegisterWriteQueue) {
	d.pulse1.StopPlayback()
	d.pulse2.StopPlayback()
	d.triangle.StopPlayback()
	d.noise.StopPlayback()
	d.dpcm.StopPlayback(writes)
}

// Tick runs one driver tick across all five channels, appending every
// resulting register write to writes in channel order (pulse1, pulse2,
// triangle, noise, dpcm).
func (d *Chip2A03Driver) Tick(document *doc.Document, events ChannelEvents, writes *RegisterWriteQueue) {
	d.pulse1.Tick(document, d.PulseTuning, events[doc.ChannelPulse1], writes)
	d.pulse2.Tick(document, d.PulseTuning, events[doc.ChannelPulse2], writes)
	d.triangle.Tick(document, d.TriangleTuning, events[doc.ChannelTriangle], writes)
	d.noise.Tick(document, events[doc.ChannelNoise], writes)
	d.dpcm.Tick(events[doc.ChannelDPCM], writes)
}
