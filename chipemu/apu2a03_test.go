package chipemu

import (
	"testing"

	"github.com/nyanpasu64/exotracker/synth"
)

const clocksPerSecond = 1789773
const sampleRate = 48000

func generate(t *testing.T, a *Apu2A03, nSamples int) []int16 {
	t.Helper()
	out := make([]int16, 0, nSamples)
	clock := int64(0)
	clocksPerSample := int64(clocksPerSecond / sampleRate)
	for len(out) < nSamples {
		clock += clocksPerSample
		a.EndFrame(clock)
		buf := make([]int16, nSamples-len(out))
		n := a.ReadSamples(buf)
		out = append(out, buf[:n]...)
	}
	return out
}

func maxAbs(samples []int16) (min, max int16) {
	for _, s := range samples {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return min, max
}

func TestApu2A03SilentWithNoRegisterWrites(t *testing.T) {
	a := NewApu2A03(clocksPerSecond, sampleRate, 8192)
	out := generate(t, a, 4096)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("sample %d = %d, want 0 (no register writes ever applied)", i, s)
		}
	}
}

func TestApu2A03PulseHighNoteMeetsAmplitudeThreshold(t *testing.T) {
	a := NewApu2A03(clocksPerSecond, sampleRate, 8192)
	// MIDI 72 (C5, ~523Hz) quantized into the pulse tuning table at this
	// clock rate; full volume, 50% duty.
	freq := 523.25
	period := int(clocksPerSecond/(16*freq) + 0.5)
	a.ApplyWrites([]synth.RegisterWrite{
		{Address: 0x4000, Value: (2 << 6) | 0x30 | 0xf}, // 50% duty, full volume
		{Address: 0x4002, Value: byte(period & 0xff)},
		{Address: 0x4003, Value: byte((period >> 8) & 0x7)},
	})

	out := generate(t, a, 4096)
	min, max := maxAbs(out)
	if max < 1000 {
		t.Errorf("max sample = %d, want >= 1000", max)
	}
	if min > -1000 {
		t.Errorf("min sample = %d, want <= -1000", min)
	}
}

func TestApu2A03PulseLowNoteAbovePeriodHalfStillPlays(t *testing.T) {
	a := NewApu2A03(clocksPerSecond, sampleRate, 8192)
	// A period past (MAX_PERIOD+1)/2 — a real NES sweep unit would mute
	// this, but this emulator has no sweep unit to silence it.
	period := (synth.PulseMaxPeriod + 1) / 2 + 10
	a.ApplyWrites([]synth.RegisterWrite{
		{Address: 0x4000, Value: (2 << 6) | 0x30 | 0xf},
		{Address: 0x4002, Value: byte(period & 0xff)},
		{Address: 0x4003, Value: byte((period >> 8) & 0x7)},
	})

	out := generate(t, a, 4096)
	min, max := maxAbs(out)
	if max < 1000 {
		t.Errorf("max sample = %d, want >= 1000", max)
	}
	if min > -1000 {
		t.Errorf("min sample = %d, want <= -1000", min)
	}
}

func TestApu2A03TriangleProducesNonzeroOutput(t *testing.T) {
	a := NewApu2A03(clocksPerSecond, sampleRate, 8192)
	a.ApplyWrites([]synth.RegisterWrite{
		{Address: 0x4008, Value: 0xff},
		{Address: 0x400A, Value: 0x40},
		{Address: 0x400B, Value: 0x01},
	})

	out := generate(t, a, 4096)
	nonzero := false
	for _, s := range out {
		if s != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		t.Error("triangle channel produced all-zero output while playing")
	}
}
