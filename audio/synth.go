// Package audio is the audio thread's top-level synth: it drains the
// command queue, advances the sequencer and chip drivers one driver tick at
// a time, applies the resulting register writes to the chip emulator, and
// pulls resampled PCM into the host's output buffer. It is the Go
// counterpart of the teacher's player.GenerateAudio tick-subdivision loop,
// generalized from a fixed samples-per-tick MOD clock to 2A03-clock-domain
// driver ticks.
package audio

import (
	"github.com/charmbracelet/log"

	"github.com/nyanpasu64/exotracker/chipemu"
	"github.com/nyanpasu64/exotracker/cmdqueue"
	"github.com/nyanpasu64/exotracker/doc"
	"github.com/nyanpasu64/exotracker/sequencer"
	"github.com/nyanpasu64/exotracker/synth"
)

// fallbackBufferSamples is the BlipBuffer size newApu2A03Safe retries with if
// the caller-requested bufferSamples fails to allocate at setup time. The
// failure is logged once and the synth keeps producing sound from the
// smaller buffer; it does not switch to silent output, and a failure of the
// retry itself is not recovered.
const fallbackBufferSamples = 4096

// newApu2A03Safe builds the chip emulator, retrying once with a small fixed
// buffer size if bufferSamples fails to allocate. A failure here is setup-time
// only (the audio callback itself never allocates), so it is safe to recover
// from and log rather than propagate across the audio boundary.
func newApu2A03Safe(clockRate, sampleRate float64, bufferSamples int) (apu *chipemu.Apu2A03) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("BlipBuffer allocation failed at setup, retrying with the fallback buffer size", "requestedSamples", bufferSamples, "panic", r)
			apu = chipemu.NewApu2A03(clockRate, sampleRate, fallbackBufferSamples)
		}
	}()
	return chipemu.NewApu2A03(clockRate, sampleRate, bufferSamples)
}

// Synth is the audio-thread-owned 2A03 engine for one document. Every
// method must be called only from the audio callback thread; the GUI
// thread communicates with it exclusively through the cmdqueue.Queue this
// Synth was wired to via Commands().
type Synth struct {
	document *doc.Document

	seq    *sequencer.Sequencer
	driver *synth.Chip2A03Driver
	apu    *chipemu.Apu2A03
	writes synth.RegisterWriteQueue

	clockRate            float64
	sampleRate           float64
	clocksPerSoundUpdate int64

	clock        int64
	nextTick     int64
	playing      bool
	lastSeenTick doc.TickT

	cmds      cmdqueue.SharedCursor
	cmdCursor *cmdqueue.Command
}

// NewSynth builds a Synth for document, running its single 2A03 chip at
// clockRate emulator cycles/second (the 2A03's own master clock, e.g. the
// NTSC APU rate), producing PCM at sampleRate. clocksPerSoundUpdate sets how
// often (in emulator clocks) the sequencer and chip drivers are ticked —
// spec.md §4.4's "driver-tick granularity", typically 1..16.
func NewSynth(document *doc.Document, clockRate, sampleRate float64, clocksPerSoundUpdate int64, bufferSamples int) *Synth {
	s := &Synth{
		document:             document,
		seq:                  sequencer.NewSequencer(document),
		driver:               synth.NewChip2A03Driver(clockRate, document.FrequencyTable),
		apu:                  newApu2A03Safe(clockRate, sampleRate, bufferSamples),
		clockRate:            clockRate,
		sampleRate:           sampleRate,
		clocksPerSoundUpdate: clocksPerSoundUpdate,
		nextTick:             clocksPerSoundUpdate,
	}
	return s
}

// Commands returns this Synth's command source. The GUI thread calls Publish
// on it with its cmdqueue.Queue (and again after every Push) — exposed here
// so callers don't need to reach into an unexported field.
func (s *Synth) Commands() *cmdqueue.SharedCursor {
	return &s.cmds
}

// SeenCommand returns the most recently applied command. It is nil until
// GenerateAudio first finds a published queue; from then on it is at least
// that queue's sentinel StopPlayback node. The GUI thread polls this to
// learn when an edit or seek it pushed has become audible.
func (s *Synth) SeenCommand() *cmdqueue.Command {
	return s.cmdCursor
}

// PlayTime returns the sequencer tick most recently ticked.
func (s *Synth) PlayTime() doc.TickT {
	return s.lastSeenTick
}

// drainCommands applies every command pushed since the last call, per
// spec.md §4.4/§4.5: PlayFrom reseeds every channel's sequencer cursor and
// forces a StopPlayback on every driver so the next tick emits fresh
// writes; StopPlayback silences every channel and halts ticking until the
// next PlayFrom.
func (s *Synth) drainCommands() {
	if s.cmdCursor == nil {
		s.cmdCursor = s.cmds.Load()
		if s.cmdCursor == nil {
			// No queue has ever been published; nothing to drain yet.
			return
		}
	}
	for {
		next, ok := cmdqueue.Next(s.cmdCursor)
		if !ok {
			return
		}
		s.cmdCursor = next

		switch m := s.cmdCursor.Msg.(type) {
		case cmdqueue.PlayFrom:
			s.seq.PlayFrom(doc.TickT(m.Time))
			s.driver.StopPlayback(&s.writes)
			s.apu.ApplyWrites(s.writes.Writes())
			s.writes.Reset()
			s.playing = true
		case cmdqueue.StopPlayback:
			s.driver.StopPlayback(&s.writes)
			// Ticking halts below, so write every channel's silent registers
			// now (no events, no instrument bound) and make them take effect
			// at the current clock rather than at the next EndFrame.
			s.driver.Tick(s.document, synth.ChannelEvents{}, &s.writes)
			s.apu.ApplyWrites(s.writes.Writes())
			s.apu.RunUntil(s.clock)
			s.writes.Reset()
			s.playing = false
		}
	}
}

// runDriverTick advances the sequencer by one tick and ticks every chip
// driver, applying the resulting register writes to the emulator.
func (s *Synth) runDriverTick() {
	if !s.playing {
		return
	}
	events, tick := s.seq.Tick()
	s.lastSeenTick = tick
	s.driver.Tick(s.document, events, &s.writes)
	s.apu.ApplyWrites(s.writes.Writes())
	s.writes.Reset()
}

// GenerateAudio fills out with len(out) resampled mono PCM samples,
// interleaving driver ticks at clocksPerSoundUpdate boundaries exactly like
// the teacher's GenerateAudio interleaves sequenceTick calls at
// samplesPerTick boundaries. Unlike a sample-counted loop, the clock is
// advanced to whichever comes first, the next due tick or the clock needed
// for this call's last output sample, so a clocksPerSoundUpdate smaller
// than one sample period (spec.md §4.5's documented 1..16 range) still
// ticks at its configured granularity instead of collapsing to once per
// sample.
func (s *Synth) GenerateAudio(out []int16) {
	s.drainCommands()

	clocksPerSample := s.clockRate / s.sampleRate
	target := s.clock + int64(float64(len(out))*clocksPerSample)

	for s.clock < target {
		if s.clock >= s.nextTick {
			s.runDriverTick()
			s.nextTick += s.clocksPerSoundUpdate
		}

		next := target
		if s.nextTick < next {
			next = s.nextTick
		}
		s.clock = next
		s.apu.EndFrame(s.clock)
	}

	s.apu.ReadSamples(out)
}
