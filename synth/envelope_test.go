package synth

import (
	"testing"

	"github.com/nyanpasu64/exotracker/doc"
)

func volumeSelector(ins *doc.Instrument) doc.Envelope { return ins.Volume }

func TestEnvelopeIteratorDefaultBeforeNoteOn(t *testing.T) {
	it := NewEnvelopeIterator(volumeSelector, MaxVolume)
	if got := it.Next(); got != MaxVolume {
		t.Errorf("Next() before any NoteOn = %d, want %d", got, MaxVolume)
	}
}

func TestEnvelopeIteratorAdvancesAndLoops(t *testing.T) {
	instr := &doc.Instrument{
		Volume: doc.Envelope{Values: []int8{15, 10, 5}, ReleaseIndex: doc.NoRelease, LoopIndex: 1},
	}
	it := NewEnvelopeIterator(volumeSelector, MaxVolume)
	it.NoteOn(instr)

	want := []int8{15, 10, 5, 10, 5, 10}
	for i, w := range want {
		if got := it.Next(); got != w {
			t.Errorf("Next() #%d = %d, want %d", i, got, w)
		}
	}
}

func TestEnvelopeIteratorHoldsAtEndWithoutLoop(t *testing.T) {
	instr := &doc.Instrument{
		Volume: doc.Envelope{Values: []int8{15, 10, 5}, ReleaseIndex: doc.NoRelease, LoopIndex: doc.NoLoop},
	}
	it := NewEnvelopeIterator(volumeSelector, MaxVolume)
	it.NoteOn(instr)

	it.Next()
	it.Next()
	for i := 0; i < 3; i++ {
		if got := it.Next(); got != 5 {
			t.Errorf("Next() after the final value = %d, want 5 (held)", got)
		}
	}
}

func TestEnvelopeIteratorReleaseJumpsOnce(t *testing.T) {
	instr := &doc.Instrument{
		Volume: doc.Envelope{Values: []int8{15, 10, 5, 0}, ReleaseIndex: 3, LoopIndex: doc.NoLoop},
	}
	it := NewEnvelopeIterator(volumeSelector, MaxVolume)
	it.NoteOn(instr)
	it.Next() // consume value 15, pos=1

	it.Release()
	if got := it.Next(); got != 0 {
		t.Errorf("Next() after Release() = %d, want 0 (the release-index value)", got)
	}

	// A second Release() call must not re-jump.
	it.Release()
	if got := it.Next(); got != 0 {
		t.Errorf("Next() after a second Release() = %d, want 0 (held at end)", got)
	}
}

func TestEnvelopeIteratorNoteCutFallsBackToDefault(t *testing.T) {
	instr := &doc.Instrument{Volume: doc.Envelope{Values: []int8{15, 10}}}
	it := NewEnvelopeIterator(volumeSelector, MaxVolume)
	it.NoteOn(instr)
	it.NoteCut()
	if got := it.Next(); got != MaxVolume {
		t.Errorf("Next() after NoteCut() = %d, want %d", got, MaxVolume)
	}
}

func TestEnvelopeIteratorSwitchInstrumentPreservesPosition(t *testing.T) {
	a := &doc.Instrument{Volume: doc.Envelope{Values: []int8{15, 10, 5}, LoopIndex: doc.NoLoop}}
	b := &doc.Instrument{Volume: doc.Envelope{Values: []int8{1, 2, 3, 4}, LoopIndex: doc.NoLoop}}

	it := NewEnvelopeIterator(volumeSelector, MaxVolume)
	it.NoteOn(a)
	it.Next() // pos now 1

	it.SwitchInstrument(b)
	if got := it.Next(); got != 2 {
		t.Errorf("Next() after SwitchInstrument = %d, want 2 (position preserved into b's envelope)", got)
	}
}
