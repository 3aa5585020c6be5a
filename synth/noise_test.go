package synth

import (
	"testing"

	"github.com/nyanpasu64/exotracker/doc"
)

func TestNoiseDriverPeriodIsXorOfNote(t *testing.T) {
	document := &doc.Document{
		Instruments: []doc.Instrument{{Volume: doc.Envelope{Values: []int8{15}, LoopIndex: 0}}},
	}
	d := NewNoiseDriver()
	var writes RegisterWriteQueue

	idx := 0
	events := []doc.RowEvent{{Note: notePtr(5), Instrument: &idx}}
	d.Tick(document, events, &writes)

	for _, w := range writes.Writes() {
		if w.Address == 0x400E {
			want := byte((5 & 0xf) ^ 0xf)
			if w.Value&0xf != want {
				t.Errorf("$400E period nibble = %#x, want %#x", w.Value&0xf, want)
			}
		}
	}
}

func TestNoiseDriverSilentByDefault(t *testing.T) {
	d := NewNoiseDriver()
	document := &doc.Document{}
	var writes RegisterWriteQueue

	d.Tick(document, nil, &writes)
	for _, w := range writes.Writes() {
		if w.Address == 0x400C && w.Value&0xf != 0 {
			t.Errorf("volume nibble of $400C = %#x, want 0", w.Value&0xf)
		}
	}
}
