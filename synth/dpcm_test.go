package synth

import (
	"testing"

	"github.com/nyanpasu64/exotracker/doc"
)

func TestDpcmDriverForwardsVolumeColumn(t *testing.T) {
	d := NewDpcmDriver()
	var writes RegisterWriteQueue

	v := 100
	d.Tick([]doc.RowEvent{{Volume: &v}}, &writes)

	if len(writes.Writes()) != 1 || writes.Writes()[0] != (RegisterWrite{Address: 0x4011, Value: 100}) {
		t.Errorf("Tick writes = %v, want a single write of 100 to $4011", writes.Writes())
	}
}

func TestDpcmDriverNoteCutSilences(t *testing.T) {
	d := NewDpcmDriver()
	var writes RegisterWriteQueue

	d.Tick([]doc.RowEvent{{Note: notePtr(doc.CutNote)}}, &writes)

	if len(writes.Writes()) != 1 || writes.Writes()[0].Value != 0 {
		t.Errorf("Tick on note-cut writes = %v, want a single zero write", writes.Writes())
	}
}

func TestDpcmDriverStopPlaybackSilences(t *testing.T) {
	d := NewDpcmDriver()
	var writes RegisterWriteQueue

	d.StopPlayback(&writes)
	if len(writes.Writes()) != 1 || writes.Writes()[0] != (RegisterWrite{Address: 0x4011, Value: 0}) {
		t.Errorf("StopPlayback writes = %v, want a single zero write to $4011", writes.Writes())
	}
}
