// Package synth turns document note/instrument state into 2A03 register
// writes: tuning tables, envelope iteration, per-channel drivers and the
// register-write diffing/suppression logic that feeds chipemu. It is the Go
// counterpart of original_source/src/audio/synth/{nes_2a03_driver,
// volume_calc_common}.cpp.
package synth

// RegisterWrite is one byte written to one memory-mapped chip register.
type RegisterWrite struct {
	Address uint16
	Value   byte
}

// RegisterWriteQueue accumulates the writes produced by one driver tick,
// in emission order. A single slice is reused tick to tick via Reset to
// avoid allocating on the audio thread's steady-state path.
type RegisterWriteQueue struct {
	writes []RegisterWrite
}

// PushWrite appends one register write.
func (q *RegisterWriteQueue) PushWrite(w RegisterWrite) {
	q.writes = append(q.writes, w)
}

// Writes returns the writes accumulated since the last Reset.
func (q *RegisterWriteQueue) Writes() []RegisterWrite {
	return q.writes
}

// Reset empties the queue without releasing its backing array.
func (q *RegisterWriteQueue) Reset() {
	q.writes = q.writes[:0]
}
