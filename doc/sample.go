package doc

import "fmt"

// Sample is a BRR-encoded sample with tuning metadata, used by
// keysplit-driven sample-playback instruments (SPEC_FULL.md §7).
type Sample struct {
	Name string

	// BRRData's length must be a multiple of 9 (one BRR block).
	BRRData []byte
	// LoopOffset must be a multiple of 9.
	LoopOffset int

	SampleRate  int
	RootKey     Note
	DetuneCents int
}

// Validate enforces the data-error invariants spec.md §7.2 requires the
// loader to catch before a malformed sample ever reaches the audio thread.
func (s Sample) Validate() error {
	if len(s.BRRData)%9 != 0 {
		return fmt.Errorf("sample %q: BRR data length %d is not a multiple of 9", s.Name, len(s.BRRData))
	}
	if s.LoopOffset%9 != 0 {
		return fmt.Errorf("sample %q: loop offset %d is not a multiple of 9", s.Name, s.LoopOffset)
	}
	if s.LoopOffset < 0 || s.LoopOffset > len(s.BRRData) {
		return fmt.Errorf("sample %q: loop offset %d out of range [0, %d]", s.Name, s.LoopOffset, len(s.BRRData))
	}
	return nil
}
