package timeutil

import "testing"

func TestRowIterAtTimeSnapsToRow(t *testing.T) {
	// ticksPerBeat=10, ticksPerRow=2 -> 5 rows/beat.
	it, snapped := RowIterAtTime(testOpts, 23, 2)
	if !snapped {
		t.Error("snappedEarlier = false, want true")
	}
	if got := it.Peek(); got.Time != 22 || got.BeatInMeasure != NoBeatInMeasure {
		t.Errorf("Peek() = %+v, want {22 %d}", got, NoBeatInMeasure)
	}
}

func TestRowIterAtTimeOnBeatBoundary(t *testing.T) {
	it, snapped := RowIterAtTime(testOpts, 20, 2)
	if snapped {
		t.Error("snappedEarlier = true, want false")
	}
	if got := it.Peek(); got.Time != 20 || got.BeatInMeasure != 2 {
		t.Errorf("Peek() = %+v, want {20 2}", got)
	}
}

func TestRowIterNextCrossesBeatBoundary(t *testing.T) {
	it, _ := RowIterAtTime(testOpts, 28, 2) // last row before beat 3
	it.Next()
	if got := it.Peek(); got.Time != 30 || got.BeatInMeasure != 3 {
		t.Errorf("Peek() = %+v, want {30 3}", got)
	}
}

func TestRowIterTryPrevAtZero(t *testing.T) {
	it, _ := RowIterAtTime(testOpts, 0, 2)
	if it.TryPrev() {
		t.Error("TryPrev() at tick 0 = true, want false")
	}
}

func TestRowIterTryPrevCrossesBeatBoundary(t *testing.T) {
	it, _ := RowIterAtTime(testOpts, 30, 2) // row 0 of beat 3
	if !it.TryPrev() {
		t.Fatal("TryPrev() = false, want true")
	}
	if got := it.Peek(); got.Time != 28 {
		t.Errorf("Peek().Time = %d, want 28", got.Time)
	}
}
