package synth

import (
	"math"

	"github.com/nyanpasu64/exotracker/doc"
)

// TuningTable maps each of the 128 chromatic notes to a clamped period
// register value for one 2A03 channel kind (pulse or triangle share the
// shape but differ in samplesPerCycle/maxRegister).
type TuningTable [doc.ChromaticCount]int

// registerQuantize computes the period register for one note's frequency,
// clamped to [0, maxRegister]. Matches nes_2a03_driver.cpp's
// register_quantize exactly, including its round-half-away-from-zero via
// math.Round.
func registerQuantize(cyclesPerSecond float64, clocksPerSecond float64, samplesPerCycle int, maxRegister int) int {
	clocksPerSample := clocksPerSecond / (float64(samplesPerCycle) * cyclesPerSecond)
	reg := int(math.Round(clocksPerSample - 1))
	if reg < 0 {
		reg = 0
	}
	if reg > maxRegister {
		reg = maxRegister
	}
	return reg
}

// MakeTuningTable quantizes every chromatic frequency in the table to a
// period register for a channel with the given samplesPerCycle/maxRegister.
func MakeTuningTable(frequencies [doc.ChromaticCount]float64, clocksPerSecond float64, samplesPerCycle int, maxRegister int) TuningTable {
	var out TuningTable
	for i, freq := range frequencies {
		out[i] = registerQuantize(freq, clocksPerSecond, samplesPerCycle, maxRegister)
	}
	return out
}
