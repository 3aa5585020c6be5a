// exowav renders the fixed demo song (see cmd/internal/demo) to a WAV file
// with no audio device involved, adapting cmd/modwav's render-until-done
// loop to the Synth/cmdqueue API.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/nyanpasu64/exotracker/audio"
	"github.com/nyanpasu64/exotracker/cmd/internal/demo"
	"github.com/nyanpasu64/exotracker/cmdqueue"
	"github.com/nyanpasu64/exotracker/wav"
)

var (
	flagOut           = flag.String("wav", "out.wav", "output WAVE file path")
	flagHz            = flag.Int("hz", 48000, "output sample rate in hz")
	flagClockRate     = flag.Float64("chip-hz", 1789773, "2A03 master clock rate in hz (NTSC default)")
	flagClocksPerTick = flag.Int64("clocks-per-tick", 4, "emulator clocks between sequencer ticks")
	flagTicksPerBeat  = flag.Int("ticks-per-beat", 4, "sequencer ticks per beat in the demo song")
	flagSeconds       = flag.Float64("seconds", 10, "length of audio to render")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("exowav: ")
	flag.Parse()

	document := demo.Song(int32(*flagTicksPerBeat))
	synth := audio.NewSynth(document, *flagClockRate, float64(*flagHz), *flagClocksPerTick, 16384)

	q := cmdqueue.NewQueue()
	q.Push(cmdqueue.PlayFrom{Time: 0})
	synth.Commands().Publish(q)

	wavF, err := os.Create(*flagOut)
	if err != nil {
		log.Fatal(err)
	}
	defer wavF.Close()

	wavW, err := wav.NewWriter(wavF, *flagHz)
	if err != nil {
		log.Fatal(err)
	}

	totalSamples := int(*flagSeconds * float64(*flagHz))
	mono := make([]int16, 2048)
	stereo := [2][]int16{make([]int16, 2048), make([]int16, 2048)}

	for rendered := 0; rendered < totalSamples; {
		n := len(mono)
		if rendered+n > totalSamples {
			n = totalSamples - rendered
		}
		synth.GenerateAudio(mono[:n])
		copy(stereo[0][:n], mono[:n])
		copy(stereo[1][:n], mono[:n])

		if err := wavW.WriteFrame([][]int16{stereo[0][:n], stereo[1][:n]}); err != nil {
			log.Fatal(err)
		}
		rendered += n
	}

	if _, err := wavW.Finish(); err != nil {
		log.Fatal(err)
	}

	log.Printf("wrote %s (%.1fs @ %dhz)", *flagOut, *flagSeconds, *flagHz)
}
