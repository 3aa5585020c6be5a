// exoplay is an interactive CLI player for the exotracker audio engine:
// portaudio output, live transport keys, a scrolling status line. It plays
// the fixed demo song built by cmd/internal/demo (see that package's doc
// comment for why there's no file to load).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/gordonklaus/portaudio"

	"github.com/nyanpasu64/exotracker/audio"
	"github.com/nyanpasu64/exotracker/cmd/internal/config"
	"github.com/nyanpasu64/exotracker/cmd/internal/demo"
	"github.com/nyanpasu64/exotracker/cmdqueue"
	"github.com/nyanpasu64/exotracker/doc"
	"github.com/nyanpasu64/exotracker/internal/comb"
)

var (
	flagHz            = flag.Int("hz", 48000, "output sample rate in hz")
	flagClockRate     = flag.Float64("chip-hz", 1789773, "2A03 master clock rate in hz (NTSC default)")
	flagClocksPerTick = flag.Int64("clocks-per-tick", 4, "emulator clocks between sequencer ticks")
	flagTicksPerBeat  = flag.Int("ticks-per-beat", 4, "sequencer ticks per beat in the demo song")
	flagReverb        = flag.String("reverb", "light", "reverb preset: none, light, medium, silly")
)

const (
	escape     = "\x1b["
	hideCursor = escape + "?25l"
	showCursor = escape + "?25h"

	audioBufferSize = 1024
)

// player wires a Synth to portaudio, a reverb post-processor, and a
// keyboard-driven transport, mirroring the teacher's AudioPlayer lifecycle
// (context-cancel, sync.Once shutdown, a background keyboard listener).
type player struct {
	synth  *audio.Synth
	queue  *cmdqueue.Queue
	reverb comb.Reverber

	mono   []int16
	stereo []int16

	stream *portaudio.Stream

	playing  bool
	lastTick doc.TickT

	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	stopOnce     sync.Once
	keyboardDone chan struct{}
}

func newPlayer(synth *audio.Synth, reverb comb.Reverber) *player {
	ctx, cancel := context.WithCancel(context.Background())
	p := &player{
		synth:        synth,
		reverb:       reverb,
		mono:         make([]int16, audioBufferSize),
		stereo:       make([]int16, audioBufferSize*2),
		ctx:          ctx,
		cancel:       cancel,
		keyboardDone: make(chan struct{}),
	}
	p.queue = cmdqueue.NewQueue()
	p.queue.Push(cmdqueue.PlayFrom{Time: 0})
	p.synth.Commands().Publish(p.queue)
	p.playing = true
	return p
}

// streamCallback is portaudio's real-time callback: generate mono PCM,
// widen to interleaved stereo, run it through the reverb's bounded ring.
func (p *player) streamCallback(out []int16) {
	nFrames := len(out) / 2
	mono := p.mono[:nFrames]
	p.synth.GenerateAudio(mono)

	for i, s := range mono {
		p.stereo[2*i] = s
		p.stereo[2*i+1] = s
	}

	p.reverb.InputSamples(p.stereo[:nFrames*2])
	p.reverb.GetAudio(out)
}

func (p *player) togglePlayback() {
	p.lastTick = p.synth.PlayTime()
	if p.playing {
		p.queue.Push(cmdqueue.StopPlayback{})
	} else {
		p.queue.Push(cmdqueue.PlayFrom{Time: int32(p.lastTick)})
	}
	p.synth.Commands().Publish(p.queue)
	p.playing = !p.playing
}

func (p *player) setupSignalHandlers() {
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		select {
		case <-p.ctx.Done():
		case <-sigch:
			p.stop()
		}
	}()
}

func (p *player) setupKeyboardHandlers() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		keyboard.Listen(func(key keys.Key) (stop bool, err error) {
			switch {
			case key.Code == keys.CtrlC || key.Code == keys.Escape:
				p.stop()
				return true, nil
			case key.Code == keys.Space:
				p.togglePlayback()
			}
			return false, nil
		})
		close(p.keyboardDone)
	}()
}

func (p *player) stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		if p.stream != nil {
			p.stream.Stop()
			p.stream.Close()
		}
		portaudio.Terminate()
		fmt.Print(showCursor)
	})
}

func (p *player) run() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(*flagHz), audioBufferSize, p.streamCallback)
	if err != nil {
		return err
	}
	p.stream = stream
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}

	p.setupSignalHandlers()
	p.setupKeyboardHandlers()

	status := color.New(color.FgCyan).SprintfFunc()
	fmt.Print(hideCursor)
	fmt.Println("exoplay — space to pause/resume, esc or ctrl-c to quit")

	var displayedTick doc.TickT = -1
	for {
		select {
		case <-p.ctx.Done():
			fmt.Print(showCursor)
			return nil
		default:
		}

		tick := p.synth.PlayTime()
		if tick != displayedTick {
			fmt.Printf("\r%s", status("tick %d", tick))
			displayedTick = tick
		}
	}
}

func main() {
	flag.Parse()

	document := demo.Song(int32(*flagTicksPerBeat))

	synth := audio.NewSynth(document, *flagClockRate, float64(*flagHz), *flagClocksPerTick, 16384)

	reverb, err := config.ReverbFromFlag(*flagReverb, *flagHz)
	if err != nil {
		fmt.Fprintln(os.Stderr, "exoplay:", err)
		os.Exit(1)
	}

	p := newPlayer(synth, reverb)
	if err := p.run(); err != nil {
		fmt.Fprintln(os.Stderr, "exoplay:", err)
		os.Exit(1)
	}
	p.wg.Wait()
}
