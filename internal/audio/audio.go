// Package audio sonifies simulation activity as an ambient pad. The
// synth runs on an output-only stream; simulation activity opens a
// low-pass filter, so an energetic pendulum sounds brighter than one
// that has nearly rung down. Audio failure is never fatal: the host
// keeps running silently.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// Engine is the sonification voice for one session.
type Engine struct {
	stream *portaudio.Stream

	time        float64
	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int

	mu       sync.Mutex
	activity float64
	smooth   float64
	meter    float64

	active bool
}

func NewEngine() *Engine {
	delayLen := int(float64(SampleRate) * 0.6)
	return &Engine{
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Start opens the default output stream. Errors are returned for the
// host to log; the engine simply stays inactive.
func (e *Engine) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, e.process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	e.stream = stream
	e.active = true
	return nil
}

func (e *Engine) Stop() {
	if e.stream != nil {
		e.stream.Stop()
		e.stream.Close()
		e.stream = nil
	}
	if e.active {
		portaudio.Terminate()
	}
	e.active = false
}

func (e *Engine) Active() bool { return e.active }

// UpdateActivity feeds the current simulation activity level, typically
// a squared-velocity or rate-of-change metric. Safe to call from the
// render loop; the audio callback reads it under the lock. The HUD meter
// smooths here, per host frame, so it tracks even while the stream is
// closed.
func (e *Engine) UpdateActivity(level float64) {
	e.mu.Lock()
	e.activity = level
	e.meter = e.meter*0.9 + level*0.1
	e.mu.Unlock()
}

// Level returns the smoothed 0..1 activity for the HUD level meter.
func (e *Engine) Level() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.meter
}

// Triangle wave: soft, flute-like, no harsh harmonics.
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// One-pole low pass.
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

func (e *Engine) process(out [][]float32) {
	// Gm7 add9 pad.
	freqs := []float64{98.00, 116.54, 146.83, 174.61, 220.00}

	e.mu.Lock()
	target := e.activity
	e.mu.Unlock()

	// Slow morph so parameter jumps and resets never click.
	e.smooth = e.smooth*0.995 + target*0.005

	cutoff := 300.0 + math.Min(e.smooth*900.0, 900.0)
	dt := 1.0 / float64(SampleRate)
	const vol = 0.25

	for i := 0; i < len(out[0]); i++ {
		sampleL, sampleR := 0.0, 0.0
		for j, f := range freqs {
			oscL := triangle(e.time * (f * 0.999))
			oscR := triangle(e.time * (f * 1.001))
			g := 1.0 / float64(len(freqs))
			lfo := math.Sin(e.time*0.2 + float64(j))
			sampleL += oscL * g * (0.7 + 0.3*lfo)
			sampleR += oscR * g * (0.7 + 0.3*lfo)
		}

		var outL, outR float64
		outL, e.filterState[0] = lpf(sampleL, cutoff, dt, e.filterState[0])
		outR, e.filterState[1] = lpf(sampleR, cutoff, dt, e.filterState[1])

		delayL := e.delayLine[0][e.delayHead]
		delayR := e.delayLine[1][e.delayHead]

		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1

		e.delayLine[0][e.delayHead] = mixL * 0.7
		e.delayLine[1][e.delayHead] = mixR * 0.7
		e.delayHead = (e.delayHead + 1) % len(e.delayLine[0])

		out[0][i] = float32(mixL * vol)
		out[1][i] = float32(mixR * vol)

		e.time += dt
	}
}
