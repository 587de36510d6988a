package sim

import (
	"math"
	"testing"

	"github.com/san-kum/scilab/internal/record"
)

// rampModel is a trivial model whose sample equals elapsed time, with an
// optional terminal cutoff.
type rampModel struct {
	cutoff float64
	resets int
}

func (m *rampModel) Name() string               { return "ramp" }
func (m *rampModel) Series() []string           { return []string{"v"} }
func (m *rampModel) Reset()                     { m.resets++ }
func (m *rampModel) Params() map[string]float64 { return map[string]float64{"cutoff": m.cutoff} }
func (m *rampModel) ViewBounds() (float64, float64) {
	return 1, 10
}
func (m *rampModel) SetParam(name string, value float64) error {
	if name != "cutoff" {
		return ErrUnknownParam
	}
	m.cutoff = value
	return nil
}
func (m *rampModel) Step(t, dt float64) Frame {
	t2 := t + dt
	terminal := false
	if m.cutoff > 0 && t2 >= m.cutoff {
		t2 = m.cutoff
		terminal = true
	}
	return Frame{
		Time:     t2,
		Samples:  map[string]float64{"v": t2},
		Terminal: terminal,
	}
}

func TestClockConsumesWholeSteps(t *testing.T) {
	c := NewClock(&rampModel{}, nil)
	c.Start()

	n, err := c.Advance(0.035)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 ticks from 0.035s at 0.01 step, got %d", n)
	}
	if math.Abs(c.Elapsed()-0.03) > 1e-12 {
		t.Errorf("expected elapsed 0.03, got %f", c.Elapsed())
	}

	// The 0.005 remainder plus another 0.006 completes one more tick.
	n, _ = c.Advance(0.006)
	if n != 1 {
		t.Errorf("expected accumulated remainder to complete a tick, got %d", n)
	}
}

func TestClockStartStopIdempotent(t *testing.T) {
	c := NewClock(&rampModel{}, nil)

	c.Start()
	c.Start()
	c.Advance(0.1)
	elapsed := c.Elapsed()

	c.Stop()
	c.Stop()
	if c.Elapsed() != elapsed {
		t.Errorf("stop changed elapsed time: %f -> %f", elapsed, c.Elapsed())
	}

	n, _ := c.Advance(1.0)
	if n != 0 {
		t.Errorf("stopped clock must not tick, got %d ticks", n)
	}

	c.Start()
	c.Advance(0.1)
	if c.Elapsed() <= elapsed {
		t.Error("restarted clock should continue from where it paused")
	}
}

func TestClockStopDropsAccumulator(t *testing.T) {
	c := NewClock(&rampModel{}, nil)
	c.Start()
	c.Advance(0.015) // one tick, 0.005 left in the accumulator
	c.Stop()
	c.Start()

	n, _ := c.Advance(0.005)
	if n != 0 {
		t.Errorf("pause should drop partial backlog, got %d ticks", n)
	}
}

func TestClockPausePreservesSeries(t *testing.T) {
	rec := record.New("v")
	c := NewClock(&rampModel{}, rec)
	c.Start()
	c.Advance(0.055)
	c.Stop()

	if rec.Len("v") != 5 {
		t.Fatalf("expected 5 samples, got %d", rec.Len("v"))
	}
	c.Start()
	c.Advance(0.055)
	if rec.Len("v") != 10 {
		t.Errorf("resume should append, not restart: got %d samples", rec.Len("v"))
	}
}

func TestClockTerminalLatch(t *testing.T) {
	m := &rampModel{cutoff: 0.03}
	c := NewClock(m, nil)
	c.Start()
	c.Advance(1.0)

	if !c.Terminal() || c.Running() {
		t.Fatalf("expected terminal stopped clock, terminal=%v running=%v", c.Terminal(), c.Running())
	}
	if c.Elapsed() != m.cutoff {
		t.Errorf("expected elapsed clamped to %f, got %f", m.cutoff, c.Elapsed())
	}

	c.Start()
	if c.Running() {
		t.Error("terminal clock must ignore Start")
	}

	c.Reset()
	if c.Terminal() {
		t.Error("reset should clear the terminal latch")
	}
}

func TestClockSetParamResets(t *testing.T) {
	rec := record.New("v")
	m := &rampModel{}
	c := NewClock(m, rec)
	c.Start()
	c.Advance(0.1)

	if err := c.SetParam("cutoff", 5); err != nil {
		t.Fatal(err)
	}
	if c.Elapsed() != 0 {
		t.Errorf("parameter change should reset elapsed, got %f", c.Elapsed())
	}
	if rec.Len("v") != 0 {
		t.Errorf("parameter change should clear series, got %d samples", rec.Len("v"))
	}
	if m.resets == 0 {
		t.Error("parameter change should reset the model")
	}
	if c.Running() {
		t.Error("reset clock should be stopped until restarted")
	}
}

func TestClockAppliesFramesInOrder(t *testing.T) {
	var applied []float64
	c := NewClock(&rampModel{}, nil)
	c.SetApply(func(f Frame) { applied = append(applied, f.Time) })
	c.Start()
	c.Advance(0.035)

	if len(applied) != 3 {
		t.Fatalf("expected 3 applied frames, got %d", len(applied))
	}
	for i := 1; i < len(applied); i++ {
		if applied[i] <= applied[i-1] {
			t.Errorf("frames applied out of order: %v", applied)
		}
	}
}

func TestClockNegativeAdvance(t *testing.T) {
	c := NewClock(&rampModel{}, nil)
	c.Start()
	if _, err := c.Advance(-0.01); err != ErrNegativeStep {
		t.Errorf("expected ErrNegativeStep, got %v", err)
	}
}

func TestClockSetStepIgnoredWhileRunning(t *testing.T) {
	c := NewClock(&rampModel{}, nil)
	c.Start()
	c.SetStep(0.5)
	if c.Step() != DefaultStep {
		t.Errorf("step changed while running: %f", c.Step())
	}
	c.Stop()
	c.SetStep(0.5)
	if c.Step() != 0.5 {
		t.Errorf("expected step 0.5 while idle, got %f", c.Step())
	}
}
