package sim

import "github.com/san-kum/scilab/internal/record"

// DefaultStep is the simulated time advanced per tick, in seconds. The
// tick rate is fixed and independent of the host's display frame rate.
const DefaultStep = 0.01

// Clock advances a Model by a fixed simulated step per tick. Hosts feed
// wall-clock time into Advance; whole ticks are consumed from the
// accumulated backlog, so rendering at any frame rate yields the same
// simulated trajectory.
//
// Within one tick the ordering is: physics evaluation, then body
// transform mutation (the registered apply func), then series recording.
// Rendering happens outside the clock and never mutates simulation state.
//
// Start and Stop are idempotent. Stop preserves elapsed time and the
// recorded series; only Reset or a parameter change is destructive.
type Clock struct {
	model    Model
	rec      *record.Recorder
	step     float64
	elapsed  float64
	accum    float64
	running  bool
	terminal bool
	apply    func(Frame)
	last     Frame
}

func NewClock(m Model, rec *record.Recorder) *Clock {
	c := &Clock{model: m, rec: rec, step: DefaultStep}
	c.last = m.Step(0, 0)
	return c
}

// SetApply registers the body-transform sink invoked once per tick,
// after physics evaluation and before recording.
func (c *Clock) SetApply(fn func(Frame)) { c.apply = fn }

// SetStep changes the simulated step size. Ignored while running.
func (c *Clock) SetStep(dt float64) {
	if !c.running && dt > 0 {
		c.step = dt
	}
}

// Start begins ticking. A no-op while already running or after the model
// reported a terminal state; a terminal clock requires Reset to run again.
func (c *Clock) Start() {
	if c.terminal {
		return
	}
	c.running = true
}

// Stop cancels the tick source. Elapsed time, the last frame, and all
// recorded series are preserved.
func (c *Clock) Stop() {
	c.running = false
	c.accum = 0
}

func (c *Clock) Running() bool    { return c.running }
func (c *Clock) Terminal() bool   { return c.terminal }
func (c *Clock) Elapsed() float64 { return c.elapsed }
func (c *Clock) Step() float64    { return c.step }
func (c *Clock) Model() Model     { return c.model }

// LastFrame returns the most recently evaluated frame. Valid from
// construction onward, so a paused or freshly reset viewport still has
// something to draw.
func (c *Clock) LastFrame() Frame { return c.last }

// Advance feeds wall-clock time into the accumulator and runs as many
// whole fixed ticks as it covers. Returns the number of ticks executed.
// Advancing a stopped clock is a no-op.
func (c *Clock) Advance(wallDt float64) (int, error) {
	if wallDt < 0 {
		return 0, ErrNegativeStep
	}
	if !c.running {
		return 0, nil
	}
	c.accum += wallDt
	n := 0
	for c.accum >= c.step && c.running {
		c.accum -= c.step
		c.tick()
		n++
	}
	return n, nil
}

func (c *Clock) tick() {
	f := c.model.Step(c.elapsed, c.step)
	// Models may clamp time (a projectile lands at timeOfFlight exactly),
	// so elapsed follows the frame rather than accumulating step drift.
	c.elapsed = f.Time
	if c.apply != nil {
		c.apply(f)
	}
	if c.rec != nil {
		for _, name := range c.model.Series() {
			if v, ok := f.Samples[name]; ok {
				c.rec.Append(name, f.Time, v)
			}
		}
	}
	c.last = f
	if f.Terminal {
		c.terminal = true
		c.running = false
		c.accum = 0
	}
}

// Reset returns the simulation to t=0: model state, elapsed time, and
// recorded series are cleared, and the rest frame is re-applied so the
// viewport repaints immediately.
func (c *Clock) Reset() {
	c.model.Reset()
	c.elapsed = 0
	c.accum = 0
	c.running = false
	c.terminal = false
	if c.rec != nil {
		c.rec.Reset()
	}
	c.last = c.model.Step(0, 0)
	if c.apply != nil {
		c.apply(c.last)
	}
}

// SetParam forwards to the model and, on success, resets the run:
// parameters are immutable between restarts, so derived state and series
// never mix samples from different parameter sets.
func (c *Clock) SetParam(name string, value float64) error {
	if err := c.model.SetParam(name, value); err != nil {
		return err
	}
	c.Reset()
	return nil
}
