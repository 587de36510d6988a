package model

import (
	"math"

	"github.com/san-kum/scilab/internal/sim"
)

// pivotHeight places the pendulum pivot above the ground plane.
const pivotHeight = 2.5

// Pendulum is a damped harmonic oscillator evaluated in closed form:
//
//	theta(t) = theta0 * exp(-c*t) * cos(wd*t)
//
// with natural frequency w0 = sqrt(g/L) and damped frequency
// wd = sqrt(w0^2 - c^2). Angular velocity is the analytic derivative of
// the same expression, not a finite difference, so velocity never drifts
// against position. The model is stateless given t: every tick recomputes
// the world position from the instantaneous angle and cumulative tick
// error is zero.
//
// Outside the underdamped regime (w0^2 <= c^2) the model reports a
// terminal rest frame instead of oscillating. That is a policy choice
// carried over from the source behavior, not a failure.
type Pendulum struct {
	Length  float64 // m
	Gravity float64 // m/s^2
	Damping float64 // 1/s
	Theta0  float64 // rad
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Length:  1.0,
		Gravity: 9.81,
		Damping: 0.2,
		Theta0:  degToRad(20),
	}
}

func (p *Pendulum) Name() string     { return "pendulum" }
func (p *Pendulum) Series() []string { return []string{"theta", "omega"} }
func (p *Pendulum) Reset()           {}

func (p *Pendulum) ViewBounds() (float64, float64) { return 2, 15 }

// Underdamped reports whether the current parameters admit oscillation.
func (p *Pendulum) Underdamped() bool {
	return p.Gravity/p.Length > p.Damping*p.Damping
}

// Angle returns theta(t) and its time derivative.
func (p *Pendulum) Angle(t float64) (theta, omega float64) {
	w0sq := p.Gravity / p.Length
	c := p.Damping
	wd := math.Sqrt(w0sq - c*c)
	decay := math.Exp(-c * t)
	cos, sin := math.Cos(wd*t), math.Sin(wd*t)
	theta = p.Theta0 * decay * cos
	omega = p.Theta0 * decay * (-c*cos - wd*sin)
	return theta, omega
}

func (p *Pendulum) Step(t, dt float64) sim.Frame {
	if !p.Underdamped() {
		// Non-oscillatory regime: hold the release angle and stop.
		return p.frame(0, p.Theta0, 0, true)
	}
	t2 := t + dt
	theta, omega := p.Angle(t2)
	return p.frame(t2, theta, omega, false)
}

func (p *Pendulum) frame(t, theta, omega float64, terminal bool) sim.Frame {
	pivot := sim.Vec3{X: 0, Y: pivotHeight, Z: 0}
	bob := pivot.Add(sim.Vec3{
		X: math.Sin(theta) * p.Length,
		Y: -math.Cos(theta) * p.Length,
	})
	return sim.Frame{
		Time: t,
		Bodies: []sim.Body{
			{ID: "pivot", Pos: pivot},
			{ID: "bob", Pos: bob, Aux: theta},
		},
		Samples:  map[string]float64{"theta": theta, "omega": omega},
		Terminal: terminal,
	}
}

func (p *Pendulum) Params() map[string]float64 {
	return map[string]float64{
		"length":  p.Length,
		"gravity": p.Gravity,
		"damping": p.Damping,
		"theta0":  p.Theta0,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "length":
		p.Length = clamp(value, 0.1, 5)
	case "gravity":
		p.Gravity = clamp(value, 0.1, 30)
	case "damping":
		p.Damping = clamp(value, 0, 5)
	case "theta0":
		p.Theta0 = clamp(value, -math.Pi/2, math.Pi/2)
	default:
		return unknownParam("pendulum", name)
	}
	return nil
}
