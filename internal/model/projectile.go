package model

import (
	"math"

	"github.com/san-kum/scilab/internal/sim"
)

// Projectile is closed-form ballistic kinematics:
//
//	x(t) = v*cos(a)*t
//	y(t) = v*sin(a)*t - g*t^2/2
//
// Flight terminates at timeOfFlight = 2*v*sin(a)/g; Step clamps t there so
// the final frame lands exactly at ground level and the clock stops once.
// The visited-position trail is accumulated by the scene, not here.
type Projectile struct {
	Speed    float64 // m/s
	AngleDeg float64 // launch angle above horizontal
	Gravity  float64 // m/s^2
}

func NewProjectile() *Projectile {
	return &Projectile{Speed: 20, AngleDeg: 45, Gravity: 9.81}
}

func (p *Projectile) Name() string     { return "projectile" }
func (p *Projectile) Series() []string { return []string{"x", "y", "vy"} }
func (p *Projectile) Reset()           {}

func (p *Projectile) ViewBounds() (float64, float64) { return 5, 200 }

// TimeOfFlight returns the instant the projectile returns to launch height.
func (p *Projectile) TimeOfFlight() float64 {
	a := degToRad(p.AngleDeg)
	return 2 * p.Speed * math.Sin(a) / p.Gravity
}

// Range returns the horizontal distance covered over the full flight.
func (p *Projectile) Range() float64 {
	a := degToRad(p.AngleDeg)
	return p.Speed * math.Cos(a) * p.TimeOfFlight()
}

// At evaluates position and vertical velocity at time t without clamping.
// y may go negative past the flight time; the clock never advances there.
func (p *Projectile) At(t float64) (x, y, vy float64) {
	a := degToRad(p.AngleDeg)
	x = p.Speed * math.Cos(a) * t
	y = p.Speed*math.Sin(a)*t - 0.5*p.Gravity*t*t
	vy = p.Speed*math.Sin(a) - p.Gravity*t
	return x, y, vy
}

func (p *Projectile) Step(t, dt float64) sim.Frame {
	tof := p.TimeOfFlight()
	t2 := t + dt
	terminal := false
	if t2 >= tof {
		t2 = tof
		terminal = true
	}
	x, y, vy := p.At(t2)
	return sim.Frame{
		Time: t2,
		Bodies: []sim.Body{
			{ID: "launcher", Pos: sim.Vec3{}},
			{ID: "ball", Pos: sim.Vec3{X: x, Y: y}, Aux: vy, Trail: true},
		},
		Samples:  map[string]float64{"x": x, "y": y, "vy": vy},
		Terminal: terminal,
	}
}

func (p *Projectile) Params() map[string]float64 {
	return map[string]float64{
		"speed":   p.Speed,
		"angle":   p.AngleDeg,
		"gravity": p.Gravity,
	}
}

func (p *Projectile) SetParam(name string, value float64) error {
	switch name {
	case "speed":
		p.Speed = clamp(value, 1, 60)
	case "angle":
		p.AngleDeg = clamp(value, 5, 85)
	case "gravity":
		p.Gravity = clamp(value, 1, 30)
	default:
		return unknownParam("projectile", name)
	}
	return nil
}
