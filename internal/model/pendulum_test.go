package model

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/scilab/internal/sim"
)

func TestPendulumHalfPeriodSignFlip(t *testing.T) {
	p := NewPendulum() // L=1.0, theta0=20deg, g=9.81, c=0.2

	wd := math.Sqrt(p.Gravity/p.Length - p.Damping*p.Damping)
	tHalf := math.Pi / wd

	theta, _ := p.Angle(tHalf)
	want := -p.Theta0 * math.Exp(-p.Damping*tHalf)

	if theta >= 0 {
		t.Errorf("expected sign flip at half period, got theta=%f", theta)
	}
	if math.Abs(theta-want) > 1e-9 {
		t.Errorf("expected theta %f at half period, got %f", want, theta)
	}
}

func TestPendulumAmplitudeBound(t *testing.T) {
	p := NewPendulum()
	bound := math.Abs(p.Theta0)

	for tt := 0.0; tt <= 30.0; tt += 0.01 {
		theta, _ := p.Angle(tt)
		if math.Abs(theta) > bound+1e-12 {
			t.Fatalf("amplitude bound violated at t=%f: |%f| > %f", tt, theta, bound)
		}
	}
}

func TestPendulumOmegaIsDerivative(t *testing.T) {
	p := NewPendulum()
	const h = 1e-6

	for _, tt := range []float64{0.1, 0.5, 1.0, 2.5, 7.0} {
		_, omega := p.Angle(tt)
		before, _ := p.Angle(tt - h)
		after, _ := p.Angle(tt + h)
		numeric := (after - before) / (2 * h)
		if math.Abs(omega-numeric) > 1e-5 {
			t.Errorf("t=%f: analytic omega %f disagrees with numeric %f", tt, omega, numeric)
		}
	}
}

func TestPendulumOverdampedTerminal(t *testing.T) {
	p := NewPendulum()
	p.Length = 0.2
	p.Gravity = 1.0
	p.Damping = 4.0

	if p.Underdamped() {
		t.Fatal("parameters should be outside the underdamped regime")
	}

	f := p.Step(0, 0.01)
	if !f.Terminal {
		t.Error("overdamped step should report terminal")
	}
	if f.Samples["theta"] != p.Theta0 {
		t.Errorf("overdamped pendulum should hold release angle %f, got %f", p.Theta0, f.Samples["theta"])
	}
	if f.Time != 0 {
		t.Errorf("overdamped frame should stay at t=0, got %f", f.Time)
	}
}

func TestPendulumBobGeometry(t *testing.T) {
	p := NewPendulum()
	f := p.Step(0, 0)

	var pivot, bob sim.Body
	for _, b := range f.Bodies {
		switch b.ID {
		case "pivot":
			pivot = b
		case "bob":
			bob = b
		}
	}
	dist := bob.Pos.Sub(pivot.Pos).Length()
	if math.Abs(dist-p.Length) > 1e-9 {
		t.Errorf("bob should hang at length %f, got %f", p.Length, dist)
	}
}

func TestPendulumParamClamp(t *testing.T) {
	p := NewPendulum()
	if err := p.SetParam("length", 99); err != nil {
		t.Fatal(err)
	}
	if p.Length != 5 {
		t.Errorf("length should clamp to 5, got %f", p.Length)
	}
	if err := p.SetParam("damping", -1); err != nil {
		t.Fatal(err)
	}
	if p.Damping != 0 {
		t.Errorf("damping should clamp to 0, got %f", p.Damping)
	}

	err := p.SetParam("bogus", 1)
	if !errors.Is(err, sim.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
