package camera

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/scilab/internal/gesture"
)

func newTestController() (*Controller, *State) {
	st := &State{Azimuth: 0.6, Polar: 1.0, Distance: 6}
	return NewController(st, Bounds{MinDist: 2, MaxDist: 15}), st
}

func checkClamped(t *testing.T, st *State, b Bounds) {
	t.Helper()
	if st.Polar < MinPolar || st.Polar > MaxPolar {
		t.Errorf("polar %f escaped [%f, %f]", st.Polar, MinPolar, MaxPolar)
	}
	if st.Distance < b.MinDist || st.Distance > b.MaxDist {
		t.Errorf("distance %f escaped [%f, %f]", st.Distance, b.MinDist, b.MaxDist)
	}
}

func TestControllerClampsAfterGestureSequence(t *testing.T) {
	ctrl, st := newTestController()
	b := Bounds{MinDist: 2, MaxDist: 15}

	intents := []gesture.Intent{
		{Kind: gesture.KindOrbit, DX: 5000, DY: 5000},
		{Kind: gesture.KindZoom, Delta: 1000},
		{Kind: gesture.KindOrbit, DX: -9000, DY: -9000},
		{Kind: gesture.KindZoom, Delta: -1000},
		{Kind: gesture.KindPan, DX: 300, DY: -300},
		{Kind: gesture.KindOrbit, DX: 17, DY: 123456},
		{Kind: gesture.KindZoom, Delta: 3.7},
	}
	for _, in := range intents {
		ctrl.Handle(in)
		checkClamped(t, st, b)
	}
}

func TestControllerZoomBounds(t *testing.T) {
	ctrl, st := newTestController()

	ctrl.Zoom(1e6)
	if st.Distance != 2 {
		t.Errorf("expected distance clamped to min 2, got %f", st.Distance)
	}
	ctrl.Zoom(-1e6)
	if st.Distance != 15 {
		t.Errorf("expected distance clamped to max 15, got %f", st.Distance)
	}
}

func TestControllerPolarPole(t *testing.T) {
	ctrl, st := newTestController()

	ctrl.Orbit(0, 1e6)
	if st.Polar != MinPolar {
		t.Errorf("expected polar pinned at zenith clamp %f, got %f", MinPolar, st.Polar)
	}
	ctrl.Orbit(0, -1e6)
	if st.Polar != MaxPolar {
		t.Errorf("expected polar pinned at horizon clamp %f, got %f", MaxPolar, st.Polar)
	}
}

func TestGestureDisablesAutoRotate(t *testing.T) {
	ctrl, st := newTestController()
	ctrl.SetAutoRotate(true)

	before := st.Azimuth
	ctrl.Advance(1.0, false)
	if st.Azimuth == before {
		t.Fatal("auto-rotate should advance azimuth")
	}

	ctrl.Handle(gesture.Intent{Kind: gesture.KindOrbit, DX: 1})
	if ctrl.AutoRotate() {
		t.Error("manual gesture should disable auto-rotate")
	}
	after := st.Azimuth
	ctrl.Advance(1.0, false)
	if st.Azimuth != after {
		t.Error("azimuth should hold once auto-rotate is off")
	}
}

func TestAutoRotatePausesDuringInteraction(t *testing.T) {
	ctrl, st := newTestController()
	ctrl.SetAutoRotate(true)

	before := st.Azimuth
	ctrl.Advance(1.0, true)
	if st.Azimuth != before {
		t.Error("auto-rotate must pause while a gesture is active")
	}
}

func TestSeedIgnoredAfterUserControl(t *testing.T) {
	ctrl, st := newTestController()
	ctrl.Handle(gesture.Intent{Kind: gesture.KindZoom, Delta: 1})

	snap := *st
	var rec Record
	rec.CameraAngle.Theta = 2.0
	rec.CameraAngle.Phi = 0.5
	rec.CameraDistance = 10

	ctrl.SeedFromRecord(rec)
	if *st != snap {
		t.Error("saved record must not override a user-controlled view")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	ctrl, st := newTestController()
	ctrl.Handle(gesture.Intent{Kind: gesture.KindOrbit, DX: 40, DY: -25})
	ctrl.Handle(gesture.Intent{Kind: gesture.KindPan, DX: 12, DY: 7})

	rec := ctrl.ToRecord("pendulum")
	if rec.SimulationID != "pendulum" {
		t.Errorf("record sim id %q", rec.SimulationID)
	}

	ctrl2, st2 := newTestController()
	ctrl2.SeedFromRecord(rec)
	if math.Abs(st2.Azimuth-st.Azimuth) > 1e-12 ||
		math.Abs(st2.Polar-st.Polar) > 1e-12 ||
		math.Abs(st2.Distance-st.Distance) > 1e-12 {
		t.Errorf("seeded state %+v != saved state %+v", st2, st)
	}
	if st2.LookAt != st.LookAt {
		t.Errorf("seeded look-at %+v != saved %+v", st2.LookAt, st.LookAt)
	}
}

func TestRecordWireFormat(t *testing.T) {
	ctrl, _ := newTestController()
	data, err := json.Marshal(ctrl.ToRecord("titration"))
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"simulationId"`, `"cameraAngle"`, `"theta"`, `"phi"`, `"cameraDistance"`, `"panOffset"`, `"updatedAt"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("record json missing %s: %s", field, data)
		}
	}
}

func TestSeedClampsOutOfRangeRecord(t *testing.T) {
	ctrl, st := newTestController()

	var rec Record
	rec.CameraAngle.Phi = 3.0 // past the horizon clamp
	rec.CameraDistance = 500
	ctrl.SeedFromRecord(rec)

	checkClamped(t, st, Bounds{MinDist: 2, MaxDist: 15})
}

func TestPositionSphericalConversion(t *testing.T) {
	st := &State{Azimuth: 0, Polar: math.Pi / 2, Distance: 5}
	ctrl := NewController(st, Bounds{MinDist: 1, MaxDist: 10})

	pos := ctrl.Position()
	// Polar at the horizon clamp, azimuth 0: straight down +Z.
	if math.Abs(pos.X) > 1e-9 || math.Abs(pos.Y) > 1e-9 || math.Abs(pos.Z-5) > 1e-9 {
		t.Errorf("unexpected camera position %+v", pos)
	}
}
