package sim

import "math"

// Vec3 is a position or direction in simulation world space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}

// Body is the instantaneous world-space placement of one drawable object.
// Aux carries a model-specific scalar (liquid fill fraction, pH, angle)
// for the renderer. Bodies with Trail set accumulate a visited-position
// polyline in the scene; the trail is presentation state, not physics state.
type Body struct {
	ID    string
	Pos   Vec3
	Aux   float64
	Trail bool
}

// Frame is the output of one physics evaluation: the simulated time it
// corresponds to, body placements, named series samples, and whether the
// model reached a terminal condition (landed, burette empty,
// non-oscillatory regime). Terminal frames are valid states, not errors.
type Frame struct {
	Time     float64
	Bodies   []Body
	Samples  map[string]float64
	Terminal bool
}

// Model is one simulation variant. Step returns the state at time t+dt.
// Closed-form models ignore dt beyond adding it to t and are exact for any
// t; stateful models (titration dispensing) integrate by dt. Step must
// never panic for expected physical edge conditions: those are reported
// via Frame.Terminal.
//
// SetParam clamps values into the model's valid range and only errors for
// unknown names; changing a parameter invalidates any in-progress run, so
// callers are expected to reset the clock afterwards.
type Model interface {
	Name() string
	Step(t, dt float64) Frame
	Reset()
	Series() []string
	Params() map[string]float64
	SetParam(name string, value float64) error
	// ViewBounds reports the camera distance range that keeps this
	// simulation's geometry framed without clipping.
	ViewBounds() (minDist, maxDist float64)
}
