// Package camera maintains a spherical-coordinate orbit camera: a
// distance and two angles around a look-at point. The world position is
// recomputed from that state unconditionally every frame, so external
// changes (a restored saved view, a parameter reset) take effect without
// a separate code path.
package camera

import (
	"math"
	"time"

	"github.com/san-kum/scilab/internal/gesture"
	"github.com/san-kum/scilab/internal/sim"
)

// Polar is measured from the +Y zenith. The clamp keeps the camera above
// the horizon and away from the gimbal-flip pole.
const (
	MinPolar = 0.1
	MaxPolar = math.Pi / 2
)

const (
	orbitSensitivity = 0.008 // rad per px
	panSensitivity   = 0.0015
	zoomSensitivity  = 0.25
	autoRotateRate   = 0.25 // rad/s
)

// Bounds is the per-simulation distance range preventing near-plane
// clipping and vanishing-small framing.
type Bounds struct {
	MinDist float64
	MaxDist float64
}

// State is the orbit parameterization. It is shared by reference between
// the controller and the scene lifecycle manager so it survives viewport
// remounts.
type State struct {
	Azimuth  float64
	Polar    float64
	Distance float64
	LookAt   sim.Vec3
}

// Record is the saved camera position interchange format. Storage and
// access control live elsewhere; the controller only seeds from and emits
// these records.
type Record struct {
	SimulationID string `json:"simulationId"`
	CameraAngle  struct {
		Theta float64 `json:"theta"`
		Phi   float64 `json:"phi"`
	} `json:"cameraAngle"`
	CameraDistance float64 `json:"cameraDistance"`
	PanOffset      struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	} `json:"panOffset"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Controller applies gesture intents and the auto-rotate driver to a
// shared State, clamping every mutation.
type Controller struct {
	st     *State
	bounds Bounds

	autoRotate     bool
	userControlled bool
}

func NewController(st *State, b Bounds) *Controller {
	c := &Controller{st: st, bounds: b}
	c.clampState()
	return c
}

func (c *Controller) State() *State { return c.st }

// UserControlled reports whether any manual gesture has been applied this
// session. Once set, saved-position reloads no longer override the view.
func (c *Controller) UserControlled() bool { return c.userControlled }

// SetAutoRotate explicitly enables or disables the idle azimuth driver.
// Enabling it clears nothing else; a manual gesture will disable it again.
func (c *Controller) SetAutoRotate(on bool) { c.autoRotate = on }
func (c *Controller) AutoRotate() bool      { return c.autoRotate }

// Handle applies one classified gesture intent. Any manual intent marks
// the user as in control and switches auto-rotate off for the session.
func (c *Controller) Handle(in gesture.Intent) {
	if in.Kind == gesture.KindNone {
		return
	}
	c.userControlled = true
	c.autoRotate = false
	switch in.Kind {
	case gesture.KindOrbit:
		c.Orbit(in.DX, in.DY)
	case gesture.KindPan:
		c.Pan(in.DX, in.DY)
	case gesture.KindZoom:
		c.Zoom(in.Delta)
	}
}

// Orbit adjusts azimuth/polar proportionally to a screen-space delta.
func (c *Controller) Orbit(dx, dy float64) {
	c.st.Azimuth -= dx * orbitSensitivity
	c.st.Polar = clamp(c.st.Polar-dy*orbitSensitivity, MinPolar, MaxPolar)
}

// Pan translates the look-at offset along the camera's current right and
// up vectors, scaled by distance so pan speed is distance-invariant on
// screen.
func (c *Controller) Pan(dx, dy float64) {
	right, up := c.basis()
	k := panSensitivity * c.st.Distance
	c.st.LookAt = c.st.LookAt.
		Add(right.Scale(-dx * k)).
		Add(up.Scale(dy * k))
}

// Zoom adds a signed delta to distance, clamped to the simulation bounds.
func (c *Controller) Zoom(delta float64) {
	c.st.Distance = clamp(c.st.Distance-delta*zoomSensitivity, c.bounds.MinDist, c.bounds.MaxDist)
}

// Advance drives auto-rotate while no interaction is active.
func (c *Controller) Advance(dt float64, interacting bool) {
	if c.autoRotate && !interacting {
		c.st.Azimuth += autoRotateRate * dt
	}
}

// Position converts the orbit state to the camera's world position via
// spherical-to-Cartesian conversion. Called every frame.
func (c *Controller) Position() sim.Vec3 {
	sp := math.Sin(c.st.Polar)
	offset := sim.Vec3{
		X: c.st.Distance * sp * math.Sin(c.st.Azimuth),
		Y: c.st.Distance * math.Cos(c.st.Polar),
		Z: c.st.Distance * sp * math.Cos(c.st.Azimuth),
	}
	return c.st.LookAt.Add(offset)
}

// basis returns the camera's current right and up vectors.
func (c *Controller) basis() (right, up sim.Vec3) {
	forward := c.st.LookAt.Sub(c.Position()).Normalize()
	right = forward.Cross(sim.Vec3{Y: 1}).Normalize()
	up = right.Cross(forward)
	return right, up
}

// SeedFromRecord restores a saved view. Ignored once the user has taken
// manual control: their chosen view wins over late-arriving defaults.
func (c *Controller) SeedFromRecord(r Record) {
	if c.userControlled {
		return
	}
	c.st.Azimuth = r.CameraAngle.Theta
	c.st.Polar = r.CameraAngle.Phi
	c.st.Distance = r.CameraDistance
	c.st.LookAt = sim.Vec3{X: r.PanOffset.X, Y: r.PanOffset.Y, Z: r.PanOffset.Z}
	c.clampState()
}

// ToRecord snapshots the current view for persistence.
func (c *Controller) ToRecord(simID string) Record {
	var r Record
	r.SimulationID = simID
	r.CameraAngle.Theta = c.st.Azimuth
	r.CameraAngle.Phi = c.st.Polar
	r.CameraDistance = c.st.Distance
	r.PanOffset.X = c.st.LookAt.X
	r.PanOffset.Y = c.st.LookAt.Y
	r.PanOffset.Z = c.st.LookAt.Z
	r.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return r
}

func (c *Controller) clampState() {
	c.st.Polar = clamp(c.st.Polar, MinPolar, MaxPolar)
	c.st.Distance = clamp(c.st.Distance, c.bounds.MinDist, c.bounds.MaxDist)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
