package viz

import (
	"math"

	"github.com/san-kum/scilab/internal/camera"
	"github.com/san-kum/scilab/internal/sim"
)

const (
	projFOV  = math.Pi / 4
	projNear = 0.1
)

// Projector maps world-space points through the shared orbit camera onto
// a sub-pixel canvas, so the TUI and the GUI look through the same
// camera state.
type Projector struct {
	eye     sim.Vec3
	right   sim.Vec3
	up      sim.Vec3
	forward sim.Vec3
	w, h    int
	scale   float64
}

// NewProjector derives the view basis from the orbit state. The eye
// position is the same spherical-to-Cartesian conversion the camera
// controller performs each frame.
func NewProjector(st *camera.State, subW, subH int) *Projector {
	sp := math.Sin(st.Polar)
	eye := st.LookAt.Add(sim.Vec3{
		X: st.Distance * sp * math.Sin(st.Azimuth),
		Y: st.Distance * math.Cos(st.Polar),
		Z: st.Distance * sp * math.Cos(st.Azimuth),
	})
	forward := st.LookAt.Sub(eye).Normalize()
	right := forward.Cross(sim.Vec3{Y: 1}).Normalize()
	up := right.Cross(forward)
	return &Projector{
		eye:     eye,
		right:   right,
		up:      up,
		forward: forward,
		w:       subW,
		h:       subH,
		scale:   float64(subH) / 2 / math.Tan(projFOV/2),
	}
}

// Point projects a world point. ok is false behind the near plane.
func (p *Projector) Point(wp sim.Vec3) (x, y int, ok bool) {
	d := wp.Sub(p.eye)
	vz := d.Dot(p.forward)
	if vz < projNear {
		return 0, 0, false
	}
	vx := d.Dot(p.right)
	vy := d.Dot(p.up)
	x = p.w/2 + int(vx/vz*p.scale)
	y = p.h/2 - int(vy/vz*p.scale)
	return x, y, true
}

// Segment projects and draws a world-space line when both ends are in
// front of the near plane.
func (p *Projector) Segment(c *Canvas, a, b sim.Vec3) {
	x0, y0, ok0 := p.Point(a)
	x1, y1, ok1 := p.Point(b)
	if ok0 && ok1 {
		c.Line(x0, y0, x1, y1)
	}
}
