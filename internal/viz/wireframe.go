package viz

import (
	"github.com/san-kum/scilab/internal/camera"
	"github.com/san-kum/scilab/internal/scene"
	"github.com/san-kum/scilab/internal/sim"
)

// DrawWorld renders the retained scene for one simulation as a wireframe
// on the canvas, using the shared orbit camera state.
func DrawWorld(c *Canvas, simName string, w *scene.World, st *camera.State) {
	subW, subH := c.SubSize()
	p := NewProjector(st, subW, subH)
	drawGround(c, p)
	switch simName {
	case "pendulum":
		drawPendulum(c, p, w)
	case "projectile":
		drawProjectile(c, p, w)
	case "titration":
		drawTitration(c, p, w)
	}
}

func drawGround(c *Canvas, p *Projector) {
	const half, step = 8.0, 2.0
	for i := -4; i <= 4; i++ {
		v := float64(i) * step
		p.Segment(c, sim.Vec3{X: v, Z: -half}, sim.Vec3{X: v, Z: half})
		p.Segment(c, sim.Vec3{X: -half, Z: v}, sim.Vec3{X: half, Z: v})
	}
}

func drawPendulum(c *Canvas, p *Projector, w *scene.World) {
	pivot, ok1 := w.Body("pivot")
	bob, ok2 := w.Body("bob")
	if !ok1 || !ok2 {
		return
	}
	p.Segment(c, pivot.Pos, bob.Pos)
	if x, y, ok := p.Point(bob.Pos); ok {
		c.Dot(x, y)
	}
	if x, y, ok := p.Point(pivot.Pos); ok {
		c.Set(x, y)
	}
}

func drawProjectile(c *Canvas, p *Projector, w *scene.World) {
	ball, ok := w.Body("ball")
	if !ok {
		return
	}
	trail := w.Trail("ball")
	for i := 1; i < len(trail); i++ {
		p.Segment(c, trail[i-1], trail[i])
	}
	if x, y, ok := p.Point(ball.Pos); ok {
		c.Dot(x, y)
	}
}

func drawTitration(c *Canvas, p *Projector, w *scene.World) {
	burette, ok := w.Body("burette")
	if !ok {
		return
	}
	// Burette: a slim vertical column; the wire box shrinks with the
	// remaining fill fraction.
	const bw, bh = 0.3, 3.0
	top := burette.Pos.Add(sim.Vec3{Y: bh / 2})
	bottom := burette.Pos.Add(sim.Vec3{Y: -bh / 2})
	wireBox(c, p, bottom, top, bw)
	fillTop := bottom.Add(sim.Vec3{Y: bh * burette.Aux})
	wireBox(c, p, bottom, fillTop, bw*0.7)

	if flask, ok := w.Body("flask"); ok {
		// Conical flask silhouette.
		base := flask.Pos
		neck := flask.Pos.Add(sim.Vec3{Y: 1.2})
		for _, s := range []float64{-1, 1} {
			p.Segment(c, base.Add(sim.Vec3{X: s * 0.9}), neck.Add(sim.Vec3{X: s * 0.25}))
		}
		p.Segment(c, base.Add(sim.Vec3{X: -0.9}), base.Add(sim.Vec3{X: 0.9}))
		p.Segment(c, neck.Add(sim.Vec3{X: -0.25}), neck.Add(sim.Vec3{X: 0.25}))
	}
	if stream, ok := w.Body("stream"); ok && stream.Aux > 0 {
		p.Segment(c, bottom, sim.Vec3{X: 0, Y: 2.4, Z: 0})
	}
}

func wireBox(c *Canvas, p *Projector, bottom, top sim.Vec3, half float64) {
	for _, s := range []float64{-1, 1} {
		off := sim.Vec3{X: s * half}
		p.Segment(c, bottom.Add(off), top.Add(off))
	}
	p.Segment(c, bottom.Add(sim.Vec3{X: -half}), bottom.Add(sim.Vec3{X: half}))
	p.Segment(c, top.Add(sim.Vec3{X: -half}), top.Add(sim.Vec3{X: half}))
}

// CanvasDriver implements the scene render driver on a braille canvas,
// making the TUI a full lifecycle host: it attaches, resizes, and
// force-renders through the same manager the GUI uses.
type CanvasDriver struct {
	simName string
	canvas  *Canvas
}

func NewCanvasDriver(simName string) *CanvasDriver {
	return &CanvasDriver{simName: simName}
}

func (d *CanvasDriver) CreateSurface(w, h int) error {
	d.canvas = NewCanvas(w, h)
	return nil
}

func (d *CanvasDriver) ResizeSurface(w, h int) error {
	d.canvas = NewCanvas(w, h)
	return nil
}

func (d *CanvasDriver) RenderFrame(w *scene.World, st *camera.State) error {
	if d.canvas == nil {
		return nil
	}
	d.canvas.Clear()
	DrawWorld(d.canvas, d.simName, w, st)
	return nil
}

func (d *CanvasDriver) DisposeSurface() { d.canvas = nil }

// Frame returns the last rendered text frame.
func (d *CanvasDriver) Frame() string {
	if d.canvas == nil {
		return ""
	}
	return d.canvas.String()
}
