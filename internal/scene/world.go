package scene

import "github.com/san-kum/scilab/internal/sim"

// maxTrailPoints caps accumulated trail polylines.
const maxTrailPoints = 2000

// Body is a drawable object in the retained scene graph. Bodies are
// registered on first apply and mutated in place every tick after that;
// they are never recreated per tick.
type Body struct {
	ID  string
	Pos sim.Vec3
	Aux float64
}

// World is the retained body registry plus presentation-only trails.
type World struct {
	bodies map[string]*Body
	order  []string
	trails map[string][]sim.Vec3
}

func NewWorld() *World {
	return &World{
		bodies: make(map[string]*Body),
		trails: make(map[string][]sim.Vec3),
	}
}

// Apply mutates the retained bodies to match a physics frame, appending
// to the trail of any trail-marked body.
func (w *World) Apply(f sim.Frame) {
	for _, fb := range f.Bodies {
		b, ok := w.bodies[fb.ID]
		if !ok {
			b = &Body{ID: fb.ID}
			w.bodies[fb.ID] = b
			w.order = append(w.order, fb.ID)
		}
		b.Pos = fb.Pos
		b.Aux = fb.Aux
		if fb.Trail {
			w.appendTrail(fb.ID, fb.Pos)
		}
	}
}

func (w *World) appendTrail(id string, p sim.Vec3) {
	tr := w.trails[id]
	// Paused repaints re-apply the same frame; don't duplicate the point.
	if n := len(tr); n > 0 && tr[n-1] == p {
		return
	}
	tr = append(tr, p)
	if len(tr) > maxTrailPoints {
		tr = tr[len(tr)-maxTrailPoints:]
	}
	w.trails[id] = tr
}

// Body looks up a retained body by id.
func (w *World) Body(id string) (*Body, bool) {
	b, ok := w.bodies[id]
	return b, ok
}

// Bodies returns the retained bodies in registration order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.bodies[id])
	}
	return out
}

// Trail returns the visited-position polyline of a body. Read-only.
func (w *World) Trail(id string) []sim.Vec3 { return w.trails[id] }

// ClearTrails drops accumulated polylines (on reset, not on remount).
func (w *World) ClearTrails() {
	for id := range w.trails {
		delete(w.trails, id)
	}
}
