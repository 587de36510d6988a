// Package gesture disambiguates pointer and touch input into orbit, pan,
// and zoom intents. The classifier is constructed once per session and
// driven by explicit input events; it keeps only transient per-gesture
// state, which is cleared at gesture end and on viewport detach so a new
// gesture always starts clean.
package gesture

import "math"

// Kind classifies a camera intent.
type Kind int

const (
	KindNone Kind = iota
	KindOrbit
	KindPan
	KindZoom
)

// Intent is one classified unit of camera input. DX/DY are screen-space
// deltas for orbit and pan; Delta is the signed zoom amount (positive
// means move closer).
type Intent struct {
	Kind  Kind
	DX    float64
	DY    float64
	Delta float64
}

// Button identifies the pressed pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// Touch is one active touch point.
type Touch struct {
	ID int
	X  float64
	Y  float64
}

const (
	// pinchThreshold is the fractional inter-finger distance change a
	// two-finger gesture must exceed, and exceed the centroid-movement
	// fraction by, before it classifies as zoom rather than pan. This
	// keeps ordinary two-finger noise from flickering between the two.
	pinchThreshold = 0.15

	// dragDeadZone suppresses classification until the pointer has moved
	// far enough to be a deliberate drag.
	dragDeadZone = 4.0

	pinchZoomScale = 0.08
)

// Classifier holds transient per-gesture interaction state.
type Classifier struct {
	pointerDown bool
	panButton   bool
	dragging    bool
	startX      float64
	startY      float64
	lastX       float64
	lastY       float64

	touchDown bool
	twoFinger bool
	startDist float64
	startCX   float64
	startCY   float64
	prevDist  float64
	prevCX    float64
	prevCY    float64
}

func New() *Classifier { return &Classifier{} }

// Active reports whether any gesture is in progress. Hosts use it to
// suspend the auto-rotate driver mid-interaction.
func (c *Classifier) Active() bool {
	return c.pointerDown || c.touchDown
}

// PointerDown begins a pointer gesture. Middle button, or primary with a
// modifier held, classifies the drag as pan; plain primary as orbit.
func (c *Classifier) PointerDown(x, y float64, btn Button, modifier bool) {
	c.pointerDown = true
	c.dragging = false
	c.panButton = btn == ButtonMiddle || (btn == ButtonPrimary && modifier)
	c.startX, c.startY = x, y
	c.lastX, c.lastY = x, y
}

// PointerMove classifies pointer motion while a button is held. Motion
// inside the dead zone produces no intent.
func (c *Classifier) PointerMove(x, y float64) (Intent, bool) {
	if !c.pointerDown {
		return Intent{}, false
	}
	if !c.dragging {
		dx, dy := x-c.startX, y-c.startY
		if dx*dx+dy*dy < dragDeadZone*dragDeadZone {
			return Intent{}, false
		}
		c.dragging = true
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	kind := KindOrbit
	if c.panButton {
		kind = KindPan
	}
	return Intent{Kind: kind, DX: dx, DY: dy}, true
}

// PointerUp ends the pointer gesture.
func (c *Classifier) PointerUp() {
	c.pointerDown = false
	c.dragging = false
	c.panButton = false
}

// Wheel classifies scroll input as zoom.
func (c *Classifier) Wheel(delta float64) Intent {
	return Intent{Kind: KindZoom, Delta: delta}
}

// Touches classifies the current touch set. One finger drags orbit; two
// fingers resolve to zoom or pan by comparing the fractional change in
// inter-finger distance against the centroid-movement fraction since
// gesture start.
func (c *Classifier) Touches(pts []Touch) (Intent, bool) {
	switch len(pts) {
	case 0:
		c.CancelGesture()
		return Intent{}, false
	case 1:
		return c.oneFinger(pts[0])
	default:
		return c.twoFingers(pts[0], pts[1])
	}
}

func (c *Classifier) oneFinger(p Touch) (Intent, bool) {
	// A 2->1 finger transition restarts the gesture rather than emitting
	// a spurious jump from the lifted finger.
	if !c.touchDown || c.twoFinger {
		c.touchDown = true
		c.twoFinger = false
		c.lastX, c.lastY = p.X, p.Y
		return Intent{}, false
	}
	dx, dy := p.X-c.lastX, p.Y-c.lastY
	c.lastX, c.lastY = p.X, p.Y
	return Intent{Kind: KindOrbit, DX: dx, DY: dy}, true
}

func (c *Classifier) twoFingers(a, b Touch) (Intent, bool) {
	dist := hypot(b.X-a.X, b.Y-a.Y)
	cx, cy := (a.X+b.X)/2, (a.Y+b.Y)/2
	if !c.twoFinger {
		c.touchDown = true
		c.twoFinger = true
		c.startDist, c.prevDist = dist, dist
		c.startCX, c.startCY = cx, cy
		c.prevCX, c.prevCY = cx, cy
		return Intent{}, false
	}
	if c.startDist <= 0 {
		return Intent{}, false
	}
	distFrac := abs(dist-c.startDist) / c.startDist
	centFrac := hypot(cx-c.startCX, cy-c.startCY) / c.startDist

	var in Intent
	if distFrac > pinchThreshold && distFrac > centFrac {
		in = Intent{Kind: KindZoom, Delta: (dist - c.prevDist) * pinchZoomScale}
	} else {
		in = Intent{Kind: KindPan, DX: cx - c.prevCX, DY: cy - c.prevCY}
	}
	c.prevDist = dist
	c.prevCX, c.prevCY = cx, cy
	if in.DX == 0 && in.DY == 0 && in.Delta == 0 {
		return Intent{}, false
	}
	return in, true
}

// CancelGesture drops all transient interaction state. Called at gesture
// end and when the owning viewport detaches.
func (c *Classifier) CancelGesture() {
	*c = Classifier{}
}

func hypot(x, y float64) float64 {
	return math.Sqrt(x*x + y*y)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
