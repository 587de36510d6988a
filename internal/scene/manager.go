package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/scilab/internal/camera"
	"github.com/san-kum/scilab/internal/record"
	"github.com/san-kum/scilab/internal/sim"
)

// Phase is the lifecycle state of a viewport's render resources.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseActive
)

const (
	// MaxLayoutRetries bounds how many times a zero-sized container is
	// retried before the viewport gives up and stays in a loading state.
	MaxLayoutRetries = 30

	// LayoutRetryInterval is the delay between layout retries. Hosts own
	// the timer but gate retries through a RetryThrottle, so the
	// MaxLayoutRetries ceiling covers a real time window rather than a
	// handful of render frames.
	LayoutRetryInterval = 100 * time.Millisecond
)

// RetryThrottle spaces Attach retries by LayoutRetryInterval. Host loops
// tick far faster than the retry cadence; only attempts that pass Due
// count against the retry ceiling.
type RetryThrottle struct {
	next time.Time
}

// Due reports whether a retry may fire at now, arming the next interval
// when it does.
func (t *RetryThrottle) Due(now time.Time) bool {
	if now.Before(t.next) {
		return false
	}
	t.next = now.Add(LayoutRetryInterval)
	return true
}

var (
	// ErrNotLaidOut means the container reported zero size; retry after
	// LayoutRetryInterval. Transient, never user-visible.
	ErrNotLaidOut = errors.New("scene: container not laid out")

	// ErrLayoutGaveUp means the retry ceiling was exhausted. The viewport
	// stays in a loading state; this is not surfaced as a crash.
	ErrLayoutGaveUp = errors.New("scene: container never laid out")

	// ErrInitFailed means the render surface could not be created. Fatal
	// to this viewport only; other viewports are unaffected.
	ErrInitFailed = errors.New("scene: could not initialize render surface")
)

// Container is a drawable region of the host UI with measurable
// dimensions. The same viewport may be handed different containers over
// its lifetime (embedded panel, fullscreen, post-resize).
type Container interface {
	Bounds() (w, h int)
}

// Driver is the render backend behind the opaque surface handle. The GUI
// implements it on a render texture; tests use a fake.
type Driver interface {
	CreateSurface(w, h int) error
	ResizeSurface(w, h int) error
	// RenderFrame draws the world once. Purely presentational: it must
	// not mutate simulation state.
	RenderFrame(world *World, cam *camera.State) error
	DisposeSurface()
}

// Manager owns one simulation viewport's resources for the whole session:
// the retained world, the recorder, the clock, the shared camera state,
// and the render surface. UI containers come and go; the manager reuses
// the resources and reattaches the surface rather than rebuilding
// anything, so an in-progress run survives every remount.
//
// All access to the shared resources goes through the manager's
// accessors. The manager is not safe for concurrent use; it expects the
// host's single cooperative loop.
type Manager struct {
	driver Driver
	model  sim.Model
	world  *World
	rec    *record.Recorder
	clock  *sim.Clock
	camSt  camera.State
	ctrl   *camera.Controller

	phase      Phase
	attached   bool
	width      int
	height     int
	retries    int
	failed     bool
	initErr    error
	gen        int
	wasRunning bool

	overlayFn func(visible bool)
}

// NewManager wires a model into a fresh set of session resources. The
// render surface itself is created lazily on the first successful Attach.
func NewManager(m sim.Model, driver Driver, initialCam camera.State) *Manager {
	minD, maxD := m.ViewBounds()
	mgr := &Manager{
		driver: driver,
		model:  m,
		world:  NewWorld(),
		rec:    record.New(m.Series()...),
		camSt:  initialCam,
	}
	mgr.ctrl = camera.NewController(&mgr.camSt, camera.Bounds{MinDist: minD, MaxDist: maxD})
	mgr.clock = sim.NewClock(m, mgr.rec)
	mgr.clock.SetApply(mgr.world.Apply)
	mgr.world.Apply(mgr.clock.LastFrame())
	return mgr
}

func (m *Manager) Phase() Phase                  { return m.phase }
func (m *Manager) Attached() bool                { return m.attached }
func (m *Manager) Generation() int               { return m.gen }
func (m *Manager) Size() (int, int)              { return m.width, m.height }
func (m *Manager) Model() sim.Model              { return m.model }
func (m *Manager) World() *World                 { return m.world }
func (m *Manager) Clock() *sim.Clock             { return m.clock }
func (m *Manager) Recorder() *record.Recorder    { return m.rec }
func (m *Manager) Camera() *camera.Controller    { return m.ctrl }
func (m *Manager) CameraState() *camera.State    { return &m.camSt }

// Attach binds the viewport to a container. On first success it creates
// the render surface; on remounts it resizes if needed, forces one
// synchronous render so the new container is never blank, and restarts a
// run that was live when the viewport detached.
//
// A zero-sized container returns ErrNotLaidOut until the bounded retry
// ceiling, then ErrLayoutGaveUp. A surface-creation failure is latched
// and reported as ErrInitFailed on this and every later Attach.
func (m *Manager) Attach(c Container) error {
	if m.failed {
		return m.initErr
	}
	w, h := c.Bounds()
	if w <= 0 || h <= 0 {
		m.retries++
		if m.retries > MaxLayoutRetries {
			return ErrLayoutGaveUp
		}
		return ErrNotLaidOut
	}
	m.retries = 0

	if m.phase == PhaseUninitialized {
		if err := m.driver.CreateSurface(w, h); err != nil {
			m.failed = true
			m.initErr = fmt.Errorf("%w: %v", ErrInitFailed, err)
			return m.initErr
		}
		m.phase = PhaseActive
	} else if w != m.width || h != m.height {
		if err := m.driver.ResizeSurface(w, h); err != nil {
			return err
		}
	}
	m.width, m.height = w, h
	m.attached = true
	m.gen++

	if err := m.driver.RenderFrame(m.world, &m.camSt); err != nil {
		return err
	}
	if m.wasRunning {
		m.wasRunning = false
		m.clock.Start()
	}
	return nil
}

// Detach unbinds the viewport and synchronously cancels its tick source,
// before any new lifecycle transition can begin. Simulation state and
// recorded series are preserved; a run in progress resumes on the next
// Attach. The generation bump invalidates any render loop still pending
// for the old container.
func (m *Manager) Detach() {
	if !m.attached {
		return
	}
	m.attached = false
	m.gen++
	m.wasRunning = m.clock.Running()
	m.clock.Stop()
}

// RunFrame executes one cooperative frame: advance the clock by elapsed
// wall time (physics and transform mutation first), drive auto-rotate,
// then render. No-op while detached, so a stale host loop cannot draw or
// tick a viewport that has moved on.
func (m *Manager) RunFrame(wallDt float64, interacting bool) error {
	if !m.attached || m.phase != PhaseActive {
		return nil
	}
	if _, err := m.clock.Advance(wallDt); err != nil {
		return err
	}
	m.ctrl.Advance(wallDt, interacting)
	return m.driver.RenderFrame(m.world, &m.camSt)
}

// Teardown releases the render surface. This is the explicit final
// disposal signal, distinct from a routine detach; ordinary navigation
// never calls it.
func (m *Manager) Teardown() {
	m.Detach()
	if m.phase == PhaseActive {
		m.driver.DisposeSurface()
		m.phase = PhaseUninitialized
		m.width, m.height = 0, 0
	}
}

// SetOverlayFunc registers the host callback for transient UI-overlay
// visibility changes (a chart panel opening over the viewport). One-way
// notification, not a control input.
func (m *Manager) SetOverlayFunc(fn func(visible bool)) { m.overlayFn = fn }

// NotifyOverlay reports an overlay visibility change to the host.
func (m *Manager) NotifyOverlay(visible bool) {
	if m.overlayFn != nil {
		m.overlayFn(visible)
	}
}

// Session is the session-scoped registry of viewport managers, passed by
// reference into every host that shows a simulation. Managers are created
// on first activation and reused for the rest of the session, which is
// what lets a simulation keep running while its UI is torn down and
// rebuilt.
type Session struct {
	viewports map[string]*Manager
}

func NewSession() *Session {
	return &Session{viewports: make(map[string]*Manager)}
}

// Acquire returns the session's manager for a simulation id, building it
// on first use.
func (s *Session) Acquire(id string, build func() (*Manager, error)) (*Manager, error) {
	if m, ok := s.viewports[id]; ok {
		return m, nil
	}
	m, err := build()
	if err != nil {
		return nil, err
	}
	s.viewports[id] = m
	return m, nil
}

// Viewport returns an existing manager, if the simulation was activated
// this session.
func (s *Session) Viewport(id string) (*Manager, bool) {
	m, ok := s.viewports[id]
	return m, ok
}
