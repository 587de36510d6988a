package scene

import (
	"errors"
	"testing"
	"time"

	"github.com/san-kum/scilab/internal/camera"
	"github.com/san-kum/scilab/internal/model"
)

type fakeDriver struct {
	creates  int
	resizes  int
	renders  int
	disposes int
	failNext error
	w, h     int
}

func (d *fakeDriver) CreateSurface(w, h int) error {
	if d.failNext != nil {
		return d.failNext
	}
	d.creates++
	d.w, d.h = w, h
	return nil
}

func (d *fakeDriver) ResizeSurface(w, h int) error {
	d.resizes++
	d.w, d.h = w, h
	return nil
}

func (d *fakeDriver) RenderFrame(world *World, cam *camera.State) error {
	d.renders++
	return nil
}

func (d *fakeDriver) DisposeSurface() { d.disposes++ }

type fakeContainer struct{ w, h int }

func (c fakeContainer) Bounds() (int, int) { return c.w, c.h }

func newTestManager(t *testing.T) (*Manager, *fakeDriver) {
	t.Helper()
	m, err := model.New("pendulum")
	if err != nil {
		t.Fatal(err)
	}
	d := &fakeDriver{}
	return NewManager(m, d, camera.State{Azimuth: 0.6, Polar: 1.0, Distance: 6}), d
}

func TestManagerCreatesSurfaceOnce(t *testing.T) {
	mgr, d := newTestManager(t)

	if err := mgr.Attach(fakeContainer{w: 800, h: 600}); err != nil {
		t.Fatal(err)
	}
	if d.creates != 1 {
		t.Fatalf("expected one surface creation, got %d", d.creates)
	}
	if d.renders != 1 {
		t.Errorf("attach should force one synchronous render, got %d", d.renders)
	}

	mgr.Detach()
	if err := mgr.Attach(fakeContainer{w: 800, h: 600}); err != nil {
		t.Fatal(err)
	}
	if d.creates != 1 {
		t.Errorf("remount must reattach, not recreate: %d creations", d.creates)
	}
	if d.resizes != 0 {
		t.Errorf("same-size remount should not resize, got %d", d.resizes)
	}
	if d.renders != 2 {
		t.Errorf("each attach forces a render, got %d", d.renders)
	}
}

func TestManagerResizesOnNewBounds(t *testing.T) {
	mgr, d := newTestManager(t)
	mgr.Attach(fakeContainer{w: 800, h: 600})
	mgr.Detach()
	mgr.Attach(fakeContainer{w: 1280, h: 720})

	if d.creates != 1 || d.resizes != 1 {
		t.Errorf("expected 1 create + 1 resize, got %d/%d", d.creates, d.resizes)
	}
	if w, h := mgr.Size(); w != 1280 || h != 720 {
		t.Errorf("manager should track new size, got %dx%d", w, h)
	}
}

func TestManagerRemountContinuity(t *testing.T) {
	mgr, _ := newTestManager(t)
	mgr.Attach(fakeContainer{w: 800, h: 600})
	mgr.Clock().Start()
	mgr.RunFrame(0.5, false)

	before := mgr.Clock().Elapsed()
	if before <= 0 {
		t.Fatal("clock should have advanced")
	}

	// Embedded -> fullscreen remount mid-run.
	mgr.Detach()
	if mgr.Clock().Running() {
		t.Error("detach should synchronously cancel the tick source")
	}
	mgr.Attach(fakeContainer{w: 1280, h: 720})
	if !mgr.Clock().Running() {
		t.Error("a run live at detach should resume on reattach")
	}

	mgr.RunFrame(0.5, false)
	after := mgr.Clock().Elapsed()
	if after <= before {
		t.Errorf("elapsed must be continuous across remount: %f -> %f", before, after)
	}
}

func TestManagerPausedRunStaysPausedAcrossRemount(t *testing.T) {
	mgr, _ := newTestManager(t)
	mgr.Attach(fakeContainer{w: 800, h: 600})
	mgr.Clock().Start()
	mgr.RunFrame(0.2, false)
	mgr.Clock().Stop()

	mgr.Detach()
	mgr.Attach(fakeContainer{w: 800, h: 600})
	if mgr.Clock().Running() {
		t.Error("a run paused before detach must not auto-resume")
	}
}

func TestManagerZeroSizeBoundedRetry(t *testing.T) {
	mgr, d := newTestManager(t)

	for i := 0; i < MaxLayoutRetries; i++ {
		err := mgr.Attach(fakeContainer{})
		if !errors.Is(err, ErrNotLaidOut) {
			t.Fatalf("attempt %d: expected ErrNotLaidOut, got %v", i, err)
		}
	}
	if err := mgr.Attach(fakeContainer{}); !errors.Is(err, ErrLayoutGaveUp) {
		t.Fatalf("expected ErrLayoutGaveUp after %d retries, got %v", MaxLayoutRetries, err)
	}
	if d.creates != 0 {
		t.Errorf("no surface should exist after layout failure, got %d creations", d.creates)
	}

	// A later successful layout recovers.
	if err := mgr.Attach(fakeContainer{w: 640, h: 480}); err != nil {
		t.Fatalf("valid bounds should recover: %v", err)
	}
}

func TestManagerInitFailureLatched(t *testing.T) {
	mgr, d := newTestManager(t)
	d.failNext = errors.New("no gl context")

	err := mgr.Attach(fakeContainer{w: 800, h: 600})
	if !errors.Is(err, ErrInitFailed) {
		t.Fatalf("expected ErrInitFailed, got %v", err)
	}

	d.failNext = nil
	err = mgr.Attach(fakeContainer{w: 800, h: 600})
	if !errors.Is(err, ErrInitFailed) {
		t.Errorf("init failure must latch, got %v", err)
	}
	if d.creates != 0 {
		t.Errorf("latched failure must not retry creation, got %d", d.creates)
	}
}

func TestManagerRunFrameNoOpWhileDetached(t *testing.T) {
	mgr, d := newTestManager(t)
	mgr.Attach(fakeContainer{w: 800, h: 600})
	mgr.Clock().Start()
	mgr.Detach()

	renders := d.renders
	gen := mgr.Generation()
	elapsed := mgr.Clock().Elapsed()
	if err := mgr.RunFrame(1.0, false); err != nil {
		t.Fatal(err)
	}
	if d.renders != renders {
		t.Error("stale host loop must not render a detached viewport")
	}
	if mgr.Clock().Elapsed() != elapsed {
		t.Error("stale host loop must not tick a detached viewport")
	}
	if mgr.Generation() != gen {
		t.Error("run frame must not bump the generation")
	}
}

func TestManagerTeardownDisposes(t *testing.T) {
	mgr, d := newTestManager(t)
	mgr.Attach(fakeContainer{w: 800, h: 600})
	mgr.Detach()
	mgr.Detach() // routine detach never disposes

	if d.disposes != 0 {
		t.Fatalf("detach must not dispose the surface, got %d", d.disposes)
	}

	mgr.Teardown()
	if d.disposes != 1 {
		t.Errorf("teardown should dispose exactly once, got %d", d.disposes)
	}
	if mgr.Phase() != PhaseUninitialized {
		t.Error("teardown should return the viewport to uninitialized")
	}

	// A fresh attach after teardown builds a new surface.
	if err := mgr.Attach(fakeContainer{w: 800, h: 600}); err != nil {
		t.Fatal(err)
	}
	if d.creates != 2 {
		t.Errorf("post-teardown attach should recreate, got %d creations", d.creates)
	}
}

func TestManagerOverlayNotification(t *testing.T) {
	mgr, _ := newTestManager(t)

	var got []bool
	mgr.SetOverlayFunc(func(visible bool) { got = append(got, visible) })
	mgr.NotifyOverlay(true)
	mgr.NotifyOverlay(false)

	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("unexpected overlay notifications %v", got)
	}
}

func TestSessionReusesViewports(t *testing.T) {
	s := NewSession()
	builds := 0
	build := func() (*Manager, error) {
		builds++
		m, err := model.New("projectile")
		if err != nil {
			return nil, err
		}
		return NewManager(m, &fakeDriver{}, camera.State{Distance: 20, Polar: 1}), nil
	}

	m1, err := s.Acquire("projectile", build)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := s.Acquire("projectile", build)
	if err != nil {
		t.Fatal(err)
	}
	if m1 != m2 {
		t.Error("session should reuse the viewport manager per simulation id")
	}
	if builds != 1 {
		t.Errorf("expected one build, got %d", builds)
	}

	if _, ok := s.Viewport("titration"); ok {
		t.Error("unactivated simulation should have no viewport")
	}
}

func TestWorldTrailAccumulation(t *testing.T) {
	m, err := model.New("projectile")
	if err != nil {
		t.Fatal(err)
	}
	w := NewWorld()

	tt := 0.0
	for i := 0; i < 50; i++ {
		f := m.Step(tt, 0.01)
		tt = f.Time
		w.Apply(f)
	}
	trail := w.Trail("ball")
	if len(trail) < 2 {
		t.Fatalf("expected accumulated trail, got %d points", len(trail))
	}

	w.ClearTrails()
	if len(w.Trail("ball")) != 0 {
		t.Error("clear should drop trail points")
	}
	if _, ok := w.Body("ball"); !ok {
		t.Error("clearing trails must not remove bodies")
	}
}

func TestRetryThrottleSpacing(t *testing.T) {
	var rt RetryThrottle
	base := time.Now()

	if !rt.Due(base) {
		t.Fatal("first retry should fire immediately")
	}
	if rt.Due(base.Add(LayoutRetryInterval / 2)) {
		t.Error("retry inside the interval should be suppressed")
	}
	if !rt.Due(base.Add(LayoutRetryInterval)) {
		t.Error("retry at the interval boundary should fire")
	}
	if rt.Due(base.Add(LayoutRetryInterval + time.Millisecond)) {
		t.Error("firing should re-arm the interval")
	}

	// A host ticking every frame gets at most one attempt per interval,
	// so the retry ceiling spans MaxLayoutRetries intervals of real time.
	var rt2 RetryThrottle
	fired := 0
	frame := 16 * time.Millisecond
	for tick := time.Duration(0); tick < LayoutRetryInterval*10; tick += frame {
		if rt2.Due(base.Add(tick)) {
			fired++
		}
	}
	if fired > 10 {
		t.Errorf("expected at most one firing per interval, got %d", fired)
	}
}
