package gui

import (
	"errors"
	"fmt"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/scilab/internal/audio"
	"github.com/san-kum/scilab/internal/camera"
	"github.com/san-kum/scilab/internal/gesture"
	"github.com/san-kum/scilab/internal/model"
	"github.com/san-kum/scilab/internal/scene"
	"github.com/san-kum/scilab/internal/sim"
	"github.com/san-kum/scilab/internal/store"
)

var errSurface = errors.New("gui: render texture creation failed")

const (
	winW     = 1280
	winH     = 720
	sidebarW = 320
)

type uiState int

const (
	stateMenu uiState = iota
	stateConfig
	stateSim
)

type rectContainer struct{ w, h int }

func (r rectContainer) Bounds() (int, int) { return r.w, r.h }

// App is the windowed host. Simulation state lives in the session's
// viewport managers, not here: navigating to the menu and back detaches
// and reattaches a viewport without touching its run.
type App struct {
	session *scene.Session
	store   *store.Store
	storeOK bool
	audio   *audio.Engine
	audioOn bool
	cls     *gesture.Classifier
	font    rl.Font

	state    uiState
	models   []string
	selected int

	simName string
	mgr     *scene.Manager
	driver  *TextureDriver
	drivers map[string]*TextureDriver

	params    map[string]float64
	paramKeys []string
	paramSel  int

	fullscreen bool
	showChart  bool
	loading    bool
	retry      scene.RetryThrottle
	quit       bool
}

func initWindow() {
	rl.InitWindow(winW, winH, "scilab")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(startSim string, interactive bool, dataDir string) *App {
	st := store.New(dataDir)
	// An unusable data dir degrades saving, never the simulations.
	storeOK := st.Init() == nil

	eng := audio.NewEngine()
	audioOn := eng.Start() == nil

	app := &App{
		session: scene.NewSession(),
		store:   st,
		storeOK: storeOK,
		audio:   eng,
		audioOn: audioOn,
		cls:     gesture.New(),
		font:    loadFont(),
		state:   stateMenu,
		models:  model.Names(),
		drivers: make(map[string]*TextureDriver),
	}
	if !interactive {
		if err := app.activate(startSim); err == nil {
			app.state = stateSim
			app.mgr.Clock().Start()
		}
	}
	return app
}

// RunInteractive opens the window at the simulation menu and blocks
// until quit.
func RunInteractive(dataDir string) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp("", true, dataDir)
	app.RunLoop()
}

// Run opens the window straight into one simulation.
func Run(simName, dataDir string) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(simName, false, dataDir)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
	a.shutdown()
}

// shutdown is the explicit end-of-session teardown: every viewport's
// surface is disposed here and nowhere else.
func (a *App) shutdown() {
	for _, name := range a.models {
		if mgr, ok := a.session.Viewport(name); ok {
			mgr.Teardown()
		}
	}
	a.audio.Stop()
}

func lookAtFor(simName string) sim.Vec3 {
	switch simName {
	case "pendulum":
		return sim.Vec3{Y: 1.5}
	case "projectile":
		return sim.Vec3{X: 10, Y: 4}
	case "titration":
		return sim.Vec3{Y: 3}
	}
	return sim.Vec3{}
}

// activate acquires (or builds) the session viewport for a simulation
// and attaches it to the current container.
func (a *App) activate(name string) error {
	mgr, err := a.session.Acquire(name, func() (*scene.Manager, error) {
		m, err := model.New(name)
		if err != nil {
			return nil, err
		}
		minD, maxD := m.ViewBounds()
		st := camera.State{
			Azimuth:  0.6,
			Polar:    1.1,
			Distance: minD + (maxD-minD)*0.35,
			LookAt:   lookAtFor(name),
		}
		driver := NewTextureDriver(name)
		a.drivers[name] = driver
		mgr := scene.NewManager(m, driver, st)
		mgr.Camera().SetAutoRotate(true)
		if rec, ok, err := a.store.LoadCamera(name); err == nil && ok {
			mgr.Camera().SeedFromRecord(rec)
		}
		return mgr, nil
	})
	if err != nil {
		return err
	}
	a.simName = name
	a.mgr = mgr
	a.driver = a.drivers[name]
	a.mgr.SetOverlayFunc(func(visible bool) { a.showChart = visible })

	a.params = mgr.Model().Params()
	a.paramKeys = a.paramKeys[:0]
	for k := range a.params {
		a.paramKeys = append(a.paramKeys, k)
	}
	sort.Strings(a.paramKeys)
	a.paramSel = 0

	return a.attach()
}

func (a *App) container() scene.Container {
	if a.fullscreen {
		return rectContainer{w: winW, h: winH}
	}
	return rectContainer{w: winW - sidebarW, h: winH}
}

func (a *App) attach() error {
	err := a.mgr.Attach(a.container())
	a.loading = errors.Is(err, scene.ErrNotLaidOut) || errors.Is(err, scene.ErrLayoutGaveUp)
	return err
}

// leaveSim detaches the current viewport (run keeps its state, resumes
// on return) and drops any in-flight gesture.
func (a *App) leaveSim() {
	if a.mgr != nil {
		a.mgr.Detach()
	}
	a.cls.CancelGesture()
	a.state = stateMenu
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) && a.state == stateMenu {
		a.quit = true
		return
	}

	switch a.state {
	case stateMenu:
		a.updateMenu()
	case stateConfig:
		a.updateConfig()
	case stateSim:
		a.updateSim()
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.selected = (a.selected + 1) % len(a.models)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.selected--
		if a.selected < 0 {
			a.selected = len(a.models) - 1
		}
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		if err := a.activate(a.models[a.selected]); err == nil {
			a.state = stateConfig
		}
	}
}

func (a *App) updateConfig() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.leaveSim()
		return
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		for k, v := range a.params {
			a.mgr.Clock().SetParam(k, v)
		}
		a.mgr.World().ClearTrails()
		a.mgr.Clock().Start()
		a.state = stateSim
		return
	}
	if len(a.paramKeys) == 0 {
		return
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.paramSel = (a.paramSel + 1) % len(a.paramKeys)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.paramSel--
		if a.paramSel < 0 {
			a.paramSel = len(a.paramKeys) - 1
		}
	}
	key := a.paramKeys[a.paramSel]
	step := 0.05
	if rl.IsKeyDown(rl.KeyLeftShift) {
		step = 0.5
	}
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.params[key] += step
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.params[key] -= step
	}
}

func (a *App) updateSim() {
	clock := a.mgr.Clock()
	ctrl := a.mgr.Camera()

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.leaveSim()
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		if clock.Running() {
			clock.Stop()
		} else {
			clock.Start()
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		clock.Reset()
		a.mgr.World().ClearTrails()
	}
	if rl.IsKeyPressed(rl.KeyD) {
		if t, ok := a.mgr.Model().(*model.Titration); ok {
			t.SetDispensing(!t.Dispensing())
			clock.Start()
		}
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.showChart = !a.showChart
		a.mgr.NotifyOverlay(a.showChart)
	}
	if rl.IsKeyPressed(rl.KeyF) {
		a.mgr.Detach()
		a.cls.CancelGesture()
		a.fullscreen = !a.fullscreen
		a.attach()
	}
	if rl.IsKeyPressed(rl.KeyS) && a.storeOK {
		a.store.SaveCamera(ctrl.ToRecord(a.simName))
	}
	if rl.IsKeyPressed(rl.KeyA) {
		ctrl.SetAutoRotate(!ctrl.AutoRotate())
	}
	if rl.IsKeyPressed(rl.KeyM) {
		if a.audioOn {
			a.audio.Stop()
			a.audioOn = false
		} else {
			a.audioOn = a.audio.Start() == nil
		}
	}

	a.updatePointer()

	if a.loading {
		if a.retry.Due(time.Now()) {
			a.attach()
		}
	} else {
		a.mgr.RunFrame(float64(rl.GetFrameTime()), a.cls.Active())
	}

	if a.audioOn {
		a.audio.UpdateActivity(activityLevel(a.simName, clock.LastFrame().Samples))
	}
}

// updatePointer routes raw mouse input through the gesture classifier
// and feeds classified intents to the camera controller.
func (a *App) updatePointer() {
	ctrl := a.mgr.Camera()
	pos := rl.GetMousePosition()
	x, y := float64(pos.X), float64(pos.Y)
	modifier := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.cls.PointerDown(x, y, gesture.ButtonPrimary, modifier)
	} else if rl.IsMouseButtonPressed(rl.MouseMiddleButton) {
		a.cls.PointerDown(x, y, gesture.ButtonMiddle, false)
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) || rl.IsMouseButtonReleased(rl.MouseMiddleButton) {
		a.cls.PointerUp()
	}
	if a.cls.Active() {
		if in, ok := a.cls.PointerMove(x, y); ok {
			ctrl.Handle(in)
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		ctrl.Handle(a.cls.Wheel(float64(wheel)))
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colBg)

	switch a.state {
	case stateMenu:
		a.drawMenu()
	case stateConfig:
		a.drawConfig()
	case stateSim:
		a.drawSim()
	}

	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawMenu() {
	a.drawText("scilab", 50, 50, 40, colSelect)
	a.drawText("Select Simulation", 50, 100, 16, colTextDim)

	y := 160
	for i, name := range a.models {
		if i == a.selected {
			a.drawText(fmt.Sprintf("> %s", name), 50, y, 20, colSelect)
		} else {
			a.drawText(fmt.Sprintf("  %s", name), 50, y, 20, colText)
		}
		y += 28
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 680, 14, colTextDim)
}

func (a *App) drawConfig() {
	a.drawText("scilab", 50, 50, 40, colTextDim)
	a.drawText("configure", 220, 65, 20, colSelect)
	a.drawText(fmt.Sprintf("Target: %s", a.simName), 50, 110, 16, colAccent)

	y := 180
	for i, key := range a.paramKeys {
		val := a.params[key]
		if i == a.paramSel {
			a.drawText(fmt.Sprintf("> %-15s %.3f", key, val), 50, y, 20, colSelect)
		} else {
			a.drawText(fmt.Sprintf("  %-15s %.3f", key, val), 50, y, 20, colText)
		}
		y += 28
	}

	a.drawText("ARROWS: ADJUST  ENTER: RUN  ESC: BACK", 880, 680, 14, colTextDim)
}

func (a *App) drawSim() {
	if a.loading {
		a.drawText("preparing viewport...", winW/2-120, winH/2, 18, colTextDim)
		return
	}

	vw := winW
	if !a.fullscreen {
		vw = winW - sidebarW
	}
	a.driver.Blit(0, 0, float32(vw), float32(winH))

	if !a.fullscreen {
		a.drawSidebar()
	}
	if a.showChart {
		a.drawChart(vw)
	}

	a.drawText("[SPACE] PAUSE  [R] RESET  [C] CHART  [F] FULL  [S] SAVE VIEW  [ESC] MENU", 30, 690, 14, colTextDim)
}

func (a *App) drawSidebar() {
	clock := a.mgr.Clock()
	x := winW - sidebarW + 20

	a.drawText("scilab", x, 30, 24, colSelect)
	a.drawText(fmt.Sprintf(":: %s", a.simName), x, 60, 16, colText)

	status := "RUNNING"
	col := colSelect
	if clock.Terminal() {
		status = "FINISHED"
		col = colAccent
	} else if !clock.Running() {
		status = "PAUSED"
		col = colTextDim
	}
	a.drawText(status, x, 90, 16, col)
	a.drawText(fmt.Sprintf("t = %.2f s", clock.Elapsed()), x, 115, 16, colText)

	y := 160
	for _, name := range a.mgr.Model().Series() {
		if v, ok := clock.LastFrame().Samples[name]; ok {
			a.drawText(fmt.Sprintf("%-8s %9.4f", name, v), x, y, 16, colAccent)
			y += 24
		}
	}

	y += 20
	a.drawText("params", x, y, 14, colTextDim)
	y += 24
	for _, key := range a.paramKeys {
		a.drawText(fmt.Sprintf("%-13s %8.3f", key, a.mgr.Model().Params()[key]), x, y, 14, colText)
		y += 22
	}

	if t, ok := a.mgr.Model().(*model.Titration); ok {
		y += 20
		state := "[D] DISPENSE"
		if t.Dispensing() {
			state = "DISPENSING..."
		}
		a.drawText(state, x, y, 16, colSelect)
		y += 24
		a.drawText(fmt.Sprintf("added %.2f / %.0f mL", t.Dispensed(), model.BuretteCapacity), x, y, 14, colText)
	}

	if !a.storeOK {
		a.drawText("DATA DIR UNAVAILABLE", x, 625, 14, colAccent)
	}
	audioState := "AUDIO [ON]"
	if !a.audioOn {
		audioState = "AUDIO [OFF]"
	}
	a.drawText(audioState, x, 650, 14, colTextDim)
	if a.audioOn {
		a.drawLevelMeter(x+110, 652)
	}
}

// drawLevelMeter shows the smoothed sonification drive as a segment bar.
func (a *App) drawLevelMeter(x, y int) {
	const segments = 10
	lit := int(a.audio.Level()*segments + 0.5)
	for i := 0; i < segments; i++ {
		col := colGrid
		if i < lit {
			col = colSelect
		}
		rl.DrawRectangle(int32(x+i*14), int32(y), 10, 10, col)
	}
}

// drawChart overlays one line strip per recorded series at the bottom of
// the viewport.
func (a *App) drawChart(vw int) {
	rec := a.mgr.Recorder()
	names := rec.Names()
	if len(names) == 0 {
		return
	}

	chartW, chartH := vw-60, 70
	y0 := winH - 120 - (chartH+30)*len(names)
	for _, name := range names {
		vals := rec.Values(name)
		if len(vals) >= 2 {
			drawLineStrip(vals, 30, y0, chartW, chartH)
		}
		last := 0.0
		if v, ok := rec.Last(name); ok {
			last = v.Value
		}
		a.drawText(fmt.Sprintf("%s %.3f", name, last), 30, y0-18, 14, colText)
		y0 += chartH + 30
	}
}

func drawLineStrip(vals []float64, x0, y0, w, h int) {
	minV, maxV := vals[0], vals[0]
	for _, v := range vals {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if maxV == minV {
		maxV = minV + 1
	}
	points := make([]rl.Vector2, len(vals))
	for i, v := range vals {
		px := float32(x0) + float32(i)/float32(len(vals))*float32(w)
		norm := (v - minV) / (maxV - minV)
		py := float32(y0+h) - float32(norm)*float32(h)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, colAccent)
}
