package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/scilab/internal/scene"
)

// Monochrome theme with a few functional accents.
var (
	colBg      = rl.NewColor(10, 10, 10, 255)
	colAccent  = rl.NewColor(180, 180, 180, 255)
	colSelect  = rl.NewColor(255, 255, 255, 255)
	colText    = rl.NewColor(140, 140, 140, 255)
	colTextDim = rl.NewColor(60, 60, 60, 255)
	colGrid    = rl.NewColor(30, 30, 30, 255)
	colTrail   = rl.NewColor(120, 120, 120, 160)
	colAcid    = rl.NewColor(220, 80, 80, 200)
	colBase    = rl.NewColor(80, 100, 220, 200)
	colNeutral = rl.NewColor(110, 200, 110, 200)
)

func drawGrid() {
	const slices, spacing = 16, 1.0
	half := float32(slices) * spacing / 2
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, 0, -half), rl.NewVector3(pos, 0, half), colGrid)
		rl.DrawLine3D(rl.NewVector3(-half, 0, pos), rl.NewVector3(half, 0, pos), colGrid)
	}
}

func vec3(b scene.Body) rl.Vector3 {
	return rl.NewVector3(float32(b.Pos.X), float32(b.Pos.Y), float32(b.Pos.Z))
}

func renderPendulum(w *scene.World) {
	pivot, ok1 := w.Body("pivot")
	bob, ok2 := w.Body("bob")
	if !ok1 || !ok2 {
		return
	}
	rl.DrawCube(vec3(pivot), 0.6, 0.1, 0.6, colTextDim)
	rl.DrawLine3D(vec3(pivot), vec3(bob), colText)
	rl.DrawSphere(vec3(bob), 0.18, colSelect)
	rl.DrawSphere(vec3(pivot), 0.05, colAccent)
}

func renderProjectile(w *scene.World) {
	ball, ok := w.Body("ball")
	if !ok {
		return
	}
	trail := w.Trail("ball")
	for i := 1; i < len(trail); i++ {
		a := rl.NewVector3(float32(trail[i-1].X), float32(trail[i-1].Y), float32(trail[i-1].Z))
		b := rl.NewVector3(float32(trail[i].X), float32(trail[i].Y), float32(trail[i].Z))
		rl.DrawLine3D(a, b, colTrail)
	}
	if launcher, ok := w.Body("launcher"); ok {
		rl.DrawCube(vec3(launcher), 0.5, 0.5, 0.5, colTextDim)
	}
	rl.DrawSphere(vec3(ball), 0.25, colSelect)
}

// phColor shades the flask contents: acidic red through neutral green to
// basic blue.
func phColor(ph float64) rl.Color {
	switch {
	case ph < 6.0:
		return colAcid
	case ph > 8.0:
		return colBase
	default:
		return colNeutral
	}
}

func renderTitration(w *scene.World) {
	burette, ok := w.Body("burette")
	if !ok {
		return
	}
	const bh = 3.0
	bpos := vec3(burette)

	// Glass column, then the remaining titrant inside it.
	rl.DrawCubeWires(bpos, 0.35, bh, 0.35, colText)
	fill := float32(burette.Aux)
	if fill > 0 {
		fillH := bh * fill
		fillPos := rl.NewVector3(bpos.X, bpos.Y-bh/2+fillH/2, bpos.Z)
		rl.DrawCube(fillPos, 0.28, fillH, 0.28, colBase)
	}

	if flask, ok := w.Body("flask"); ok {
		fpos := vec3(flask)
		liquid := phColor(flask.Aux)
		rl.DrawCylinder(fpos, 0.9, 0.25, 1.2, 8, rl.ColorAlpha(colAccent, 0.15))
		rl.DrawCylinder(fpos, 0.8, 0.3, 0.7, 8, liquid)
		rl.DrawCylinderWires(fpos, 0.9, 0.25, 1.2, 8, colText)
	}

	if stream, ok := w.Body("stream"); ok && stream.Aux > 0 {
		top := rl.NewVector3(bpos.X, bpos.Y-bh/2, bpos.Z)
		bottom := rl.NewVector3(bpos.X, 2.0, bpos.Z)
		rl.DrawCylinderEx(top, bottom, 0.02, 0.02, 4, colBase)
	}
}

// activityLevel maps the latest frame to a 0..1-ish sonification drive.
func activityLevel(simName string, samples map[string]float64) float64 {
	switch simName {
	case "pendulum":
		return math.Min(math.Abs(samples["omega"])/2.0, 1.0)
	case "projectile":
		return math.Min(math.Abs(samples["vy"])/20.0, 1.0)
	case "titration":
		// Brighten as the equivalence point nears neutral.
		return math.Max(0, 1.0-math.Abs(samples["ph"]-7.0)/7.0)
	}
	return 0
}
