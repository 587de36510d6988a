package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/scilab/internal/camera"
	"github.com/san-kum/scilab/internal/scene"
)

// TextureDriver renders a simulation's world into an offscreen render
// texture. The texture is the viewport's opaque surface handle: the app
// blits it into whatever container currently hosts the viewport, so
// moving between the embedded panel and fullscreen never recreates GL
// resources.
type TextureDriver struct {
	simName string
	tex     rl.RenderTexture2D
	created bool
}

func NewTextureDriver(simName string) *TextureDriver {
	return &TextureDriver{simName: simName}
}

func (d *TextureDriver) CreateSurface(w, h int) error {
	d.tex = rl.LoadRenderTexture(int32(w), int32(h))
	if d.tex.ID == 0 {
		return errSurface
	}
	d.created = true
	return nil
}

func (d *TextureDriver) ResizeSurface(w, h int) error {
	if d.created {
		rl.UnloadRenderTexture(d.tex)
	}
	return d.CreateSurface(w, h)
}

func (d *TextureDriver) RenderFrame(world *scene.World, st *camera.State) error {
	if !d.created {
		return nil
	}
	rl.BeginTextureMode(d.tex)
	rl.ClearBackground(colBg)

	rl.BeginMode3D(cam3D(st))
	drawGrid()
	switch d.simName {
	case "pendulum":
		renderPendulum(world)
	case "projectile":
		renderProjectile(world)
	case "titration":
		renderTitration(world)
	}
	rl.EndMode3D()

	rl.EndTextureMode()
	return nil
}

func (d *TextureDriver) DisposeSurface() {
	if d.created {
		rl.UnloadRenderTexture(d.tex)
		d.created = false
	}
}

// Blit draws the texture into a screen rectangle. Render textures are
// vertically flipped, hence the negative source height.
func (d *TextureDriver) Blit(x, y, w, h float32) {
	if !d.created {
		return
	}
	src := rl.NewRectangle(0, 0, float32(d.tex.Texture.Width), -float32(d.tex.Texture.Height))
	dst := rl.NewRectangle(x, y, w, h)
	rl.DrawTexturePro(d.tex.Texture, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}

// cam3D converts the shared orbit state to a raylib camera, every frame.
func cam3D(st *camera.State) rl.Camera3D {
	sp := math.Sin(st.Polar)
	pos := rl.NewVector3(
		float32(st.LookAt.X+st.Distance*sp*math.Sin(st.Azimuth)),
		float32(st.LookAt.Y+st.Distance*math.Cos(st.Polar)),
		float32(st.LookAt.Z+st.Distance*sp*math.Cos(st.Azimuth)),
	)
	tgt := rl.NewVector3(float32(st.LookAt.X), float32(st.LookAt.Y), float32(st.LookAt.Z))
	return rl.NewCamera3D(pos, tgt, rl.NewVector3(0, 1, 0), 45.0, rl.CameraPerspective)
}
