// Package demo is an interactive viewer for a lighting scene: a light
// follows the cursor while the light pass runs every frame.
package demo

import (
	"context"
	"image/color"
	"log"

	"github.com/pkg/errors"
	"seehuhn.de/go/geom/vec"

	"chosenoffset.com/lumen2d/internal/render"
	"chosenoffset.com/lumen2d/internal/render/lighting"
	"chosenoffset.com/lumen2d/internal/scene"
)

// ErrQuit is returned from Update when the user asks to leave.
var ErrQuit = errors.New("demo: quit")

const panSpeed = 4.0

// Demo holds the viewer state.
type Demo struct {
	ScreenWidth  int
	ScreenHeight int

	Renderer render.Renderer
	InputMgr render.InputManager

	Scene *scene.Scene
	Pass  *lighting.Pass
	View  View

	// CursorLight follows the mouse. It is registered last so it never
	// takes a shadow slot from the scene's own lights.
	CursorLight *lighting.Light

	WhiteImg  render.Image
	ShadowTex render.Image

	// UI state
	Messages     []Message
	ShowOutlines bool
	Parallel     bool

	// scratch
	vertices []render.Vertex
	indices  []uint16
	pixels   []byte
}

// New creates a viewer for s rendered with settings.
func New(r render.Renderer, input render.InputManager, s *scene.Scene, settings lighting.Settings, width, height int) *Demo {
	cursor := lighting.NewLight("cursor", lighting.KindPoint, vec.Vec2{}, 160)
	cursor.Color = color.NRGBA{255, 200, 100, 255} // Warm torch light
	s.Registry.Add(cursor)

	settings.Convention = r.Convention()
	d := &Demo{
		ScreenWidth:  width,
		ScreenHeight: height,
		Renderer:     r,
		InputMgr:     input,
		Scene:        s,
		Pass:         lighting.NewPass(settings, s.Registry, s.Collector),
		View:         View{X: s.Camera.Min.X, Y: s.Camera.Min.Y},
		CursorLight:  cursor,
		ShowOutlines: true,
	}

	d.WhiteImg = r.NewImage(3, 3)
	d.WhiteImg.Fill(color.White)
	if sm := d.Pass.ShadowMap(); sm != nil {
		d.ShadowTex = r.NewImage(sm.Resolution, sm.Slots)
	}
	return d
}

// Update handles input and runs the light pass.
func (d *Demo) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0
	d.updateMessages(dt)

	if d.InputMgr.IsKeyJustPressed(render.KeyEscape) {
		return ErrQuit
	}

	if d.InputMgr.IsKeyPressed(render.KeyW) {
		d.View.Y -= panSpeed
	}
	if d.InputMgr.IsKeyPressed(render.KeyS) {
		d.View.Y += panSpeed
	}
	if d.InputMgr.IsKeyPressed(render.KeyA) {
		d.View.X -= panSpeed
	}
	if d.InputMgr.IsKeyPressed(render.KeyD) {
		d.View.X += panSpeed
	}

	// Toggle cursor light with L key
	if d.InputMgr.IsKeyJustPressed(render.KeyL) {
		d.CursorLight.Enabled = !d.CursorLight.Enabled
		if d.CursorLight.Enabled {
			d.ShowMessage("Cursor light on")
		} else {
			d.ShowMessage("Cursor light off")
		}
	}
	if d.InputMgr.IsKeyJustPressed(render.KeyO) {
		d.ShowOutlines = !d.ShowOutlines
	}
	if d.InputMgr.IsKeyJustPressed(render.KeyP) {
		d.Parallel = !d.Parallel
		if d.Parallel {
			d.ShowMessage("Parallel edge collection")
		} else {
			d.ShowMessage("Sequential edge collection")
		}
	}
	// Space rebuilds static geometry, e.g. after editing the scene file.
	if d.InputMgr.IsKeyJustPressed(render.KeySpace) {
		d.Pass.InvalidateStatic()
		d.ShowMessage("Static occluders rebuilt")
	}

	cx, cy := d.InputMgr.GetCursorPosition()
	d.CursorLight.Position = vec.Vec2{X: float64(cx) + d.View.X, Y: float64(cy) + d.View.Y}
	if d.InputMgr.IsMouseButtonPressed(render.MouseButtonLeft) {
		d.CursorLight.Rotation += 0.05
	}

	camera := lighting.NewCamera(d.View.X, d.View.Y, float64(d.ScreenWidth), float64(d.ScreenHeight))
	if d.Parallel {
		return d.Pass.RunParallel(context.Background(), camera)
	}
	d.Pass.Run(camera)
	return nil
}

// Layout returns the logical screen size.
func (d *Demo) Layout(outsideWidth, outsideHeight int) (int, int) {
	return d.ScreenWidth, d.ScreenHeight
}

func (d *Demo) updateMessages(dt float64) {
	var active []Message
	for _, msg := range d.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	d.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (d *Demo) ShowMessage(text string) {
	d.Messages = append(d.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})
	log.Printf("Message: %s", text)
}
