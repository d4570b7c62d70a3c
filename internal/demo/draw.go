package demo

import (
	"fmt"
	"image/color"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/render"
	"chosenoffset.com/lumen2d/internal/render/lighting"
)

// Draw renders the lit scene to the screen.
func (d *Demo) Draw(screen render.Image) {
	ambient := uint8(255 * d.Scene.Registry.AmbientLight())
	screen.Fill(color.RGBA{ambient, ambient, ambient, 255})

	// Step 1: light volumes, summed additively
	d.vertices = d.vertices[:0]
	d.indices = d.indices[:0]
	if sm := d.Pass.ShadowMap(); sm != nil {
		d.appendShadowMapLights(sm)
	} else {
		d.appendVolumeLights()
	}
	if len(d.indices) > 0 {
		screen.DrawTriangles(d.vertices, d.indices, d.WhiteImg, &render.DrawTrianglesOptions{
			AntiAlias: true,
			Additive:  true,
		})
	}

	// Step 2: occluder outlines
	if d.ShowOutlines {
		d.drawEdges(screen, d.Pass.Edges())
	}

	// Step 3: shadow map strip in the corner
	if sm := d.Pass.ShadowMap(); sm != nil && d.ShadowTex != nil {
		d.pixels = sm.Pixels(d.pixels)
		d.ShadowTex.WritePixels(d.pixels)
		opts := &render.DrawImageOptions{GeoM: render.NewGeoM()}
		opts.GeoM.Scale(1, 4)
		opts.GeoM.Translate(8, float64(d.ScreenHeight-8-4*sm.Slots))
		screen.DrawImage(d.ShadowTex, opts)
	}

	// Step 4: UI on top
	d.drawUI(screen)
}

func (d *Demo) appendVolumeLights() {
	for _, l := range d.Scene.Registry.Lights() {
		vol := d.Pass.Volume(l)
		if vol == nil {
			continue
		}
		d.appendVolume(vol, l)
	}
}

// appendShadowMapLights shades each slotted light from its shadow map row,
// the way a sprite shader reading the map would.
func (d *Demo) appendShadowMapLights(sm *lighting.ShadowMap) {
	var vol shadows.LightVolume
	for slot, l := range d.Pass.Assigned() {
		sm.RowVolume(slot, l, &vol)
		d.appendVolume(&vol, l)
	}
}

func (d *Demo) appendVolume(vol *shadows.LightVolume, l *lighting.Light) {
	var ok bool
	d.vertices, d.indices, ok = render.VolumeMesh(vol, l, d.View.Offset(), d.vertices, d.indices)
	if !ok {
		d.ShowMessage(fmt.Sprintf("Too many light vertices, skipping %s", l.Name))
	}
}

func (d *Demo) drawEdges(screen render.Image, edges []shadows.Edge) {
	outline := color.RGBA{90, 200, 255, 255}
	for _, e := range edges {
		d.Renderer.StrokeLine(screen,
			float32(e.A.X-d.View.X), float32(e.A.Y-d.View.Y),
			float32(e.B.X-d.View.X), float32(e.B.Y-d.View.Y),
			1, outline)
	}
	for _, l := range d.Scene.Registry.Lights() {
		if !l.Enabled {
			continue
		}
		clr := color.RGBA{255, 255, 100, 255}
		if l.ShadowSlot() == lighting.Unassigned {
			clr = color.RGBA{160, 160, 160, 255}
		}
		d.Renderer.FillCircle(screen, float32(l.Position.X-d.View.X), float32(l.Position.Y-d.View.Y), 3, clr)
	}
}

func (d *Demo) drawUI(screen render.Image) {
	settings := d.Pass.Settings()
	status := fmt.Sprintf("%s  lights %d  slotted %d  edges %d",
		settings.Technique, d.Scene.Registry.Len(), len(d.Pass.Assigned()), len(d.Pass.Edges()))
	d.Renderer.DrawText(screen, status, 8, 8, color.White, 1.0)

	// Draw on-screen messages
	y := 30.0
	for _, msg := range d.Messages {
		alpha := uint8(255 * (msg.TimeLeft / msg.MaxTime))
		d.Renderer.DrawText(screen, msg.Text, 8, int(y), color.RGBA{255, 255, 255, alpha}, 1.0)
		y += 20
	}
}
