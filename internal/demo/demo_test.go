package demo

import (
	"image"
	"image/color"
	"testing"

	"chosenoffset.com/lumen2d/internal/render"
	"chosenoffset.com/lumen2d/internal/render/lighting"
	"chosenoffset.com/lumen2d/internal/scene"
)

type fakeImage struct {
	w, h      int
	triangles int
	pixels    int
}

func (f *fakeImage) Bounds() image.Rectangle                         { return image.Rect(0, 0, f.w, f.h) }
func (f *fakeImage) Size() (int, int)                                { return f.w, f.h }
func (f *fakeImage) Fill(color.Color)                                {}
func (f *fakeImage) Clear()                                          {}
func (f *fakeImage) DrawImage(render.Image, *render.DrawImageOptions) {}
func (f *fakeImage) WritePixels(pix []byte)                          { f.pixels = len(pix) }
func (f *fakeImage) Dispose()                                        {}
func (f *fakeImage) DrawTriangles(v []render.Vertex, idx []uint16, _ render.Image, _ *render.DrawTrianglesOptions) {
	f.triangles += len(idx) / 3
}

type fakeRenderer struct{ lines int }

func (r *fakeRenderer) NewImage(w, h int) render.Image { return &fakeImage{w: w, h: h} }
func (r *fakeRenderer) FillCircle(render.Image, float32, float32, float32, color.Color) {}
func (r *fakeRenderer) StrokeCircle(render.Image, float32, float32, float32, float32, color.Color) {
}
func (r *fakeRenderer) StrokeLine(render.Image, float32, float32, float32, float32, float32, color.Color) {
	r.lines++
}
func (r *fakeRenderer) DrawText(render.Image, string, int, int, color.Color, float64) {}
func (r *fakeRenderer) Convention() lighting.Convention                              { return lighting.ConventionVInverted }

type fakeInput struct {
	just   map[render.Key]bool
	cx, cy int
}

func (in *fakeInput) IsKeyPressed(render.Key) bool                { return false }
func (in *fakeInput) IsKeyJustPressed(k render.Key) bool          { return in.just[k] }
func (in *fakeInput) GetCursorPosition() (int, int)               { return in.cx, in.cy }
func (in *fakeInput) IsMouseButtonPressed(render.MouseButton) bool { return false }

type fakeGeoM struct{}

func (fakeGeoM) Translate(float64, float64) {}
func (fakeGeoM) Scale(float64, float64)     {}
func (fakeGeoM) Rotate(float64)             {}
func (fakeGeoM) Reset()                     {}

const room = `{
	"camera": {"x": 0, "y": 0, "width": 200, "height": 200},
	"lights": [{"name": "torch", "kind": "point", "x": 50, "y": 50, "range": 80}],
	"occluders": [{"type": "polygon", "static": true,
		"points": [[90, 40], [100, 40], [100, 60], [90, 60]]}]
}`

func newDemo(t *testing.T, technique lighting.Technique) (*Demo, *fakeRenderer, *fakeInput) {
	t.Helper()
	s, err := scene.Parse([]byte(room))
	if err != nil {
		t.Fatalf("Failed to parse scene: %v", err)
	}
	settings := lighting.DefaultSettings()
	settings.Technique = technique
	settings.ShadowMapResolution = 64
	r := &fakeRenderer{}
	in := &fakeInput{just: map[render.Key]bool{}, cx: 20, cy: 30}
	return New(r, in, s, settings, 200, 200), r, in
}

func TestDemoMeshGenerationFrame(t *testing.T) {
	d, r, _ := newDemo(t, lighting.TechniqueMeshGeneration)
	if err := d.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if d.CursorLight.Position.X != 20 || d.CursorLight.Position.Y != 30 {
		t.Errorf("Expected cursor light at (20,30), got %v", d.CursorLight.Position)
	}

	screen := &fakeImage{w: 200, h: 200}
	d.Draw(screen)
	if screen.triangles == 0 {
		t.Error("Expected light volume triangles to be drawn")
	}
	if r.lines != 4 {
		t.Errorf("Expected 4 outline edges, got %d", r.lines)
	}
}

func TestDemoPipelineFrameUploadsShadowMap(t *testing.T) {
	old := render.NewGeoM
	render.NewGeoM = func() render.GeoM { return fakeGeoM{} }
	t.Cleanup(func() { render.NewGeoM = old })

	d, _, _ := newDemo(t, lighting.TechniquePipeline)
	if err := d.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	screen := &fakeImage{w: 200, h: 200}
	d.Draw(screen)

	tex := d.ShadowTex.(*fakeImage)
	sm := d.Pass.ShadowMap()
	if tex.pixels != sm.Resolution*sm.Slots*4 {
		t.Errorf("Expected %d shadow bytes uploaded, got %d", sm.Resolution*sm.Slots*4, tex.pixels)
	}
	if screen.triangles != 2*64 {
		t.Errorf("Expected 2 lights of 64 triangles, got %d", screen.triangles)
	}
}

func TestDemoKeys(t *testing.T) {
	d, _, in := newDemo(t, lighting.TechniqueMeshGeneration)

	in.just[render.KeyL] = true
	in.just[render.KeyP] = true
	if err := d.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if d.CursorLight.Enabled {
		t.Error("Expected L to switch the cursor light off")
	}
	if !d.Parallel {
		t.Error("Expected P to enable parallel collection")
	}
	if len(d.Messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(d.Messages))
	}

	in.just = map[render.Key]bool{render.KeyEscape: true}
	if err := d.Update(); err != ErrQuit {
		t.Errorf("Expected ErrQuit, got %v", err)
	}
}
