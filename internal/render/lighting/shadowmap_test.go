package lighting

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"

	"chosenoffset.com/lumen2d/internal/core/shadows"
)

func TestShadowMapWriteRow(t *testing.T) {
	m := NewShadowMap(64, 2)
	m.Clear()

	l := NewLight("l", KindPoint, vec.Vec2{}, 10)
	wall := []shadows.Edge{{A: vec.Vec2{X: 5, Y: -3}, B: vec.Vec2{X: 5, Y: 3}}}
	m.WriteRow(1, l, wall)

	east := m.Sample(1, vec.Vec2{X: 1, Y: 0})
	if math.Abs(float64(east)-0.5) > 0.01 {
		t.Errorf("Expected east texel near 0.5, got %v", east)
	}
	if west := m.Sample(1, vec.Vec2{X: -1, Y: 0}); west != 1 {
		t.Errorf("Expected west texel unobstructed, got %v", west)
	}
	for i, v := range m.Row(0) {
		if v != 1 {
			t.Fatalf("Expected untouched row 0, texel %d is %v", i, v)
		}
	}
}

func TestShadowMapTexelMapping(t *testing.T) {
	m := NewShadowMap(8, 1)
	for i := 0; i < 8; i++ {
		if got := m.TexelFor(m.TexelAngle(i)); got != i {
			t.Errorf("texel %d: expected round trip, got %d", i, got)
		}
	}
	if got := m.TexelFor(math.Pi); got != 0 {
		t.Errorf("Expected +π to wrap to texel 0, got %d", got)
	}
}

func TestShadowMapPixels(t *testing.T) {
	m := NewShadowMap(2, 1)
	m.Texels[0] = 0
	m.Texels[1] = 1

	px := m.Pixels(nil)
	want := []byte{0, 0, 0, 255, 255, 255, 255, 255}
	if len(px) != len(want) {
		t.Fatalf("Expected %d bytes, got %d", len(want), len(px))
	}
	for i := range want {
		if px[i] != want[i] {
			t.Errorf("byte %d: expected %d, got %d", i, want[i], px[i])
		}
	}
}

func TestShadowMapRowVolume(t *testing.T) {
	m := NewShadowMap(32, 1)
	m.Clear()
	l := NewLight("l", KindPoint, vec.Vec2{}, 10)
	wall := []shadows.Edge{{A: vec.Vec2{X: 4, Y: -2}, B: vec.Vec2{X: 4, Y: 2}}}
	m.WriteRow(0, l, wall)

	var vol shadows.LightVolume
	m.RowVolume(0, l, &vol)

	if len(vol.Vertices) != 33 {
		t.Fatalf("Expected hub + 32 rim vertices, got %d", len(vol.Vertices))
	}
	if len(vol.Indices) != 32*3 {
		t.Errorf("Expected 32 triangles, got %d indices", len(vol.Indices))
	}
	if vol.Contains(vec.Vec2{X: 7, Y: 0.1}) {
		t.Error("Expected (7,0.1) behind the wall to be dark")
	}
	if !vol.Contains(vec.Vec2{X: -7, Y: 0.1}) {
		t.Error("Expected (-7,0.1) to be lit")
	}
}
