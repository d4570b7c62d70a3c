package lighting

import (
	"testing"

	"seehuhn.de/go/geom/vec"
)

func TestCameraOverlaps(t *testing.T) {
	cam := NewCamera(0, 0, 10, 10)
	tests := []struct {
		name string
		s    BoundingSphere
		want bool
	}{
		{"inside", BoundingSphere{vec.Vec2{X: 5, Y: 5}, 1}, true},
		{"touching edge", BoundingSphere{vec.Vec2{X: 12, Y: 5}, 2}, true},
		{"outside edge", BoundingSphere{vec.Vec2{X: 13, Y: 5}, 2}, false},
		{"near corner", BoundingSphere{vec.Vec2{X: 12, Y: 12}, 2}, false},
		{"covering", BoundingSphere{vec.Vec2{X: 5, Y: 5}, 100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cam.Overlaps(tt.s); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCullingIndicesAreSequential(t *testing.T) {
	a := NewLight("a", KindPoint, vec.Vec2{}, 5)
	b := NewLight("b", KindPoint, vec.Vec2{}, 5)
	b.Enabled = false
	c := NewLight("c", KindPoint, vec.Vec2{}, 5)

	g := NewCullingGroup()
	g.Setup(wholeWorld, []*Light{a, nil, b, c})

	if a.CullingIndex() != 0 || c.CullingIndex() != 1 {
		t.Errorf("Expected indices 0 and 1, got %d and %d", a.CullingIndex(), c.CullingIndex())
	}
	if b.CullingIndex() != Unassigned {
		t.Errorf("Expected disabled light unassigned, got %d", b.CullingIndex())
	}
	if g.Count() != 2 {
		t.Errorf("Expected 2 spheres, got %d", g.Count())
	}
	if g.LightVisible(b) {
		t.Error("Expected disabled light not to be visible")
	}
}

func TestCullingGrowsInChunks(t *testing.T) {
	lights := make([]*Light, 1500)
	for i := range lights {
		lights[i] = NewLight("l", KindPoint, vec.Vec2{}, 1)
	}
	g := NewCullingGroup()
	g.Setup(wholeWorld, lights)

	if len(g.spheres) != 2*cullingChunk {
		t.Errorf("Expected %d spheres allocated, got %d", 2*cullingChunk, len(g.spheres))
	}
	if lights[1499].CullingIndex() != 1499 {
		t.Errorf("Expected last index 1499, got %d", lights[1499].CullingIndex())
	}
}

func TestUnassignedIsVisible(t *testing.T) {
	var nilGroup *CullingGroup
	if !nilGroup.IsVisible(3) {
		t.Error("Expected a nil group to report visible")
	}
	g := NewCullingGroup()
	if !g.IsVisible(Unassigned) {
		t.Error("Expected an unassigned index to be visible")
	}
}
