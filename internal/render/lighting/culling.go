package lighting

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Camera is the axis-aligned world rectangle a frame is rendered for.
type Camera struct {
	Min, Max vec.Vec2
}

// NewCamera returns the camera rectangle at (x, y) with the given size.
func NewCamera(x, y, width, height float64) Camera {
	return Camera{
		Min: vec.Vec2{X: x, Y: y},
		Max: vec.Vec2{X: x + width, Y: y + height},
	}
}

// Overlaps reports whether the sphere touches the camera rectangle.
func (c Camera) Overlaps(s BoundingSphere) bool {
	closest := vec.Vec2{
		X: math.Max(c.Min.X, math.Min(c.Max.X, s.Center.X)),
		Y: math.Max(c.Min.Y, math.Min(c.Max.Y, s.Center.Y)),
	}
	d := s.Center.Sub(closest)
	return d.Dot(d) <= s.Radius*s.Radius
}

// cullingChunk is the granularity in which the sphere buffer grows.
const cullingChunk = 1024

// CullingGroup is the per-camera coarse visibility test for lights. Setup
// rebuilds it; lights then query their culling index.
type CullingGroup struct {
	spheres []BoundingSphere
	visible []bool
	count   int
}

// NewCullingGroup creates an empty culling group.
func NewCullingGroup() *CullingGroup {
	return &CullingGroup{}
}

// Setup assigns sequential culling indices to the enabled lights and tests
// their bounding spheres against camera. Disabled lights lose their index.
func (g *CullingGroup) Setup(camera Camera, lights []*Light) {
	if len(lights) > len(g.spheres) {
		size := (len(lights) + cullingChunk - 1) / cullingChunk * cullingChunk
		g.spheres = make([]BoundingSphere, size)
		g.visible = make([]bool, size)
	}

	g.count = 0
	for _, l := range lights {
		if l == nil {
			continue
		}
		if !l.Enabled {
			l.cullingIndex = Unassigned
			continue
		}
		s := l.Bounds()
		g.spheres[g.count] = s
		g.visible[g.count] = camera.Overlaps(s)
		l.cullingIndex = g.count
		g.count++
	}
}

// Count returns the number of spheres set up for the current pass.
func (g *CullingGroup) Count() int {
	return g.count
}

// IsVisible reports whether the sphere with the given culling index is
// visible. Unassigned indices and a nil group count as visible.
func (g *CullingGroup) IsVisible(index int) bool {
	if g == nil || index < 0 || index >= g.count {
		return true
	}
	return g.visible[index]
}

// LightVisible reports whether l is enabled and visible in the current
// pass.
func (g *CullingGroup) LightVisible(l *Light) bool {
	return l != nil && l.Enabled && g.IsVisible(l.cullingIndex)
}
