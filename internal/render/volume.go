package render

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/render/lighting"
)

// VolumeMesh appends the triangles of vol to vertices and indices, shifted
// by -offset into screen space. Vertex alpha falls off linearly from the
// hub to the light range. It reports false, appending nothing, when the
// mesh would overflow 16-bit indices.
func VolumeMesh(vol *shadows.LightVolume, l *lighting.Light, offset vec.Vec2, vertices []Vertex, indices []uint16) ([]Vertex, []uint16, bool) {
	base := len(vertices)
	if base+len(vol.Vertices) > math.MaxUint16+1 {
		return vertices, indices, false
	}

	intensity := float32(math.Min(1, l.Intensity))
	r := float32(l.Color.R) / 255
	g := float32(l.Color.G) / 255
	b := float32(l.Color.B) / 255

	for i, p := range vol.Vertices {
		falloff := (1 - float32(vol.UVs[i].X)) * intensity
		vertices = append(vertices, Vertex{
			DstX:   float32(p.X - offset.X),
			DstY:   float32(p.Y - offset.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: r * falloff,
			ColorG: g * falloff,
			ColorB: b * falloff,
			ColorA: falloff,
		})
	}
	for _, idx := range vol.Indices {
		indices = append(indices, uint16(base+int(idx)))
	}
	return vertices, indices, true
}
