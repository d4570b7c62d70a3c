package lighting

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"chosenoffset.com/lumen2d/internal/core/shadows"
)

// ShadowMap is the slot-packed 1D shadow resource: one row per slot, one
// texel per angle bucket around the light. A texel holds the distance to
// the nearest occluder over the light range, 1 when unobstructed.
type ShadowMap struct {
	Resolution int
	Slots      int
	Texels     []float32

	caster *shadows.Caster
}

// NewShadowMap allocates a map of resolution texels by slots rows.
func NewShadowMap(resolution, slots int) *ShadowMap {
	return &ShadowMap{
		Resolution: resolution,
		Slots:      slots,
		Texels:     make([]float32, resolution*slots),
		caster:     shadows.NewCaster(),
	}
}

// Clear resets every texel to unobstructed.
func (m *ShadowMap) Clear() {
	for i := range m.Texels {
		m.Texels[i] = 1
	}
}

// Row returns the texels of one slot.
func (m *ShadowMap) Row(slot int) []float32 {
	return m.Texels[slot*m.Resolution : (slot+1)*m.Resolution]
}

// TexelAngle returns the world angle in radians sampled by texel i.
func (m *ShadowMap) TexelAngle(i int) float64 {
	return -math.Pi + (float64(i)+0.5)*2*math.Pi/float64(m.Resolution)
}

// TexelFor returns the texel index covering a world angle.
func (m *ShadowMap) TexelFor(angle float64) int {
	i := int(math.Floor((angle + math.Pi) / (2 * math.Pi) * float64(m.Resolution)))
	return ((i % m.Resolution) + m.Resolution) % m.Resolution
}

// Sample returns the stored distance fraction of slot in the given world
// direction.
func (m *ShadowMap) Sample(slot int, dir vec.Vec2) float32 {
	return m.Row(slot)[m.TexelFor(math.Atan2(dir.Y, dir.X))]
}

// WriteRow renders the occluders seen by l into its slot.
func (m *ShadowMap) WriteRow(slot int, l *Light, edges []shadows.Edge) {
	row := m.Row(slot)
	if l.Range <= 0 {
		for i := range row {
			row[i] = 0
		}
		return
	}

	candidates := m.caster.CandidateEdges(volumeParams(l, 0), edges)
	for i := range row {
		sin, cos := math.Sincos(m.TexelAngle(i))
		f := shadows.NearestHit(l.Position, vec.Vec2{X: cos, Y: sin}, l.Range, candidates)
		row[i] = float32(f)
	}
}

// Pixels encodes the map as 8-bit RGBA gray, one pixel per texel, row
// zero first.
func (m *ShadowMap) Pixels(dst []byte) []byte {
	n := len(m.Texels) * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, t := range m.Texels {
		v := byte(math.Round(float64(max(0, min(1, t))) * 255))
		dst[4*i] = v
		dst[4*i+1] = v
		dst[4*i+2] = v
		dst[4*i+3] = 0xff
	}
	return dst
}

// RowVolume rebuilds the lit area stored in the slot's row as a closed
// triangle fan, one rim vertex per texel. Texels outside a spot light's
// cone collapse onto the hub.
func (m *ShadowMap) RowVolume(slot int, l *Light, out *shadows.LightVolume) {
	out.Reset()
	out.Vertices = append(out.Vertices, l.Position)
	out.UVs = append(out.UVs, vec.Vec2{})

	right := l.Right()
	half := l.HalfAngle()
	for i, f := range m.Row(slot) {
		sin, cos := math.Sincos(m.TexelAngle(i))
		dir := vec.Vec2{X: cos, Y: sin}
		if l.Kind == KindSpot && math.Abs(shadows.SignedAngle(right, dir)) > half {
			f = 0
		}
		out.Vertices = append(out.Vertices, l.Position.Add(dir.Mul(float64(f)*l.Range)))
		out.UVs = append(out.UVs, vec.Vec2{X: float64(f)})
	}

	last := uint32(len(out.Vertices) - 1)
	for i := uint32(2); i <= last; i++ {
		out.Indices = append(out.Indices, 0, i, i-1)
	}
	if last >= 2 {
		out.Indices = append(out.Indices, 0, 1, last)
	}
}
