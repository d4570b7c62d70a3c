package lighting

import (
	"image/color"
	"math"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/vec"

	"chosenoffset.com/lumen2d/internal/core/shadows"
)

// Unassigned marks a culling index or shadow slot that is not valid this
// frame.
const Unassigned = -1

// Light is a single light source in the world.
type Light struct {
	ID   uuid.UUID
	Name string
	Kind Kind

	Position vec.Vec2 // world position
	Rotation float64  // radians, counter-clockwise from +X
	Range    float64

	// SpotAngle is the full cone of a spot light in degrees.
	SpotAngle float64

	Intensity float64
	Color     color.NRGBA

	// LineLength is the extent of a line light across its facing axis.
	LineLength float64

	// LayerMask selects which occluder owner layers cast shadows for this
	// light.
	LayerMask uint32

	CastsShadows bool
	Enabled      bool

	cullingIndex int
	shadowSlot   int
}

// NewLight creates an enabled, white, shadow-casting light.
func NewLight(name string, kind Kind, pos vec.Vec2, rng float64) *Light {
	return &Light{
		ID:           uuid.New(),
		Name:         name,
		Kind:         kind,
		Position:     pos,
		Range:        rng,
		SpotAngle:    45,
		Intensity:    1,
		Color:        color.NRGBA{255, 255, 255, 255},
		LayerMask:    shadows.AllLayers,
		CastsShadows: true,
		Enabled:      true,
		cullingIndex: Unassigned,
		shadowSlot:   Unassigned,
	}
}

// Right returns the unit facing axis of the light.
func (l *Light) Right() vec.Vec2 {
	sin, cos := math.Sincos(l.Rotation)
	return vec.Vec2{X: cos, Y: sin}
}

// Up returns the unit axis perpendicular to Right.
func (l *Light) Up() vec.Vec2 {
	sin, cos := math.Sincos(l.Rotation)
	return vec.Vec2{X: -sin, Y: cos}
}

// HalfAngle returns half the angular extent in radians. Only spot lights
// are cones; every other kind covers the full circle.
func (l *Light) HalfAngle() float64 {
	if l.Kind != KindSpot {
		return math.Pi
	}
	deg := math.Max(0, math.Min(maxSpotAngle, l.SpotAngle))
	return deg * math.Pi / 360
}

// LineEndpoints returns the two ends of a line light.
func (l *Light) LineEndpoints() (p, q vec.Vec2) {
	half := l.Up().Mul(l.LineLength / 2)
	return l.Position.Add(half), l.Position.Sub(half)
}

// CullingIndex returns the index assigned by the last culling setup, or
// Unassigned.
func (l *Light) CullingIndex() int {
	return l.cullingIndex
}

// ShadowSlot returns the shadow map row assigned by the last slot packing,
// or Unassigned.
func (l *Light) ShadowSlot() int {
	return l.shadowSlot
}

// Bounds returns the culling sphere of the light.
func (l *Light) Bounds() BoundingSphere {
	return info(l.Kind).bounds(l)
}
