package lighting

import (
	"math"
	"strings"

	"github.com/chewxy/math32"
	"seehuhn.de/go/geom/vec"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/logging"
)

// Kind is the shape of the area a light illuminates.
type Kind uint8

// The numeric values are stable; scene files and shaders use them.
const (
	KindSpot Kind = iota
	KindGlobal
	KindPoint
	KindArea
	KindLine
)

var kindNames = [...]string{"spot", "global", "point", "area", "line"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a kind name to its Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), true
		}
	}
	return KindPoint, false
}

// BoundingSphere is the coarse culling volume of a light.
type BoundingSphere struct {
	Center vec.Vec2
	Radius float64
}

// kindInfo holds the kind-specific behaviour of lights. Entries are pure
// functions of the light record.
type kindInfo struct {
	bounds      func(l *Light) BoundingSphere
	attenuation func(l *Light) [4]float32

	// closed fans wrap the last hit point back to the first.
	closed bool
}

var kinds = [...]kindInfo{
	KindSpot:   {bounds: forwardBounds, attenuation: spotAttenuation},
	KindGlobal: {bounds: forwardBounds, attenuation: neutralAttenuation, closed: true},
	KindPoint:  {bounds: pointBounds, attenuation: rangeAttenuation, closed: true},
	KindArea:   {bounds: pointBounds, attenuation: rangeAttenuation, closed: true},
	KindLine:   {bounds: lineBounds, attenuation: rangeAttenuation, closed: true},
}

func info(k Kind) *kindInfo {
	if int(k) < len(kinds) {
		return &kinds[k]
	}
	return &kinds[KindPoint]
}

func pointBounds(l *Light) BoundingSphere {
	return BoundingSphere{Center: l.Position, Radius: l.Range}
}

// forwardBounds centres the sphere half a range along the facing axis.
func forwardBounds(l *Light) BoundingSphere {
	return BoundingSphere{
		Center: l.Position.Add(l.Right().Mul(l.Range / 2)),
		Radius: math.Max(math.Sin(l.HalfAngle())*l.Range, l.Range),
	}
}

// lineBounds covers the quad drawn for a line light: half a range along the
// facing axis by half the line length across it.
func lineBounds(l *Light) BoundingSphere {
	return BoundingSphere{
		Center: l.Position.Add(l.Right().Mul(l.Range / 2)),
		Radius: math.Hypot(l.Range/2, l.LineLength/2),
	}
}

func neutralAttenuation(*Light) [4]float32 {
	return [4]float32{0, 0, 0, 1}
}

func rangeAttenuation(l *Light) [4]float32 {
	r := float32(l.Range)
	return [4]float32{1 / math32.Max(r*r, 0.00001), r, 0, 1}
}

// spotAttenuation adds the cone falloff: the inner cone is derived from
// the outer one with a fixed 46/64 tangent ratio.
func spotAttenuation(l *Light) [4]float32 {
	a := rangeAttenuation(l)
	outerRad := float32(l.HalfAngle())
	outerCos := math32.Cos(outerRad)
	innerCos := math32.Cos(math32.Atan(46.0 / 64.0 * math32.Tan(outerRad)))
	angleRange := math32.Max(innerCos-outerCos, 0.001)
	a[2] = 1 / angleRange
	a[3] = -outerCos * a[2]
	return a
}

// Technique selects how light is rendered. Each technique supports a
// subset of kinds.
type Technique uint8

const (
	// TechniqueMeshGeneration renders each light as its light volume fan.
	TechniqueMeshGeneration Technique = iota
	// TechniquePipeline packs all lights into one shadow map and shades
	// sprites from per-light parameter arrays.
	TechniquePipeline
	// TechniqueLightmapping draws a quad per light that reads its shadow
	// map row, filtered by a per-light culling mask.
	TechniqueLightmapping
)

var techniqueNames = [...]string{"mesh_generation", "pipeline", "lightmapping"}

func (t Technique) String() string {
	if int(t) < len(techniqueNames) {
		return techniqueNames[t]
	}
	return "unknown"
}

// ParseTechnique maps a technique name to its Technique.
func ParseTechnique(s string) (Technique, bool) {
	for i, name := range techniqueNames {
		if strings.EqualFold(s, name) {
			return Technique(i), true
		}
	}
	return TechniqueMeshGeneration, false
}

var supportedKinds = [...][]Kind{
	TechniqueMeshGeneration: {KindPoint, KindSpot},
	TechniquePipeline:       {KindPoint, KindSpot, KindGlobal},
	TechniqueLightmapping:   {KindPoint, KindSpot, KindLine},
}

// Supports reports whether t can render lights of kind k.
func (t Technique) Supports(k Kind) bool {
	if int(t) >= len(supportedKinds) {
		return false
	}
	for _, s := range supportedKinds[t] {
		if s == k {
			return true
		}
	}
	return false
}

const (
	minSpotAngle = 1
	maxSpotAngle = 179

	// cullingMaskBits is how many layers a lightmapping culling mask holds.
	cullingMaskBits = 16
)

// Validate normalises l for technique t. Unsupported kinds fall back to
// point lights; negative ranges, intensities and line lengths become zero
// and the spot angle is clamped to [1, 179] degrees.
func Validate(l *Light, t Technique) {
	if !t.Supports(l.Kind) {
		logging.Logger().Warn("light kind not supported by technique, using point",
			"light", l.Name, "kind", l.Kind.String(), "technique", t.String())
		l.Kind = KindPoint
	}
	l.Range = math.Max(0, l.Range)
	l.Intensity = math.Max(0, l.Intensity)
	l.LineLength = math.Max(0, l.LineLength)
	l.SpotAngle = math.Max(minSpotAngle, math.Min(maxSpotAngle, l.SpotAngle))
	if t == TechniqueLightmapping {
		l.LayerMask &= 1<<cullingMaskBits - 1
	}
}

// volumeParams describes l for the light volume builder.
func volumeParams(l *Light, minRays int) shadows.VolumeParams {
	return shadows.VolumeParams{
		Origin:      l.Position,
		Right:       l.Right(),
		Range:       l.Range,
		HalfAngle:   l.HalfAngle(),
		MinRayCount: minRays,
		Closed:      info(l.Kind).closed,
		LayerMask:   l.LayerMask,
	}
}
