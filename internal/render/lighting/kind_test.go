package lighting

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"
)

func TestTechniqueSupports(t *testing.T) {
	tests := []struct {
		technique Technique
		kind      Kind
		want      bool
	}{
		{TechniqueMeshGeneration, KindPoint, true},
		{TechniqueMeshGeneration, KindSpot, true},
		{TechniqueMeshGeneration, KindGlobal, false},
		{TechniquePipeline, KindGlobal, true},
		{TechniquePipeline, KindLine, false},
		{TechniqueLightmapping, KindLine, true},
		{TechniqueLightmapping, KindGlobal, false},
		{TechniqueLightmapping, KindArea, false},
	}
	for _, tt := range tests {
		if got := tt.technique.Supports(tt.kind); got != tt.want {
			t.Errorf("%s supports %s: expected %v, got %v", tt.technique, tt.kind, tt.want, got)
		}
	}
}

func TestValidateClampsUnsupportedKind(t *testing.T) {
	l := NewLight("sun", KindGlobal, vec.Vec2{}, 10)
	Validate(l, TechniqueMeshGeneration)
	if l.Kind != KindPoint {
		t.Errorf("Expected global to fall back to point, got %s", l.Kind)
	}

	line := NewLight("strip", KindLine, vec.Vec2{}, 10)
	Validate(line, TechniqueLightmapping)
	if line.Kind != KindLine {
		t.Errorf("Expected line to stay a line light, got %s", line.Kind)
	}
}

func TestValidateNormalisesRanges(t *testing.T) {
	l := NewLight("spot", KindSpot, vec.Vec2{}, -3)
	l.SpotAngle = 200
	l.Intensity = -1
	l.LineLength = -2
	l.LayerMask = 0xdeadbeef
	Validate(l, TechniqueLightmapping)

	if l.Range != 0 {
		t.Errorf("Expected range 0, got %v", l.Range)
	}
	if l.SpotAngle != 179 {
		t.Errorf("Expected spot angle 179, got %v", l.SpotAngle)
	}
	if l.Intensity != 0 || l.LineLength != 0 {
		t.Errorf("Expected intensity and line length 0, got %v/%v", l.Intensity, l.LineLength)
	}
	if l.LayerMask != 0xbeef {
		t.Errorf("Expected 16-bit culling mask 0xbeef, got %#x", l.LayerMask)
	}

	l.SpotAngle = 0
	Validate(l, TechniquePipeline)
	if l.SpotAngle != 1 {
		t.Errorf("Expected spot angle 1, got %v", l.SpotAngle)
	}
}

func TestHalfAngle(t *testing.T) {
	spot := NewLight("spot", KindSpot, vec.Vec2{}, 10)
	spot.SpotAngle = 90
	if !near(spot.HalfAngle(), math.Pi/4) {
		t.Errorf("Expected π/4, got %v", spot.HalfAngle())
	}

	point := NewLight("point", KindPoint, vec.Vec2{}, 10)
	point.SpotAngle = 90
	if point.HalfAngle() != math.Pi {
		t.Errorf("Expected π for point lights, got %v", point.HalfAngle())
	}
}

func TestBounds(t *testing.T) {
	point := NewLight("point", KindPoint, vec.Vec2{X: 2, Y: 3}, 10)
	if b := point.Bounds(); b.Center != point.Position || b.Radius != 10 {
		t.Errorf("Expected sphere at light with radius 10, got %+v", b)
	}

	spot := NewLight("spot", KindSpot, vec.Vec2{}, 10)
	spot.Rotation = math.Pi / 2
	b := spot.Bounds()
	if !near(b.Center.X, 0) || !near(b.Center.Y, 5) {
		t.Errorf("Expected center half a range along +Y, got %v", b.Center)
	}
	if b.Radius != 10 {
		t.Errorf("Expected radius 10, got %v", b.Radius)
	}

	line := NewLight("line", KindLine, vec.Vec2{}, 6)
	line.LineLength = 8
	if b := line.Bounds(); !near(b.Radius, 5) {
		t.Errorf("Expected radius 5, got %v", b.Radius)
	}
}

func TestSpotAttenuation(t *testing.T) {
	l := NewLight("spot", KindSpot, vec.Vec2{}, 4)
	l.SpotAngle = 90
	a := ComputeParams(l, 0, 1, TechniquePipeline, ConventionVAxisMatchesClip).Attenuation

	outerCos := math.Cos(math.Pi / 4)
	innerCos := math.Cos(math.Atan(46.0 / 64.0))
	scale := 1 / (innerCos - outerCos)

	if !near32(a[0], 1.0/16) || !near32(a[1], 4) {
		t.Errorf("Expected range terms (1/16, 4), got (%v, %v)", a[0], a[1])
	}
	if !near32(a[2], scale) || !near32(a[3], -outerCos*scale) {
		t.Errorf("Expected cone terms (%v, %v), got (%v, %v)", scale, -outerCos*scale, a[2], a[3])
	}
}

func TestParseNames(t *testing.T) {
	if k, ok := ParseKind("Spot"); !ok || k != KindSpot {
		t.Errorf("Expected spot, got %v %v", k, ok)
	}
	if _, ok := ParseKind("laser"); ok {
		t.Error("Expected unknown kind to fail")
	}
	if tech, ok := ParseTechnique("lightmapping"); !ok || tech != TechniqueLightmapping {
		t.Errorf("Expected lightmapping, got %v %v", tech, ok)
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func near32(a float32, b float64) bool {
	return math.Abs(float64(a)-b) < 1e-4
}
