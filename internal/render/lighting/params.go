package lighting

import (
	"github.com/chewxy/math32"
)

// MaxVisibleLights is the size of the pipeline's per-light shader arrays.
const MaxVisibleLights = 16

// LightParams are the shader vectors of one slotted light.
type LightParams struct {
	// Color is the light color scaled by its intensity.
	Color [4]float32

	// DirectionOrPosition is (x, y, 0, 1) for positional lights and the
	// fixed direction (0, 0, 1, 0) for global lights.
	DirectionOrPosition [4]float32

	// SpotDirection points against the facing axis of spot lights and is
	// zero otherwise.
	SpotDirection [4]float32

	// Attenuation is (1/range², range, cone scale, cone offset).
	Attenuation [4]float32

	// ShadowMap holds the slot coordinates, see ShadowMapParams. For
	// lightmapping z carries the culling mask.
	ShadowMap [4]float32

	// LightData is (x, y, facing angle, half angle) for the shadow map
	// writer. Line lights carry their two endpoints instead.
	LightData [4]float32
}

// FrameParams are the parameters published to the rasterizer for a frame.
type FrameParams struct {
	Lights       []LightParams // indexed by shadow slot
	VisibleCount int
	Ambient      float32
}

func (p *FrameParams) reset(ambient float64) {
	p.Lights = p.Lights[:0]
	p.VisibleCount = 0
	p.Ambient = float32(ambient)
}

// ComputeParams derives the shader vectors of l in slot for technique t.
func ComputeParams(l *Light, slot, maxSlots int, t Technique, conv Convention) LightParams {
	var p LightParams

	scale := float32(l.Intensity) / 255
	p.Color = [4]float32{
		float32(l.Color.R) * scale,
		float32(l.Color.G) * scale,
		float32(l.Color.B) * scale,
		float32(l.Color.A) * scale,
	}

	x, y := float32(l.Position.X), float32(l.Position.Y)
	if l.Kind == KindGlobal {
		p.DirectionOrPosition = [4]float32{0, 0, 1, 0}
	} else {
		p.DirectionOrPosition = [4]float32{x, y, 0, 1}
	}

	right := l.Right()
	if l.Kind == KindSpot {
		p.SpotDirection = [4]float32{-float32(right.X), -float32(right.Y), 0, 0}
	}

	p.Attenuation = info(l.Kind).attenuation(l)

	p.ShadowMap = ShadowMapParams(slot, maxSlots, conv)
	if t == TechniqueLightmapping {
		p.ShadowMap[2] = float32(l.LayerMask & (1<<cullingMaskBits - 1))
	}

	angle := math32.Atan2(float32(right.Y), float32(right.X))
	switch {
	case l.Kind == KindLine:
		a, b := l.LineEndpoints()
		p.LightData = [4]float32{float32(a.X), float32(a.Y), float32(b.X), float32(b.Y)}
	case t == TechniqueLightmapping:
		p.LightData = [4]float32{x, y, angle, float32(l.HalfAngle())}
	default:
		// The pipeline writes full-circle shadow rows for every kind.
		p.LightData = [4]float32{x, y, angle, math32.Pi}
	}
	return p
}
