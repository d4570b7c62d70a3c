package shadows

import (
	"math"
	"sort"

	"seehuhn.de/go/geom/vec"
)

const (
	// StraddleAngle is the angular offset of the two probe rays cast beside
	// every edge endpoint. It is a visual tuning value: the probes decide
	// whether tangent rays are needed to keep circular falloff smooth.
	StraddleAngle = 0.4 * math.Pi / 180

	// AngleTolerance widens the light cone when accepting hit points.
	AngleTolerance = 0.2 * math.Pi / 180

	// fullRange is the hit parameter above which a ray counts as unobstructed.
	fullRange = 0.999

	// AllLayers is a layer mask that accepts edges of every owner layer.
	AllLayers = ^uint32(0)
)

// VolumeParams describes one light for the volume builder.
type VolumeParams struct {
	Origin vec.Vec2
	Right  vec.Vec2 // unit forward axis; angles are measured from it
	Range  float64

	// HalfAngle is half the angular extent in radians, π for a full circle.
	HalfAngle   float64
	MinRayCount int

	// Closed adds the triangle that wraps the last point back to the first.
	// Set for every kind except spot lights.
	Closed bool

	// LayerMask selects which owner layers occlude this light. Layers ≥ 32
	// are always included.
	LayerMask uint32
}

// LightVolume is the lit area of a light as a triangle fan: vertex 0 is
// the light origin, the rest are hit points ordered by signed angle
// around the light's right axis. UV.X is distance from the origin over the
// light range.
type LightVolume struct {
	Vertices []vec.Vec2
	UVs      []vec.Vec2
	Indices  []uint32
}

// Reset empties the volume, keeping its buffers.
func (v *LightVolume) Reset() {
	v.Vertices = v.Vertices[:0]
	v.UVs = v.UVs[:0]
	v.Indices = v.Indices[:0]
}

// Contains reports whether p lies inside the lit area.
func (v *LightVolume) Contains(p vec.Vec2) bool {
	for i := 0; i+2 < len(v.Indices); i += 3 {
		tri := [3]vec.Vec2{
			v.Vertices[v.Indices[i]],
			v.Vertices[v.Indices[i+1]],
			v.Vertices[v.Indices[i+2]],
		}
		if PointInPolygon(p, tri[:]) {
			return true
		}
	}
	return false
}

type hitPoint struct {
	p     vec.Vec2
	angle float64
}

// Caster owns the scratch buffers used while building light volumes. A
// Caster must not be shared by concurrent builds.
type Caster struct {
	params VolumeParams
	valid  []Edge
	hits   []hitPoint
}

// NewCaster returns a caster with empty scratch buffers.
func NewCaster() *Caster {
	return &Caster{}
}

// CandidateEdges filters edges down to those whose closest point lies
// within range of the light and whose layer passes the mask. The result
// aliases the caster's scratch buffer.
func (c *Caster) CandidateEdges(params VolumeParams, edges []Edge) []Edge {
	c.valid = c.valid[:0]
	r2 := params.Range * params.Range
	for _, e := range edges {
		if !layerVisible(params.LayerMask, e.Layer) {
			continue
		}
		closest := ClosestPointOnEdge(e.A, e.B, params.Origin)
		if DistanceSq(closest, params.Origin) > r2 {
			continue
		}
		c.valid = append(c.valid, e)
	}
	return c.valid
}

// Build overwrites out with the light volume of params against edges.
func (c *Caster) Build(params VolumeParams, edges []Edge, out *LightVolume) {
	out.Reset()
	c.hits = c.hits[:0]
	c.params = params
	if params.Range <= 0 {
		return
	}

	c.CandidateEdges(params, edges)

	// Base rays guarantee coverage even with no obstacles.
	if n := params.MinRayCount; n > 0 {
		step := 2 * params.HalfAngle / float64(n)
		for i := 0; i < n; i++ {
			j := float64(i) - float64(n)/2
			c.castRay(Rotate(params.Right, j*step))
		}
		// The steps stop one short of +HalfAngle. A full circle wraps onto
		// its first ray; an open cone needs its upper edge cast explicitly.
		if !params.Closed {
			c.castRay(Rotate(params.Right, params.HalfAngle))
		}
	}

	// Rays toward every endpoint, probing beside it for silhouettes.
	for _, e := range c.valid {
		c.castEndpoint(e, e.A)
		c.castEndpoint(e, e.B)
	}

	sort.SliceStable(c.hits, func(i, j int) bool {
		return c.hits[i].angle < c.hits[j].angle
	})

	out.Vertices = append(out.Vertices, params.Origin)
	out.UVs = append(out.UVs, vec.Vec2{})
	for _, h := range c.hits {
		out.Vertices = append(out.Vertices, h.p)
		out.UVs = append(out.UVs, vec.Vec2{X: Distance(params.Origin, h.p) / params.Range})
	}

	last := uint32(len(out.Vertices) - 1)
	for i := uint32(2); i <= last; i++ {
		out.Indices = append(out.Indices, 0, i, i-1)
	}
	if params.Closed && last >= 2 {
		out.Indices = append(out.Indices, 0, 1, last)
	}
}

func (c *Caster) castEndpoint(e Edge, endpoint vec.Vec2) {
	to := endpoint.Sub(c.params.Origin)
	if to.Length() == 0 {
		return
	}
	dir := Normalize(to)

	if c.castRay(dir) > fullRange {
		c.smoothCircle(e)
		return
	}

	grazing := c.castRay(Rotate(dir, StraddleAngle)) < fullRange
	grazing = c.castRay(Rotate(dir, -StraddleAngle)) < fullRange || grazing
	if grazing {
		c.smoothCircle(e)
	}
}

// smoothCircle casts rays toward where the edge's line leaves the light
// circle, so the falloff boundary is not faceted near corners.
func (c *Caster) smoothCircle(e Edge) {
	pts, n := FarthestPointsOnCircleFromSegment(e.A, e.B, c.params.Origin, c.params.Range)
	for i := 0; i < n; i++ {
		to := pts[i].Sub(c.params.Origin)
		if to.Length() == 0 {
			continue
		}
		c.castRay(Normalize(to))
	}
}

// castRay records the nearest hit along the unit direction dir and
// returns its parameter in (0,1].
func (c *Caster) castRay(dir vec.Vec2) float64 {
	p := c.params
	f := NearestHit(p.Origin, dir, p.Range, c.valid)
	hit := p.Origin.Add(dir.Mul(f * p.Range))

	angle := SignedAngle(p.Right, hit.Sub(p.Origin))
	if math.Abs(angle) <= p.HalfAngle+AngleTolerance {
		c.hits = append(c.hits, hitPoint{p: hit, angle: angle})
	}
	return f
}

func layerVisible(mask uint32, layer uint8) bool {
	if layer >= 32 {
		return true
	}
	return mask&(1<<layer) != 0
}
