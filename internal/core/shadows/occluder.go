package shadows

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// ShapeKind tags which accessor set of a Source carries its outline.
type ShapeKind uint8

const (
	// ShapeSimplePolygon sources expose one closed outline via SimpleShape.
	ShapeSimplePolygon ShapeKind = iota
	// ShapeCompositePaths sources expose several closed outlines via
	// PathCount and Path.
	ShapeCompositePaths
	// ShapeUncomposited marks multi-tile sources without compositing
	// information. They are skipped: extracting edges per tile is too
	// expensive to do every frame.
	ShapeUncomposited
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSimplePolygon:
		return "simple-polygon"
	case ShapeCompositePaths:
		return "composite-paths"
	case ShapeUncomposited:
		return "uncomposited"
	default:
		return "unknown"
	}
}

// Source is anything that can yield an occluder outline in local space,
// the transform to world space and the owner layer of its edges.
type Source interface {
	ShapeKind() ShapeKind

	// SimpleShape returns the closed outline of a ShapeSimplePolygon source.
	SimpleShape() []vec.Vec2

	// PathCount and Path expose the outlines of a ShapeCompositePaths source.
	PathCount() int
	Path(i int) []vec.Vec2

	Transform() matrix.Matrix
	OwnerLayer() uint8
}

// Occluder registers a Source with the collector.
type Occluder struct {
	Source Source

	// Static occluders go into the static pool, which is only rebuilt on
	// demand. Everything else is re-collected every frame.
	Static       bool
	CastsShadows bool
}

// Polygon is a simple closed outline, such as a sprite's physics shape.
type Polygon struct {
	Points []vec.Vec2
	Xform  matrix.Matrix
	Layer  uint8
}

// NewPolygon returns a polygon source with the identity transform.
func NewPolygon(points []vec.Vec2, layer uint8) *Polygon {
	return &Polygon{Points: points, Xform: matrix.Identity, Layer: layer}
}

func (p *Polygon) ShapeKind() ShapeKind     { return ShapeSimplePolygon }
func (p *Polygon) SimpleShape() []vec.Vec2  { return p.Points }
func (p *Polygon) PathCount() int           { return 0 }
func (p *Polygon) Path(int) []vec.Vec2      { return nil }
func (p *Polygon) Transform() matrix.Matrix { return p.Xform }
func (p *Polygon) OwnerLayer() uint8        { return p.Layer }

// CompositeCollider is a merged collider made of several closed paths.
type CompositeCollider struct {
	Paths [][]vec.Vec2
	Xform matrix.Matrix
	Layer uint8
}

func (c *CompositeCollider) ShapeKind() ShapeKind     { return ShapeCompositePaths }
func (c *CompositeCollider) SimpleShape() []vec.Vec2  { return nil }
func (c *CompositeCollider) PathCount() int           { return len(c.Paths) }
func (c *CompositeCollider) Path(i int) []vec.Vec2    { return c.Paths[i] }
func (c *CompositeCollider) Transform() matrix.Matrix { return c.Xform }
func (c *CompositeCollider) OwnerLayer() uint8        { return c.Layer }

// EdgeCount returns how many edges src emits, so parallel collectors can
// reserve disjoint ranges up front.
func EdgeCount(src Source) int {
	switch src.ShapeKind() {
	case ShapeSimplePolygon:
		return len(src.SimpleShape())
	case ShapeCompositePaths:
		n := 0
		for i := 0; i < src.PathCount(); i++ {
			n += len(src.Path(i))
		}
		return n
	default:
		return 0
	}
}

// emitEdges writes the edges of src into dst, which must hold at least
// EdgeCount(src) entries, and returns how many were written.
func emitEdges(src Source, dst []Edge) int {
	m := src.Transform()
	layer := src.OwnerLayer()
	n := 0

	emitPath := func(shape []vec.Vec2) {
		count := len(shape)
		for i := 0; i < count; i++ {
			k := (i + 1) % count
			dst[n] = Edge{
				A:     TransformPoint(m, shape[i]),
				B:     TransformPoint(m, shape[k]),
				Layer: layer,
			}
			n++
		}
	}

	switch src.ShapeKind() {
	case ShapeSimplePolygon:
		emitPath(src.SimpleShape())
	case ShapeCompositePaths:
		for i := 0; i < src.PathCount(); i++ {
			path := src.Path(i)
			if len(path) == 0 {
				continue
			}
			emitPath(path)
		}
	}
	return n
}
