package shadows

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Epsilon is the shared tolerance of the intersection routines.
const Epsilon = 1.0 / 1024

// ClosestPointOnEdge projects p onto the segment [a,b], clamped to the
// segment.
func ClosestPointOnEdge(a, b, p vec.Vec2) vec.Vec2 {
	ab := b.Sub(a)
	ab2 := ab.Dot(ab)
	if ab2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / ab2
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Mul(t))
}

// SegmentIntersectParametric intersects the ray p0→p1 with the closed
// segment [a,b] and returns the ray parameter t in (0,1] of the crossing.
// It returns 0 for parallel lines and for crossings outside the segment
// (tolerance Epsilon in world units), behind p0 or past p1. Callers treat
// any result <= Epsilon as "no hit".
func SegmentIntersectParametric(p0, p1, a, b vec.Vec2) float64 {
	d := p1.Sub(p0)
	s := b.Sub(a)

	det := cross(d, s)
	if math.Abs(det) < Epsilon {
		return 0
	}

	w := a.Sub(p0)
	t := cross(w, s) / det
	u := cross(w, d) / det

	tolU := Epsilon / s.Length()
	if u < -tolU || u > 1+tolU {
		return 0
	}
	tolT := Epsilon / d.Length()
	if t <= 0 || t > 1+tolT {
		return 0
	}
	return math.Min(t, 1)
}

// FarthestPointsOnCircleFromSegment intersects the circle (center, radius)
// with the line that starts at the endpoint of [a,b] nearer to center and
// runs along the edge away from it. Roots whose distance from that
// endpoint lies in (Epsilon, len+Epsilon] are returned; n is 0, 1 or 2.
func FarthestPointsOnCircleFromSegment(a, b, center vec.Vec2, radius float64) (pts [2]vec.Vec2, n int) {
	ab := b.Sub(a)
	length := ab.Length()
	if length == 0 {
		return pts, 0
	}

	p := a
	d := ab.Mul(1 / length)
	if DistanceSq(b, center) < DistanceSq(a, center) {
		p = b
		d = d.Mul(-1)
	}

	pq := p.Sub(center)
	// d is unit length, so the quadratic's leading coefficient is 1.
	qb := 2 * d.Dot(pq)
	qc := pq.Dot(pq) - radius*radius
	disc := qb*qb - 4*qc
	if disc < 0 {
		return pts, 0
	}

	root := math.Sqrt(disc)
	for _, t := range [2]float64{(-qb + root) / 2, (-qb - root) / 2} {
		if t > Epsilon && t <= length+Epsilon {
			pts[n] = p.Add(d.Mul(t))
			n++
		}
	}
	return pts, n
}

// NearestHit casts a ray of length rng from origin along the unit vector
// dir and returns the smallest hit parameter over edges, or 1 when the ray
// reaches full range.
func NearestHit(origin, dir vec.Vec2, rng float64, edges []Edge) float64 {
	end := origin.Add(dir.Mul(rng))
	f := 1.0
	for i := range edges {
		f2 := SegmentIntersectParametric(origin, end, edges[i].A, edges[i].B)
		if f2 <= Epsilon {
			continue
		}
		if f2 < f {
			f = f2
		}
	}
	return f
}

// SignedAngle returns the angle in radians from `from` to `to`, positive
// counter-clockwise, in (-π, π].
func SignedAngle(from, to vec.Vec2) float64 {
	return math.Atan2(cross(from, to), from.Dot(to))
}

// Rotate rotates v counter-clockwise by angle radians.
func Rotate(v vec.Vec2, angle float64) vec.Vec2 {
	sin, cos := math.Sincos(angle)
	return vec.Vec2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// Normalize returns v scaled to unit length; the zero vector is returned
// unchanged.
func Normalize(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

// TransformPoint applies the affine transform m to p.
func TransformPoint(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// PointInPolygon tests if a point is inside a polygon using ray casting
func PointInPolygon(point vec.Vec2, polygon []vec.Vec2) bool {
	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if ((yi > point.Y) != (yj > point.Y)) &&
			(point.X < (xj-xi)*(point.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b vec.Vec2) float64 {
	return b.Sub(a).Length()
}

// DistanceSq returns the squared distance between two points.
func DistanceSq(a, b vec.Vec2) float64 {
	d := b.Sub(a)
	return d.Dot(d)
}

func cross(a, b vec.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}
