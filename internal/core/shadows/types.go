package shadows

import "seehuhn.de/go/geom/vec"

// Edge is one world-space occluder edge. Intersection tests treat it as
// directionless, but A→B order is kept so outputs stay deterministic.
type Edge struct {
	A, B  vec.Vec2
	Layer uint8 // owner layer of the occluder that emitted the edge
}

// EdgePool is a flat, reusable edge buffer. Its capacity survives across
// frames; only the logical length is reset on rebuild.
type EdgePool struct {
	edges []Edge

	// generation is bumped whenever the pool is rebuilt from scratch.
	generation uint64

	// base and baseGen record which pool (and which generation of it) the
	// first baseLen edges were copied from by ResetTo.
	base    *EdgePool
	baseGen uint64
	baseLen int
}

// NewEdgePool returns an empty pool with room for capacity edges.
func NewEdgePool(capacity int) *EdgePool {
	return &EdgePool{edges: make([]Edge, 0, capacity)}
}

// Reset empties the pool, keeping its capacity.
func (p *EdgePool) Reset() {
	p.edges = p.edges[:0]
	p.generation++
	p.base = nil
}

// Append adds an edge to the end of the pool.
func (p *EdgePool) Append(e Edge) {
	p.edges = append(p.edges, e)
}

// Len returns the number of edges in the pool.
func (p *EdgePool) Len() int {
	return len(p.edges)
}

// Cap returns the retained capacity of the pool.
func (p *EdgePool) Cap() int {
	return cap(p.edges)
}

// Edges returns the pool contents. The slice is only valid until the next
// mutation of the pool.
func (p *EdgePool) Edges() []Edge {
	return p.edges
}

// Generation identifies the current rebuild of the pool.
func (p *EdgePool) Generation() uint64 {
	return p.generation
}

// ResetTo makes the pool hold exactly the contents of src. When the pool
// already starts with the current generation of src it is truncated in
// place; otherwise src is copied into the existing capacity. Shrinking
// never reallocates.
func (p *EdgePool) ResetTo(src *EdgePool) {
	n := len(src.edges)
	if p.base == src && p.baseGen == src.generation && p.baseLen == n && len(p.edges) >= n {
		p.edges = p.edges[:n]
		return
	}
	p.edges = append(p.edges[:0], src.edges...)
	p.generation++
	p.base = src
	p.baseGen = src.generation
	p.baseLen = n
}

// grow extends the pool by n zero edges and returns the new tail so
// callers can fill disjoint ranges of it.
func (p *EdgePool) grow(n int) []Edge {
	start := len(p.edges)
	if need := start + n; need > cap(p.edges) {
		grown := make([]Edge, start, need+need/4)
		copy(grown, p.edges)
		p.edges = grown
	}
	p.edges = p.edges[:start+n]
	return p.edges[start:]
}
